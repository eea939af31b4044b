// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/pdiddy/pdf-utilizer/internal/operation"
)

var mergeCmd = newOperationCommand(opCommand{
	op:    operation.Merge,
	use:   "merge <file.pdf> <file.pdf> [more.pdf...]",
	short: "Merge two or more PDFs into one",
	long: `Merge sends the PDFs to the service in the order given and saves the
combined document.`,
	request: fileRequest("files", nil),
})

func init() {
	rootCmd.AddCommand(mergeCmd)
}
