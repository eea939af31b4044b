// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-utilizer/internal/operation"
)

var splitCmd = newOperationCommand(opCommand{
	op:    operation.Split,
	use:   "split <file.pdf> --pages 1,3,5",
	short: "Extract selected pages into a new PDF",
	long: `Split keeps the listed pages of a PDF. Pages are numbered from 1 and
may include ranges, e.g. "1-3,7".`,
	flags: func(cmd *cobra.Command) {
		cmd.Flags().String("pages", "", "pages to keep, e.g. 1,3,5 or 2-4")
	},
	request: fileRequest("file", map[string]string{"pages": "pages"}),
})

func init() {
	rootCmd.AddCommand(splitCmd)
}
