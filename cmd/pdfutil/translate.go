// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-utilizer/internal/operation"
)

var translateCmd = newOperationCommand(opCommand{
	op:    operation.Translate,
	use:   "translate <file.pdf> --lang <code>",
	short: "Translate a PDF into another language",
	long: `Translate sends a PDF and a BCP 47 language code (for example es, fr,
or pt-BR) and saves the translated document.`,
	flags: func(cmd *cobra.Command) {
		cmd.Flags().String("lang", "fr", "target language code, e.g. es")
	},
	request: fileRequest("file", map[string]string{"lang": "target_language"}),
})

func init() {
	rootCmd.AddCommand(translateCmd)
}
