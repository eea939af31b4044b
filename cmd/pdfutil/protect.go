// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-utilizer/internal/operation"
)

var protectCmd = newOperationCommand(opCommand{
	op:    operation.Protect,
	use:   "protect <file.pdf> --password <secret>",
	short: "Encrypt a PDF with a password",
	flags: func(cmd *cobra.Command) {
		cmd.Flags().String("password", "", "password required to open the result")
	},
	request: fileRequest("file", map[string]string{"password": "password"}),
})

func init() {
	rootCmd.AddCommand(protectCmd)
}
