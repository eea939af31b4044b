// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-utilizer/internal/operation"
)

var compressCmd = newOperationCommand(opCommand{
	op:    operation.Compress,
	use:   "compress <file.pdf> [--level medium]",
	short: "Reduce the size of a PDF",
	flags: func(cmd *cobra.Command) {
		cmd.Flags().String("level", "medium", "compression level: "+strings.Join(operation.CompressionLevels, ", "))
	},
	request: fileRequest("file", map[string]string{"level": "compression_level"}),
})

func init() {
	rootCmd.AddCommand(compressCmd)
}
