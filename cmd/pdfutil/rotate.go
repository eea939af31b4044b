// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-utilizer/internal/operation"
)

var rotateCmd = newOperationCommand(opCommand{
	op:    operation.Rotate,
	use:   "rotate <file.pdf> --angle 90 [--pages 1,3]",
	short: "Rotate all or selected pages of a PDF",
	long: `Rotate turns pages clockwise by 90, 180, or 270 degrees. Every page is
rotated unless --pages lists the pages to turn.`,
	flags:   rotateFlags,
	request: rotateRequest,
})

func rotateFlags(cmd *cobra.Command) {
	cmd.Flags().String("angle", "90", "rotation angle: 90, 180, or 270")
	cmd.Flags().Bool("all-pages", true, "rotate every page")
	cmd.Flags().String("pages", "", "pages to rotate, e.g. 1,3 (turns off --all-pages)")
}

// rotateRequest sends all_pages=false when --pages is given and
// --all-pages was left at its default.
func rotateRequest(cmd *cobra.Command, args []string) (operation.Request, error) {
	req, err := fileRequest("file", map[string]string{
		"angle":     "angle",
		"all-pages": "all_pages",
		"pages":     "pages",
	})(cmd, args)
	if err != nil {
		return req, err
	}
	if cmd.Flags().Changed("pages") && !cmd.Flags().Changed("all-pages") {
		req.Set("all_pages", "false")
	}
	return req, nil
}

func init() {
	rootCmd.AddCommand(rotateCmd)
}
