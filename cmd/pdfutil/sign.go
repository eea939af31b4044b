// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-utilizer/internal/operation"
)

var signCmd = newOperationCommand(opCommand{
	op:    operation.Sign,
	use:   "sign <file.pdf> --signature <image> --page N --x X --y Y --width W --height H",
	short: "Stamp a signature image onto a PDF page",
	long: `Sign places a signature image on one page. Coordinates and size are
in PDF points; the page is numbered from 1.`,
	flags: func(cmd *cobra.Command) {
		cmd.Flags().String("signature", "", "signature image (PNG or JPEG)")
		cmd.Flags().String("page", "1", "page to sign")
		cmd.Flags().String("x", "0", "horizontal position")
		cmd.Flags().String("y", "0", "vertical position")
		cmd.Flags().String("width", "150", "signature width")
		cmd.Flags().String("height", "50", "signature height")
	},
	request: signRequest,
})

func signRequest(cmd *cobra.Command, args []string) (operation.Request, error) {
	req, err := fileRequest("file", map[string]string{
		"page":   "page",
		"x":      "x",
		"y":      "y",
		"width":  "width",
		"height": "height",
	})(cmd, args)
	if err != nil {
		return req, err
	}
	sigPath, _ := cmd.Flags().GetString("signature")
	sig, err := inputFiles("signature", sigPath)
	if err != nil {
		return req, err
	}
	req.Files = append(req.Files, sig...)
	return req, nil
}

func init() {
	rootCmd.AddCommand(signCmd)
}
