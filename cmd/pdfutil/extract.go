// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/pdiddy/pdf-utilizer/internal/operation"
)

var extractTextCmd = newOperationCommand(opCommand{
	op:      operation.ExtractText,
	use:     "extract-text <file.pdf>",
	short:   "Extract the text of a PDF",
	long:    `Extract-text asks the service for the document's text, returned as a PDF.`,
	request: fileRequest("file", nil),
})

var extractImagesCmd = newOperationCommand(opCommand{
	op:      operation.ExtractImages,
	use:     "extract-images <file.pdf>",
	short:   "Extract the images of a PDF",
	long:    `Extract-images collects the embedded images of a PDF into a new PDF.`,
	request: fileRequest("file", nil),
})

func init() {
	rootCmd.AddCommand(extractTextCmd)
	rootCmd.AddCommand(extractImagesCmd)
}
