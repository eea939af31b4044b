// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package operation

import (
	"sort"

	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

const (
	// TypePDF is the artifact type of every PDF-producing operation.
	TypePDF = "application/pdf"
	// TypeMPEG is the artifact type of synthesized speech.
	TypeMPEG = "audio/mpeg"

	// ProcessingMessage is the info status shown while a request is in flight.
	ProcessingMessage = "processing"
)

// Operation names.
const (
	Merge         = "merge"
	Split         = "split"
	ExtractText   = "extract-text"
	ExtractImages = "extract-images"
	Sign          = "sign"
	Protect       = "protect"
	Rotate        = "rotate"
	Compress      = "compress"
	TextToSpeech  = "tts"
	SpeechToText  = "stt"
	SpeechCapture = "stt-capture"
	Translate     = "translate"
)

const (
	msgSelectPDF   = "select a PDF file"
	msgSelectAudio = "select an audio file"
)

func singlePDF() []FileSlot {
	return []FileSlot{{Field: "file", Min: 1, Max: 1, MissingMessage: msgSelectPDF}}
}

// Catalog is a set of operation specs keyed by name.
type Catalog struct {
	specs map[string]Spec
}

// NewCatalog builds a catalog from specs. Later specs replace earlier
// ones with the same name.
func NewCatalog(specs ...Spec) *Catalog {
	c := &Catalog{specs: make(map[string]Spec, len(specs))}
	for _, s := range specs {
		c.specs[s.Name] = s
	}
	return c
}

// Lookup returns the spec for name.
func (c *Catalog) Lookup(name string) (Spec, bool) {
	s, ok := c.specs[name]
	return s, ok
}

// MustLookup returns the spec for name and panics if it is missing. It is
// meant for wiring code that names built-in operations.
func (c *Catalog) MustLookup(name string) Spec {
	s, ok := c.Lookup(name)
	if !ok {
		panic("operation: unknown operation " + name)
	}
	return s
}

// Specs returns every spec sorted by name.
func (c *Catalog) Specs() []Spec {
	out := make([]Spec, 0, len(c.specs))
	for _, s := range c.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Default returns the catalog of operations offered by the processing
// service.
func Default() *Catalog {
	return NewCatalog(
		Spec{
			Name:     Merge,
			Title:    "Merge PDFs",
			Endpoint: "pdf/merge",
			Files: []FileSlot{
				{Field: "files", Min: 2, MissingMessage: "select at least two files"},
			},
			OutputType:     TypePDF,
			SuccessMessage: "PDFs merged successfully!",
			FailureMessage: "Error merging PDFs. Please try again.",
			DefaultOutput:  "merged.pdf",
		},
		Spec{
			Name:     Split,
			Title:    "Split PDF",
			Endpoint: "pdf/split",
			Files:    singlePDF(),
			Params: []Param{
				{Name: "pages", Required: true, MissingMessage: "specify pages to split", Check: checkPageList, Encode: encodePageListJSON},
			},
			OutputType:     TypePDF,
			SuccessMessage: "PDF split successfully!",
			FailureMessage: "Error splitting PDF. Please try again.",
			DefaultOutput:  "split.pdf",
		},
		Spec{
			Name:           ExtractText,
			Title:          "Extract Text",
			Endpoint:       "pdf/extract_text",
			Files:          singlePDF(),
			OutputType:     TypePDF,
			SuccessMessage: "Text extracted successfully! Download the PDF.",
			FailureMessage: "Error extracting text. Please try again.",
			DefaultOutput:  "extracted_text.pdf",
		},
		Spec{
			Name:           ExtractImages,
			Title:          "Extract Images",
			Endpoint:       "pdf/extract-images",
			Files:          singlePDF(),
			OutputType:     TypePDF,
			SuccessMessage: "Image extraction complete!",
			FailureMessage: "Error extracting images. Please try again.",
			DefaultOutput:  "extracted_images.pdf",
		},
		Spec{
			Name:     Sign,
			Title:    "Sign PDF",
			Endpoint: "pdf/sign",
			Files: []FileSlot{
				{Field: "file", Min: 1, Max: 1, MissingMessage: msgSelectPDF},
				{Field: "signature", Min: 1, Max: 1, MissingMessage: "select a signature image"},
			},
			Params: []Param{
				{Name: "page", Required: true, MissingMessage: "specify the page to sign", Check: checkPositiveInt("page")},
				{Name: "x", Required: true, MissingMessage: "specify the x position", Check: checkNonNegativeInt("x")},
				{Name: "y", Required: true, MissingMessage: "specify the y position", Check: checkNonNegativeInt("y")},
				{Name: "height", Required: true, MissingMessage: "specify the signature height", Check: checkNonNegativeInt("height")},
				{Name: "width", Required: true, MissingMessage: "specify the signature width", Check: checkNonNegativeInt("width")},
			},
			OutputType:     TypePDF,
			SuccessMessage: "PDF signed successfully!",
			FailureMessage: "Error signing PDF. Please try again.",
			DefaultOutput:  "signed.pdf",
		},
		Spec{
			Name:     Protect,
			Title:    "Protect PDF",
			Endpoint: "pdf/protect",
			Files:    singlePDF(),
			Params: []Param{
				{Name: "password", Required: true, MissingMessage: "enter a password"},
			},
			OutputType:     TypePDF,
			SuccessMessage: "PDF protected successfully!",
			FailureMessage: "Error protecting PDF. Please try again.",
			DefaultOutput:  "protected.pdf",
		},
		Spec{
			Name:     Rotate,
			Title:    "Rotate PDF",
			Endpoint: "pdf/rotate",
			Files:    singlePDF(),
			Params: []Param{
				{Name: "angle", Required: true, MissingMessage: "select a rotation angle", Check: checkAngle},
				{Name: "all_pages", Required: true, MissingMessage: "choose whether to rotate all pages", Check: checkBool, Encode: encodeBool},
				{Name: "pages", Check: checkPageList, Omit: rotatesAllPages},
			},
			Rules:          []Rule{requirePagesUnlessAll},
			OutputType:     TypePDF,
			SuccessMessage: "PDF rotated successfully!",
			FailureMessage: "Error rotating PDF. Please try again.",
			DefaultOutput:  "rotated.pdf",
		},
		Spec{
			Name:     Compress,
			Title:    "Compress PDF",
			Endpoint: "pdf/compress",
			Files:    singlePDF(),
			Params: []Param{
				{Name: "compression_level", Required: true, MissingMessage: "select a compression level", Check: checkCompressionLevel, Encode: encodeLower},
			},
			OutputType:     TypePDF,
			SuccessMessage: "PDF compressed successfully!",
			FailureMessage: "Error compressing PDF. Please try again.",
			DefaultOutput:  "compressed.pdf",
		},
		Spec{
			Name:           TextToSpeech,
			Title:          "Text to Speech",
			Endpoint:       "tts/convert",
			Files:          singlePDF(),
			OutputType:     TypeMPEG,
			SuccessMessage: "Audio generated successfully!",
			FailureMessage: "Error converting text to speech. Please try again.",
			DefaultOutput:  "speech.mp3",
		},
		Spec{
			Name:     SpeechToText,
			Title:    "Speech to Text",
			Endpoint: "stt/convert",
			Files: []FileSlot{
				{Field: "audio", Min: 1, Max: 1, MissingMessage: msgSelectAudio},
			},
			OutputType:     TypePDF,
			SuccessMessage: "Transcription completed!",
			FailureMessage: "Failed to convert speech to text.",
			DefaultOutput:  "transcription.pdf",
			MetadataHeader: "X-Transcribed-Text",
		},
		Spec{
			Name:     SpeechCapture,
			Title:    "Speech to Text (microphone)",
			Endpoint: "stt/convert",
			Encoding: EncodingJSON,
			Params: []Param{
				{Name: "audio_base64", Required: true, MissingMessage: "no audio captured", Check: checkBase64Audio},
			},
			OutputType:     TypePDF,
			SuccessMessage: "Transcription completed!",
			FailureMessage: "Unknown error while converting speech from mic",
			DefaultOutput:  "transcription.pdf",
			MetadataHeader: "X-Transcribed-Text",
		},
		Spec{
			Name:     Translate,
			Title:    "Translate PDF",
			Endpoint: "api/translate",
			Files:    singlePDF(),
			Params: []Param{
				{Name: "target_language", Required: true, MissingMessage: "select a target language", Check: checkLanguage, Encode: encodeLower},
			},
			OutputType:     TypePDF,
			SuccessMessage: "PDF translated successfully!",
			FailureMessage: "Error translating PDF. Please try again.",
			DefaultOutput:  "translated.pdf",
		},
	)
}

func rotatesAllPages(r Request) bool {
	v, _ := r.Param("all_pages")
	all, err := parseBool(v)
	return err == nil && all
}

func requirePagesUnlessAll(r Request) error {
	if rotatesAllPages(r) {
		return nil
	}
	if _, ok := r.Param("pages"); !ok {
		return types.ValidationError("specify pages or select all pages")
	}
	return nil
}
