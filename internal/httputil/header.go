// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across the client.
package httputil

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// TranscriptionHeader carries the transcribed text returned by the
// speech-to-text endpoint alongside the PDF body.
const TranscriptionHeader = "X-Transcribed-Text"

// DecodeHeaderText turns a header value that had to survive a
// Latin-1-only transport back into readable text.
//
// Percent-escapes are undone first. Bytes that are not valid UTF-8 are read
// as ISO-8859-1. Finally, UTF-8 that was mis-decoded as ISO-8859-1 on the
// way ("cafÃ©") is folded back into its original form ("café").
func DecodeHeaderText(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if strings.Contains(s, "%") {
		if unescaped, err := url.PathUnescape(s); err == nil {
			s = unescaped
		}
	}

	if !utf8.ValidString(s) {
		decoded, err := charmap.ISO8859_1.NewDecoder().String(s)
		if err != nil {
			return s
		}
		s = decoded
	}

	return repairMojibake(s)
}

// repairMojibake reverses a single round of UTF-8 bytes decoded as
// ISO-8859-1. Text that does not re-encode into valid multi-byte UTF-8 is
// returned unchanged.
func repairMojibake(s string) string {
	hasHigh := false
	for _, r := range s {
		if r > 0xFF {
			return s
		}
		if r >= 0x80 {
			hasHigh = true
		}
	}
	if !hasHigh {
		return s
	}

	raw, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil || !utf8.ValidString(raw) {
		return s
	}
	return raw
}
