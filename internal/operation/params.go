// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package operation

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// CompressionLevels lists the levels the service accepts.
var CompressionLevels = []string{"low", "medium", "high"}

// RotationAngles lists the angles the service accepts.
var RotationAngles = []int{90, 180, 270}

// MaxPages bounds how many page numbers a page list may expand to.
const MaxPages = 10000

// ParsePageList parses a comma-separated page list such as "1,3,5" or
// "1-3,7". Ranges are expanded in order. Page numbers start at 1.
func ParsePageList(s string) ([]int, error) {
	var pages []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := parsePage(lo)
		if err != nil {
			return nil, err
		}
		end := start
		if isRange {
			if end, err = parsePage(hi); err != nil {
				return nil, err
			}
			if end < start {
				return nil, fmt.Errorf("page range %q is reversed", part)
			}
		}
		if end-start+1 > MaxPages-len(pages) {
			return nil, fmt.Errorf("pages must list at most %d page numbers", MaxPages)
		}
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
	}
	if len(pages) == 0 {
		return nil, errors.New("pages must list at least one page number")
	}
	return pages, nil
}

func parsePage(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page number %q", strings.TrimSpace(s))
	}
	return n, nil
}

func checkPageList(v string) error {
	_, err := ParsePageList(v)
	return err
}

func encodePageListJSON(v string) (string, error) {
	pages, err := ParsePageList(v)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(pages)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func checkNonNegativeInt(name string) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer", name)
		}
		return nil
	}
}

func checkPositiveInt(name string) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer", name)
		}
		return nil
	}
}

func checkAngle(v string) error {
	n, err := strconv.Atoi(v)
	if err == nil {
		for _, a := range RotationAngles {
			if n == a {
				return nil
			}
		}
	}
	return errors.New("angle must be 90, 180, or 270")
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", v)
}

func checkBool(v string) error {
	_, err := parseBool(v)
	return err
}

func encodeBool(v string) (string, error) {
	b, err := parseBool(v)
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(b), nil
}

func checkCompressionLevel(v string) error {
	v = strings.ToLower(v)
	for _, l := range CompressionLevels {
		if v == l {
			return nil
		}
	}
	return errors.New("compression level must be one of low, medium, high")
}

func encodeLower(v string) (string, error) {
	return strings.ToLower(v), nil
}

// ParseLanguage parses a BCP 47 target language code.
func ParseLanguage(code string) (language.Tag, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil || tag == language.Und {
		return language.Und, fmt.Errorf("unsupported target language %q", code)
	}
	return tag, nil
}

func checkLanguage(v string) error {
	_, err := ParseLanguage(v)
	return err
}

func checkBase64Audio(v string) error {
	data, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return errors.New("captured audio is not valid base64")
	}
	if len(data) == 0 {
		return errors.New("no audio captured")
	}
	return nil
}
