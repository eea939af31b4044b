// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package operation describes the remote operations the client can run and
// turns a validated request into a transport-ready payload.
//
// Each operation is a Spec: its endpoint, the file slots and parameters it
// requires, how parameters are encoded, and the type of artifact it
// produces. The engine runs every operation through the same Spec-driven
// path; nothing here touches the network.
package operation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pdf-utilizer/internal/transfer"
	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

// Encoding selects the request body shape.
type Encoding int

const (
	// EncodingMultipart sends file parts plus text fields.
	EncodingMultipart Encoding = iota
	// EncodingJSON sends parameters as a JSON object and carries no files.
	EncodingJSON
)

func (e Encoding) String() string {
	switch e {
	case EncodingMultipart:
		return "multipart"
	case EncodingJSON:
		return "json"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// File is one selected input file.
type File struct {
	// Field is the form field the file is sent under. Empty means the
	// operation's first file slot.
	Field   string
	Name    string
	Content []byte
}

// FileFromPath reads path into a File bound to field.
func FileFromPath(field, path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading input %s: %w", path, err)
	}
	return File{Field: field, Name: filepath.Base(path), Content: data}, nil
}

// Request is the user's input for one operation run.
type Request struct {
	Files  []File
	Params map[string]string
}

// AddFile appends a file and returns the request for chaining.
func (r *Request) AddFile(f File) *Request {
	r.Files = append(r.Files, f)
	return r
}

// Set assigns a parameter and returns the request for chaining.
func (r *Request) Set(name, value string) *Request {
	if r.Params == nil {
		r.Params = make(map[string]string)
	}
	r.Params[name] = value
	return r
}

// Param returns the trimmed value of a parameter and whether it is
// present and non-blank.
func (r Request) Param(name string) (string, bool) {
	v, ok := r.Params[name]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// FileSlot declares one file field of an operation.
type FileSlot struct {
	Field string
	// Min is the number of files required in this slot.
	Min int
	// Max bounds the slot; zero means unbounded.
	Max int
	// MissingMessage is reported when fewer than Min files are given.
	MissingMessage string
}

// Param declares one scalar parameter of an operation.
type Param struct {
	Name     string
	Required bool
	// MissingMessage is reported when a required parameter is blank.
	MissingMessage string
	// Check validates a non-blank value and returns a user-facing message
	// on failure.
	Check func(value string) error
	// Encode turns the raw value into what the service expects. Nil sends
	// the raw value.
	Encode func(value string) (string, error)
	// Omit skips the parameter for this request even when present.
	Omit func(r Request) bool
}

// Rule is a cross-field validation.
type Rule func(r Request) error

// Spec describes one remote operation.
type Spec struct {
	// Name is the stable operation identifier (e.g. "merge").
	Name string
	// Title is a short human label.
	Title    string
	Endpoint string
	Encoding Encoding
	Files    []FileSlot
	Params   []Param
	Rules    []Rule
	// OutputType is the content type of the produced artifact.
	OutputType     string
	SuccessMessage string
	// FailureMessage is shown when a failed response has no readable message.
	FailureMessage string
	// DefaultOutput is the suggested filename for the saved artifact.
	DefaultOutput string
	// MetadataHeader names a response header surfaced next to the artifact.
	MetadataHeader string
}

// Validate checks r against the spec's file slots, parameters, and rules.
// It returns a KindValidation *types.Error describing the first problem.
func (s Spec) Validate(r Request) error {
	if s.Encoding == EncodingJSON && len(r.Files) > 0 {
		return types.ValidationError(fmt.Sprintf("%s does not accept files", s.Name))
	}

	counts, err := s.countFiles(r)
	if err != nil {
		return err
	}
	for _, slot := range s.Files {
		n := counts[slot.Field]
		if n < slot.Min {
			return types.ValidationError(slot.MissingMessage)
		}
		if slot.Max > 0 && n > slot.Max {
			if slot.Max == 1 {
				return types.ValidationError(fmt.Sprintf("select only one file for %s", slot.Field))
			}
			return types.ValidationError(fmt.Sprintf("select at most %d files for %s", slot.Max, slot.Field))
		}
	}

	for _, p := range s.Params {
		if p.Omit != nil && p.Omit(r) {
			continue
		}
		v, ok := r.Param(p.Name)
		if !ok {
			if p.Required {
				return types.ValidationError(p.MissingMessage)
			}
			continue
		}
		if p.Check != nil {
			if err := p.Check(v); err != nil {
				return types.ValidationError(err.Error())
			}
		}
	}

	for _, rule := range s.Rules {
		if err := rule(r); err != nil {
			return err
		}
	}
	return nil
}

func (s Spec) countFiles(r Request) (map[string]int, error) {
	counts := make(map[string]int, len(s.Files))
	for _, f := range r.Files {
		field := s.fieldFor(f)
		if !s.hasSlot(field) {
			return nil, types.ValidationError(fmt.Sprintf("%s does not accept a %q file", s.Name, field))
		}
		counts[field]++
	}
	return counts, nil
}

func (s Spec) fieldFor(f File) string {
	if f.Field != "" {
		return f.Field
	}
	if len(s.Files) > 0 {
		return s.Files[0].Field
	}
	return ""
}

func (s Spec) hasSlot(field string) bool {
	for _, slot := range s.Files {
		if slot.Field == field {
			return true
		}
	}
	return false
}

// Build validates r and encodes it as a payload. It performs no I/O.
func (s Spec) Build(r Request) (transfer.Payload, error) {
	if err := s.Validate(r); err != nil {
		return transfer.Payload{}, err
	}

	fields, err := s.encodeParams(r)
	if err != nil {
		return transfer.Payload{}, err
	}

	if s.Encoding == EncodingJSON {
		body := make(map[string]string, len(fields))
		for _, f := range fields {
			body[f.name] = f.value
		}
		return transfer.JSONPayload(body)
	}

	b := transfer.NewMultipartBuilder()
	for _, slot := range s.Files {
		for _, f := range r.Files {
			if s.fieldFor(f) == slot.Field {
				b.File(slot.Field, f.Name, f.Content)
			}
		}
	}
	for _, f := range fields {
		b.Field(f.name, f.value)
	}
	payload, err := b.Payload()
	if err != nil {
		return transfer.Payload{}, fmt.Errorf("building %s payload: %w", s.Name, err)
	}
	return payload, nil
}

type encodedField struct {
	name  string
	value string
}

func (s Spec) encodeParams(r Request) ([]encodedField, error) {
	fields := make([]encodedField, 0, len(s.Params))
	for _, p := range s.Params {
		if p.Omit != nil && p.Omit(r) {
			continue
		}
		raw, ok := r.Params[p.Name]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		value := raw
		if p.Encode != nil {
			enc, err := p.Encode(strings.TrimSpace(raw))
			if err != nil {
				return nil, types.ValidationError(err.Error())
			}
			value = enc
		}
		fields = append(fields, encodedField{name: p.Name, value: value})
	}
	return fields, nil
}
