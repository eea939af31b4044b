// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
)

// Payload is a transport-ready request body.
type Payload struct {
	ContentType string
	Body        []byte
}

// JSONPayload encodes v as a JSON request body.
func JSONPayload(v any) (Payload, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Payload{}, fmt.Errorf("encoding JSON body: %w", err)
	}
	return Payload{ContentType: "application/json", Body: data}, nil
}

// MultipartBuilder accumulates form fields and file parts in call order.
type MultipartBuilder struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	err    error
}

// NewMultipartBuilder starts an empty multipart/form-data body.
func NewMultipartBuilder() *MultipartBuilder {
	b := &MultipartBuilder{}
	b.writer = multipart.NewWriter(&b.buf)
	return b
}

// Field appends a text field.
func (b *MultipartBuilder) Field(name, value string) *MultipartBuilder {
	if b.err != nil {
		return b
	}
	if err := b.writer.WriteField(name, value); err != nil {
		b.err = fmt.Errorf("writing field %s: %w", name, err)
	}
	return b
}

// File appends a file part under field name.
func (b *MultipartBuilder) File(field, filename string, content []byte) *MultipartBuilder {
	if b.err != nil {
		return b
	}
	part, err := b.writer.CreateFormFile(field, filename)
	if err != nil {
		b.err = fmt.Errorf("creating file part %s: %w", field, err)
		return b
	}
	if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
		b.err = fmt.Errorf("copying file %s: %w", filename, err)
	}
	return b
}

// Payload closes the body and returns it with its boundary content type.
func (b *MultipartBuilder) Payload() (Payload, error) {
	if b.err != nil {
		return Payload{}, b.err
	}
	if err := b.writer.Close(); err != nil {
		return Payload{}, fmt.Errorf("closing multipart writer: %w", err)
	}
	return Payload{
		ContentType: b.writer.FormDataContentType(),
		Body:        b.buf.Bytes(),
	}, nil
}
