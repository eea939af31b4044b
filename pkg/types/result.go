// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "net/http"

// Payload is the body of a successful transfer.
type Payload struct {
	ContentType string
	Bytes       []byte
	// Header carries response metadata such as the transcription header.
	Header http.Header
}

// TransferResult is either a Payload or an *Error, never both. The zero
// value is not a valid result; build one with Succeeded or Failed.
type TransferResult struct {
	payload *Payload
	failure *Error
}

// Succeeded wraps a payload into a result.
func Succeeded(p Payload) TransferResult {
	return TransferResult{payload: &p}
}

// Failed wraps a failure into a result. A nil failure becomes KindUnknown
// so the union never ends up empty.
func Failed(e *Error) TransferResult {
	if e == nil {
		e = &Error{Kind: KindUnknown, Message: "Unknown error"}
	}
	return TransferResult{failure: e}
}

// OK reports whether the result holds a payload.
func (r TransferResult) OK() bool { return r.payload != nil }

// Payload returns the success payload. ok is false for failures.
func (r TransferResult) Payload() (p Payload, ok bool) {
	if r.payload == nil {
		return Payload{}, false
	}
	return *r.payload, true
}

// Failure returns the failure. ok is false for successes.
func (r TransferResult) Failure() (e *Error, ok bool) {
	if r.failure == nil {
		return nil, false
	}
	return r.failure, true
}
