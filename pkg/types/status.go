// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// StatusKind classifies a RunStatus.
type StatusKind string

const (
	StatusIdle    StatusKind = "idle"
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// RunStatus is the user-visible projection of an operation run. Only the
// engine creates non-idle values; presentation code reads them.
type RunStatus struct {
	Kind    StatusKind `json:"kind" yaml:"kind"`
	Message string     `json:"message,omitempty" yaml:"message,omitempty"`
}

// Idle returns the status of a run that has not started.
func Idle() RunStatus { return RunStatus{Kind: StatusIdle} }

// Info returns a progress status.
func Info(msg string) RunStatus { return RunStatus{Kind: StatusInfo, Message: msg} }

// Success returns a terminal success status.
func Success(msg string) RunStatus { return RunStatus{Kind: StatusSuccess, Message: msg} }

// ErrorStatus returns a terminal failure status.
func ErrorStatus(msg string) RunStatus { return RunStatus{Kind: StatusError, Message: msg} }

// IsTerminal reports whether the status ends a run.
func (s RunStatus) IsTerminal() bool {
	return s.Kind == StatusSuccess || s.Kind == StatusError
}

func (s RunStatus) String() string {
	if s.Message == "" {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s: %s", s.Kind, s.Message)
}
