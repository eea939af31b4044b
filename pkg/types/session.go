// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pdf-utilizer client:
// configuration, run status, transfer results, the error taxonomy, and the
// authenticated session.
package types

// Identity is what a successful authentication produces.
type Identity struct {
	Username string `json:"username" yaml:"username"`
	Token    string `json:"access_token" yaml:"access_token"`
}

// Session is the authenticated-identity state gating protected commands.
type Session struct {
	// Token is the access token issued by the service. It may be empty
	// when only the display name was persisted.
	Token string `json:"token" yaml:"token"`

	// DisplayName is the user name shown to the user.
	DisplayName string `json:"display_name" yaml:"display_name"`
}
