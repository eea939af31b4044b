// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package auth exchanges credentials with the processing service.
//
// It produces identities for the session gate but never touches the gate
// itself: a failed exchange leaves any existing session unchanged.
package auth

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pdf-utilizer/internal/transfer"
	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

// Endpoints.
const (
	EndpointLogin    = "auth/login"
	EndpointRegister = "auth/register"
	EndpointLogout   = "auth/logout"
)

const (
	loginFailed        = "Login failed"
	registrationFailed = "Registration failed"
	logoutFailed       = "Logout failed"
	registeredMessage  = "Registration successful"
)

// Sender performs one round trip. *transfer.Channel satisfies it.
type Sender interface {
	Do(ctx context.Context, req transfer.Request) types.TransferResult
}

// Client talks to the authentication endpoints.
type Client struct {
	sender Sender
	logger *zap.Logger
}

// NewClient returns a client over sender. A nil logger disables logging.
func NewClient(sender Sender, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{sender: sender, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (types.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return types.Identity{}, types.ValidationError("enter a username and password")
	}

	var resp loginResponse
	if err := c.post(ctx, EndpointLogin, loginRequest{Username: username, Password: password}, loginFailed, &resp); err != nil {
		return types.Identity{}, err
	}
	c.logger.Info("signed in", zap.String("username", username))
	return types.Identity{Username: username, Token: resp.AccessToken}, nil
}

// Register creates an account and returns the service's confirmation.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return "", types.ValidationError("fill in username, email and password")
	}

	var resp registerResponse
	req := registerRequest{Username: username, Email: email, Password: password}
	if err := c.post(ctx, EndpointRegister, req, registrationFailed, &resp); err != nil {
		return "", err
	}
	msg := strings.TrimSpace(resp.Message)
	if msg == "" {
		msg = registeredMessage
	}
	return msg, nil
}

// Logout tells the service the session ended. Callers treat failures as
// advisory; the local session is cleared regardless.
func (c *Client) Logout(ctx context.Context) error {
	payload, err := transfer.JSONPayload(struct{}{})
	if err != nil {
		return err
	}
	res := c.sender.Do(ctx, transfer.Request{Endpoint: EndpointLogout, Payload: payload, FailureMessage: logoutFailed})
	if f, ok := res.Failure(); ok {
		c.logger.Debug("logout not acknowledged", zap.String("message", f.Message))
		return f
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any, fallback string, out any) error {
	payload, err := transfer.JSONPayload(body)
	if err != nil {
		return &types.Error{Kind: types.KindUnknown, Message: fallback, Err: err}
	}

	res := c.sender.Do(ctx, transfer.Request{Endpoint: endpoint, Payload: payload, FailureMessage: fallback})
	if f, ok := res.Failure(); ok {
		return f
	}
	p, _ := res.Payload()
	if err := json.Unmarshal(p.Bytes, out); err != nil {
		return &types.Error{Kind: types.KindUnknown, Message: fallback, Err: err}
	}
	return nil
}
