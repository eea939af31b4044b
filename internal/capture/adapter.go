// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capture

import (
	"bytes"
	"context"
	"encoding/base64"

	"go.uber.org/zap"

	"github.com/pdiddy/pdf-utilizer/internal/operation"
	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

// FailureMessage is reported when recording fails without a usable reason.
const FailureMessage = "Unknown error while converting speech from mic"

// Adapter turns a Source into requests for the capture operation.
type Adapter struct {
	source Source
	logger *zap.Logger
}

// NewAdapter returns an adapter over source. A nil logger disables logging.
func NewAdapter(source Source, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{source: source, logger: logger.With(zap.String("source", source.Name()))}
}

// Capture records once and returns the audio as standard base64. Failures
// are *types.Error so callers report them like any other run failure.
func (a *Adapter) Capture(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	if err := a.source.Record(ctx, &buf); err != nil {
		a.logger.Warn("recording failed", zap.Error(err))
		return "", &types.Error{Kind: types.KindUnknown, Message: FailureMessage, Err: err}
	}
	if buf.Len() == 0 {
		return "", types.ValidationError("no audio captured")
	}
	a.logger.Debug("recorded audio", zap.Int("bytes", buf.Len()))
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Request wraps base64 audio as a capture operation request.
func (a *Adapter) Request(audio string) operation.Request {
	req := operation.Request{}
	req.Set("audio_base64", audio)
	return req
}
