// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine runs one remote operation at a time for a single owner.
//
// A Runner walks Idle → Validating → Submitting → Succeeded|Failed for
// every submission. Validation failures never reach the network, a second
// submission while one is in flight is refused, and a successful result
// replaces the previous artifact. Status changes are pushed to subscribers
// in order.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/pdf-utilizer/internal/artifact"
	"github.com/pdiddy/pdf-utilizer/internal/httputil"
	"github.com/pdiddy/pdf-utilizer/internal/operation"
	"github.com/pdiddy/pdf-utilizer/internal/transfer"
	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

// ErrInFlight is returned by Submit while a previous submission has not
// completed.
var ErrInFlight = errors.New("engine: submission already in flight")

// ErrClosed is returned by Submit after Close, and when a submission
// completes after the runner was closed.
var ErrClosed = errors.New("engine: runner closed")

// Phase is the lifecycle position of a Runner.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Sender performs one round trip. *transfer.Channel satisfies it.
type Sender interface {
	Do(ctx context.Context, req transfer.Request) types.TransferResult
}

// Outcome is the result of a successful submission.
type Outcome struct {
	Artifact artifact.Artifact
	// Metadata holds decoded response headers declared by the operation.
	Metadata map[string]string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger attaches a diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// Runner executes one operation spec.
type Runner struct {
	spec      operation.Spec
	sender    Sender
	artifacts *artifact.Manager
	logger    *zap.Logger

	mu        sync.Mutex
	phase     Phase
	status    types.RunStatus
	metadata  map[string]string
	listeners map[int]func(types.RunStatus)
	nextID    int
	closed    bool
}

// New returns an idle runner for spec. Artifacts are created in reg.
func New(spec operation.Spec, sender Sender, reg artifact.Registry, opts ...Option) *Runner {
	r := &Runner{
		spec:      spec,
		sender:    sender,
		artifacts: artifact.NewManager(reg),
		logger:    zap.NewNop(),
		status:    types.Idle(),
		listeners: make(map[int]func(types.RunStatus)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("operation", spec.Name))
	return r
}

// Spec returns the operation this runner executes.
func (r *Runner) Spec() operation.Spec { return r.spec }

// Submit validates req, sends it, and records the outcome. Validation
// errors and failed responses are returned as *types.Error after being
// reported through the status.
func (r *Runner) Submit(ctx context.Context, req operation.Request) (Outcome, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if r.phase == PhaseValidating || r.phase == PhaseSubmitting {
		r.mu.Unlock()
		r.logger.Debug("submission refused while in flight")
		return Outcome{}, ErrInFlight
	}
	r.phase = PhaseValidating
	r.mu.Unlock()

	payload, err := r.spec.Build(req)
	if err != nil {
		r.logger.Debug("request rejected", zap.Error(err))
		r.transition(PhaseIdle, types.ErrorStatus(types.UserMessage(err)))
		return Outcome{}, err
	}

	r.transition(PhaseSubmitting, types.Info(operation.ProcessingMessage))
	r.logger.Info("submitting", zap.String("endpoint", r.spec.Endpoint), zap.Int("bytes", len(payload.Body)))

	res := r.sender.Do(ctx, transfer.Request{
		Endpoint:       r.spec.Endpoint,
		Payload:        payload,
		FailureMessage: r.spec.FailureMessage,
	})

	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		r.logger.Debug("discarding result after close")
		return Outcome{}, ErrClosed
	}

	if failure, ok := res.Failure(); ok {
		r.logger.Info("operation failed", zap.String("kind", string(failure.Kind)), zap.String("message", failure.Message))
		r.transition(PhaseFailed, types.ErrorStatus(failure.Message))
		return Outcome{}, failure
	}

	p, _ := res.Payload()
	a, err := r.artifacts.Materialize(p.Bytes, r.spec.OutputType)
	if err != nil {
		if errors.Is(err, artifact.ErrOwnerClosed) {
			return Outcome{}, ErrClosed
		}
		e := &types.Error{Kind: types.KindUnknown, Message: r.spec.FailureMessage, Err: err}
		r.transition(PhaseFailed, types.ErrorStatus(e.Message))
		return Outcome{}, e
	}

	out := Outcome{Artifact: a, Metadata: r.decodeMetadata(p)}
	r.mu.Lock()
	r.metadata = out.Metadata
	r.mu.Unlock()

	r.logger.Info("operation succeeded", zap.String("ref", a.Ref), zap.Int("bytes", a.Size))
	r.transition(PhaseSucceeded, types.Success(r.spec.SuccessMessage))
	return out, nil
}

func (r *Runner) decodeMetadata(p types.Payload) map[string]string {
	if r.spec.MetadataHeader == "" || p.Header == nil {
		return nil
	}
	raw := p.Header.Get(r.spec.MetadataHeader)
	if raw == "" {
		return nil
	}
	return map[string]string{r.spec.MetadataHeader: httputil.DecodeHeaderText(raw)}
}

// transition sets the phase and status, then notifies subscribers outside
// the lock. Nothing is emitted after Close.
func (r *Runner) transition(phase Phase, status types.RunStatus) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.phase = phase
	r.status = status
	fns := make([]func(types.RunStatus), 0, len(r.listeners))
	for id := 0; id < r.nextID; id++ {
		if fn, ok := r.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(status)
	}
}

// Subscribe registers fn for status changes and returns a function that
// removes it.
func (r *Runner) Subscribe(fn func(types.RunStatus)) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// Status returns the latest status.
func (r *Runner) Status() types.RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Phase returns the current phase.
func (r *Runner) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Artifact returns the live artifact from the last success.
func (r *Runner) Artifact() (artifact.Artifact, bool) {
	return r.artifacts.Current()
}

// Metadata returns the decoded metadata of the last success.
func (r *Runner) Metadata() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metadata
}

// Save writes the live artifact to path.
func (r *Runner) Save(path string) error {
	a, ok := r.artifacts.Current()
	if !ok {
		return fmt.Errorf("%s: no result to save: %w", r.spec.Name, artifact.ErrNotLive)
	}
	return r.artifacts.WriteTo(a.Ref, path)
}

// Close releases the live artifact and drops subscribers. A submission
// still in flight completes without effect.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.listeners = make(map[int]func(types.RunStatus))
	r.mu.Unlock()
	r.artifacts.Close()
}
