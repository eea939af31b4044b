// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-utilizer/internal/artifact"
	"github.com/pdiddy/pdf-utilizer/internal/operation"
	"github.com/pdiddy/pdf-utilizer/internal/transfer"
	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

// fakeSender returns queued results and records each request.
type fakeSender struct {
	mu       sync.Mutex
	results  []types.TransferResult
	requests []transfer.Request
}

func (f *fakeSender) Do(_ context.Context, req transfer.Request) types.TransferResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.results) == 0 {
		return types.Failed(nil)
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res
}

func (f *fakeSender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// blockingSender holds every request until release is closed.
type blockingSender struct {
	started chan struct{}
	release chan struct{}
	result  types.TransferResult
}

func newBlockingSender(res types.TransferResult) *blockingSender {
	return &blockingSender{started: make(chan struct{}, 1), release: make(chan struct{}), result: res}
}

func (b *blockingSender) Do(_ context.Context, _ transfer.Request) types.TransferResult {
	b.started <- struct{}{}
	<-b.release
	return b.result
}

func ok(body string) types.TransferResult {
	return types.Succeeded(types.Payload{ContentType: "application/octet-stream", Bytes: []byte(body)})
}

func protectRequest() operation.Request {
	req := &operation.Request{}
	req.AddFile(operation.File{Name: "doc.pdf", Content: []byte("%PDF")}).Set("password", "s3cret")
	return *req
}

func spec(t *testing.T, name string) operation.Spec {
	t.Helper()
	s, ok := operation.Default().Lookup(name)
	require.True(t, ok)
	return s
}

func record(r *Runner) *[]types.RunStatus {
	var got []types.RunStatus
	r.Subscribe(func(s types.RunStatus) { got = append(got, s) })
	return &got
}

func TestValidationFailureMakesNoNetworkCall(t *testing.T) {
	sender := &fakeSender{}
	r := New(spec(t, operation.Merge), sender, artifact.NewMemoryRegistry())
	statuses := record(r)

	req := &operation.Request{}
	req.AddFile(operation.File{Name: "only.pdf", Content: []byte("%PDF")})
	_, err := r.Submit(context.Background(), *req)

	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindValidation))
	assert.Zero(t, sender.calls())
	assert.Equal(t, PhaseIdle, r.Phase())
	assert.Equal(t, types.ErrorStatus("select at least two files"), r.Status())
	assert.Equal(t, []types.RunStatus{types.ErrorStatus("select at least two files")}, *statuses)
}

func TestRotateWithoutPagesIsRejected(t *testing.T) {
	sender := &fakeSender{}
	r := New(spec(t, operation.Rotate), sender, artifact.NewMemoryRegistry())

	req := &operation.Request{}
	req.AddFile(operation.File{Name: "doc.pdf", Content: []byte("%PDF")}).
		Set("angle", "90").Set("all_pages", "false").Set("pages", "")
	_, err := r.Submit(context.Background(), *req)

	assert.Equal(t, "specify pages or select all pages", types.UserMessage(err))
	assert.Zero(t, sender.calls())
}

func TestSuccessEmitsProcessingThenSuccess(t *testing.T) {
	sender := &fakeSender{results: []types.TransferResult{ok("%PDF-protected")}}
	reg := artifact.NewMemoryRegistry()
	r := New(spec(t, operation.Protect), sender, reg)
	statuses := record(r)

	out, err := r.Submit(context.Background(), protectRequest())
	require.NoError(t, err)

	assert.Equal(t, []types.RunStatus{
		types.Info("processing"),
		types.Success("PDF protected successfully!"),
	}, *statuses)
	assert.Equal(t, PhaseSucceeded, r.Phase())

	// Artifact is typed by the operation, not the response header.
	assert.Equal(t, "application/pdf", out.Artifact.ContentType)
	data, meta, live := reg.Resolve(out.Artifact.Ref)
	require.True(t, live)
	assert.Equal(t, []byte("%PDF-protected"), data)
	assert.Equal(t, "application/pdf", meta.ContentType)

	require.Len(t, sender.requests, 1)
	assert.Equal(t, "pdf/protect", sender.requests[0].Endpoint)
	assert.Equal(t, "Error protecting PDF. Please try again.", sender.requests[0].FailureMessage)
}

func TestRepeatedSuccessKeepsOneLiveArtifact(t *testing.T) {
	sender := &fakeSender{results: []types.TransferResult{ok("a"), ok("b"), ok("c")}}
	reg := artifact.NewMemoryRegistry()
	r := New(spec(t, operation.Protect), sender, reg)

	var refs []string
	for i := 0; i < 3; i++ {
		out, err := r.Submit(context.Background(), protectRequest())
		require.NoError(t, err)
		refs = append(refs, out.Artifact.Ref)
	}

	assert.Equal(t, 1, reg.Live())
	for _, ref := range refs[:2] {
		_, _, live := reg.Resolve(ref)
		assert.False(t, live)
	}
	cur, has := r.Artifact()
	require.True(t, has)
	assert.Equal(t, refs[2], cur.Ref)
}

func TestFailureKeepsPriorArtifact(t *testing.T) {
	failure := types.Failed(&types.Error{Kind: types.KindService, Message: "Invalid page range", Status: http.StatusBadRequest})
	sender := &fakeSender{results: []types.TransferResult{ok("first"), failure}}
	reg := artifact.NewMemoryRegistry()
	r := New(spec(t, operation.Protect), sender, reg)

	first, err := r.Submit(context.Background(), protectRequest())
	require.NoError(t, err)

	_, err = r.Submit(context.Background(), protectRequest())
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindService))
	assert.Equal(t, PhaseFailed, r.Phase())
	assert.Equal(t, types.ErrorStatus("Invalid page range"), r.Status())

	cur, has := r.Artifact()
	require.True(t, has)
	assert.Equal(t, first.Artifact.Ref, cur.Ref)
	assert.Equal(t, 1, reg.Live())
}

func TestFailedRunCanBeResubmitted(t *testing.T) {
	sender := &fakeSender{results: []types.TransferResult{types.Failed(nil), ok("x")}}
	r := New(spec(t, operation.Protect), sender, artifact.NewMemoryRegistry())

	_, err := r.Submit(context.Background(), protectRequest())
	require.Error(t, err)
	assert.Equal(t, types.ErrorStatus("Unknown error"), r.Status())

	_, err = r.Submit(context.Background(), protectRequest())
	require.NoError(t, err)
	assert.Equal(t, PhaseSucceeded, r.Phase())
}

func TestSubmitWhileInFlight(t *testing.T) {
	sender := newBlockingSender(ok("done"))
	r := New(spec(t, operation.Protect), sender, artifact.NewMemoryRegistry())

	done := make(chan error, 1)
	go func() {
		_, err := r.Submit(context.Background(), protectRequest())
		done <- err
	}()
	<-sender.started

	assert.Equal(t, PhaseSubmitting, r.Phase())
	statusBefore := r.Status()
	_, err := r.Submit(context.Background(), protectRequest())
	assert.ErrorIs(t, err, ErrInFlight)
	assert.Equal(t, statusBefore, r.Status())

	close(sender.release)
	require.NoError(t, <-done)
	assert.Equal(t, PhaseSucceeded, r.Phase())
}

func TestCloseDuringFlightDiscardsResult(t *testing.T) {
	sender := newBlockingSender(ok("late"))
	reg := artifact.NewMemoryRegistry()
	r := New(spec(t, operation.Protect), sender, reg)
	statuses := record(r)

	done := make(chan error, 1)
	go func() {
		_, err := r.Submit(context.Background(), protectRequest())
		done <- err
	}()
	<-sender.started

	r.Close()
	close(sender.release)

	assert.ErrorIs(t, <-done, ErrClosed)
	assert.Zero(t, reg.Live())
	assert.Equal(t, []types.RunStatus{types.Info("processing")}, *statuses)

	_, err := r.Submit(context.Background(), protectRequest())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCloseReleasesArtifact(t *testing.T) {
	sender := &fakeSender{results: []types.TransferResult{ok("x")}}
	reg := artifact.NewMemoryRegistry()
	r := New(spec(t, operation.Protect), sender, reg)

	_, err := r.Submit(context.Background(), protectRequest())
	require.NoError(t, err)
	require.Equal(t, 1, reg.Live())

	r.Close()
	r.Close()
	assert.Zero(t, reg.Live())
}

func TestUnsubscribe(t *testing.T) {
	sender := &fakeSender{results: []types.TransferResult{ok("x")}}
	r := New(spec(t, operation.Protect), sender, artifact.NewMemoryRegistry())

	var n int
	cancel := r.Subscribe(func(types.RunStatus) { n++ })
	cancel()

	_, err := r.Submit(context.Background(), protectRequest())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSave(t *testing.T) {
	sender := &fakeSender{results: []types.TransferResult{ok("%PDF-merged")}}
	r := New(spec(t, operation.Protect), sender, artifact.NewMemoryRegistry())

	path := filepath.Join(t.TempDir(), "protected.pdf")
	assert.ErrorIs(t, r.Save(path), artifact.ErrNotLive)

	_, err := r.Submit(context.Background(), protectRequest())
	require.NoError(t, err)
	require.NoError(t, r.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-merged"), data)
}

// The tests below run the whole pipeline against an httptest service.

func newChannel(t *testing.T, h http.HandlerFunc) *transfer.Channel {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	ch, err := transfer.New(types.ServiceConfig{BaseURL: ts.URL}, transfer.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return ch
}

func TestBinaryErrorBodySurfacesVerbatim(t *testing.T) {
	ch := newChannel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid page range"}`))
	})
	r := New(spec(t, operation.Split), ch, artifact.NewMemoryRegistry())

	req := &operation.Request{}
	req.AddFile(operation.File{Name: "doc.pdf", Content: []byte("%PDF")}).Set("pages", "1,3,5")
	_, err := r.Submit(context.Background(), *req)

	require.Error(t, err)
	assert.Equal(t, types.ErrorStatus("Invalid page range"), r.Status())
	assert.Equal(t, PhaseFailed, r.Phase())
}

func TestCaptureFailureUsesSameNormalization(t *testing.T) {
	ch := newChannel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"mic unsupported"}`))
	})
	r := New(spec(t, operation.SpeechCapture), ch, artifact.NewMemoryRegistry())

	req := &operation.Request{}
	req.Set("audio_base64", "UklGRiQAAABXQVZF")
	_, err := r.Submit(context.Background(), *req)

	require.Error(t, err)
	assert.Equal(t, types.ErrorStatus("mic unsupported"), r.Status())
}

func TestTranscriptionHeaderIsDecoded(t *testing.T) {
	ch := newChannel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("X-Transcribed-Text", "caf%C3%A9%20au%20lait")
		w.Write([]byte("%PDF-transcript"))
	})
	r := New(spec(t, operation.SpeechToText), ch, artifact.NewMemoryRegistry())

	req := &operation.Request{}
	req.AddFile(operation.File{Name: "clip.wav", Content: []byte("RIFF")})
	out, err := r.Submit(context.Background(), *req)

	require.NoError(t, err)
	assert.Equal(t, "café au lait", out.Metadata["X-Transcribed-Text"])
	assert.Equal(t, out.Metadata, r.Metadata())
	assert.Equal(t, types.Success("Transcription completed!"), r.Status())
}

func TestTextToSpeechProducesAudio(t *testing.T) {
	ch := newChannel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ID3"))
	})
	r := New(spec(t, operation.TextToSpeech), ch, artifact.NewMemoryRegistry())

	req := &operation.Request{}
	req.AddFile(operation.File{Name: "doc.pdf", Content: []byte("%PDF")})
	out, err := r.Submit(context.Background(), *req)

	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", out.Artifact.ContentType)
}
