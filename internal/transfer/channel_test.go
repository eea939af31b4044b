// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transfer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

func newTestChannel(t *testing.T, ts *httptest.Server) *Channel {
	t.Helper()
	ch, err := New(types.ServiceConfig{BaseURL: ts.URL, UserAgent: "pdf-utilizer/test"}, WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return ch
}

func TestNewValidatesBaseURL(t *testing.T) {
	_, err := New(types.ServiceConfig{BaseURL: "localhost"})
	assert.ErrorContains(t, err, "must be absolute")

	ch, err := New(types.ServiceConfig{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", ch.baseURL.String())
	assert.Equal(t, defaultUserAgent, ch.userAgent)
}

func TestDoSuccessReturnsBytes(t *testing.T) {
	var gotPath, gotUA, gotCT string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotCT = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("X-Transcribed-Text", "hello")
		w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer ts.Close()

	ch := newTestChannel(t, ts)
	payload, err := NewMultipartBuilder().Field("password", "secret").File("file", "a.pdf", []byte("%PDF")).Payload()
	require.NoError(t, err)

	res := ch.Send(context.Background(), "pdf/protect", payload)
	require.True(t, res.OK())
	p, _ := res.Payload()
	assert.Equal(t, "application/pdf", p.ContentType)
	assert.Equal(t, []byte("%PDF-1.7 fake"), p.Bytes)
	assert.Equal(t, "hello", p.Header.Get("X-Transcribed-Text"))

	assert.Equal(t, "/pdf/protect", gotPath)
	assert.Equal(t, "pdf-utilizer/test", gotUA)
	assert.True(t, strings.HasPrefix(gotCT, "multipart/form-data; boundary="))
}

func TestDoDecodesBinaryErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Served as bytes, exactly like a PDF would be.
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid page range"}`))
	}))
	defer ts.Close()

	res := newTestChannel(t, ts).Do(context.Background(), Request{
		Endpoint:       "pdf/split",
		FailureMessage: "Error splitting PDF. Please try again.",
	})
	require.False(t, res.OK())
	f, _ := res.Failure()
	assert.Equal(t, types.KindService, f.Kind)
	assert.Equal(t, "Invalid page range", f.Message)
	assert.Equal(t, http.StatusBadRequest, f.Status)
}

func TestDoJSONBodySharesNormalization(t *testing.T) {
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusUnsupportedMediaType)
		w.Write([]byte(`{"error":"mic unsupported"}`))
	}))
	defer ts.Close()

	payload, err := JSONPayload(map[string]string{"audio_base64": "AAAA"})
	require.NoError(t, err)

	res := newTestChannel(t, ts).Send(context.Background(), "stt/convert", payload)
	f, ok := res.Failure()
	require.True(t, ok)
	assert.Equal(t, "mic unsupported", f.Message)
	assert.Equal(t, types.KindService, f.Kind)
	assert.Equal(t, "AAAA", got["audio_base64"])
}

func TestDoUndecodableErrorUsesFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>Internal Server Error</html>"))
	}))
	defer ts.Close()

	res := newTestChannel(t, ts).Do(context.Background(), Request{
		Endpoint:       "pdf/merge",
		FailureMessage: "Error merging PDFs. Please try again.",
	})
	f, ok := res.Failure()
	require.True(t, ok)
	assert.Equal(t, types.KindTransport, f.Kind)
	assert.Equal(t, "Error merging PDFs. Please try again.", f.Message)
	assert.Equal(t, http.StatusInternalServerError, f.Status)
}

func TestDoNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ch := newTestChannel(t, ts)
	ts.Close()

	res := ch.Send(context.Background(), "pdf/merge", Payload{})
	f, ok := res.Failure()
	require.True(t, ok)
	assert.Equal(t, types.KindTransport, f.Kind)
	assert.NotEmpty(t, f.Message)
	assert.Zero(t, f.Status)
	assert.Error(t, f.Err)
}

func TestDoEmptySuccessBodyIsUnknown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	res := newTestChannel(t, ts).Do(context.Background(), Request{Endpoint: "tts/convert", FailureMessage: "Error converting text to speech. Please try again."})
	f, ok := res.Failure()
	require.True(t, ok)
	assert.Equal(t, types.KindUnknown, f.Kind)
	assert.Equal(t, "Error converting text to speech. Please try again.", f.Message)
}

func TestDoDefaultsContentType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.Write([]byte{0x00, 0x01, 0x02})
	}))
	defer ts.Close()

	res := newTestChannel(t, ts).Send(context.Background(), "api/translate", Payload{})
	p, ok := res.Payload()
	require.True(t, ok)
	assert.Equal(t, "application/octet-stream", p.ContentType)
}

func TestNormalizeFailure(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		fallback string
		wantKind types.ErrorKind
		wantMsg  string
	}{
		{"error field", `{"error":"Invalid page range"}`, "fb", types.KindService, "Invalid page range"},
		{"message field", `{"message":"Token expired"}`, "fb", types.KindService, "Token expired"},
		{"error wins over message", `{"error":"a","message":"b"}`, "fb", types.KindService, "a"},
		{"empty envelope", `{}`, "fb", types.KindService, "Server error"},
		{"surrounding whitespace", "\n  {\"error\":\"x\"}  \n", "fb", types.KindService, "x"},
		{"not json", `Bad Gateway`, "fb", types.KindTransport, "fb"},
		{"empty body", ``, "fb", types.KindTransport, "fb"},
		{"wrong shape", `{"error":{"code":1}}`, "fb", types.KindTransport, "fb"},
		{"no fallback", `garbage`, "", types.KindTransport, DefaultFailureMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFailure(http.StatusBadRequest, []byte(tt.body), tt.fallback)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, http.StatusBadRequest, got.Status)
		})
	}
}
