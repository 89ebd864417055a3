package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newElevenLabsStub(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func sampleAudio() *Audio {
	return &Audio{Name: "clip.webm", ContentType: "audio/webm", Size: 5, Body: strings.NewReader("RIFF!")}
}

func TestConvertSpeechToText_Success(t *testing.T) {
	srv, calls := newElevenLabsStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/speech-to-text", r.URL.Path)
		assert.Equal(t, "xi-test", r.Header.Get("xi-api-key"))

		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "scribe_v1", r.FormValue("model_id"))
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "RIFF!", string(data))
		assert.Equal(t, "clip.webm", hdr.Filename)
		assert.Equal(t, "audio/webm", hdr.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"language_code":"en","text":"buy groceries"}`)
	})
	svc := NewSpeechService(srv.URL, "xi-test", "scribe_v1")

	text, err := svc.ConvertSpeechToText(context.Background(), sampleAudio())
	require.NoError(t, err)
	assert.Equal(t, "buy groceries", text)
	assert.Equal(t, int32(1), calls.Load())
}

func TestConvertSpeechToText_MissingTextField(t *testing.T) {
	srv, _ := newElevenLabsStub(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"language_code":"en"}`)
	})
	svc := NewSpeechService(srv.URL, "xi-test", "scribe_v1")

	text, err := svc.ConvertSpeechToText(context.Background(), sampleAudio())
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestConvertSpeechToText_MissingKeyFailsFirst(t *testing.T) {
	srv, calls := newElevenLabsStub(t, func(w http.ResponseWriter, r *http.Request) {})
	svc := NewSpeechService(srv.URL, "", "scribe_v1")

	_, err := svc.ConvertSpeechToText(context.Background(), nil)
	assert.ErrorIs(t, err, ErrSpeechKeyMissing)
	assert.Equal(t, int32(0), calls.Load())
}

func TestConvertSpeechToText_NoAudio(t *testing.T) {
	srv, calls := newElevenLabsStub(t, func(w http.ResponseWriter, r *http.Request) {})
	svc := NewSpeechService(srv.URL, "xi-test", "scribe_v1")

	_, err := svc.ConvertSpeechToText(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoAudio)

	_, err = svc.ConvertSpeechToText(context.Background(), &Audio{Name: "empty"})
	assert.ErrorIs(t, err, ErrNoAudio)
	assert.Equal(t, int32(0), calls.Load())
}

func TestConvertSpeechToText_APIError(t *testing.T) {
	srv, _ := newElevenLabsStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"detail":{"status":"invalid_file"}}`)
	})
	svc := NewSpeechService(srv.URL, "xi-test", "scribe_v1")

	_, err := svc.ConvertSpeechToText(context.Background(), sampleAudio())
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, `API error: 422 - {"detail":{"status":"invalid_file"}}`, err.Error())
}

func TestConvertSpeechToText_UnnamedAudio(t *testing.T) {
	srv, _ := newElevenLabsStub(t, func(w http.ResponseWriter, r *http.Request) {
		_, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, "unnamed", hdr.Filename)
		assert.Equal(t, "application/octet-stream", hdr.Header.Get("Content-Type"))
		io.WriteString(w, `{"text":"hi"}`)
	})
	svc := NewSpeechService(srv.URL, "xi-test", "scribe_v1")

	text, err := svc.ConvertSpeechToText(context.Background(), &Audio{Body: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}

func TestConvertSpeechToText_AudioReadError(t *testing.T) {
	srv, calls := newElevenLabsStub(t, func(w http.ResponseWriter, r *http.Request) {})
	svc := NewSpeechService(srv.URL, "xi-test", "scribe_v1")

	boom := errors.New("disk gone")
	_, err := svc.ConvertSpeechToText(context.Background(), &Audio{Name: "a.wav", Body: iotest.ErrReader(boom)})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(0), calls.Load())
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{Status: 500, Body: "boom"}
	assert.Equal(t, "API error: 500 - boom", err.Error())
}
