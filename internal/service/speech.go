package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"voice-todo/internal/logger"
)

// Audio is an uploaded recording. Body is read once.
type Audio struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SpeechService forwards recordings to the ElevenLabs speech-to-text API.
type SpeechService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewSpeechService(baseURL, apiKey, model string) *SpeechService {
	return &SpeechService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

// ConvertSpeechToText returns the transcript of audio. The key check comes
// before anything else so a misconfigured server fails without reading input.
func (s *SpeechService) ConvertSpeechToText(ctx context.Context, audio *Audio) (string, error) {
	if s.apiKey == "" {
		return "", ErrSpeechKeyMissing
	}
	log := logger.Ctx(ctx)

	text, err := s.transcribe(ctx, audio)
	if err != nil {
		log.Error("stt.failed", "err", err)
		return "", err
	}
	return text, nil
}

func (s *SpeechService) transcribe(ctx context.Context, audio *Audio) (string, error) {
	if audio == nil || audio.Body == nil {
		return "", ErrNoAudio
	}
	log := logger.Ctx(ctx)

	name := audio.Name
	if name == "" {
		name = "unnamed"
	}
	log.Info("stt.processing", "type", audio.ContentType, "size", audio.Size, "name", name)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	ct := audio.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio.Body); err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}
	if err := mw.WriteField("model_id", s.model); err != nil {
		return "", fmt.Errorf("write model_id: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/speech-to-text", &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("xi-api-key", s.apiKey)

	log.Debug("stt.request", "url", req.URL.String(), "bytes", buf.Len())
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("stt call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := "could not parse error response"
		if data, err := io.ReadAll(resp.Body); err == nil {
			detail = string(data)
		}
		log.Error("stt.api_error", "status", resp.StatusCode, "status_text", http.StatusText(resp.StatusCode), "detail", detail)
		return "", &APIError{Status: resp.StatusCode, Body: detail}
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	log.Info("stt.done", "chars", len(out.Text))
	return out.Text, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
