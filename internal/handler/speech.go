package handler

import (
	"context"
	"errors"
	"net/http"

	"voice-todo/internal/logger"
	"voice-todo/internal/model"
	"voice-todo/internal/service"

	"github.com/gin-gonic/gin"
)

type Transcriber interface {
	ConvertSpeechToText(ctx context.Context, audio *service.Audio) (string, error)
}

type SpeechHandler struct {
	stt      Transcriber
	maxBytes int64
}

func NewSpeechHandler(stt Transcriber, maxBytes int64) *SpeechHandler {
	if maxBytes <= 0 {
		maxBytes = 25 << 20
	}
	return &SpeechHandler{stt: stt, maxBytes: maxBytes}
}

// Transcribe handles POST /api/transcribe (multipart, field "file" or "audio").
func (h *SpeechHandler) Transcribe(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	audio, done, err := formAudio(c)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "audio file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload"})
		return
	}
	defer done()

	text, err := h.stt.ConvertSpeechToText(c.Request.Context(), audio)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("transcribe.failed", "err", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.TranscriptResponse{Text: text})
}

// formAudio returns a nil Audio when the request carries no file, leaving
// the "no audio" decision to the transcriber.
func formAudio(c *gin.Context) (*service.Audio, func(), error) {
	noop := func() {}
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		fh, err = c.FormFile("audio")
	}
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &service.Audio{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, func() { f.Close() }, nil
}
