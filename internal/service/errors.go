package service

import (
	"errors"
	"fmt"
)

var (
	ErrSpeechKeyMissing = errors.New("elevenlabs API key is not set")
	ErrNoAudio          = errors.New("no audio file provided")
	// ErrInvalidReply marks a model reply that is not a valid action.
	ErrInvalidReply = errors.New("invalid model reply")
)

// APIError is a non-success response from an upstream vendor API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.Status, e.Body)
}
