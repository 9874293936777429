package llm

import (
	"context"
	"errors"

	"github.com/refertrack/backend/internal/models"
)

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("empty response from model")

type Provider interface {
	// GenerateText sends a single prompt and returns the reply text.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateJSON sends a single prompt with JSON output enforced.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	// Chat sends the full ordered turn history; the last turn must be a
	// user turn. Returns the model reply text.
	Chat(ctx context.Context, turns []models.Turn) (string, error)
	// ChatJSON is Chat with JSON output enforced.
	ChatJSON(ctx context.Context, turns []models.Turn) (string, error)
	Close() error
}
