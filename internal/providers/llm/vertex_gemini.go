package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"github.com/refertrack/backend/internal/models"
)

type VertexGemini struct {
	client    *vertexgenai.Client
	model     *vertexgenai.GenerativeModel
	jsonModel *vertexgenai.GenerativeModel
	timeout   time.Duration
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string, timeout time.Duration, opts ...option.ClientOption) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	m := c.GenerativeModel(modelName)

	jm := c.GenerativeModel(modelName)
	jm.GenerationConfig.ResponseMIMEType = "application/json"

	return &VertexGemini{client: c, model: m, jsonModel: jm, timeout: timeout}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	return v.generate(ctx, v.model, prompt)
}

func (v *VertexGemini) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return v.generate(ctx, v.jsonModel, prompt)
}

func (v *VertexGemini) Chat(ctx context.Context, turns []models.Turn) (string, error) {
	return v.chat(ctx, v.model, turns)
}

func (v *VertexGemini) ChatJSON(ctx context.Context, turns []models.Turn) (string, error) {
	return v.chat(ctx, v.jsonModel, turns)
}

func (v *VertexGemini) generate(ctx context.Context, m *vertexgenai.GenerativeModel, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	resp, err := m.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

func (v *VertexGemini) chat(ctx context.Context, m *vertexgenai.GenerativeModel, turns []models.Turn) (string, error) {
	if len(turns) == 0 {
		return "", fmt.Errorf("chat requires at least one turn")
	}
	last := turns[len(turns)-1]
	if last.Role != models.RoleUser {
		return "", fmt.Errorf("last turn must have role %q, got %q", models.RoleUser, last.Role)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	cs := m.StartChat()
	cs.History = toContents(turns[:len(turns)-1])

	resp, err := cs.SendMessage(ctx, toParts(last.Parts)...)
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

func toContents(turns []models.Turn) []*vertexgenai.Content {
	contents := make([]*vertexgenai.Content, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, &vertexgenai.Content{
			Role:  t.Role,
			Parts: toParts(t.Parts),
		})
	}
	return contents
}

func toParts(texts []string) []vertexgenai.Part {
	parts := make([]vertexgenai.Part, 0, len(texts))
	for _, s := range texts {
		parts = append(parts, vertexgenai.Text(s))
	}
	return parts
}

func responseText(resp *vertexgenai.GenerateContentResponse) (string, error) {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
