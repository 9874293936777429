package ats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type HTTPAgent struct {
	baseURL string
	client  *http.Client
}

// NewHTTPAgent talks to the screening agent at baseURL. The timeout is
// generous because the agent waits on a rendered score page.
func NewHTTPAgent(baseURL string, timeout time.Duration) *HTTPAgent {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &HTTPAgent{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type scoreRequest struct {
	JobDescription string `json:"job_description"`
	ResumePath     string `json:"resume_path"`
}

func (a *HTTPAgent) Score(ctx context.Context, jobDescription, resumePath string) (Score, error) {
	body, err := json.Marshal(scoreRequest{
		JobDescription: jobDescription,
		ResumePath:     resumePath,
	})
	if err != nil {
		return Score{}, fmt.Errorf("marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return Score{}, fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Score{}, fmt.Errorf("call screening agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Score{}, fmt.Errorf("screening agent HTTP %d", resp.StatusCode)
	}

	var out Score
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Score{}, fmt.Errorf("decode score response: %w", err)
	}
	return out, nil
}
