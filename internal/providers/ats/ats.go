// Package ats names the contract with the external resume-screening agent.
// The agent drives a headless browser against a third-party screener; this
// service only ever sees the resulting score and remarks.
package ats

import "context"

type Score struct {
	Points  int    `json:"score"`
	Remarks string `json:"remarks"`
}

type Scorer interface {
	Score(ctx context.Context, jobDescription, resumePath string) (Score, error)
}
