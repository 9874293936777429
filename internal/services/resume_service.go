package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/refertrack/backend/internal/models"
	"github.com/refertrack/backend/internal/prompts"
	"github.com/refertrack/backend/internal/providers/ats"
	"github.com/refertrack/backend/internal/providers/llm"
	"github.com/refertrack/backend/internal/storage"
	"github.com/refertrack/backend/internal/utils"
)

// ResumeRevision is the outcome of one improvement round: the screener's
// verdict on the current resume plus the model's revised sections.
type ResumeRevision struct {
	Score      int               `json:"score"`
	Remarks    string            `json:"remarks"`
	Sections   map[string]string `json:"sections"`
	StoredPath string            `json:"stored_path"`
}

type ResumeService interface {
	// Improve scores the base resume against the job, asks the model for
	// revised sections using the job's running conversation as context,
	// and stores the revision. Each stage fails with its own error; the
	// conversation is only extended after the model call succeeded.
	Improve(ctx context.Context, jobID string) (*ResumeRevision, error)
}

type resumeService struct {
	jobs       JobService
	convos     ConversationService
	llm        llm.Provider
	prompts    *prompts.Library
	scorer     ats.Scorer
	files      storage.Store
	baseObject string
	log        *logrus.Logger
}

func NewResumeService(jobs JobService, convos ConversationService, provider llm.Provider, lib *prompts.Library, scorer ats.Scorer, files storage.Store, baseObject string, log *logrus.Logger) ResumeService {
	return &resumeService{
		jobs:       jobs,
		convos:     convos,
		llm:        provider,
		prompts:    lib,
		scorer:     scorer,
		files:      files,
		baseObject: baseObject,
		log:        log,
	}
}

func (s *resumeService) Improve(ctx context.Context, jobID string) (*ResumeRevision, error) {
	const op = "ResumeService.Improve"

	if s.scorer == nil || s.files == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "resume pipeline is not configured", nil)
	}

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	resumeText, err := s.files.Download(ctx, s.baseObject)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to download base resume", err)
	}

	score, err := s.scorer.Score(ctx, job.Description, s.baseObject)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "resume screening failed", err)
	}

	prompt, err := s.prompts.Render(prompts.ResumePrompt, map[string]any{
		"current_resume_score": strconv.Itoa(score.Points),
		"current_resume_text":  string(resumeText),
		"job_description":      job.Description,
		"remarks":              score.Remarks,
	})
	if err != nil {
		return nil, err
	}

	key := models.JobKey(job.ID)
	history, err := s.convos.History(ctx, key)
	if err != nil {
		return nil, err
	}

	userTurn := models.UserTurn(prompt)
	raw, err := s.llm.ChatJSON(ctx, append(history, userTurn))
	if err != nil {
		return nil, upstreamErr(op, "failed to generate resume revision", err)
	}

	var sections map[string]string
	if err := decodeModelJSON(raw, &sections); err != nil {
		return nil, utils.E(utils.CodeBadUpstream, op, "model did not return valid revision JSON", err)
	}
	if len(sections) == 0 {
		return nil, utils.E(utils.CodeBadUpstream, op, "model returned an empty revision", nil)
	}

	if err := s.convos.AppendExchange(ctx, key, userTurn, models.ModelTurn(raw)); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(sections)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode revision", err)
	}
	objectName := fmt.Sprintf("resumes/%s/revision.json", job.ID)
	storedPath, err := s.files.Upload(ctx, objectName, "application/json", bytes.NewReader(encoded))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store revision", err)
	}

	s.log.WithFields(logrus.Fields{
		"job_id": job.ID,
		"score":  score.Points,
		"path":   storedPath,
	}).Info("resume revision stored")

	return &ResumeRevision{
		Score:      score.Points,
		Remarks:    score.Remarks,
		Sections:   sections,
		StoredPath: storedPath,
	}, nil
}
