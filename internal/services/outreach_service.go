package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/refertrack/backend/internal/models"
	"github.com/refertrack/backend/internal/prompts"
	"github.com/refertrack/backend/internal/providers/llm"
	"github.com/refertrack/backend/internal/utils"
)

// StructuredProfile is the shape the model must return for profile
// extraction. Model output is untrusted; it is validated before any row is
// written.
type StructuredProfile struct {
	Name                string          `json:"name"`
	Headline            string          `json:"headline"`
	About               string          `json:"about"`
	CurrentCompany      string          `json:"current_company"`
	CurrentTitle        string          `json:"current_job_title"`
	Tenure              string          `json:"duration_in_current_company"`
	Skills              []string        `json:"skills"`
	PreviousExperiences json.RawMessage `json:"previous_experiences"`
	Education           json.RawMessage `json:"education"`
	AdditionalInfo      json.RawMessage `json:"additional_info"`
}

type OutreachService interface {
	// CreatePersonFromProfile extracts a structured profile from raw
	// pasted text and persists it as a person under the job.
	CreatePersonFromProfile(ctx context.Context, jobID, rawProfile string) (*models.Person, error)
	// ColdMessage drafts an initial outreach message for the person and
	// stores the two-turn exchange as their conversation. Nothing is
	// persisted unless both generation stages succeed.
	ColdMessage(ctx context.Context, personID string) (string, error)
	// Continue appends a follow-up to an existing conversation. The turns
	// sent upstream are exactly the stored history plus the new user
	// turn; both new turns are persisted only after the model replied.
	Continue(ctx context.Context, key models.ConversationKey, text string) (string, error)
}

type outreachService struct {
	jobs    JobService
	people  PersonService
	convos  ConversationService
	llm     llm.Provider
	prompts *prompts.Library
	log     *logrus.Logger
}

func NewOutreachService(jobs JobService, people PersonService, convos ConversationService, provider llm.Provider, lib *prompts.Library, log *logrus.Logger) OutreachService {
	return &outreachService{
		jobs:    jobs,
		people:  people,
		convos:  convos,
		llm:     provider,
		prompts: lib,
		log:     log,
	}
}

func (s *outreachService) CreatePersonFromProfile(ctx context.Context, jobID, rawProfile string) (*models.Person, error) {
	const op = "OutreachService.CreatePersonFromProfile"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}
	if strings.TrimSpace(rawProfile) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profile_text is required", nil)
	}

	// The job must exist before a model call is spent on it.
	if _, err := s.jobs.Get(ctx, jobID); err != nil {
		return nil, err
	}

	prompt, err := s.prompts.Render(prompts.ProfileExtractor, map[string]any{
		"profile_text": rawProfile,
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, upstreamErr(op, "profile extraction failed", err)
	}

	var profile StructuredProfile
	if err := decodeModelJSON(raw, &profile); err != nil {
		return nil, utils.E(utils.CodeBadUpstream, op, "model did not return valid profile JSON", err)
	}
	if strings.TrimSpace(profile.Name) == "" {
		return nil, utils.E(utils.CodeBadUpstream, op, "extracted profile is missing a name", nil)
	}

	person := &models.Person{
		JobID:               jobID,
		Name:                profile.Name,
		Headline:            profile.Headline,
		About:               profile.About,
		CurrentCompany:      profile.CurrentCompany,
		CurrentTitle:        profile.CurrentTitle,
		Tenure:              profile.Tenure,
		Skills:              profile.Skills,
		PreviousExperiences: rawOrEmpty(profile.PreviousExperiences),
		Education:           rawOrEmpty(profile.Education),
		AdditionalInfo:      rawOrEmpty(profile.AdditionalInfo),
	}
	return s.people.Create(ctx, person)
}

func (s *outreachService) ColdMessage(ctx context.Context, personID string) (string, error) {
	const op = "OutreachService.ColdMessage"

	person, err := s.people.Get(ctx, personID)
	if err != nil {
		return "", err
	}
	job, err := s.jobs.Get(ctx, person.JobID)
	if err != nil {
		return "", err
	}

	// Stage 1: company context from the company website.
	companyPrompt, err := s.prompts.Render(prompts.CompanyInformation, map[string]any{
		"company_website": job.CompanyWebsite,
	})
	if err != nil {
		return "", err
	}
	companyInfo, err := s.llm.GenerateText(ctx, companyPrompt)
	if err != nil {
		return "", upstreamErr(op, "failed to resolve company context", err)
	}

	// Stage 2: the outreach message itself.
	messagePrompt, err := s.prompts.Render(prompts.ColdMessage, map[string]any{
		"employee_information": formatPerson(person),
		"job_description":      formatJob(job),
		"company_information":  companyInfo,
	})
	if err != nil {
		return "", err
	}
	message, err := s.llm.GenerateText(ctx, messagePrompt)
	if err != nil {
		return "", upstreamErr(op, "failed to draft cold message", err)
	}

	// Persist only after both stages succeeded; a stage-2 failure must
	// not leave a half-formed conversation behind.
	key := models.PersonKey(person.ID)
	err = s.convos.Replace(ctx, key, []models.Turn{
		models.UserTurn(messagePrompt),
		models.ModelTurn(message),
	})
	if err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"person_id": person.ID,
		"job_id":    job.ID,
	}).Info("cold message generated")

	return message, nil
}

func (s *outreachService) Continue(ctx context.Context, key models.ConversationKey, text string) (string, error) {
	const op = "OutreachService.Continue"

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "message cannot be empty", nil)
	}

	history, err := s.convos.History(ctx, key)
	if err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "", utils.E(utils.CodeInvalidArgument, op, "no existing conversation found. Please start a new chat first.", nil)
	}

	userTurn := models.UserTurn(trimmed)
	reply, err := s.llm.Chat(ctx, append(history, userTurn))
	if err != nil {
		return "", upstreamErr(op, "failed to get follow-up response", err)
	}

	if err := s.convos.AppendExchange(ctx, key, userTurn, models.ModelTurn(reply)); err != nil {
		return "", err
	}
	return reply, nil
}

func formatPerson(p *models.Person) string {
	return fmt.Sprintf(
		"name: %s\nheadline: %s\nabout: %s\ncurrent_company: %s\ncurrent_job_title: %s\nduration_in_current_company: %s\nskills: %s\nprevious_experiences: %s\neducation: %s\nadditional_info: %s\n",
		p.Name, p.Headline, p.About, p.CurrentCompany, p.CurrentTitle, p.Tenure,
		strings.Join(p.Skills, ", "), string(p.PreviousExperiences), string(p.Education), string(p.AdditionalInfo),
	)
}

func formatJob(j *models.Job) string {
	return fmt.Sprintf(
		"job_title: %s\ncompany_name: %s\njob_description: %s\napplication_link: %s\n",
		j.Title, j.CompanyName, j.Description, j.ApplicationLink,
	)
}

func rawOrEmpty(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 {
		return datatypes.JSON(`[]`)
	}
	return datatypes.JSON(raw)
}

// decodeModelJSON parses model output strictly: blank or non-JSON text is
// an error, never persisted.
func decodeModelJSON(raw string, out any) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return llm.ErrEmptyResponse
	}
	return json.Unmarshal([]byte(trimmed), out)
}

// upstreamErr tags a generation-service failure with the right code:
// timeouts, empty output, and transport errors map to distinct statuses.
func upstreamErr(op, msg string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return utils.E(utils.CodeTimeout, op, msg+": model call timed out", err)
	case errors.Is(err, llm.ErrEmptyResponse):
		return utils.E(utils.CodeBadUpstream, op, msg+": model returned no text", err)
	default:
		return utils.E(utils.CodeUnavailable, op, msg, err)
	}
}
