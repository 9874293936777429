package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/refertrack/backend/internal/models"
	pgrepo "github.com/refertrack/backend/internal/repositories/postgres"
	"github.com/refertrack/backend/internal/utils"
)

type CreateJobInput struct {
	Title           string `json:"job_title"`
	CompanyName     string `json:"company_name"`
	Location        string `json:"location"`
	Description     string `json:"job_description"`
	ApplicationLink string `json:"application_link"`
	CompanyWebsite  string `json:"company_website"`
}

type JobService interface {
	// Create inserts the job together with its empty conversation; the
	// two writes share one transaction, so a provisioning failure fails
	// the whole creation instead of being logged and dropped.
	Create(ctx context.Context, in CreateJobInput) (*models.Job, error)
	Get(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context) ([]models.Job, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type jobService struct {
	jobs pgrepo.JobRepository
}

func NewJobService(jobs pgrepo.JobRepository) JobService {
	return &jobService{jobs: jobs}
}

func (s *jobService) Create(ctx context.Context, in CreateJobInput) (*models.Job, error) {
	const op = "JobService.Create"

	required := map[string]string{
		"job_title":        in.Title,
		"company_name":     in.CompanyName,
		"location":         in.Location,
		"job_description":  in.Description,
		"application_link": in.ApplicationLink,
		"company_website":  in.CompanyWebsite,
	}
	for field, val := range required {
		if strings.TrimSpace(val) == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, field+" is required", nil)
		}
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:              models.NewID(),
		Title:           in.Title,
		CompanyName:     in.CompanyName,
		Location:        in.Location,
		Description:     in.Description,
		ApplicationLink: in.ApplicationLink,
		CompanyWebsite:  in.CompanyWebsite,
		Status:          models.JobStatusPending,
		CreatedAt:       now,
	}

	emptyTurns, err := models.MarshalTurns(nil)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode empty conversation", err)
	}
	convo := &models.Conversation{
		ID:        models.NewID(),
		OwnerKind: string(models.OwnerJob),
		OwnerID:   job.ID,
		Turns:     emptyTurns,
		UpdatedAt: now,
	}

	if err := s.jobs.Create(ctx, job, convo); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}
	return job, nil
}

func (s *jobService) Get(ctx context.Context, id string) (*models.Job, error) {
	const op = "JobService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	return job, nil
}

func (s *jobService) List(ctx context.Context) ([]models.Job, error) {
	const op = "JobService.List"

	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return jobs, nil
}

func (s *jobService) UpdateStatus(ctx context.Context, id, status string) error {
	const op = "JobService.UpdateStatus"

	if id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}
	if strings.TrimSpace(status) == "" {
		return utils.E(utils.CodeInvalidArgument, op, "status is required", nil)
	}

	if err := s.jobs.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to update job status", err)
	}
	return nil
}

func (s *jobService) Delete(ctx context.Context, id string) error {
	const op = "JobService.Delete"

	if id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}

	if err := s.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete job", err)
	}
	return nil
}
