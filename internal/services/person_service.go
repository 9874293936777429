package services

import (
	"context"
	"errors"
	"strings"

	"github.com/refertrack/backend/internal/models"
	pgrepo "github.com/refertrack/backend/internal/repositories/postgres"
	"github.com/refertrack/backend/internal/utils"
)

type PersonService interface {
	// Create fails with Conflict when a person with the same name already
	// exists for the job; nothing is written in that case.
	Create(ctx context.Context, person *models.Person) (*models.Person, error)
	Get(ctx context.Context, id string) (*models.Person, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Person, error)
	// ListConnections returns every person for the job whose status is
	// anything other than "Not Connected".
	ListConnections(ctx context.Context, jobID string) ([]models.Person, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type personService struct {
	people pgrepo.PersonRepository
}

func NewPersonService(people pgrepo.PersonRepository) PersonService {
	return &personService{people: people}
}

func (s *personService) Create(ctx context.Context, person *models.Person) (*models.Person, error) {
	const op = "PersonService.Create"

	if person == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "person is required", nil)
	}
	if person.JobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}
	if strings.TrimSpace(person.Name) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name is required", nil)
	}

	if person.ID == "" {
		person.ID = models.NewID()
	}
	if person.Status == "" {
		person.Status = models.PersonStatusNotConnected
	}

	if err := s.people.Insert(ctx, person); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "a person with this name already exists for this job", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create person", err)
	}
	return person, nil
}

func (s *personService) Get(ctx context.Context, id string) (*models.Person, error) {
	const op = "PersonService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "person_id is required", nil)
	}

	p, err := s.people.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "person not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get person", err)
	}
	return p, nil
}

func (s *personService) ListByJob(ctx context.Context, jobID string) ([]models.Person, error) {
	const op = "PersonService.ListByJob"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}

	people, err := s.people.ListByJob(ctx, jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list people", err)
	}
	return people, nil
}

func (s *personService) ListConnections(ctx context.Context, jobID string) ([]models.Person, error) {
	const op = "PersonService.ListConnections"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}

	people, err := s.people.ListConnectedByJob(ctx, jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list connections", err)
	}
	return people, nil
}

func (s *personService) UpdateStatus(ctx context.Context, id, status string) error {
	const op = "PersonService.UpdateStatus"

	if id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "person_id is required", nil)
	}
	if strings.TrimSpace(status) == "" {
		return utils.E(utils.CodeInvalidArgument, op, "status is required", nil)
	}

	if err := s.people.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "person not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to update person status", err)
	}
	return nil
}

func (s *personService) Delete(ctx context.Context, id string) error {
	const op = "PersonService.Delete"

	if id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "person_id is required", nil)
	}

	if err := s.people.Delete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "person not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete person", err)
	}
	return nil
}
