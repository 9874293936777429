package postgres

import (
	"context"
	"errors"

	"github.com/refertrack/backend/internal/models"
	"github.com/refertrack/backend/internal/utils"
	"gorm.io/gorm"
)

type JobRepository interface {
	// Create inserts the job and provisions its empty conversation in one
	// transaction; neither row is visible unless both succeed.
	Create(ctx context.Context, job *models.Job, convo *models.Conversation) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context) ([]models.Job, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// Delete removes the job, its people, and every conversation owned by
	// any of them, atomically.
	Delete(ctx context.Context, id string) error
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *models.Job, convo *models.Conversation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(job).Error; err != nil {
			return err
		}
		return tx.Create(convo).Error
	})
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &job, err
}

func (r *jobRepo) List(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).Order("id ASC").Find(&jobs).Error
	return jobs, err
}

func (r *jobRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var personIDs []string
		if err := tx.Model(&models.Person{}).
			Where("job_id = ?", id).
			Pluck("id", &personIDs).Error; err != nil {
			return err
		}

		if len(personIDs) > 0 {
			if err := tx.Where("owner_kind = ? AND owner_id IN ?", string(models.OwnerPerson), personIDs).
				Delete(&models.Conversation{}).Error; err != nil {
				return err
			}
			if err := tx.Where("job_id = ?", id).Delete(&models.Person{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("owner_kind = ? AND owner_id = ?", string(models.OwnerJob), id).
			Delete(&models.Conversation{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Job{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return nil
	})
}
