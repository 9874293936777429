package postgres

import (
	"context"
	"errors"

	"github.com/refertrack/backend/internal/models"
	"github.com/refertrack/backend/internal/utils"
	"gorm.io/gorm"
)

type PersonRepository interface {
	// Insert fails with utils.ErrConflict when a person with the same
	// (name, job_id) already exists. The unique index makes the check
	// atomic; there is no read-then-write race window.
	Insert(ctx context.Context, person *models.Person) error
	GetByID(ctx context.Context, id string) (*models.Person, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Person, error)
	ListConnectedByJob(ctx context.Context, jobID string) ([]models.Person, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type personRepo struct {
	db *gorm.DB
}

func NewPersonRepo(db *gorm.DB) PersonRepository {
	return &personRepo{db: db}
}

func (r *personRepo) Insert(ctx context.Context, person *models.Person) error {
	err := r.db.WithContext(ctx).Create(person).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrConflict
	}
	return err
}

func (r *personRepo) GetByID(ctx context.Context, id string) (*models.Person, error) {
	var p models.Person
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *personRepo) ListByJob(ctx context.Context, jobID string) ([]models.Person, error) {
	var people []models.Person
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("id ASC").
		Find(&people).Error
	return people, err
}

func (r *personRepo) ListConnectedByJob(ctx context.Context, jobID string) ([]models.Person, error) {
	var people []models.Person
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND status <> ?", jobID, models.PersonStatusNotConnected).
		Order("id ASC").
		Find(&people).Error
	return people, err
}

func (r *personRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Person{}).
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

func (r *personRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_kind = ? AND owner_id = ?", string(models.OwnerPerson), id).
			Delete(&models.Conversation{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Person{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return nil
	})
}
