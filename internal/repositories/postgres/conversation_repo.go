package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/refertrack/backend/internal/models"
	"github.com/refertrack/backend/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepository interface {
	Get(ctx context.Context, key models.ConversationKey) (*models.Conversation, error)
	// Replace upserts the row with exactly the given turns.
	Replace(ctx context.Context, key models.ConversationKey, turns []models.Turn) error
	// Append adds turns to the end of the log, creating the row if it does
	// not exist yet. The read-modify-write runs under a row lock.
	Append(ctx context.Context, key models.ConversationKey, turns ...models.Turn) error
	// Clear truncates the log to empty. Missing row is a no-op.
	Clear(ctx context.Context, key models.ConversationKey) error
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Get(ctx context.Context, key models.ConversationKey) (*models.Conversation, error) {
	var row models.Conversation
	err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ?", string(key.Kind), key.ID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *conversationRepo) Replace(ctx context.Context, key models.ConversationKey, turns []models.Turn) error {
	raw, err := models.MarshalTurns(turns)
	if err != nil {
		return err
	}
	row := &models.Conversation{
		ID:        models.NewID(),
		OwnerKind: string(key.Kind),
		OwnerID:   key.ID,
		Turns:     raw,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_kind"}, {Name: "owner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"turns", "updated_at"}),
		}).
		Create(row).Error
}

func (r *conversationRepo) Append(ctx context.Context, key models.ConversationKey, turns ...models.Turn) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Conversation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_kind = ? AND owner_id = ?", string(key.Kind), key.ID).
			Take(&row).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			raw, merr := models.MarshalTurns(turns)
			if merr != nil {
				return merr
			}
			return tx.Create(&models.Conversation{
				ID:        models.NewID(),
				OwnerKind: string(key.Kind),
				OwnerID:   key.ID,
				Turns:     raw,
				UpdatedAt: time.Now().UTC(),
			}).Error
		}
		if err != nil {
			return err
		}

		existing, err := models.UnmarshalTurns(row.Turns)
		if err != nil {
			return err
		}
		raw, err := models.MarshalTurns(append(existing, turns...))
		if err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{"turns": raw, "updated_at": time.Now().UTC()}).Error
	})
}

func (r *conversationRepo) Clear(ctx context.Context, key models.ConversationKey) error {
	raw, err := models.MarshalTurns(nil)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("owner_kind = ? AND owner_id = ?", string(key.Kind), key.ID).
		Updates(map[string]any{"turns": raw, "updated_at": time.Now().UTC()}).Error
}
