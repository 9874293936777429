package services

import (
	"context"
	"errors"

	"github.com/refertrack/backend/internal/models"
	pgrepo "github.com/refertrack/backend/internal/repositories/postgres"
	"github.com/refertrack/backend/internal/utils"
)

type ConversationService interface {
	// History returns the ordered turn log. A missing row yields an empty
	// slice, not an error, so a UI can render a blank chat.
	History(ctx context.Context, key models.ConversationKey) ([]models.Turn, error)
	// Clear truncates the log. Clearing a missing or already-empty log
	// succeeds; the operation is idempotent.
	Clear(ctx context.Context, key models.ConversationKey) error
	// Replace overwrites the log with exactly the given turns, creating
	// the row if needed.
	Replace(ctx context.Context, key models.ConversationKey, turns []models.Turn) error
	// AppendExchange persists a user turn and the model's reply in one
	// atomic write. Callers only invoke it after the generation call
	// succeeded, so the stored log never holds a dangling user turn.
	AppendExchange(ctx context.Context, key models.ConversationKey, userTurn, modelTurn models.Turn) error
}

type conversationService struct {
	convos pgrepo.ConversationRepository
}

func NewConversationService(convos pgrepo.ConversationRepository) ConversationService {
	return &conversationService{convos: convos}
}

func (s *conversationService) History(ctx context.Context, key models.ConversationKey) ([]models.Turn, error) {
	const op = "ConversationService.History"

	if key.ID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "conversation key is required", nil)
	}

	row, err := s.convos.Get(ctx, key)
	if errors.Is(err, utils.ErrNotFound) {
		return []models.Turn{}, nil
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load conversation", err)
	}

	turns, err := models.UnmarshalTurns(row.Turns)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "stored conversation is malformed", err)
	}
	return turns, nil
}

func (s *conversationService) Clear(ctx context.Context, key models.ConversationKey) error {
	const op = "ConversationService.Clear"

	if key.ID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "conversation key is required", nil)
	}
	if err := s.convos.Clear(ctx, key); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to clear conversation", err)
	}
	return nil
}

func (s *conversationService) Replace(ctx context.Context, key models.ConversationKey, turns []models.Turn) error {
	const op = "ConversationService.Replace"

	if key.ID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "conversation key is required", nil)
	}
	if err := s.convos.Replace(ctx, key, turns); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to store conversation", err)
	}
	return nil
}

func (s *conversationService) AppendExchange(ctx context.Context, key models.ConversationKey, userTurn, modelTurn models.Turn) error {
	const op = "ConversationService.AppendExchange"

	if key.ID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "conversation key is required", nil)
	}
	if err := s.convos.Append(ctx, key, userTurn, modelTurn); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to append conversation turns", err)
	}
	return nil
}
