package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// OwnerKind tags which identifier space a conversation key belongs to.
// Jobs and people each get their own message log; an untyped shared key
// column would collide if the two ID schemes ever overlapped.
type OwnerKind string

const (
	OwnerJob    OwnerKind = "job"
	OwnerPerson OwnerKind = "person"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ConversationKey identifies one message log.
type ConversationKey struct {
	Kind OwnerKind
	ID   string
}

func JobKey(jobID string) ConversationKey { return ConversationKey{Kind: OwnerJob, ID: jobID} }

func PersonKey(personID string) ConversationKey {
	return ConversationKey{Kind: OwnerPerson, ID: personID}
}

// Turn is one message in a conversation, in the order the model saw it.
type Turn struct {
	Role  string   `json:"role"`
	Parts []string `json:"parts"`
}

func UserTurn(text string) Turn  { return Turn{Role: RoleUser, Parts: []string{text}} }
func ModelTurn(text string) Turn { return Turn{Role: RoleModel, Parts: []string{text}} }

type Conversation struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerKind string         `gorm:"column:owner_kind;type:varchar(16);uniqueIndex:idx_conversations_owner" json:"owner_kind"`
	OwnerID   string         `gorm:"column:owner_id;type:uuid;uniqueIndex:idx_conversations_owner" json:"owner_id"`
	Turns     datatypes.JSON `gorm:"column:turns;type:jsonb" json:"turns"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }

func MarshalTurns(turns []Turn) (datatypes.JSON, error) {
	if turns == nil {
		turns = []Turn{}
	}
	b, err := json.Marshal(turns)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func UnmarshalTurns(raw datatypes.JSON) ([]Turn, error) {
	if len(raw) == 0 {
		return []Turn{}, nil
	}
	var turns []Turn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, err
	}
	if turns == nil {
		turns = []Turn{}
	}
	return turns, nil
}
