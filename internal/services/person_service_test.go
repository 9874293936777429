package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refertrack/backend/internal/models"
	"github.com/refertrack/backend/internal/utils"
)

func testPerson(jobID, name string) *models.Person {
	return &models.Person{
		JobID:    jobID,
		Name:     name,
		Headline: "Senior Engineer at Acme",
	}
}

func TestCreatePersonAssignsDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewPersonService(newFakePersonRepo(make(convoTable)))

	p, err := svc.Create(ctx, testPerson("job-1", "Ada"))
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.PersonStatusNotConnected, p.Status)
}

func TestCreatePersonDuplicateIsConflictWithoutInsert(t *testing.T) {
	ctx := context.Background()
	repo := newFakePersonRepo(make(convoTable))
	svc := NewPersonService(repo)

	_, err := svc.Create(ctx, testPerson("job-1", "Ada"))
	require.NoError(t, err)
	require.Len(t, repo.people, 1)

	_, err = svc.Create(ctx, testPerson("job-1", "Ada"))
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
	assert.Len(t, repo.people, 1)

	// Same name under a different job is fine.
	_, err = svc.Create(ctx, testPerson("job-2", "Ada"))
	require.NoError(t, err)
	assert.Len(t, repo.people, 2)
}

func TestListConnectionsExcludesNotConnected(t *testing.T) {
	ctx := context.Background()
	svc := NewPersonService(newFakePersonRepo(make(convoTable)))

	fixtures := map[string]string{
		"Ada":   models.PersonStatusConnected,
		"Brian": models.PersonStatusNotConnected,
		"Chen":  "Messaged",
		"Dana":  models.PersonStatusNotConnected,
	}
	for name, status := range fixtures {
		p := testPerson("job-1", name)
		p.Status = status
		_, err := svc.Create(ctx, p)
		require.NoError(t, err)
	}

	connections, err := svc.ListConnections(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, connections, 2)
	for _, p := range connections {
		assert.NotEqual(t, models.PersonStatusNotConnected, p.Status)
	}
}

func TestUpdatePersonStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewPersonService(newFakePersonRepo(make(convoTable)))

	p, err := svc.Create(ctx, testPerson("job-1", "Ada"))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, p.ID, models.PersonStatusConnected))
	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PersonStatusConnected, got.Status)

	assert.True(t, utils.IsCode(svc.UpdateStatus(ctx, p.ID, ""), utils.CodeInvalidArgument))
	assert.True(t, utils.IsCode(svc.UpdateStatus(ctx, "missing", "Connected"), utils.CodeNotFound))
}

func TestDeletePersonRemovesConversation(t *testing.T) {
	ctx := context.Background()
	convos := make(convoTable)
	svc := NewPersonService(newFakePersonRepo(convos))
	convoSvc := NewConversationService(newFakeConvoRepo(convos))

	p, err := svc.Create(ctx, testPerson("job-1", "Ada"))
	require.NoError(t, err)
	require.NoError(t, convoSvc.Replace(ctx, models.PersonKey(p.ID), []models.Turn{models.UserTurn("hi")}))

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.Empty(t, convos)

	assert.True(t, utils.IsCode(svc.Delete(ctx, p.ID), utils.CodeNotFound))
}
