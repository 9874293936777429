package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refertrack/backend/internal/models"
	"github.com/refertrack/backend/internal/utils"
)

func validJobInput() CreateJobInput {
	return CreateJobInput{
		Title:           "Backend Engineer",
		CompanyName:     "Acme",
		Location:        "Remote",
		Description:     "Build services in Go.",
		ApplicationLink: "https://acme.example/jobs/42",
		CompanyWebsite:  "https://acme.example",
	}
}

func TestCreateJobProvisionsEmptyConversation(t *testing.T) {
	ctx := context.Background()
	convos := make(convoTable)
	svc := NewJobService(newFakeJobRepo(convos))
	convoSvc := NewConversationService(newFakeConvoRepo(convos))

	job, err := svc.Create(ctx, validJobInput())
	require.NoError(t, err)
	require.NotEmpty(t, job.ID)
	assert.Equal(t, models.JobStatusPending, job.Status)

	history, err := convoSvc.History(ctx, models.JobKey(job.ID))
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCreateJobGeneratesFreshIDs(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(newFakeJobRepo(make(convoTable)))

	a, err := svc.Create(ctx, validJobInput())
	require.NoError(t, err)
	in := validJobInput()
	in.Title = "Platform Engineer"
	b, err := svc.Create(ctx, in)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateJobValidatesRequiredFields(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(newFakeJobRepo(make(convoTable)))

	mutations := map[string]func(*CreateJobInput){
		"title":            func(in *CreateJobInput) { in.Title = "" },
		"company_name":     func(in *CreateJobInput) { in.CompanyName = "  " },
		"location":         func(in *CreateJobInput) { in.Location = "" },
		"job_description":  func(in *CreateJobInput) { in.Description = "" },
		"application_link": func(in *CreateJobInput) { in.ApplicationLink = "" },
		"company_website":  func(in *CreateJobInput) { in.CompanyWebsite = "" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			in := validJobInput()
			mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
		})
	}
}

func TestGetJobRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(newFakeJobRepo(make(convoTable)))

	in := validJobInput()
	created, err := svc.Create(ctx, in)
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, in.CompanyName, got.CompanyName)
	assert.Equal(t, in.Location, got.Location)
	assert.Equal(t, in.Description, got.Description)
	assert.Equal(t, in.ApplicationLink, got.ApplicationLink)
	assert.Equal(t, in.CompanyWebsite, got.CompanyWebsite)
}

func TestGetJobNotFound(t *testing.T) {
	svc := NewJobService(newFakeJobRepo(make(convoTable)))

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestUpdateJobStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(newFakeJobRepo(make(convoTable)))

	job, err := svc.Create(ctx, validJobInput())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, job.ID, "Applied"))
	got, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Applied", got.Status)

	assert.True(t, utils.IsCode(svc.UpdateStatus(ctx, job.ID, "  "), utils.CodeInvalidArgument))
	assert.True(t, utils.IsCode(svc.UpdateStatus(ctx, "missing", "Applied"), utils.CodeNotFound))
}

func TestDeleteJobRemovesConversation(t *testing.T) {
	ctx := context.Background()
	convos := make(convoTable)
	svc := NewJobService(newFakeJobRepo(convos))

	job, err := svc.Create(ctx, validJobInput())
	require.NoError(t, err)
	require.Len(t, convos, 1)

	require.NoError(t, svc.Delete(ctx, job.ID))
	assert.Empty(t, convos)

	assert.True(t, utils.IsCode(svc.Delete(ctx, job.ID), utils.CodeNotFound))
}
