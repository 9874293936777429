package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/refertrack/backend/internal/models"
	"github.com/refertrack/backend/internal/providers/ats"
	"github.com/refertrack/backend/internal/utils"
)

func writePromptFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

// In-memory stand-ins for the postgres repositories. The job and
// conversation fakes share one conversation table so provisioning and
// cascades behave like the real transactional store.

type convoTable map[string]*models.Conversation

func convoKeyOf(kind, id string) string { return kind + "/" + id }

type fakeJobRepo struct {
	jobs   map[string]*models.Job
	convos convoTable
	err    error
}

func newFakeJobRepo(convos convoTable) *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*models.Job), convos: convos}
}

func (r *fakeJobRepo) Create(_ context.Context, job *models.Job, convo *models.Conversation) error {
	if r.err != nil {
		return r.err
	}
	cp := *job
	r.jobs[job.ID] = &cp
	cc := *convo
	r.convos[convoKeyOf(convo.OwnerKind, convo.OwnerID)] = &cc
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id string) (*models.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *fakeJobRepo) List(_ context.Context) ([]models.Job, error) {
	out := make([]models.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	return out, nil
}

func (r *fakeJobRepo) UpdateStatus(_ context.Context, id, status string) error {
	job, ok := r.jobs[id]
	if !ok {
		return utils.ErrNotFound
	}
	job.Status = status
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.jobs[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.jobs, id)
	delete(r.convos, convoKeyOf(string(models.OwnerJob), id))
	return nil
}

type fakePersonRepo struct {
	people map[string]*models.Person
	convos convoTable
}

func newFakePersonRepo(convos convoTable) *fakePersonRepo {
	return &fakePersonRepo{people: make(map[string]*models.Person), convos: convos}
}

func (r *fakePersonRepo) Insert(_ context.Context, person *models.Person) error {
	for _, p := range r.people {
		if p.Name == person.Name && p.JobID == person.JobID {
			return utils.ErrConflict
		}
	}
	cp := *person
	r.people[person.ID] = &cp
	return nil
}

func (r *fakePersonRepo) GetByID(_ context.Context, id string) (*models.Person, error) {
	p, ok := r.people[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePersonRepo) ListByJob(_ context.Context, jobID string) ([]models.Person, error) {
	var out []models.Person
	for _, p := range r.people {
		if p.JobID == jobID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePersonRepo) ListConnectedByJob(_ context.Context, jobID string) ([]models.Person, error) {
	var out []models.Person
	for _, p := range r.people {
		if p.JobID == jobID && p.Status != models.PersonStatusNotConnected {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePersonRepo) UpdateStatus(_ context.Context, id, status string) error {
	p, ok := r.people[id]
	if !ok {
		return utils.ErrNotFound
	}
	p.Status = status
	return nil
}

func (r *fakePersonRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.people[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.people, id)
	delete(r.convos, convoKeyOf(string(models.OwnerPerson), id))
	return nil
}

type fakeConvoRepo struct {
	convos convoTable
}

func newFakeConvoRepo(convos convoTable) *fakeConvoRepo {
	return &fakeConvoRepo{convos: convos}
}

func (r *fakeConvoRepo) Get(_ context.Context, key models.ConversationKey) (*models.Conversation, error) {
	row, ok := r.convos[convoKeyOf(string(key.Kind), key.ID)]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *fakeConvoRepo) Replace(_ context.Context, key models.ConversationKey, turns []models.Turn) error {
	raw, err := models.MarshalTurns(turns)
	if err != nil {
		return err
	}
	k := convoKeyOf(string(key.Kind), key.ID)
	if row, ok := r.convos[k]; ok {
		row.Turns = raw
		row.UpdatedAt = time.Now().UTC()
		return nil
	}
	r.convos[k] = &models.Conversation{
		ID:        models.NewID(),
		OwnerKind: string(key.Kind),
		OwnerID:   key.ID,
		Turns:     raw,
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}

func (r *fakeConvoRepo) Append(ctx context.Context, key models.ConversationKey, turns ...models.Turn) error {
	k := convoKeyOf(string(key.Kind), key.ID)
	row, ok := r.convos[k]
	if !ok {
		return r.Replace(ctx, key, turns)
	}
	existing, err := models.UnmarshalTurns(row.Turns)
	if err != nil {
		return err
	}
	raw, err := models.MarshalTurns(append(existing, turns...))
	if err != nil {
		return err
	}
	row.Turns = raw
	return nil
}

func (r *fakeConvoRepo) Clear(ctx context.Context, key models.ConversationKey) error {
	k := convoKeyOf(string(key.Kind), key.ID)
	if _, ok := r.convos[k]; !ok {
		return nil
	}
	return r.Replace(ctx, key, nil)
}

// fakeProvider replays scripted results and records every call.

type genResult struct {
	text string
	err  error
}

type fakeProvider struct {
	textResults     []genResult
	jsonResults     []genResult
	chatResults     []genResult
	chatJSONResults []genResult

	prompts []string
	chats   [][]models.Turn
}

func popResult(queue *[]genResult) genResult {
	if len(*queue) == 0 {
		return genResult{err: errors.New("unexpected model call")}
	}
	r := (*queue)[0]
	*queue = (*queue)[1:]
	return r
}

func (p *fakeProvider) GenerateText(_ context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	r := popResult(&p.textResults)
	return r.text, r.err
}

func (p *fakeProvider) GenerateJSON(_ context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	r := popResult(&p.jsonResults)
	return r.text, r.err
}

func (p *fakeProvider) Chat(_ context.Context, turns []models.Turn) (string, error) {
	p.chats = append(p.chats, append([]models.Turn(nil), turns...))
	r := popResult(&p.chatResults)
	return r.text, r.err
}

func (p *fakeProvider) ChatJSON(_ context.Context, turns []models.Turn) (string, error) {
	p.chats = append(p.chats, append([]models.Turn(nil), turns...))
	r := popResult(&p.chatJSONResults)
	return r.text, r.err
}

func (p *fakeProvider) Close() error { return nil }

type fakeScorer struct {
	score ats.Score
	err   error
}

func (s *fakeScorer) Score(context.Context, string, string) (ats.Score, error) {
	return s.score, s.err
}

type fakeStore struct {
	objects map[string][]byte
	uploads []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[objectName] = b
	s.uploads = append(s.uploads, objectName)
	return fmt.Sprintf("gs://test/%s", objectName), nil
}

func (s *fakeStore) Download(_ context.Context, objectName string) ([]byte, error) {
	b, ok := s.objects[objectName]
	if !ok {
		return nil, fmt.Errorf("object %q not found", objectName)
	}
	return b, nil
}
