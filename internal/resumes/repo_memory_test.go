package resumes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
)

func seed(t *testing.T, repo Repo) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []Record{
		{ID: "r1", UserID: "u1", TemplateID: model.TemplateModern, CreatedAt: base},
		{ID: "r2", UserID: "u1", TemplateID: model.TemplateClassic, CreatedAt: base.Add(time.Hour)},
		{ID: "r3", UserID: "u2", TemplateID: model.TemplateModern, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "r4", UserID: "u1", TemplateID: model.TemplateCreative, CreatedAt: base.Add(3 * time.Hour)},
	}
	for _, rec := range rows {
		require.NoError(t, repo.Insert(context.Background(), rec))
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.ID
	}
	return out
}

func TestMemoryRepoQueryFiltersAndOrders(t *testing.T) {
	repo := NewMemoryRepo()
	seed(t, repo)
	ctx := context.Background()

	got, err := repo.Query(ctx, Filter{UserID: "u1"}, Order{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r4"}, ids(got))

	got, err = repo.Query(ctx, Filter{UserID: "u1"}, Order{Field: OrderCreatedAt, Desc: true}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r4", "r2"}, ids(got))

	got, err = repo.Query(ctx, Filter{UserID: "u1"}, Order{Field: OrderCreatedAt, Desc: true}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids(got))

	got, err = repo.Query(ctx, Filter{TemplateID: model.TemplateModern}, Order{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r3"}, ids(got))

	got, err = repo.Query(ctx, Filter{UserID: "u1"}, Order{Field: OrderTemplateID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r4", "r1"}, ids(got))

	got, err = repo.Query(ctx, Filter{UserID: "u1"}, Order{}, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryRepoGetByIDReturnsCopy(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	rec := Record{
		ID:     "r1",
		UserID: "u1",
		Data:   model.ResumeData{WorkExperience: []model.WorkExperience{{ID: "w1", Achievements: []string{"shipped"}}}},
	}
	require.NoError(t, repo.Insert(ctx, rec))

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	got.Data.WorkExperience[0].Achievements[0] = "changed"

	again, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "shipped", again.Data.WorkExperience[0].Achievements[0])

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceHidesOtherUsersResumes(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	saved, err := svc.Save(ctx, "u1", model.ResumeData{PersonalInfo: model.PersonalInfo{FirstName: "Ada"}}, "neon")
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, model.TemplateModern, saved.TemplateID)

	_, err = svc.Get(ctx, "u2", saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(ctx, "u1", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Data.PersonalInfo.FirstName)

	_, err = svc.Save(ctx, "", model.ResumeData{}, model.TemplateModern)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
