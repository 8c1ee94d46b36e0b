package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/sqlbuild"
)

func (f fixture) seedJob(t *testing.T, title string, salary, equity float64) *models.Job {
	t.Helper()
	j, err := f.jobs.Insert(context.Background(), models.CreateJobParams{
		Title:         title,
		Salary:        salary,
		Equity:        equity,
		CompanyHandle: "test",
	})
	require.NoError(t, err)
	return j
}

func TestJobRepo_Insert(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "test", nil)

	j := f.seedJob(t, "engineer", 100000, 0.01)
	assert.NotZero(t, j.ID)
	assert.Equal(t, "engineer", j.Title)
	assert.Equal(t, 100000.0, j.Salary)
	assert.False(t, j.DatePosted.IsZero())
}

func TestJobRepo_Insert_UnknownCompany(t *testing.T) {
	f := newFixture(t)
	_, err := f.jobs.Insert(context.Background(), models.CreateJobParams{
		Title: "ghost", Salary: 1, Equity: 0, CompanyHandle: "nobody",
	})
	assert.True(t, db.IsForeignKeyViolation(err), "got %v", err)
}

func TestJobRepo_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCompany(t, "test", nil)
	j := f.seedJob(t, "engineer", 100000, 0.01)

	cases := []struct {
		name   string
		filter sqlbuild.JobFilter
		want   int
	}{
		{"no filter", sqlbuild.JobFilter{}, 1},
		{"search hit", sqlbuild.JobFilter{Search: "eng"}, 1},
		{"search miss", sqlbuild.JobFilter{Search: "chef"}, 0},
		{"salary below", sqlbuild.JobFilter{MinSalary: ptr(50000.0)}, 1},
		{"salary above", sqlbuild.JobFilter{MinSalary: ptr(110000.0)}, 0},
		{"equity equal", sqlbuild.JobFilter{MinEquity: ptr(0.01)}, 1},
		{"equity above", sqlbuild.JobFilter{MinEquity: ptr(0.02)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.jobs.List(ctx, tc.filter)
			require.NoError(t, err)
			require.Len(t, got, tc.want)
			if tc.want == 1 {
				assert.Equal(t, models.JobSummary{ID: j.ID, Title: "engineer", CompanyHandle: "test"}, got[0])
			}
		})
	}
}

func TestJobRepo_List_OrderedByPosting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCompany(t, "test", nil)
	first := f.seedJob(t, "first", 1, 0)
	second := f.seedJob(t, "second", 1, 0)

	_, err := f.db.Exec(ctx, `UPDATE jobs SET date_posted = $1 WHERE id = $2`, "2020-01-01 00:00:00", second.ID)
	require.NoError(t, err)

	got, err := f.jobs.List(ctx, sqlbuild.JobFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestJobRepo_Get(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "test", ptr(10))
	j := f.seedJob(t, "engineer", 100000, 0.01)

	got, err := f.jobs.Get(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, "engineer", got.Title)
	assert.Equal(t, "test", got.Company.Handle)
	assert.Equal(t, 10, *got.Company.NumEmployees)
	assert.False(t, got.DatePosted.IsZero())
}

func TestJobRepo_Update(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "test", nil)
	j := f.seedJob(t, "engineer", 100000, 0.01)

	u := sqlbuild.NewUpdate(models.JobsTable).
		Set(models.JobSalary, 120000.0).
		Set(models.JobTitle, "senior engineer")
	got, err := f.jobs.Update(context.Background(), j.ID, u)
	require.NoError(t, err)

	assert.Equal(t, j.ID, got.ID)
	assert.Equal(t, "senior engineer", got.Title)
	assert.Equal(t, 120000.0, got.Salary)
	assert.Equal(t, 0.01, got.Equity)
	assert.True(t, j.DatePosted.Equal(got.DatePosted))
}

func TestJobRepo_Update_CheckViolation(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "test", nil)
	j := f.seedJob(t, "engineer", 100000, 0.01)

	u := sqlbuild.NewUpdate(models.JobsTable).Set(models.JobEquity, 2.0)
	_, err := f.jobs.Update(context.Background(), j.ID, u)
	assert.True(t, db.IsClientError(err), "got %v", err)
}

func TestJobRepo_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCompany(t, "test", nil)
	j := f.seedJob(t, "engineer", 1, 0)

	require.NoError(t, f.jobs.Delete(ctx, j.ID))
	assert.True(t, db.IsNotFound(f.jobs.Delete(ctx, j.ID)))
}
