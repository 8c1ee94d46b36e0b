package repo

import (
	"context"
	"fmt"

	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/sqlbuild"
)

// JobRepository defines persistence operations for jobs.
type JobRepository interface {
	List(ctx context.Context, filter sqlbuild.JobFilter) ([]models.JobSummary, error)
	Get(ctx context.Context, id int64) (*models.JobDetail, error)
	Insert(ctx context.Context, params models.CreateJobParams) (*models.Job, error)
	Update(ctx context.Context, id int64, update *models.JobUpdate) (*models.Job, error)
	Delete(ctx context.Context, id int64) error
}

type jobRepo struct {
	q db.Querier
}

// NewJobRepo returns a JobRepository backed by q.
func NewJobRepo(q db.Querier) JobRepository {
	return &jobRepo{q: q}
}

const (
	sqlInsertJob = `
		INSERT INTO jobs (title, salary, equity, company_handle)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, salary, equity, company_handle, date_posted`

	sqlGetJob = `
		SELECT j.id, j.title, j.salary, j.equity, j.date_posted,
		       c.handle, c.name, c.num_employees, c.description, c.logo_url
		FROM   jobs AS j
		JOIN   companies AS c ON c.handle = j.company_handle
		WHERE  j.id = $1`

	sqlDeleteJob = `
		DELETE FROM jobs WHERE id = $1`
)

// List returns the jobs matching filter, oldest posting first.
func (r *jobRepo) List(ctx context.Context, filter sqlbuild.JobFilter) ([]models.JobSummary, error) {
	stmt, err := filter.Statement()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (models.JobSummary, error) {
		var j models.JobSummary
		if err := s.Scan(&j.ID, &j.Title, &j.CompanyHandle); err != nil {
			return j, fmt.Errorf("repo/job: scan: %w", err)
		}
		return j, nil
	})
}

// Get returns a job with the company that posted it.
// Returns db.ErrNotFound when no job has that id.
func (r *jobRepo) Get(ctx context.Context, id int64) (*models.JobDetail, error) {
	var j models.JobDetail
	row := r.q.QueryRow(ctx, sqlGetJob, id)

	posted := timestamp{t: &j.DatePosted}
	company, err := scanCompany(rowPrefix{row: row, dest: []any{&j.ID, &j.Title, &j.Salary, &j.Equity, &posted}})
	if err != nil {
		return nil, err
	}
	j.Company = *company
	return &j, nil
}

// Insert posts a job. Returns db.ErrForeignKeyViolation when the company
// does not exist.
func (r *jobRepo) Insert(ctx context.Context, p models.CreateJobParams) (*models.Job, error) {
	row := r.q.QueryRow(ctx, sqlInsertJob, p.Title, p.Salary, p.Equity, p.CompanyHandle)
	return scanJob(row)
}

// Update applies a partial update to the job with the given id.
func (r *jobRepo) Update(ctx context.Context, id int64, update *models.JobUpdate) (*models.Job, error) {
	stmt, err := update.Build(id)
	if err != nil {
		return nil, err
	}
	return scanJob(r.q.QueryRow(ctx, stmt.Query, stmt.Args...))
}

// Delete removes a job by id.
// Returns db.ErrNotFound if no row was deleted.
func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.Exec(ctx, sqlDeleteJob, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// rowPrefix lets a joined row be decoded by an existing scan function: dest
// receives the leading columns and the scan function's targets the rest.
type rowPrefix struct {
	row  scanner
	dest []any
}

func (p rowPrefix) Scan(rest ...any) error {
	return p.row.Scan(append(p.dest, rest...)...)
}

var _ JobRepository = (*jobRepo)(nil)
