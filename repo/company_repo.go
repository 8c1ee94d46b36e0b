package repo

import (
	"context"
	"fmt"

	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/sqlbuild"
)

// CompanyRepository defines persistence operations for companies.
type CompanyRepository interface {
	List(ctx context.Context, filter sqlbuild.CompanyFilter) ([]models.CompanySummary, error)
	Get(ctx context.Context, handle string) (*models.CompanyDetail, error)
	Insert(ctx context.Context, params models.CreateCompanyParams) (*models.Company, error)
	Update(ctx context.Context, handle string, update *models.CompanyUpdate) (*models.Company, error)
	Delete(ctx context.Context, handle string) error
}

type companyRepo struct {
	q db.Querier
}

// NewCompanyRepo returns a CompanyRepository backed by q.
func NewCompanyRepo(q db.Querier) CompanyRepository {
	return &companyRepo{q: q}
}

const (
	sqlInsertCompany = `
		INSERT INTO companies (handle, name, num_employees, description, logo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING handle, name, num_employees, description, logo_url`

	sqlGetCompany = `
		SELECT handle, name, num_employees, description, logo_url
		FROM   companies
		WHERE  handle = $1`

	sqlListCompanyJobs = `
		SELECT id, title, salary, equity, date_posted
		FROM   jobs
		WHERE  company_handle = $1
		ORDER  BY date_posted, id`

	sqlDeleteCompany = `
		DELETE FROM companies WHERE handle = $1`
)

// List returns the companies matching filter. A filter whose minimum exceeds
// its maximum is rejected before any query is sent.
func (r *companyRepo) List(ctx context.Context, filter sqlbuild.CompanyFilter) ([]models.CompanySummary, error) {
	stmt, err := filter.Statement()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (models.CompanySummary, error) {
		var c models.CompanySummary
		if err := s.Scan(&c.Handle, &c.Name); err != nil {
			return c, fmt.Errorf("repo/company: scan: %w", err)
		}
		return c, nil
	})
}

// Get returns a company and the jobs it has posted. Both reads share one
// read-only transaction so the job list matches the company row.
// Returns db.ErrNotFound when no company has that handle.
func (r *companyRepo) Get(ctx context.Context, handle string) (*models.CompanyDetail, error) {
	var detail *models.CompanyDetail
	err := readSnapshot(ctx, r.q, func(q db.Querier) error {
		c, err := scanCompany(q.QueryRow(ctx, sqlGetCompany, handle))
		if err != nil {
			return err
		}

		rows, err := q.Query(ctx, sqlListCompanyJobs, handle)
		if err != nil {
			return err
		}
		jobs, err := collect(rows, func(s scanner) (models.JobPosting, error) {
			var j models.JobPosting
			if err := s.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, timestamp{t: &j.DatePosted}); err != nil {
				return j, fmt.Errorf("repo/company: scan job: %w", err)
			}
			return j, nil
		})
		if err != nil {
			return err
		}

		detail = &models.CompanyDetail{Company: *c, Jobs: jobs}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Insert creates a company.
func (r *companyRepo) Insert(ctx context.Context, p models.CreateCompanyParams) (*models.Company, error) {
	row := r.q.QueryRow(ctx, sqlInsertCompany,
		p.Handle, p.Name, NullInt(p.NumEmployees), NullString(p.Description), NullString(p.LogoURL))
	return scanCompany(row)
}

// Update applies a partial update to the company with the given handle.
// Returns sqlbuild.ErrEmptyUpdate when update sets nothing and
// db.ErrNotFound when no company has that handle.
func (r *companyRepo) Update(ctx context.Context, handle string, update *models.CompanyUpdate) (*models.Company, error) {
	stmt, err := update.Build(handle)
	if err != nil {
		return nil, err
	}
	return scanCompany(r.q.QueryRow(ctx, stmt.Query, stmt.Args...))
}

// Delete removes a company and, through the foreign key, its jobs.
// Returns db.ErrNotFound if no row was deleted.
func (r *companyRepo) Delete(ctx context.Context, handle string) error {
	res, err := r.q.Exec(ctx, sqlDeleteCompany, handle)
	if err != nil {
		return err
	}
	return expectOne(res)
}

var _ CompanyRepository = (*companyRepo)(nil)
