package models

import (
	"time"

	"github.com/Skryldev/jobly/sqlbuild"
)

// Job represents a row in the "jobs" table.
type Job struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Salary        float64   `json:"salary"`
	Equity        float64   `json:"equity"`
	CompanyHandle string    `json:"company_handle"`
	DatePosted    time.Time `json:"date_posted"`
}

// JobSummary is the listing projection of a job.
type JobSummary struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	CompanyHandle string `json:"company_handle"`
}

// JobPosting is a job as listed under its company.
type JobPosting struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Salary     float64   `json:"salary"`
	Equity     float64   `json:"equity"`
	DatePosted time.Time `json:"date_posted"`
}

// JobDetail is a job with the company that posted it.
type JobDetail struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Salary     float64   `json:"salary"`
	Equity     float64   `json:"equity"`
	Company    Company   `json:"company"`
	DatePosted time.Time `json:"date_posted"`
}

// CreateJobParams holds the fields required to post a job.
type CreateJobParams struct {
	Title         string
	Salary        float64
	Equity        float64
	CompanyHandle string
}

// JobColumn is a column of the jobs table.
type JobColumn string

const (
	JobID            JobColumn = "id"
	JobTitle         JobColumn = "title"
	JobSalary        JobColumn = "salary"
	JobEquity        JobColumn = "equity"
	JobCompanyHandle JobColumn = "company_handle"
	JobDatePosted    JobColumn = "date_posted"
)

// Kind returns the value shape accepted for c.
func (c JobColumn) Kind() ColumnKind {
	switch c {
	case JobSalary, JobEquity:
		return KindFloat
	}
	return KindText
}

// JobReadOnlyColumns are dropped from patch input before it is parsed. They
// exist on the table but are never client-assignable.
var JobReadOnlyColumns = []JobColumn{JobID, JobDatePosted}

// JobsTable is the partial-update descriptor for jobs, keyed by id.
var JobsTable = sqlbuild.Table[JobColumn]{
	Name: "jobs",
	Key:  JobID,
	Columns: []JobColumn{
		JobTitle,
		JobSalary,
		JobEquity,
		JobCompanyHandle,
	},
}

// JobUpdate is a partial update of a job.
type JobUpdate = sqlbuild.Update[JobColumn]
