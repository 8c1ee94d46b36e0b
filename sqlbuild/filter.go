package sqlbuild

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// ─────────────────────────────────────────────────────────────────────────────
// Errors
// ─────────────────────────────────────────────────────────────────────────────

// ErrRangeViolation matches every *RangeError via errors.Is.
var ErrRangeViolation = errors.New("jobly/sqlbuild: minimum exceeds maximum")

// RangeError reports a minimum bound greater than its paired maximum.
type RangeError struct {
	MinParam string
	MaxParam string
	Min      float64
	Max      float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s (%v) cannot be greater than %s (%v)", e.MinParam, e.Min, e.MaxParam, e.Max)
}

func (e *RangeError) Is(target error) bool { return target == ErrRangeViolation }

// ParamError reports a query parameter that could not be parsed.
type ParamError struct {
	Param string
	Value string
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Param, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// ─────────────────────────────────────────────────────────────────────────────
// Shared helpers
// ─────────────────────────────────────────────────────────────────────────────

// psql renders squirrel builders with $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// containsPattern wraps s for a LIKE substring match. An empty s matches
// every non-null value.
func containsPattern(s string) string {
	return "%" + s + "%"
}

func toStatement(b sq.SelectBuilder) (Statement, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return Statement{}, fmt.Errorf("jobly/sqlbuild: %w", err)
	}
	return Statement{Query: query, Args: args}, nil
}

func parseInt(q url.Values, param string) (*int, error) {
	raw := strings.TrimSpace(q.Get(param))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ParamError{Param: param, Value: raw, Err: errors.New("not an integer")}
	}
	return &n, nil
}

func parseFloat(q url.Values, param string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(param))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &ParamError{Param: param, Value: raw, Err: errors.New("not a number")}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &ParamError{Param: param, Value: raw, Err: errors.New("not a finite number")}
	}
	return &f, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Companies
// ─────────────────────────────────────────────────────────────────────────────

// UnboundedEmployees stands in for a missing max_emp once a range is active.
const UnboundedEmployees = 100_000_000

// CompanyFilter holds the optional predicates of GET /companies.
type CompanyFilter struct {
	Search       string
	MinEmployees *int
	MaxEmployees *int
}

// ParseCompanyFilter reads search, min_emp and max_emp from q.
func ParseCompanyFilter(q url.Values) (CompanyFilter, error) {
	minEmp, err := parseInt(q, "min_emp")
	if err != nil {
		return CompanyFilter{}, err
	}
	maxEmp, err := parseInt(q, "max_emp")
	if err != nil {
		return CompanyFilter{}, err
	}
	return CompanyFilter{
		Search:       q.Get("search"),
		MinEmployees: minEmp,
		MaxEmployees: maxEmp,
	}, nil
}

// Validate rejects a minimum employee count above the maximum.
func (f CompanyFilter) Validate() error {
	if f.MinEmployees != nil && f.MaxEmployees != nil && *f.MinEmployees > *f.MaxEmployees {
		return &RangeError{
			MinParam: "min_emp",
			MaxParam: "max_emp",
			Min:      float64(*f.MinEmployees),
			Max:      float64(*f.MaxEmployees),
		}
	}
	return nil
}

// Statement renders the company listing query.
//
// Without bounds the employee range is omitted, so companies with a NULL
// num_employees are listed. Once either bound is given the query uses
// BETWEEN with 0 and UnboundedEmployees filling the missing side, which
// excludes NULL rows.
func (f CompanyFilter) Statement() (Statement, error) {
	if err := f.Validate(); err != nil {
		return Statement{}, err
	}

	b := psql.Select("handle", "name").
		From("companies").
		Where(sq.Like{"name": containsPattern(f.Search)})

	if f.MinEmployees != nil || f.MaxEmployees != nil {
		lo, hi := 0, UnboundedEmployees
		if f.MinEmployees != nil {
			lo = *f.MinEmployees
		}
		if f.MaxEmployees != nil {
			hi = *f.MaxEmployees
		}
		b = b.Where("num_employees BETWEEN ? AND ?", lo, hi)
	}

	return toStatement(b.OrderBy("handle"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Jobs
// ─────────────────────────────────────────────────────────────────────────────

// JobFilter holds the optional predicates of GET /jobs. Jobs only have lower
// bounds.
type JobFilter struct {
	Search    string
	MinSalary *float64
	MinEquity *float64
}

// ParseJobFilter reads search, min_salary and min_equity from q.
func ParseJobFilter(q url.Values) (JobFilter, error) {
	minSalary, err := parseFloat(q, "min_salary")
	if err != nil {
		return JobFilter{}, err
	}
	minEquity, err := parseFloat(q, "min_equity")
	if err != nil {
		return JobFilter{}, err
	}
	return JobFilter{
		Search:    q.Get("search"),
		MinSalary: minSalary,
		MinEquity: minEquity,
	}, nil
}

// Statement renders the job listing query, oldest posting first.
func (f JobFilter) Statement() (Statement, error) {
	minSalary, minEquity := 0.0, 0.0
	if f.MinSalary != nil {
		minSalary = *f.MinSalary
	}
	if f.MinEquity != nil {
		minEquity = *f.MinEquity
	}

	b := psql.Select("id", "title", "company_handle").
		From("jobs").
		Where(sq.Like{"title": containsPattern(f.Search)}).
		Where(sq.GtOrEq{"salary": minSalary}).
		Where(sq.GtOrEq{"equity": minEquity}).
		OrderBy("date_posted", "id")

	return toStatement(b)
}
