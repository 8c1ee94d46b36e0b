package sqlbuild_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/jobly/sqlbuild"
)

func intp(n int) *int { return &n }
func floatp(f float64) *float64 { return &f }

func TestCompanyFilter_Statement(t *testing.T) {
	t.Run("no bounds omits range", func(t *testing.T) {
		stmt, err := sqlbuild.CompanyFilter{}.Statement()
		require.NoError(t, err)
		assert.Equal(t, "SELECT handle, name FROM companies WHERE name LIKE $1 ORDER BY handle", stmt.Query)
		assert.Equal(t, []any{"%%"}, stmt.Args)
	})

	t.Run("both bounds", func(t *testing.T) {
		stmt, err := sqlbuild.CompanyFilter{
			Search:       "Te",
			MinEmployees: intp(5),
			MaxEmployees: intp(50),
		}.Statement()
		require.NoError(t, err)
		assert.Equal(t,
			"SELECT handle, name FROM companies WHERE name LIKE $1 AND num_employees BETWEEN $2 AND $3 ORDER BY handle",
			stmt.Query)
		assert.Equal(t, []any{"%Te%", 5, 50}, stmt.Args)
	})

	t.Run("min only uses unbounded max", func(t *testing.T) {
		stmt, err := sqlbuild.CompanyFilter{MinEmployees: intp(0)}.Statement()
		require.NoError(t, err)
		assert.Contains(t, stmt.Query, "num_employees BETWEEN $2 AND $3")
		assert.Equal(t, []any{"%%", 0, sqlbuild.UnboundedEmployees}, stmt.Args)
	})

	t.Run("max only uses zero min", func(t *testing.T) {
		stmt, err := sqlbuild.CompanyFilter{MaxEmployees: intp(20)}.Statement()
		require.NoError(t, err)
		assert.Equal(t, []any{"%%", 0, 20}, stmt.Args)
	})

	t.Run("equal bounds are allowed", func(t *testing.T) {
		_, err := sqlbuild.CompanyFilter{MinEmployees: intp(7), MaxEmployees: intp(7)}.Statement()
		assert.NoError(t, err)
	})

	t.Run("min above max is a range violation", func(t *testing.T) {
		_, err := sqlbuild.CompanyFilter{MinEmployees: intp(5), MaxEmployees: intp(1)}.Statement()
		require.ErrorIs(t, err, sqlbuild.ErrRangeViolation)

		var rangeErr *sqlbuild.RangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "min_emp", rangeErr.MinParam)
		assert.Equal(t, float64(5), rangeErr.Min)
		assert.Equal(t, float64(1), rangeErr.Max)
	})
}

func TestJobFilter_Statement(t *testing.T) {
	const want = "SELECT id, title, company_handle FROM jobs WHERE title LIKE $1 AND salary >= $2 AND equity >= $3 ORDER BY date_posted, id"

	t.Run("defaults", func(t *testing.T) {
		stmt, err := sqlbuild.JobFilter{}.Statement()
		require.NoError(t, err)
		assert.Equal(t, want, stmt.Query)
		assert.Equal(t, []any{"%%", 0.0, 0.0}, stmt.Args)
	})

	t.Run("all params", func(t *testing.T) {
		stmt, err := sqlbuild.JobFilter{
			Search:    "eng",
			MinSalary: floatp(110000),
			MinEquity: floatp(0.01),
		}.Statement()
		require.NoError(t, err)
		assert.Equal(t, want, stmt.Query)
		assert.Equal(t, []any{"%eng%", 110000.0, 0.01}, stmt.Args)
	})
}

func TestParseCompanyFilter(t *testing.T) {
	f, err := sqlbuild.ParseCompanyFilter(url.Values{
		"search":  {"Test"},
		"min_emp": {"5"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Test", f.Search)
	require.NotNil(t, f.MinEmployees)
	assert.Equal(t, 5, *f.MinEmployees)
	assert.Nil(t, f.MaxEmployees)

	_, err = sqlbuild.ParseCompanyFilter(url.Values{"max_emp": {"lots"}})
	var paramErr *sqlbuild.ParamError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "max_emp", paramErr.Param)
}

func TestParseJobFilter(t *testing.T) {
	f, err := sqlbuild.ParseJobFilter(url.Values{"min_equity": {".01"}})
	require.NoError(t, err)
	assert.Nil(t, f.MinSalary)
	require.NotNil(t, f.MinEquity)
	assert.InDelta(t, 0.01, *f.MinEquity, 1e-9)

	for _, raw := range []string{"abc", "NaN", "Inf", "-inf", "1e400"} {
		_, err = sqlbuild.ParseJobFilter(url.Values{"min_salary": {raw}})
		var paramErr *sqlbuild.ParamError
		if assert.ErrorAs(t, err, &paramErr, raw) {
			assert.Equal(t, "min_salary", paramErr.Param)
			assert.Equal(t, raw, paramErr.Value)
		}
	}
}
