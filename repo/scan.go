package repo

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/models"
)

// scanner is satisfied by *db.Row and *db.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// ─────────────────────────────────────────────────────────────────────────────
// Row mapping. Column order matches the table definitions in migrations/, so
// these also decode RETURNING * from partial updates.
// ─────────────────────────────────────────────────────────────────────────────

func scanCompany(s scanner) (*models.Company, error) {
	var (
		c        models.Company
		emp      sql.NullInt64
		desc, lg sql.NullString
	)
	if err := s.Scan(&c.Handle, &c.Name, &emp, &desc, &lg); err != nil {
		return nil, fmt.Errorf("repo/company: %w", err)
	}
	c.NumEmployees = intPtr(emp)
	c.Description = stringPtr(desc)
	c.LogoURL = stringPtr(lg)
	return &c, nil
}

func scanJob(s scanner) (*models.Job, error) {
	var j models.Job
	if err := s.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle, &timestamp{t: &j.DatePosted}); err != nil {
		return nil, fmt.Errorf("repo/job: %w", err)
	}
	return &j, nil
}

func scanUser(s scanner) (*models.User, error) {
	var (
		u     models.User
		photo sql.NullString
	)
	if err := s.Scan(&u.Username, &u.Password, &u.FirstName, &u.LastName, &u.Email, &photo, &u.IsAdmin); err != nil {
		return nil, fmt.Errorf("repo/user: %w", err)
	}
	u.PhotoURL = stringPtr(photo)
	return &u, nil
}

// collect drains rows through scan, returning an empty (non-nil) slice when
// nothing matched.
func collect[T any](rows *db.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// expectOne maps a zero RowsAffected to db.ErrNotFound.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Null helpers
// ─────────────────────────────────────────────────────────────────────────────

// NullString converts *string to sql.NullString for optional columns.
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullInt converts *int to sql.NullInt64 for optional columns.
func NullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	n := int(ni.Int64)
	return &n
}

// timestamp scans a timestamp column into t. SQLite may hand back text
// instead of time.Time when the declared type is unavailable (RETURNING).
type timestamp struct{ t *time.Time }

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	}
	return fmt.Errorf("repo: cannot scan %T into timestamp", src)
}

func (ts timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.t = t
			return nil
		}
	}
	return fmt.Errorf("repo: unrecognised timestamp %q", s)
}
