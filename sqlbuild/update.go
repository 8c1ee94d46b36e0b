// Package sqlbuild produces parameterized SQL statements for the two dynamic
// shapes the service needs: partial updates and filtered listings. Every
// builder is a pure function of its inputs; nothing here touches a database.
package sqlbuild

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Errors
// ─────────────────────────────────────────────────────────────────────────────

var (
	// ErrEmptyUpdate is returned when an update carries no fields to set.
	ErrEmptyUpdate = errors.New("jobly/sqlbuild: no fields to update")

	// ErrUnknownColumn is returned when a column is not part of the table.
	ErrUnknownColumn = errors.New("jobly/sqlbuild: unknown column")
)

// ─────────────────────────────────────────────────────────────────────────────
// Statement
// ─────────────────────────────────────────────────────────────────────────────

// Statement is a query with positional placeholders ($1, $2, ...) and the
// values bound to them. Args[i] binds placeholder $(i+1).
type Statement struct {
	Query string
	Args  []any
}

// ─────────────────────────────────────────────────────────────────────────────
// Table descriptor
// ─────────────────────────────────────────────────────────────────────────────

// Table describes an updatable table. Columns is the closed set of columns a
// partial update may assign; Key is the identifying column used in WHERE and
// need not be assignable itself.
type Table[C ~string] struct {
	Name    string
	Key     C
	Columns []C
}

// Has reports whether col belongs to the table.
func (t Table[C]) Has(col C) bool {
	return slices.Contains(t.Columns, col)
}

// Column parses a free-form name into the table's column set.
func (t Table[C]) Column(name string) (C, error) {
	col := C(name)
	if !t.Has(col) {
		return "", fmt.Errorf("%w %q on %s", ErrUnknownColumn, name, t.Name)
	}
	return col, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Update builder
// ─────────────────────────────────────────────────────────────────────────────

// Field is one column assignment in a partial update.
type Field[C ~string] struct {
	Column C
	Value  any
}

// Update accumulates column assignments for a single-row partial update.
// Assignments are emitted in the order Set was first called for each column.
type Update[C ~string] struct {
	table  Table[C]
	fields []Field[C]
}

// NewUpdate starts an empty update against t.
func NewUpdate[C ~string](t Table[C]) *Update[C] {
	return &Update[C]{table: t}
}

// Set assigns value to col. Setting a column twice keeps its original
// position and replaces the value.
func (u *Update[C]) Set(col C, value any) *Update[C] {
	for i := range u.fields {
		if u.fields[i].Column == col {
			u.fields[i].Value = value
			return u
		}
	}
	u.fields = append(u.fields, Field[C]{Column: col, Value: value})
	return u
}

// Has reports whether col has been assigned.
func (u *Update[C]) Has(col C) bool {
	for _, f := range u.fields {
		if f.Column == col {
			return true
		}
	}
	return false
}

// Value returns the value assigned to col, if any.
func (u *Update[C]) Value(col C) (any, bool) {
	for _, f := range u.fields {
		if f.Column == col {
			return f.Value, true
		}
	}
	return nil, false
}

// Delete drops col from the update. It is a no-op when col is unset.
func (u *Update[C]) Delete(col C) *Update[C] {
	u.fields = slices.DeleteFunc(u.fields, func(f Field[C]) bool { return f.Column == col })
	return u
}

// Len returns the number of assigned columns.
func (u *Update[C]) Len() int { return len(u.fields) }

// Fields returns a copy of the assignments in emission order.
func (u *Update[C]) Fields() []Field[C] { return slices.Clone(u.fields) }

// Build renders
//
//	UPDATE <table> SET c1=$1, c2=$2, ... WHERE <key>=$N RETURNING *
//
// with keyValue bound last. Column names are interpolated, so every column
// is checked against the table before any text is produced.
func (u *Update[C]) Build(keyValue any) (Statement, error) {
	if len(u.fields) == 0 {
		return Statement{}, fmt.Errorf("%w on %s", ErrEmptyUpdate, u.table.Name)
	}
	setClauses := make([]string, 0, len(u.fields))
	args := make([]any, 0, len(u.fields)+1)
	argIdx := 1

	for _, f := range u.fields {
		if !u.table.Has(f.Column) {
			return Statement{}, fmt.Errorf("%w %q on %s", ErrUnknownColumn, f.Column, u.table.Name)
		}
		setClauses = append(setClauses, fmt.Sprintf("%s=$%d", f.Column, argIdx))
		args = append(args, f.Value)
		argIdx++
	}
	args = append(args, keyValue)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s=$%d RETURNING *",
		u.table.Name, strings.Join(setClauses, ", "), u.table.Key, argIdx)

	return Statement{Query: query, Args: args}, nil
}

// BuildUpdate is the one-shot form of NewUpdate(t).Set(...).Build(keyValue).
func BuildUpdate[C ~string](t Table[C], fields []Field[C], keyValue any) (Statement, error) {
	u := NewUpdate(t)
	for _, f := range fields {
		u.Set(f.Column, f.Value)
	}
	return u.Build(keyValue)
}
