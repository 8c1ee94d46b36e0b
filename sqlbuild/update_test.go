package sqlbuild_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/jobly/sqlbuild"
)

type col string

var testTable = sqlbuild.Table[col]{
	Name:    "t",
	Key:     "id",
	Columns: []col{"a", "b", "c"},
}

func TestBuildUpdate(t *testing.T) {
	t.Run("two fields keep input order", func(t *testing.T) {
		stmt, err := sqlbuild.BuildUpdate(testTable, []sqlbuild.Field[col]{
			{Column: "a", Value: "x"},
			{Column: "b", Value: "y"},
		}, 5)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE t SET a=$1, b=$2 WHERE id=$3 RETURNING *", stmt.Query)
		assert.Equal(t, []any{"x", "y", 5}, stmt.Args)
	})

	t.Run("reverse order reverses placeholders", func(t *testing.T) {
		stmt, err := sqlbuild.BuildUpdate(testTable, []sqlbuild.Field[col]{
			{Column: "b", Value: "y"},
			{Column: "a", Value: "x"},
		}, 5)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE t SET b=$1, a=$2 WHERE id=$3 RETURNING *", stmt.Query)
		assert.Equal(t, []any{"y", "x", 5}, stmt.Args)
	})

	t.Run("single field", func(t *testing.T) {
		users := sqlbuild.Table[col]{Name: "table1", Key: "user", Columns: []col{"test_col"}}
		stmt, err := sqlbuild.BuildUpdate(users, []sqlbuild.Field[col]{
			{Column: "test_col", Value: "updated_value"},
		}, "testUser")
		require.NoError(t, err)
		assert.Equal(t, "UPDATE table1 SET test_col=$1 WHERE user=$2 RETURNING *", stmt.Query)
		assert.Equal(t, []any{"updated_value", "testUser"}, stmt.Args)
	})

	t.Run("nil value is bound, not dropped", func(t *testing.T) {
		stmt, err := sqlbuild.BuildUpdate(testTable, []sqlbuild.Field[col]{
			{Column: "c", Value: nil},
		}, 1)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE t SET c=$1 WHERE id=$2 RETURNING *", stmt.Query)
		assert.Equal(t, []any{nil, 1}, stmt.Args)
	})

	t.Run("empty field set is rejected", func(t *testing.T) {
		_, err := sqlbuild.BuildUpdate(testTable, nil, 5)
		assert.ErrorIs(t, err, sqlbuild.ErrEmptyUpdate)
	})

	t.Run("unknown column is rejected", func(t *testing.T) {
		_, err := sqlbuild.BuildUpdate(testTable, []sqlbuild.Field[col]{
			{Column: "a", Value: 1},
			{Column: "a; DROP TABLE t", Value: 2},
		}, 5)
		assert.ErrorIs(t, err, sqlbuild.ErrUnknownColumn)
	})
}

func TestUpdate_Set(t *testing.T) {
	t.Run("repeated column keeps first position", func(t *testing.T) {
		u := sqlbuild.NewUpdate(testTable).
			Set("a", 1).
			Set("b", 2).
			Set("a", 3)
		stmt, err := u.Build("k")
		require.NoError(t, err)
		assert.Equal(t, "UPDATE t SET a=$1, b=$2 WHERE id=$3 RETURNING *", stmt.Query)
		assert.Equal(t, []any{3, 2, "k"}, stmt.Args)
		assert.Equal(t, 2, u.Len())
	})

	t.Run("delete drops a column", func(t *testing.T) {
		u := sqlbuild.NewUpdate(testTable).Set("a", 1).Set("b", 2).Delete("a")
		assert.False(t, u.Has("a"))
		v, ok := u.Value("b")
		assert.True(t, ok)
		assert.Equal(t, 2, v)

		stmt, err := u.Build(9)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE t SET b=$1 WHERE id=$2 RETURNING *", stmt.Query)
	})

	t.Run("deleting every column leaves an empty update", func(t *testing.T) {
		_, err := sqlbuild.NewUpdate(testTable).Set("a", 1).Delete("a").Build(1)
		assert.True(t, errors.Is(err, sqlbuild.ErrEmptyUpdate))
	})
}

func TestUpdate_Idempotent(t *testing.T) {
	fields := []sqlbuild.Field[col]{{Column: "a", Value: "x"}, {Column: "c", Value: 3.5}}

	first, err := sqlbuild.BuildUpdate(testTable, fields, "key")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, err := sqlbuild.BuildUpdate(testTable, fields, "key")
			assert.NoError(t, err)
			assert.Equal(t, first, again)
		}()
	}
	wg.Wait()
}

func TestTable_Column(t *testing.T) {
	c, err := testTable.Column("b")
	require.NoError(t, err)
	assert.Equal(t, col("b"), c)

	_, err = testTable.Column("id")
	assert.ErrorIs(t, err, sqlbuild.ErrUnknownColumn)

	_, err = testTable.Column("")
	assert.ErrorIs(t, err, sqlbuild.ErrUnknownColumn)
}
