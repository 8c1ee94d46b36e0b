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

func (f fixture) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := f.users.Insert(context.Background(), models.CreateUserParams{
		Username:  username,
		Password:  "hash",
		FirstName: "john",
		LastName:  "doe",
		Email:     username + "@email.com",
		PhotoURL:  ptr("www.test.com"),
	})
	require.NoError(t, err)
	return u
}

func TestUserRepo_InsertAndGet(t *testing.T) {
	f := newFixture(t)
	created := f.seedUser(t, "test_user")
	assert.False(t, created.IsAdmin)

	got, err := f.users.Get(context.Background(), "test_user")
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "hash", got.Password)
}

func TestUserRepo_Insert_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "dup")

	_, err := f.users.Insert(context.Background(), models.CreateUserParams{
		Username: "dup", Password: "x", FirstName: "a", LastName: "b", Email: "other@email.com",
	})
	assert.True(t, db.IsDuplicateKey(err), "got %v", err)
}

func TestUserRepo_List(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "bob")
	f.seedUser(t, "alice")

	got, err := f.users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, "bob@email.com", got[1].Email)
}

func TestUserRepo_Update(t *testing.T) {
	f := newFixture(t)
	before := f.seedUser(t, "test_user")

	u := sqlbuild.NewUpdate(models.UsersTable).
		Set(models.UserFirstName, "jane").
		Set(models.UserIsAdmin, true)
	after, err := f.users.Update(context.Background(), "test_user", u)
	require.NoError(t, err)

	want := *before
	want.FirstName = "jane"
	want.IsAdmin = true
	assert.Equal(t, &want, after)
}

func TestUserRepo_Update_RenameKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "old_name")

	u := sqlbuild.NewUpdate(models.UsersTable).Set(models.UserUsername, "new_name")
	after, err := f.users.Update(ctx, "old_name", u)
	require.NoError(t, err)
	assert.Equal(t, "new_name", after.Username)

	_, err = f.users.Get(ctx, "old_name")
	assert.True(t, db.IsNotFound(err))
}

func TestUserRepo_Update_NotFound(t *testing.T) {
	f := newFixture(t)
	u := sqlbuild.NewUpdate(models.UsersTable).Set(models.UserEmail, "x@y.z")
	_, err := f.users.Update(context.Background(), "ghost", u)
	assert.True(t, db.IsNotFound(err), "got %v", err)
}

func TestUserRepo_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "gone")

	require.NoError(t, f.users.Delete(ctx, "gone"))
	assert.True(t, db.IsNotFound(f.users.Delete(ctx, "gone")))
}
