package repo

import (
	"context"
	"fmt"

	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/models"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]models.UserSummary, error)
	Get(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	Update(ctx context.Context, username string, update *models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

type userRepo struct {
	q db.Querier
}

// NewUserRepo returns a UserRepository backed by q.
func NewUserRepo(q db.Querier) UserRepository {
	return &userRepo{q: q}
}

const (
	sqlInsertUser = `
		INSERT INTO users (username, password, first_name, last_name, email, photo_url, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING username, password, first_name, last_name, email, photo_url, is_admin`

	sqlGetUser = `
		SELECT username, password, first_name, last_name, email, photo_url, is_admin
		FROM   users
		WHERE  username = $1`

	sqlListUsers = `
		SELECT username, first_name, last_name, email
		FROM   users
		ORDER  BY username`

	sqlDeleteUser = `
		DELETE FROM users WHERE username = $1`
)

// List returns every user.
func (r *userRepo) List(ctx context.Context) ([]models.UserSummary, error) {
	rows, err := r.q.Query(ctx, sqlListUsers)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (models.UserSummary, error) {
		var u models.UserSummary
		if err := s.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email); err != nil {
			return u, fmt.Errorf("repo/user: scan: %w", err)
		}
		return u, nil
	})
}

// Get returns a user, including the stored password hash.
// Returns db.ErrNotFound when no user has that username.
func (r *userRepo) Get(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, sqlGetUser, username))
}

// Insert registers a user. params.Password must already be hashed.
func (r *userRepo) Insert(ctx context.Context, p models.CreateUserParams) (*models.User, error) {
	row := r.q.QueryRow(ctx, sqlInsertUser,
		p.Username, p.Password, p.FirstName, p.LastName, p.Email, NullString(p.PhotoURL), p.IsAdmin)
	return scanUser(row)
}

// Update applies a partial update to the user. A password in update must
// already be hashed.
func (r *userRepo) Update(ctx context.Context, username string, update *models.UserUpdate) (*models.User, error) {
	stmt, err := update.Build(username)
	if err != nil {
		return nil, err
	}
	return scanUser(r.q.QueryRow(ctx, stmt.Query, stmt.Args...))
}

// Delete removes a user.
// Returns db.ErrNotFound if no row was deleted.
func (r *userRepo) Delete(ctx context.Context, username string) error {
	res, err := r.q.Exec(ctx, sqlDeleteUser, username)
	if err != nil {
		return err
	}
	return expectOne(res)
}

var _ UserRepository = (*userRepo)(nil)
