package models

import "github.com/Skryldev/jobly/sqlbuild"

// User represents a row in the "users" table. Password holds the bcrypt hash
// and is never serialised.
type User struct {
	Username  string  `json:"username"`
	Password  string  `json:"-"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	PhotoURL  *string `json:"photo_url"`
	IsAdmin   bool    `json:"is_admin"`
}

// UserSummary is the listing projection of a user.
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// CreateUserParams holds the fields required to register a user. Password
// must already be hashed.
type CreateUserParams struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	PhotoURL  *string
	IsAdmin   bool
}

// UserColumn is a column of the users table.
type UserColumn string

const (
	UserUsername  UserColumn = "username"
	UserPassword  UserColumn = "password"
	UserFirstName UserColumn = "first_name"
	UserLastName  UserColumn = "last_name"
	UserEmail     UserColumn = "email"
	UserPhotoURL  UserColumn = "photo_url"
	UserIsAdmin   UserColumn = "is_admin"
)

// Kind returns the value shape accepted for c.
func (c UserColumn) Kind() ColumnKind {
	switch c {
	case UserPhotoURL:
		return KindNullableText
	case UserIsAdmin:
		return KindBool
	}
	return KindText
}

// UsersTable is the partial-update descriptor for users, keyed by username.
var UsersTable = sqlbuild.Table[UserColumn]{
	Name: "users",
	Key:  UserUsername,
	Columns: []UserColumn{
		UserUsername,
		UserPassword,
		UserFirstName,
		UserLastName,
		UserEmail,
		UserPhotoURL,
		UserIsAdmin,
	},
}

// UserUpdate is a partial update of a user.
type UserUpdate = sqlbuild.Update[UserColumn]
