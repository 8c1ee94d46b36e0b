package api

import (
	"net/http"

	"github.com/Skryldev/jobly/auth"
	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/models"
)

type userInput struct {
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	PhotoURL  *string `json:"photo_url"`
	IsAdmin   bool    `json:"is_admin"`
}

func (in userInput) validate() error {
	var p problems
	p.text("username", in.Username)
	p.text("password", in.Password)
	p.text("first_name", in.FirstName)
	p.text("last_name", in.LastName)
	p.email("email", in.Email)
	p.url("photo_url", in.PhotoURL)
	return p.err()
}

func isAdmin(r *http.Request) bool {
	c := claimsFrom(r.Context())
	return c != nil && c.IsAdmin
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// POST /login
func (s *Server) login(w http.ResponseWriter, r *http.Request) error {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		return err
	}

	u, err := s.users.Get(r.Context(), in.Username)
	if db.IsNotFound(err) {
		return auth.ErrBadCredentials
	}
	if err != nil {
		return err
	}
	if err := s.hasher.Check(u.Password, in.Password); err != nil {
		return err
	}

	token, err := s.issuer.Sign(u.Username, u.IsAdmin)
	if err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, tokenResponse{token})
	return nil
}

// GET /users
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := s.users.List(r.Context())
	if err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"users": users})
	return nil
}

// POST /users registers a user and logs them in.
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) error {
	var in userInput
	if err := decodeJSON(w, r, &in); err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}
	if in.IsAdmin && !isAdmin(r) {
		return errForbiddenAdmin
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return err
	}
	in.Password = hash

	u, err := s.users.Insert(r.Context(), models.CreateUserParams(in))
	if db.IsDuplicateKey(err) {
		return &Error{Status: http.StatusBadRequest, Message: "Username already taken", Err: err}
	}
	if err != nil {
		return err
	}

	token, err := s.issuer.Sign(u.Username, u.IsAdmin)
	if err != nil {
		return err
	}
	s.writeJSON(w, http.StatusCreated, tokenResponse{token})
	return nil
}

// GET /users/{username}
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) error {
	u, err := s.users.Get(r.Context(), r.PathValue("username"))
	if err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"user": u})
	return nil
}

type userUpdateResponse struct {
	User     *models.User `json:"user"`
	NewToken string       `json:"new_token,omitempty"`
}

// PATCH /users/{username}. A new token is issued when the change touches
// the claims carried by the old one.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) error {
	u, err := readPatch(w, r, models.UsersTable)
	if err != nil {
		return err
	}
	if err := checkUserUpdate(u); err != nil {
		return err
	}
	if u.Has(models.UserIsAdmin) && !isAdmin(r) {
		return errForbiddenAdmin
	}
	if v, ok := u.Value(models.UserPassword); ok {
		hash, err := s.hasher.Hash(v.(string))
		if err != nil {
			return err
		}
		u.Set(models.UserPassword, hash)
	}

	user, err := s.users.Update(r.Context(), r.PathValue("username"), u)
	if db.IsDuplicateKey(err) {
		return &Error{Status: http.StatusBadRequest, Message: "Username or email already taken", Err: err}
	}
	if err != nil {
		return err
	}

	resp := userUpdateResponse{User: user}
	if u.Has(models.UserUsername) || u.Has(models.UserIsAdmin) {
		if resp.NewToken, err = s.issuer.Sign(user.Username, user.IsAdmin); err != nil {
			return err
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
	return nil
}

// DELETE /users/{username}
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) error {
	if err := s.users.Delete(r.Context(), r.PathValue("username")); err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, message{"User deleted"})
	return nil
}

