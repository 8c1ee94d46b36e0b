// Package api is the HTTP surface of jobly: JSON routes for companies, jobs
// and users behind bearer-token authentication.
package api

import (
	"log/slog"
	"net/http"

	"github.com/Skryldev/jobly/auth"
	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/repo"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// Deps are the collaborators a Server needs. DB and Issuer are required.
type Deps struct {
	DB     *db.DB
	Issuer *auth.Issuer
	Hasher auth.Hasher
	Logger *slog.Logger
	// Stats, when set, is reported by GET /health.
	Stats *db.QueryStats
}

// Server routes requests to the handlers. It is an http.Handler and is safe
// for concurrent use.
type Server struct {
	db        *db.DB
	companies repo.CompanyRepository
	jobs      repo.JobRepository
	users     repo.UserRepository
	issuer    *auth.Issuer
	hasher    auth.Hasher
	logger    *slog.Logger
	stats     *db.QueryStats

	handler http.Handler
}

// NewServer wires the repositories over d.DB and builds the route table.
func NewServer(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		db:        d.DB,
		companies: repo.NewCompanyRepo(d.DB),
		jobs:      repo.NewJobRepo(d.DB),
		users:     repo.NewUserRepo(d.DB),
		issuer:    d.Issuer,
		hasher:    d.Hasher,
		logger:    logger,
		stats:     d.Stats,
	}
	s.handler = s.recoverPanics(s.logRequests(s.authenticate(s.routes())))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /login", s.handle(s.login))

	mux.Handle("GET /companies", s.handle(s.loggedIn(s.listCompanies)))
	mux.Handle("POST /companies", s.handle(s.admin(s.createCompany)))
	mux.Handle("GET /companies/{handle}", s.handle(s.loggedIn(s.getCompany)))
	mux.Handle("PATCH /companies/{handle}", s.handle(s.admin(s.updateCompany)))
	mux.Handle("DELETE /companies/{handle}", s.handle(s.admin(s.deleteCompany)))

	mux.Handle("GET /jobs", s.handle(s.loggedIn(s.listJobs)))
	mux.Handle("POST /jobs", s.handle(s.admin(s.createJob)))
	mux.Handle("GET /jobs/{id}", s.handle(s.loggedIn(s.getJob)))
	mux.Handle("PATCH /jobs/{id}", s.handle(s.admin(s.updateJob)))
	mux.Handle("DELETE /jobs/{id}", s.handle(s.admin(s.deleteJob)))

	mux.Handle("GET /users", s.handle(s.listUsers))
	mux.Handle("POST /users", s.handle(s.createUser))
	mux.Handle("GET /users/{username}", s.handle(s.getUser))
	mux.Handle("PATCH /users/{username}", s.handle(s.sameUser(s.updateUser)))
	mux.Handle("DELETE /users/{username}", s.handle(s.sameUser(s.deleteUser)))

	mux.Handle("GET /health", s.handle(s.health))

	mux.Handle("/", s.handle(func(http.ResponseWriter, *http.Request) error {
		return errNotFound
	}))
	return mux
}
