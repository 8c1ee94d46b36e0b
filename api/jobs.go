package api

import (
	"net/http"
	"strconv"

	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/sqlbuild"
)

type jobInput struct {
	Title         string   `json:"title"`
	Salary        *float64 `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle string   `json:"company_handle"`
}

func (in jobInput) validate() error {
	var p problems
	p.text("title", in.Title)
	p.text("company_handle", in.CompanyHandle)
	p.require(in.Salary != nil, "salary is required")
	p.require(in.Equity != nil, "equity is required")
	if in.Salary != nil {
		p.require(*in.Salary >= 0, "salary must not be negative")
	}
	if in.Equity != nil {
		p.require(*in.Equity >= 0 && *in.Equity <= 1, "equity must be between 0 and 1")
	}
	return p.err()
}

// jobID parses the {id} path segment. Malformed ids name no job.
func jobID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errNotFound
	}
	return id, nil
}

// GET /jobs
func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) error {
	filter, err := sqlbuild.ParseJobFilter(r.URL.Query())
	if err != nil {
		return err
	}
	jobs, err := s.jobs.List(r.Context(), filter)
	if err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
	return nil
}

// POST /jobs
func (s *Server) createJob(w http.ResponseWriter, r *http.Request) error {
	var in jobInput
	if err := decodeJSON(w, r, &in); err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}

	j, err := s.jobs.Insert(r.Context(), models.CreateJobParams{
		Title:         in.Title,
		Salary:        *in.Salary,
		Equity:        *in.Equity,
		CompanyHandle: in.CompanyHandle,
	})
	if db.IsForeignKeyViolation(err) {
		return &Error{Status: http.StatusBadRequest, Message: "Company " + strconv.Quote(in.CompanyHandle) + " does not exist", Err: err}
	}
	if err != nil {
		return err
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"job": j})
	return nil
}

// GET /jobs/{id}
func (s *Server) getJob(w http.ResponseWriter, r *http.Request) error {
	id, err := jobID(r)
	if err != nil {
		return err
	}
	j, err := s.jobs.Get(r.Context(), id)
	if err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"job": j})
	return nil
}

// PATCH /jobs/{id}
func (s *Server) updateJob(w http.ResponseWriter, r *http.Request) error {
	id, err := jobID(r)
	if err != nil {
		return err
	}
	u, err := readPatch(w, r, models.JobsTable, models.JobReadOnlyColumns...)
	if err != nil {
		return err
	}
	if err := checkJobUpdate(u); err != nil {
		return err
	}

	j, err := s.jobs.Update(r.Context(), id, u)
	if err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"job": j})
	return nil
}

// DELETE /jobs/{id}
func (s *Server) deleteJob(w http.ResponseWriter, r *http.Request) error {
	id, err := jobID(r)
	if err != nil {
		return err
	}
	if err := s.jobs.Delete(r.Context(), id); err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, message{"Job deleted"})
	return nil
}
