package api

import (
	"net/http"

	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/sqlbuild"
)

type companyInput struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	NumEmployees *int    `json:"num_employees"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"`
}

func (in companyInput) validate() error {
	var p problems
	p.text("handle", in.Handle)
	p.text("name", in.Name)
	if in.NumEmployees != nil {
		p.require(*in.NumEmployees >= 0, "num_employees must not be negative")
	}
	p.url("logo_url", in.LogoURL)
	return p.err()
}

// GET /companies
func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) error {
	filter, err := sqlbuild.ParseCompanyFilter(r.URL.Query())
	if err != nil {
		return err
	}
	companies, err := s.companies.List(r.Context(), filter)
	if err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"companies": companies})
	return nil
}

// POST /companies
func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) error {
	var in companyInput
	if err := decodeJSON(w, r, &in); err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}

	c, err := s.companies.Insert(r.Context(), models.CreateCompanyParams(in))
	if db.IsDuplicateKey(err) {
		return &Error{Status: http.StatusBadRequest, Message: "Handle already exists", Err: err}
	}
	if err != nil {
		return err
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"company": c})
	return nil
}

// GET /companies/{handle}
func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) error {
	c, err := s.companies.Get(r.Context(), r.PathValue("handle"))
	if err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"company": c})
	return nil
}

// PATCH /companies/{handle}
func (s *Server) updateCompany(w http.ResponseWriter, r *http.Request) error {
	u, err := readPatch(w, r, models.CompaniesTable)
	if err != nil {
		return err
	}
	if err := checkCompanyUpdate(u); err != nil {
		return err
	}

	c, err := s.companies.Update(r.Context(), r.PathValue("handle"), u)
	if err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"company": c})
	return nil
}

// DELETE /companies/{handle}
func (s *Server) deleteCompany(w http.ResponseWriter, r *http.Request) error {
	if err := s.companies.Delete(r.Context(), r.PathValue("handle")); err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, message{"Company deleted"})
	return nil
}
