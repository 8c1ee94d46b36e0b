package api

import (
	"net/http"
	"strings"

	"github.com/asaskevich/govalidator"

	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/sqlbuild"
)

// problems collects field-level validation messages.
type problems []string

func (p *problems) require(ok bool, msg string) {
	if !ok {
		*p = append(*p, msg)
	}
}

func (p *problems) text(name, v string) {
	p.require(strings.TrimSpace(v) != "", name+" is required")
}

func (p *problems) url(name string, v *string) {
	if v != nil {
		p.require(govalidator.IsURL(*v), name+" must be a URL")
	}
}

func (p *problems) email(name, v string) {
	p.require(govalidator.IsEmail(v), name+" must be an email address")
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return errorf(http.StatusBadRequest, "%s", strings.Join(p, "; "))
}

// checkUpdate applies the format rules of the create payloads to the values
// in a partial update.
func checkUpdate[C ~string](u *sqlbuild.Update[C], emails, urls []C) error {
	var p problems
	for _, f := range u.Fields() {
		s, ok := f.Value.(string)
		if !ok {
			continue
		}
		for _, c := range emails {
			if f.Column == c {
				p.email(string(c), s)
			}
		}
		for _, c := range urls {
			if f.Column == c {
				p.url(string(c), &s)
			}
		}
	}
	return p.err()
}

func checkCompanyUpdate(u *models.CompanyUpdate) error {
	return checkUpdate(u, nil, []models.CompanyColumn{models.CompanyLogoURL})
}

func checkJobUpdate(u *models.JobUpdate) error {
	var p problems
	if v, ok := u.Value(models.JobEquity); ok {
		e := v.(float64)
		p.require(e >= 0 && e <= 1, "equity must be between 0 and 1")
	}
	if v, ok := u.Value(models.JobSalary); ok {
		p.require(v.(float64) >= 0, "salary must not be negative")
	}
	return p.err()
}

func checkUserUpdate(u *models.UserUpdate) error {
	return checkUpdate(u, []models.UserColumn{models.UserEmail}, []models.UserColumn{models.UserPhotoURL})
}
