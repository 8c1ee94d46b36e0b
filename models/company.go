package models

import "github.com/Skryldev/jobly/sqlbuild"

// Company represents a row in the "companies" table.
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	NumEmployees *int    `json:"num_employees"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"`
}

// CompanySummary is the listing projection of a company.
type CompanySummary struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
}

// CompanyDetail is a company with the jobs it has posted.
type CompanyDetail struct {
	Company
	Jobs []JobPosting `json:"jobs"`
}

// CreateCompanyParams holds the fields required to create a company.
type CreateCompanyParams struct {
	Handle       string
	Name         string
	NumEmployees *int
	Description  *string
	LogoURL      *string
}

// CompanyColumn is a column of the companies table.
type CompanyColumn string

const (
	CompanyHandle       CompanyColumn = "handle"
	CompanyName         CompanyColumn = "name"
	CompanyNumEmployees CompanyColumn = "num_employees"
	CompanyDescription  CompanyColumn = "description"
	CompanyLogoURL      CompanyColumn = "logo_url"
)

// Kind returns the value shape accepted for c.
func (c CompanyColumn) Kind() ColumnKind {
	switch c {
	case CompanyNumEmployees:
		return KindNullableInt
	case CompanyDescription, CompanyLogoURL:
		return KindNullableText
	}
	return KindText
}

// CompaniesTable is the partial-update descriptor for companies, keyed by
// handle.
var CompaniesTable = sqlbuild.Table[CompanyColumn]{
	Name: "companies",
	Key:  CompanyHandle,
	Columns: []CompanyColumn{
		CompanyHandle,
		CompanyName,
		CompanyNumEmployees,
		CompanyDescription,
		CompanyLogoURL,
	},
}

// CompanyUpdate is a partial update of a company.
type CompanyUpdate = sqlbuild.Update[CompanyColumn]
