package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCompanies(t *testing.T) {
	h := newHarness(t)

	res := h.do(http.MethodGet, "/companies?search=test&min_emp=1&max_emp=20", h.userToken, "")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, []any{map[string]any{"handle": "test", "name": "Test Company"}}, res.Body["companies"])

	res = h.do(http.MethodGet, "/companies?min_emp=100", h.userToken, "")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, []any{}, res.Body["companies"])
}

func TestListCompanies_BadParams(t *testing.T) {
	h := newHarness(t)

	res := h.do(http.MethodGet, "/companies?min_emp=5&max_emp=1", h.userToken, "")
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Contains(t, res.errorMessage(), "cannot be greater than")

	res = h.do(http.MethodGet, "/companies?min_emp=lots", h.userToken, "")
	assert.Equal(t, http.StatusBadRequest, res.Status)
}

func TestCreateCompany(t *testing.T) {
	h := newHarness(t)
	body := `{"handle":"new","name":"New Co","num_employees":3,"logo_url":"https://new.example.com/logo.png"}`

	res := h.do(http.MethodPost, "/companies", h.userToken, body)
	assert.Equal(t, http.StatusUnauthorized, res.Status, "admins only")

	res = h.do(http.MethodPost, "/companies", h.adminToken, body)
	require.Equal(t, http.StatusCreated, res.Status)
	company := res.Body["company"].(map[string]any)
	assert.Equal(t, "new", company["handle"])
	assert.Equal(t, float64(3), company["num_employees"])
	assert.Nil(t, company["description"])

	res = h.do(http.MethodPost, "/companies", h.adminToken, body)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Handle already exists", res.errorMessage())
}

func TestCreateCompany_Invalid(t *testing.T) {
	h := newHarness(t)

	cases := map[string]string{
		"missing name":  `{"handle":"x"}`,
		"bad logo":      `{"handle":"x","name":"X","logo_url":"not a url"}`,
		"negative size": `{"handle":"x","name":"X","num_employees":-1}`,
		"unknown field": `{"handle":"x","name":"X","ceo":"me"}`,
		"wrong type":    `{"handle":"x","name":7}`,
		"empty body":    ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			res := h.do(http.MethodPost, "/companies", h.adminToken, body)
			assert.Equal(t, http.StatusBadRequest, res.Status, res.errorMessage())
		})
	}
}

func TestGetCompany(t *testing.T) {
	h := newHarness(t)

	res := h.do(http.MethodGet, "/companies/test", h.userToken, "")
	require.Equal(t, http.StatusOK, res.Status)
	company := res.Body["company"].(map[string]any)
	assert.Equal(t, "Test Company", company["name"])
	jobs := company["jobs"].([]any)
	require.Len(t, jobs, 1)
	assert.Equal(t, "engineer", jobs[0].(map[string]any)["title"])

	res = h.do(http.MethodGet, "/companies/missing", h.userToken, "")
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestUpdateCompany(t *testing.T) {
	h := newHarness(t)

	res := h.do(http.MethodPatch, "/companies/test", h.adminToken, `{"name":"X"}`)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, map[string]any{
		"handle":        "test",
		"name":          "X",
		"num_employees": float64(10),
		"description":   "Testing my routes",
		"logo_url":      "https://www.test-img.com/logo.png",
	}, res.Body["company"])

	res = h.do(http.MethodPatch, "/companies/test", h.adminToken, `{"num_employees":null,"description":"d"}`)
	require.Equal(t, http.StatusOK, res.Status)
	company := res.Body["company"].(map[string]any)
	assert.Nil(t, company["num_employees"])
	assert.Equal(t, "d", company["description"])
}

func TestUpdateCompany_Rejections(t *testing.T) {
	h := newHarness(t)

	cases := []struct {
		name   string
		path   string
		token  string
		body   string
		status int
		msg    string
	}{
		{"not admin", "/companies/test", h.userToken, `{"name":"X"}`, http.StatusUnauthorized, "Unauthorized"},
		{"unknown key", "/companies/test", h.adminToken, `{"name":"X","ceo":"me"}`, http.StatusBadRequest, `Invalid key "ceo"`},
		{"injection key", "/companies/test", h.adminToken, `{"name = 'x' --":"X"}`, http.StatusBadRequest, `Invalid key "name = 'x' --"`},
		{"wrong type", "/companies/test", h.adminToken, `{"num_employees":"many"}`, http.StatusBadRequest, "num_employees must be integer or null"},
		{"null name", "/companies/test", h.adminToken, `{"name":null}`, http.StatusBadRequest, "name must be string"},
		{"bad url", "/companies/test", h.adminToken, `{"logo_url":"nope"}`, http.StatusBadRequest, "logo_url must be a URL"},
		{"empty object", "/companies/test", h.adminToken, `{}`, http.StatusBadRequest, "Missing data"},
		{"empty body", "/companies/test", h.adminToken, ``, http.StatusBadRequest, "Missing data"},
		{"not an object", "/companies/test", h.adminToken, `["name"]`, http.StatusBadRequest, "Invalid JSON body: expected an object"},
		{"missing", "/companies/missing", h.adminToken, `{"name":"X"}`, http.StatusNotFound, "Not Found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := h.do(http.MethodPatch, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.status, res.Status)
			assert.Equal(t, tc.msg, res.errorMessage())
		})
	}

	res := h.do(http.MethodGet, "/companies/test", h.userToken, "")
	assert.Equal(t, "Test Company", res.Body["company"].(map[string]any)["name"], "rejected patches change nothing")
}

func TestDeleteCompany(t *testing.T) {
	h := newHarness(t)

	res := h.do(http.MethodDelete, "/companies/test", h.adminToken, "")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Company deleted", res.Body["message"])

	res = h.do(http.MethodDelete, "/companies/test", h.adminToken, "")
	assert.Equal(t, http.StatusNotFound, res.Status)
}
