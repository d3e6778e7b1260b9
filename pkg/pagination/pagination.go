// Package pagination parses page/per_page query parameters into offset-based
// pagination parameters for list endpoints.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	defaultPage    = 1
	defaultPerPage = 20
	maxPerPage     = 100
)

// Params holds validated pagination values. Offset is derived from Page and
// PerPage and can be passed straight to a SQL OFFSET clause.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns the first page with the default page size.
func DefaultParams() Params {
	return Params{Page: defaultPage, PerPage: defaultPerPage}
}

// FromRequest reads the "page" and "per_page" query parameters. Missing,
// malformed, or non-positive values fall back to the defaults, and per_page
// values above 100 are rejected in favor of the default.
func FromRequest(r *http.Request) Params {
	page := positiveQueryInt(r, "page", defaultPage)
	perPage := positiveQueryInt(r, "per_page", defaultPerPage)
	if perPage > maxPerPage {
		perPage = defaultPerPage
	}
	return Params{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
	}
}

func positiveQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
