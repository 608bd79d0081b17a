// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"fmt"
	"regexp"
	"strings"
)

// SearchRequest holds the structured parameters of a PubMed search. Every
// field except Query is an optional filter; a request with no query but at
// least one filter is still valid.
type SearchRequest struct {
	// Query is the free-text search term.
	Query string

	// Author filters by author name (PubMed format, e.g. "Smith JB").
	Author string

	// Journal filters by journal title.
	Journal string

	// DateRange filters by publication date, either
	// "YYYY/MM/DD:YYYY/MM/DD" or "YYYY:YYYY".
	DateRange string

	// PublicationType filters by publication type (e.g. "Review", "Clinical Trial").
	PublicationType string

	// MeSHTerms lists Medical Subject Headings, separated by semicolons.
	// Individual terms may contain commas ("Diabetes Mellitus, Type 2"),
	// which is why commas are never used as the separator.
	MeSHTerms string

	// Affiliation filters by author affiliation or institution.
	Affiliation string

	// FieldRestriction restricts the free-text query to one field
	// (e.g. "Title/Abstract"). Ignored when TitleOnly or AbstractOnly is set.
	FieldRestriction string

	// TitleOnly searches only in article titles.
	TitleOnly bool

	// AbstractOnly searches only in article abstracts.
	AbstractOnly bool

	// FreeFullText restricts results to articles with free full text.
	FreeFullText bool

	// BooleanOperator joins the query and MeSH clauses: "AND" (default) or "OR".
	BooleanOperator string

	// SortBy orders results: "relevance" (default), "pub_date", or "first_author".
	SortBy string

	// MaxResults caps the number of returned articles. Zero means the
	// client's configured default.
	MaxResults int
}

// dateRangePattern matches the two accepted date-range forms:
// "YYYY/MM/DD:YYYY/MM/DD" and "YYYY:YYYY" (sides may mix the two).
var dateRangePattern = regexp.MustCompile(`^\d{4}(/\d{2}/\d{2})?:\d{4}(/\d{2}/\d{2})?$`)

// Term renders the request as an E-utilities query string. The grammar must
// match PubMed's documented field-tag syntax exactly: each filter becomes one
// clause, MeSH terms are split on semicolons into separate clauses, query
// clauses are joined by the boolean operator, and filters are ANDed against
// the main query. Returns a ValidationError for an empty request, a malformed
// date range, or an unknown boolean operator.
func (r SearchRequest) Term() (string, error) {
	op := strings.TrimSpace(r.BooleanOperator)
	if op == "" {
		op = "AND"
	}
	if op != "AND" && op != "OR" {
		return "", &ValidationError{Field: "boolean_operator", Reason: fmt.Sprintf("%q is not AND or OR", r.BooleanOperator)}
	}

	if d := strings.TrimSpace(r.DateRange); d != "" && !dateRangePattern.MatchString(d) {
		return "", &ValidationError{Field: "date_range", Reason: fmt.Sprintf("%q does not match YYYY/MM/DD:YYYY/MM/DD or YYYY:YYYY", r.DateRange)}
	}

	var queryTerms []string

	if q := strings.TrimSpace(r.Query); q != "" {
		switch {
		case r.TitleOnly:
			queryTerms = append(queryTerms, fmt.Sprintf("(%s)[Title]", q))
		case r.AbstractOnly:
			queryTerms = append(queryTerms, fmt.Sprintf("(%s)[Abstract]", q))
		case strings.TrimSpace(r.FieldRestriction) != "":
			queryTerms = append(queryTerms, fmt.Sprintf("(%s)[%s]", q, strings.TrimSpace(r.FieldRestriction)))
		default:
			queryTerms = append(queryTerms, fmt.Sprintf("(%s)", q))
		}
	}

	// MeSH terms are semicolon-separated; each becomes its own clause.
	if m := strings.TrimSpace(r.MeSHTerms); m != "" {
		for _, term := range strings.Split(m, ";") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			queryTerms = append(queryTerms, fmt.Sprintf("%q[MeSH Terms]", term))
		}
	}

	var filters []string
	if a := strings.TrimSpace(r.Author); a != "" {
		filters = append(filters, fmt.Sprintf("%s[Author]", a))
	}
	if j := strings.TrimSpace(r.Journal); j != "" {
		filters = append(filters, fmt.Sprintf("%q[Journal]", j))
	}
	if d := strings.TrimSpace(r.DateRange); d != "" {
		filters = append(filters, fmt.Sprintf("%s[Date - Publication]", d))
	}
	if p := strings.TrimSpace(r.PublicationType); p != "" {
		filters = append(filters, fmt.Sprintf("%q[Publication Type]", p))
	}
	if r.FreeFullText {
		filters = append(filters, "free full text[Filter]")
	}
	if a := strings.TrimSpace(r.Affiliation); a != "" {
		filters = append(filters, fmt.Sprintf("%q[Affiliation]", a))
	}

	if len(queryTerms) == 0 && len(filters) == 0 {
		return "", &ValidationError{Field: "query", Reason: "empty query with no filters"}
	}

	// With only filters present, the main query broad-matches everything.
	mainQuery := "all[sb]"
	if len(queryTerms) > 0 {
		mainQuery = strings.Join(queryTerms, " "+op+" ")
	}

	if len(filters) == 0 {
		return mainQuery, nil
	}
	return fmt.Sprintf("(%s) AND (%s)", mainQuery, strings.Join(filters, " AND ")), nil
}

// SortParam maps the request's SortBy value to the esearch sort parameter.
func (r SearchRequest) SortParam() string {
	switch strings.TrimSpace(r.SortBy) {
	case "pub_date":
		return "date"
	case "first_author":
		return "first_author"
	default:
		return "relevance"
	}
}
