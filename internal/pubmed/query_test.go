// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"errors"
	"testing"
)

// --- Term construction ---

func TestTermCombinations(t *testing.T) {
	tests := []struct {
		name string
		req  SearchRequest
		want string
	}{
		{
			"plain query",
			SearchRequest{Query: "heart failure"},
			"(heart failure)",
		},
		{
			"title only",
			SearchRequest{Query: "heart failure", TitleOnly: true},
			"(heart failure)[Title]",
		},
		{
			"abstract only",
			SearchRequest{Query: "heart failure", AbstractOnly: true},
			"(heart failure)[Abstract]",
		},
		{
			"field restriction",
			SearchRequest{Query: "heart failure", FieldRestriction: "Title/Abstract"},
			"(heart failure)[Title/Abstract]",
		},
		{
			"title only wins over field restriction",
			SearchRequest{Query: "x", TitleOnly: true, FieldRestriction: "Abstract"},
			"(x)[Title]",
		},
		{
			"single mesh term",
			SearchRequest{Query: "outcomes", MeSHTerms: "Heart Failure"},
			`(outcomes) AND "Heart Failure"[MeSH Terms]`,
		},
		{
			"mesh terms split on semicolons, commas retained",
			SearchRequest{MeSHTerms: "Heart Failure;Diabetes Mellitus, Type 2"},
			`"Heart Failure"[MeSH Terms] AND "Diabetes Mellitus, Type 2"[MeSH Terms]`,
		},
		{
			"boolean OR between clauses",
			SearchRequest{Query: "sepsis", MeSHTerms: "Shock, Septic", BooleanOperator: "OR"},
			`(sepsis) OR "Shock, Septic"[MeSH Terms]`,
		},
		{
			"author and journal filters",
			SearchRequest{Query: "stents", Author: "Smith JB", Journal: "Lancet"},
			`((stents)) AND (Smith JB[Author] AND "Lancet"[Journal])`,
		},
		{
			"all filters",
			SearchRequest{
				Query:           "stroke",
				Author:          "Lee K",
				Journal:         "BMJ",
				DateRange:       "2019:2023",
				PublicationType: "Review",
				FreeFullText:    true,
				Affiliation:     "Mayo Clinic",
			},
			`((stroke)) AND (Lee K[Author] AND "BMJ"[Journal] AND 2019:2023[Date - Publication] AND "Review"[Publication Type] AND free full text[Filter] AND "Mayo Clinic"[Affiliation])`,
		},
		{
			"filters without query broad-match",
			SearchRequest{Author: "Smith JB"},
			"(all[sb]) AND (Smith JB[Author])",
		},
		{
			"full date range",
			SearchRequest{Query: "flu", DateRange: "2020/01/01:2020/12/31"},
			"((flu)) AND (2020/01/01:2020/12/31[Date - Publication])",
		},
		{
			"whitespace trimmed",
			SearchRequest{Query: "  covid  ", Author: " Chen L "},
			"((covid)) AND (Chen L[Author])",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Term()
			if err != nil {
				t.Fatalf("Term: %v", err)
			}
			if got != tt.want {
				t.Errorf("Term() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTermValidation(t *testing.T) {
	tests := []struct {
		name      string
		req       SearchRequest
		wantField string
	}{
		{"empty request", SearchRequest{}, "query"},
		{"whitespace-only query, no filters", SearchRequest{Query: "   "}, "query"},
		{"malformed date range", SearchRequest{Query: "x", DateRange: "2020-01-01:2020-12-31"}, "date_range"},
		{"partial date", SearchRequest{Query: "x", DateRange: "2020/01:2021"}, "date_range"},
		{"bad boolean operator", SearchRequest{Query: "x", BooleanOperator: "NOT"}, "boolean_operator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Term()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Term() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestSortParam(t *testing.T) {
	tests := []struct {
		sortBy string
		want   string
	}{
		{"", "relevance"},
		{"relevance", "relevance"},
		{"pub_date", "date"},
		{"first_author", "first_author"},
		{"bogus", "relevance"},
	}
	for _, tt := range tests {
		req := SearchRequest{SortBy: tt.sortBy}
		if got := req.SortParam(); got != tt.want {
			t.Errorf("SortParam(%q) = %q, want %q", tt.sortBy, got, tt.want)
		}
	}
}
