// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// QueryFile is the on-disk representation of a search and its results. A
// saved search can be reloaded later without re-querying the API.
type QueryFile struct {
	Query   QueryParams  `yaml:"query"`
	Results []Article    `yaml:"results"`
	Summary QuerySummary `yaml:"summary"`
}

// QueryParams stores the search parameters in a serializable form.
type QueryParams struct {
	Query            string `yaml:"query,omitempty"`
	Author           string `yaml:"author,omitempty"`
	Journal          string `yaml:"journal,omitempty"`
	DateRange        string `yaml:"date_range,omitempty"`
	PublicationType  string `yaml:"publication_type,omitempty"`
	MeSHTerms        string `yaml:"mesh_terms,omitempty"`
	Affiliation      string `yaml:"affiliation,omitempty"`
	FieldRestriction string `yaml:"field_restriction,omitempty"`
	TitleOnly        bool   `yaml:"title_only,omitempty"`
	AbstractOnly     bool   `yaml:"abstract_only,omitempty"`
	FreeFullText     bool   `yaml:"free_full_text,omitempty"`
	BooleanOperator  string `yaml:"boolean_operator,omitempty"`
	SortBy           string `yaml:"sort_by,omitempty"`
	MaxResults       int    `yaml:"max_results,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Term      string    `yaml:"term"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a search request and its results to a YAML file.
func WriteQueryFile(path string, req SearchRequest, articles []Article) error {
	term, err := req.Term()
	if err != nil {
		return err
	}

	qf := QueryFile{
		Query: QueryParams{
			Query:            req.Query,
			Author:           req.Author,
			Journal:          req.Journal,
			DateRange:        req.DateRange,
			PublicationType:  req.PublicationType,
			MeSHTerms:        req.MeSHTerms,
			Affiliation:      req.Affiliation,
			FieldRestriction: req.FieldRestriction,
			TitleOnly:        req.TitleOnly,
			AbstractOnly:     req.AbstractOnly,
			FreeFullText:     req.FreeFullText,
			BooleanOperator:  req.BooleanOperator,
			SortBy:           req.SortBy,
			MaxResults:       req.MaxResults,
		},
		Results: articles,
		Summary: QuerySummary{
			Total:     len(articles),
			Term:      term,
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToRequest converts stored QueryParams back into a SearchRequest.
func (p QueryParams) ToRequest() SearchRequest {
	return SearchRequest{
		Query:            p.Query,
		Author:           p.Author,
		Journal:          p.Journal,
		DateRange:        p.DateRange,
		PublicationType:  p.PublicationType,
		MeSHTerms:        p.MeSHTerms,
		Affiliation:      p.Affiliation,
		FieldRestriction: p.FieldRestriction,
		TitleOnly:        p.TitleOnly,
		AbstractOnly:     p.AbstractOnly,
		FreeFullText:     p.FreeFullText,
		BooleanOperator:  p.BooleanOperator,
		SortBy:           p.SortBy,
		MaxResults:       p.MaxResults,
	}
}
