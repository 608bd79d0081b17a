// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"net/url"
	"strings"
)

// elink link names for the citation graph.
const (
	linkCitedIn = "pubmed_pubmed_citedin"
	linkRelated = "pubmed_pubmed"
)

// maxRelated caps the related-article list in a metrics report.
const maxRelated = 5

// CitationMetrics summarizes an article's place in the citation graph.
type CitationMetrics struct {
	// Article is the primary record, with CitationCount populated.
	Article Article `json:"article" yaml:"article"`

	// CitationCount is the number of articles citing the primary PMID.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// CitingPMIDs lists the citing articles in upstream order.
	CitingPMIDs []string `json:"citing_pmids,omitempty" yaml:"citing_pmids,omitempty"`

	// Related holds up to five of the most relevant related articles.
	Related []Article `json:"related_articles,omitempty" yaml:"related_articles,omitempty"`
}

// FindCiting returns articles that cite the given PMID, in the order the
// upstream API reports them. max caps the result count; zero means the
// client's configured default, negative means unbounded.
func (c *Client) FindCiting(ctx context.Context, pmid string, max int) ([]Article, error) {
	if strings.TrimSpace(pmid) == "" {
		return nil, &ValidationError{Field: "pmid", Reason: "empty identifier"}
	}

	ids, err := c.linkIDs(ctx, pmid, linkCitedIn)
	if err != nil {
		return nil, err
	}

	if max == 0 {
		max = c.maxResults
	}
	if max > 0 && len(ids) > max {
		ids = ids[:max]
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return c.fetchDetails(ctx, ids)
}

// Metrics fetches the record for pmid and builds its citation metrics: the
// cited-by count and list, plus up to five related articles. It fails with a
// NotFoundError before issuing any citation lookups when the PMID resolves
// to zero records.
func (c *Client) Metrics(ctx context.Context, pmid string) (*CitationMetrics, error) {
	pmid = strings.TrimSpace(pmid)
	if pmid == "" {
		return nil, &ValidationError{Field: "pmid", Reason: "empty identifier"}
	}

	articles, err := c.fetchDetails(ctx, []string{pmid})
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, &NotFoundError{PMID: pmid}
	}
	article := articles[0]

	citing, err := c.linkIDs(ctx, pmid, linkCitedIn)
	if err != nil {
		return nil, err
	}
	count := len(citing)
	article.CitationCount = &count

	relatedIDs, err := c.linkIDs(ctx, pmid, linkRelated)
	if err != nil {
		return nil, err
	}

	// The related link set includes the article itself; drop it.
	var filtered []string
	for _, id := range relatedIDs {
		if id != pmid {
			filtered = append(filtered, id)
		}
	}
	if len(filtered) > maxRelated {
		filtered = filtered[:maxRelated]
	}

	var related []Article
	if len(filtered) > 0 {
		related, err = c.fetchDetails(ctx, filtered)
		if err != nil {
			return nil, err
		}
	}

	return &CitationMetrics{
		Article:       article,
		CitationCount: count,
		CitingPMIDs:   citing,
		Related:       related,
	}, nil
}

// linkIDs runs one elink query for pmid and returns the linked PMIDs.
func (c *Client) linkIDs(ctx context.Context, pmid, linkName string) ([]string, error) {
	params := url.Values{
		"dbfrom":   {"pubmed"},
		"db":       {"pubmed"},
		"id":       {pmid},
		"linkname": {linkName},
		"retmode":  {"xml"},
	}

	body, err := c.do(ctx, "elink", elinkURL, params)
	if err != nil {
		return nil, err
	}
	return parseLinkIDs(body, linkName)
}
