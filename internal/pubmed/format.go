// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const condensedAbstractLen = 200

// FormatArticles writes articles to w as human-readable text. The expanded
// form carries every metadata field; the condensed form is title, year, and
// a truncated abstract.
func FormatArticles(w io.Writer, articles []Article, expanded bool) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return
	}

	for i, a := range articles {
		if i > 0 {
			fmt.Fprintln(w, strings.Repeat("-", 72))
		}
		if expanded {
			writeExpanded(w, a)
		} else {
			writeCondensed(w, a)
		}
	}
	fmt.Fprintf(w, "\n%d article(s)\n", len(articles))
}

func writeExpanded(w io.Writer, a Article) {
	fmt.Fprintf(w, "Published: %s\n", orNA(a.Year))
	fmt.Fprintf(w, "Title: %s\n", orNA(a.Title))
	fmt.Fprintf(w, "First Author: %s\n", a.FirstAuthor())
	fmt.Fprintf(w, "Journal: %s\n", orNA(a.Journal))
	fmt.Fprintf(w, "Publication Type: %s\n", orNA(strings.Join(a.PublicationTypes, ", ")))
	fmt.Fprintf(w, "DOI: %s\n", orNA(a.DOI))
	fmt.Fprintf(w, "PubMed URL: %s\n", orNA(a.PubmedURL))
	fmt.Fprintf(w, "Full Text URL: %s\n", orNA(a.FullTextURL))
	fmt.Fprintf(w, "Keywords: %s\n", orNA(strings.Join(a.Keywords, ", ")))
	fmt.Fprintf(w, "MeSH Terms: %s\n", orNA(strings.Join(a.MeSHTerms, ", ")))
	if a.CitationCount != nil {
		fmt.Fprintf(w, "Cited By: %d\n", *a.CitationCount)
	}
	fmt.Fprintf(w, "Summary:\n%s\n", orNA(a.Abstract))
}

func writeCondensed(w io.Writer, a Article) {
	fmt.Fprintf(w, "Title: %s\n", orNA(a.Title))
	fmt.Fprintf(w, "Published: %s\n", orNA(a.Year))
	summary := a.Abstract
	if len(summary) > condensedAbstractLen {
		summary = summary[:condensedAbstractLen] + "..."
	}
	fmt.Fprintf(w, "Summary: %s\n", orNA(summary))
}

// FormatMetrics writes a citation-metrics report to w.
func FormatMetrics(w io.Writer, m *CitationMetrics, expanded bool) {
	fmt.Fprintf(w, "Title: %s\n", orNA(m.Article.Title))
	fmt.Fprintf(w, "First Author: %s\n", m.Article.FirstAuthor())
	fmt.Fprintf(w, "Journal: %s\n", orNA(m.Article.Journal))
	fmt.Fprintf(w, "Year: %s\n", orNA(m.Article.Year))
	fmt.Fprintf(w, "DOI: %s\n", orNA(m.Article.DOI))
	fmt.Fprintf(w, "Citation Count: %d\n", m.CitationCount)

	if len(m.Related) > 0 {
		fmt.Fprintln(w, "\nRelated Articles:")
		for _, r := range m.Related {
			fmt.Fprintf(w, "  - %s (%s, %s)\n", orNA(r.Title), r.FirstAuthor(), orNA(r.Year))
			if expanded {
				fmt.Fprintf(w, "    %s\n", orNA(r.PubmedURL))
			}
		}
	}
}

// FormatJSON writes v to w as indented JSON.
func FormatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "n/a"
	}
	return s
}
