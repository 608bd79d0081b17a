// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Article is a parsed PubMed record. It is immutable once constructed.
type Article struct {
	// PMID is the PubMed identifier.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the full abstract; labeled sections ("METHODS:", "RESULTS:")
	// are preserved as "Label: text" paragraphs.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the authors in publication order ("LastName, ForeName").
	Authors []string `json:"authors" yaml:"authors"`

	// Journal is the full journal title.
	Journal string `json:"journal" yaml:"journal"`

	// Year is the publication year as given by PubMed.
	Year string `json:"year" yaml:"year"`

	// DOI is the digital object identifier, empty when absent.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// PubmedURL links to the article's PubMed page.
	PubmedURL string `json:"pubmed_url" yaml:"pubmed_url"`

	// FullTextURL links to free full text via PMC when available,
	// falling back to the DOI resolver.
	FullTextURL string `json:"full_text_url,omitempty" yaml:"full_text_url,omitempty"`

	// Keywords are author-supplied keywords.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// MeSHTerms are the indexed Medical Subject Headings.
	MeSHTerms []string `json:"mesh_terms,omitempty" yaml:"mesh_terms,omitempty"`

	// PublicationTypes classifies the article (e.g. "Journal Article", "Review").
	PublicationTypes []string `json:"publication_types,omitempty" yaml:"publication_types,omitempty"`

	// CitationCount is the number of citing articles. Nil unless the article
	// was produced by a citation-metrics lookup.
	CitationCount *int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`
}

// FirstAuthor returns the first listed author, or "Unknown" when the record
// carries no author list.
func (a Article) FirstAuthor() string {
	if len(a.Authors) == 0 {
		return "Unknown"
	}
	return a.Authors[0]
}

// esearch response XML structure.
type esearchResult struct {
	Count int      `xml:"Count"`
	IDs   []string `xml:"IdList>Id"`
}

// parseIDs extracts the ordered PMID list from an esearch response body.
func parseIDs(body []byte) ([]string, error) {
	var res esearchResult
	if err := xml.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return res.IDs, nil
}

// efetch response XML structures. Field paths follow the PubMed DTD.
type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation citationXML `xml:"MedlineCitation"`
	Data     pubmedData  `xml:"PubmedData"`
}

type citationXML struct {
	PMID         string        `xml:"PMID"`
	ArticleTitle string        `xml:"Article>ArticleTitle"`
	Abstract     []abstractXML `xml:"Article>Abstract>AbstractText"`
	Authors      []authorXML   `xml:"Article>AuthorList>Author"`
	Journal      string        `xml:"Article>Journal>Title"`
	PubYear      string        `xml:"Article>Journal>JournalIssue>PubDate>Year"`
	MedlineDate  string        `xml:"Article>Journal>JournalIssue>PubDate>MedlineDate"`
	PubTypes     []string      `xml:"Article>PublicationTypeList>PublicationType"`
	Keywords     []string      `xml:"KeywordList>Keyword"`
	MeSHTerms    []string      `xml:"MeshHeadingList>MeshHeading>DescriptorName"`
}

type abstractXML struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

type authorXML struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	CollectiveName string `xml:"CollectiveName"`
}

type pubmedData struct {
	ArticleIDs []articleIDXML `xml:"ArticleIdList>ArticleId"`
}

type articleIDXML struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

// parseArticles converts an efetch XML body into Article records,
// preserving upstream order.
func parseArticles(body []byte) ([]Article, error) {
	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	articles := make([]Article, 0, len(set.Articles))
	for _, raw := range set.Articles {
		articles = append(articles, buildArticle(raw))
	}
	return articles, nil
}

func buildArticle(raw pubmedArticle) Article {
	a := Article{
		PMID:             strings.TrimSpace(raw.Citation.PMID),
		Title:            strings.TrimSpace(raw.Citation.ArticleTitle),
		Journal:          strings.TrimSpace(raw.Citation.Journal),
		Year:             strings.TrimSpace(raw.Citation.PubYear),
		Abstract:         joinAbstract(raw.Citation.Abstract),
		PublicationTypes: trimAll(raw.Citation.PubTypes),
		Keywords:         trimAll(raw.Citation.Keywords),
		MeSHTerms:        trimAll(raw.Citation.MeSHTerms),
	}

	// Some records carry only a MedlineDate like "2019 Jan-Feb".
	if a.Year == "" && raw.Citation.MedlineDate != "" {
		fields := strings.Fields(raw.Citation.MedlineDate)
		if len(fields) > 0 {
			a.Year = fields[0]
		}
	}

	for _, au := range raw.Citation.Authors {
		switch {
		case au.CollectiveName != "":
			a.Authors = append(a.Authors, strings.TrimSpace(au.CollectiveName))
		case au.LastName != "" && au.ForeName != "":
			a.Authors = append(a.Authors, au.LastName+", "+au.ForeName)
		case au.LastName != "":
			a.Authors = append(a.Authors, au.LastName)
		}
	}

	var doi, pmcID string
	for _, id := range raw.Data.ArticleIDs {
		switch id.IDType {
		case "doi":
			doi = strings.TrimSpace(id.Value)
		case "pmc":
			pmcID = strings.TrimSpace(id.Value)
		}
	}
	a.DOI = doi

	if a.PMID != "" {
		a.PubmedURL = "https://pubmed.ncbi.nlm.nih.gov/" + a.PMID + "/"
	}
	// Prefer PMC for full text, then the DOI resolver.
	switch {
	case pmcID != "":
		a.FullTextURL = "https://www.ncbi.nlm.nih.gov/pmc/articles/" + pmcID + "/"
	case doi != "":
		a.FullTextURL = "https://doi.org/" + doi
	}

	return a
}

// joinAbstract flattens labeled abstract sections into "Label: text" paragraphs.
func joinAbstract(sections []abstractXML) string {
	var parts []string
	for _, s := range sections {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if s.Label != "" {
			parts = append(parts, s.Label+": "+text)
		} else {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// elink response XML structure.
type elinkResult struct {
	LinkSets []linkSetXML `xml:"LinkSet"`
}

type linkSetXML struct {
	DBs []linkSetDBXML `xml:"LinkSetDb"`
}

type linkSetDBXML struct {
	LinkName string   `xml:"LinkName"`
	IDs      []string `xml:"Link>Id"`
}

// parseLinkIDs extracts linked PMIDs for the given link name from an elink
// response body, preserving upstream order.
func parseLinkIDs(body []byte, linkName string) ([]string, error) {
	var res elinkResult
	if err := xml.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing elink response: %w", err)
	}

	var ids []string
	for _, set := range res.LinkSets {
		for _, db := range set.DBs {
			if db.LinkName != linkName {
				continue
			}
			ids = append(ids, db.IDs...)
		}
	}
	return ids, nil
}
