// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/askalan/pubnote/pkg/types"
)

const emptyFetchXML = `<PubmedArticleSet></PubmedArticleSet>`

func citedInXML(ids ...string) string {
	var sb strings.Builder
	sb.WriteString(`<eLinkResult><LinkSet><LinkSetDb><LinkName>pubmed_pubmed_citedin</LinkName>`)
	for _, id := range ids {
		fmt.Fprintf(&sb, "<Link><Id>%s</Id></Link>", id)
	}
	sb.WriteString(`</LinkSetDb></LinkSet></eLinkResult>`)
	return sb.String()
}

func relatedXML(ids ...string) string {
	var sb strings.Builder
	sb.WriteString(`<eLinkResult><LinkSet><LinkSetDb><LinkName>pubmed_pubmed</LinkName>`)
	for _, id := range ids {
		fmt.Fprintf(&sb, "<Link><Id>%s</Id></Link>", id)
	}
	sb.WriteString(`</LinkSetDb></LinkSet></eLinkResult>`)
	return sb.String()
}

func articleSetXML(pmids ...string) string {
	var sb strings.Builder
	sb.WriteString("<PubmedArticleSet>")
	for _, id := range pmids {
		fmt.Fprintf(&sb, `<PubmedArticle><MedlineCitation><PMID>%s</PMID>
<Article><ArticleTitle>Article %s</ArticleTitle>
<Journal><Title>J</Title><JournalIssue><PubDate><Year>2020</Year></PubDate></JournalIssue></Journal>
</Article></MedlineCitation><PubmedData></PubmedData></PubmedArticle>`, id, id)
	}
	sb.WriteString("</PubmedArticleSet>")
	return sb.String()
}

// citationServer serves efetch and elink responses keyed by the request's
// id and linkname parameters and records the order of endpoints hit.
type citationServer struct {
	mu         sync.Mutex
	endpoints  []string
	fetchEmpty bool
	citing     []string
	related    []string
}

func (cs *citationServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		cs.endpoints = append(cs.endpoints, r.URL.Path)
		cs.mu.Unlock()

		w.Header().Set("Content-Type", "text/xml")
		switch r.URL.Path {
		case "/efetch.fcgi":
			if cs.fetchEmpty {
				fmt.Fprint(w, emptyFetchXML)
				return
			}
			ids := strings.Split(r.URL.Query().Get("id"), ",")
			fmt.Fprint(w, articleSetXML(ids...))
		case "/elink.fcgi":
			if r.URL.Query().Get("linkname") == linkCitedIn {
				fmt.Fprint(w, citedInXML(cs.citing...))
			} else {
				fmt.Fprint(w, relatedXML(cs.related...))
			}
		default:
			http.NotFound(w, r)
		}
	}
}

func newCitationClient(t *testing.T, cs *citationServer) *Client {
	t.Helper()

	ts := httptest.NewServer(cs.handler())
	t.Cleanup(ts.Close)

	oldFetch, oldLink := efetchURL, elinkURL
	efetchURL = ts.URL + "/efetch.fcgi"
	elinkURL = ts.URL + "/elink.fcgi"
	t.Cleanup(func() { efetchURL, elinkURL = oldFetch, oldLink })

	c, err := NewClient(types.PubmedConfig{
		Email:       "tester@example.com",
		MinInterval: time.Millisecond,
	}, ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestMetrics(t *testing.T) {
	cs := &citationServer{
		citing:  []string{"1", "2", "3"},
		related: []string{"31535829", "10", "11", "12", "13", "14", "15"},
	}
	c := newCitationClient(t, cs)

	m, err := c.Metrics(context.Background(), "31535829")
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}

	if m.CitationCount != 3 {
		t.Errorf("CitationCount = %d, want 3", m.CitationCount)
	}
	if m.Article.CitationCount == nil || *m.Article.CitationCount != 3 {
		t.Error("Article.CitationCount not populated")
	}
	if m.Article.PMID != "31535829" {
		t.Errorf("Article.PMID = %q, want %q", m.Article.PMID, "31535829")
	}

	// Related drops the article itself and is capped at five.
	if len(m.Related) != 5 {
		t.Fatalf("len(Related) = %d, want 5", len(m.Related))
	}
	for _, r := range m.Related {
		if r.PMID == "31535829" {
			t.Error("related articles include the primary PMID")
		}
	}
	if m.Related[0].PMID != "10" {
		t.Errorf("Related[0].PMID = %q, want %q (upstream order)", m.Related[0].PMID, "10")
	}
}

func TestMetricsNotFoundBeforeCitedBy(t *testing.T) {
	cs := &citationServer{fetchEmpty: true}
	c := newCitationClient(t, cs)

	_, err := c.Metrics(context.Background(), "99999999")
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("Metrics error = %v, want NotFoundError", err)
	}
	if nferr.PMID != "99999999" {
		t.Errorf("NotFoundError.PMID = %q, want %q", nferr.PMID, "99999999")
	}

	// The cited-by search must not have been issued.
	for _, ep := range cs.endpoints {
		if ep == "/elink.fcgi" {
			t.Error("elink was called despite the detail fetch returning zero records")
		}
	}
}

func TestFindCitingTruncatesAndPreservesOrder(t *testing.T) {
	cs := &citationServer{citing: []string{"30", "20", "10", "40"}}
	c := newCitationClient(t, cs)

	articles, err := c.FindCiting(context.Background(), "31535829", 2)
	if err != nil {
		t.Fatalf("FindCiting: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(articles))
	}
	// Upstream order, no client-side re-sorting.
	if articles[0].PMID != "30" || articles[1].PMID != "20" {
		t.Errorf("order = [%s %s], want [30 20]", articles[0].PMID, articles[1].PMID)
	}
}

func TestFindCitingNoResults(t *testing.T) {
	cs := &citationServer{}
	c := newCitationClient(t, cs)

	articles, err := c.FindCiting(context.Background(), "31535829", 0)
	if err != nil {
		t.Fatalf("FindCiting: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("len(articles) = %d, want 0", len(articles))
	}
}
