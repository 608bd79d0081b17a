// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"reflect"
	"testing"
)

const fullArticleXML = `<?xml version="1.0" ?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>31535829</PMID>
      <Article>
        <Journal>
          <Title>The New England Journal of Medicine</Title>
          <JournalIssue><PubDate><Year>2019</Year></PubDate></JournalIssue>
        </Journal>
        <ArticleTitle>Dapagliflozin in Patients with Heart Failure.</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND">Patients with heart failure have poor outcomes.</AbstractText>
          <AbstractText Label="RESULTS">Dapagliflozin reduced the risk of worsening heart failure.</AbstractText>
        </Abstract>
        <AuthorList>
          <Author><LastName>McMurray</LastName><ForeName>John J V</ForeName></Author>
          <Author><LastName>Solomon</LastName><ForeName>Scott D</ForeName></Author>
          <Author><CollectiveName>DAPA-HF Committees</CollectiveName></Author>
        </AuthorList>
        <PublicationTypeList>
          <PublicationType>Journal Article</PublicationType>
          <PublicationType>Randomized Controlled Trial</PublicationType>
        </PublicationTypeList>
      </Article>
      <MeshHeadingList>
        <MeshHeading><DescriptorName>Heart Failure</DescriptorName></MeshHeading>
        <MeshHeading><DescriptorName>Diabetes Mellitus, Type 2</DescriptorName></MeshHeading>
      </MeshHeadingList>
      <KeywordList><Keyword>SGLT2</Keyword></KeywordList>
    </MedlineCitation>
    <PubmedData>
      <ArticleIdList>
        <ArticleId IdType="pubmed">31535829</ArticleId>
        <ArticleId IdType="doi">10.1056/NEJMoa1911303</ArticleId>
        <ArticleId IdType="pmc">PMC0000001</ArticleId>
      </ArticleIdList>
    </PubmedData>
  </PubmedArticle>
</PubmedArticleSet>`

func TestParseArticlesFullRecord(t *testing.T) {
	articles, err := parseArticles([]byte(fullArticleXML))
	if err != nil {
		t.Fatalf("parseArticles: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}
	a := articles[0]

	if a.PMID != "31535829" {
		t.Errorf("PMID = %q", a.PMID)
	}
	if a.Title != "Dapagliflozin in Patients with Heart Failure." {
		t.Errorf("Title = %q", a.Title)
	}
	if a.Journal != "The New England Journal of Medicine" {
		t.Errorf("Journal = %q", a.Journal)
	}
	if a.Year != "2019" {
		t.Errorf("Year = %q", a.Year)
	}

	// Labeled abstract sections become "Label: text" paragraphs, in order.
	wantAbstract := "BACKGROUND: Patients with heart failure have poor outcomes.\n\n" +
		"RESULTS: Dapagliflozin reduced the risk of worsening heart failure."
	if a.Abstract != wantAbstract {
		t.Errorf("Abstract = %q, want %q", a.Abstract, wantAbstract)
	}

	wantAuthors := []string{"McMurray, John J V", "Solomon, Scott D", "DAPA-HF Committees"}
	if !reflect.DeepEqual(a.Authors, wantAuthors) {
		t.Errorf("Authors = %v, want %v", a.Authors, wantAuthors)
	}
	if a.FirstAuthor() != "McMurray, John J V" {
		t.Errorf("FirstAuthor = %q", a.FirstAuthor())
	}

	if a.DOI != "10.1056/NEJMoa1911303" {
		t.Errorf("DOI = %q", a.DOI)
	}
	if a.PubmedURL != "https://pubmed.ncbi.nlm.nih.gov/31535829/" {
		t.Errorf("PubmedURL = %q", a.PubmedURL)
	}
	// PMC wins over the DOI resolver for full text.
	if a.FullTextURL != "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC0000001/" {
		t.Errorf("FullTextURL = %q", a.FullTextURL)
	}

	wantMesh := []string{"Heart Failure", "Diabetes Mellitus, Type 2"}
	if !reflect.DeepEqual(a.MeSHTerms, wantMesh) {
		t.Errorf("MeSHTerms = %v, want %v", a.MeSHTerms, wantMesh)
	}
	wantTypes := []string{"Journal Article", "Randomized Controlled Trial"}
	if !reflect.DeepEqual(a.PublicationTypes, wantTypes) {
		t.Errorf("PublicationTypes = %v, want %v", a.PublicationTypes, wantTypes)
	}
	if !reflect.DeepEqual(a.Keywords, []string{"SGLT2"}) {
		t.Errorf("Keywords = %v", a.Keywords)
	}
	if a.CitationCount != nil {
		t.Error("CitationCount should be nil for plain fetches")
	}
}

func TestParseArticlesSparseRecord(t *testing.T) {
	const sparse = `<PubmedArticleSet><PubmedArticle>
<MedlineCitation><PMID>123</PMID>
<Article><ArticleTitle>Minimal</ArticleTitle>
<Journal><JournalIssue><PubDate><MedlineDate>2018 Jan-Feb</MedlineDate></PubDate></JournalIssue></Journal>
</Article></MedlineCitation>
<PubmedData><ArticleIdList><ArticleId IdType="doi">10.1/min</ArticleId></ArticleIdList></PubmedData>
</PubmedArticle></PubmedArticleSet>`

	articles, err := parseArticles([]byte(sparse))
	if err != nil {
		t.Fatalf("parseArticles: %v", err)
	}
	a := articles[0]

	if a.Year != "2018" {
		t.Errorf("Year = %q, want MedlineDate fallback %q", a.Year, "2018")
	}
	if a.FirstAuthor() != "Unknown" {
		t.Errorf("FirstAuthor = %q, want Unknown", a.FirstAuthor())
	}
	if a.Abstract != "" {
		t.Errorf("Abstract = %q, want empty", a.Abstract)
	}
	// No PMC id: fall back to the DOI resolver.
	if a.FullTextURL != "https://doi.org/10.1/min" {
		t.Errorf("FullTextURL = %q", a.FullTextURL)
	}
}

func TestParseIDs(t *testing.T) {
	const body = `<eSearchResult><Count>2</Count><IdList><Id>111</Id><Id>222</Id></IdList></eSearchResult>`
	ids, err := parseIDs([]byte(body))
	if err != nil {
		t.Fatalf("parseIDs: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"111", "222"}) {
		t.Errorf("ids = %v, want [111 222]", ids)
	}
}

func TestParseLinkIDsFiltersLinkName(t *testing.T) {
	const body = `<eLinkResult><LinkSet>
<LinkSetDb><LinkName>pubmed_pubmed</LinkName><Link><Id>5</Id></Link></LinkSetDb>
<LinkSetDb><LinkName>pubmed_pubmed_citedin</LinkName><Link><Id>7</Id></Link><Link><Id>8</Id></Link></LinkSetDb>
</LinkSet></eLinkResult>`

	ids, err := parseLinkIDs([]byte(body), linkCitedIn)
	if err != nil {
		t.Fatalf("parseLinkIDs: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"7", "8"}) {
		t.Errorf("ids = %v, want [7 8]", ids)
	}
}
