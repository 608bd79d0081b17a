// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askalan/pubnote/internal/pubmed"
	"github.com/askalan/pubnote/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleArticles() []pubmed.Article {
	return []pubmed.Article{
		{
			PMID:      "31535829",
			Title:     "Dapagliflozin in Patients with Heart Failure.",
			Authors:   []string{"McMurray, John J V", "Solomon, Scott D"},
			Journal:   "The New England Journal of Medicine",
			Year:      "2019",
			DOI:       "10.1056/NEJMoa1911303",
			Abstract:  "BACKGROUND: Patients with heart failure have poor outcomes.",
			PubmedURL: "https://pubmed.ncbi.nlm.nih.gov/31535829/",
		},
		{
			PMID:    "12345",
			Title:   "Sepsis biomarkers",
			Year:    "2021",
			Journal: "Critical Care",
		},
	}
}

func TestSaveSearchAndFind(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveSearch(`(heart failure)`, sampleArticles()))

	found, err := s.Find("heart failure", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "31535829", found[0].PMID)
	assert.Equal(t, []string{"McMurray, John J V", "Solomon, Scott D"}, found[0].Authors)

	searches, err := s.Searches(0)
	require.NoError(t, err)
	require.Len(t, searches, 1)
	assert.Equal(t, `(heart failure)`, searches[0].Term)
	assert.Equal(t, 2, searches[0].ResultCount)
	assert.False(t, searches[0].Timestamp.IsZero())
}

func TestSaveSearchUpsertsArticles(t *testing.T) {
	s := newTestStore(t)

	articles := sampleArticles()
	require.NoError(t, s.SaveSearch("first", articles))

	articles[0].Title = "Dapagliflozin (updated)"
	require.NoError(t, s.SaveSearch("second", articles[:1]))

	a, err := s.Article("31535829")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "Dapagliflozin (updated)", a.Title)

	// History keeps both searches, newest first.
	searches, err := s.Searches(0)
	require.NoError(t, err)
	require.Len(t, searches, 2)
	assert.Equal(t, "second", searches[0].Term)
}

func TestArticleMissing(t *testing.T) {
	s := newTestStore(t)

	a, err := s.Article("nope")
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestSearchesLimit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveSearch("term", nil))
	}

	searches, err := s.Searches(3)
	require.NoError(t, err)
	assert.Len(t, searches, 3)
}
