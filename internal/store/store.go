// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists fetched articles and search history in a local
// SQLite library, so past results can be browsed without re-querying the API.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/askalan/pubnote/internal/pubmed"
	"github.com/askalan/pubnote/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "pubnote.db"
)

// Store manages the article library SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// SavedSearch is one row of the search history.
type SavedSearch struct {
	Term        string    `json:"term"`
	ResultCount int       `json:"result_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewStore opens or creates the library database at dataDir/index/pubnote.db
// and creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			pmid TEXT PRIMARY KEY,
			title TEXT,
			authors TEXT,
			journal TEXT,
			year TEXT,
			doi TEXT,
			abstract TEXT,
			pubmed_url TEXT,
			fetched_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS searches (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			term TEXT NOT NULL,
			result_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_year ON articles(year)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveSearch records one search and upserts its articles into the library.
func (s *Store) SaveSearch(term string, articles []pubmed.Article) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	for _, a := range articles {
		authors, err := json.Marshal(a.Authors)
		if err != nil {
			return fmt.Errorf("marshaling authors for %s: %w", a.PMID, err)
		}
		_, err = tx.Exec(`INSERT INTO articles
			(pmid, title, authors, journal, year, doi, abstract, pubmed_url, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(pmid) DO UPDATE SET
				title = excluded.title,
				authors = excluded.authors,
				journal = excluded.journal,
				year = excluded.year,
				doi = excluded.doi,
				abstract = excluded.abstract,
				pubmed_url = excluded.pubmed_url,
				fetched_at = excluded.fetched_at`,
			a.PMID, a.Title, string(authors), a.Journal, a.Year, a.DOI, a.Abstract, a.PubmedURL, now)
		if err != nil {
			return fmt.Errorf("upserting article %s: %w", a.PMID, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO searches (term, result_count, created_at) VALUES (?, ?, ?)`,
		term, len(articles), now); err != nil {
		return fmt.Errorf("recording search: %w", err)
	}

	return tx.Commit()
}

// Searches returns the most recent saved searches, newest first.
func (s *Store) Searches(limit int) ([]SavedSearch, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.Query(
		`SELECT term, result_count, created_at FROM searches ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	var out []SavedSearch
	for rows.Next() {
		var sr SavedSearch
		var created string
		if err := rows.Scan(&sr.Term, &sr.ResultCount, &created); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339, created); perr == nil {
			sr.Timestamp = t
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// Find returns library articles whose title or abstract contains the query,
// newest first by fetch time.
func (s *Store) Find(query string, limit int) ([]pubmed.Article, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	pattern := "%" + query + "%"
	rows, err := s.db.Query(
		`SELECT pmid, title, authors, journal, year, doi, abstract, pubmed_url
		 FROM articles
		 WHERE title LIKE ? OR abstract LIKE ?
		 ORDER BY fetched_at DESC LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// Article returns the library record for one PMID, or nil when absent.
func (s *Store) Article(pmid string) (*pubmed.Article, error) {
	rows, err := s.db.Query(
		`SELECT pmid, title, authors, journal, year, doi, abstract, pubmed_url
		 FROM articles WHERE pmid = ?`, pmid)
	if err != nil {
		return nil, fmt.Errorf("querying article %s: %w", pmid, err)
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}
	return &articles[0], nil
}

func scanArticles(rows *sql.Rows) ([]pubmed.Article, error) {
	var out []pubmed.Article
	for rows.Next() {
		var a pubmed.Article
		var authors string
		if err := rows.Scan(&a.PMID, &a.Title, &authors, &a.Journal, &a.Year, &a.DOI, &a.Abstract, &a.PubmedURL); err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		if authors != "" {
			if err := json.Unmarshal([]byte(authors), &a.Authors); err != nil {
				return nil, fmt.Errorf("parsing authors for %s: %w", a.PMID, err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
