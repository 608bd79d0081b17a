package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askalan/pubnote/internal/pubmed"
	"github.com/askalan/pubnote/internal/store"
	"github.com/askalan/pubnote/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "pubnote/0.1"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search PubMed for articles",
	Long: `Search queries the PubMed E-utilities API for articles matching a free-text
query and optional filters (author, journal, date range, publication type,
MeSH terms, affiliation). Responses are cached and outbound calls are rate
limited per NCBI policy.

MeSH terms are separated by semicolons, since individual terms may contain
commas: --mesh "Heart Failure;Diabetes Mellitus, Type 2".`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "free-text search query")
	searchCmd.Flags().String("author", "", `filter by author name (e.g. "Smith JB")`)
	searchCmd.Flags().String("journal", "", "filter by journal title")
	searchCmd.Flags().String("dates", "", "publication date range (YYYY/MM/DD:YYYY/MM/DD or YYYY:YYYY)")
	searchCmd.Flags().String("type", "", `filter by publication type (e.g. "Review")`)
	searchCmd.Flags().String("mesh", "", "MeSH terms, semicolon-separated")
	searchCmd.Flags().String("affiliation", "", "filter by author affiliation")
	searchCmd.Flags().String("field", "", "restrict query to a field (e.g. Title/Abstract)")
	searchCmd.Flags().Bool("title-only", false, "search only in article titles")
	searchCmd.Flags().Bool("abstract-only", false, "search only in article abstracts")
	searchCmd.Flags().Bool("free-full-text", false, "only articles with free full text")
	searchCmd.Flags().String("operator", "AND", "boolean operator between query clauses (AND, OR)")
	searchCmd.Flags().String("sort", "relevance", "sort order: relevance, pub_date, first_author")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (default 10)")
	searchCmd.Flags().Bool("expanded", false, "print all metadata fields per article")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("load", "", "replay a saved YAML query file instead of reading query flags")
	searchCmd.Flags().String("save", "", "save the query and results to a YAML file")
	searchCmd.Flags().Bool("store", false, "persist results to the local article library")

	rootCmd.AddCommand(searchCmd)
}

// pubmedClient builds the shared E-utilities client from flags, config, and secrets.
func pubmedClient(cmd *cobra.Command) (*pubmed.Client, error) {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	expanded, _ := cmd.Flags().GetBool("expanded")

	cfg := types.PubmedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		Email:       secretDefault("entrez-email", viper.GetString("pubmed.email")),
		APIKey:      secretDefault("ncbi-api-key", viper.GetString("pubmed.api_key")),
		MaxResults:  maxResults,
		Expanded:    expanded,
		CacheTTL:    viper.GetDuration("pubmed.cache_ttl"),
		MinInterval: viper.GetDuration("pubmed.min_interval"),
	}
	if cfg.Email == "" {
		return nil, fmt.Errorf("no contact email configured: set pubmed.email or .secrets/entrez-email")
	}

	return pubmed.NewClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

func searchRequestFromFlags(cmd *cobra.Command) pubmed.SearchRequest {
	str := func(name string) string { v, _ := cmd.Flags().GetString(name); return v }
	boolean := func(name string) bool { v, _ := cmd.Flags().GetBool(name); return v }
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return pubmed.SearchRequest{
		Query:            str("query"),
		Author:           str("author"),
		Journal:          str("journal"),
		DateRange:        str("dates"),
		PublicationType:  str("type"),
		MeSHTerms:        str("mesh"),
		Affiliation:      str("affiliation"),
		FieldRestriction: str("field"),
		TitleOnly:        boolean("title-only"),
		AbstractOnly:     boolean("abstract-only"),
		FreeFullText:     boolean("free-full-text"),
		BooleanOperator:  str("operator"),
		SortBy:           str("sort"),
		MaxResults:       maxResults,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := pubmedClient(cmd)
	if err != nil {
		return err
	}
	req := searchRequestFromFlags(cmd)
	if loadPath, _ := cmd.Flags().GetString("load"); loadPath != "" {
		qf, err := pubmed.ReadQueryFile(loadPath)
		if err != nil {
			return err
		}
		req = qf.Query.ToRequest()
	}

	articles, err := client.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	expanded, _ := cmd.Flags().GetBool("expanded")
	if asJSON {
		if err := pubmed.FormatJSON(os.Stdout, articles); err != nil {
			return err
		}
	} else {
		pubmed.FormatArticles(os.Stdout, articles, expanded)
	}

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := pubmed.WriteQueryFile(savePath, req, articles); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved query file: %s\n", savePath)
	}

	if persist, _ := cmd.Flags().GetBool("store"); persist {
		term, err := req.Term()
		if err != nil {
			return err
		}
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.SaveSearch(term, articles); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Stored %d article(s) in the library\n", len(articles))
	}

	return nil
}

// openStore opens the local article library using the configured data dir.
func openStore() (*store.Store, error) {
	dataDir := viper.GetString("store.data_dir")
	if dataDir == "" {
		dataDir = "library"
	}
	return store.NewStore(types.StoreConfig{
		DataDir:    dataDir,
		MaxResults: viper.GetInt("store.max_results"),
	})
}
