package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/askalan/pubnote/internal/pubmed"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Browse the local article library",
	Long: `Store browses articles previously saved with "search --store".

With --recent it lists the most recent saved searches; with --find it
searches stored titles and abstracts; with a PMID argument it prints one
stored article in full.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStore,
}

func init() {
	storeCmd.Flags().Bool("recent", false, "list recent saved searches")
	storeCmd.Flags().String("find", "", "search stored articles by title or abstract")
	storeCmd.Flags().Int("limit", 0, "maximum rows to print")
	storeCmd.Flags().Bool("expanded", false, "print all metadata fields per article")
	storeCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	asJSON, _ := cmd.Flags().GetBool("json")
	expanded, _ := cmd.Flags().GetBool("expanded")
	limit, _ := cmd.Flags().GetInt("limit")

	if recent, _ := cmd.Flags().GetBool("recent"); recent {
		searches, err := s.Searches(limit)
		if err != nil {
			return err
		}
		if asJSON {
			return pubmed.FormatJSON(os.Stdout, searches)
		}
		for _, sr := range searches {
			fmt.Fprintf(os.Stdout, "%s  %3d result(s)  %s\n",
				sr.Timestamp.Format("2006-01-02 15:04"), sr.ResultCount, sr.Term)
		}
		return nil
	}

	if query, _ := cmd.Flags().GetString("find"); query != "" {
		articles, err := s.Find(query, limit)
		if err != nil {
			return err
		}
		if asJSON {
			return pubmed.FormatJSON(os.Stdout, articles)
		}
		pubmed.FormatArticles(os.Stdout, articles, expanded)
		return nil
	}

	if len(args) == 1 {
		article, err := s.Article(args[0])
		if err != nil {
			return err
		}
		if article == nil {
			return fmt.Errorf("no stored article with PMID %s", args[0])
		}
		if asJSON {
			return pubmed.FormatJSON(os.Stdout, article)
		}
		pubmed.FormatArticles(os.Stdout, []pubmed.Article{*article}, true)
		return nil
	}

	return fmt.Errorf("nothing to do: pass --recent, --find, or a PMID")
}
