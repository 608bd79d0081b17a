package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/askalan/pubnote/internal/pubmed"
)

var citationsCmd = &cobra.Command{
	Use:   "citations <pmid>",
	Short: "Look up citation metrics for a PubMed article",
	Long: `Citations fetches citation metrics for a single article by PMID: how many
times it has been cited, which PMIDs cite it, and a handful of related
articles suggested by PubMed's similarity links.

With --citing-only, only the citing articles themselves are fetched and
printed, up to --max results.`,
	Args: cobra.ExactArgs(1),
	RunE: runCitations,
}

func init() {
	citationsCmd.Flags().Bool("citing-only", false, "print citing articles instead of full metrics")
	citationsCmd.Flags().Int("max", 0, "maximum citing articles to fetch (default 10, -1 for all)")
	citationsCmd.Flags().Bool("expanded", false, "print all metadata fields per article")
	citationsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(citationsCmd)
}

func runCitations(cmd *cobra.Command, args []string) error {
	client, err := pubmedClient(cmd)
	if err != nil {
		return err
	}
	pmid := args[0]

	asJSON, _ := cmd.Flags().GetBool("json")
	expanded, _ := cmd.Flags().GetBool("expanded")

	if citingOnly, _ := cmd.Flags().GetBool("citing-only"); citingOnly {
		max, _ := cmd.Flags().GetInt("max")
		citing, err := client.FindCiting(cmd.Context(), pmid, max)
		if err != nil {
			return err
		}
		if asJSON {
			return pubmed.FormatJSON(os.Stdout, citing)
		}
		pubmed.FormatArticles(os.Stdout, citing, expanded)
		return nil
	}

	metrics, err := client.Metrics(cmd.Context(), pmid)
	if err != nil {
		return err
	}
	if asJSON {
		return pubmed.FormatJSON(os.Stdout, metrics)
	}
	pubmed.FormatMetrics(os.Stdout, metrics, expanded)
	return nil
}
