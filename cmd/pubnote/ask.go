package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askalan/pubnote/internal/genai"
	"github.com/askalan/pubnote/internal/obsidian"
	"github.com/askalan/pubnote/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the AI assistant a research question",
	Long: `Ask sends a question to the configured AI model and prints the answer.

With --obsidian the answer is exported as a markdown note into your Obsidian
vault, enriched with extracted key concepts (rendered as [[wiki-links]]) and
suggested follow-up questions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Bool("obsidian", false, "export the answer as an Obsidian note")
	askCmd.Flags().String("vault", "", "Obsidian vault path (overrides config)")
	askCmd.Flags().String("folder", "", `vault folder for exported notes (default "AI-Generated")`)
	askCmd.Flags().Int("concepts", 0, "maximum key concepts to extract (default 10)")
	askCmd.Flags().Bool("follow-up", true, "include follow-up questions in exported notes")
	askCmd.Flags().Float64("temperature", 0, "sampling temperature (default from config)")

	rootCmd.AddCommand(askCmd)
}

func aiClient(cmd *cobra.Command) (*genai.Client, error) {
	temperature, _ := cmd.Flags().GetFloat64("temperature")
	if temperature == 0 {
		temperature = viper.GetFloat64("ai.temperature")
	}

	cfg := types.AIConfig{
		Model:       viper.GetString("ai.model"),
		APIKey:      secretDefault("anthropic-api-key", viper.GetString("ai.api_key")),
		Temperature: temperature,
		MaxRetries:  viper.GetInt("ai.max_retries"),
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no AI API key configured: set ai.api_key or .secrets/anthropic-api-key")
	}

	return genai.NewClient(cfg, &http.Client{Timeout: 2 * time.Minute})
}

func runAsk(cmd *cobra.Command, args []string) error {
	client, err := aiClient(cmd)
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")

	heading := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	heading.Fprintf(os.Stdout, "Q: %s\n\n", query)
	answer, err := client.Ask(cmd.Context(), query)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, answer.Text)
	dim.Fprintf(os.Stdout, "\n[%s, %s]\n", answer.Model, answer.Elapsed.Round(time.Millisecond))

	export, _ := cmd.Flags().GetBool("obsidian")
	if !export {
		return nil
	}

	maxConcepts, _ := cmd.Flags().GetInt("concepts")
	if maxConcepts <= 0 {
		maxConcepts = viper.GetInt("note.max_concepts")
	}
	if maxConcepts <= 0 {
		maxConcepts = 10
	}
	concepts, err := client.ExtractConcepts(cmd.Context(), answer.Text, maxConcepts)
	if err != nil {
		return err
	}

	var followUps string
	if withFollowUps, _ := cmd.Flags().GetBool("follow-up"); withFollowUps {
		followUps, err = client.FollowUpQuestions(cmd.Context(), query, answer.Text)
		if err != nil {
			// Follow-ups are decoration; the note is still worth exporting.
			fmt.Fprintf(os.Stderr, "warning: follow-up questions unavailable: %v\n", err)
			followUps = ""
		}
	}

	temperature, _ := cmd.Flags().GetFloat64("temperature")
	note := obsidian.BuildNote(query, answer.Text, answer.Model, temperature, concepts, followUps)

	noteCfg := types.NoteConfig{
		VaultPath:   viper.GetString("note.vault_path"),
		Folder:      viper.GetString("note.folder"),
		MaxConcepts: maxConcepts,
	}
	if noteCfg.VaultPath == "" {
		noteCfg.VaultPath = secretDefault("obsidian-vault", "")
	}
	if vault, _ := cmd.Flags().GetString("vault"); vault != "" {
		noteCfg.VaultPath = vault
	}
	if folder, _ := cmd.Flags().GetString("folder"); folder != "" {
		noteCfg.Folder = folder
	}

	vaultPath, err := obsidian.VaultPath(noteCfg)
	if err != nil {
		return err
	}
	notePath, err := obsidian.Export(note, vaultPath, noteCfg.Folder)
	if err != nil {
		return err
	}
	heading.Fprintf(os.Stdout, "\nExported note: %s\n", notePath)
	return nil
}
