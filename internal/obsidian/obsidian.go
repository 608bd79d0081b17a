// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package obsidian builds markdown notes with YAML frontmatter and writes
// them into an Obsidian vault.
package obsidian

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/askalan/pubnote/pkg/types"
)

const (
	defaultFolder   = "AI-Generated"
	maxFilenameLen  = 50
	maxTitleLen     = 50
	timestampFormat = "2006-01-02-150405"
)

// Note is an Obsidian note: markdown content plus frontmatter fields.
type Note struct {
	Title    string
	Content  string
	Tags     []string
	Metadata map[string]any
	Created  time.Time
}

// frontmatter is the YAML block at the top of a note. Extra metadata is
// inlined alongside the fixed fields.
type frontmatter struct {
	Title string         `yaml:"title"`
	Date  string         `yaml:"date"`
	Tags  []string       `yaml:"tags"`
	Extra map[string]any `yaml:",inline"`
}

// Markdown renders the note as markdown with a YAML frontmatter block.
func (n Note) Markdown() (string, error) {
	created := n.Created
	if created.IsZero() {
		created = time.Now()
	}
	fm := frontmatter{
		Title: n.Title,
		Date:  created.Format("2006-01-02"),
		Tags:  n.Tags,
		Extra: n.Metadata,
	}

	data, err := yaml.Marshal(&fm)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}
	return fmt.Sprintf("---\n%s---\n\n%s", data, n.Content), nil
}

// BuildNote assembles a research note from a model answer: the query, the
// response, optional follow-up questions, and concept links for the
// knowledge graph.
func BuildNote(query, answer, model string, temperature float64, concepts []string, followUps string) Note {
	title := query
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen] + "..."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "## Query\n\n%s\n\n", query)
	fmt.Fprintf(&sb, "## Response\n\n%s\n\n", answer)

	if followUps != "" {
		fmt.Fprintf(&sb, "## Follow-up Questions\n\n%s\n\n", followUps)
	}

	if len(concepts) > 0 {
		sb.WriteString("## Possible Connections\n\n")
		for _, concept := range concepts {
			fmt.Fprintf(&sb, "- [[%s]]\n", concept)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Notes and Annotations\n\n- \n")

	now := time.Now()
	return Note{
		Title:   title,
		Content: sb.String(),
		Tags:    []string{"AI-Generated", "Research"},
		Metadata: map[string]any{
			"query":       query,
			"model":       model,
			"temperature": temperature,
			"category":    "AI-Generated",
		},
		Created: now,
	}
}

var (
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// SanitizeFilename converts a string into a safe markdown filename:
// invalid characters removed, spaces hyphenated, length capped.
func SanitizeFilename(name string) string {
	name = invalidChars.ReplaceAllString(name, "")
	name = spaceRuns.ReplaceAllString(strings.TrimSpace(name), "-")
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	return name
}

// VaultPath resolves the Obsidian vault root: the configured path, then the
// OBSIDIAN_VAULT_PATH environment variable, then common home locations.
// Returns an error when nothing resolves to an existing directory.
func VaultPath(cfg types.NoteConfig) (string, error) {
	if cfg.VaultPath != "" {
		return cfg.VaultPath, nil
	}
	if p := os.Getenv("OBSIDIAN_VAULT_PATH"); p != "" {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	for _, p := range []string{
		filepath.Join(home, "Obsidian"),
		filepath.Join(home, "Documents", "Obsidian"),
		filepath.Join(home, "Documents", "obsidian"),
	} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("obsidian vault not found: set vault_path or OBSIDIAN_VAULT_PATH")
}

// Export writes the note into <vault>/<folder>/<timestamp>-<slug>.md and
// returns the written path. The folder is created if missing.
func Export(note Note, vaultPath string, folder string) (string, error) {
	if folder == "" {
		folder = defaultFolder
	}
	targetDir := filepath.Join(vaultPath, folder)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("creating note directory: %w", err)
	}

	created := note.Created
	if created.IsZero() {
		created = time.Now()
	}
	slug := SanitizeFilename(note.Title)
	if len(slug) > 30 {
		slug = slug[:30]
	}
	path := filepath.Join(targetDir, created.Format(timestampFormat)+"-"+slug+".md")

	md, err := note.Markdown()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return "", fmt.Errorf("writing note: %w", err)
	}
	return path, nil
}
