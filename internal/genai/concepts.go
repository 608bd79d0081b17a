// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"text/template"
)

// conceptPromptLimit bounds the analyzed text to stay well inside token limits.
const conceptPromptLimit = 2000

// conceptPromptTmpl asks the model for linkable key concepts: multi-word
// expressions and technical terms rather than common single words.
var conceptPromptTmpl = template.Must(template.New("concepts").Parse(`Analyze the following text and extract the {{.Max}} most significant concepts or terms.

Focus on multi-word expressions, technical terms, theoretical frameworks, and meaningful phrases
rather than common single words. Good examples would be "extraterrestrial life", "carbon-based life forms",
"metabolic processes", or "self-replicating systems".

Text to analyze:
` + "```" + `
{{.Text}}
` + "```" + `

Return ONLY a numbered list with each concept on its own line, no explanations.
Do not use bullet points or any other formatting, just the concepts themselves.
Important: Make sure concepts are in a form useful for knowledge graph linking (proper nouns, technical terms, key phrases).
`))

// followUpPromptTmpl asks the model for follow-up questions on an answer.
var followUpPromptTmpl = template.Must(template.New("followup").Parse(`Based on the following query and response, generate 3 thoughtful follow-up questions
that would deepen understanding or explore related topics.

Original query: {{.Query}}

Response: {{.Answer}}

Return ONLY the questions as a numbered list.
`))

// listLinePattern strips leading numbering ("1.", "2)") from list lines.
var listLinePattern = regexp.MustCompile(`^\d+[.)]*\s*`)

// ExtractConcepts asks the model for up to max key concepts in text. When the
// API call fails it falls back to frequency-based phrase extraction so note
// export still gets candidate links.
func (c *Client) ExtractConcepts(ctx context.Context, text string, max int) ([]string, error) {
	if max <= 0 {
		max = 10
	}
	if len(text) > conceptPromptLimit {
		text = text[:conceptPromptLimit]
	}

	var buf bytes.Buffer
	err := conceptPromptTmpl.Execute(&buf, struct {
		Max  int
		Text string
	}{Max: max, Text: text})
	if err != nil {
		return nil, fmt.Errorf("rendering concept prompt: %w", err)
	}

	// Low temperature for focused, reproducible concept lists.
	reply, err := c.complete(ctx, buf.String(), 0.2)
	if err != nil {
		return FallbackConcepts(text, max), nil
	}
	return parseConceptList(reply, max), nil
}

// FollowUpQuestions asks the model for follow-up questions to the answer.
func (c *Client) FollowUpQuestions(ctx context.Context, query, answer string) (string, error) {
	var buf bytes.Buffer
	err := followUpPromptTmpl.Execute(&buf, struct {
		Query  string
		Answer string
	}{Query: query, Answer: answer})
	if err != nil {
		return "", fmt.Errorf("rendering follow-up prompt: %w", err)
	}
	return c.complete(ctx, buf.String(), 0.7)
}

// parseConceptList cleans a numbered-list reply into concept strings.
func parseConceptList(reply string, max int) []string {
	var concepts []string
	for _, line := range strings.Split(strings.TrimSpace(reply), "\n") {
		clean := strings.TrimSpace(listLinePattern.ReplaceAllString(strings.TrimSpace(line), ""))
		if len(clean) > 2 {
			concepts = append(concepts, clean)
		}
		if len(concepts) == max {
			break
		}
	}
	return concepts
}

// commonPhrases are bigrams too generic to link.
var commonPhrases = map[string]bool{
	"of the": true, "in the": true, "to the": true, "and the": true,
	"for the": true, "is a": true, "such as": true,
}

var wordPattern = regexp.MustCompile(`\b[\w-]+\b`)

// FallbackConcepts extracts candidate phrases without the model: it counts
// two- and three-word sequences and returns the most frequent ones.
func FallbackConcepts(text string, max int) []string {
	if max <= 0 {
		max = 10
	}

	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	counts := make(map[string]int)
	order := make(map[string]int) // first-seen position for stable ties
	record := func(phrase string, pos int) {
		if _, seen := counts[phrase]; !seen {
			order[phrase] = pos
		}
		counts[phrase]++
	}
	for i := 0; i+1 < len(words); i++ {
		record(words[i]+" "+words[i+1], i)
	}
	for i := 0; i+2 < len(words); i++ {
		record(words[i]+" "+words[i+1]+" "+words[i+2], i)
	}

	phrases := make([]string, 0, len(counts))
	for p := range counts {
		if !commonPhrases[p] && len(p) > 5 {
			phrases = append(phrases, p)
		}
	}
	sort.Slice(phrases, func(i, j int) bool {
		if counts[phrases[i]] != counts[phrases[j]] {
			return counts[phrases[i]] > counts[phrases[j]]
		}
		return order[phrases[i]] < order[phrases[j]]
	})

	if len(phrases) > max {
		phrases = phrases[:max]
	}
	return phrases
}
