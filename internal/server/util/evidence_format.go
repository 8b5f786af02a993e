package util

import (
	"fmt"
	"strings"

	"github.com/trailhead-ai/trailhead/backend/pkg/ai"
	"github.com/trailhead-ai/trailhead/backend/pkg/reason"
)

const (
	// MaxPromptPaths caps the reasoning paths quoted in the answer prompt.
	MaxPromptPaths = 10
	// PromptTokenBudget bounds the evidence listings inside the prompt.
	PromptTokenBudget = 3000

	tokenEncoding = "cl100k_base"
)

// FormatPathLines renders the top ranked paths as numbered prompt lines with
// their scores.
func FormatPathLines(evidence *reason.Evidence) []string {
	paths := evidence.RankedPaths
	if len(paths) > MaxPromptPaths {
		paths = paths[:MaxPromptPaths]
	}

	lines := make([]string, 0, len(paths))
	for i, sp := range paths {
		lines = append(lines, fmt.Sprintf("%d. [score %.3f] %s", i+1, sp.Score, sp.Path.Render()))
	}
	return lines
}

// FormatTripleLines renders the context triples as prompt lines.
func FormatTripleLines(evidence *reason.Evidence) []string {
	lines := make([]string, 0, len(evidence.ContextTriples))
	for _, triple := range evidence.ContextTriples {
		lines = append(lines, "- "+triple.String())
	}
	return lines
}

// BuildAnswerPrompt assembles the final answer prompt from the evidence. Path
// and triple listings share the token budget, paths first since they carry
// the multi-hop structure the model should reason over.
func BuildAnswerPrompt(evidence *reason.Evidence) string {
	if evidence.Counts.RankedPaths == 0 && evidence.Counts.ContextTriples == 0 {
		return fmt.Sprintf(ai.NoEvidencePrompt, evidence.Question)
	}

	pathLines := ai.TruncateLinesToTokens(FormatPathLines(evidence), PromptTokenBudget/2, tokenEncoding)
	tripleLines := ai.TruncateLinesToTokens(FormatTripleLines(evidence), PromptTokenBudget/2, tokenEncoding)

	pathBlock := "No multi-hop paths were found."
	if len(pathLines) > 0 {
		pathBlock = strings.Join(pathLines, "\n")
	}
	tripleBlock := "No knowledge triples were found."
	if len(tripleLines) > 0 {
		tripleBlock = strings.Join(tripleLines, "\n")
	}

	return fmt.Sprintf(ai.AnswerPrompt, pathBlock, tripleBlock, evidence.Question)
}
