package reason

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/trailhead-ai/trailhead/backend/pkg/ai"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger"
	"github.com/trailhead-ai/trailhead/backend/pkg/store"
)

// ExtractionSource tells which strategy produced an extraction result.
type ExtractionSource string

const (
	// ExtractionSourceModel means the AI model returned a usable entity list.
	ExtractionSourceModel ExtractionSource = "model"
	// ExtractionSourceFallback means the deterministic rule-based extractor
	// was used because the model output was missing or unusable.
	ExtractionSourceFallback ExtractionSource = "fallback"
)

// Extraction is the typed outcome of entity extraction: an entity list plus
// the strategy that produced it. Extraction never fails; when the model path
// errors the fallback fills in, so callers branch on Source, not on errors.
type Extraction struct {
	Entities []string
	Source   ExtractionSource
}

type extractResponse struct {
	Entities []string `json:"entities" jsonschema_description:"Entities from the question that likely exist in the knowledge graph"`
}

var fallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)+)\b`),
	regexp.MustCompile(`(?i)\b(transformer|architecture|model|network|algorithm|method)\b`),
	regexp.MustCompile(`(?i)\b(machine translation|neural network|attention|encoder|decoder)\b`),
	regexp.MustCompile(`(?i)\b(performance|accuracy|evaluation|benchmark)\b`),
}

// Extract pulls entity candidates from a question. The model path uses a
// schema-constrained completion; if that call fails or yields nothing, the
// pure rule-based fallback takes over. The result is therefore never empty
// solely because an external dependency was down.
func (e *Engine) Extract(ctx context.Context, question string) Extraction {
	rCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()

	var res extractResponse
	err := e.aiClient.GenerateCompletionWithFormat(
		rCtx,
		"extract_entities",
		"Extract the knowledge-graph entities referenced by a user question.",
		fmt.Sprintf(ai.ExtractPrompt, question),
		&res,
		ai.WithTemperature(0),
		ai.WithMaxTokens(150),
	)
	if err == nil {
		entities := dedupeNames(res.Entities, e.cfg.MaxExtractedEntities)
		if len(entities) > 0 {
			return Extraction{Entities: entities, Source: ExtractionSourceModel}
		}
	}
	if err != nil {
		logger.Warn("[Reason] Entity extraction via model failed, using fallback", "err", err)
	}

	return Extraction{
		Entities: fallbackExtract(question, e.cfg.MaxExtractedEntities),
		Source:   ExtractionSourceFallback,
	}
}

// fallbackExtract is the deterministic rule-based extractor: capitalized
// phrases plus a fixed technical vocabulary. It makes no external calls.
func fallbackExtract(question string, limit int) []string {
	var found []string
	for _, pattern := range fallbackPatterns {
		for _, match := range pattern.FindAllString(question, -1) {
			found = append(found, match)
		}
	}

	var cleaned []string
	for _, f := range found {
		f = strings.TrimSpace(f)
		if len(f) > 2 {
			cleaned = append(cleaned, f)
		}
	}
	return dedupeNames(cleaned, limit)
}

// Resolve maps entity candidates to graph node names via case-insensitive
// substring matching, unioned with the original candidates so an unresolved
// candidate is retained rather than dropped. A failed match query for one
// candidate contributes zero matches and is never fatal.
func (e *Engine) Resolve(ctx context.Context, candidates []string) []string {
	resolved := dedupeNames(candidates, 0)

	seen := make(map[string]bool, len(resolved))
	for _, c := range resolved {
		seen[strings.ToLower(c)] = true
	}

	for _, candidate := range dedupeNames(candidates, 0) {
		matches, err := e.matchNodes(ctx, candidate)
		if err != nil {
			logger.Warn("[Reason] Node match failed", "candidate", candidate, "err", err)
			continue
		}
		for _, m := range matches {
			key := strings.ToLower(strings.TrimSpace(m))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			resolved = append(resolved, m)
		}
	}

	return resolved
}

func (e *Engine) matchNodes(ctx context.Context, candidate string) ([]string, error) {
	rCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()

	matches, err := e.store.MatchNodes(rCtx, candidate, e.cfg.ResolveMatchLimit)
	if err != nil {
		return nil, err
	}

	if e.cfg.EnableVectorResolve {
		if vs, ok := e.store.(store.VectorSearcher); ok {
			similar, verr := e.similarNodes(rCtx, vs, candidate)
			if verr != nil {
				logger.Warn("[Reason] Vector resolve failed", "candidate", candidate, "err", verr)
			} else {
				matches = append(matches, similar...)
			}
		}
	}

	return matches, nil
}

func (e *Engine) similarNodes(ctx context.Context, vs store.VectorSearcher, candidate string) ([]string, error) {
	embedding, err := e.aiClient.GenerateEmbedding(ctx, []byte(candidate))
	if err != nil {
		return nil, err
	}
	return vs.SimilarNodes(ctx, embedding, e.cfg.ResolveMatchLimit)
}

// dedupeNames removes duplicate names case-insensitively, preserving
// first-seen order. A limit of 0 means unlimited.
func dedupeNames(names []string, limit int) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
