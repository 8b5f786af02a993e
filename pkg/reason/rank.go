package reason

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/trailhead-ai/trailhead/backend/pkg/common"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger"
)

// Rank scores every discovered path against the question and returns the
// surviving paths sorted by score, best first.
//
// The question is embedded once; each path is embedded via a textual
// surrogate (its rendering concatenated with its node names). Cosine
// similarity is then adjusted with a length-preference multiplier
// base + decay/(hops+1): pure semantic similarity favors long paths that
// happen to share many keywords, so shorter, more directly interpretable
// chains get a bounded boost. Paths scoring below MinPathSimilarity are
// dropped; the rest are stable-sorted descending.
//
// If the embedding capability is unavailable, Rank returns an empty list:
// the query degrades to "no supporting evidence" instead of failing.
func (e *Engine) Rank(ctx context.Context, paths []common.Path, question string) []common.ScoredPath {
	if len(paths) == 0 {
		return nil
	}

	qCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	questionEmbedding, err := e.aiClient.GenerateEmbedding(qCtx, []byte(question))
	cancel()
	if err != nil {
		logger.Error("[Reason] Question embedding failed, returning no ranked paths", "err", err)
		return nil
	}

	similarities := make([]float64, len(paths))
	var mu sync.Mutex

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.cfg.ParallelEmbeddings)

	for idx, path := range paths {
		i, p := idx, path
		eg.Go(func() error {
			surrogate := p.Render() + " " + strings.Join(p.Nodes, " ")

			rCtx, cancel := context.WithTimeout(gCtx, e.cfg.CallTimeout)
			defer cancel()

			pathEmbedding, err := e.aiClient.GenerateEmbedding(rCtx, []byte(surrogate))
			if err != nil {
				return err
			}

			sim := CosineSimilarity(questionEmbedding, pathEmbedding)
			mu.Lock()
			similarities[i] = sim
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		logger.Error("[Reason] Path embedding failed, returning no ranked paths", "err", err)
		return nil
	}

	var scored []common.ScoredPath
	for i, p := range paths {
		multiplier := e.cfg.LengthBiasBase + e.cfg.LengthBiasDecay/float64(p.Length()+1)
		finalScore := similarities[i] * multiplier
		if finalScore < e.cfg.MinPathSimilarity {
			continue
		}
		scored = append(scored, common.ScoredPath{Path: p, Score: finalScore})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	for _, sp := range scored {
		recordKeptPath(e.tracer, sp.Path.Render(), sp.Score)
	}

	return scored
}

// CosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched lengths are compared over the shorter prefix; a zero vector
// yields 0.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
