package reason

import (
	"context"
	"sort"

	"github.com/trailhead-ai/trailhead/backend/pkg/common"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger"
)

// entityCoverage counts how often each entity appears across accepted
// triples. Entities are keyed case-insensitively but keep their first-seen
// surface form; first-seen order breaks count ties deterministically.
type entityCoverage struct {
	counts map[string]int
	names  map[string]string
	order  []string
}

func newEntityCoverage() *entityCoverage {
	return &entityCoverage{
		counts: make(map[string]int),
		names:  make(map[string]string),
	}
}

func (c *entityCoverage) add(entity string) {
	key := common.NodeKey(entity)
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
		c.names[key] = entity
	}
	c.counts[key]++
}

// top returns the n entities with the highest counts. Ties resolve to the
// entity seen first, so identical inputs always produce identical output.
func (c *entityCoverage) top(n int) []string {
	firstSeen := make(map[string]int, len(c.order))
	for i, key := range c.order {
		firstSeen[key] = i
	}

	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		if c.counts[keys[i]] != c.counts[keys[j]] {
			return c.counts[keys[i]] > c.counts[keys[j]]
		}
		return firstSeen[keys[i]] < firstSeen[keys[j]]
	})

	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}

	entities := make([]string, len(keys))
	for i, key := range keys {
		entities[i] = c.names[key]
	}
	return entities
}

// Assemble converts the top ranked paths into a deduplicated, budgeted
// evidence set.
//
// Phase 1 decomposes paths in score order into (subject, predicate, object)
// triples, keeping the first occurrence of each case-insensitive key and
// counting entity coverage on both endpoints. Phase 2 backfills direct
// one-hop facts for the highest-coverage entities: path triples are gated by
// the similarity filter and can miss simple but highly relevant facts about
// the entities the question is really about, so the most salient entities
// get a minimal factual grounding regardless of ranking artifacts.
//
// A backfill query error skips that entity only; Phase-1 results survive.
func (e *Engine) Assemble(ctx context.Context, rankedPaths []common.ScoredPath) []common.ContextTriple {
	maxTriples := e.cfg.MaxContextTriples
	seen := make(map[string]bool)
	coverage := newEntityCoverage()
	var triples []common.ContextTriple

	considered := rankedPaths
	if len(considered) > maxTriples {
		considered = considered[:maxTriples]
	}

	for _, sp := range considered {
		nodes := sp.Path.Nodes
		relations := sp.Path.Relations
		for i := 0; i+1 < len(nodes) && i < len(relations); i++ {
			triple := common.ContextTriple{
				Subject:   nodes[i],
				Predicate: relations[i],
				Object:    nodes[i+1],
			}
			if seen[triple.Key()] {
				continue
			}
			seen[triple.Key()] = true
			triples = append(triples, triple)
			recordEmittedTriple(e.tracer, triple.String())

			coverage.add(triple.Subject)
			coverage.add(triple.Object)
		}
	}

	for _, entity := range coverage.top(e.cfg.BackfillEntities) {
		if len(triples) >= maxTriples {
			break
		}

		recordBackfillEntity(e.tracer, entity)
		direct, err := e.directEdges(ctx, entity)
		if err != nil {
			logger.Warn("[Reason] Backfill failed, skipping entity", "entity", entity, "err", err)
			continue
		}

		for _, edge := range direct {
			if len(triples) >= maxTriples {
				break
			}
			triple := common.ContextTriple{
				Subject:   edge.Subject,
				Predicate: edge.Relation,
				Object:    edge.Object,
			}
			if seen[triple.Key()] {
				continue
			}
			seen[triple.Key()] = true
			triples = append(triples, triple)
			recordEmittedTriple(e.tracer, triple.String())
		}
	}

	if len(triples) > maxTriples {
		triples = triples[:maxTriples]
	}
	return triples
}

// directEdges fetches the one-hop neighborhood of an entity in both
// directions, each capped separately.
func (e *Engine) directEdges(ctx context.Context, entity string) ([]common.Edge, error) {
	rCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()

	outgoing, err := e.store.OutgoingEdges(rCtx, entity, e.cfg.BackfillEdgeLimit)
	if err != nil {
		return nil, err
	}
	incoming, err := e.store.IncomingEdges(rCtx, entity, e.cfg.BackfillEdgeLimit)
	if err != nil {
		return nil, err
	}
	return append(outgoing, incoming...), nil
}
