package reason

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/trailhead-ai/trailhead/backend/pkg/common"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger"
)

// Discover enumerates bounded simple paths for every seed entity. Seeds are
// queried on a bounded worker pool since the per-seed traversals have no data
// dependency on each other; the combined result preserves seed order so the
// output is deterministic regardless of scheduling.
//
// A failed traversal for one seed contributes zero paths for that seed. The
// aggregate degrades rather than aborts.
func (e *Engine) Discover(ctx context.Context, seeds []string) []common.Path {
	if len(seeds) == 0 {
		return nil
	}

	perSeed := make([][]common.Path, len(seeds))
	var mu sync.Mutex

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.cfg.ParallelSeeds)

	for idx, seed := range seeds {
		i, s := idx, seed
		eg.Go(func() error {
			rCtx, cancel := context.WithTimeout(gCtx, e.cfg.CallTimeout)
			defer cancel()

			paths, err := e.store.FindPaths(rCtx, s, e.cfg.MaxHops, e.cfg.MaxPathsPerEntity)
			if err != nil {
				logger.Error("[Reason] Path discovery failed for seed", "seed", s, "err", err)
				return nil
			}

			mu.Lock()
			perSeed[i] = paths
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only observes context cancellation.
	_ = eg.Wait()

	var all []common.Path
	for _, paths := range perSeed {
		for _, p := range paths {
			if !e.validatePath(p) {
				logger.Warn("[Reason] Dropping malformed path from store", "nodes", len(p.Nodes), "relations", len(p.Relations))
				continue
			}
			all = append(all, p)
			recordDiscoveredPath(e.tracer, p.Render())
		}
	}
	return all
}

// validatePath checks the structural invariants discovery relies on: the node
// and relation sequences line up, the hop count fits the configured bound,
// and a multi-hop path never loops back onto its start.
func (e *Engine) validatePath(p common.Path) bool {
	return validPath(p) && p.Length() <= e.cfg.MaxHops
}

func validPath(p common.Path) bool {
	if len(p.Nodes) == 0 {
		return false
	}
	if len(p.Nodes) != len(p.Relations)+1 {
		return false
	}
	if p.Length() >= 1 && common.NodeKey(p.Start()) == common.NodeKey(p.End()) {
		return false
	}
	return true
}
