package pgx

import (
	"context"
	"fmt"
	"sync"

	"github.com/pgvector/pgvector-go"
	"golang.org/x/sync/errgroup"

	"github.com/trailhead-ai/trailhead/backend/internal/util"
	"github.com/trailhead-ai/trailhead/backend/pkg/common"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger"
)

// SaveEdges upserts the nodes referenced by the given edges, embeds their
// names when an AI client is configured, and inserts the edges themselves.
// Duplicate edges (same subject, relation and object) are skipped. Returns
// the number of edges actually inserted.
func (s *GraphDBStore) SaveEdges(ctx context.Context, edges []common.Edge) (int, error) {
	if len(edges) == 0 {
		return 0, nil
	}

	nodeNames := make(map[string]string)
	for _, e := range edges {
		nodeNames[common.NodeKey(e.Subject)] = util.SanitizePostgresText(e.Subject)
		nodeNames[common.NodeKey(e.Object)] = util.SanitizePostgresText(e.Object)
	}

	embeddings := make(map[string]pgvector.Vector)
	var embedMu sync.Mutex

	if s.aiClient != nil {
		eg, gCtx := errgroup.WithContext(ctx)
		eg.SetLimit(s.maxParallel)
		for key, name := range nodeNames {
			k, n := key, name
			eg.Go(func() error {
				vec, err := util.RetryWithContext(gCtx, 3, func(ctx context.Context) ([]float32, error) {
					return s.aiClient.GenerateEmbedding(ctx, []byte(n))
				})
				if err != nil {
					return fmt.Errorf("failed to embed node %q: %w", n, err)
				}
				embedMu.Lock()
				embeddings[k] = pgvector.NewVector(vec)
				embedMu.Unlock()
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return 0, err
		}
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	nodeIDs := make(map[string]int64, len(nodeNames))
	for key, name := range nodeNames {
		var id int64
		var embedding any
		if vec, ok := embeddings[key]; ok {
			embedding = vec
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO nodes (name, embedding)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET embedding = COALESCE(EXCLUDED.embedding, nodes.embedding)
			RETURNING id
		`, name, embedding).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert node %q: %w", name, err)
		}
		nodeIDs[key] = id
	}

	inserted := 0
	for _, e := range edges {
		tag, err := tx.Exec(ctx, `
			INSERT INTO edges (subject_id, relation, object_id, doc_id, chunk_id)
			VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
			ON CONFLICT (subject_id, relation, object_id) DO NOTHING
		`,
			nodeIDs[common.NodeKey(e.Subject)],
			util.SanitizePostgresText(e.Relation),
			nodeIDs[common.NodeKey(e.Object)],
			util.SanitizePostgresText(e.DocID),
			util.SanitizePostgresText(e.ChunkID),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert edge: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	logger.Info("[Store] Saved edges", "nodes", len(nodeIDs), "edges", inserted, "skipped", len(edges)-inserted)
	return inserted, nil
}
