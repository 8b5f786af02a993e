package pgx

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/trailhead-ai/trailhead/backend/pkg/common"
)

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// MatchNodes returns up to limit node names containing the substring,
// matched case-insensitively via ILIKE.
func (s *GraphDBStore) MatchNodes(ctx context.Context, substring string, limit int) ([]string, error) {
	substring = strings.TrimSpace(substring)
	if substring == "" {
		return nil, nil
	}

	rows, err := s.conn.Query(ctx, `
		SELECT name
		FROM nodes
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2
	`, escapeLike(substring), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to match nodes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan node name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// FindPaths enumerates simple paths of length 1..maxHops starting at the
// named node. The recursive CTE walks edges in both directions but never
// revisits a node, so every returned path satisfies start != end. Results
// are ordered by hop count, then by the walked name sequence, so the
// enumeration is deterministic under the result cap.
func (s *GraphDBStore) FindPaths(ctx context.Context, start string, maxHops int, limit int) ([]common.Path, error) {
	if maxHops < 1 || limit == 0 {
		return nil, nil
	}

	rows, err := s.conn.Query(ctx, `
		WITH RECURSIVE walk AS (
			SELECT n.id AS end_id,
			       ARRAY[n.id] AS node_ids,
			       ARRAY[n.name] AS node_names,
			       ARRAY[]::text[] AS relations,
			       0 AS hops
			FROM nodes n
			WHERE lower(n.name) = lower($1)
		UNION ALL
			SELECT CASE WHEN e.subject_id = w.end_id THEN e.object_id ELSE e.subject_id END,
			       w.node_ids || CASE WHEN e.subject_id = w.end_id THEN e.object_id ELSE e.subject_id END,
			       w.node_names || n.name,
			       w.relations || e.relation,
			       w.hops + 1
			FROM walk w
			JOIN edges e ON e.subject_id = w.end_id OR e.object_id = w.end_id
			JOIN nodes n ON n.id = CASE WHEN e.subject_id = w.end_id THEN e.object_id ELSE e.subject_id END
			WHERE w.hops < $2
			  AND NOT (CASE WHEN e.subject_id = w.end_id THEN e.object_id ELSE e.subject_id END = ANY(w.node_ids))
		)
		SELECT node_names, relations
		FROM walk
		WHERE hops >= 1
		ORDER BY hops, node_names
		LIMIT $3
	`, start, maxHops, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate paths: %w", err)
	}
	defer rows.Close()

	var paths []common.Path
	for rows.Next() {
		var nodes, relations []string
		if err := rows.Scan(&nodes, &relations); err != nil {
			return nil, fmt.Errorf("failed to scan path row: %w", err)
		}
		paths = append(paths, common.Path{Nodes: nodes, Relations: relations})
	}
	return paths, rows.Err()
}

// OutgoingEdges returns up to limit edges whose subject is the named node.
func (s *GraphDBStore) OutgoingEdges(ctx context.Context, name string, limit int) ([]common.Edge, error) {
	return s.edges(ctx, name, limit, true)
}

// IncomingEdges returns up to limit edges whose object is the named node.
func (s *GraphDBStore) IncomingEdges(ctx context.Context, name string, limit int) ([]common.Edge, error) {
	return s.edges(ctx, name, limit, false)
}

func (s *GraphDBStore) edges(ctx context.Context, name string, limit int, outgoing bool) ([]common.Edge, error) {
	anchor := "sub"
	if !outgoing {
		anchor = "obj"
	}

	rows, err := s.conn.Query(ctx, fmt.Sprintf(`
		SELECT sub.name, e.relation, obj.name, COALESCE(e.doc_id, ''), COALESCE(e.chunk_id, '')
		FROM edges e
		JOIN nodes sub ON sub.id = e.subject_id
		JOIN nodes obj ON obj.id = e.object_id
		WHERE lower(%s.name) = lower($1)
		ORDER BY e.id
		LIMIT $2
	`, anchor), name, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var edges []common.Edge
	for rows.Next() {
		var e common.Edge
		if err := rows.Scan(&e.Subject, &e.Relation, &e.Object, &e.DocID, &e.ChunkID); err != nil {
			return nil, fmt.Errorf("failed to scan edge row: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// SimilarNodes returns up to limit node names ordered by cosine distance to
// the given embedding. Nodes loaded without embeddings are skipped.
func (s *GraphDBStore) SimilarNodes(ctx context.Context, embedding []float32, limit int) ([]string, error) {
	if len(embedding) == 0 {
		return nil, nil
	}

	rows, err := s.conn.Query(ctx, `
		SELECT name
		FROM nodes
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar nodes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan node name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
