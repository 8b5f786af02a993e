package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/trailhead-ai/trailhead/backend/pkg/common"
)

type adjEntry struct {
	neighbor string // node key of the other endpoint
	relation string
}

// GraphMemoryStore is an in-process implementation of store.GraphStore backed
// by adjacency maps. It is used by tests and by the interactive demo when no
// database is available. Writes and reads may be interleaved; the store is
// safe for concurrent use.
type GraphMemoryStore struct {
	mu    sync.RWMutex
	names map[string]string      // node key -> display name
	adj   map[string][]adjEntry  // node key -> neighbors in insertion order
	out   map[string][]common.Edge
	in    map[string][]common.Edge
}

// NewGraphMemoryStore creates an empty in-memory graph store.
func NewGraphMemoryStore() *GraphMemoryStore {
	return &GraphMemoryStore{
		names: make(map[string]string),
		adj:   make(map[string][]adjEntry),
		out:   make(map[string][]common.Edge),
		in:    make(map[string][]common.Edge),
	}
}

// AddNode registers a node without any edges. Adding an existing node is a no-op.
func (s *GraphMemoryStore) AddNode(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addNodeLocked(name)
}

func (s *GraphMemoryStore) addNodeLocked(name string) string {
	key := common.NodeKey(name)
	if _, ok := s.names[key]; !ok {
		s.names[key] = strings.TrimSpace(name)
	}
	return key
}

// AddEdge inserts a directed edge, registering both endpoints as nodes.
func (s *GraphMemoryStore) AddEdge(edge common.Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjKey := s.addNodeLocked(edge.Subject)
	objKey := s.addNodeLocked(edge.Object)

	s.out[subjKey] = append(s.out[subjKey], edge)
	s.in[objKey] = append(s.in[objKey], edge)

	// Traversal treats edges as undirected, so both endpoints see the edge.
	s.adj[subjKey] = append(s.adj[subjKey], adjEntry{neighbor: objKey, relation: edge.Relation})
	s.adj[objKey] = append(s.adj[objKey], adjEntry{neighbor: subjKey, relation: edge.Relation})
}

// SaveEdges implements store.GraphWriter. It returns the number of edges added.
func (s *GraphMemoryStore) SaveEdges(ctx context.Context, edges []common.Edge) (int, error) {
	for _, e := range edges {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s.AddEdge(e)
	}
	return len(edges), nil
}

// MatchNodes returns up to limit node names containing the substring,
// case-insensitively, in lexicographic order.
func (s *GraphMemoryStore) MatchNodes(ctx context.Context, substring string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(substring))
	if needle == "" {
		return nil, nil
	}

	keys := make([]string, 0, len(s.names))
	for key := range s.names {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var matches []string
	for _, key := range keys {
		if !strings.Contains(key, needle) {
			continue
		}
		matches = append(matches, s.names[key])
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// FindPaths enumerates simple paths from the named start node via depth-first
// search, up to maxHops hops and limit results. Neighbors are visited in edge
// insertion order, so repeated calls on the same store yield the same paths.
func (s *GraphMemoryStore) FindPaths(ctx context.Context, start string, maxHops int, limit int) ([]common.Path, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	startKey := common.NodeKey(start)
	displayName, ok := s.names[startKey]
	if !ok {
		return nil, nil
	}
	if maxHops < 1 || limit == 0 {
		return nil, nil
	}

	var results []common.Path
	visited := map[string]bool{startKey: true}
	nodes := []string{displayName}
	var relations []string

	var walk func(current string) bool
	walk = func(current string) bool {
		if len(nodes)-1 >= maxHops {
			return true
		}
		for _, entry := range s.adj[current] {
			if visited[entry.neighbor] {
				continue
			}

			visited[entry.neighbor] = true
			nodes = append(nodes, s.names[entry.neighbor])
			relations = append(relations, entry.relation)

			results = append(results, common.Path{
				Nodes:     append([]string(nil), nodes...),
				Relations: append([]string(nil), relations...),
			})

			ok := limit <= 0 || len(results) < limit
			if ok {
				ok = walk(entry.neighbor)
			}

			nodes = nodes[:len(nodes)-1]
			relations = relations[:len(relations)-1]
			visited[entry.neighbor] = false

			if !ok || (limit > 0 && len(results) >= limit) {
				return false
			}
		}
		return true
	}

	walk(startKey)
	return results, nil
}

// OutgoingEdges returns up to limit edges whose subject is the named node,
// in insertion order.
func (s *GraphMemoryStore) OutgoingEdges(ctx context.Context, name string, limit int) ([]common.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return capEdges(s.out[common.NodeKey(name)], limit), nil
}

// IncomingEdges returns up to limit edges whose object is the named node,
// in insertion order.
func (s *GraphMemoryStore) IncomingEdges(ctx context.Context, name string, limit int) ([]common.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return capEdges(s.in[common.NodeKey(name)], limit), nil
}

func capEdges(edges []common.Edge, limit int) []common.Edge {
	if limit > 0 && len(edges) > limit {
		edges = edges[:limit]
	}
	out := make([]common.Edge, len(edges))
	copy(out, edges)
	return out
}
