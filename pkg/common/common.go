package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Node represents an entity in the knowledge graph. Nodes are identified by
// their name; the case-insensitive form of the name is the canonical key.
// Any further properties from the underlying store are carried opaquely.
type Node struct {
	Name  string         `json:"name"`
	Props map[string]any `json:"props,omitempty"`
}

// NodeKey returns the canonical case-insensitive key for a node name.
func NodeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Edge represents a directed, typed relation between two nodes.
// DocID and ChunkID optionally record where the fact was extracted from.
type Edge struct {
	Subject  string `json:"subject"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
	DocID    string `json:"doc_id,omitempty"`
	ChunkID  string `json:"chunk_id,omitempty"`
}

// Path is an ordered walk through the graph: a node sequence and the relation
// types between consecutive nodes. A valid path always satisfies
// len(Nodes) == len(Relations) + 1. A single-node path (length 0) represents
// an entity that was found in the graph but has no traversable neighborhood.
type Path struct {
	Nodes     []string `json:"nodes"`
	Relations []string `json:"relations"`
}

// Length returns the number of hops in the path.
func (p Path) Length() int {
	if len(p.Nodes) == 0 {
		return 0
	}
	return len(p.Nodes) - 1
}

// Start returns the first node of the path, or "" for an empty path.
func (p Path) Start() string {
	if len(p.Nodes) == 0 {
		return ""
	}
	return p.Nodes[0]
}

// End returns the last node of the path, or "" for an empty path.
func (p Path) End() string {
	if len(p.Nodes) == 0 {
		return ""
	}
	return p.Nodes[len(p.Nodes)-1]
}

// Render formats the path as a human-readable chain of hop segments:
//
//	transformer --[USES]--> attention | attention --[PART_OF]--> encoder
//
// A single-node path renders as just the node name.
func (p Path) Render() string {
	if len(p.Nodes) == 0 {
		return ""
	}
	if len(p.Nodes) == 1 {
		return p.Nodes[0]
	}

	parts := make([]string, 0, len(p.Nodes)-1)
	for i := 0; i < len(p.Nodes)-1; i++ {
		if i < len(p.Relations) {
			parts = append(parts, fmt.Sprintf("%s --[%s]--> %s", p.Nodes[i], p.Relations[i], p.Nodes[i+1]))
		} else {
			parts = append(parts, fmt.Sprintf("%s --> %s", p.Nodes[i], p.Nodes[i+1]))
		}
	}

	return strings.Join(parts, " | ")
}

// MarshalJSON includes the rendered form alongside the node and relation
// sequences, so API consumers get the readable chain without reassembling it.
func (p Path) MarshalJSON() ([]byte, error) {
	type plain Path
	return json.Marshal(struct {
		plain
		Rendered string `json:"rendered"`
	}{plain(p), p.Render()})
}

// ScoredPath pairs a path with its relevance score in [0,1].
type ScoredPath struct {
	Path  Path    `json:"path"`
	Score float64 `json:"score"`
}

// ContextTriple is a single (subject, predicate, object) fact used as
// evidence for answer synthesis.
type ContextTriple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// Key returns the case-insensitive deduplication key of the triple.
func (t ContextTriple) Key() string {
	return strings.ToLower(t.Subject) + "\x1f" + strings.ToLower(t.Predicate) + "\x1f" + strings.ToLower(t.Object)
}

// String formats the triple for inclusion in evidence listings.
func (t ContextTriple) String() string {
	return fmt.Sprintf("(%s) --[%s]--> (%s)", t.Subject, t.Predicate, t.Object)
}
