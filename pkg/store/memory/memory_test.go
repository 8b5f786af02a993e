package memory

import (
	"context"
	"reflect"
	"testing"

	"github.com/trailhead-ai/trailhead/backend/pkg/common"
)

func testGraph() *GraphMemoryStore {
	s := NewGraphMemoryStore()
	s.AddEdge(common.Edge{Subject: "transformer", Relation: "USES", Object: "attention"})
	s.AddEdge(common.Edge{Subject: "attention", Relation: "PART_OF", Object: "encoder"})
	s.AddEdge(common.Edge{Subject: "encoder", Relation: "PRODUCES", Object: "representation"})
	s.AddEdge(common.Edge{Subject: "transformer", Relation: "IMPROVES", Object: "machine translation"})
	return s
}

func TestMatchNodes(t *testing.T) {
	s := testGraph()
	ctx := context.Background()

	tests := []struct {
		name      string
		substring string
		limit     int
		want      []string
	}{
		{
			name:      "exact name",
			substring: "transformer",
			limit:     10,
			want:      []string{"transformer"},
		},
		{
			name:      "substring case-insensitive",
			substring: "EnCod",
			limit:     10,
			want:      []string{"encoder"},
		},
		{
			name:      "multiple matches sorted",
			substring: "a",
			limit:     10,
			want:      []string{"attention", "machine translation", "representation", "transformer"},
		},
		{
			name:      "limit applied",
			substring: "a",
			limit:     2,
			want:      []string{"attention", "machine translation"},
		},
		{
			name:      "no match",
			substring: "quantum",
			limit:     10,
			want:      []string(nil),
		},
		{
			name:      "blank substring matches nothing",
			substring: "   ",
			limit:     10,
			want:      []string(nil),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.MatchNodes(ctx, tc.substring, tc.limit)
			if err != nil {
				t.Fatalf("MatchNodes() error = %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("MatchNodes() got = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFindPathsInvariants(t *testing.T) {
	s := testGraph()
	ctx := context.Background()

	paths, err := s.FindPaths(ctx, "transformer", 3, 20)
	if err != nil {
		t.Fatalf("FindPaths() error = %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("FindPaths() returned no paths")
	}

	for _, p := range paths {
		if len(p.Nodes) != len(p.Relations)+1 {
			t.Fatalf("path %v violates node/relation alignment", p)
		}
		if p.Length() < 1 || p.Length() > 3 {
			t.Fatalf("path %v has length %d, want 1..3", p, p.Length())
		}
		if common.NodeKey(p.Start()) == common.NodeKey(p.End()) {
			t.Fatalf("path %v revisits its start node", p)
		}
		if common.NodeKey(p.Start()) != "transformer" {
			t.Fatalf("path %v does not start at the seed", p)
		}
	}
}

func TestFindPathsLimit(t *testing.T) {
	s := testGraph()
	ctx := context.Background()

	paths, err := s.FindPaths(ctx, "transformer", 3, 2)
	if err != nil {
		t.Fatalf("FindPaths() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("FindPaths() got %d paths, want 2", len(paths))
	}
}

func TestFindPathsHopBound(t *testing.T) {
	s := testGraph()
	ctx := context.Background()

	paths, err := s.FindPaths(ctx, "transformer", 1, 20)
	if err != nil {
		t.Fatalf("FindPaths() error = %v", err)
	}
	for _, p := range paths {
		if p.Length() != 1 {
			t.Fatalf("path %v has length %d, want 1", p, p.Length())
		}
	}
}

func TestFindPathsDeterministic(t *testing.T) {
	s := testGraph()
	ctx := context.Background()

	first, err := s.FindPaths(ctx, "transformer", 3, 20)
	if err != nil {
		t.Fatalf("FindPaths() error = %v", err)
	}
	second, err := s.FindPaths(ctx, "transformer", 3, 20)
	if err != nil {
		t.Fatalf("FindPaths() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("FindPaths() is not deterministic:\nfirst  = %v\nsecond = %v", first, second)
	}
}

func TestFindPathsUnknownStart(t *testing.T) {
	s := testGraph()

	paths, err := s.FindPaths(context.Background(), "quantum", 3, 20)
	if err != nil {
		t.Fatalf("FindPaths() error = %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("FindPaths() got %d paths for unknown start, want 0", len(paths))
	}
}

func TestFindPathsUndirected(t *testing.T) {
	s := testGraph()

	// "attention" is the object of transformer's edge; traversal still
	// reaches transformer from attention.
	paths, err := s.FindPaths(context.Background(), "attention", 1, 20)
	if err != nil {
		t.Fatalf("FindPaths() error = %v", err)
	}

	found := false
	for _, p := range paths {
		if common.NodeKey(p.End()) == "transformer" {
			found = true
		}
	}
	if !found {
		t.Fatalf("FindPaths() from attention never reached transformer: %v", paths)
	}
}

func TestEdges(t *testing.T) {
	s := testGraph()
	ctx := context.Background()

	outgoing, err := s.OutgoingEdges(ctx, "transformer", 10)
	if err != nil {
		t.Fatalf("OutgoingEdges() error = %v", err)
	}
	wantOut := []common.Edge{
		{Subject: "transformer", Relation: "USES", Object: "attention"},
		{Subject: "transformer", Relation: "IMPROVES", Object: "machine translation"},
	}
	if !reflect.DeepEqual(outgoing, wantOut) {
		t.Fatalf("OutgoingEdges() got = %v, want %v", outgoing, wantOut)
	}

	incoming, err := s.IncomingEdges(ctx, "attention", 10)
	if err != nil {
		t.Fatalf("IncomingEdges() error = %v", err)
	}
	wantIn := []common.Edge{
		{Subject: "transformer", Relation: "USES", Object: "attention"},
	}
	if !reflect.DeepEqual(incoming, wantIn) {
		t.Fatalf("IncomingEdges() got = %v, want %v", incoming, wantIn)
	}

	capped, err := s.OutgoingEdges(ctx, "transformer", 1)
	if err != nil {
		t.Fatalf("OutgoingEdges() error = %v", err)
	}
	if len(capped) != 1 {
		t.Fatalf("OutgoingEdges() with limit 1 got %d edges", len(capped))
	}
}

func TestSaveEdges(t *testing.T) {
	s := NewGraphMemoryStore()

	n, err := s.SaveEdges(context.Background(), []common.Edge{
		{Subject: "a", Relation: "R", Object: "b"},
		{Subject: "b", Relation: "R", Object: "c"},
	})
	if err != nil {
		t.Fatalf("SaveEdges() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("SaveEdges() got = %d, want 2", n)
	}

	matches, err := s.MatchNodes(context.Background(), "b", 10)
	if err != nil {
		t.Fatalf("MatchNodes() error = %v", err)
	}
	if len(matches) != 1 || matches[0] != "b" {
		t.Fatalf("MatchNodes() got = %v, want [b]", matches)
	}
}
