package reason

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/trailhead-ai/trailhead/backend/pkg/common"
	"github.com/trailhead-ai/trailhead/backend/pkg/store/memory"
)

func discoveryGraph() *memory.GraphMemoryStore {
	s := memory.NewGraphMemoryStore()
	s.AddEdge(common.Edge{Subject: "transformer", Relation: "USES", Object: "attention"})
	s.AddEdge(common.Edge{Subject: "attention", Relation: "PART_OF", Object: "encoder"})
	s.AddEdge(common.Edge{Subject: "encoder", Relation: "PRODUCES", Object: "representation"})
	return s
}

func TestDiscoverBoundsAndInvariants(t *testing.T) {
	engine := NewEngine(NewEngineParams{
		AiClient: &stubAIClient{},
		Store:    discoveryGraph(),
		Config:   DefaultConfig(),
	})

	paths := engine.Discover(context.Background(), []string{"transformer"})
	if len(paths) == 0 {
		t.Fatalf("Discover() returned no paths")
	}

	for _, p := range paths {
		if len(p.Nodes) != len(p.Relations)+1 {
			t.Fatalf("path %v violates node/relation alignment", p)
		}
		if p.Length() > 3 {
			t.Fatalf("path %v exceeds hop bound", p)
		}
		if common.NodeKey(p.Start()) == common.NodeKey(p.End()) {
			t.Fatalf("path %v loops back onto its start", p)
		}
	}
}

func TestDiscoverPreservesSeedOrder(t *testing.T) {
	engine := NewEngine(NewEngineParams{
		AiClient: &stubAIClient{},
		Store:    discoveryGraph(),
		Config:   DefaultConfig(),
	})
	seeds := []string{"encoder", "transformer"}

	first := engine.Discover(context.Background(), seeds)
	second := engine.Discover(context.Background(), seeds)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Discover() not deterministic:\nfirst  = %v\nsecond = %v", first, second)
	}

	if len(first) == 0 || common.NodeKey(first[0].Start()) != "encoder" {
		t.Fatalf("Discover() does not preserve seed order: %v", first)
	}
}

func TestDiscoverEmptySeeds(t *testing.T) {
	engine := NewEngine(NewEngineParams{
		AiClient: &stubAIClient{},
		Store:    discoveryGraph(),
		Config:   DefaultConfig(),
	})

	if paths := engine.Discover(context.Background(), nil); len(paths) != 0 {
		t.Fatalf("Discover() got = %v, want empty", paths)
	}
}

func TestDiscoverToleratesStoreErrors(t *testing.T) {
	engine := NewEngine(NewEngineParams{
		AiClient: &stubAIClient{},
		Store: &failingStore{
			GraphStore: discoveryGraph(),
			findErr:    errors.New("traversal failed"),
		},
		Config: DefaultConfig(),
	})

	paths := engine.Discover(context.Background(), []string{"transformer"})
	if len(paths) != 0 {
		t.Fatalf("Discover() got = %v, want empty on store failure", paths)
	}
}

func TestValidatePath(t *testing.T) {
	engine := NewEngine(NewEngineParams{
		AiClient: &stubAIClient{},
		Store:    memory.NewGraphMemoryStore(),
		Config:   DefaultConfig(),
	})

	tests := []struct {
		name string
		path common.Path
		want bool
	}{
		{
			name: "valid one hop",
			path: common.Path{Nodes: []string{"a", "b"}, Relations: []string{"R"}},
			want: true,
		},
		{
			name: "single node",
			path: common.Path{Nodes: []string{"a"}},
			want: true,
		},
		{
			name: "empty",
			path: common.Path{},
			want: false,
		},
		{
			name: "misaligned relations",
			path: common.Path{Nodes: []string{"a", "b"}, Relations: []string{"R", "S"}},
			want: false,
		},
		{
			name: "cycle back to start",
			path: common.Path{Nodes: []string{"a", "b", "A"}, Relations: []string{"R", "S"}},
			want: false,
		},
		{
			name: "too many hops",
			path: common.Path{
				Nodes:     []string{"a", "b", "c", "d", "e"},
				Relations: []string{"R", "R", "R", "R"},
			},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.validatePath(tc.path); got != tc.want {
				t.Fatalf("validatePath(%v) got = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}
