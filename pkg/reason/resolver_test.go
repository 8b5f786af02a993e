package reason

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/trailhead-ai/trailhead/backend/pkg/store/memory"
)

func TestExtractModelPath(t *testing.T) {
	engine := NewEngine(NewEngineParams{
		AiClient: &stubAIClient{completionFn: extractStub("transformer", "attention")},
		Store:    memory.NewGraphMemoryStore(),
		Config:   DefaultConfig(),
	})

	got := engine.Extract(context.Background(), "How does the transformer use attention?")
	if got.Source != ExtractionSourceModel {
		t.Fatalf("Extract() source = %q, want %q", got.Source, ExtractionSourceModel)
	}
	if !reflect.DeepEqual(got.Entities, []string{"transformer", "attention"}) {
		t.Fatalf("Extract() entities = %v", got.Entities)
	}
}

func TestExtractFallbackOnModelError(t *testing.T) {
	engine := NewEngine(NewEngineParams{
		AiClient: &stubAIClient{completionFn: func(name string, out any) error {
			return errors.New("model unavailable")
		}},
		Store:  memory.NewGraphMemoryStore(),
		Config: DefaultConfig(),
	})

	question := "What is the relationship between transformer and attention in machine translation?"
	got := engine.Extract(context.Background(), question)

	if got.Source != ExtractionSourceFallback {
		t.Fatalf("Extract() source = %q, want %q", got.Source, ExtractionSourceFallback)
	}
	want := []string{"transformer", "attention", "machine translation"}
	if !reflect.DeepEqual(got.Entities, want) {
		t.Fatalf("Extract() entities = %v, want %v", got.Entities, want)
	}
}

func TestExtractFallbackOnEmptyModelResult(t *testing.T) {
	engine := NewEngine(NewEngineParams{
		AiClient: &stubAIClient{completionFn: extractStub()},
		Store:    memory.NewGraphMemoryStore(),
		Config:   DefaultConfig(),
	})

	got := engine.Extract(context.Background(), "Tell me about the encoder.")
	if got.Source != ExtractionSourceFallback {
		t.Fatalf("Extract() source = %q, want %q", got.Source, ExtractionSourceFallback)
	}
	if !reflect.DeepEqual(got.Entities, []string{"encoder"}) {
		t.Fatalf("Extract() entities = %v, want [encoder]", got.Entities)
	}
}

func TestExtractCapsEntities(t *testing.T) {
	many := []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10"}
	engine := NewEngine(NewEngineParams{
		AiClient: &stubAIClient{completionFn: extractStub(many...)},
		Store:    memory.NewGraphMemoryStore(),
		Config:   DefaultConfig(),
	})

	got := engine.Extract(context.Background(), "irrelevant")
	if len(got.Entities) != 8 {
		t.Fatalf("Extract() got %d entities, want 8", len(got.Entities))
	}
}

func TestFallbackExtractDeterministic(t *testing.T) {
	question := "How does attention improve machine translation performance in the transformer architecture?"

	first := fallbackExtract(question, 8)
	second := fallbackExtract(question, 8)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("fallbackExtract() not deterministic: %v vs %v", first, second)
	}
	if len(first) == 0 {
		t.Fatalf("fallbackExtract() found nothing in %q", question)
	}
}

func TestFallbackExtractNoMatches(t *testing.T) {
	if got := fallbackExtract("why?", 8); len(got) != 0 {
		t.Fatalf("fallbackExtract() got = %v, want empty", got)
	}
}

func TestResolveUnionsCandidatesAndMatches(t *testing.T) {
	s := memory.NewGraphMemoryStore()
	s.AddNode("transformer")
	s.AddNode("attention mechanism")

	engine := NewEngine(NewEngineParams{
		AiClient: &stubAIClient{},
		Store:    s,
		Config:   DefaultConfig(),
	})

	got := engine.Resolve(context.Background(), []string{"transformer", "attention", "quantum"})
	want := []string{"transformer", "attention", "quantum", "attention mechanism"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Resolve() got = %v, want %v", got, want)
	}
}

func TestResolveDeduplicatesCaseInsensitively(t *testing.T) {
	s := memory.NewGraphMemoryStore()
	s.AddNode("Transformer")

	engine := NewEngine(NewEngineParams{
		AiClient: &stubAIClient{},
		Store:    s,
		Config:   DefaultConfig(),
	})

	got := engine.Resolve(context.Background(), []string{"transformer", "Transformer"})
	if len(got) != 1 || got[0] != "transformer" {
		t.Fatalf("Resolve() got = %v, want [transformer]", got)
	}
}

func TestResolveToleratesStoreErrors(t *testing.T) {
	engine := NewEngine(NewEngineParams{
		AiClient: &stubAIClient{},
		Store: &failingStore{
			GraphStore: memory.NewGraphMemoryStore(),
			matchErr:   errors.New("store down"),
		},
		Config: DefaultConfig(),
	})

	got := engine.Resolve(context.Background(), []string{"transformer", "attention"})
	want := []string{"transformer", "attention"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Resolve() got = %v, want %v", got, want)
	}
}

func TestDedupeNames(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		limit int
		want  []string
	}{
		{
			name:  "preserves order",
			names: []string{"b", "a", "c"},
			limit: 0,
			want:  []string{"b", "a", "c"},
		},
		{
			name:  "case-insensitive dedup keeps first form",
			names: []string{"Transformer", "transformer", "TRANSFORMER"},
			limit: 0,
			want:  []string{"Transformer"},
		},
		{
			name:  "drops blanks",
			names: []string{"", "  ", "a"},
			limit: 0,
			want:  []string{"a"},
		},
		{
			name:  "limit applied",
			names: []string{"a", "b", "c"},
			limit: 2,
			want:  []string{"a", "b"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := dedupeNames(tc.names, tc.limit); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("dedupeNames() got = %v, want %v", got, tc.want)
			}
		})
	}
}
