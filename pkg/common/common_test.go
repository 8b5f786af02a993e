package common

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPathRender(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{
			name: "empty path",
			path: Path{},
			want: "",
		},
		{
			name: "single node",
			path: Path{Nodes: []string{"transformer"}},
			want: "transformer",
		},
		{
			name: "one hop",
			path: Path{
				Nodes:     []string{"transformer", "attention"},
				Relations: []string{"USES"},
			},
			want: "transformer --[USES]--> attention",
		},
		{
			name: "two hops",
			path: Path{
				Nodes:     []string{"transformer", "attention", "encoder"},
				Relations: []string{"USES", "PART_OF"},
			},
			want: "transformer --[USES]--> attention | attention --[PART_OF]--> encoder",
		},
		{
			name: "missing relation falls back to plain arrow",
			path: Path{
				Nodes:     []string{"a", "b", "c"},
				Relations: []string{"REL"},
			},
			want: "a --[REL]--> b | b --> c",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.path.Render(); got != tc.want {
				t.Fatalf("Render() got = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPathMarshalIncludesRendering(t *testing.T) {
	p := Path{
		Nodes:     []string{"transformer", "attention"},
		Relations: []string{"USES"},
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(raw), `"rendered":"transformer --[USES]--> attention"`) {
		t.Fatalf("Marshal() missing rendered form: %s", raw)
	}

	var back Path
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back.Render() != p.Render() {
		t.Fatalf("round trip changed the path: %q vs %q", back.Render(), p.Render())
	}
}

func TestPathEndpoints(t *testing.T) {
	p := Path{
		Nodes:     []string{"transformer", "attention", "encoder"},
		Relations: []string{"USES", "PART_OF"},
	}

	if got := p.Length(); got != 2 {
		t.Fatalf("Length() got = %d, want 2", got)
	}
	if got := p.Start(); got != "transformer" {
		t.Fatalf("Start() got = %q, want %q", got, "transformer")
	}
	if got := p.End(); got != "encoder" {
		t.Fatalf("End() got = %q, want %q", got, "encoder")
	}

	empty := Path{}
	if empty.Length() != 0 || empty.Start() != "" || empty.End() != "" {
		t.Fatalf("empty path got Length=%d Start=%q End=%q, want zero values", empty.Length(), empty.Start(), empty.End())
	}
}

func TestContextTripleKey(t *testing.T) {
	a := ContextTriple{Subject: "Transformer", Predicate: "USES", Object: "Attention"}
	b := ContextTriple{Subject: "transformer", Predicate: "uses", Object: "attention"}
	c := ContextTriple{Subject: "transformer", Predicate: "uses", Object: "encoder"}

	if a.Key() != b.Key() {
		t.Fatalf("Key() should be case-insensitive: %q != %q", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Fatalf("Key() should distinguish objects: %q == %q", a.Key(), c.Key())
	}
}

func TestContextTripleString(t *testing.T) {
	triple := ContextTriple{Subject: "transformer", Predicate: "USES", Object: "attention"}
	want := "(transformer) --[USES]--> (attention)"
	if got := triple.String(); got != want {
		t.Fatalf("String() got = %q, want %q", got, want)
	}
}

func TestNodeKey(t *testing.T) {
	if NodeKey("  Transformer ") != "transformer" {
		t.Fatalf("NodeKey() got = %q, want %q", NodeKey("  Transformer "), "transformer")
	}
}
