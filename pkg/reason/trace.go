package reason

import "sync"

type TraceEventKind string

const (
	TraceEventSeedEntities   TraceEventKind = "seed_entities"
	TraceEventDiscoveredPath TraceEventKind = "discovered_path"
	TraceEventKeptPath       TraceEventKind = "kept_path"
	TraceEventEmittedTriple  TraceEventKind = "emitted_triple"
	TraceEventBackfillEntity TraceEventKind = "backfill_entity"
)

// TraceEvent is an extensible event envelope for reasoning traces.
// Additive changes to this struct are backward compatible for implementers.
type TraceEvent struct {
	Kind TraceEventKind

	Entities []string
	Rendered string
	Score    float64
}

// Tracer is a sink for reasoning trace events.
//
// Implementers can forward events to logs, telemetry, or custom
// post-processing pipelines.
type Tracer interface {
	Record(event TraceEvent)
}

// MultiTracer fans out trace events to multiple tracers.
type MultiTracer []Tracer

func (m MultiTracer) Record(event TraceEvent) {
	for _, t := range m {
		if t == nil {
			continue
		}
		t.Record(event)
	}
}

func recordSeeds(t Tracer, entities []string) {
	if t == nil {
		return
	}
	t.Record(TraceEvent{Kind: TraceEventSeedEntities, Entities: entities})
}

func recordDiscoveredPath(t Tracer, rendered string) {
	if t == nil {
		return
	}
	t.Record(TraceEvent{Kind: TraceEventDiscoveredPath, Rendered: rendered})
}

func recordKeptPath(t Tracer, rendered string, score float64) {
	if t == nil {
		return
	}
	t.Record(TraceEvent{Kind: TraceEventKeptPath, Rendered: rendered, Score: score})
}

func recordEmittedTriple(t Tracer, rendered string) {
	if t == nil {
		return
	}
	t.Record(TraceEvent{Kind: TraceEventEmittedTriple, Rendered: rendered})
}

func recordBackfillEntity(t Tracer, entity string) {
	if t == nil {
		return
	}
	t.Record(TraceEvent{Kind: TraceEventBackfillEntity, Entities: []string{entity}})
}

// QueryTrace collects trace events for a single reasoning run. It records
// what was considered and what survived each stage, primarily for debugging
// ranking behavior.
//
// QueryTrace is safe for concurrent use.
type QueryTrace struct {
	mu sync.Mutex

	seedEntities     []string
	discoveredPaths  []string
	keptPaths        []string
	emittedTriples   []string
	backfillEntities []string
}

// QueryTraceSnapshot is a point-in-time copy of a QueryTrace.
type QueryTraceSnapshot struct {
	SeedEntities     []string `json:"seed_entities"`
	DiscoveredPaths  []string `json:"discovered_paths"`
	KeptPaths        []string `json:"kept_paths"`
	EmittedTriples   []string `json:"emitted_triples"`
	BackfillEntities []string `json:"backfill_entities"`
}

func NewQueryTrace() *QueryTrace {
	return &QueryTrace{}
}

func (t *QueryTrace) Record(event TraceEvent) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch event.Kind {
	case TraceEventSeedEntities:
		t.seedEntities = append(t.seedEntities, event.Entities...)
	case TraceEventDiscoveredPath:
		t.discoveredPaths = append(t.discoveredPaths, event.Rendered)
	case TraceEventKeptPath:
		t.keptPaths = append(t.keptPaths, event.Rendered)
	case TraceEventEmittedTriple:
		t.emittedTriples = append(t.emittedTriples, event.Rendered)
	case TraceEventBackfillEntity:
		t.backfillEntities = append(t.backfillEntities, event.Entities...)
	}
}

func (t *QueryTrace) Snapshot() QueryTraceSnapshot {
	if t == nil {
		return QueryTraceSnapshot{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return QueryTraceSnapshot{
		SeedEntities:     append([]string(nil), t.seedEntities...),
		DiscoveredPaths:  append([]string(nil), t.discoveredPaths...),
		KeptPaths:        append([]string(nil), t.keptPaths...),
		EmittedTriples:   append([]string(nil), t.emittedTriples...),
		BackfillEntities: append([]string(nil), t.backfillEntities...),
	}
}
