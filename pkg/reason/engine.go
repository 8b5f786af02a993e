package reason

import (
	"context"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/trailhead-ai/trailhead/backend/internal/timing"
	"github.com/trailhead-ai/trailhead/backend/pkg/ai"
	"github.com/trailhead-ai/trailhead/backend/pkg/common"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger"
	"github.com/trailhead-ai/trailhead/backend/pkg/store"
)

// Engine runs the multi-hop reasoning pipeline: entity resolution, bounded
// path discovery, semantic ranking, and budgeted context assembly. It holds
// no per-query state; one Engine serves concurrent questions as long as the
// underlying store and AI client are safe for concurrent reads.
//
// An Engine should be created using NewEngine.
type Engine struct {
	aiClient ai.GraphAIClient
	store    store.GraphStore
	cfg      Config
	tracer   Tracer
}

// NewEngineParams defines the dependencies and configuration for an Engine.
// Tracer is optional.
type NewEngineParams struct {
	AiClient ai.GraphAIClient
	Store    store.GraphStore
	Config   Config
	Tracer   Tracer
}

// NewEngine creates a reasoning engine. Zero-valued config fields fall back
// to the defaults from DefaultConfig.
func NewEngine(params NewEngineParams) *Engine {
	return &Engine{
		aiClient: params.AiClient,
		store:    params.Store,
		cfg:      params.Config.withDefaults(),
		tracer:   params.Tracer,
	}
}

// Config returns the effective configuration of the engine.
func (e *Engine) Config() Config {
	return e.cfg
}

// WithTracer returns a copy of the engine that additionally reports trace
// events to t, alongside any tracer the engine already has. The copy shares
// the engine's store, AI client and configuration, so it is cheap to build
// one per request.
func (e *Engine) WithTracer(t Tracer) *Engine {
	if t == nil {
		return e
	}
	clone := *e
	if e.tracer != nil {
		clone.tracer = MultiTracer{e.tracer, t}
	} else {
		clone.tracer = t
	}
	return &clone
}

// Counts summarizes how much evidence each stage produced. Callers detect
// "no evidence found" by checking these counts; the engine never signals
// degradation through errors.
type Counts struct {
	CandidateEntities int `json:"candidate_entities"`
	ResolvedEntities  int `json:"resolved_entities"`
	DiscoveredPaths   int `json:"discovered_paths"`
	RankedPaths       int `json:"ranked_paths"`
	ContextTriples    int `json:"context_triples"`
}

// Evidence is the full output of one reasoning run: the resolved entity set,
// the ranked reasoning paths, the assembled context triples, and counters
// for every stage. It is the input contract for downstream answer synthesis.
type Evidence struct {
	QueryID          string                 `json:"query_id"`
	Question         string                 `json:"question"`
	ExtractionSource ExtractionSource       `json:"extraction_source"`
	ResolvedEntities []string               `json:"resolved_entities"`
	RankedPaths      []common.ScoredPath    `json:"ranked_paths"`
	ContextTriples   []common.ContextTriple `json:"context_triples"`
	Counts           Counts                 `json:"counts"`
	Stages           []timing.Stage         `json:"stages"`
}

// AnswerEvidence runs the full pipeline for one question. Every external
// call is bounded by the per-call timeout and the whole run by the query
// deadline; any sub-step failure degrades that step to an empty result, so
// the returned Evidence is always fully formed.
func (e *Engine) AnswerEvidence(ctx context.Context, question string) *Evidence {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.QueryDeadline)
	defer cancel()

	queryID, err := gonanoid.New()
	if err != nil {
		queryID = "unknown"
	}

	logger.Info("[Reason] Processing question", "query_id", queryID)
	stages := timing.NewStages()

	stop := stages.Track("extract")
	extraction := e.Extract(ctx, question)
	stop()
	logger.Debug("[Reason] Extracted candidates", "query_id", queryID, "count", len(extraction.Entities), "source", extraction.Source)

	stop = stages.Track("resolve")
	resolved := e.Resolve(ctx, extraction.Entities)
	stop()
	recordSeeds(e.tracer, resolved)
	logger.Debug("[Reason] Resolved entities", "query_id", queryID, "count", len(resolved))

	stop = stages.Track("discover")
	paths := e.Discover(ctx, resolved)
	stop()
	logger.Debug("[Reason] Discovered paths", "query_id", queryID, "count", len(paths))

	stop = stages.Track("rank")
	ranked := e.Rank(ctx, paths, question)
	stop()
	logger.Debug("[Reason] Ranked paths", "query_id", queryID, "count", len(ranked))

	stop = stages.Track("assemble")
	triples := e.Assemble(ctx, ranked)
	stop()

	logger.Info("[Reason] Question processed",
		"query_id", queryID,
		"resolved", len(resolved),
		"ranked_paths", len(ranked),
		"triples", len(triples),
		"duration_ms", stages.TotalMs(),
	)

	return &Evidence{
		QueryID:          queryID,
		Question:         question,
		ExtractionSource: extraction.Source,
		ResolvedEntities: resolved,
		RankedPaths:      ranked,
		ContextTriples:   triples,
		Counts: Counts{
			CandidateEntities: len(extraction.Entities),
			ResolvedEntities:  len(resolved),
			DiscoveredPaths:   len(paths),
			RankedPaths:       len(ranked),
			ContextTriples:    len(triples),
		},
		Stages: stages.Snapshot(),
	}
}
