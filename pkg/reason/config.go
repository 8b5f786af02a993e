package reason

import "time"

// Config holds the reasoning parameters. The zero value is not usable;
// start from DefaultConfig and override individual fields.
//
// The caps exist to keep the search space bounded: raw path counts grow
// combinatorially with hop count and node degree, so MaxPathsPerEntity is
// the primary defense against runaway traversal work.
type Config struct {
	// MaxHops bounds the length of discovered paths.
	MaxHops int
	// MaxPathsPerEntity caps the number of paths enumerated per seed entity.
	MaxPathsPerEntity int
	// MaxContextTriples caps the assembled evidence set and the number of
	// ranked paths considered during assembly.
	MaxContextTriples int
	// MinPathSimilarity drops ranked paths scoring below this threshold.
	// Zero or negative falls back to the default threshold.
	MinPathSimilarity float64

	// MaxExtractedEntities caps the entity candidates taken from a question.
	MaxExtractedEntities int
	// ResolveMatchLimit caps graph matches per candidate during resolution.
	ResolveMatchLimit int

	// LengthBiasBase and LengthBiasDecay parameterize the length-preference
	// multiplier: score = similarity * (base + decay/(hops+1)). The bias
	// favors shorter, more direct chains without excluding longer ones.
	LengthBiasBase  float64
	LengthBiasDecay float64

	// BackfillEntities is the number of high-coverage entities that receive
	// direct one-hop backfill facts; BackfillEdgeLimit caps the outgoing and
	// incoming edges fetched per backfilled entity.
	BackfillEntities  int
	BackfillEdgeLimit int

	// ParallelSeeds bounds concurrent per-seed discovery queries;
	// ParallelEmbeddings bounds concurrent path embedding requests.
	ParallelSeeds      int
	ParallelEmbeddings int

	// CallTimeout applies to every individual external call; QueryDeadline
	// bounds a whole AnswerEvidence run.
	CallTimeout   time.Duration
	QueryDeadline time.Duration

	// EnableVectorResolve adds embedding-based candidate resolution when the
	// store indexes node vectors. Off by default: substring matching is the
	// baseline behavior.
	EnableVectorResolve bool
}

// DefaultConfig returns the standard reasoning parameters.
func DefaultConfig() Config {
	return Config{
		MaxHops:           3,
		MaxPathsPerEntity: 20,
		MaxContextTriples: 50,
		MinPathSimilarity: 0.3,

		MaxExtractedEntities: 8,
		ResolveMatchLimit:    10,

		LengthBiasBase:  0.7,
		LengthBiasDecay: 0.3,

		BackfillEntities:  5,
		BackfillEdgeLimit: 5,

		ParallelSeeds:      4,
		ParallelEmbeddings: 8,

		CallTimeout:   30 * time.Second,
		QueryDeadline: 2 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxHops <= 0 {
		c.MaxHops = d.MaxHops
	}
	if c.MaxPathsPerEntity <= 0 {
		c.MaxPathsPerEntity = d.MaxPathsPerEntity
	}
	if c.MaxContextTriples <= 0 {
		c.MaxContextTriples = d.MaxContextTriples
	}
	if c.MinPathSimilarity <= 0 {
		c.MinPathSimilarity = d.MinPathSimilarity
	}
	if c.MaxExtractedEntities <= 0 {
		c.MaxExtractedEntities = d.MaxExtractedEntities
	}
	if c.ResolveMatchLimit <= 0 {
		c.ResolveMatchLimit = d.ResolveMatchLimit
	}
	if c.LengthBiasBase == 0 && c.LengthBiasDecay == 0 {
		c.LengthBiasBase = d.LengthBiasBase
		c.LengthBiasDecay = d.LengthBiasDecay
	}
	if c.BackfillEntities <= 0 {
		c.BackfillEntities = d.BackfillEntities
	}
	if c.BackfillEdgeLimit <= 0 {
		c.BackfillEdgeLimit = d.BackfillEdgeLimit
	}
	if c.ParallelSeeds <= 0 {
		c.ParallelSeeds = d.ParallelSeeds
	}
	if c.ParallelEmbeddings <= 0 {
		c.ParallelEmbeddings = d.ParallelEmbeddings
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = d.CallTimeout
	}
	if c.QueryDeadline <= 0 {
		c.QueryDeadline = d.QueryDeadline
	}
	return c
}
