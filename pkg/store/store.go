package store

import (
	"context"

	"github.com/trailhead-ai/trailhead/backend/pkg/common"
)

// GraphStore defines read access to the labeled property graph. The reasoning
// engine depends only on this interface, so the retrieval logic stays
// independent of the storage technology.
//
// All methods are bounded: implementations must honor the limit arguments,
// since raw path counts grow combinatorially with hop count and node degree.
type GraphStore interface {
	// MatchNodes returns the names of up to limit nodes whose name contains
	// the given substring, matched case-insensitively.
	MatchNodes(ctx context.Context, substring string, limit int) ([]string, error)

	// FindPaths enumerates up to limit simple paths of length 1..maxHops
	// starting at the named node, treating edges as undirected for
	// connectivity. Paths never revisit a node, so start != end holds for
	// every returned path.
	FindPaths(ctx context.Context, start string, maxHops int, limit int) ([]common.Path, error)

	// OutgoingEdges returns up to limit edges whose subject is the named node.
	OutgoingEdges(ctx context.Context, name string, limit int) ([]common.Edge, error)

	// IncomingEdges returns up to limit edges whose object is the named node.
	IncomingEdges(ctx context.Context, name string, limit int) ([]common.Edge, error)
}

// VectorSearcher is implemented by stores that additionally index node
// embeddings and can answer nearest-neighbor queries over them.
type VectorSearcher interface {
	SimilarNodes(ctx context.Context, embedding []float32, limit int) ([]string, error)
}

// GraphWriter defines write access used by the bulk fact loader.
type GraphWriter interface {
	// SaveEdges upserts the nodes referenced by the given edges and inserts
	// the edges themselves, skipping duplicates.
	SaveEdges(ctx context.Context, edges []common.Edge) (int, error)
}
