package pgx

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/trailhead-ai/trailhead/backend/internal/util"
	"github.com/trailhead-ai/trailhead/backend/pkg/ai"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// GraphDBStore implements store.GraphStore, store.VectorSearcher and
// store.GraphWriter on PostgreSQL. Node embeddings are kept in a pgvector
// column and are populated at load time; path enumeration runs as a
// recursive CTE so the traversal stays inside the database.
type GraphDBStore struct {
	conn        pgxIConn
	aiClient    ai.GraphAIClient
	maxParallel int
	dbLock      sync.Mutex
}

// NewGraphDBStore creates a Postgres-backed graph store on an existing
// connection or pool. The AI client is used to embed node names during bulk
// loads; it may be nil, in which case nodes are stored without embeddings
// and vector search returns no results.
func NewGraphDBStore(conn pgxIConn, aiClient ai.GraphAIClient) *GraphDBStore {
	maxParallel := int(util.GetEnvNumeric("AI_PARALLEL_REQ", 10))
	return &GraphDBStore{
		conn:        conn,
		aiClient:    aiClient,
		maxParallel: maxParallel,
		dbLock:      sync.Mutex{},
	}
}
