package middleware

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/trailhead-ai/trailhead/backend/internal/util"
	"github.com/trailhead-ai/trailhead/backend/pkg/ai"
	oai "github.com/trailhead-ai/trailhead/backend/pkg/ai/ollama"
	gai "github.com/trailhead-ai/trailhead/backend/pkg/ai/openai"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger"
	"github.com/trailhead-ai/trailhead/backend/pkg/reason"
	"github.com/trailhead-ai/trailhead/backend/pkg/store"
	pgxstore "github.com/trailhead-ai/trailhead/backend/pkg/store/pgx"
)

type App struct {
	DBConn   *pgxpool.Pool
	Store    store.GraphStore
	AiClient ai.GraphAIClient
	Engine   *reason.Engine
}

type AppContext struct {
	echo.Context
	App *App
}

// ReasonConfigFromEnv builds the reasoning configuration from environment
// variables, falling back to the built-in defaults for anything unset.
func ReasonConfigFromEnv() reason.Config {
	cfg := reason.DefaultConfig()

	cfg.MaxHops = int(util.GetEnvNumeric("REASON_MAX_HOPS", cfg.MaxHops))
	cfg.MaxPathsPerEntity = int(util.GetEnvNumeric("REASON_MAX_PATHS", cfg.MaxPathsPerEntity))
	cfg.MaxContextTriples = int(util.GetEnvNumeric("REASON_MAX_TRIPLES", cfg.MaxContextTriples))
	// Zero falls back to the default threshold in NewEngine.
	cfg.MinPathSimilarity = util.GetEnvNumeric("REASON_MIN_SIMILARITY", 0)
	cfg.ParallelSeeds = int(util.GetEnvNumeric("REASON_PARALLEL_SEEDS", cfg.ParallelSeeds))
	cfg.ParallelEmbeddings = int(util.GetEnvNumeric("REASON_PARALLEL_EMBED", cfg.ParallelEmbeddings))
	cfg.CallTimeout = time.Duration(util.GetEnvNumeric("REASON_CALL_TIMEOUT_SEC", int(cfg.CallTimeout/time.Second))) * time.Second
	cfg.QueryDeadline = time.Duration(util.GetEnvNumeric("REASON_QUERY_DEADLINE_SEC", int(cfg.QueryDeadline/time.Second))) * time.Second
	cfg.EnableVectorResolve = util.GetEnvBool("REASON_VECTOR_RESOLVE", false)

	return cfg
}

// NewAIClientFromEnv builds the configured AI adapter. AI_ADAPTER selects
// "ollama" or the OpenAI-compatible default.
func NewAIClientFromEnv() ai.GraphAIClient {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_CHAT_EXTRACT_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
			RequestTimeoutMin:     int(util.GetEnvNumeric("AI_TIMEOUT_MIN", 5)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_CHAT_EXTRACT_MODEL"),

			EmbeddingURL: util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey: util.GetEnv("AI_EMBED_KEY"),
			ChatURL:      util.GetEnv("AI_CHAT_URL"),
			ChatKey:      util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
			RequestTimeoutMin:     int(util.GetEnvNumeric("AI_TIMEOUT_MIN", 5)),
		})
	}
}

func AppContextMiddleware(db *pgxpool.Pool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			aiClient := NewAIClientFromEnv()
			graphStore := pgxstore.NewGraphDBStore(db, aiClient)

			engine := reason.NewEngine(reason.NewEngineParams{
				AiClient: aiClient,
				Store:    graphStore,
				Config:   ReasonConfigFromEnv(),
			})

			app := &App{
				DBConn:   db,
				Store:    graphStore,
				AiClient: aiClient,
				Engine:   engine,
			}
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
