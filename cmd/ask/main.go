package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/trailhead-ai/trailhead/backend/internal/server/middleware"
	serverutil "github.com/trailhead-ai/trailhead/backend/internal/server/util"
	"github.com/trailhead-ai/trailhead/backend/internal/util"
	"github.com/trailhead-ai/trailhead/backend/pkg/ai"
	"github.com/trailhead-ai/trailhead/backend/pkg/common"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger/console"
	"github.com/trailhead-ai/trailhead/backend/pkg/reason"
	"github.com/trailhead-ai/trailhead/backend/pkg/store"
	"github.com/trailhead-ai/trailhead/backend/pkg/store/memory"
	pgxstore "github.com/trailhead-ai/trailhead/backend/pkg/store/pgx"
)

// Interactive question loop against either the graph database or an
// in-memory graph loaded from a JSON edge file. Useful for poking at ranking
// behavior without deploying the server.
func main() {
	util.LoadEnv()
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
	}))

	edgeFile := flag.String("file", "", "JSON edge file for an in-memory graph; empty uses DATABASE_URL")
	answer := flag.Bool("answer", false, "synthesize an answer instead of printing raw evidence")
	traceRuns := flag.Bool("trace", false, "print the reasoning trace for every question")
	flag.Parse()

	ctx := context.Background()
	aiClient := middleware.NewAIClientFromEnv()

	graphStore, cleanup := openStore(ctx, *edgeFile, aiClient)
	defer cleanup()

	engine := reason.NewEngine(reason.NewEngineParams{
		AiClient: aiClient,
		Store:    graphStore,
		Config:   middleware.ReasonConfigFromEnv(),
	})

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("question> ")
		if !scanner.Scan() {
			return
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" || question == "exit" || question == "quit" {
			return
		}

		run := engine
		var trace *reason.QueryTrace
		if *traceRuns {
			trace = reason.NewQueryTrace()
			run = engine.WithTracer(trace)
		}

		evidence := run.AnswerEvidence(ctx, question)
		printEvidence(evidence)
		if trace != nil {
			printTrace(trace.Snapshot())
		}

		if *answer {
			prompt := serverutil.BuildAnswerPrompt(evidence)
			text, err := aiClient.GenerateChat(ctx, []ai.ChatMessage{
				{Role: "user", Message: prompt},
			})
			if err != nil {
				logger.Error("Answer generation failed", "err", err)
				continue
			}
			fmt.Println("\n" + text)
		}
	}
}

func openStore(ctx context.Context, edgeFile string, aiClient ai.GraphAIClient) (store.GraphStore, func()) {
	if edgeFile == "" {
		poolConfig, err := pgxpool.ParseConfig(util.GetEnv("DATABASE_URL"))
		if err != nil {
			logger.Fatal("Failed to parse database config", "err", err)
		}
		poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			return pgxvec.RegisterTypes(ctx, conn)
		}
		conn, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			logger.Fatal("Failed to connect to database", "err", err)
		}
		return pgxstore.NewGraphDBStore(conn, aiClient), conn.Close
	}

	raw, err := os.ReadFile(edgeFile)
	if err != nil {
		logger.Fatal("Failed to read edge file", "file", edgeFile, "err", err)
	}
	var edges []common.Edge
	if err := json.Unmarshal(raw, &edges); err != nil {
		logger.Fatal("Failed to parse edge file", "file", edgeFile, "err", err)
	}

	s := memory.NewGraphMemoryStore()
	if _, err := s.SaveEdges(ctx, edges); err != nil {
		logger.Fatal("Failed to load edges", "err", err)
	}
	logger.Info("Loaded in-memory graph", "file", edgeFile, "edges", len(edges))
	return s, func() {}
}

func printEvidence(evidence *reason.Evidence) {
	fmt.Printf("\nquery %s (%s extraction)\n", evidence.QueryID, evidence.ExtractionSource)
	fmt.Printf("entities: %s\n", strings.Join(evidence.ResolvedEntities, ", "))

	fmt.Printf("paths (%d):\n", evidence.Counts.RankedPaths)
	for _, line := range serverutil.FormatPathLines(evidence) {
		fmt.Println("  " + line)
	}

	fmt.Printf("triples (%d):\n", evidence.Counts.ContextTriples)
	for _, triple := range evidence.ContextTriples {
		fmt.Println("  " + triple.String())
	}

	for _, stage := range evidence.Stages {
		fmt.Printf("  %-10s %dms\n", stage.Name, stage.DurationMs)
	}
	fmt.Println()
}

func printTrace(snapshot reason.QueryTraceSnapshot) {
	fmt.Printf("trace: %d discovered, %d kept, %d backfilled\n",
		len(snapshot.DiscoveredPaths), len(snapshot.KeptPaths), len(snapshot.BackfillEntities))
	for _, path := range snapshot.DiscoveredPaths {
		fmt.Println("  discovered " + path)
	}
	for _, path := range snapshot.KeptPaths {
		fmt.Println("  kept       " + path)
	}
	for _, entity := range snapshot.BackfillEntities {
		fmt.Println("  backfill   " + entity)
	}
}
