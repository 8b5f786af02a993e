package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/trailhead-ai/trailhead/backend/internal/server/middleware"
	"github.com/trailhead-ai/trailhead/backend/internal/util"
	"github.com/trailhead-ai/trailhead/backend/pkg/common"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger/console"
	pgxstore "github.com/trailhead-ai/trailhead/backend/pkg/store/pgx"
)

// The loader reads a JSON array of edges and bulk-inserts them into the
// graph database, embedding node names along the way:
//
//	[{"subject": "transformer", "relation": "USES", "object": "attention"}]
func main() {
	util.LoadEnv()
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
	}))

	file := flag.String("file", "", "path to a JSON file with an array of edges")
	flag.Parse()
	if *file == "" {
		logger.Fatal("Missing -file argument")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		logger.Fatal("Failed to read input file", "file", *file, "err", err)
	}

	var edges []common.Edge
	if err := json.Unmarshal(raw, &edges); err != nil {
		logger.Fatal("Failed to parse input file", "file", *file, "err", err)
	}
	if len(edges) == 0 {
		logger.Warn("Input file contains no edges", "file", *file)
		return
	}

	ctx := context.Background()

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
	defer conn.Close()

	aiClient := middleware.NewAIClientFromEnv()
	graphStore := pgxstore.NewGraphDBStore(conn, aiClient)

	inserted, err := graphStore.SaveEdges(ctx, edges)
	if err != nil {
		logger.Fatal("Failed to save edges", "err", err)
	}

	logger.Info("Load complete", "file", *file, "edges", len(edges), "inserted", inserted)
}
