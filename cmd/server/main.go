package main

import (
	"github.com/trailhead-ai/trailhead/backend/internal/server"
	"github.com/trailhead-ai/trailhead/backend/internal/util"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
