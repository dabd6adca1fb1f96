package main

import (
	"flag"
	"os"

	"github.com/dd0wney/cluso-archcheck/pkg/api"
	"github.com/dd0wney/cluso-archcheck/pkg/logging"
	"github.com/dd0wney/cluso-archcheck/pkg/metrics"
	"github.com/dd0wney/cluso-archcheck/pkg/server"
)

const version = "1.0.0"

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(*logLevel)).With(
		logging.Component("archcheck-server"),
	)

	metricsRegistry := metrics.NewRegistry()
	apiServer := api.NewServer(logger, metricsRegistry, version)

	gs := server.NewGracefulServer(*addr, apiServer.Handler(), logger)
	if err := gs.Start(); err != nil {
		logger.Error("Server failed", logging.Error(err))
		os.Exit(1)
	}
}
