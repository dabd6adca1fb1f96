package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dd0wney/cluso-archcheck/pkg/analyzer"
	"github.com/dd0wney/cluso-archcheck/pkg/config"
	"github.com/dd0wney/cluso-archcheck/pkg/logging"
)

const version = "1.0.0"

// Exit codes: 0 conforms, 1 violations found, 2 malformed input
const (
	exitConforms   = 0
	exitViolations = 1
	exitInputError = 2
)

func main() {
	configPath := flag.String("config", "archcheck.yaml", "Architecture description file")
	concurrent := flag.Bool("concurrent", false, "Run analysis passes on separate workers")
	quiet := flag.Bool("quiet", false, "Suppress the JSON report, keep the exit code")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("archcheck %s\n", version)
		os.Exit(exitConforms)
	}

	logger := logging.DefaultLogger().With(logging.Component("archcheck"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load architecture description", logging.Path(*configPath), logging.Error(err))
		os.Exit(exitInputError)
	}

	registry, model, err := cfg.Build()
	if err != nil {
		logger.Error("Rejected architecture description", logging.Path(*configPath), logging.Error(err))
		os.Exit(exitInputError)
	}

	start := time.Now()
	var report *analyzer.Report
	if *concurrent {
		report = analyzer.VerifyConcurrent(registry, model)
	} else {
		report = analyzer.Verify(registry, model)
	}

	logger.Info("Check finished",
		logging.Conforms(report.Conforms),
		logging.Violations(len(report.Violations)),
		logging.Int("modules", model.ModuleCount()),
		logging.Int("edges", model.EdgeCount()),
		logging.Latency(time.Since(start)),
	)

	if !*quiet {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			logger.Error("Failed to write report", logging.Error(err))
			os.Exit(exitInputError)
		}
	}

	if !report.Conforms {
		os.Exit(exitViolations)
	}
}
