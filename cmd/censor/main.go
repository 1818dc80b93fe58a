package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ivlev/censor/internal/config"
	"github.com/ivlev/censor/internal/engine"
	"github.com/ivlev/censor/internal/logging"
	"github.com/ivlev/censor/internal/predict"
	"github.com/ivlev/censor/internal/report"
	"github.com/ivlev/censor/internal/source"
)

// set with -ldflags "-X main.Version=..."
var Version = "dev"

// replaced in tests to avoid application default credentials
var newDetector = predict.NewDetector

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("censor", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: censor [flags] <image file or directory>\n\n"+
			"Blurs and pixelates the regions an AutoML object-detection model finds.\n"+
			"PROJECT_ID and MODEL_ID select the model.\n\n")
		flags.PrintDefaults()
	}

	flags.StringP("output", "o", "", "Output file path (single file only; default <name>_censored<ext>)")
	configPtr := flags.StringP("config", "c", "", "YAML config file")
	flags.String("report", "", "Write a YAML run report to this path")
	flags.Bool("stats", false, "Print a performance report")
	flags.Bool("continue-on-error", false, "Keep processing a directory after a failed file")
	flags.Int("dpi", config.DefaultDPI, "Render resolution for PDF pages")
	verbosePtr := flags.BoolP("verbose", "v", false, "Debug logging on stderr")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return 1
	}
	input := flags.Arg(0)

	cfg, err := config.Load(*configPtr, flags)
	if err != nil {
		fmt.Fprintf(stdout, "failed to load config: %v\n", err)
		return 1
	}
	cfg.BuildVersion = Version

	level := cfg.LogLevel
	if *verbosePtr {
		level = "debug"
	}
	logger, err := logging.NewLogger(level)
	if err != nil {
		fmt.Fprintf(stdout, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	var rep *report.Report
	if cfg.Report != "" {
		rep = report.New(input, cfg.Detector, predict.ModelName(cfg.ProjectID, cfg.ModelID), time.Now())
		rep.Build = Version
	}
	saveReport := func() {
		if rep == nil {
			return
		}
		if err := rep.Save(cfg.Report); err != nil {
			logger.Warn("failed to write report", zap.String("path", cfg.Report), zap.Error(err))
		}
	}

	jobs, err := source.Resolve(input, cfg.Output)
	if err != nil {
		kind := engine.KindRead
		if errors.Is(err, source.ErrInputNotFound) {
			kind = engine.KindInputNotFound
			fmt.Fprintln(stdout, err)
		} else {
			fmt.Fprintf(stdout, "%s: %v\n", kind.Prefix(), err)
		}
		if rep != nil {
			rep.AddFailure(input, kind, err)
		}
		saveReport()
		return 1
	}
	logger.Debug("resolved input", zap.String("input", input), zap.Int("jobs", len(jobs)))

	detector, err := newDetector(cfg, logger)
	if err != nil {
		fmt.Fprintf(stdout, "%s: %v\n", engine.KindPrediction.Prefix(), err)
		if rep != nil {
			rep.AddFailure(input, engine.KindPrediction, err)
		}
		saveReport()
		return 1
	}

	pipeline := engine.NewPipeline(cfg, detector, logger, stdout)
	results, err := pipeline.Run(context.Background(), jobs)
	if rep != nil {
		rep.AddResults(results)
	}
	saveReport()
	if err != nil {
		logger.Debug("run failed", zap.Error(err))
		return 1
	}
	return 0
}
