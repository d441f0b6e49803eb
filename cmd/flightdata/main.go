// Command-line entry point for the airline dataset analytics engine.
//
// Two subcommands share one loaded dataset model:
//
//	batch   - load a dataset directory and run a query command file,
//	          writing one output file per command
//	export  - load a dataset directory and write a SQLite snapshot of
//	          the accepted rows for ad-hoc SQL
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"flightdata/internal/batch"
	"flightdata/internal/config"
	"flightdata/internal/ingest"
	_ "flightdata/internal/queries" // register all query modules via init()
	"flightdata/internal/queryreg"
	"flightdata/internal/report"
	"flightdata/internal/storage"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "flightdata - airline dataset analytics:")
	fmt.Fprintln(w, "  batch   - run a query command file against a dataset directory")
	fmt.Fprintln(w, "  export  - write a SQLite snapshot of a loaded dataset")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  flightdata batch -dataset <dir> -commands <file> [-results <dir>] [-timing]")
	fmt.Fprintln(w, "  flightdata export -dataset <dir> [-out <file>]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Configuration comes from config.yaml and FLIGHTDATA_* environment")
	fmt.Fprintln(w, "variables; flags override both.")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	switch strings.ToLower(os.Args[1]) {
	case "batch":
		runBatch(os.Args[2:])
	case "export":
		runExport(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
}

func initLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// loadConfig merges config file, environment and flags.
func loadConfig(configPath, datasetDir, resultsDir, refDate string, timing bool) (*config.Config, error) {
	if configPath != "" {
		os.Setenv("FLIGHTDATA_CONFIG_PATH", configPath)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if datasetDir != "" {
		cfg.DatasetDir = datasetDir
	}
	if resultsDir != "" {
		cfg.ResultsDir = resultsDir
	}
	if refDate != "" {
		cfg.ReferenceDate = refDate
	}
	if timing {
		cfg.Timing = true
	}
	return cfg, nil
}

func runBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	datasetDir := fs.String("dataset", "", "Dataset directory (overrides config)")
	commands := fs.String("commands", "", "Query command file (required)")
	resultsDir := fs.String("results", "", "Results directory (overrides config)")
	refDate := fs.String("reference-date", "", "Reference date YYYY-MM-DD (overrides config)")
	timing := fs.Bool("timing", false, "Log per-file load timing")
	configPath := fs.String("config", "", "Path to config file (YAML)")
	_ = fs.Parse(args)

	if *commands == "" {
		fmt.Fprintln(os.Stderr, "batch: -commands is required")
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath, *datasetDir, *resultsDir, *refDate, *timing)
	if err != nil {
		basic := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basic.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	logger := initLogger(cfg)

	ds, hadErrors, err := ingest.Load(cfg.DatasetDir, ingest.Options{
		ResultsDir:    cfg.ResultsDir,
		ReferenceDate: cfg.ReferenceDate,
		Timing:        cfg.Timing,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("dataset load failed", "error", err)
		os.Exit(1)
	}

	engine, err := queryreg.NewEngine(ds)
	if err != nil {
		logger.Error("query engine init failed", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	driver := &batch.Driver{
		Engine:     engine,
		ResultsDir: cfg.ResultsDir,
		Stats:      report.QueryStats(logger),
		Logger:     logger,
	}
	if err := driver.Run(*commands); err != nil {
		logger.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	report.LoadSummary(logger, hadErrors, cfg.ResultsDir)
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	datasetDir := fs.String("dataset", "", "Dataset directory (overrides config)")
	out := fs.String("out", "flightdata.db", "Snapshot file to create")
	refDate := fs.String("reference-date", "", "Reference date YYYY-MM-DD (overrides config)")
	configPath := fs.String("config", "", "Path to config file (YAML)")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*configPath, *datasetDir, "", *refDate, false)
	if err != nil {
		basic := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basic.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	logger := initLogger(cfg)

	ds, hadErrors, err := ingest.Load(cfg.DatasetDir, ingest.Options{
		ResultsDir:    cfg.ResultsDir,
		ReferenceDate: cfg.ReferenceDate,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("dataset load failed", "error", err)
		os.Exit(1)
	}

	snap, err := storage.Create(*out)
	if err != nil {
		logger.Error("snapshot create failed", "error", err)
		os.Exit(1)
	}
	defer snap.Close()

	if err := snap.WriteDataset(ds); err != nil {
		logger.Error("snapshot write failed", "error", err)
		os.Exit(1)
	}

	logger.Info("snapshot written", "path", *out,
		"airports", ds.NumAirports(), "aircraft", ds.NumAircraft(),
		"flights", ds.NumFlights(), "passengers", ds.NumPassengers(),
		"reservations", ds.NumReservations())
	report.LoadSummary(logger, hadErrors, cfg.ResultsDir)
}
