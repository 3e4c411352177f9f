package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"cleansweep/internal/cleanup"
	"cleansweep/internal/config"
	"cleansweep/internal/database"
	"cleansweep/internal/exitcodes"
	"cleansweep/internal/logging"
	"cleansweep/internal/metrics"
	"cleansweep/internal/prompt"
	"cleansweep/internal/safety"
)

const defaultConfigPath = "/etc/cleansweep/config.yaml"

type options struct {
	Config          string `short:"c" long:"config" description:"Path to configuration file"`
	BaseDir         string `short:"b" long:"base-dir" description:"Directory to work in, the default is offered when empty"`
	Verbose         string `short:"v" long:"verbose" description:"Verbosity, must be a boolean" optional:"yes" optional-value:"true"`
	Quiet           bool   `short:"q" long:"quiet" description:"Disable verbose output"`
	DirectoriesOnly bool   `short:"d" long:"directories-only" description:"Only list directories"`
	ExcludeHidden   bool   `short:"x" long:"exclude-hidden" description:"Skip every name containing a dot"`
	SwitchTo        string `long:"switch-to" description:"Validate and switch to another base directory before listing"`
	MaxTrials       int    `long:"max-trials" description:"Answers accepted per confirmation"`
	MetricsAddr     string `long:"metrics-addr" description:"Serve Prometheus metrics on this address"`
	DB              string `long:"db" description:"Path to the SQLite event history"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts options
	parser := flags.NewParser(&opts, flags.Default^flags.PrintErrors)
	if _, err := parser.Parse(); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && errors.Is(flagErr.Type, flags.ErrHelp) {
			fmt.Fprintln(os.Stdout, flagErr)
			return exitcodes.Success
		}
		fmt.Fprintf(os.Stderr, "ERROR: can't parse CLI flags: %v\n", err)
		return exitcodes.InvalidConfig
	}

	configPath, explicit := opts.Config, opts.Config != ""
	if !explicit {
		configPath = defaultConfigPath
	}
	cfg, err := config.Load(configPath, explicit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load config: %v\n", err)
		return exitcodes.InvalidConfig
	}
	applyFlags(cfg, &opts)

	logger := logging.NewWithConfig(cfg)
	leveled := logging.Wrap(logger)

	metrics.Init()
	if cfg.Metrics.Address != "" {
		metrics.StartServer(cfg.Metrics.Address, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metrics.Shutdown(ctx, logger)
		}()
	}

	var store cleanup.Recorder
	if cfg.DatabasePath != "" {
		db, err := database.NewHistoryDB(cfg.DatabasePath)
		if err != nil {
			leveled.Error("Failed to open history database", "path", cfg.DatabasePath, "error", err)
			return exitcodes.RuntimeError
		}
		defer func() {
			if err := db.Close(); err != nil {
				leveled.Error("Failed to close history database", "error", err)
			}
		}()
		store = db
	}

	cleanerOpts := cleanup.Options{
		BaseDir:   cfg.BaseDir,
		Verbose:   cfg.Verbose,
		MaxTrials: cfg.MaxTrials,
		Pause:     cfg.Pause(),
		Logger:    logger,
		Store:     store,
	}
	if cfg.BaseDir == "" {
		if cleanerOpts.DefaultBaseDir, err = cfg.ResolveDefaultBaseDir(); err != nil {
			leveled.Error("Failed to resolve default base directory", "error", err)
			return exitcodes.RuntimeError
		}
		in, err := prompt.NewReadlineReader()
		if err != nil {
			leveled.Error("Failed to open terminal input", "error", err)
			return exitcodes.RuntimeError
		}
		defer in.Close()
		cleanerOpts.Input = in
	}

	cleaner, err := cleanup.NewCleaner(cleanerOpts)
	if err != nil {
		return exitCode(leveled, err)
	}

	if opts.SwitchTo != "" {
		result, err := cleaner.SetBaseDir(opts.SwitchTo, true)
		if err != nil {
			return exitCode(leveled, err)
		}
		if !result.IsValidated {
			leveled.Warn("Kept previous base directory", "base_dir", cleaner.BaseDir(), "field", result.FieldName)
		}
	}

	paths, err := cleaner.DiscoverPaths(cfg.Discovery.DirectoryOnly, cfg.Discovery.ExcludeHidden)
	if err != nil {
		return exitCode(leveled, err)
	}
	verbose, _ := cleaner.Verbose().(bool)
	for p, err := range paths {
		if err != nil {
			return exitCode(leveled, err)
		}
		if !verbose {
			fmt.Println(p)
		}
	}

	return exitcodes.Success
}

func applyFlags(cfg *config.Config, opts *options) {
	if opts.BaseDir != "" {
		cfg.BaseDir = opts.BaseDir
	}
	if opts.Verbose != "" {
		cfg.Verbose = config.ParseVerbose(opts.Verbose)
	}
	if opts.Quiet {
		cfg.Verbose = false
	}
	if opts.DirectoriesOnly {
		cfg.Discovery.DirectoryOnly = true
	}
	if opts.ExcludeHidden {
		cfg.Discovery.ExcludeHidden = true
	}
	if opts.MaxTrials > 0 {
		cfg.MaxTrials = opts.MaxTrials
	}
	if opts.MetricsAddr != "" {
		cfg.Metrics.Address = opts.MetricsAddr
	}
	if opts.DB != "" {
		cfg.DatabasePath = opts.DB
	}
}

func exitCode(logger *logging.Logger, err error) int {
	switch {
	case errors.Is(err, cleanup.ErrDeclined):
		return exitcodes.Success
	case errors.Is(err, cleanup.ErrNotFound), errors.Is(err, cleanup.ErrTypeMismatch):
		logger.Error("Validation failed", "error", err)
		return exitcodes.ValidationFailed
	case errors.Is(err, safety.ErrInvalidPath):
		logger.Error("Invalid path", "error", err)
		return exitcodes.InvalidConfig
	case errors.Is(err, prompt.ErrInputClosed):
		logger.Warn("Operator input closed", "error", err)
		return exitcodes.RuntimeError
	}
	logger.Error("Run failed", "error", err)
	return exitcodes.RuntimeError
}
