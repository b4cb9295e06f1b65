package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	deideval "github.com/jamesainslie/go-deideval"
	"github.com/jamesainslie/go-deideval/annotation"
	"github.com/jamesainslie/go-deideval/internal/config"
	"github.com/jamesainslie/go-deideval/internal/report"
)

// Set by ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type flags struct {
	configPath  string
	verbose     bool
	jsonReport  string
	parallelism int
	ignoreTypes []string
	logLevel    string
}

func main() {
	if err := fang.Execute(context.Background(), newCommand(),
		fang.WithVersion(fmt.Sprintf("%s (%s, %s)", version, commit, date)),
	); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "deid-eval FORMAT SUBTRACK GOLD SYSTEM...",
		Short: "Score de-identification output against gold annotations",
		Long: `Score de-identification output against gold annotations.

FORMAT is i2b2 or brat. SUBTRACK is ner (type and range, plus leak score)
or spans (range only, strict and merged).

Pass one gold file and one system file to compare a single document, or a
gold directory and one or more system directories to score whole runs.`,
		Example: `  deid-eval brat ner gold/ run1/ run2/
  deid-eval i2b2 spans -v gold/doc1.xml run1/doc1.xml`,
		Args:          cobra.MinimumNArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "deid-eval.yaml", "YAML configuration file")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "list every document's scores")
	fl.StringVar(&f.jsonReport, "json", "", "also write a JSON report to `FILE`")
	fl.IntVar(&f.parallelism, "parallel", 1, "system runs scored at once")
	fl.StringArrayVar(&f.ignoreTypes, "ignore-type", nil, "entity `TYPE` to drop before scoring (repeatable)")
	fl.StringVar(&f.logLevel, "log-level", "warn", "debug, info, warn or error")

	return cmd
}

// settings merges the config file with the flags set on the command line.
func settings(cmd *cobra.Command, f flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	fl := cmd.Flags()
	if fl.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if fl.Changed("json") {
		cfg.JSONReport = f.jsonReport
	}
	if fl.Changed("parallel") {
		cfg.Parallelism = f.parallelism
	}
	if fl.Changed("ignore-type") {
		cfg.IgnoreTypes = f.ignoreTypes
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, f flags, args []string) error {
	cfg, err := settings(cmd, f)
	if err != nil {
		return err
	}
	level, _ := cfg.Level() // checked by Validate
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	format, err := annotation.ParseFormat(args[0])
	if err != nil {
		return err
	}
	subtrack, err := deideval.ParseSubtrack(args[1])
	if err != nil {
		return err
	}

	ev, err := deideval.New(format, subtrack,
		deideval.WithParallelism(cfg.Parallelism),
		deideval.WithIgnoredTypes(cfg.IgnoreTypes...),
		deideval.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	reports, err := ev.Evaluate(cmd.Context(), args[2], args[3:])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range reports {
		if r.Single {
			err = report.WriteDocuments(out, r)
		} else {
			err = report.WriteRun(out, r, cfg.Verbose)
		}
		if err != nil {
			return err
		}
	}

	if cfg.JSONReport != "" {
		if err := report.WriteJSONFile(cfg.JSONReport, reports); err != nil {
			return err
		}
		logger.Info("wrote JSON report", "path", cfg.JSONReport)
	}
	return nil
}
