package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	cfgpkg "github.com/KaramelBytes/efindex-cli/internal/config"
	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/KaramelBytes/efindex-cli/internal/logging"
	"github.com/KaramelBytes/efindex-cli/internal/query"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	dataPath string
	regions  []string
	jsonOut  bool

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "efindex",
	Short: "efindex: explore the Index of Economic Freedom dataset",
	Long: `efindex loads the Index of Economic Freedom dataset, cleans it once, and answers
statistics, ranking, comparison and per-country questions from the terminal or
over a read-only JSON API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ~/.efindex/config.yaml)")
	f.BoolVar(&debug, "debug", false, "enable debug logging")
	f.StringVar(&dataPath, "data", "", "dataset path, .csv/.tsv/.xlsx (overrides config)")
	f.StringSliceVar(&regions, "region", nil, "restrict to region (repeatable)")
	f.BoolVar(&jsonOut, "json", false, "print JSON instead of tables")
}

func loadConfig() {
	cfg = nil
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	if rootCmd.PersistentFlags().Changed("data") && dataPath != "" {
		cfg.DataPath = dataPath
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}
	if debug {
		level = slog.LevelDebug
	}
	logger = logging.New(os.Stderr, cfg.LogFormat, level)
}

// requireConfig returns the loaded config or the error that prevented loading.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	return cfgpkg.Load(cfgFile)
}

// loadTable loads and cleans the configured dataset. Any failure aborts the
// command; no partially cleaned table is ever returned.
func loadTable() (*dataset.Table, *dataset.CleanReport, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, nil, err
	}
	start := time.Now()
	opt := dataset.DefaultOptions()
	opt.Delimiter = c.DelimiterRune()
	opt.Sheet = c.Sheet
	opt.Logger = logger
	raw, err := dataset.Open(c.DataPath, opt)
	if err != nil {
		return nil, nil, err
	}
	t, rep, err := dataset.Clean(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("clean %s: %w", c.DataPath, err)
	}
	logging.LogOperation(logger, "dataset loaded",
		slog.String("path", c.DataPath),
		slog.Int("raw_rows", rep.RawRows),
		slog.Int("rows", t.Len()),
		slog.Int("duplicates_dropped", rep.DuplicatesDropped),
		slog.Duration("duration", time.Since(start)))
	return t, rep, nil
}

// selection applies the --region filter to t.
func selection(t *dataset.Table) *dataset.Table {
	if len(regions) == 0 {
		return t
	}
	return query.FilterByRegions(t, regions)
}
