package main

import (
	"advisim/internal/agents"
	"advisim/internal/config"
	"advisim/internal/engine"
	"advisim/internal/knowledge"
	"advisim/internal/logging"
	"advisim/internal/montecarlo"
	"advisim/internal/perception"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var (
	// Global flags
	verbose    bool
	apiKey     string
	workspace  string
	configPath string
	timeout    time.Duration

	// Logger
	logger *zap.Logger

	// Loaded configuration, resolved in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "advisim",
	Short: "advisim - Case Analysis & Monte Carlo Stress-Test Engine",
	Long: `advisim analyzes business-advisory cases for foreigners operating in Bali.

A case described in natural language is parsed into entities, objectives and
constraints, routed to domain analysis providers (visa, licensing, tax, legal,
content), and integrated into a single classified solution. The Monte Carlo
driver stress-tests that pipeline across thousands of synthesized scenarios.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if apiKey != "" {
			cfg.LLM.APIKey = apiKey
		}

		cwd := workspace
		if cwd == "" {
			cwd, _ = os.Getwd()
		}
		logCfg := logging.Config{
			DebugMode:  cfg.Logging.DebugMode || verbose,
			Categories: cfg.Logging.Categories,
			Level:      cfg.Logging.Level,
			JSONFormat: cfg.Logging.JSONFormat,
		}
		if verbose && logCfg.Level == "" {
			logCfg.Level = "debug"
		}
		if err := logging.Initialize(cwd, logCfg); err != nil {
			return fmt.Errorf("failed to initialize category logs: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// analyzeCmd analyzes a single case
var analyzeCmd = &cobra.Command{
	Use:   "analyze [case description]",
	Short: "Analyze one advisory case through the full pipeline",
	Long: `Parses the case text, selects the relevant domain providers, runs their
analyses against the knowledge tables, and prints the integrated solution with
its classification, conflicts and content opportunities as JSON.

Example:
  advisim analyze "German investor wants a villa rental business and a KITAS, budget 10B IDR"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

// simulateCmd runs a Monte Carlo batch
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a Monte Carlo stress-test batch",
	Long: `Runs thousands of synthesized advisory cases through the analysis pipeline
and aggregates success rates, risk distribution, critical factors and a
confidence interval.

The batch is configured either from a named preset or from a YAML scenario
file. A fixed --seed makes the batch reproducible regardless of --workers.

Examples:
  advisim simulate --preset visa-stress --iterations 5000
  advisim simulate --scenarios batch.yaml --seed 42 --workers 8`,
	RunE: runSimulate,
}

// presetsCmd lists the built-in simulation presets
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in simulation presets",
	RunE:  showPresets,
}

// historyCmd shows recent simulation results
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent case analyses from the history store",
	RunE:  showHistory,
}

// versionCmd prints the version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the advisim version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("advisim %s\n", cfg.Version)
	},
}

var (
	// Analyze flags
	analyzeMode string

	// Simulate flags
	simPreset     string
	simScenarios  string
	simIterations int
	simSeed       int64
	simWorkers    int
	simMode       string

	// History flags
	historyLimit int
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY env)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "advisim.yaml", "Configuration file path")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "", "Selection mode (empty: keyword routing, quartet: all domains)")

	simulateCmd.Flags().StringVar(&simPreset, "preset", "", "Built-in preset name (see 'advisim presets')")
	simulateCmd.Flags().StringVar(&simScenarios, "scenarios", "", "YAML scenario configuration file")
	simulateCmd.Flags().IntVar(&simIterations, "iterations", 0, "Override trial count")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed (0: time-based)")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 0, "Worker pool size (0: CPU count)")
	simulateCmd.Flags().StringVar(&simMode, "mode", "", "Analysis selection mode for synthesized cases")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of recent results to show")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildEngine wires the analysis pipeline from configuration. The returned
// cleanup closes the history store and stops the knowledge watcher.
func buildEngine(ctx context.Context) (*engine.Engine, func(), error) {
	kb, err := knowledge.NewBase(cfg.Knowledge.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load knowledge tables: %w", err)
	}

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if cfg.Knowledge.WatchReload && cfg.Knowledge.Dir != "" {
		watcher, err := knowledge.NewWatcher(kb)
		if err != nil {
			logger.Warn("Knowledge watcher unavailable", zap.Error(err))
		} else if err := watcher.Start(ctx); err != nil {
			logger.Warn("Knowledge watcher failed to start", zap.Error(err))
		} else {
			cleanups = append(cleanups, watcher.Stop)
		}
	}

	var primary perception.CaseParser
	if cfg.LLM.Provider == "gemini" && cfg.LLM.APIKey != "" {
		genaiParser, err := perception.NewGenAIParser(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			logger.Warn("LLM parser unavailable, falling back to heuristics", zap.Error(err))
		} else {
			primary = genaiParser
		}
	}
	parser := perception.NewFallbackParser(primary)

	var history engine.History
	if cfg.History.DatabasePath != "" {
		store, err := engine.NewSQLiteHistory(cfg.History.DatabasePath, cfg.History.RetentionDays)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to open history store: %w", err)
		}
		cleanups = append(cleanups, func() { _ = store.Close() })
		history = store
	} else {
		history = engine.NewRingHistory(cfg.History.Capacity)
	}

	return engine.New(parser, agents.DefaultRegistry(), kb, history), cleanup, nil
}

// runAnalyze analyzes a single case and prints the result
func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(timeout)
	defer cancel()

	caseText := strings.Join(args, " ")
	logger.Info("Analyzing case", zap.String("mode", analyzeMode))

	eng, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := eng.SimulateCase(ctx, caseText, analyzeMode)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return printJSON(result)
}

// runSimulate executes a Monte Carlo batch
func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(timeout)
	defer cancel()

	mcCfg, err := resolveBatchConfig()
	if err != nil {
		return err
	}

	eng, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	trialTimeout, err := time.ParseDuration(cfg.MonteCarlo.TrialTimeout)
	if err != nil {
		trialTimeout = 0
	}

	logger.Info("Starting Monte Carlo batch",
		zap.Int("iterations", mcCfg.Iterations),
		zap.Int("scenarios", len(mcCfg.Scenarios)),
		zap.Int64("seed", mcCfg.Seed))

	driver := montecarlo.NewDriver(eng, trialTimeout)
	result, err := driver.Run(ctx, mcCfg)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	logger.Info("Batch complete",
		zap.Int("trials", result.ScenariosTested),
		zap.Float64("success_rate", result.SuccessRate))
	return printJSON(result)
}

// resolveBatchConfig builds the Monte Carlo config from preset, file and
// flag overrides. Flags win over the source; config-file defaults fill
// the rest.
func resolveBatchConfig() (montecarlo.Config, error) {
	var mcCfg montecarlo.Config
	switch {
	case simPreset != "" && simScenarios != "":
		return mcCfg, fmt.Errorf("--preset and --scenarios are mutually exclusive")
	case simPreset != "":
		var err error
		mcCfg, err = montecarlo.Preset(simPreset)
		if err != nil {
			return mcCfg, err
		}
	case simScenarios != "":
		data, err := os.ReadFile(simScenarios)
		if err != nil {
			return mcCfg, fmt.Errorf("failed to read scenario file: %w", err)
		}
		if err := yaml.Unmarshal(data, &mcCfg); err != nil {
			return mcCfg, fmt.Errorf("failed to parse scenario file: %w", err)
		}
	default:
		return mcCfg, fmt.Errorf("either --preset or --scenarios is required")
	}

	if simIterations > 0 {
		mcCfg.Iterations = simIterations
	}
	if simSeed != 0 {
		mcCfg.Seed = simSeed
	} else if cfg.MonteCarlo.Seed != 0 {
		mcCfg.Seed = cfg.MonteCarlo.Seed
	}
	if simWorkers > 0 {
		mcCfg.Workers = simWorkers
	} else if cfg.MonteCarlo.Workers > 0 {
		mcCfg.Workers = cfg.MonteCarlo.Workers
	}
	if simMode != "" {
		mcCfg.Mode = simMode
	}
	if mcCfg.ConfidenceLevel == 0 {
		mcCfg.ConfidenceLevel = 0.95
	}
	return mcCfg, nil
}

// showPresets lists the built-in presets with their scenario mix
func showPresets(cmd *cobra.Command, args []string) error {
	for _, name := range montecarlo.PresetNames() {
		preset, err := montecarlo.Preset(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d iterations)\n", name, preset.Iterations)
		for _, s := range preset.Scenarios {
			fmt.Printf("  %-28s weight %.2f  %s\n", s.Name, s.Weight, s.Impact)
		}
	}
	return nil
}

// showHistory prints recent results from the history store
func showHistory(cmd *cobra.Command, args []string) error {
	if cfg.History.DatabasePath == "" {
		fmt.Println("No persistent history configured. Set history.database_path or ADVISIM_DB.")
		return nil
	}

	store, err := engine.NewSQLiteHistory(cfg.History.DatabasePath, cfg.History.RetentionDays)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer func() { _ = store.Close() }()

	results, err := store.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("History is empty.")
		return nil
	}

	for _, r := range results {
		fmt.Printf("%s  %-12s  agents=%s  p=%.2f  %s\n",
			r.Timestamp.Format(time.RFC3339),
			r.Classification,
			strings.Join(r.Agents, ","),
			r.IntegratedSolution.SuccessProbability,
			r.CaseID)
	}
	return nil
}

// signalContext derives a context cancelled by SIGINT/SIGTERM or timeout.
func signalContext(d time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), d)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
