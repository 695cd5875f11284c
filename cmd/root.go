package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/engitrack/engitrack/internal/app"
	"github.com/engitrack/engitrack/internal/config"
	"github.com/engitrack/engitrack/internal/extract"
	"github.com/engitrack/engitrack/internal/keys"
	"github.com/engitrack/engitrack/internal/log"
	"github.com/engitrack/engitrack/internal/mode"
	"github.com/engitrack/engitrack/internal/storage/sqlite"
	"github.com/engitrack/engitrack/internal/tracing"
	"github.com/engitrack/engitrack/internal/tracker"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugMode bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:     "engitrack",
	Short:   "Terminal record keeping for engineering survey projects",
	Long: `EngiTrack is a terminal UI for tracking engineering geophysical survey
projects: a password-gated record table with runtime-configurable columns,
aggregate statistics, CSV export, and optional AI field extraction.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/engitrack/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false,
		"write debug logs to engitrack-debug.log (also: ENGITRACK_DEBUG=1)")
	rootCmd.PersistentFlags().String("store", "",
		"path to the SQLite store file")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable automatic reload when the store file changes")

	_ = viper.BindPFlag("store_path", rootCmd.PersistentFlags().Lookup("store"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("store_path", defaults.StorePath)
	viper.SetDefault("access_password", defaults.AccessPassword)
	viper.SetDefault("export_dir", defaults.ExportDir)
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("ui.show_stats", defaults.UI.ShowStats)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("stats.category_field", defaults.Stats.CategoryField)
	viper.SetDefault("stats.sum_field", defaults.Stats.SumField)
	viper.SetDefault("extraction.model", defaults.Extraction.Model)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .engitrack/config.yaml (current directory)
		// 2. ~/.config/engitrack/config.yaml (user config)
		if _, err := os.Stat(".engitrack/config.yaml"); err == nil {
			viper.SetConfigFile(".engitrack/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "engitrack"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create the user default
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			home, herr := os.UserHomeDir()
			if herr == nil {
				defaultPath := filepath.Join(home, ".config", "engitrack", "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configFilePath returns the loaded config path, or the user default when
// none was loaded, so stats preferences still have somewhere to persist.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".engitrack/config.yaml"
	}
	return filepath.Join(home, ".config", "engitrack", "config.yaml")
}

// initLogging enables the debug logger when requested. Returns a cleanup func.
func initLogging() func() {
	if !debugMode && os.Getenv("ENGITRACK_DEBUG") == "" {
		return func() {}
	}

	cleanup, err := log.Init("engitrack-debug.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "debug logging unavailable: %v\n", err)
		return func() {}
	}
	return cleanup
}

// initTracing builds the otel provider from config. Never fatal.
func initTracing() *tracing.Provider {
	tcfg := tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	}
	if tcfg.Enabled && tcfg.Exporter == "file" && tcfg.FilePath == "" {
		tcfg.FilePath = config.DefaultTracesFilePath()
	}

	provider, err := tracing.NewProvider(tcfg)
	if err != nil {
		log.ErrorErr(log.CatConfig, "tracing init failed", err)
		provider, _ = tracing.NewProvider(tracing.Config{Enabled: false})
	}
	return provider
}

// openTracker opens the SQLite store and loads persisted state.
func openTracker() (*tracker.Tracker, error) {
	if dir := filepath.Dir(cfg.StorePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sqlite.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", cfg.StorePath, err)
	}

	trk := tracker.New(db, cfg.AccessPassword)
	if err := trk.Load(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("loading store: %w", err)
	}
	return trk, nil
}

// buildExtractor wires the Gemini client when an API key is configured.
// The GEMINI_API_KEY environment variable takes precedence over the config
// file. Returns nil when extraction is unavailable.
func buildExtractor() extract.Extractor {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = cfg.Extraction.APIKey
	}
	if apiKey == "" {
		return nil
	}

	var opts []extract.GeminiOption
	if cfg.Extraction.Model != "" {
		opts = append(opts, extract.WithModel(cfg.Extraction.Model))
	}

	var extractor extract.Extractor = extract.NewGeminiClient(apiKey, opts...)
	if !cfg.Extraction.DisableCache {
		extractor = extract.NewCached(extractor)
	}
	return extractor
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cleanup := initLogging()
	defer cleanup()

	provider := initTracing()
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	trk, err := openTracker()
	if err != nil {
		return err
	}
	defer func() { _ = trk.Close() }()

	services := mode.Services{
		Tracker:    trk,
		Config:     &cfg,
		ConfigPath: configFilePath(),
		StorePath:  cfg.StorePath,
		Extractor:  buildExtractor(),
		Keys:       keys.DefaultKeyMap(),
	}

	zone.NewGlobal()
	model := app.New(services)
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
