// Package config provides configuration types and defaults for engitrack.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/engitrack/engitrack/internal/log"
)

// Config holds all configuration options for engitrack.
type Config struct {
	// StorePath is the SQLite store file. Default: ~/.engitrack/engitrack.db
	StorePath string `mapstructure:"store_path"`

	// AccessPassword is the shared secret checked at login.
	AccessPassword string `mapstructure:"access_password"`

	// ExportDir is where CSV exports are written. Default: current directory.
	ExportDir string `mapstructure:"export_dir"`

	// AutoRefresh reloads the table when the store file changes externally.
	AutoRefresh bool `mapstructure:"auto_refresh"`

	UI         UIConfig         `mapstructure:"ui"`
	Stats      StatsConfig      `mapstructure:"stats"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStats     bool   `mapstructure:"show_stats"`     // Show the stats panel above the table
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// StatsConfig selects which columns drive the dashboard aggregation.
// Saved back to the config file when changed from the UI.
type StatsConfig struct {
	CategoryField string `mapstructure:"category_field"` // Column key to group by (default: method)
	SumField      string `mapstructure:"sum_field"`      // Column key to total (default: outlineQty)
}

// ExtractionConfig holds AI field extraction settings.
type ExtractionConfig struct {
	// APIKey for the Gemini API. The GEMINI_API_KEY environment variable
	// takes precedence over the config file.
	APIKey string `mapstructure:"api_key"`

	// Model to use. Default: gemini-2.5-flash
	Model string `mapstructure:"model"`

	// DisableCache turns off the per-session response cache.
	DisableCache bool `mapstructure:"disable_cache"`
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active. Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/engitrack/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultStorePath returns ~/.engitrack/engitrack.db, or a relative fallback
// if the home directory is unavailable.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "engitrack.db"
	}
	return filepath.Join(home, ".engitrack", "engitrack.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "engitrack", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		StorePath:      DefaultStorePath(),
		AccessPassword: "crdcwutan",
		ExportDir:      ".",
		AutoRefresh:    true,
		UI: UIConfig{
			ShowStats:     true,
			MarkdownStyle: "dark",
		},
		Stats: StatsConfig{
			CategoryField: "method",
			SumField:      "outlineQty",
		},
		Extraction: ExtractionConfig{
			Model: "gemini-2.5-flash",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the whole configuration for errors.
func (c Config) Validate() error {
	if c.AccessPassword == "" {
		return fmt.Errorf("access_password must not be empty")
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateUI checks UI configuration for errors.
func ValidateUI(ui UIConfig) error {
	if ui.MarkdownStyle != "" && ui.MarkdownStyle != "dark" && ui.MarkdownStyle != "light" {
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// The "file" exporter falls back to DefaultTracesFilePath when no path
	// is configured, so only the otlp endpoint is mandatory.
	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# EngiTrack Configuration

# Path to the SQLite store file (default: ~/.engitrack/engitrack.db)
# store_path: /path/to/engitrack.db

# Shared access password checked at login
access_password: crdcwutan

# Directory for CSV exports (default: current directory)
export_dir: .

# Reload the table when the store file changes externally
auto_refresh: true

# UI settings
ui:
  show_stats: true        # Show the stats panel above the record table
  # markdown_style: dark  # Help overlay style: "dark" (default) or "light"

# Dashboard aggregation settings
# Changed from the UI with the stats field picker; edits here work too
stats:
  category_field: method    # Column key to group by
  sum_field: outlineQty     # Numeric column key to total

# AI field extraction (optional)
# Requires a Gemini API key; the GEMINI_API_KEY environment variable
# takes precedence over the config file.
extraction:
  model: gemini-2.5-flash
  # api_key: your-key-here
  # disable_cache: false    # Re-query the model even for identical prompts

# Tracing configuration
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/engitrack/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
