package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Analysis AnalysisSettings `yaml:"analysis"`
	Paths    PathsConfig      `yaml:"paths"`
	Logging  LoggingConfig    `yaml:"logging"`
	Server   ServerConfig     `yaml:"server"`
}

// PathsConfig holds every file location the engine reads or writes.
type PathsConfig struct {
	BugFile      string `yaml:"bug_file"`      // Record source (.csv or .xlsx)
	KeywordFile  string `yaml:"keyword_file"`  // Keyword list, first column of the first sheet
	ReportDir    string `yaml:"report_dir"`    // Text reports are written here
	DataDir      string `yaml:"data_dir"`      // Index snapshot location
	ResultsDB    string `yaml:"results_db"`    // SQLite run history, empty disables it
	BugSaveFile  string `yaml:"bug_save_file"` // Workbook receiving the keyword bug report
	SummarySheet string `yaml:"summary_sheet"`
	DetailsSheet string `yaml:"details_sheet"`
}

// SnapshotPath returns the location of the persisted index snapshot.
func (p PathsConfig) SnapshotPath() string {
	return filepath.Join(p.DataDir, "corpus.idx.zst")
}

// ReportPath returns the location of a named text report.
func (p PathsConfig) ReportPath(name string) string {
	return filepath.Join(p.ReportDir, name)
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int  `yaml:"port"`
	MetricsEnabled bool `yaml:"metrics_enabled"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values fall back to defaults, then analysis settings are
// validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	cfg.Analysis.ApplyDefaults()

	if problems := cfg.Analysis.ValidateFieldNames(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid analysis settings: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// Default returns a Config with defaults for a local run.
func Default() *Config {
	cfg := &Config{
		Paths: PathsConfig{
			BugFile:      "resource/bugs.xlsx",
			KeywordFile:  "resource/keywords.xlsx",
			ReportDir:    "resource",
			DataDir:      "data",
			ResultsDB:    "data/results.db",
			BugSaveFile:  "resource/BugReport.xlsx",
			SummarySheet: "Summary",
			DetailsSheet: "Details",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Port:           8080,
			MetricsEnabled: true,
		},
	}
	cfg.Analysis.ApplyDefaults()
	return cfg
}

// applyEnvOverrides reads BA_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BA_BUG_FILE"); v != "" {
		cfg.Paths.BugFile = v
	}
	if v := os.Getenv("BA_KEYWORD_FILE"); v != "" {
		cfg.Paths.KeywordFile = v
	}
	if v := os.Getenv("BA_REPORT_DIR"); v != "" {
		cfg.Paths.ReportDir = v
	}
	if v := os.Getenv("BA_DATA_DIR"); v != "" {
		cfg.Paths.DataDir = v
	}
	if v, ok := os.LookupEnv("BA_RESULTS_DB"); ok {
		cfg.Paths.ResultsDB = v
	}
	if v := os.Getenv("BA_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BA_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("BA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("BA_INDEXED_FIELDS"); v != "" {
		cfg.Analysis.IndexedFields = strings.Split(v, ",")
	}
	if v := os.Getenv("BA_TOP_TERM_CUTOFF"); v != "" {
		if cutoff, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.TopTermCutoff = &cutoff
		}
	}
	if v := os.Getenv("BA_STEMMING"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Analysis.Stemming = enabled
		}
	}
}
