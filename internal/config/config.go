// Package config holds the settings shared by the MCP server and the arc CLI.
// Values start from DefaultConfig and may be overlaid from a YAML file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/richard-senior/arcmcp/internal/logger"
	"github.com/richard-senior/arcmcp/pkg/render"
)

// EnvConfigPath names the environment variable holding a config file path
const EnvConfigPath = "ARCMCP_CONFIG"

// Config contains every tunable of the server
type Config struct {
	// Default drawing frame, overridable per tool call
	Canvas render.CanvasFrame `yaml:"canvas"`

	Log  LogConfig  `yaml:"log"`
	HTTP HTTPConfig `yaml:"http"`

	// Prefix added to tool names when they are registered (default: "mcp___")
	ToolPrefix string `yaml:"tool_prefix"`
	// Directory for drawings written without an absolute destpath
	OutputDir string `yaml:"output_dir"`
}

type LogConfig struct {
	Output       string `yaml:"output"` // console, file, both or stderr
	File         string `yaml:"file"`
	Level        string `yaml:"level"`
	ShowDateTime bool   `yaml:"show_date_time"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	Compression     bool          `yaml:"compression"` // brotli/gzip responses when the client accepts them
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		Canvas: render.DefaultFrame(),
		Log: LogConfig{
			Output: "stderr",
			Level:  "INFO",
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			Compression:     true,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		ToolPrefix: "mcp___",
		OutputDir:  os.TempDir(),
	}
}

// Load reads the YAML file at path over the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by flagPath, or by ARCMCP_CONFIG when
// flagPath is empty
func LoadFromEnv(flagPath string) (*Config, error) {
	if flagPath == "" {
		flagPath = os.Getenv(EnvConfigPath)
	}
	return Load(flagPath)
}

// Validate ensures all configuration values are usable
func Validate(cfg *Config) error {
	if err := cfg.Canvas.Validate(); err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	if _, err := outputRune(cfg.Log.Output); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	if cfg.HTTP.Addr == "" {
		return fmt.Errorf("http.addr cannot be empty")
	}
	if cfg.HTTP.ReadTimeout < 0 || cfg.HTTP.WriteTimeout < 0 || cfg.HTTP.ShutdownTimeout < 0 {
		return fmt.Errorf("http timeouts cannot be negative")
	}
	if strings.ContainsAny(cfg.ToolPrefix, " \t/") {
		return fmt.Errorf("tool_prefix %q cannot contain spaces or slashes", cfg.ToolPrefix)
	}
	return nil
}

// ConfigureLogger applies the log section. With stdio set, anything that
// would go to stdout goes to stderr instead since stdout carries the protocol.
func (c *Config) ConfigureLogger(stdio bool) error {
	out, err := outputRune(c.Log.Output)
	if err != nil {
		return err
	}
	if stdio && out == logger.OutputConsole {
		out = logger.OutputStderr
	}
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	logger.SetLogFile(c.Log.File)
	if err := logger.SetLogOutput(out); err != nil {
		return err
	}
	logger.SetLevel(level)
	logger.SetShowDateTime(c.Log.ShowDateTime)
	return nil
}

func outputRune(name string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "console", "":
		return logger.OutputConsole, nil
	case "file":
		return logger.OutputFile, nil
	case "both":
		return logger.OutputBoth, nil
	case "stderr":
		return logger.OutputStderr, nil
	default:
		return 0, fmt.Errorf("invalid log output %q, expected console, file, both or stderr", name)
	}
}

// Global configuration instance
var current *Config

func init() {
	current = DefaultConfig()
}

// Current returns the active configuration
func Current() *Config {
	return current
}

// Update replaces the active configuration after validating it
func Update(cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	current = cfg
	return nil
}
