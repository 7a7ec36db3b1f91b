package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"rtc/internal/parser"
)

// Config holds all configuration for the collector
type Config struct {
	// Upload settings
	Endpoint  string
	Token     string
	BatchSize int

	// Output settings (stored run for the failures viewer)
	OutputJSONFile string
	OutputJSONDir  string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	BatchSize  int
	Endpoint   string
	Permissive bool
	DryRun     bool
	NoProgress bool
}

// New creates a new Config with defaults. A .env file next to the invocation
// may carry the API token and CI variables; a missing one is not an error.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		Endpoint:       DefaultEndpoint,
		Token:          os.Getenv(TokenEnvVar),
		BatchSize:      DefaultBatchSize,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Flags:          Flags{BatchSize: DefaultBatchSize},
	}
}

// Load creates a config and applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Flags = flags

	// Apply flag overrides
	if flags.BatchSize > 0 {
		cfg.BatchSize = flags.BatchSize
	}
	if flags.Endpoint != "" {
		cfg.Endpoint = flags.Endpoint
	}

	return cfg
}

// ParserMode returns the decode mode selected by flags. Strict is the
// default; permissive is an explicit compatibility option.
func (c *Config) ParserMode() parser.Mode {
	if c.Flags.Permissive {
		return parser.ModePermissive
	}
	return parser.ModeStrict
}

// GetOutputPath returns the full path to the stored-run JSON file.
// Resolves to an absolute path so collect and failures always read/write the
// same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
