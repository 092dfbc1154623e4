package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names. Each overrides the matching YAML key.
const (
	EnvDPI           = "PATENTOCR_DPI"
	EnvWorkers       = "PATENTOCR_WORKERS"
	EnvRasterizer    = "PATENTOCR_RASTERIZER"
	EnvPdftoppmPath  = "PATENTOCR_PDFTOPPM"
	EnvEngine        = "PATENTOCR_ENGINE"
	EnvTesseractPath = "PATENTOCR_TESSERACT"
	EnvLanguages     = "PATENTOCR_LANGUAGES"
	EnvNormalize     = "PATENTOCR_NORMALIZE"
	EnvUnicodeNFKC   = "PATENTOCR_NFKC"
	EnvUseTextLayer  = "PATENTOCR_TEXT_LAYER"
	EnvMaxFileBytes  = "PATENTOCR_MAX_FILE_BYTES"
	EnvFileTimeout   = "PATENTOCR_FILE_TIMEOUT"
	EnvRulesFile     = "PATENTOCR_RULES"
)

// Defaults.
const (
	DefaultDPI           = 300
	DefaultMaxFileBytes  = 200 << 20
	DefaultLanguages     = "eng"
	DefaultPdftoppmPath  = "pdftoppm"
	DefaultTesseractPath = "tesseract"
)

// Rasterizer names.
const (
	RasterizerPdftoppm = "pdftoppm"
	RasterizerEmbedded = "embedded"
)

// OCR engine names.
const (
	EngineCLI     = "cli"
	EngineLibrary = "library"
)

// Normalization modes.
const (
	NormalizeCollapse = "collapse"
	NormalizeLines    = "lines"
)

// Config holds runtime configuration sourced from an optional YAML file and
// environment variables.
type Config struct {
	DPI              int           `yaml:"dpi"`
	Workers          int           `yaml:"workers"`
	Rasterizer       string        `yaml:"rasterizer"`
	PdftoppmPath     string        `yaml:"pdftoppm_path"`
	Engine           string        `yaml:"engine"`
	TesseractPath    string        `yaml:"tesseract_path"`
	Languages        string        `yaml:"languages"`
	Normalize        string        `yaml:"normalize"`
	UnicodeNFKC      bool          `yaml:"unicode_nfkc"`
	UseTextLayer     bool          `yaml:"use_text_layer"`
	MaxFileSizeBytes int64         `yaml:"max_file_bytes"`
	FileTimeout      time.Duration `yaml:"file_timeout"`
	RulesFile        string        `yaml:"rules_file"`
}

// Default returns a Config populated with built-in defaults only.
func Default() *Config {
	return &Config{
		DPI:              DefaultDPI,
		Workers:          runtime.NumCPU(),
		Rasterizer:       RasterizerPdftoppm,
		PdftoppmPath:     DefaultPdftoppmPath,
		Engine:           EngineCLI,
		TesseractPath:    DefaultTesseractPath,
		Languages:        DefaultLanguages,
		Normalize:        NormalizeCollapse,
		UnicodeNFKC:      true,
		MaxFileSizeBytes: DefaultMaxFileBytes,
	}
}

// MaxFileSizeMB returns the configured limit in whole megabytes.
func (c *Config) MaxFileSizeMB() int64 {
	return c.MaxFileSizeBytes >> 20
}

// LanguageList splits Languages on '+' or ',' the way tesseract's -l flag does.
func (c *Config) LanguageList() []string {
	fields := strings.FieldsFunc(c.Languages, func(r rune) bool { return r == '+' || r == ',' })
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Validate rejects values the pipeline cannot act on.
func (c *Config) Validate() error {
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.MaxFileSizeBytes)
	}
	switch c.Rasterizer {
	case RasterizerPdftoppm, RasterizerEmbedded:
	default:
		return fmt.Errorf("unknown rasterizer %q (expected %s or %s)", c.Rasterizer, RasterizerPdftoppm, RasterizerEmbedded)
	}
	switch c.Engine {
	case EngineCLI, EngineLibrary:
	default:
		return fmt.Errorf("unknown engine %q (expected %s or %s)", c.Engine, EngineCLI, EngineLibrary)
	}
	switch c.Normalize {
	case NormalizeCollapse, NormalizeLines:
	default:
		return fmt.Errorf("unknown normalize mode %q (expected %s or %s)", c.Normalize, NormalizeCollapse, NormalizeLines)
	}
	if len(c.LanguageList()) == 0 {
		return fmt.Errorf("at least one OCR language is required")
	}
	return nil
}

// Load reads Config from environment variables, falling back to defaults for
// missing or invalid values.
func Load() *Config {
	cfg := Default()
	applyEnv(cfg)
	return cfg
}

// LoadFile reads a YAML config file over the defaults and then applies
// environment overrides. Keys missing from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if n, ok := positiveIntEnv(EnvDPI); ok {
		cfg.DPI = n
	}
	if n, ok := positiveIntEnv(EnvWorkers); ok {
		cfg.Workers = n
	}
	if v := os.Getenv(EnvRasterizer); v != "" {
		cfg.Rasterizer = v
	}
	if v := os.Getenv(EnvPdftoppmPath); v != "" {
		cfg.PdftoppmPath = v
	}
	if v := os.Getenv(EnvEngine); v != "" {
		cfg.Engine = v
	}
	if v := os.Getenv(EnvTesseractPath); v != "" {
		cfg.TesseractPath = v
	}
	if v := os.Getenv(EnvLanguages); v != "" {
		cfg.Languages = v
	}
	if v := os.Getenv(EnvNormalize); v != "" {
		cfg.Normalize = v
	}
	if b, ok := boolEnv(EnvUnicodeNFKC); ok {
		cfg.UnicodeNFKC = b
	}
	if b, ok := boolEnv(EnvUseTextLayer); ok {
		cfg.UseTextLayer = b
	}
	if v := os.Getenv(EnvMaxFileBytes); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxFileSizeBytes = n
		}
	}
	if v := os.Getenv(EnvFileTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.FileTimeout = d
		}
	}
	if v := os.Getenv(EnvRulesFile); v != "" {
		cfg.RulesFile = v
	}
}

func positiveIntEnv(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func boolEnv(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
