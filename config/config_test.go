package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvMaxFileBytes, "")
	t.Setenv(EnvDPI, "")

	cfg := Load()

	if cfg.MaxFileSizeBytes != DefaultMaxFileBytes {
		t.Errorf("MaxFileSizeBytes = %d, want %d", cfg.MaxFileSizeBytes, DefaultMaxFileBytes)
	}
	if cfg.DPI != DefaultDPI {
		t.Errorf("DPI = %d, want %d", cfg.DPI, DefaultDPI)
	}
	if cfg.Normalize != NormalizeCollapse {
		t.Errorf("Normalize = %q, want %q", cfg.Normalize, NormalizeCollapse)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad_MaxFileBytesFromEnv(t *testing.T) {
	t.Setenv(EnvMaxFileBytes, "1048576") // 1 MiB

	cfg := Load()

	if cfg.MaxFileSizeBytes != 1_048_576 {
		t.Errorf("MaxFileSizeBytes = %d, want 1048576", cfg.MaxFileSizeBytes)
	}
}

func TestLoad_InvalidValuesIgnored(t *testing.T) {
	t.Setenv(EnvMaxFileBytes, "not-a-number")
	t.Setenv(EnvDPI, "0")
	t.Setenv(EnvWorkers, "-3")
	t.Setenv(EnvUnicodeNFKC, "maybe")
	t.Setenv(EnvFileTimeout, "soon")

	cfg := Load()
	def := Default()

	if cfg.MaxFileSizeBytes != DefaultMaxFileBytes {
		t.Errorf("MaxFileSizeBytes = %d, want default %d", cfg.MaxFileSizeBytes, DefaultMaxFileBytes)
	}
	if cfg.DPI != DefaultDPI {
		t.Errorf("DPI = %d, want default %d", cfg.DPI, DefaultDPI)
	}
	if cfg.Workers != def.Workers {
		t.Errorf("Workers = %d, want default %d", cfg.Workers, def.Workers)
	}
	if !cfg.UnicodeNFKC {
		t.Error("UnicodeNFKC should keep its default of true")
	}
	if cfg.FileTimeout != 0 {
		t.Errorf("FileTimeout = %v, want 0", cfg.FileTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvDPI, "600")
	t.Setenv(EnvWorkers, "2")
	t.Setenv(EnvTesseractPath, `C:\Program Files (x86)\Tesseract-OCR\tesseract.exe`)
	t.Setenv(EnvNormalize, NormalizeLines)
	t.Setenv(EnvUseTextLayer, "true")
	t.Setenv(EnvFileTimeout, "90s")

	cfg := Load()

	if cfg.DPI != 600 || cfg.Workers != 2 {
		t.Errorf("DPI/Workers = %d/%d, want 600/2", cfg.DPI, cfg.Workers)
	}
	if cfg.TesseractPath != `C:\Program Files (x86)\Tesseract-OCR\tesseract.exe` {
		t.Errorf("TesseractPath = %q", cfg.TesseractPath)
	}
	if cfg.Normalize != NormalizeLines {
		t.Errorf("Normalize = %q, want %q", cfg.Normalize, NormalizeLines)
	}
	if !cfg.UseTextLayer {
		t.Error("UseTextLayer should be true")
	}
	if cfg.FileTimeout != 90*time.Second {
		t.Errorf("FileTimeout = %v, want 90s", cfg.FileTimeout)
	}
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patentocr.yaml")
	content := "dpi: 600\nworkers: 3\nrasterizer: embedded\nlanguages: eng+deu\nunicode_nfkc: false\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvWorkers, "8")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.DPI != 600 {
		t.Errorf("DPI = %d, want 600", cfg.DPI)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want env value 8", cfg.Workers)
	}
	if cfg.Rasterizer != RasterizerEmbedded {
		t.Errorf("Rasterizer = %q, want %q", cfg.Rasterizer, RasterizerEmbedded)
	}
	if cfg.UnicodeNFKC {
		t.Error("UnicodeNFKC should be false from file")
	}
	if cfg.Engine != EngineCLI {
		t.Errorf("Engine = %q, want default %q", cfg.Engine, EngineCLI)
	}
	if got := cfg.LanguageList(); len(got) != 2 || got[0] != "eng" || got[1] != "deu" {
		t.Errorf("LanguageList() = %v, want [eng deu]", got)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dpi", func(c *Config) { c.DPI = 0 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero max file size", func(c *Config) { c.MaxFileSizeBytes = 0 }},
		{"bad rasterizer", func(c *Config) { c.Rasterizer = "ghostscript" }},
		{"bad engine", func(c *Config) { c.Engine = "cloud" }},
		{"bad normalize", func(c *Config) { c.Normalize = "keep" }},
		{"no languages", func(c *Config) { c.Languages = " + " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMaxFileSizeMB(t *testing.T) {
	cfg := &Config{MaxFileSizeBytes: 10 << 20} // 10 MiB
	if got := cfg.MaxFileSizeMB(); got != 10 {
		t.Errorf("MaxFileSizeMB() = %d, want 10", got)
	}
}
