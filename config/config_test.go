package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Assembler.DefaultArch != "ibm5100" {
		t.Errorf("Expected DefaultArch=ibm5100, got %s", cfg.Assembler.DefaultArch)
	}
	if cfg.Assembler.MaxPasses != 0 {
		t.Errorf("Expected MaxPasses=0, got %d", cfg.Assembler.MaxPasses)
	}
	if cfg.Listing.BytesPerLine != 16 {
		t.Errorf("Expected BytesPerLine=16, got %d", cfg.Listing.BytesPerLine)
	}
	if !cfg.Listing.ShowAddresses {
		t.Error("Expected ShowAddresses=true")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}

	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "config.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "palmasm" && path != "config.toml" {
			t.Errorf("Expected path in palmasm directory or fallback, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Assembler.DefaultArch = "customarch"
	cfg.Assembler.MaxPasses = 10
	cfg.Listing.BytesPerLine = 8
	cfg.Listing.ShowAddresses = false
	cfg.Output.BinaryPath = "out.bin"
	cfg.Output.ListingPath = "out.lst"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Assembler.DefaultArch != "customarch" {
		t.Errorf("Expected DefaultArch=customarch, got %s", loaded.Assembler.DefaultArch)
	}
	if loaded.Assembler.MaxPasses != 10 {
		t.Errorf("Expected MaxPasses=10, got %d", loaded.Assembler.MaxPasses)
	}
	if loaded.Listing.BytesPerLine != 8 {
		t.Errorf("Expected BytesPerLine=8, got %d", loaded.Listing.BytesPerLine)
	}
	if loaded.Listing.ShowAddresses {
		t.Error("Expected ShowAddresses=false")
	}
	if loaded.Output.BinaryPath != "out.bin" {
		t.Errorf("Expected BinaryPath=out.bin, got %s", loaded.Output.BinaryPath)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.Assembler.DefaultArch != "ibm5100" {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[assembler]
max_passes = "not a number"  # Invalid: should be int
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
