package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	viper.Reset()
	if err := Load(t.TempDir()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := GetString("logLevel"); got != "info" {
		t.Errorf("expected default logLevel info, got %s", got)
	}
	if got := GetInt("seedCount"); got != 250 {
		t.Errorf("expected default seedCount 250, got %d", got)
	}
	if got := GetInt("tiles.maxFetchZoom"); got != 3 {
		t.Errorf("expected default maxFetchZoom 3, got %d", got)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	cfg := `{"logLevel": "debug", "tiles": {"layerSize": 2048}}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(cfg), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if err := Load(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := GetString("logLevel"); got != "debug" {
		t.Errorf("expected logLevel debug, got %s", got)
	}
	if got := GetInt("tiles.layerSize"); got != 2048 {
		t.Errorf("expected layerSize 2048, got %d", got)
	}
	// untouched keys keep defaults
	if got := GetString("feed.tenant"); got != "default" {
		t.Errorf("expected default tenant, got %s", got)
	}
}

func TestLoad_InvalidFileReturnsError(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if err := Load(dir); err == nil {
		t.Error("expected error for invalid config file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("C2_NATIVE_SEED_COUNT", "42")
	t.Setenv("C2_NATIVE_TILE_BASE", "https://tiles.example.test/{z}/{x}/{y}.png")
	t.Setenv("C2_NATIVE_TILE_INSECURE", "true")

	if err := Load(t.TempDir()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := GetInt("seedCount"); got != 42 {
		t.Errorf("expected seedCount 42 from env, got %d", got)
	}
	if got := GetString("tiles.base"); got != "https://tiles.example.test/{z}/{x}/{y}.png" {
		t.Errorf("unexpected tiles.base: %s", got)
	}
	if !GetBool("tiles.insecure") {
		t.Error("expected tiles.insecure true from env")
	}
}
