package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// ConfigFileName is the JSON config file read from the config directory.
const ConfigFileName = "sentinel_client.cfg.json"

// Load reads configuration from the JSON file and sets default values.
// configDir is the directory containing the config file. A missing file
// is not an error; defaults and environment overrides still apply.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./sentinellogs")

	viper.SetDefault("seedCount", 250)

	viper.SetDefault("feed.serverUrl", "http://localhost:5000")
	viper.SetDefault("feed.apiKey", "")
	viper.SetDefault("feed.tenant", "default")
	viper.SetDefault("feed.pollIntervalMs", 2000)
	viper.SetDefault("feed.enabled", false)

	viper.SetDefault("tiles.base", "https://tile.openstreetmap.org/{z}/{x}/{y}.png")
	viper.SetDefault("tiles.weather", "")
	viper.SetDefault("tiles.sea", "")
	viper.SetDefault("tiles.weatherField", "clouds")
	viper.SetDefault("tiles.seaField", "sst")
	viper.SetDefault("tiles.insecure", false)
	viper.SetDefault("tiles.maxFetchZoom", 3)
	viper.SetDefault("tiles.layerSize", 4096)
	viper.SetDefault("tiles.fetchTimeoutMs", 8000)
	viper.SetDefault("tiles.stallAfterMs", 10000)
	viper.SetDefault("tiles.cacheCapBytes", 128<<20)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.sqlite.path", "./sentinel_tiles.db")
	viper.SetDefault("storage.memory.capBytes", 64<<20)

	viper.SetDefault("render.subdivisions", 64)
	viper.SetDefault("render.fovYDeg", 45.0)
	viper.SetDefault("render.globeRadius", 6371000.0)

	viper.SetDefault("ui.panelWidth", 320)
	viper.SetDefault("ui.inspectorHeight", 220)
	viper.SetDefault("ui.scale", 1.0)

	viper.SetDefault("frame.targetFps", 30)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "sentinel-metrics")

	viper.SetDefault("viewer.enabled", false)
	viper.SetDefault("viewer.url", "ws://localhost:5001/api/v1/viewer")
	viper.SetDefault("viewer.secret", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", false)

	// Environment overrides (read at process start; all optional)
	viper.BindEnv("seedCount", "C2_NATIVE_SEED_COUNT")
	viper.BindEnv("tiles.base", "C2_NATIVE_TILE_BASE")
	viper.BindEnv("tiles.insecure", "C2_NATIVE_TILE_INSECURE")

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetInt64 returns an int64 config value.
func GetInt64(key string) int64 {
	return viper.GetInt64(key)
}

// GetFloat returns a float64 config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
