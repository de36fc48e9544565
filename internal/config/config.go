package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/blastmap/engine/internal/model"
)

// Load reads configuration from a JSON file and sets default values.
// configDir is the directory containing the config file. A missing config
// file is reported so the caller can decide to continue with defaults.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./blastmaplogs")

	viper.SetDefault("overpass.endpoint", "https://overpass-api.de/api/interpreter")
	viper.SetDefault("overpass.timeoutSeconds", 10)

	viper.SetDefault("cache.ttlMinutes", 5)

	viper.SetDefault("grid.size", 100)
	viper.SetDefault("grid.syntheticSize", 50)
	viper.SetDefault("grid.maxRadiusKm", 20)
	viper.SetDefault("grid.maxDensityPerKm2", 30000)
	viper.SetDefault("grid.syntheticSeed", 1)

	viper.SetDefault("density.defaultUrban", 4000)
	viper.SetDefault("density.min", 500)
	viper.SetDefault("density.max", 50000)

	viper.SetDefault("engine.debounceMs", 100)

	viper.SetDefault("snapshots.outputDir", "./snapshots")
	viper.SetDefault("snapshots.maxHistory", 50)
	viper.SetDefault("snapshots.compressOutput", true)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "blastmap-metrics")
	viper.SetDefault("influx.bucket", "casualty_compute")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	setZoneDefaults()

	viper.SetConfigName("blastmap.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// setZoneDefaults publishes the built-in zone tables as config defaults so
// operators can tune individual rates in the config file.
func setZoneDefaults() {
	for name, spec := range model.DefaultZoneTable() {
		prefix := "zones." + name
		viper.SetDefault(prefix+".fatalityRate", spec.FatalityRate)
		viper.SetDefault(prefix+".severe", spec.Injuries.Severe)
		viper.SetDefault(prefix+".moderate", spec.Injuries.Moderate)
		viper.SetDefault(prefix+".light", spec.Injuries.Light)
	}
}

// ZoneTable returns the effective zone table: built-in categories and
// descriptions with rates read back from configuration.
func ZoneTable() model.ZoneTable {
	table := model.DefaultZoneTable()
	for name, spec := range table {
		prefix := "zones." + name
		spec.FatalityRate = viper.GetFloat64(prefix + ".fatalityRate")
		spec.Injuries = model.InjuryDistribution{
			Severe:   viper.GetFloat64(prefix + ".severe"),
			Moderate: viper.GetFloat64(prefix + ".moderate"),
			Light:    viper.GetFloat64(prefix + ".light"),
		}
		table[name] = spec
	}
	return table
}

// OverpassTimeout returns the hard timeout for external geodata calls.
func OverpassTimeout() time.Duration {
	return time.Duration(viper.GetInt("overpass.timeoutSeconds")) * time.Second
}

// CacheTTL returns the population grid cache lifetime.
func CacheTTL() time.Duration {
	return time.Duration(viper.GetInt("cache.ttlMinutes")) * time.Minute
}

// Debounce returns the computation debounce window.
func Debounce() time.Duration {
	return time.Duration(viper.GetInt("engine.debounceMs")) * time.Millisecond
}

// GetString returns a string config value.
func GetString(key string) string { return viper.GetString(key) }

// GetInt returns an int config value.
func GetInt(key string) int { return viper.GetInt(key) }

// GetBool returns a bool config value.
func GetBool(key string) bool { return viper.GetBool(key) }

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 { return viper.GetFloat64(key) }
