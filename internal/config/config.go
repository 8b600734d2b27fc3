// Package config loads matchsim configuration from a JSON file via viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds sqlite storage backend settings.
type SQLiteConfig struct {
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
}

// WebsocketConfig holds streaming storage backend settings.
type WebsocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// StorageConfig selects and configures the recording backend.
type StorageConfig struct {
	Type      string          `json:"type" mapstructure:"type"`
	Memory    MemoryConfig    `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig    `json:"sqlite" mapstructure:"sqlite"`
	Websocket WebsocketConfig `json:"websocket" mapstructure:"websocket"`
}

// OTelConfig holds OpenTelemetry exporter settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// SimulationConfig holds the tick-loop and decision-pipeline settings.
type SimulationConfig struct {
	TickRate          int     `json:"tickRate" mapstructure:"tickRate"`
	HalfTicks         uint32  `json:"halfTicks" mapstructure:"halfTicks"`
	Seed              uint64  `json:"seed" mapstructure:"seed"`
	MinScoreThreshold float64 `json:"minScoreThreshold" mapstructure:"minScoreThreshold"`
	DebugDecisions    bool    `json:"debugDecisions" mapstructure:"debugDecisions"`
}

// Validate rejects values the engine cannot run with.
func (c SimulationConfig) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("simulation.tickRate must be positive, got %d", c.TickRate)
	}
	if c.HalfTicks == 0 {
		return fmt.Errorf("simulation.halfTicks must be positive")
	}
	if c.MinScoreThreshold < 0 || c.MinScoreThreshold > 1 {
		return fmt.Errorf("simulation.minScoreThreshold must be in [0,1], got %f", c.MinScoreThreshold)
	}
	return nil
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("defaultTag", "Friendly")
	viper.SetDefault("logsDir", "./matchsim-logs")

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "matchsim")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "matchsim-metrics")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./replays")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.sqlite.dumpPath", "./matchsim.db")
	viper.SetDefault("storage.websocket.url", "ws://localhost:5001/stream")
	viper.SetDefault("storage.websocket.secret", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "matchsim")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("lineups.home", "")
	viper.SetDefault("lineups.away", "")

	viper.SetDefault("match.competition", "Friendly")
	viper.SetDefault("match.homeTeam", "")
	viper.SetDefault("match.awayTeam", "")
	viper.SetDefault("match.venue", "Demo Arena")

	viper.SetDefault("simulation.tickRate", 10)
	viper.SetDefault("simulation.halfTicks", 27000)
	viper.SetDefault("simulation.seed", 0)
	viper.SetDefault("simulation.minScoreThreshold", 0.1)
	viper.SetDefault("simulation.debugDecisions", false)

	viper.SetConfigName("matchsim.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return GetSimulationConfig().Validate()
}

// GetStorageConfig returns the storage section as a typed struct.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
		},
		Websocket: WebsocketConfig{
			URL:    viper.GetString("storage.websocket.url"),
			Secret: viper.GetString("storage.websocket.secret"),
		},
	}
}

// GetOTelConfig returns the otel section as a typed struct.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetSimulationConfig returns the simulation section as a typed struct.
func GetSimulationConfig() SimulationConfig {
	return SimulationConfig{
		TickRate:          viper.GetInt("simulation.tickRate"),
		HalfTicks:         viper.GetUint32("simulation.halfTicks"),
		Seed:              viper.GetUint64("simulation.seed"),
		MinScoreThreshold: viper.GetFloat64("simulation.minScoreThreshold"),
		DebugDecisions:    viper.GetBool("simulation.debugDecisions"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
