// Copyright 2025 Certen Protocol
//
// Settings holds process-level configuration read from the environment.
// Grounded directly on pkg/config/config.go's getEnv-helper load pattern,
// narrowed to the variables this runtime actually reads.

package config

import (
	"os"
	"strconv"
	"time"
)

// Settings is a node process's environment-sourced configuration.
type Settings struct {
	// NetworkConfigPath locates the NetworkConfig YAML that start-peer
	// loads. NodeConfigPath is read from the environment, but the start
	// commands take the NodeConfig path as their argument and do not
	// consult it.
	NodeConfigPath    string
	NetworkConfigPath string

	ListenAddr  string
	MetricsAddr string

	DataDir string

	LogLevel string

	// SoloMaxBatchSize/SoloBatchTimeout tune the orderer's block cutter
	// when this process runs in orderer mode.
	SoloMaxBatchSize int
	SoloBatchTimeout time.Duration
}

// LoadSettings reads Settings from the environment, applying the same
// safe-default-with-override shape as the teacher config loader.
func LoadSettings() *Settings {
	return &Settings{
		NodeConfigPath:    getEnv("LITEFAB_NODE_CONFIG", "node.yaml"),
		NetworkConfigPath: getEnv("LITEFAB_NETWORK_CONFIG", "network.yaml"),
		ListenAddr:        getEnv("LITEFAB_LISTEN_ADDR", "0.0.0.0:7051"),
		MetricsAddr:       getEnv("LITEFAB_METRICS_ADDR", "0.0.0.0:9090"),
		DataDir:           getEnv("LITEFAB_DATA_DIR", "./data"),
		LogLevel:          getEnv("LITEFAB_LOG_LEVEL", "info"),
		SoloMaxBatchSize:  getEnvInt("LITEFAB_SOLO_MAX_BATCH_SIZE", 10),
		SoloBatchTimeout:  getEnvDuration("LITEFAB_SOLO_BATCH_TIMEOUT", 2*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
