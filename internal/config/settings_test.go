package config

import (
	"testing"
	"time"
)

func TestLoadSettingsDefaults(t *testing.T) {
	for _, key := range []string{
		"LITEFAB_NODE_CONFIG", "LITEFAB_NETWORK_CONFIG", "LITEFAB_LISTEN_ADDR",
		"LITEFAB_METRICS_ADDR", "LITEFAB_DATA_DIR", "LITEFAB_LOG_LEVEL",
		"LITEFAB_SOLO_MAX_BATCH_SIZE", "LITEFAB_SOLO_BATCH_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	s := LoadSettings()
	if s.NodeConfigPath != "node.yaml" {
		t.Errorf("NodeConfigPath = %q", s.NodeConfigPath)
	}
	if s.ListenAddr != "0.0.0.0:7051" {
		t.Errorf("ListenAddr = %q", s.ListenAddr)
	}
	if s.SoloMaxBatchSize != 10 {
		t.Errorf("SoloMaxBatchSize = %d, want 10", s.SoloMaxBatchSize)
	}
	if s.SoloBatchTimeout != 2*time.Second {
		t.Errorf("SoloBatchTimeout = %v, want 2s", s.SoloBatchTimeout)
	}
}

func TestLoadSettingsOverrides(t *testing.T) {
	t.Setenv("LITEFAB_LISTEN_ADDR", "127.0.0.1:9999")
	t.Setenv("LITEFAB_SOLO_MAX_BATCH_SIZE", "50")
	t.Setenv("LITEFAB_SOLO_BATCH_TIMEOUT", "500ms")

	s := LoadSettings()
	if s.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("ListenAddr = %q", s.ListenAddr)
	}
	if s.SoloMaxBatchSize != 50 {
		t.Errorf("SoloMaxBatchSize = %d, want 50", s.SoloMaxBatchSize)
	}
	if s.SoloBatchTimeout != 500*time.Millisecond {
		t.Errorf("SoloBatchTimeout = %v, want 500ms", s.SoloBatchTimeout)
	}
}

func TestLoadSettingsIgnoresUnparseableOverrides(t *testing.T) {
	t.Setenv("LITEFAB_SOLO_MAX_BATCH_SIZE", "not-a-number")

	s := LoadSettings()
	if s.SoloMaxBatchSize != 10 {
		t.Errorf("expected default to survive an unparseable override, got %d", s.SoloMaxBatchSize)
	}
}
