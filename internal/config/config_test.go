package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
backend:
  rest_url: http://localhost:9000
  ws_url: ws://localhost:9000/ws
  timeout: 15s

stream:
  reconnect_delay: 5s
  buffer_size: 500

fetch:
  interval_connected: 8s

watchlist:
  symbols: [AAPL, MSFT]
  initial_symbol: AAPL
  initial_preset: 1h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend.RestURL != "http://localhost:9000" {
		t.Errorf("RestURL = %q", cfg.Backend.RestURL)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.Backend.Timeout)
	}
	if cfg.Stream.ReconnectDelay != 5*time.Second {
		t.Errorf("ReconnectDelay = %v, want 5s", cfg.Stream.ReconnectDelay)
	}
	if len(cfg.Watchlist.Symbols) != 2 {
		t.Errorf("Symbols = %v, want 2 entries", cfg.Watchlist.Symbols)
	}
	if cfg.Watchlist.InitialPreset != "1h" {
		t.Errorf("InitialPreset = %q, want 1h", cfg.Watchlist.InitialPreset)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("DASH_REST_URL", "http://backend:8000")

	path := writeConfig(t, `
backend:
  rest_url: ${DASH_REST_URL}
  ws_url: ws://localhost:8000/ws
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend.RestURL != "http://backend:8000" {
		t.Errorf("RestURL = %q, want expanded env value", cfg.Backend.RestURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeConfig(t, `
watchlist:
  symbols: [SPY]
`)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Backend.RestURL != DefaultRestURL {
		t.Errorf("RestURL = %q, want default", cfg.Backend.RestURL)
	}
	if cfg.Stream.ReconnectDelay != DefaultReconnectDelay {
		t.Errorf("ReconnectDelay = %v, want %v", cfg.Stream.ReconnectDelay, DefaultReconnectDelay)
	}
	if cfg.Chart.SettleDelay != DefaultSettleDelay {
		t.Errorf("SettleDelay = %v, want %v", cfg.Chart.SettleDelay, DefaultSettleDelay)
	}
	if cfg.Fetch.IntervalIdle != DefaultIntervalIdle {
		t.Errorf("IntervalIdle = %v, want %v", cfg.Fetch.IntervalIdle, DefaultIntervalIdle)
	}
	if cfg.Watchlist.InitialPreset != DefaultInitialPreset {
		t.Errorf("InitialPreset = %q, want %q", cfg.Watchlist.InitialPreset, DefaultInitialPreset)
	}
}

func TestLoadAndValidate_BadPreset(t *testing.T) {
	path := writeConfig(t, `
watchlist:
  initial_preset: 7x
`)

	if _, err := LoadAndValidate(path); err == nil {
		t.Error("expected validation error for unknown preset")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *DashboardConfig {
		cfg := &DashboardConfig{}
		cfg.applyDefaults()
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*DashboardConfig)
	}{
		{"missing rest_url", func(c *DashboardConfig) { c.Backend.RestURL = "" }},
		{"missing ws_url", func(c *DashboardConfig) { c.Backend.WSURL = "" }},
		{"negative reconnect delay", func(c *DashboardConfig) { c.Stream.ReconnectDelay = -time.Second }},
		{"zero buffer", func(c *DashboardConfig) { c.Stream.BufferSize = 0 }},
		{"zero settle delay", func(c *DashboardConfig) { c.Chart.SettleDelay = -1 }},
		{"zero chart size", func(c *DashboardConfig) { c.Chart.DefaultWidth = 0 }},
		{"zero fetch interval", func(c *DashboardConfig) { c.Fetch.IntervalBusy = 0 }},
		{"unknown preset", func(c *DashboardConfig) { c.Watchlist.InitialPreset = "2y" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
