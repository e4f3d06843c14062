// Package config loads and validates the dashboard configuration.
//
// Configuration is YAML with ${VAR} environment expansion, loaded through
// the Load → defaults → Validate chain.
package config

import "time"

// DashboardConfig is the root configuration.
type DashboardConfig struct {
	Backend   BackendConfig   `yaml:"backend"`
	Stream    StreamConfig    `yaml:"stream"`
	Chart     ChartConfig     `yaml:"chart"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Watchlist WatchlistConfig `yaml:"watchlist"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// BackendConfig locates the REST backend.
type BackendConfig struct {
	RestURL string        `yaml:"rest_url"`
	WSURL   string        `yaml:"ws_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// StreamConfig configures the push connection.
type StreamConfig struct {
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	PingTimeout    time.Duration `yaml:"ping_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	BufferSize     int           `yaml:"buffer_size"`
}

// ChartConfig configures the chart hub and surface lifecycle.
type ChartConfig struct {
	ListenAddr    string        `yaml:"listen_addr"`
	SettleDelay   time.Duration `yaml:"settle_delay"`
	DefaultWidth  int           `yaml:"default_width"`
	DefaultHeight int           `yaml:"default_height"`
}

// FetchConfig configures the historical-bars scheduler.
type FetchConfig struct {
	IntervalConnected time.Duration `yaml:"interval_connected"`
	IntervalBusy      time.Duration `yaml:"interval_busy"`
	IntervalIdle      time.Duration `yaml:"interval_idle"`
	ReadyRetryDelay   time.Duration `yaml:"ready_retry_delay"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
}

// WatchlistConfig is the initial streaming watchlist and selection.
type WatchlistConfig struct {
	Symbols       []string `yaml:"symbols"`
	InitialSymbol string   `yaml:"initial_symbol"`
	InitialPreset string   `yaml:"initial_preset"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // Empty disables the rotating file sink
}
