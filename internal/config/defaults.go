package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultRestURL           = "http://localhost:8000"
	DefaultWSURL             = "ws://localhost:8000/ws"
	DefaultBackendTimeout    = 30 * time.Second
	DefaultReconnectDelay    = 3 * time.Second
	DefaultPingTimeout       = 60 * time.Second
	DefaultWriteTimeout      = 5 * time.Second
	DefaultStreamBufferSize  = 1024
	DefaultChartListenAddr   = ":8090"
	DefaultSettleDelay       = 100 * time.Millisecond
	DefaultChartWidth        = 800
	DefaultChartHeight       = 480
	DefaultIntervalConnected = 10 * time.Second
	DefaultIntervalBusy      = 30 * time.Second
	DefaultIntervalIdle      = 60 * time.Second
	DefaultReadyRetryDelay   = 500 * time.Millisecond
	DefaultRequestTimeout    = 30 * time.Second
	DefaultInitialPreset     = "5m"
)

func (c *DashboardConfig) applyDefaults() {
	// Backend defaults
	if c.Backend.RestURL == "" {
		c.Backend.RestURL = DefaultRestURL
	}
	if c.Backend.WSURL == "" {
		c.Backend.WSURL = DefaultWSURL
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = DefaultBackendTimeout
	}

	// Stream defaults
	if c.Stream.ReconnectDelay == 0 {
		c.Stream.ReconnectDelay = DefaultReconnectDelay
	}
	if c.Stream.PingTimeout == 0 {
		c.Stream.PingTimeout = DefaultPingTimeout
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultWriteTimeout
	}
	if c.Stream.BufferSize == 0 {
		c.Stream.BufferSize = DefaultStreamBufferSize
	}

	// Chart defaults
	if c.Chart.ListenAddr == "" {
		c.Chart.ListenAddr = DefaultChartListenAddr
	}
	if c.Chart.SettleDelay == 0 {
		c.Chart.SettleDelay = DefaultSettleDelay
	}
	if c.Chart.DefaultWidth == 0 {
		c.Chart.DefaultWidth = DefaultChartWidth
	}
	if c.Chart.DefaultHeight == 0 {
		c.Chart.DefaultHeight = DefaultChartHeight
	}

	// Fetch defaults
	if c.Fetch.IntervalConnected == 0 {
		c.Fetch.IntervalConnected = DefaultIntervalConnected
	}
	if c.Fetch.IntervalBusy == 0 {
		c.Fetch.IntervalBusy = DefaultIntervalBusy
	}
	if c.Fetch.IntervalIdle == 0 {
		c.Fetch.IntervalIdle = DefaultIntervalIdle
	}
	if c.Fetch.ReadyRetryDelay == 0 {
		c.Fetch.ReadyRetryDelay = DefaultReadyRetryDelay
	}
	if c.Fetch.RequestTimeout == 0 {
		c.Fetch.RequestTimeout = DefaultRequestTimeout
	}

	// Watchlist defaults
	if c.Watchlist.InitialPreset == "" {
		c.Watchlist.InitialPreset = DefaultInitialPreset
	}
}
