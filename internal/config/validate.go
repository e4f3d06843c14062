package config

import (
	"errors"
	"fmt"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"
)

// Validate checks that all required fields are set and values are valid.
func (c *DashboardConfig) Validate() error {
	if c.Backend.RestURL == "" {
		return errors.New("backend.rest_url is required")
	}
	if c.Backend.WSURL == "" {
		return errors.New("backend.ws_url is required")
	}

	if c.Stream.ReconnectDelay <= 0 {
		return errors.New("stream.reconnect_delay must be positive")
	}
	if c.Stream.BufferSize < 1 {
		return errors.New("stream.buffer_size must be >= 1")
	}

	if c.Chart.SettleDelay <= 0 {
		return errors.New("chart.settle_delay must be positive")
	}
	if c.Chart.DefaultWidth < 1 || c.Chart.DefaultHeight < 1 {
		return errors.New("chart.default_width and chart.default_height must be >= 1")
	}

	if c.Fetch.IntervalConnected <= 0 || c.Fetch.IntervalBusy <= 0 || c.Fetch.IntervalIdle <= 0 {
		return errors.New("fetch intervals must be positive")
	}
	if c.Fetch.RequestTimeout <= 0 {
		return errors.New("fetch.request_timeout must be positive")
	}

	if c.Watchlist.InitialPreset != "" {
		if _, ok := model.PresetByLabel(c.Watchlist.InitialPreset); !ok {
			return fmt.Errorf("watchlist.initial_preset %q is not a known preset", c.Watchlist.InitialPreset)
		}
	}

	return nil
}
