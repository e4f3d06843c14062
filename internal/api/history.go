package api

import (
	"context"
	"fmt"
	"net/url"
)

// HistoricalBars is the response from GET /historical/{symbol}.
type HistoricalBars struct {
	Bars     []BarRow `json:"bars"`
	Source   string   `json:"source,omitempty"`
	IsCached bool     `json:"is_cached,omitempty"`
}

// BarRow is a single raw bar row as emitted by the backend. The time field
// varies by source (time, date, or timestamp) and numeric fields occasionally
// arrive as strings, so everything stays loosely typed until conversion.
type BarRow struct {
	Time      any `json:"time"`
	Date      any `json:"date"`
	Timestamp any `json:"timestamp"`
	Open      any `json:"open"`
	High      any `json:"high"`
	Low       any `json:"low"`
	Close     any `json:"close"`
	Volume    any `json:"volume"`
}

// GetHistoricalBars fetches bars for one symbol at the given duration and
// bar size. Duration/bar size pairs come from the preset table.
func (c *Client) GetHistoricalBars(ctx context.Context, symbol, duration, barSize string) (*HistoricalBars, error) {
	query := url.Values{}
	query.Set("duration", duration)
	query.Set("bar_size", barSize)

	var resp HistoricalBars
	if err := c.get(ctx, "/historical/"+url.PathEscape(symbol), query, &resp); err != nil {
		return nil, fmt.Errorf("get historical bars %s: %w", symbol, err)
	}

	return &resp, nil
}
