package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Chart Types
// -----------------------------------------------------------------------------

// Bar is a single OHLCV candle handed to the chart surface.
// Time is unix seconds; sequences given to a surface are sorted ascending.
type Bar struct {
	Time   int64   // Bar open time (unix seconds)
	Open   float64 // Open price
	High   float64 // High price
	Low    float64 // Low price
	Close  float64 // Close price
	Volume float64 // Traded volume (0 when the backend omits it)
}

// Data source tags reported by the historical-bars backend.
const (
	SourceIB     = "ib"     // Live Interactive Brokers gateway
	SourceAlpaca = "alpaca" // Alternate data source fallback
	SourceCached = "cached" // Server-side cache
)

// -----------------------------------------------------------------------------
// Timeframe Presets
// -----------------------------------------------------------------------------

// TimeframePreset pairs a bar size with a lookback duration. Presets are
// drawn from a fixed table; the engine never generates its own pairs.
type TimeframePreset struct {
	Label    string // Display label (e.g., "5m")
	BarSize  string // Backend bar size (e.g., "5 mins")
	Duration string // Backend lookback duration (e.g., "1 D")
}

// TimeframePresets is the fixed preset table offered by the dashboard.
var TimeframePresets = []TimeframePreset{
	{Label: "1m", BarSize: "1 min", Duration: "1 D"},
	{Label: "5m", BarSize: "5 mins", Duration: "1 D"},
	{Label: "15m", BarSize: "15 mins", Duration: "2 D"},
	{Label: "1h", BarSize: "1 hour", Duration: "1 W"},
	{Label: "1d", BarSize: "1 day", Duration: "6 M"},
	{Label: "1w", BarSize: "1 week", Duration: "2 Y"},
}

// PresetByLabel looks up a preset from the fixed table.
func PresetByLabel(label string) (TimeframePreset, bool) {
	for _, p := range TimeframePresets {
		if p.Label == label {
			return p, true
		}
	}
	return TimeframePreset{}, false
}

// -----------------------------------------------------------------------------
// Streaming Types
// -----------------------------------------------------------------------------

// Quote is the latest streamed state for one symbol, consumed by display
// widgets. Prices are decimals because widgets format them for humans.
type Quote struct {
	Symbol     string
	Last       decimal.Decimal
	Bid        decimal.Decimal
	Ask        decimal.Decimal
	BidSize    int64
	AskSize    int64
	ReceivedAt time.Time // Local timestamp when the frame arrived
}
