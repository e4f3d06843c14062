package api

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"
)

// Date layouts seen across backend sources. IB emits "20240102 09:30:00",
// the cache emits ISO timestamps.
var barDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"20060102 15:04:05",
	"20060102",
	"2006-01-02",
}

// ToBar converts a raw row into a Bar. Returns false when the row has no
// usable time or a non-numeric price field; such rows are dropped
// individually rather than failing the whole response.
func (r BarRow) ToBar() (model.Bar, bool) {
	ts, ok := asUnixSeconds(r.Time)
	if !ok {
		ts, ok = asUnixSeconds(r.Date)
	}
	if !ok {
		ts, ok = asUnixSeconds(r.Timestamp)
	}
	if !ok {
		return model.Bar{}, false
	}

	open, ok := asFloat(r.Open)
	if !ok {
		return model.Bar{}, false
	}
	high, ok := asFloat(r.High)
	if !ok {
		return model.Bar{}, false
	}
	low, ok := asFloat(r.Low)
	if !ok {
		return model.Bar{}, false
	}
	closePx, ok := asFloat(r.Close)
	if !ok {
		return model.Bar{}, false
	}

	// Volume is optional; missing or malformed volume becomes 0.
	volume, ok := asFloat(r.Volume)
	if !ok {
		volume = 0
	}

	return model.Bar{
		Time:   ts,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePx,
		Volume: volume,
	}, true
}

// NormalizeBars converts raw rows into Bars, dropping unusable rows and
// sorting ascending by time. The result is what a chart surface may consume.
func NormalizeBars(rows []BarRow) []model.Bar {
	bars := make([]model.Bar, 0, len(rows))
	for _, row := range rows {
		if bar, ok := row.ToBar(); ok {
			bars = append(bars, bar)
		}
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Time < bars[j].Time
	})

	return bars
}

// asFloat coerces a loosely typed JSON value to a float64.
func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// asUnixSeconds coerces a loosely typed time value to unix seconds.
// Accepts numeric seconds (including numeric strings) and known date layouts.
func asUnixSeconds(v any) (int64, bool) {
	switch val := v.(type) {
	case float64:
		if val <= 0 {
			return 0, false
		}
		return int64(val), true
	case int64:
		if val <= 0 {
			return 0, false
		}
		return val, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			if n <= 0 {
				return 0, false
			}
			return int64(n), true
		}
		for _, layout := range barDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Unix(), true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}
