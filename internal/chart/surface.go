// Package chart defines the rendering surface contract consumed by the view
// controller, and a remote implementation that drives the browser chart over
// a WebSocket hub.
//
// The surface is opaque to the engine: creation, two typed series, data
// replacement, resize, and destruction. How a candle is drawn is the front
// end's business.
package chart

import (
	"errors"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"
)

// Errors
var (
	ErrSurfaceDestroyed = errors.New("surface destroyed")
	ErrUnknownSeries    = errors.New("unknown series kind")
	ErrHubClosed        = errors.New("chart hub closed")
)

// SeriesKind identifies one of the two typed series bound to a surface.
type SeriesKind string

const (
	SeriesPrice  SeriesKind = "price"  // Candlestick series
	SeriesVolume SeriesKind = "volume" // Volume histogram series
)

// Surface is one live rendering target. A surface belongs to exactly one
// view epoch and is never shared or reused across epochs.
type Surface interface {
	// AddSeries attaches a typed series to the surface.
	AddSeries(kind SeriesKind) error

	// SetSeriesData replaces the series contents wholesale. Bars must be
	// sorted ascending by time; the surface does not sort.
	SetSeriesData(kind SeriesKind, bars []model.Bar) error

	// FitContent fits the visible range to the full series.
	FitContent()

	// Resize updates the drawn size without recreating the surface.
	Resize(width, height int)

	// Destroy releases the surface. Safe to call on an already-destroyed or
	// half-initialized surface, and safe to call more than once.
	Destroy()
}

// Factory creates surfaces. The view controller is its only caller.
type Factory interface {
	Create(width, height int) (Surface, error)
}

// Container reports the layout size available for a surface. ok is false
// while the layout has not settled and no real size is measurable.
type Container interface {
	Size() (width, height int, ok bool)
}
