package chart

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"
)

// RemoteFactory creates surfaces rendered by the browser front end. Each
// surface is addressed by a chart ID carried on every command.
type RemoteFactory struct {
	hub *Hub
}

// NewRemoteFactory creates a factory backed by the given hub.
func NewRemoteFactory(hub *Hub) *RemoteFactory {
	return &RemoteFactory{hub: hub}
}

// Create allocates a chart ID and tells the front end to build the chart.
func (f *RemoteFactory) Create(width, height int) (Surface, error) {
	s := &remoteSurface{
		hub: f.hub,
		id:  uuid.NewString(),
	}

	if err := f.hub.send(chartCommand{
		Cmd:     "create_chart",
		ChartID: s.id,
		Width:   width,
		Height:  height,
	}); err != nil {
		return nil, err
	}

	return s, nil
}

// chartCommand is the hub→front-end draw instruction.
type chartCommand struct {
	Cmd     string       `json:"cmd"`
	ChartID string       `json:"chart_id"`
	Series  SeriesKind   `json:"series,omitempty"`
	Width   int          `json:"width,omitempty"`
	Height  int          `json:"height,omitempty"`
	Candles []candleData `json:"candles,omitempty"`
	Points  []pointData  `json:"points,omitempty"`
}

type candleData struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

type pointData struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// remoteSurface drives one front-end chart through the hub.
type remoteSurface struct {
	hub       *Hub
	id        string
	destroyed atomic.Bool
}

func (s *remoteSurface) AddSeries(kind SeriesKind) error {
	if kind != SeriesPrice && kind != SeriesVolume {
		return ErrUnknownSeries
	}
	if s.destroyed.Load() {
		return ErrSurfaceDestroyed
	}
	return s.hub.send(chartCommand{
		Cmd:     "add_series",
		ChartID: s.id,
		Series:  kind,
	})
}

func (s *remoteSurface) SetSeriesData(kind SeriesKind, bars []model.Bar) error {
	if s.destroyed.Load() {
		return ErrSurfaceDestroyed
	}

	cmd := chartCommand{
		Cmd:     "set_series_data",
		ChartID: s.id,
		Series:  kind,
	}

	switch kind {
	case SeriesPrice:
		cmd.Candles = make([]candleData, len(bars))
		for i, b := range bars {
			cmd.Candles[i] = candleData{
				Time:  b.Time,
				Open:  b.Open,
				High:  b.High,
				Low:   b.Low,
				Close: b.Close,
			}
		}
	case SeriesVolume:
		cmd.Points = make([]pointData, len(bars))
		for i, b := range bars {
			cmd.Points[i] = pointData{Time: b.Time, Value: b.Volume}
		}
	default:
		return ErrUnknownSeries
	}

	return s.hub.send(cmd)
}

func (s *remoteSurface) FitContent() {
	if s.destroyed.Load() {
		return
	}
	s.hub.send(chartCommand{Cmd: "fit_content", ChartID: s.id})
}

func (s *remoteSurface) Resize(width, height int) {
	if s.destroyed.Load() {
		return
	}
	s.hub.send(chartCommand{
		Cmd:     "resize",
		ChartID: s.id,
		Width:   width,
		Height:  height,
	})
}

// Destroy is idempotent; a second call is a no-op.
func (s *remoteSurface) Destroy() {
	if !s.destroyed.CompareAndSwap(false, true) {
		return
	}
	s.hub.send(chartCommand{Cmd: "destroy_chart", ChartID: s.id})
}
