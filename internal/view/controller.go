package view

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/chart"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/metrics"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"
)

// Config holds controller configuration.
type Config struct {
	// SettleDelay is the wait before surface creation, giving the container
	// time to obtain real layout dimensions. Creating against a zero-sized
	// container produces a degenerate render.
	SettleDelay time.Duration

	// Fallback surface size when the container is unmeasurable.
	DefaultWidth  int
	DefaultHeight int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SettleDelay:   100 * time.Millisecond,
		DefaultWidth:  800,
		DefaultHeight: 480,
	}
}

// Controller owns the surface lifecycle for the current selection.
type Controller struct {
	cfg       Config
	factory   chart.Factory
	container chart.Container
	counters  *metrics.Counters
	logger    *slog.Logger

	mu      sync.Mutex
	epoch   int64
	symbol  string
	preset  model.TimeframePreset
	surface chart.Surface
	ready   bool
	settle  *time.Timer
	closed  bool
}

// NewController creates a View Session Controller.
func NewController(cfg Config, factory chart.Factory, container chart.Container, counters *metrics.Counters, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if counters == nil {
		counters = metrics.New()
	}

	return &Controller{
		cfg:       cfg,
		factory:   factory,
		container: container,
		counters:  counters,
		logger:    logger,
	}
}

// Select activates a new (symbol, timeframe) selection. The previous epoch
// is invalidated immediately, its surface destroyed, and a new surface is
// created after the settle delay. Returns the new epoch.
func (c *Controller) Select(symbol string, preset model.TimeframePreset) int64 {
	c.mu.Lock()
	if c.closed {
		epoch := c.epoch
		c.mu.Unlock()
		return epoch
	}

	c.epoch++
	epoch := c.epoch
	c.symbol = symbol
	c.preset = preset

	old := c.surface
	c.surface = nil
	c.ready = false

	// A pending allocation from the superseded selection is cancelled here;
	// if its timer already fired, the epoch check in allocate catches it.
	if c.settle != nil {
		c.settle.Stop()
	}
	c.settle = time.AfterFunc(c.cfg.SettleDelay, func() {
		c.allocate(epoch)
	})
	c.mu.Unlock()

	if old != nil {
		old.Destroy()
	}

	c.logger.Info("selection changed",
		"symbol", symbol,
		"timeframe", preset.Label,
		"epoch", epoch,
	)

	return epoch
}

// Current returns the live selection and its epoch.
func (c *Controller) Current() (symbol string, preset model.TimeframePreset, epoch int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.symbol, c.preset, c.epoch
}

// Epoch returns the live epoch.
func (c *Controller) Epoch() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// SurfaceFor returns the surface bound to epoch, but only while that epoch
// is still current and its surface is ready. Holders must not retain the
// surface across suspension points; re-acquire it after every await.
func (c *Controller) SurfaceFor(epoch int64) (chart.Surface, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch || !c.ready || c.surface == nil {
		return nil, false
	}
	return c.surface, true
}

// Resize updates the live surface's drawn size. The epoch does not change;
// a resize is not a new selection.
func (c *Controller) Resize(width, height int) {
	c.mu.Lock()
	surface := c.surface
	ready := c.ready
	c.mu.Unlock()

	if ready && surface != nil {
		surface.Resize(width, height)
	}
}

// Close tears down the controller. Safe to call once the consuming view
// unmounts; pending allocations are cancelled.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
	old := c.surface
	c.surface = nil
	c.ready = false
	c.mu.Unlock()

	if old != nil {
		old.Destroy()
	}
}

// allocate attempts surface creation for the given epoch. Runs off the
// settle timer; the epoch is re-checked before and after the creation call
// because the user may reselect at any point in between.
func (c *Controller) allocate(epoch int64) {
	c.mu.Lock()
	if c.closed || epoch != c.epoch {
		c.mu.Unlock()
		c.counters.StaleDiscards.Add(1)
		return
	}
	c.mu.Unlock()

	width, height, ok := c.container.Size()
	if !ok {
		width = c.cfg.DefaultWidth
		height = c.cfg.DefaultHeight
		c.logger.Debug("container unmeasurable, using default size",
			"width", width,
			"height", height,
		)
	}

	surface, err := c.factory.Create(width, height)
	if err == nil {
		if addErr := surface.AddSeries(chart.SeriesPrice); addErr != nil {
			err = addErr
		} else if addErr := surface.AddSeries(chart.SeriesVolume); addErr != nil {
			err = addErr
		}
		if err != nil {
			surface.Destroy()
		}
	}

	if err != nil {
		// Treated as "surface not ready": log, keep retrying on the settle
		// cadence, and let the fetch scheduler keep waiting.
		c.logger.Warn("surface creation failed", "epoch", epoch, "error", err)
		c.mu.Lock()
		if !c.closed && epoch == c.epoch {
			c.settle = time.AfterFunc(c.cfg.SettleDelay, func() {
				c.allocate(epoch)
			})
		}
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	if c.closed || epoch != c.epoch {
		// Superseded while creating; the new epoch owns the view now.
		c.mu.Unlock()
		c.counters.StaleDiscards.Add(1)
		surface.Destroy()
		return
	}
	c.surface = surface
	c.ready = true
	c.mu.Unlock()

	c.logger.Info("surface ready",
		"epoch", epoch,
		"width", width,
		"height", height,
	)
}
