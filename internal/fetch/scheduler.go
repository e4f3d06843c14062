package fetch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/api"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/chart"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/metrics"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"
)

// MsgNoData is the advisory shown when a fresh selection has no bars.
const MsgNoData = "no data available for this symbol"

// BarSource fetches historical bars.
type BarSource interface {
	GetHistoricalBars(ctx context.Context, symbol, duration, barSize string) (*api.HistoricalBars, error)
}

// ViewState is the scheduler's window into the view controller.
type ViewState interface {
	Current() (symbol string, preset model.TimeframePreset, epoch int64)
	SurfaceFor(epoch int64) (chart.Surface, bool)
}

// Config holds scheduler configuration.
type Config struct {
	IntervalConnected time.Duration // Cadence while the gateway is connected
	IntervalBusy      time.Duration // Cadence while the gateway reports busy
	IntervalIdle      time.Duration // Cadence otherwise
	ReadyRetryDelay   time.Duration // Retry delay while the surface is not ready
	RequestTimeout    time.Duration // Per-request timeout
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		IntervalConnected: 10 * time.Second,
		IntervalBusy:      30 * time.Second,
		IntervalIdle:      60 * time.Second,
		ReadyRetryDelay:   500 * time.Millisecond,
		RequestTimeout:    30 * time.Second,
	}
}

// Scheduler polls historical bars for the current selection.
type Scheduler struct {
	cfg      Config
	source   BarSource
	views    ViewState
	counters *metrics.Counters
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	st       CycleState
	gateway  api.GatewayState
	inFlight map[int64]bool
}

// New creates a Data Fetch Scheduler.
func New(cfg Config, source BarSource, views ViewState, counters *metrics.Counters, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if counters == nil {
		counters = metrics.New()
	}

	return &Scheduler{
		cfg:      cfg,
		source:   source,
		views:    views,
		counters: counters,
		logger:   logger,
		gateway:  api.GatewayUnknown,
		inFlight: make(map[int64]bool),
	}
}

// Start begins the polling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("fetch scheduler started",
		"interval_connected", s.cfg.IntervalConnected,
		"interval_busy", s.cfg.IntervalBusy,
		"interval_idle", s.cfg.IntervalIdle,
	)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("fetch scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a copy of the current cycle state.
func (s *Scheduler) Snapshot() CycleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// Gateway returns the derived gateway state.
func (s *Scheduler) Gateway() api.GatewayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gateway
}

// run drives ticks through a resettable timer: the interval is re-evaluated
// after every cycle, so a gateway state change takes effect on the next tick.
// Each tick captures the epoch at schedule time; the live epoch is re-read
// on firing and the stale tick aborts when they differ.
func (s *Scheduler) run() {
	defer s.wg.Done()

	_, _, scheduledEpoch := s.views.Current()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
			delay := s.tick(scheduledEpoch)
			_, _, scheduledEpoch = s.views.Current()
			timer.Reset(delay)
		}
	}
}

// tick runs one scheduling decision and returns the delay until the next.
func (s *Scheduler) tick(scheduledEpoch int64) time.Duration {
	symbol, preset, epoch := s.views.Current()
	if symbol == "" {
		// Nothing selected yet.
		return s.cfg.ReadyRetryDelay
	}

	if epoch != scheduledEpoch {
		// Selection moved between scheduling and firing. Abort this tick;
		// the next one runs promptly under the new epoch.
		s.resetFor(symbol, preset)
		return s.cfg.ReadyRetryDelay
	}

	s.resetFor(symbol, preset)

	if _, ok := s.views.SurfaceFor(epoch); !ok {
		// Fetching against a non-existent surface is wasted work and a
		// source of races; wait for readiness instead.
		return s.cfg.ReadyRetryDelay
	}

	s.fetchCycle(epoch, symbol, preset)
	return s.interval()
}

// resetFor clears cycle state when the selection changed. This is the one
// path allowed to leave Ready downward.
func (s *Scheduler) resetFor(symbol string, preset model.TimeframePreset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.Symbol == symbol && s.st.Preset == preset {
		return
	}

	s.st = CycleState{
		Symbol: symbol,
		Preset: preset,
		Phase:  PhaseLoading,
	}
}

// fetchCycle fetches and applies bars for one epoch. Not re-entrant: a cycle
// already in flight for the same epoch is not duplicated.
func (s *Scheduler) fetchCycle(epoch int64, symbol string, preset model.TimeframePreset) {
	s.mu.Lock()
	if s.inFlight[epoch] {
		s.mu.Unlock()
		return
	}
	s.inFlight[epoch] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, epoch)
		s.mu.Unlock()
	}()

	s.counters.FetchCycles.Add(1)

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.RequestTimeout)
	defer cancel()

	resp, err := s.source.GetHistoricalBars(ctx, symbol, preset.Duration, preset.BarSize)
	if err != nil {
		s.handleFailure(symbol, err)
		return
	}

	s.handleSuccess(epoch, symbol, resp)
}

// handleFailure classifies the error into an advisory. HasData is never
// cleared here; a working chart survives transient failures.
func (s *Scheduler) handleFailure(symbol string, err error) {
	s.counters.FetchErrors.Add(1)
	adv := api.Classify(err)

	s.mu.Lock()
	s.gateway = adv.State
	s.st.LastError = adv.Message
	if s.st.HasData {
		s.transitionLocked(PhaseReadyWithWarning)
	} else {
		s.transitionLocked(PhaseEmpty)
	}
	s.mu.Unlock()

	s.logger.Warn("fetch cycle failed",
		"symbol", symbol,
		"state", adv.State,
		"advisory", adv.Message,
	)
}

// handleSuccess normalizes rows and applies them to the epoch's surface.
func (s *Scheduler) handleSuccess(epoch int64, symbol string, resp *api.HistoricalBars) {
	bars := api.NormalizeBars(resp.Bars)

	if len(bars) == 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.st.HasData {
			// Ratchet: a transient empty response never blanks a working
			// chart.
			return
		}
		s.st.LastError = MsgNoData
		s.transitionLocked(PhaseEmpty)
		return
	}

	// The surface is re-acquired here, not carried across the request: only
	// a still-current epoch may be mutated.
	surface, ok := s.views.SurfaceFor(epoch)
	if !ok {
		s.counters.StaleDiscards.Add(1)
		s.logger.Debug("stale fetch result discarded", "epoch", epoch, "symbol", symbol)
		return
	}

	if err := surface.SetSeriesData(chart.SeriesPrice, bars); err != nil {
		s.logger.Warn("failed to set price series", "error", err)
		return
	}
	if err := surface.SetSeriesData(chart.SeriesVolume, bars); err != nil {
		s.logger.Warn("failed to set volume series", "error", err)
	}
	surface.FitContent()

	source := resp.Source
	if resp.IsCached {
		source = model.SourceCached
	}

	s.mu.Lock()
	s.st.HasData = true
	s.st.Source = source
	s.st.LastError = ""
	s.transitionLocked(PhaseReady)
	s.gateway = gatewayFromSource(source)
	s.mu.Unlock()

	s.logger.Debug("series applied",
		"symbol", symbol,
		"epoch", epoch,
		"bars", len(bars),
		"source", source,
	)
}

// transitionLocked applies a phase change if the table allows it. Callers
// hold s.mu.
func (s *Scheduler) transitionLocked(to Phase) {
	if !canTransition(s.st.Phase, to) {
		s.logger.Debug("phase transition refused",
			"from", s.st.Phase,
			"to", to,
		)
		return
	}
	s.st.Phase = to
}

// interval picks the poll cadence from the derived gateway state.
func (s *Scheduler) interval() time.Duration {
	s.mu.Lock()
	g := s.gateway
	s.mu.Unlock()

	switch g {
	case api.GatewayBusy:
		return s.cfg.IntervalBusy
	case api.GatewayConnected:
		return s.cfg.IntervalConnected
	default:
		return s.cfg.IntervalIdle
	}
}

// gatewayFromSource derives gateway state from the data source tag: live IB
// data means connected, an alternate source means the gateway is down, and
// cached data carries no live signal.
func gatewayFromSource(source string) api.GatewayState {
	switch source {
	case model.SourceIB:
		return api.GatewayConnected
	case model.SourceAlpaca:
		return api.GatewayDisconnected
	default:
		return api.GatewayUnknown
	}
}
