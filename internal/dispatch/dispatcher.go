// Package dispatch routes push frames from the Connection Manager to their
// consumers: the quote book for display widgets, optionally mirrored to the
// front end.
package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/metrics"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/quote"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/stream"
)

// QuoteSink receives quotes for forwarding to the front end.
type QuoteSink interface {
	PublishQuote(model.Quote) error
}

// Stats contains runtime dispatcher statistics.
type Stats struct {
	FramesIn     int64
	QuotesRouted int64
	Ignored      int64
	Buffer       BufferStats
}

// Dispatcher consumes raw frames and routes quotes. It implements
// stream.FrameHandler, so it plugs directly into the Connection Manager.
type Dispatcher struct {
	cfg      Config
	book     *quote.Book
	sink     QuoteSink // optional
	counters *metrics.Counters
	logger   *slog.Logger

	buf *GrowableBuffer[stream.Frame]

	// filter reports whether a symbol is currently wanted. Frames for other
	// symbols are silently ignored: an unsubscribe race can deliver a late
	// frame, which is noise rather than an error.
	filterMu sync.RWMutex
	filter   func(symbol string) bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	framesIn int64
	routed   int64
	ignored  int64
}

// Config holds dispatcher configuration.
type Config struct {
	BufferSize int // Initial frame buffer capacity
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{BufferSize: 1024}
}

// New creates a frame dispatcher. sink may be nil.
func New(cfg Config, book *quote.Book, sink QuoteSink, counters *metrics.Counters, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if counters == nil {
		counters = metrics.New()
	}
	if cfg.BufferSize < 1 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}

	return &Dispatcher{
		cfg:      cfg,
		book:     book,
		sink:     sink,
		counters: counters,
		logger:   logger,
		buf:      NewGrowableBuffer[stream.Frame](cfg.BufferSize),
	}
}

// SetFilter installs the subscribed-symbol predicate. A nil filter accepts
// every symbol.
func (d *Dispatcher) SetFilter(filter func(symbol string) bool) {
	d.filterMu.Lock()
	d.filter = filter
	d.filterMu.Unlock()
}

// HandleFrame enqueues a frame from the Connection Manager.
func (d *Dispatcher) HandleFrame(f stream.Frame) {
	d.mu.Lock()
	d.framesIn++
	d.mu.Unlock()

	d.buf.Send(f)
}

// Start begins the routing loop.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go d.routeLoop()

	d.logger.Info("frame dispatcher started", "buffer", d.cfg.BufferSize)
	return nil
}

// Stop drains and shuts down.
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}
	d.buf.Close()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("frame dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current statistics.
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{
		FramesIn:     d.framesIn,
		QuotesRouted: d.routed,
		Ignored:      d.ignored,
		Buffer:       d.buf.Stats(),
	}
}

// routeLoop drains the frame buffer until closed.
func (d *Dispatcher) routeLoop() {
	defer d.wg.Done()

	for {
		frame, ok := d.buf.Receive()
		if !ok {
			return
		}
		d.route(frame)
	}
}

// route handles a single frame.
func (d *Dispatcher) route(frame stream.Frame) {
	q, ok := quote.Parse(frame.Data, frame.ReceivedAt)
	if !ok {
		// Not a quote frame; the push channel's other frame kinds are not
		// consumed here.
		d.mu.Lock()
		d.ignored++
		d.mu.Unlock()
		return
	}

	if !d.wanted(q.Symbol) {
		d.mu.Lock()
		d.ignored++
		d.mu.Unlock()
		return
	}

	d.book.Apply(q)
	d.counters.QuotesApplied.Add(1)

	d.mu.Lock()
	d.routed++
	d.mu.Unlock()

	if d.sink != nil {
		if err := d.sink.PublishQuote(q); err != nil {
			d.logger.Debug("quote publish failed", "symbol", q.Symbol, "error", err)
		}
	}
}

func (d *Dispatcher) wanted(symbol string) bool {
	d.filterMu.RLock()
	defer d.filterMu.RUnlock()
	if d.filter == nil {
		return true
	}
	return d.filter(symbol)
}
