package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/metrics"
)

// Manager owns the single push connection and its subscription set.
type Manager struct {
	cfg      ManagerConfig
	handler  FrameHandler
	counters *metrics.Counters
	logger   *slog.Logger

	// Client factory, replaceable in tests.
	newClient func(ClientConfig, *slog.Logger) Client

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	state     State
	client    Client
	subs      map[string]struct{}
	reconnect *time.Timer
	stopped   bool
}

// NewManager creates a Connection Manager. The frame handler is the single
// registered consumer and is a required dependency, not a process-wide hook.
func NewManager(cfg ManagerConfig, handler FrameHandler, counters *metrics.Counters, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if counters == nil {
		counters = metrics.New()
	}

	return &Manager{
		cfg:       cfg,
		handler:   handler,
		counters:  counters,
		logger:    logger,
		newClient: NewClient,
		subs:      make(map[string]struct{}),
	}
}

// Start opens the connection. A failed initial dial is not an error: the
// reconnect loop takes over, exactly as it would mid-session.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.Connect()
	return nil
}

// Stop closes the socket and cancels any pending reconnect, so no orphaned
// reconnect loop survives the consuming view.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	m.stopped = true
	if m.reconnect != nil {
		m.reconnect.Stop()
		m.reconnect = nil
	}
	cli := m.client
	m.client = nil
	m.state = StateClosed
	m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
	}
	if cli != nil {
		cli.Close()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("connection manager stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscriptions returns the current subscription set, sorted.
func (m *Manager) Subscriptions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.symbolsLocked()
}

// Subscribed reports whether a symbol is in the subscription set.
func (m *Manager) Subscribed(symbol string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[symbol]
	return ok
}

// Connect dials the push endpoint. Idempotent: a no-op while already
// connecting or open.
func (m *Manager) Connect() {
	m.mu.Lock()
	if m.stopped || m.state != StateClosed {
		m.mu.Unlock()
		return
	}
	m.state = StateConnecting
	m.mu.Unlock()

	cli := m.newClient(ClientConfig{
		URL:          m.cfg.URL,
		PingTimeout:  m.cfg.PingTimeout,
		WriteTimeout: m.cfg.WriteTimeout,
		BufferSize:   m.cfg.BufferSize,
	}, m.logger)

	if err := cli.Connect(m.ctx); err != nil {
		m.logger.Warn("connect failed", "url", m.cfg.URL, "error", err)
		m.mu.Lock()
		m.state = StateClosed
		m.scheduleReconnectLocked()
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		cli.Close()
		return
	}
	m.client = cli
	m.state = StateOpen
	symbols := m.symbolsLocked()
	m.mu.Unlock()

	m.logger.Info("stream connected", "url", m.cfg.URL, "subscriptions", len(symbols))

	// Replay: the server holds no subscription state across disconnects, so
	// the full current set goes out in one frame.
	if len(symbols) > 0 {
		if err := m.sendControl(cli, "subscribe", symbols); err != nil {
			m.logger.Warn("subscription replay failed", "error", err)
		}
	}

	m.wg.Add(1)
	go m.readLoop(cli)
}

// Subscribe adds symbols to the subscription set. When open, the control
// frame goes out immediately; otherwise delivery waits for the next
// successful connect.
func (m *Manager) Subscribe(symbols ...string) error {
	if len(symbols) == 0 {
		return nil
	}

	m.mu.Lock()
	for _, s := range symbols {
		m.subs[s] = struct{}{}
	}
	cli := m.client
	open := m.state == StateOpen
	m.mu.Unlock()

	if !open {
		return nil
	}
	return m.sendControl(cli, "subscribe", symbols)
}

// Unsubscribe removes symbols from the subscription set.
func (m *Manager) Unsubscribe(symbols ...string) error {
	if len(symbols) == 0 {
		return nil
	}

	m.mu.Lock()
	for _, s := range symbols {
		delete(m.subs, s)
	}
	cli := m.client
	open := m.state == StateOpen
	m.mu.Unlock()

	if !open {
		return nil
	}
	return m.sendControl(cli, "unsubscribe", symbols)
}

// readLoop consumes one client's messages until it errors or closes.
func (m *Manager) readLoop(cli Client) {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return

		case err := <-cli.Errors():
			m.logger.Warn("connection error", "error", err)
			m.handleClose(cli)
			return

		case msg, ok := <-cli.Messages():
			if !ok {
				m.handleClose(cli)
				return
			}

			if !json.Valid(msg.Data) {
				m.counters.FramesDropped.Add(1)
				m.logger.Warn("malformed frame dropped", "bytes", len(msg.Data))
				continue
			}

			m.counters.FramesReceived.Add(1)
			m.handler.HandleFrame(Frame{
				Data:       msg.Data,
				ReceivedAt: msg.ReceivedAt,
			})
		}
	}
}

// handleClose transitions to closed and arms exactly one reconnect.
func (m *Manager) handleClose(cli Client) {
	cli.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	// A stale read loop from a superseded client must not disturb the
	// current connection.
	if m.stopped || m.client != cli {
		return
	}

	m.client = nil
	m.state = StateClosed
	m.scheduleReconnectLocked()
}

// scheduleReconnectLocked arms the reconnect timer if none is pending.
// Callers hold m.mu.
func (m *Manager) scheduleReconnectLocked() {
	if m.stopped || m.reconnect != nil {
		return
	}

	m.counters.Reconnects.Add(1)
	m.logger.Info("reconnect scheduled", "delay", m.cfg.ReconnectDelay)

	m.reconnect = time.AfterFunc(m.cfg.ReconnectDelay, func() {
		m.mu.Lock()
		m.reconnect = nil
		m.mu.Unlock()
		m.Connect()
	})
}

// sendControl marshals and sends a subscription control frame.
func (m *Manager) sendControl(cli Client, action string, symbols []string) error {
	data, err := json.Marshal(controlFrame{Action: action, Symbols: symbols})
	if err != nil {
		return err
	}
	return cli.Send(data)
}

// symbolsLocked returns the subscription set sorted. Callers hold m.mu.
func (m *Manager) symbolsLocked() []string {
	symbols := make([]string, 0, len(m.subs))
	for s := range m.subs {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
