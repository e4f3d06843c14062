package chart

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"
)

// Hub fans chart commands out to attached front-end clients over WebSocket.
// It also doubles as the Container: clients report their viewport size and
// the hub remembers the most recent report.
type Hub struct {
	logger *slog.Logger

	clients    map[*hubClient]struct{}
	broadcast  chan []byte
	register   chan *hubClient
	unregister chan *hubClient

	// Latest client-reported viewport.
	viewMu     sync.RWMutex
	viewWidth  int
	viewHeight int
	viewOK     bool

	closeMu sync.Mutex
	closed  bool
	done    chan struct{}
}

// viewportMsg is the client→hub layout report.
type viewportMsg struct {
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// NewHub creates a chart hub. Run must be started before surfaces send.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:     logger,
		clients:    make(map[*hubClient]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *hubClient),
		unregister: make(chan *hubClient),
		done:       make(chan struct{}),
	}
}

// Run is the hub loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Info("chart client attached", "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client too slow; prune it so the hub never blocks.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// PublishQuote mirrors a quote to attached clients for ticker widgets.
func (h *Hub) PublishQuote(q model.Quote) error {
	return h.send(quoteMessage{
		Cmd:     "quote",
		Symbol:  q.Symbol,
		Last:    q.Last.String(),
		Bid:     q.Bid.String(),
		Ask:     q.Ask.String(),
		BidSize: q.BidSize,
		AskSize: q.AskSize,
	})
}

// quoteMessage is the hub→front-end quote push.
type quoteMessage struct {
	Cmd     string `json:"cmd"`
	Symbol  string `json:"symbol"`
	Last    string `json:"last"`
	Bid     string `json:"bid"`
	Ask     string `json:"ask"`
	BidSize int64  `json:"bid_size"`
	AskSize int64  `json:"ask_size"`
}

// Size implements Container from the latest viewport report.
func (h *Hub) Size() (int, int, bool) {
	h.viewMu.RLock()
	defer h.viewMu.RUnlock()
	return h.viewWidth, h.viewHeight, h.viewOK
}

// send enqueues a command for broadcast. Returns false when the hub is shut
// down or saturated.
func (h *Hub) send(cmd any) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	select {
	case <-h.done:
		return ErrHubClosed
	case h.broadcast <- data:
		return nil
	default:
		h.logger.Warn("chart command buffer full, dropping command")
		return nil
	}
}

func (h *Hub) setViewport(width, height int) {
	h.viewMu.Lock()
	h.viewWidth = width
	h.viewHeight = height
	h.viewOK = width > 0 && height > 0
	h.viewMu.Unlock()
}

func (h *Hub) shutdown() {
	h.closeMu.Lock()
	if !h.closed {
		h.closed = true
		close(h.done)
	}
	h.closeMu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// ServeHTTP upgrades a front-end connection and attaches it to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := hubUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("chart client upgrade failed", "error", err)
		return
	}

	client := &hubClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
	}

	select {
	case <-h.done:
		conn.Close()
		return
	case h.register <- client:
	}

	go client.writePump()
	go client.readPump()
}
