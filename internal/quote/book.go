// Package quote maintains the latest streamed quote per symbol for the
// dashboard's display widgets.
package quote

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"
)

// quoteFrame is the tolerated wire shape of a quote push frame. Decimal
// fields accept both JSON numbers and quoted numbers.
type quoteFrame struct {
	Symbol  string           `json:"symbol"`
	Last    *decimal.Decimal `json:"last"`
	Bid     *decimal.Decimal `json:"bid"`
	Ask     *decimal.Decimal `json:"ask"`
	BidSize int64            `json:"bid_size"`
	AskSize int64            `json:"ask_size"`
}

// Parse extracts a quote from a push frame. Returns false for frames that
// are not quotes (no symbol) — those are some other frame kind, not an
// error.
func Parse(data []byte, receivedAt time.Time) (model.Quote, bool) {
	var frame quoteFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return model.Quote{}, false
	}
	if frame.Symbol == "" {
		return model.Quote{}, false
	}

	q := model.Quote{
		Symbol:     frame.Symbol,
		BidSize:    frame.BidSize,
		AskSize:    frame.AskSize,
		ReceivedAt: receivedAt,
	}
	if frame.Last != nil {
		q.Last = *frame.Last
	}
	if frame.Bid != nil {
		q.Bid = *frame.Bid
	}
	if frame.Ask != nil {
		q.Ask = *frame.Ask
	}

	return q, true
}

// Book holds the latest quote per symbol.
type Book struct {
	mu     sync.RWMutex
	quotes map[string]model.Quote
}

// NewBook creates an empty quote book.
func NewBook() *Book {
	return &Book{
		quotes: make(map[string]model.Quote),
	}
}

// Apply stores the quote as the latest for its symbol.
func (b *Book) Apply(q model.Quote) {
	b.mu.Lock()
	b.quotes[q.Symbol] = q
	b.mu.Unlock()
}

// Get returns the latest quote for a symbol.
func (b *Book) Get(symbol string) (model.Quote, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	q, ok := b.quotes[symbol]
	return q, ok
}

// Symbols returns all symbols with a quote, sorted.
func (b *Book) Symbols() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	symbols := make([]string, 0, len(b.quotes))
	for s := range b.quotes {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Len returns the number of symbols tracked.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.quotes)
}
