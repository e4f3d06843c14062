package quote

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"
)

func TestParse_Quote(t *testing.T) {
	data := []byte(`{"symbol":"AAPL","last":187.25,"bid":187.24,"ask":187.26,"bid_size":300,"ask_size":500}`)
	now := time.Now()

	q, ok := Parse(data, now)
	if !ok {
		t.Fatal("Parse returned false for a valid quote")
	}

	if q.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", q.Symbol)
	}
	if !q.Last.Equal(decimal.NewFromFloat(187.25)) {
		t.Errorf("Last = %s, want 187.25", q.Last)
	}
	if q.BidSize != 300 || q.AskSize != 500 {
		t.Errorf("sizes = %d/%d, want 300/500", q.BidSize, q.AskSize)
	}
	if !q.ReceivedAt.Equal(now) {
		t.Error("ReceivedAt not preserved")
	}
}

func TestParse_QuotedNumbers(t *testing.T) {
	data := []byte(`{"symbol":"MSFT","last":"402.90","bid":"402.88"}`)

	q, ok := Parse(data, time.Now())
	if !ok {
		t.Fatal("Parse returned false for quoted numbers")
	}

	if !q.Last.Equal(decimal.RequireFromString("402.90")) {
		t.Errorf("Last = %s, want 402.90", q.Last)
	}
	if !q.Bid.Equal(decimal.RequireFromString("402.88")) {
		t.Errorf("Bid = %s, want 402.88", q.Bid)
	}
	if !q.Ask.IsZero() {
		t.Errorf("Ask = %s, want zero for absent field", q.Ask)
	}
}

func TestParse_NotAQuote(t *testing.T) {
	cases := []string{
		`{"type":"heartbeat","ts":1705328200}`,
		`{}`,
		`not json at all`,
	}

	for _, data := range cases {
		if _, ok := Parse([]byte(data), time.Now()); ok {
			t.Errorf("Parse(%q) = true, want false", data)
		}
	}
}

func TestBook_ApplyAndGet(t *testing.T) {
	b := NewBook()

	if _, ok := b.Get("AAPL"); ok {
		t.Error("Get on empty book returned true")
	}

	b.Apply(model.Quote{Symbol: "AAPL", Last: decimal.NewFromFloat(187.25)})
	b.Apply(model.Quote{Symbol: "MSFT", Last: decimal.NewFromFloat(402.90)})

	// Later quote replaces the earlier one.
	b.Apply(model.Quote{Symbol: "AAPL", Last: decimal.NewFromFloat(187.30)})

	q, ok := b.Get("AAPL")
	if !ok {
		t.Fatal("Get returned false")
	}
	if !q.Last.Equal(decimal.NewFromFloat(187.30)) {
		t.Errorf("Last = %s, want the latest 187.30", q.Last)
	}

	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}

	symbols := b.Symbols()
	if len(symbols) != 2 || symbols[0] != "AAPL" || symbols[1] != "MSFT" {
		t.Errorf("Symbols = %v, want [AAPL MSFT]", symbols)
	}
}
