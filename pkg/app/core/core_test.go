package core_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/avykov/stockex/pkg/app/core"
)

// End-to-end smoke test through the aggregate import path: seed two clients,
// cross one trade, and check both sides of the settlement.
func TestCoreRoundTrip(t *testing.T) {
	book := core.NewLedger()
	if err := book.Register("maker", decimal.NewFromInt(0), map[string]int64{"A": 25}); err != nil {
		t.Fatalf("register maker: %v", err)
	}
	if err := book.Register("taker", decimal.NewFromInt(500), nil); err != nil {
		t.Fatalf("register taker: %v", err)
	}

	ex := core.NewExchange(book)

	if _, err := ex.Submit(core.Request{
		Client: "maker", Side: core.Sell, Symbol: "A",
		Price: decimal.NewFromInt(20), Qty: 25,
	}); err != nil {
		t.Fatalf("maker submit: %v", err)
	}

	fills, err := ex.Submit(core.Request{
		Client: "taker", Side: core.Buy, Symbol: "A",
		Price: decimal.NewFromInt(20), Qty: 10,
	})
	if err != nil {
		t.Fatalf("taker submit: %v", err)
	}
	if len(fills) != 1 || fills[0].Qty != 10 {
		t.Fatalf("expected one fill of 10, got %+v", fills)
	}

	taker, _ := book.Get("taker")
	if !taker.Cash.Equal(decimal.NewFromInt(300)) || taker.Qty("A") != 10 {
		t.Errorf("taker after fill: cash=%s holdings=%d", taker.Cash, taker.Qty("A"))
	}
	maker, _ := book.Get("maker")
	if !maker.Cash.Equal(decimal.NewFromInt(200)) || maker.Qty("A") != 15 {
		t.Errorf("maker after fill: cash=%s holdings=%d", maker.Cash, maker.Qty("A"))
	}
}
