package orderbook

import (
	"testing"

	"github.com/shopspring/decimal"
)

type settleCall struct {
	symbol string
	buyer  string
	seller string
	price  decimal.Decimal
	qty    int64
}

// stubSettler records settlement calls without touching any balances.
type stubSettler struct {
	calls []settleCall
}

func (s *stubSettler) Settle(symbol, buyer, seller string, price decimal.Decimal, qty int64) error {
	s.calls = append(s.calls, settleCall{symbol, buyer, seller, price, qty})
	return nil
}

type fixture struct {
	book    *Book
	settler *stubSettler
	seq     *Sequence
}

func newFixture() *fixture {
	settler := &stubSettler{}
	return &fixture{
		book:    NewBook("A", settler, nil),
		settler: settler,
		seq:     NewSequence(),
	}
}

func (f *fixture) submit(t *testing.T, client string, side Side, price string, qty int64) []Fill {
	t.Helper()
	o := NewOrder(client, side, "A", decimal.RequireFromString(price), qty, f.seq.Next())
	fills, err := f.book.Submit(o)
	if err != nil {
		t.Fatalf("Submit(%s %s %s×%d): %v", client, side, price, qty, err)
	}
	return fills
}

func TestRestsWhenNoCross(t *testing.T) {
	f := newFixture()
	f.submit(t, "C1", Sell, "10", 5)

	// A buy below the best ask must not trade and must rest.
	fills := f.submit(t, "C2", Buy, "9", 3)
	if len(fills) != 0 {
		t.Fatalf("expected no fills, got %d", len(fills))
	}
	if len(f.settler.calls) != 0 {
		t.Errorf("ledger touched on non-crossing order")
	}
	if f.book.Depth(Buy) != 1 || f.book.Depth(Sell) != 1 {
		t.Errorf("book depth: bids=%d asks=%d, want 1/1", f.book.Depth(Buy), f.book.Depth(Sell))
	}
}

func TestSettlesAtMakerPrice(t *testing.T) {
	f := newFixture()
	f.submit(t, "C1", Sell, "100", 10)

	fills := f.submit(t, "C2", Buy, "105", 10)
	if len(fills) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(fills))
	}
	if !fills[0].Price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("fill price: want maker's 100, got %s", fills[0].Price)
	}
	if fills[0].Buyer != "C2" || fills[0].Seller != "C1" {
		t.Errorf("fill parties: buyer=%s seller=%s", fills[0].Buyer, fills[0].Seller)
	}
	if !f.settler.calls[0].price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("settled price: want 100, got %s", f.settler.calls[0].price)
	}
}

func TestPriceTimePriority(t *testing.T) {
	f := newFixture()
	f.submit(t, "C1", Sell, "100", 5) // seq 1, first at price
	f.submit(t, "C2", Sell, "100", 5) // seq 2

	fills := f.submit(t, "C3", Buy, "100", 5)
	if len(fills) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(fills))
	}
	if fills[0].Seller != "C1" {
		t.Errorf("expected earlier order (C1) to fill first, got %s", fills[0].Seller)
	}
	if best := f.book.Best(Sell); best == nil || best.Client != "C2" {
		t.Errorf("C2's order should remain at the top of the asks")
	}
}

func TestWalksPriceLevelsAtEachMakersPrice(t *testing.T) {
	f := newFixture()
	f.submit(t, "C1", Sell, "100", 5)
	f.submit(t, "C2", Sell, "101", 5)

	fills := f.submit(t, "C3", Buy, "101", 8)
	if len(fills) != 2 {
		t.Fatalf("expected 2 fills, got %d", len(fills))
	}
	if !fills[0].Price.Equal(decimal.NewFromInt(100)) || fills[0].Qty != 5 {
		t.Errorf("first fill: want 5@100, got %d@%s", fills[0].Qty, fills[0].Price)
	}
	if !fills[1].Price.Equal(decimal.NewFromInt(101)) || fills[1].Qty != 3 {
		t.Errorf("second fill: want 3@101, got %d@%s", fills[1].Qty, fills[1].Price)
	}

	rest := f.book.Resting(Sell)
	if len(rest) != 1 || rest[0].Remaining != 2 {
		t.Fatalf("expected one ask of 2 remaining, got %+v", rest)
	}
}

func TestPartialFillKeepsMakerRank(t *testing.T) {
	f := newFixture()
	f.submit(t, "C1", Sell, "100", 50) // seq 1
	f.submit(t, "C2", Buy, "100", 10)

	best := f.book.Best(Sell)
	if best == nil {
		t.Fatal("partially filled maker should still rest")
	}
	if best.Remaining != 40 {
		t.Errorf("maker remaining: want 40, got %d", best.Remaining)
	}
	if best.Seq != 1 {
		t.Errorf("maker sequence changed on reinsert: %d", best.Seq)
	}

	// A later order at the same price queues behind it.
	f.submit(t, "C3", Sell, "100", 5)
	if best := f.book.Best(Sell); best.Seq != 1 {
		t.Errorf("reinserted maker lost time priority to seq %d", best.Seq)
	}
}

func TestSelfTradeSkipped(t *testing.T) {
	f := newFixture()
	f.submit(t, "C1", Sell, "100", 10) // seq 1, crossable but self-owned

	fills := f.submit(t, "C1", Buy, "100", 10)
	if len(fills) != 0 {
		t.Fatalf("self-trade produced %d fills", len(fills))
	}
	if len(f.settler.calls) != 0 {
		t.Error("ledger touched by a self-trade")
	}
	if f.book.Depth(Buy) != 1 {
		t.Error("incoming order should rest after self-only cross")
	}
	ask := f.book.Best(Sell)
	if ask == nil || ask.Seq != 1 || ask.Remaining != 10 {
		t.Fatalf("set-aside order not restored untouched: %+v", ask)
	}
}

func TestSelfTradeSkipFindsDeeperCounterparty(t *testing.T) {
	f := newFixture()
	f.submit(t, "C1", Sell, "100", 5) // seq 1, best ask, self-owned
	f.submit(t, "C2", Sell, "100", 5) // seq 2, behind C1

	fills := f.submit(t, "C1", Buy, "100", 5)
	if len(fills) != 1 {
		t.Fatalf("expected 1 fill against C2, got %d", len(fills))
	}
	if fills[0].Seller != "C2" {
		t.Errorf("expected counterparty C2, got %s", fills[0].Seller)
	}

	// C1's skipped order is back at its original rank: still ahead of any
	// later arrival at the same price, still matchable by a third party.
	best := f.book.Best(Sell)
	if best == nil || best.Client != "C1" || best.Seq != 1 {
		t.Fatalf("skipped order lost its rank: %+v", best)
	}
	fills = f.submit(t, "C3", Buy, "100", 5)
	if len(fills) != 1 || fills[0].Seller != "C1" {
		t.Fatalf("skipped order not matchable at original rank: %+v", fills)
	}
}

func TestFillSidesMapTakerAndMaker(t *testing.T) {
	f := newFixture()
	f.submit(t, "C1", Buy, "100", 5) // maker bid, seq 1

	fills := f.submit(t, "C2", Sell, "100", 5)
	if len(fills) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(fills))
	}
	fill := fills[0]
	if fill.Buyer != "C1" || fill.Seller != "C2" {
		t.Errorf("parties: buyer=%s seller=%s", fill.Buyer, fill.Seller)
	}
	if fill.MakerSeq != 1 || fill.TakerSeq != 2 {
		t.Errorf("sequences: maker=%d taker=%d", fill.MakerSeq, fill.TakerSeq)
	}
}
