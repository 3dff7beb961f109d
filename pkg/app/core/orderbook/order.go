package orderbook

import "github.com/shopspring/decimal"

// Side tags an order as a bid or an ask.
type Side int8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Opposite returns the contra side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// sideRule fixes the side-dependent behaviors in one place instead of
// switching on the side in every method: how an incoming limit crosses a
// resting price, and which of two prices outranks the other on this side's
// queue.
type sideRule struct {
	crosses  func(limit, resting decimal.Decimal) bool
	outranks func(a, b decimal.Decimal) bool
}

var sideRules = [2]sideRule{
	Buy: {
		// A buy lifts any ask at or below its limit; higher bids rank first.
		crosses:  func(limit, resting decimal.Decimal) bool { return resting.LessThanOrEqual(limit) },
		outranks: func(a, b decimal.Decimal) bool { return a.GreaterThan(b) },
	},
	Sell: {
		// A sell hits any bid at or above its limit; lower asks rank first.
		crosses:  func(limit, resting decimal.Decimal) bool { return resting.GreaterThanOrEqual(limit) },
		outranks: func(a, b decimal.Decimal) bool { return a.LessThan(b) },
	},
}

func (s Side) rule() sideRule { return sideRules[s] }

// Order is an admitted limit order. Everything but Remaining is fixed at
// construction. Seq totally orders all orders ever admitted, across every
// instrument, and is the sole tie-breaker at equal prices (earlier wins).
type Order struct {
	Client    string
	Side      Side
	Symbol    string
	Price     decimal.Decimal
	Remaining int64
	Seq       uint64
}

func NewOrder(client string, side Side, symbol string, price decimal.Decimal, qty int64, seq uint64) *Order {
	return &Order{
		Client:    client,
		Side:      side,
		Symbol:    symbol,
		Price:     price,
		Remaining: qty,
		Seq:       seq,
	}
}

// Crosses reports whether resting is matchable against o's limit price.
func (o *Order) Crosses(resting *Order) bool {
	return o.Side.rule().crosses(o.Price, resting.Price)
}

// Sequence hands out arrival sequence numbers, strictly increasing across
// the whole session regardless of instrument. One instance per exchange;
// deliberately not package-level state so a session fully owns its ordering.
type Sequence struct {
	last uint64
}

func NewSequence() *Sequence { return &Sequence{} }

func (s *Sequence) Next() uint64 {
	s.last++
	return s.last
}
