// Package orderbook implements the per-instrument limit order book and its
// continuous double-auction matching loop: price-time priority, maker-price
// settlement, partial fills, and self-trade exclusion.
package orderbook

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Fill is one execution between an incoming (taker) order and a resting
// (maker) order. Price is always the maker's limit price, never the taker's.
type Fill struct {
	Symbol   string
	Price    decimal.Decimal
	Qty      int64
	Buyer    string
	Seller   string
	TakerSeq uint64
	MakerSeq uint64
}

// Settler applies both balance legs of a fill as one step. No other order is
// processed while a Settle call is in flight. Implemented by ledger.Ledger.
type Settler interface {
	Settle(symbol, buyer, seller string, price decimal.Decimal, qty int64) error
}

// Book is the order book for a single instrument: two priority queues of
// resting orders and the matching loop that crosses incoming orders against
// them under price-time priority.
type Book struct {
	symbol  string
	queues  [2]*sideQueue // indexed by Side
	settler Settler
	log     *zap.Logger
}

func NewBook(symbol string, settler Settler, log *zap.Logger) *Book {
	if log == nil {
		log = zap.NewNop()
	}
	return &Book{
		symbol:  symbol,
		queues:  [2]*sideQueue{Buy: newSideQueue(Buy), Sell: newSideQueue(Sell)},
		settler: settler,
		log:     log,
	}
}

func (b *Book) Symbol() string { return b.symbol }

// Submit matches incoming against the opposite side of the book until it no
// longer crosses, then rests any remainder on its own side.
//
// Resting orders owned by the incoming order's client are never traded
// against: each is set aside for the duration of the match and reinserted
// afterwards, where its unchanged arrival sequence restores its exact
// price-time rank. A taker that walks several price levels fills each
// resting order at that order's own price.
func (b *Book) Submit(incoming *Order) ([]Fill, error) {
	own := b.queues[incoming.Side]
	opp := b.queues[incoming.Side.Opposite()]

	var fills []Fill
	var setAside []*Order

	for incoming.Remaining > 0 {
		resting := opp.peek()
		if resting == nil || !incoming.Crosses(resting) {
			break
		}
		opp.pop()

		if resting.Client == incoming.Client {
			setAside = append(setAside, resting)
			continue
		}

		qty := min(incoming.Remaining, resting.Remaining)
		fill := b.fill(incoming, resting, qty)
		if err := b.settler.Settle(b.symbol, fill.Buyer, fill.Seller, fill.Price, qty); err != nil {
			opp.push(resting)
			b.reinsert(opp, setAside)
			return fills, err
		}
		incoming.Remaining -= qty
		resting.Remaining -= qty
		fills = append(fills, fill)

		b.log.Debug("fill",
			zap.String("symbol", b.symbol),
			zap.String("price", fill.Price.String()),
			zap.Int64("qty", qty),
			zap.String("buyer", fill.Buyer),
			zap.String("seller", fill.Seller),
		)

		if resting.Remaining > 0 {
			opp.push(resting)
		}
	}

	if incoming.Remaining > 0 {
		own.push(incoming)
	}
	b.reinsert(opp, setAside)
	return fills, nil
}

func (b *Book) fill(incoming, resting *Order, qty int64) Fill {
	f := Fill{
		Symbol:   b.symbol,
		Price:    resting.Price,
		Qty:      qty,
		TakerSeq: incoming.Seq,
		MakerSeq: resting.Seq,
	}
	if incoming.Side == Buy {
		f.Buyer, f.Seller = incoming.Client, resting.Client
	} else {
		f.Buyer, f.Seller = resting.Client, incoming.Client
	}
	return f
}

func (b *Book) reinsert(q *sideQueue, orders []*Order) {
	for _, o := range orders {
		q.push(o)
	}
}

// Depth returns the number of resting orders on one side.
func (b *Book) Depth(s Side) int { return b.queues[s].Len() }

// Best returns the highest-priority resting order on one side, nil when the
// side is empty.
func (b *Book) Best(s Side) *Order { return b.queues[s].peek() }

// Resting returns one side's orders in priority order. The slice is a copy;
// the orders are the live resting orders.
func (b *Book) Resting(s Side) []*Order { return b.queues[s].sorted() }
