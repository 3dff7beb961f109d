// Package exchange routes admitted orders to per-instrument books and owns
// the session-wide arrival sequencing and admission checks.
package exchange

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avykov/stockex/pkg/app/core/ledger"
	"github.com/avykov/stockex/pkg/app/core/orderbook"
)

// Journal records executed fills. Implemented by storage.TradeJournal.
// A nil journal disables recording.
type Journal interface {
	Record(fill orderbook.Fill) error
}

// Request is an order as it arrives from the feed, before admission. It has
// no sequence number yet; one is assigned only when the request passes
// validation.
type Request struct {
	Client string
	Side   orderbook.Side
	Symbol string
	Price  decimal.Decimal
	Qty    int64
}

// Exchange holds the ledger and one book per instrument. Books are created
// lazily on the first order for a symbol; the registry keeps first-reference
// order so diagnostics iterate deterministically.
type Exchange struct {
	ledger  *ledger.Ledger
	books   map[string]*orderbook.Book
	symbols []string
	seq     *orderbook.Sequence
	journal Journal
	log     *zap.Logger
}

// Option configures an Exchange.
type Option func(*Exchange)

func WithLogger(log *zap.Logger) Option {
	return func(e *Exchange) { e.log = log }
}

func WithJournal(j Journal) Option {
	return func(e *Exchange) { e.journal = j }
}

func New(l *ledger.Ledger, opts ...Option) *Exchange {
	e := &Exchange{
		ledger: l,
		books:  make(map[string]*orderbook.Book),
		seq:    orderbook.NewSequence(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Submit validates req, assigns its arrival sequence, and runs it through
// the book for its symbol.
//
// Admission rules: the client must be registered, and a sell must be covered
// by the client's holdings as of this moment — that check rejects only this
// order and is not repeated per partial fill. A buy is never checked against
// cash; settlement may take a balance negative.
func (e *Exchange) Submit(req Request) ([]orderbook.Fill, error) {
	if req.Price.Sign() <= 0 {
		return nil, fmt.Errorf("submit for %s: price %s must be positive", req.Client, req.Price)
	}
	if req.Qty <= 0 {
		return nil, fmt.Errorf("submit for %s: quantity %d must be positive", req.Client, req.Qty)
	}
	if !e.ledger.Has(req.Client) {
		return nil, fmt.Errorf("submit: %s: %w", req.Client, ledger.ErrUnknownClient)
	}
	if req.Side == orderbook.Sell {
		if err := e.ledger.CheckSellable(req.Client, req.Symbol, req.Qty); err != nil {
			return nil, err
		}
	}

	o := orderbook.NewOrder(req.Client, req.Side, req.Symbol, req.Price, req.Qty, e.seq.Next())
	fills, err := e.bookFor(req.Symbol).Submit(o)
	for _, f := range fills {
		if e.journal != nil {
			if jerr := e.journal.Record(f); jerr != nil {
				e.log.Warn("journal write failed", zap.Error(jerr))
			}
		}
	}
	e.log.Info("order processed",
		zap.Uint64("seq", o.Seq),
		zap.String("client", req.Client),
		zap.String("side", req.Side.String()),
		zap.String("symbol", req.Symbol),
		zap.Int("fills", len(fills)),
		zap.Int64("rested", o.Remaining),
	)
	return fills, err
}

func (e *Exchange) bookFor(symbol string) *orderbook.Book {
	if b, ok := e.books[symbol]; ok {
		return b
	}
	b := orderbook.NewBook(symbol, e.ledger, e.log)
	e.books[symbol] = b
	e.symbols = append(e.symbols, symbol)
	return b
}

// Book returns the book for symbol, if one has been created.
func (e *Exchange) Book(symbol string) (*orderbook.Book, bool) {
	b, ok := e.books[symbol]
	return b, ok
}

// Books returns every book in first-reference order.
func (e *Exchange) Books() []*orderbook.Book {
	out := make([]*orderbook.Book, 0, len(e.symbols))
	for _, symbol := range e.symbols {
		out = append(out, e.books[symbol])
	}
	return out
}

func (e *Exchange) Ledger() *ledger.Ledger { return e.ledger }
