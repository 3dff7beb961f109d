// Package core re-exports the engine subpackages so callers that want one
// import path can use it.
package core

import (
	"github.com/avykov/stockex/pkg/app/core/exchange"
	"github.com/avykov/stockex/pkg/app/core/ledger"
	"github.com/avykov/stockex/pkg/app/core/orderbook"
)

// From orderbook package
type (
	Side     = orderbook.Side
	Order    = orderbook.Order
	Fill     = orderbook.Fill
	Book     = orderbook.Book
	Sequence = orderbook.Sequence
)

const (
	Buy  = orderbook.Buy
	Sell = orderbook.Sell
)

// From ledger package
type (
	Account = ledger.Account
	Ledger  = ledger.Ledger
)

func NewLedger() *Ledger {
	return ledger.New()
}

// From exchange package
type (
	Exchange = exchange.Exchange
	Request  = exchange.Request
)

func NewExchange(l *Ledger, opts ...exchange.Option) *Exchange {
	return exchange.New(l, opts...)
}
