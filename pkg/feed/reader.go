// Package feed holds the text adapters around the engine: the tab-separated
// clients snapshot, the order feed, and the result snapshot. Field layout is
// an adapter concern; the engine never sees raw lines.
package feed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avykov/stockex/pkg/app/core/exchange"
	"github.com/avykov/stockex/pkg/app/core/ledger"
	"github.com/avykov/stockex/pkg/app/core/orderbook"
)

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrUnknownSide    = errors.New("unknown order side")
)

// Symbols is the fixed instrument set of the clients snapshot layout: one
// column of holdings per symbol, in this order.
var Symbols = []string{"A", "B", "C", "D"}

// LoadClients reads the clients snapshot — one client per line,
// name<TAB>cash<TAB>qtyA<TAB>qtyB<TAB>qtyC<TAB>qtyD — and registers each
// account. Any unparseable line aborts the whole load.
func LoadClients(r io.Reader, l *ledger.Ledger) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2+len(Symbols) {
			return fmt.Errorf("clients line %d: want %d fields, got %d: %w",
				lineNo, 2+len(Symbols), len(fields), ErrMalformedInput)
		}
		cash, err := decimal.NewFromString(fields[1])
		if err != nil {
			return fmt.Errorf("clients line %d: cash %q: %w", lineNo, fields[1], ErrMalformedInput)
		}
		holdings := make(map[string]int64, len(Symbols))
		for i, symbol := range Symbols {
			qty, err := strconv.ParseInt(fields[2+i], 10, 64)
			if err != nil {
				return fmt.Errorf("clients line %d: %s quantity %q: %w",
					lineNo, symbol, fields[2+i], ErrMalformedInput)
			}
			holdings[symbol] = qty
		}
		if err := l.Register(fields[0], cash, holdings); err != nil {
			return fmt.Errorf("clients line %d: %w", lineNo, err)
		}
	}
	return sc.Err()
}

// ParseSide maps the feed's one-letter side token, case-insensitive:
// "b" buys, "s" sells.
func ParseSide(token string) (orderbook.Side, error) {
	switch strings.ToLower(token) {
	case "b":
		return orderbook.Buy, nil
	case "s":
		return orderbook.Sell, nil
	}
	return 0, fmt.Errorf("side token %q: %w", token, ErrUnknownSide)
}

// ParseOrder parses one order feed line:
// client<TAB>side<TAB>symbol<TAB>price<TAB>quantity.
func ParseOrder(line string) (exchange.Request, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 5 {
		return exchange.Request{}, fmt.Errorf("want 5 fields, got %d: %w", len(fields), ErrMalformedInput)
	}
	side, err := ParseSide(fields[1])
	if err != nil {
		return exchange.Request{}, err
	}
	price, err := decimal.NewFromString(fields[3])
	if err != nil || price.Sign() <= 0 {
		return exchange.Request{}, fmt.Errorf("price %q: %w", fields[3], ErrMalformedInput)
	}
	qty, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil || qty <= 0 {
		return exchange.Request{}, fmt.Errorf("quantity %q: %w", fields[4], ErrMalformedInput)
	}
	return exchange.Request{
		Client: fields[0],
		Side:   side,
		Symbol: fields[2],
		Price:  price,
		Qty:    qty,
	}, nil
}

// Replay reads the order feed and submits each order in arrival order. An
// uncovered sell rejects only that order; every other error aborts the
// remaining feed.
func Replay(r io.Reader, ex *exchange.Exchange, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		req, err := ParseOrder(line)
		if err != nil {
			return fmt.Errorf("orders line %d: %w", lineNo, err)
		}
		if _, err := ex.Submit(req); err != nil {
			if errors.Is(err, ledger.ErrInsufficientHoldings) {
				log.Warn("order rejected", zap.Int("line", lineNo), zap.Error(err))
				continue
			}
			return fmt.Errorf("orders line %d: %w", lineNo, err)
		}
	}
	return sc.Err()
}
