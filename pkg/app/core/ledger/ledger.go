// Package ledger is the owning registry of client accounts and the sole
// place balances are mutated. The order books drive it through Settle, one
// call per fill.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownClient        = errors.New("unknown client")
	ErrDuplicateClient      = errors.New("client already registered")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)

// Ledger maps client names to accounts. Iteration order is registration
// order, so snapshot export reproduces the input layout line for line.
type Ledger struct {
	accounts map[string]*Account
	names    []string
}

func New() *Ledger {
	return &Ledger{accounts: make(map[string]*Account)}
}

// Register seeds a new account. Initial cash and holdings must be
// non-negative; later settlement is allowed to take cash below zero.
func (l *Ledger) Register(name string, cash decimal.Decimal, holdings map[string]int64) error {
	if cash.IsNegative() {
		return fmt.Errorf("register %s: negative cash %s", name, cash)
	}
	if _, exists := l.accounts[name]; exists {
		return fmt.Errorf("register %s: %w", name, ErrDuplicateClient)
	}
	acc := NewAccount(name, cash)
	for symbol, qty := range holdings {
		if qty < 0 {
			return fmt.Errorf("register %s: negative holdings %d of %s", name, qty, symbol)
		}
		acc.Holdings[symbol] = qty
	}
	l.accounts[name] = acc
	l.names = append(l.names, name)
	return nil
}

func (l *Ledger) Get(name string) (*Account, error) {
	acc, ok := l.accounts[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownClient)
	}
	return acc, nil
}

func (l *Ledger) Has(name string) bool {
	_, ok := l.accounts[name]
	return ok
}

// Holding returns the client's current quantity of symbol, zero for an
// unknown client.
func (l *Ledger) Holding(name, symbol string) int64 {
	acc, ok := l.accounts[name]
	if !ok {
		return 0
	}
	return acc.Qty(symbol)
}

// CheckSellable reports whether the client's current holdings cover a sell
// of qty. This is the only holdings check in the system: it runs once when
// an order is admitted, never per partial fill.
func (l *Ledger) CheckSellable(name, symbol string, qty int64) error {
	acc, err := l.Get(name)
	if err != nil {
		return err
	}
	if have := acc.Qty(symbol); have < qty {
		return fmt.Errorf("sell %d %s for %s, holding %d: %w",
			qty, symbol, name, have, ErrInsufficientHoldings)
	}
	return nil
}

// Settle applies both legs of one fill as a single step: the buyer pays
// price×qty and receives qty of symbol, the seller the reverse. Cash is not
// bounds-checked here — a buy settlement may take the buyer's balance
// negative — and holdings are not re-checked, since the sell-side cover was
// verified when the order was admitted.
func (l *Ledger) Settle(symbol, buyer, seller string, price decimal.Decimal, qty int64) error {
	b, err := l.Get(buyer)
	if err != nil {
		return fmt.Errorf("settle buyer: %w", err)
	}
	s, err := l.Get(seller)
	if err != nil {
		return fmt.Errorf("settle seller: %w", err)
	}

	notional := price.Mul(decimal.NewFromInt(qty))
	b.Cash = b.Cash.Sub(notional)
	b.Holdings[symbol] += qty
	s.Cash = s.Cash.Add(notional)
	s.Holdings[symbol] -= qty
	return nil
}

// Accounts returns every account in registration order.
func (l *Ledger) Accounts() []*Account {
	out := make([]*Account, 0, len(l.names))
	for _, name := range l.names {
		out = append(out, l.accounts[name])
	}
	return out
}

// Count returns the number of registered accounts.
func (l *Ledger) Count() int {
	return len(l.accounts)
}
