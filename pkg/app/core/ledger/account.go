package ledger

import "github.com/shopspring/decimal"

// Account holds one client's cash balance and per-symbol holdings.
// Cash is an exact decimal; holdings are whole shares only.
// Not safe for concurrent use — the exchange processes orders one at a time.
type Account struct {
	Name     string
	Cash     decimal.Decimal
	Holdings map[string]int64
}

func NewAccount(name string, cash decimal.Decimal) *Account {
	return &Account{
		Name:     name,
		Cash:     cash,
		Holdings: make(map[string]int64),
	}
}

// Qty returns the held quantity of symbol, zero when never held.
func (a *Account) Qty(symbol string) int64 {
	return a.Holdings[symbol]
}
