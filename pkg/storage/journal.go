// Package storage persists run artifacts. The trade journal is an
// append-only record of every fill of a run, useful for post-run
// reconciliation against the result snapshot; it is not a recovery log.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	"github.com/avykov/stockex/pkg/app/core/orderbook"
	"github.com/avykov/stockex/pkg/util"
)

// TradeRecord is the persisted form of one fill. Price is exact decimal
// text, the same representation the result snapshot uses.
type TradeRecord struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Price    string `json:"price"`
	Qty      int64  `json:"qty"`
	Buyer    string `json:"buyer"`
	Seller   string `json:"seller"`
	TakerSeq uint64 `json:"taker_seq"`
	MakerSeq uint64 `json:"maker_seq"`
	LoggedAt int64  `json:"logged_at"` // unix milliseconds
}

// TradeJournal appends fills to a Pebble database, keyed by a monotonically
// increasing journal index so iteration replays execution order.
type TradeJournal struct {
	db    *pebble.DB
	clock util.Clock
	next  uint64
}

func OpenTradeJournal(path string) (*TradeJournal, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open trade journal: %w", err)
	}
	return &TradeJournal{db: db, clock: util.RealClock{}}, nil
}

func (j *TradeJournal) Close() error { return j.db.Close() }

// keys: t:<8-byte big-endian index>
func kTrade(i uint64) []byte {
	key := append(make([]byte, 0, 10), 't', ':')
	return binary.BigEndian.AppendUint64(key, i)
}

// Record appends one fill. Satisfies exchange.Journal.
func (j *TradeJournal) Record(f orderbook.Fill) error {
	rec := TradeRecord{
		ID:       uuid.NewString(),
		Symbol:   f.Symbol,
		Price:    f.Price.String(),
		Qty:      f.Qty,
		Buyer:    f.Buyer,
		Seller:   f.Seller,
		TakerSeq: f.TakerSeq,
		MakerSeq: f.MakerSeq,
		LoggedAt: j.clock.Now().UnixMilli(),
	}
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode trade: %w", err)
	}
	j.next++
	if err := j.db.Set(kTrade(j.next), val, pebble.Sync); err != nil {
		return fmt.Errorf("append trade: %w", err)
	}
	return nil
}

// Trades returns every recorded fill in execution order.
func (j *TradeJournal) Trades() ([]TradeRecord, error) {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("t:"),
		UpperBound: []byte("t;"), // ';' is ':'+1
	})
	if err != nil {
		return nil, fmt.Errorf("iterate trade journal: %w", err)
	}
	defer iter.Close()

	var out []TradeRecord
	for iter.First(); iter.Valid(); iter.Next() {
		var rec TradeRecord
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("decode trade at %x: %w", iter.Key(), err)
		}
		out = append(out, rec)
	}
	return out, iter.Error()
}
