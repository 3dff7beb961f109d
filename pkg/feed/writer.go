package feed

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/avykov/stockex/pkg/app/core/ledger"
)

// WriteClients serializes the ledger in the clients snapshot layout, in
// registration order, cash as exact decimal text. A run's output is valid
// input for the next run.
func WriteClients(w io.Writer, l *ledger.Ledger) error {
	bw := bufio.NewWriter(w)
	fields := make([]string, 0, 2+len(Symbols))
	for _, acc := range l.Accounts() {
		fields = fields[:0]
		fields = append(fields, acc.Name, acc.Cash.String())
		for _, symbol := range Symbols {
			fields = append(fields, strconv.FormatInt(acc.Qty(symbol), 10))
		}
		if _, err := bw.WriteString(strings.Join(fields, "\t")); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
