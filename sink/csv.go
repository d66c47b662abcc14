package sink

import (
	"bufio"
	"fmt"
	"io"

	"l1feed/domain/book"
)

const csvHeader = "recvTime,symbol,bid_price,bid_size,ask_price,ask_size\n"

// CSV renders one line per quote, prices converted back to exact
// decimals. An undefined side renders as empty price and zero size.
type CSV struct {
	w *bufio.Writer
}

// NewCSV wraps w and writes the header line immediately.
func NewCSV(w io.Writer) (*CSV, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(csvHeader); err != nil {
		return nil, err
	}
	return &CSV{w: bw}, nil
}

func (c *CSV) Accept(q book.Quote) {
	fmt.Fprintf(c.w, "%d,%s,%s,%d,%s,%d\n",
		q.Time, q.Symbol,
		renderPrice(q.Bid.Price), q.Bid.Volume,
		renderPrice(q.Ask.Price), q.Ask.Volume)
}

// Flush pushes buffered lines to the underlying writer.
func (c *CSV) Flush() error { return c.w.Flush() }

func renderPrice(p int64) string {
	if p == book.UndefPrice {
		return ""
	}
	return book.PriceDecimal(p).String()
}
