// Package service owns the symbol-to-book registry and routes decoded
// feed events to the owning book. It is the only write entry point
// into the domain.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"l1feed/domain/book"
	"l1feed/feed"
)

// TradePublisher receives Trade events, which carry no book action.
type TradePublisher interface {
	PublishTrade(ctx context.Context, ev feed.Event) error
}

// MarketService holds one Book per symbol. The registry is built at
// startup and extended lazily on first reference to an unseen symbol;
// books live for the process lifetime.
//
// All methods must be called from the single event-processing
// goroutine; books do no internal locking.
type MarketService struct {
	books  map[string]*book.Book
	quotes book.Sink
	tape   TradePublisher
	log    *zap.SugaredLogger

	applied uint64
	skipped uint64
}

func New(quotes book.Sink, tape TradePublisher, log *zap.SugaredLogger) *MarketService {
	return &MarketService{
		books:  make(map[string]*book.Book),
		quotes: quotes,
		tape:   tape,
		log:    log,
	}
}

// Seed pre-creates books for the configured symbol universe.
func (s *MarketService) Seed(symbols []string) {
	for _, sym := range symbols {
		s.Book(sym)
	}
}

// Book returns the book for symbol, creating and wiring it on first
// reference.
func (s *MarketService) Book(symbol string) *book.Book {
	b, ok := s.books[symbol]
	if !ok {
		b = book.New(symbol)
		b.SetSink(s.quotes)
		s.books[symbol] = b
	}
	return b
}

// Apply routes one decoded event. Book-level rejections (unknown order,
// invalid execution) are returned to the caller; they are recoverable.
func (s *MarketService) Apply(ctx context.Context, ev feed.Event) error {
	switch ev.Kind {
	case feed.KindNewOrder:
		s.Book(ev.Symbol).AddOrder(book.Order{
			ID:       ev.OrderID,
			ExchTime: ev.ExchTime,
			Price:    ev.Price,
			Qty:      ev.Qty,
			Side:     ev.Side,
			Symbol:   ev.Symbol,
		})
		return nil
	case feed.KindOrderCanceled:
		return s.Book(ev.Symbol).RemoveOrder(ev.OrderID, ev.ExchTime)
	case feed.KindOrderExecuted:
		return s.Book(ev.Symbol).ExecuteOrder(ev.OrderID, ev.ExecQty, ev.ExchTime)
	case feed.KindTrade:
		if s.tape != nil {
			if err := s.tape.PublishTrade(ctx, ev); err != nil {
				s.log.Warnw("trade tape publish failed", "symbol", ev.Symbol, "err", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unroutable event kind %d", ev.Kind)
	}
}

// Run consumes the source until EOF, decoding and applying each line.
// Malformed lines and recoverable book errors are logged and skipped.
func (s *MarketService) Run(ctx context.Context, src feed.Source) error {
	for {
		line, err := src.Next()
		if err == io.EOF {
			s.log.Infow("feed exhausted", "applied", s.applied, "skipped", s.skipped)
			return nil
		}
		if err != nil {
			return fmt.Errorf("feed read: %w", err)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		ev, err := feed.DecodeLine(line)
		if err != nil {
			s.skipped++
			s.log.Warnw("skipping feed line", "err", err)
			continue
		}
		if err := s.Apply(ctx, ev); err != nil {
			s.skipped++
			s.log.Warnw("event rejected", "kind", ev.Kind.String(), "symbol", ev.Symbol, "err", err)
			continue
		}
		s.applied++
	}
}

// Applied and Skipped report event counters for the run summary.
func (s *MarketService) Applied() uint64 { return s.applied }
func (s *MarketService) Skipped() uint64 { return s.skipped }
