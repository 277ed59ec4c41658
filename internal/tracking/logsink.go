package tracking

import (
	"context"
	"io"
	"log"
)

type logSink struct {
	logger *log.Logger
}

// NewLog builds a Sink that writes events to a logger. Used when no broker is
// configured, typically in local development.
func NewLog(logger *log.Logger) Sink {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &logSink{logger: logger}
}

func (s *logSink) AddToCart(_ context.Context, ev AddToCartEvent) {
	s.logger.Printf("tracking: add_to_cart visitor=%s product=%s qty=%d price_cents=%d", ev.VisitorID, ev.ProductID, ev.Quantity, ev.PriceCents)
}

func (s *logSink) CartOpened(_ context.Context, ev CartOpenedEvent) {
	s.logger.Printf("tracking: cart_opened visitor=%s items=%d total_cents=%d", ev.VisitorID, ev.ItemCount, ev.TotalCents)
}
