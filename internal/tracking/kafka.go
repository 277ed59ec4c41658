package tracking

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

type kafkaSink struct {
	writer *kafkago.Writer
	logger *log.Logger
}

// NewKafka builds a Sink publishing events to a Kafka topic, keyed by visitor
// id so one shopper's events stay ordered within a partition.
func NewKafka(brokers []string, topic string, logger *log.Logger) *kafkaSink {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafkago.LeastBytes{},
	}
	return &kafkaSink{writer: writer, logger: logger}
}

func (s *kafkaSink) AddToCart(_ context.Context, ev AddToCartEvent) {
	s.publish("add_to_cart", ev.VisitorID, ev)
}

func (s *kafkaSink) CartOpened(_ context.Context, ev CartOpenedEvent) {
	s.publish("cart_opened", ev.VisitorID, ev)
}

// publish ships the event on a detached goroutine so callers never wait on
// the broker. The caller's context is deliberately not reused: the mutation
// that triggered the event may finish before the publish does.
func (s *kafkaSink) publish(eventType, key string, payload interface{}) {
	raw, err := json.Marshal(struct {
		EventType string      `json:"eventType"`
		Payload   interface{} `json:"payload"`
	}{EventType: eventType, Payload: payload})
	if err != nil {
		s.logger.Printf("tracking: marshal %s event: %v", eventType, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.writer.WriteMessages(ctx, kafkago.Message{
			Key:   []byte(key),
			Value: raw,
		}); err != nil {
			s.logger.Printf("tracking: publish %s event: %v", eventType, err)
		}
	}()
}

// Close flushes and releases the underlying writer.
func (s *kafkaSink) Close() error {
	return s.writer.Close()
}
