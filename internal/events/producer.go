package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher emits domain events. Publish never blocks the caller and never fails it.
type Publisher interface {
	Publish(ctx context.Context, eventType, correlationID string, payload any)
}

// Noop is used when no kafka brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, any) {}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Counters struct {
	Published *metrics.Counter
	Dropped   *metrics.Counter
	Failed    *metrics.Counter
}

func (c *Counters) fill() {
	if c.Published == nil {
		c.Published = &metrics.Counter{}
	}
	if c.Dropped == nil {
		c.Dropped = &metrics.Counter{}
	}
	if c.Failed == nil {
		c.Failed = &metrics.Counter{}
	}
}

// Producer buffers events in an inbox and writes them to kafka from one goroutine.
type Producer struct {
	name     string
	w        messageWriter
	inbox    chan kafka.Message
	done     chan struct{}
	counters Counters

	mu     sync.RWMutex
	closed bool
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func NewProducer(name string, w messageWriter, buf int, counters Counters) *Producer {
	counters.fill()
	return &Producer{
		name:     name,
		w:        w,
		inbox:    make(chan kafka.Message, buf),
		done:     make(chan struct{}),
		counters: counters,
	}
}

// Start runs the write loop until Close is called.
func (p *Producer) Start() {
	go func() {
		defer close(p.done)
		for m := range p.inbox {
			p.write(m)
		}
		if err := p.w.Close(); err != nil {
			logger.L().Warn("kafka writer close failed", zap.Error(err))
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.w.WriteMessages(ctx, m); err != nil {
		p.counters.Failed.Inc()
		logger.L().Error("kafka write failed",
			zap.String("key", string(m.Key)),
			zap.Error(err),
		)
		return
	}
	p.counters.Published.Inc()
}

func (p *Producer) Publish(ctx context.Context, eventType, correlationID string, payload any) {
	log := logger.FromCtx(ctx).With(
		zap.String("event_type", eventType),
		zap.String("correlation_id", correlationID),
	)

	env, err := NewEnvelope(p.name, eventType, correlationID, payload)
	if err != nil {
		p.counters.Failed.Inc()
		log.Error("failed to build event", zap.Error(err))
		return
	}
	value, err := json.Marshal(env)
	if err != nil {
		p.counters.Failed.Inc()
		log.Error("failed to encode event", zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(correlationID),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.counters.Dropped.Inc()
		return
	}
	select {
	case p.inbox <- msg:
	default:
		p.counters.Dropped.Inc()
		log.Warn("event inbox full, dropping event")
	}
}

// Close stops accepting events, flushes the inbox and waits for the writer to close.
func (p *Producer) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()
	<-p.done
}
