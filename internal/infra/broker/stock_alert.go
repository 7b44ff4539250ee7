package broker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"bookstore-backoffice/internal/pkg/clock"
	"bookstore-backoffice/internal/pkg/config"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

const LowStockRoutingKey = "stock.low"

type lowStockMessage struct {
	BookID     string    `json:"book_id"`
	Stock      int32     `json:"stock"`
	Threshold  int32     `json:"threshold"`
	Source     string    `json:"source"`
	SaleID     *string   `json:"sale_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AMQPPublisher publishes low-stock alerts to a durable topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	clock    clock.Clock
}

// NewStockAlertPublisher returns a no-op publisher when no broker URL is set.
func NewStockAlertPublisher(cfg config.BrokerConfig, clk clock.Clock) (shared.StockAlertPublisher, func(), error) {
	if cfg.URL == "" {
		slog.Info("stock alerts disabled: no broker url")
		return NoopPublisher{}, func() {}, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to connect to broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to open broker channel")
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, errs.Wrapf(err, "failed to declare exchange %s", cfg.Exchange)
	}

	p := &AMQPPublisher{conn: conn, ch: ch, exchange: cfg.Exchange, clock: clk}
	slog.Info("broker connected", slog.String("exchange", cfg.Exchange))
	return p, p.close, nil
}

func (p *AMQPPublisher) PublishLowStock(ctx context.Context, alerts []shared.LowStockAlert) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock.Now()
	for _, a := range alerts {
		msg := lowStockMessage{
			BookID:     a.BookID.String(),
			Stock:      a.Stock,
			Threshold:  a.Threshold,
			Source:     a.Source,
			OccurredAt: now,
		}
		if a.SaleID != nil {
			id := a.SaleID.String()
			msg.SaleID = &id
		}
		body, err := json.Marshal(msg)
		if err != nil {
			return errs.Wrap(err, "failed to encode stock alert")
		}

		err = p.ch.PublishWithContext(ctx, p.exchange, LowStockRoutingKey, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    now,
			Body:         body,
		})
		if err != nil {
			return errs.Wrapf(err, "failed to publish stock alert for book %s", a.BookID)
		}
	}
	return nil
}

func (p *AMQPPublisher) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		slog.Warn("failed to close broker channel", slog.String("error", err.Error()))
	}
	if err := p.conn.Close(); err != nil {
		slog.Warn("failed to close broker connection", slog.String("error", err.Error()))
	}
}

type NoopPublisher struct{}

func (NoopPublisher) PublishLowStock(context.Context, []shared.LowStockAlert) error {
	return nil
}
