package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPTransport dials a RabbitMQ broker and maps topic names onto routing
// keys of a single topic exchange. Each subscription gets a private
// auto-delete queue, so multiple dashboard sessions receive independent
// copies of every broadcast.
type AMQPTransport struct {
	url      string
	exchange string
	logger   *slog.Logger
}

// NewAMQPTransport constructs the transport for the given broker URL and
// exchange name.
func NewAMQPTransport(url, exchange string, logger *slog.Logger) *AMQPTransport {
	return &AMQPTransport{url: url, exchange: exchange, logger: logger}
}

// Dial opens a connection, declares the exchange and wires closure
// notification into the session.
func (t *AMQPTransport) Dial(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := amqp.Dial(t.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		t.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	closed := make(chan error, 1)
	notify := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if amqpErr, ok := <-notify; ok && amqpErr != nil {
			closed <- amqpErr
			return
		}
		closed <- nil
	}()

	t.logger.Info("broker connected", slog.String("exchange", t.exchange))
	return &amqpSession{conn: conn, ch: ch, exchange: t.exchange, closed: closed}, nil
}

type amqpSession struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	closed   chan error
}

func (s *amqpSession) Subscribe(topic string) (<-chan []byte, error) {
	queue, err := s.ch.QueueDeclare(
		fmt.Sprintf("storefront.%s", uuid.NewString()),
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := s.ch.QueueBind(queue.Name, topic, s.exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := s.ch.Consume(
		queue.Name,
		"",    // consumer tag
		true,  // auto-ack
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	out := make(chan []byte, subscriptionBuffer)
	go func() {
		defer close(out)
		for delivery := range deliveries {
			select {
			case out <- delivery.Body:
			default:
			}
		}
	}()
	return out, nil
}

func (s *amqpSession) Publish(ctx context.Context, topic string, body []byte) error {
	return s.ch.PublishWithContext(ctx, s.exchange, topic, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   time.Now(),
	})
}

func (s *amqpSession) Closed() <-chan error {
	return s.closed
}

func (s *amqpSession) Close() error {
	s.ch.Close()
	return s.conn.Close()
}
