package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/streadway/amqp"
)

// DefaultQueue is the durable queue bound to EventResumeExported.
const DefaultQueue = "resume_exported"

// DeliveryHandler processes one message body. It reports whether the message should be
// acknowledged; false puts it back on the queue.
type DeliveryHandler func(ctx context.Context, body []byte) (done bool)

// ConsumeAMQP binds queueName to the exchange for EventResumeExported and feeds deliveries to
// handle until ctx ends. At most prefetch deliveries are unacknowledged at once.
func ConsumeAMQP(ctx context.Context, url, exchange, queueName string, prefetch int, handle DeliveryHandler) error {
	if strings.TrimSpace(url) == "" {
		return errors.New("RABBITMQ_URL is required")
	}
	if strings.TrimSpace(exchange) == "" {
		exchange = DefaultExchange
	}
	if strings.TrimSpace(queueName) == "" {
		queueName = DefaultQueue
	}
	if prefetch <= 0 {
		prefetch = 1
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, EventResumeExported, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			if handle(ctx, d.Body) {
				err = d.Ack(false)
			} else {
				err = d.Nack(false, true)
			}
			if err != nil {
				return fmt.Errorf("acknowledge delivery: %w", err)
			}
		}
	}
}
