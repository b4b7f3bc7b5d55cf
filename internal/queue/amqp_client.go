package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// DefaultExchange is the topic exchange events are published to.
const DefaultExchange = "resume_events"

// AMQPClient publishes messages to a RabbitMQ topic exchange, routed by message type.
type AMQPClient struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewAMQPClient dials url and declares the exchange.
func NewAMQPClient(url, exchange string) (*AMQPClient, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("RABBITMQ_URL is required")
	}
	if strings.TrimSpace(exchange) == "" {
		exchange = DefaultExchange
	}
	c := &AMQPClient{url: url, exchange: exchange}
	if _, err := c.connection(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *AMQPClient) connection() (*amqp.Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn, nil
	}
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(
		c.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	c.conn = conn
	return conn, nil
}

// Send publishes msg with its type as the routing key. A dropped connection is redialled once.
func (c *AMQPClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	conn, err := c.connection()
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	return ch.Publish(
		c.exchange,
		msg.Type,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (c *AMQPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

var _ Client = (*AMQPClient)(nil)
