// Package queue publishes builder events to a downstream broker.
package queue

import (
	"context"
	"fmt"
	"strings"
)

// Client delivers event messages to a broker.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Backends selectable through EVENTS_BACKEND.
const (
	BackendNone = "none"
	BackendAMQP = "amqp"
	BackendSQS  = "sqs"
)

// Options configures New.
type Options struct {
	Backend   string
	AMQPURL   string
	Exchange  string
	SQSURL    string
	AWSRegion string
}

// New builds the client for opts.Backend. An empty backend picks amqp when a URL is set and
// otherwise discards events.
func New(ctx context.Context, opts Options) (Client, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendNone
		if strings.TrimSpace(opts.AMQPURL) != "" {
			backend = BackendAMQP
		}
	}
	switch backend {
	case BackendNone:
		return Noop{}, nil
	case BackendAMQP:
		return NewAMQPClient(opts.AMQPURL, opts.Exchange)
	case BackendSQS:
		return NewSQSClient(ctx, opts.SQSURL, opts.AWSRegion)
	default:
		return nil, fmt.Errorf("unknown events backend %q", opts.Backend)
	}
}

// Noop drops every message.
type Noop struct{}

func (Noop) Send(context.Context, Message) error { return nil }

var _ Client = Noop{}
