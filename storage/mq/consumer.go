package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"KidFlex/pkg/logger"
)

// MessageHandler processes a single delivery. Returning an error requeues it.
type MessageHandler func(ctx context.Context, body []byte) error

type ConsumeOptions struct {
	Queue         string
	ConsumerTag   string
	PrefetchCount int
	Handler       MessageHandler
}

// Consume blocks until ctx is cancelled or the delivery channel closes.
func Consume(ctx context.Context, opts ConsumeOptions) error {
	c := Connection()
	if c == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := c.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}
	defer ch.Close()

	prefetch := opts.PrefetchCount
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := ch.Consume(
		opts.Queue,
		opts.ConsumerTag,
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	logger.Logger.Info("Consumer started",
		zap.String("queue", opts.Queue),
		zap.String("tag", opts.ConsumerTag),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for queue %s", opts.Queue)
			}

			if err := opts.Handler(ctx, d.Body); err != nil {
				logger.Logger.Error("Message handling failed, requeueing",
					zap.String("queue", opts.Queue),
					zap.Error(err),
				)
				_ = d.Nack(false, true)
				continue
			}

			_ = d.Ack(false)
		}
	}
}

// DeclareTopology sets up a topic exchange and its queues.
func DeclareTopology(exchange string, queues map[string]string) error {
	return declareTopology(exchange, "topic", nil, queues)
}

// DeclareDelayedTopology sets up an exchange backed by the RabbitMQ
// delayed-message plugin. Messages published with an x-delay header sit in
// the exchange until the delay elapses.
func DeclareDelayedTopology(exchange string, queues map[string]string) error {
	return declareTopology(exchange, "x-delayed-message", amqp.Table{"x-delayed-type": "topic"}, queues)
}

func declareTopology(exchange, kind string, args amqp.Table, queues map[string]string) error {
	c := Connection()
	if c == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := c.Channel()
	if err != nil {
		return fmt.Errorf("failed to open topology channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		exchange,
		kind,
		true,
		false,
		false,
		false,
		args,
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	for queue, routingKey := range queues {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
		if err := ch.QueueBind(queue, routingKey, exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", queue, err)
		}
	}

	return nil
}
