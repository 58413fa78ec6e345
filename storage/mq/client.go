package mq

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"KidFlex/config"
)

var (
	conn    *amqp.Connection
	connMu  sync.Mutex
	initErr error
)

func Init() error {
	connMu.Lock()
	defer connMu.Unlock()

	if conn != nil && !conn.IsClosed() {
		return nil
	}

	conn, initErr = amqp.Dial(config.Cfg.GetRabbitMQURL())
	return initErr
}

// Connection returns the shared AMQP connection, or nil when not initialized.
func Connection() *amqp.Connection {
	connMu.Lock()
	defer connMu.Unlock()
	return conn
}

func Close(ctx context.Context) error {
	connMu.Lock()
	defer connMu.Unlock()

	if conn == nil || conn.IsClosed() {
		return nil
	}

	return conn.Close()
}
