package messaging

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/abhisheknirogi/Pharmacy-ai/pkg/config"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// RabbitMQ maintains the broker connection events are published over and
// redials in the background when the broker drops it.
type RabbitMQ struct {
	config *config.RabbitMQConfig
	logger *logger.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
	done    chan struct{}
}

// New connects to RabbitMQ and starts the redial watcher
func New(cfg *config.RabbitMQConfig, log *logger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{
		config: cfg,
		logger: log,
		done:   make(chan struct{}),
	}

	if err := r.dial(); err != nil {
		return nil, err
	}

	go r.watch()
	return r, nil
}

func (r *RabbitMQ) dial() error {
	conn, err := amqp.Dial(r.config.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	r.mu.Lock()
	r.conn = conn
	r.channel = channel
	r.mu.Unlock()

	r.logger.Info().Msg("connected to RabbitMQ")
	return nil
}

// watch redials when the broker closes the connection. It gives up after
// max_retries consecutive failures; Close stops it.
func (r *RabbitMQ) watch() {
	for {
		r.mu.RLock()
		closing := r.conn.NotifyClose(make(chan *amqp.Error, 1))
		r.mu.RUnlock()

		select {
		case <-r.done:
			return
		case amqpErr := <-closing:
			// A clean local Close delivers nil
			if amqpErr == nil {
				return
			}
			r.logger.Warn().
				Str("reason", amqpErr.Reason).
				Msg("RabbitMQ connection lost")
		}

		if !r.redial() {
			return
		}
	}
}

func (r *RabbitMQ) redial() bool {
	for attempt := 1; attempt <= r.config.MaxRetries; attempt++ {
		select {
		case <-r.done:
			return false
		case <-time.After(r.config.ReconnectDelay):
		}

		if err := r.dial(); err != nil {
			r.logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Msg("RabbitMQ redial failed")
			continue
		}
		return true
	}

	r.logger.Error().
		Int("attempts", r.config.MaxRetries).
		Msg("giving up on RabbitMQ, further events will be dropped")
	return false
}

// Channel returns the current channel. Publishers fetch it per publish so
// a redial behind their back does not strand them on a dead channel.
func (r *RabbitMQ) Channel() *amqp.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channel
}

// DeclareExchange declares a durable topic exchange
func (r *RabbitMQ) DeclareExchange(name string) error {
	return r.Channel().ExchangeDeclare(
		name,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}

// Health reports whether the broker connection is currently open
func (r *RabbitMQ) Health() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := map[string]string{
		"status": "up",
	}

	if r.conn == nil || r.conn.IsClosed() {
		status["status"] = "down"
		status["error"] = "connection closed"
	}

	return status
}

// Close stops the redial watcher and closes the connection
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	close(r.done)

	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("failed to close channel")
		}
	}

	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}

	r.logger.Info().Msg("RabbitMQ connection closed")
	return nil
}
