// Package notifier публикует события о записях в RabbitMQ (topic exchange).
// Доставка best effort: ошибка публикации не отменяет операцию с записью
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client публикатор событий
// Канал AMQP не потокобезопасен, поэтому публикации сериализуются мьютексом
type Client struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	timeout  time.Duration
	log      Logger
}

// NewClient подключается к брокеру и объявляет exchange
func NewClient(url, exchange string, timeout time.Duration, log Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnection, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnection, err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrConnection, exchange, err)
	}

	return &Client{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		timeout:  timeout,
		log:      log,
	}, nil
}

// Publish публикует событие с routing key = тип события
func (c *Client) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrPublish, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.ch.PublishWithContext(ctx, c.exchange, string(event.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.BookingID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %s id=%s: %v", ErrPublish, event.Type, event.BookingID, err)
	}

	c.log.Info("Notifier: published %s id=%s", event.Type, event.BookingID)
	return nil
}

// Close закрывает канал и соединение
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Noop публикатор, который ничего не отправляет (брокер не настроен)
type Noop struct{}

// Publish ничего не делает
func (Noop) Publish(context.Context, Event) error {
	return nil
}
