package events

import (
	"fmt"

	"github.com/streadway/amqp"
)

// RabbitMQPublisher implements the Publisher interface using RabbitMQ.
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQPublisherConfig contains options for creating a new RabbitMQPublisher.
type NewRabbitMQPublisherConfig struct {
	URL string
}

// NewRabbitMQPublisher creates a new instance of RabbitMQPublisher.
func NewRabbitMQPublisher(cfg NewRabbitMQPublisherConfig) (Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &RabbitMQPublisher{conn: conn, channel: ch}, nil
}

// Publish sends a message to a durable RabbitMQ queue.
func (p *RabbitMQPublisher) Publish(queueName string, body []byte) error {
	q, err := p.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", queueName, err)
	}

	err = p.channel.Publish(
		"",     // exchange
		q.Name, // routing key (queue name)
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
	if err != nil {
		return fmt.Errorf("publish to queue %s: %w", queueName, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (p *RabbitMQPublisher) Close() error {
	var lastErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			lastErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
