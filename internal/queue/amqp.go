package queue

import (
	"context"
	"fmt"

	"github.com/streadway/amqp"
)

// AMQPClient publishes and consumes JobReady messages on a durable queue.
type AMQPClient struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewAMQPClient dials the broker and declares the queue.
func NewAMQPClient(url, queueName string) (*AMQPClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp declare %s: %w", queueName, err)
	}
	return &AMQPClient{conn: conn, ch: ch, queue: queueName}, nil
}

func (c *AMQPClient) Publish(ctx context.Context, msg JobReady) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := msg.Marshal()
	if err != nil {
		return fmt.Errorf("marshal job ready: %w", err)
	}
	return c.ch.Publish("", c.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Consume reads messages until ctx is cancelled. Messages that fail to
// decode are acked and dropped; everything else is acked after fn returns.
func (c *AMQPClient) Consume(ctx context.Context, fn func(JobReady)) error {
	deliveries, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume %s: %w", c.queue, err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("amqp channel closed")
			}
			msg, err := UnmarshalJobReady(d.Body)
			if err != nil {
				d.Ack(false)
				continue
			}
			fn(msg)
			d.Ack(false)
		}
	}
}

func (c *AMQPClient) Close() error {
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
