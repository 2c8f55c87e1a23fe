package messaging

import (
	"context"
	"fmt"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DeclareExchange makes sure the topic exchange exists.
func DeclareExchange(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	return ch.ExchangeDeclare(
		getName(prefix, topic),
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // noWait
		nil,
	)
}

// DefineTopic declares the exchange and a durable queue bound to it, so
// messages are kept until a consumer picks them up.
func DefineTopic(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	if err := DeclareExchange(ch, prefix, topic); err != nil {
		return err
	}
	name := getName(prefix, topic)
	if _, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		return err
	}
	return ch.QueueBind(name, name, name, false, nil)
}

// TopicName is the exchange, routing key and queue name of a topic.
func TopicName(prefix string, topic ChangeTopic) string {
	return getName(prefix, topic)
}

func getName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

// Connection opens channels, satisfied by *amqp.Connection.
type Connection interface {
	Channel() (*amqp.Channel, error)
}

func SendChange[V any](ctx context.Context, c Connection, prefix string, topic ChangeTopic, data V) error {
	bytes, err := jsoncompat.Marshal(data)
	if err != nil {
		return err
	}
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	name := getName(prefix, topic)
	return ch.PublishWithContext(
		ctx,
		name,
		name,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        bytes,
		},
	)
}
