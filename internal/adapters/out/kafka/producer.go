// Package kafka publishes order events, notifications and ledger instructions to
// Kafka topics. Messages are keyed so everything about one order lands on one
// partition in emission order.
package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"marketplace/internal/core/domain/model/event"
)

const headerEventType = "event-type"

// Topics names the destinations of the three message streams.
type Topics struct {
	Events        string
	Notifications string
	Ledger        string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer implements ports.EventPublisher, ports.Notifier and ports.Ledger on a
// single writer; the topic is chosen per message.
type Producer struct {
	writer messageWriter
	topics Topics
}

// NewWriter builds a topic-less writer for a comma-separated broker list.
func NewWriter(brokersCSV string) *kafka.Writer {
	brokers := make([]string, 0)
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           100 * time.Millisecond,
	}
}

func NewProducer(writer messageWriter, topics Topics) *Producer {
	return &Producer{writer: writer, topics: topics}
}

// Publish writes every event envelope to the events topic in one batch.
func (p *Producer) Publish(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := envelopeMessage(p.topics.Events, e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	return p.writer.WriteMessages(ctx, msgs...)
}

type notification struct {
	RecipientID string            `json:"recipientId"`
	Template    string            `json:"template"`
	Context     map[string]string `json:"context,omitempty"`
}

// Notify writes a notification request keyed by recipient.
func (p *Producer) Notify(ctx context.Context, recipientID, template string, context map[string]string) error {
	data, err := json.Marshal(notification{
		RecipientID: recipientID,
		Template:    template,
		Context:     context,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topics.Notifications,
		Key:   []byte(recipientID),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

// Record writes a fine or payment envelope to the ledger topic.
func (p *Producer) Record(ctx context.Context, e event.Event) error {
	msg, err := envelopeMessage(p.topics.Ledger, e)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func envelopeMessage(topic string, e event.Event) (kafka.Message, error) {
	env, err := event.Wrap(e)
	if err != nil {
		return kafka.Message{}, err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Topic:   topic,
		Key:     []byte(env.OrderID.String()),
		Value:   data,
		Time:    env.OccurredAt,
		Headers: []kafka.Header{{Key: headerEventType, Value: []byte(env.Type)}},
	}, nil
}
