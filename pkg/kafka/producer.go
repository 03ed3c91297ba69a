package kafka

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Message is a broker-agnostic Kafka record.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer publishes to any topic through one kafka-go writer. Records with
// the same key land on the same partition.
type Producer struct {
	writer messageWriter
}

// NewProducer fails only when the TLS/SASL settings are unusable.
func NewProducer(cfg Config) (*Producer, error) {
	transport, err := cfg.transport()
	if err != nil {
		return nil, err
	}
	return &Producer{writer: newWriter(cfg.Brokers, transport)}, nil
}

func newWriter(brokers []string, transport *kafkago.Transport) *kafkago.Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Balancer:               &kafkago.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	if transport != nil {
		w.Transport = transport
	}
	return w
}

// Publish writes messages to topic and waits for all in-sync replicas.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	records := make([]kafkago.Message, len(messages))
	for i, m := range messages {
		records[i] = toRecord(topic, m)
	}
	if err := p.writer.WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	return nil
}

// Close flushes pending writes and releases connections.
func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("closing kafka writer: %w", err)
	}
	return nil
}

func toRecord(topic string, m Message) kafkago.Message {
	rec := kafkago.Message{Topic: topic, Key: m.Key, Value: m.Value}
	if len(m.Headers) > 0 {
		rec.Headers = make([]kafkago.Header, 0, len(m.Headers))
		for k, v := range m.Headers {
			rec.Headers = append(rec.Headers, kafkago.Header{Key: k, Value: []byte(v)})
		}
	}
	return rec
}

func fromRecord(rec kafkago.Message) Message {
	m := Message{Key: rec.Key, Value: rec.Value, Headers: make(map[string]string, len(rec.Headers))}
	for _, h := range rec.Headers {
		m.Headers[h.Key] = string(h.Value)
	}
	return m
}
