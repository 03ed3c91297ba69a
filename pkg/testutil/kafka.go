package testutil

import (
	"context"
	"net"
	"strconv"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// Kafka is a running single-node KRaft broker.
type Kafka struct {
	Brokers []string
}

// StartKafka runs a broker and creates topics with one partition each, so
// consumers never race topic auto-creation.
func StartKafka(ctx context.Context, t *testing.T, topics ...string) *Kafka {
	t.Helper()

	c, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.6.1",
		kafka.WithClusterID("purchase-approval-test"),
	)
	if err != nil {
		t.Fatalf("start kafka container: %v", err)
	}
	terminateOnCleanup(t, "kafka", c)

	brokers, err := c.Brokers(ctx)
	if err != nil {
		t.Fatalf("kafka brokers: %v", err)
	}

	if len(topics) > 0 {
		createTopics(ctx, t, brokers[0], topics)
	}
	return &Kafka{Brokers: brokers}
}

func createTopics(ctx context.Context, t *testing.T, broker string, topics []string) {
	t.Helper()

	conn, err := kafkago.DialContext(ctx, "tcp", broker)
	if err != nil {
		t.Fatalf("dial kafka: %v", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		t.Fatalf("kafka controller: %v", err)
	}
	ctrl, err := kafkago.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		t.Fatalf("dial kafka controller: %v", err)
	}
	defer ctrl.Close()

	cfgs := make([]kafkago.TopicConfig, 0, len(topics))
	for _, topic := range topics {
		cfgs = append(cfgs, kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	}
	if err := ctrl.CreateTopics(cfgs...); err != nil {
		t.Fatalf("create topics %v: %v", topics, err)
	}
}
