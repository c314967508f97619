//go:build integration

package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"customer-service/pkg/testutil/containers"
)

func TestProducerPublishesKeyedRecords(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	broker := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const topic = "customer-service.audit.test"
	producer, err := NewProducer(ctx, broker.Brokers, topic)
	require.NoError(t, err)
	defer producer.Close()

	require.NoError(t, producer.Health(ctx))

	// Creating the producer twice must tolerate the existing topic.
	again, err := NewProducer(ctx, broker.Brokers, topic)
	require.NoError(t, err)
	again.Close()

	require.NoError(t, producer.Publish(ctx, "customer-7", []byte(`{"action":"customer_created"}`)))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, "customer-7", string(records[0].Key))
}
