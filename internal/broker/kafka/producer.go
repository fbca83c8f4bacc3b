package kafka

import (
	"context"

	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"

	"media-cms/internal/config"
)

// ProducerClient publishes media events to the configured topic.
type ProducerClient struct {
	producer *wbkafka.Producer
}

func NewProducerClient(cfg *config.Config) *ProducerClient {
	return &ProducerClient{
		producer: wbkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.MediaTopic),
	}
}

// Send publishes one event with a single attempt. Delivery is
// best-effort; the pipeline never retries or blocks on it.
func (p *ProducerClient) Send(ctx context.Context, key, value []byte) error {
	return p.producer.SendWithRetry(ctx, retry.Strategy{Attempts: 1}, key, value)
}

func (p *ProducerClient) Close() error {
	return p.producer.Close()
}
