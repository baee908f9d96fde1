// Package events publishes quotation domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	logx "quotations/go_backend/pkg/logger"
)

type Producer struct {
	producer sarama.SyncProducer
}

func NewConfig(clientID string) *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	return config
}

func NewProducer(brokers []string, clientID string) (*Producer, error) {
	p, err := sarama.NewSyncProducer(brokers, NewConfig(clientID))
	if err != nil {
		return nil, fmt.Errorf("kafka: %w", err)
	}
	logx.Info().Strs("brokers", brokers).Msg("kafka producer initialized")
	return &Producer{producer: p}, nil
}

// NewProducerFrom wraps an existing sync producer.
func NewProducerFrom(p sarama.SyncProducer) *Producer {
	return &Producer{producer: p}
}

// Publish marshals payload as JSON and sends it keyed by key so events of
// one quotation land on the same partition.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("kafka: marshal %s: %w", topic, err)
	}
	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("kafka: send %s: %w", topic, err)
	}
	logx.Debug().Str("topic", topic).Str("key", key).Int32("partition", partition).Int64("offset", offset).Msg("event published")
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
