// Package events publishes job lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"

	"clipchat/media"
)

// Publisher sends one Kafka message per job transition. It satisfies
// media.EventSink; publishing is best-effort and never fails a job.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher connects a synchronous producer to the given brokers.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Publisher{producer: producer, topic: topic}, nil
}

// newPublisherWith wires an existing producer; used by tests with the sarama
// mocks.
func newPublisherWith(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// Publish sends one event. Events of the same job share a key so they land
// on one partition in order.
func (p *Publisher) Publish(_ context.Context, ev media.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("events: marshal failed: %v", err)
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.JobID),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("events: publish %s/%s failed: %v", ev.Op, ev.Status, err)
	}
}

// Close shuts the producer down.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
