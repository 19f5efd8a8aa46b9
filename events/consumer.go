package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"

	"clipchat/media"
)

// EventHandler processes one job event. Returning an error leaves the
// message unmarked so the group redelivers it.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev media.Event) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, ev media.Event) error

func (f EventHandlerFunc) HandleEvent(ctx context.Context, ev media.Event) error {
	return f(ctx, ev)
}

// Consumer tails the job event topic as part of a consumer group.
type Consumer struct {
	group   sarama.ConsumerGroup
	handler EventHandler
	topic   string
	groupID string
	ready   chan bool
}

// ConsumerConfig holds consumer settings.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler EventHandler
}

// NewConsumer creates a consumer-group member for the job event topic.
func NewConsumer(config ConsumerConfig) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}
	return &Consumer{
		group:   group,
		handler: config.Handler,
		topic:   config.Topic,
		groupID: config.GroupID,
		ready:   make(chan bool),
	}, nil
}

// Start begins consuming and returns once the group has joined. Consumption
// continues until ctx is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &groupHandler{handler: c.handler, ready: c.ready}

	go func() {
		for {
			if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
				if err == context.Canceled {
					return
				}
				log.Printf("consumer error: %v", err)
			}
			if ctx.Err() != nil {
				return
			}
			handler.ready = make(chan bool)
		}
	}()

	<-c.ready
	log.Printf("consuming job events (group: %s, topic: %s)", c.groupID, c.topic)

	go func() {
		for err := range c.group.Errors() {
			log.Printf("consumer group error: %v", err)
		}
	}()
	return nil
}

// Close shuts down the group member.
func (c *Consumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	handler EventHandler
	ready   chan bool
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			var ev media.Event
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				// A malformed record never becomes parseable; skip it.
				log.Printf("dropping malformed event at offset %d: %v", msg.Offset, err)
				session.MarkMessage(msg, "")
				continue
			}
			if err := h.handler.HandleEvent(session.Context(), ev); err != nil {
				log.Printf("event handler failed for job %s: %v", ev.JobID, err)
				continue
			}
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
