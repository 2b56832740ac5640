package messaging

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"tokenvote/contexts/governance/voting-ledger/ports"
)

var ErrSubscriberBacklog = errors.New("kafka subscriber backlog is full")

// consumerGroup holds the members subscribed to one topic under one group id.
// Each event goes to exactly one member, chosen round-robin.
type consumerGroup struct {
	members []chan ports.EventEnvelope
	next    int
}

// Kafka is the event bus adapter shared by the outbox relay and the results
// projector. Delivery is in-process with Kafka's fan-out rules: every consumer
// group on a topic sees each event once. Brokers are kept for the external
// client.
type Kafka struct {
	mu      sync.Mutex
	brokers []string
	topics  map[string]map[string]*consumerGroup
	buffer  int
	logger  *slog.Logger
}

func NewKafka(brokers []string, logger *slog.Logger) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	return &Kafka{
		brokers: append([]string(nil), brokers...),
		topics:  make(map[string]map[string]*consumerGroup),
		buffer:  128,
		logger:  logger,
	}, nil
}

func (k *Kafka) Brokers() []string {
	return append([]string(nil), k.brokers...)
}

// Publish hands event to one member of every consumer group on topic. A full
// member buffer fails the publish with ErrSubscriberBacklog so the outbox row
// stays pending and is retried; consumers dedup by event id.
func (k *Kafka) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k.mu.Lock()
	targets := make([]chan ports.EventEnvelope, 0, len(k.topics[topic]))
	for _, group := range k.topics[topic] {
		if len(group.members) == 0 {
			continue
		}
		targets = append(targets, group.members[group.next%len(group.members)])
		group.next++
	}
	k.mu.Unlock()

	for _, target := range targets {
		select {
		case target <- event:
		default:
			if k.logger != nil {
				k.logger.Warn("subscriber backlog is full",
					"event", "kafka_publish_backlog",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", topic,
					"event_id", event.EventID,
				)
			}
			return ErrSubscriberBacklog
		}
	}

	if k.logger != nil {
		k.logger.Debug("event published",
			"event", "kafka_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
			"consumer_groups", len(targets),
		)
	}
	return nil
}

// Subscribe joins consumerGroup on topic until ctx is cancelled.
func (k *Kafka) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	if strings.TrimSpace(topic) == "" || handler == nil {
		return errors.New("kafka subscription requires a topic and handler")
	}
	ch := make(chan ports.EventEnvelope, k.buffer)
	k.join(topic, consumerGroup, ch)

	go func() {
		for {
			select {
			case <-ctx.Done():
				k.leave(topic, consumerGroup, ch)
				return
			case event := <-ch:
				if err := handler(ctx, event); err != nil && k.logger != nil {
					k.logger.Error("consumer handler failed",
						"event", "kafka_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

func (k *Kafka) join(topic string, groupID string, ch chan ports.EventEnvelope) {
	k.mu.Lock()
	defer k.mu.Unlock()

	groups := k.topics[topic]
	if groups == nil {
		groups = make(map[string]*consumerGroup)
		k.topics[topic] = groups
	}
	group := groups[groupID]
	if group == nil {
		group = &consumerGroup{}
		groups[groupID] = group
	}
	group.members = append(group.members, ch)
}

func (k *Kafka) leave(topic string, groupID string, target chan ports.EventEnvelope) {
	k.mu.Lock()
	defer k.mu.Unlock()

	group := k.topics[topic][groupID]
	if group == nil {
		return
	}
	filtered := group.members[:0]
	for _, member := range group.members {
		if member != target {
			filtered = append(filtered, member)
		}
	}
	group.members = filtered
	if len(filtered) == 0 {
		delete(k.topics[topic], groupID)
	}
}
