package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tokenvote/contexts/governance/voting-ledger/adapters/memory"
	application "tokenvote/contexts/governance/voting-ledger/application"
	"tokenvote/contexts/governance/voting-ledger/application/commands"
	"tokenvote/contexts/governance/voting-ledger/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type recordingPublisher struct {
	topics []string
	events []ports.EventEnvelope
	failOn int
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.failOn > 0 && len(p.events)+1 == p.failOn {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

type stubSubscriber struct {
	handlers map[string]func(context.Context, ports.EventEnvelope) error
	groups   map[string]string
}

func (s *stubSubscriber) Subscribe(
	_ context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	if s.handlers == nil {
		s.handlers = map[string]func(context.Context, ports.EventEnvelope) error{}
		s.groups = map[string]string{}
	}
	s.handlers[topic] = handler
	s.groups[topic] = consumerGroup
	return nil
}

func appendEvent(t *testing.T, store *memory.Store, id string, eventType string, data map[string]any) {
	t.Helper()
	payload, _ := json.Marshal(data)
	if err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:    id,
		EventType:  eventType,
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Data:       payload,
	}); err != nil {
		t.Fatalf("append outbox: %v", err)
	}
}

func TestOutboxRelayPublishesInOrderAndMarksRows(t *testing.T) {
	store := memory.NewStore()
	appendEvent(t, store, "evt-1", commands.EventCandidateRegistered, map[string]any{"candidate_id": 1, "name": "Alice"})
	appendEvent(t, store, "evt-2", commands.EventVoteCast, map[string]any{"candidate_id": 1, "vote_count": 1})

	publisher := &recordingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: fixedClock{now: time.Now()}, BatchSize: 10, Logger: application.QuietLogger()}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay: %v", err)
	}
	if len(publisher.events) != 2 || publisher.events[0].EventID != "evt-1" || publisher.topics[1] != commands.EventVoteCast {
		t.Fatalf("unexpected publish order %v", publisher.topics)
	}

	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("expected all rows published, %d pending", len(pending))
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("idle relay: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("expected no republish, got %d events", len(publisher.events))
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	appendEvent(t, store, "evt-1", commands.EventTokenTransferred, map[string]any{"amount": "1"})
	appendEvent(t, store, "evt-2", commands.EventTokenTransferred, map[string]any{"amount": "2"})

	publisher := &recordingPublisher{failOn: 2}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Logger: application.QuietLogger()}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected publish failure")
	}

	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 1 || pending[0].OutboxID != "evt-2" {
		t.Fatalf("expected evt-2 to stay pending, got %+v", pending)
	}
}

func TestResultsProjectorTracksLeader(t *testing.T) {
	store := memory.NewStore()
	sub := &stubSubscriber{}
	tally := NewResultsTally()
	projector := ResultsProjector{Subscriber: sub, Dedup: store, Tally: tally}

	if err := projector.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	register := sub.handlers[commands.EventCandidateRegistered]
	vote := sub.handlers[commands.EventVoteCast]
	if register == nil || vote == nil {
		t.Fatalf("expected candidate and vote subscriptions")
	}
	if sub.groups[commands.EventVoteCast] != "voting-ledger-results-cg" {
		t.Fatalf("unexpected consumer group %q", sub.groups[commands.EventVoteCast])
	}

	emit := func(handler func(context.Context, ports.EventEnvelope) error, id string, eventType string, data map[string]any) {
		payload, _ := json.Marshal(data)
		if err := handler(context.Background(), ports.EventEnvelope{EventID: id, EventType: eventType, Data: payload}); err != nil {
			t.Fatalf("handle %s: %v", id, err)
		}
	}
	emit(register, "c1", commands.EventCandidateRegistered, map[string]any{"candidate_id": 1, "name": "Alice"})
	emit(register, "c2", commands.EventCandidateRegistered, map[string]any{"candidate_id": 2, "name": "Bob"})
	if leader, ok := tally.Leader(); !ok || leader.ID != 1 {
		t.Fatalf("expected zero-vote tie to favor candidate 1, got %+v", leader)
	}

	emit(vote, "v1", commands.EventVoteCast, map[string]any{"candidate_id": 2, "vote_count": 1})
	if leader, _ := tally.Leader(); leader.ID != 2 || leader.Name != "Bob" {
		t.Fatalf("expected Bob to lead, got %+v", leader)
	}

	emit(vote, "v2", commands.EventVoteCast, map[string]any{"candidate_id": 1, "vote_count": 1})
	if leader, _ := tally.Leader(); leader.ID != 1 {
		t.Fatalf("expected tie to favor lowest id, got %+v", leader)
	}

	// Replays and stale counts do not move the tally.
	emit(vote, "v2", commands.EventVoteCast, map[string]any{"candidate_id": 1, "vote_count": 1})
	emit(vote, "v0", commands.EventVoteCast, map[string]any{"candidate_id": 2, "vote_count": 0})
	if tally.Count(1) != 1 || tally.Count(2) != 1 {
		t.Fatalf("unexpected counts %d %d", tally.Count(1), tally.Count(2))
	}
}

func TestResultsProjectorRejectsConflictingReplay(t *testing.T) {
	store := memory.NewStore()
	projector := ResultsProjector{Dedup: store, Tally: NewResultsTally()}

	first, _ := json.Marshal(map[string]any{"candidate_id": 1, "vote_count": 1})
	second, _ := json.Marshal(map[string]any{"candidate_id": 1, "vote_count": 5})
	if err := projector.Handle(context.Background(), ports.EventEnvelope{EventID: "v1", EventType: commands.EventVoteCast, Data: first}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if err := projector.Handle(context.Background(), ports.EventEnvelope{EventID: "v1", EventType: commands.EventVoteCast, Data: second}); err == nil {
		t.Fatalf("expected conflict for same event id with different payload")
	}
	if projector.Tally.Count(1) != 1 {
		t.Fatalf("conflicting replay must not apply")
	}
}

func TestResultsProjectorDisabled(t *testing.T) {
	sub := &stubSubscriber{}
	projector := ResultsProjector{Subscriber: sub, Tally: NewResultsTally(), Disabled: true}
	if err := projector.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(sub.handlers) != 0 {
		t.Fatalf("expected no subscriptions when disabled")
	}
}

func TestResultsProjectorRejectsBadPayload(t *testing.T) {
	projector := ResultsProjector{Tally: NewResultsTally(), Logger: application.QuietLogger()}
	err := projector.Handle(context.Background(), ports.EventEnvelope{
		EventID:   "bad",
		EventType: commands.EventVoteCast,
		Data:      []byte("{"),
	})
	if err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestResultsTallyResetsCandidateReregisteredByRestartedLedger(t *testing.T) {
	projector := ResultsProjector{Dedup: memory.NewStore(), Tally: NewResultsTally(), Logger: application.QuietLogger()}
	handle := func(id string, eventType string, data map[string]any) {
		payload, _ := json.Marshal(data)
		if err := projector.Handle(context.Background(), ports.EventEnvelope{EventID: id, EventType: eventType, Data: payload}); err != nil {
			t.Fatalf("handle %s: %v", id, err)
		}
	}

	handle("c1", commands.EventCandidateRegistered, map[string]any{"candidate_id": 1, "name": "Alice"})
	handle("v1", commands.EventVoteCast, map[string]any{"candidate_id": 1, "vote_count": 3})

	// Same id and name: a redelivery, the count stands.
	handle("c1-again", commands.EventCandidateRegistered, map[string]any{"candidate_id": 1, "name": "Alice"})
	if projector.Tally.Count(1) != 3 {
		t.Fatalf("expected count to survive redelivered registration, got %d", projector.Tally.Count(1))
	}

	// The ledger restarted and handed id 1 to someone else.
	handle("c1-new", commands.EventCandidateRegistered, map[string]any{"candidate_id": 1, "name": "Carol"})
	handle("v1-new", commands.EventVoteCast, map[string]any{"candidate_id": 1, "vote_count": 1})
	leader, ok := projector.Tally.Leader()
	if !ok || leader.Name != "Carol" || leader.VoteCount != 1 {
		t.Fatalf("expected fresh count for re-registered candidate, got %+v", leader)
	}
}
