package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	domainerrors "tokenvote/contexts/governance/voting-ledger/domain/errors"
	"tokenvote/contexts/governance/voting-ledger/ports"

	"github.com/google/uuid"
)

type logEntry struct {
	message     ports.OutboxMessage
	publishedAt time.Time
}

type reservation struct {
	payloadHash string
	expiresAt   time.Time
}

// Store backs the outbox, event dedup, clock and id ports in process memory.
// It is the default when no Postgres DSN is configured and the fixture for
// module tests.
type Store struct {
	mu sync.RWMutex

	// log holds outbox rows in append order; byID indexes into it.
	log          []logEntry
	byID         map[string]int
	reservations map[string]reservation
}

func NewStore() *Store {
	return &Store{
		byID:         make(map[string]int),
		reservations: make(map[string]reservation),
	}
}

// AppendOutbox is idempotent per event id: an identical envelope is a no-op,
// a different payload under the same id is ErrEventConflict.
func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	id := strings.TrimSpace(envelope.EventID)
	if id == "" {
		id = uuid.NewString()
		envelope.EventID, envelope.TraceID = id, id
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, seen := s.byID[id]; seen {
		if bytes.Equal(s.log[idx].message.Payload, payload) {
			return nil
		}
		return domainerrors.ErrEventConflict
	}

	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.byID[id] = len(s.log)
	s.log = append(s.log, logEntry{message: ports.OutboxMessage{
		OutboxID:     id,
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		CreatedAt:    createdAt,
	}})
	return nil
}

// ListPendingOutbox returns unpublished rows in append order.
func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]ports.OutboxMessage, 0, min(limit, len(s.log)))
	for _, entry := range s.log {
		if len(pending) == limit {
			break
		}
		if entry.publishedAt.IsZero() {
			pending = append(pending, entry.message)
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrEventConflict
	}
	if publishedAt.IsZero() {
		publishedAt = time.Now()
	}
	s.log[idx].publishedAt = publishedAt.UTC()
	return nil
}

// Outbox returns every recorded envelope in append order, published or not.
func (s *Store) Outbox() []ports.EventEnvelope {
	s.mu.RLock()
	defer s.mu.RUnlock()

	envelopes := make([]ports.EventEnvelope, 0, len(s.log))
	for _, entry := range s.log {
		var envelope ports.EventEnvelope
		if json.Unmarshal(entry.message.Payload, &envelope) == nil {
			envelopes = append(envelopes, envelope)
		}
	}
	return envelopes
}

// ReserveEvent reports whether eventID was already processed. An expired
// reservation is replaced; a live one with a different payload hash is a
// conflict.
func (s *Store) ReserveEvent(
	_ context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	key := strings.TrimSpace(eventID)
	hash := strings.TrimSpace(payloadHash)

	s.mu.Lock()
	defer s.mu.Unlock()

	if held, ok := s.reservations[key]; ok && !expired(held, time.Now().UTC()) {
		if held.payloadHash != hash {
			return false, domainerrors.ErrEventConflict
		}
		return true, nil
	}
	s.reservations[key] = reservation{payloadHash: hash, expiresAt: expiresAt.UTC()}
	return false, nil
}

func expired(r reservation, now time.Time) bool {
	return !r.expiresAt.IsZero() && now.After(r.expiresAt)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var (
	_ ports.OutboxWriter     = (*Store)(nil)
	_ ports.OutboxRepository = (*Store)(nil)
	_ ports.EventDedupStore  = (*Store)(nil)
	_ ports.Clock            = (*Store)(nil)
	_ ports.IDGenerator      = (*Store)(nil)
)
