package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"tokenvote/contexts/governance/voting-ledger/ports"
	contractsv1 "tokenvote/contracts/gen/events/v1"
)

const (
	EventTokenTransferred    = contractsv1.TokenTransferred
	EventTokenApproved       = contractsv1.TokenApproved
	EventCandidateRegistered = contractsv1.CandidateRegistered
	EventVoteCast            = contractsv1.VoteCast
	sourceService            = "voting-ledger"
	partitionByIdentity      = "identity"
	partitionByCandidateID   = "candidate_id"
)

func newLedgerEnvelope(
	eventID string,
	eventType string,
	partitionKeyPath string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		TraceID:          eventID,
		SchemaVersion:    contractsv1.SchemaVersion,
		PartitionKeyPath: partitionKeyPath,
		PartitionKey:     partitionKey,
		Data:             payload,
	}, nil
}

// eventEmitter appends committed ledger operations to the outbox. The ledger
// has already applied the change when emit runs, so failures are logged and
// swallowed rather than reported to the caller.
type eventEmitter struct {
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
}

func (e eventEmitter) emit(
	ctx context.Context,
	logger *slog.Logger,
	eventType string,
	partitionKeyPath string,
	partitionKey string,
	data map[string]any,
) {
	if e.Outbox == nil {
		return
	}
	now := time.Now().UTC()
	if e.Clock != nil {
		now = e.Clock.Now().UTC()
	}

	eventID := ""
	if e.IDGen != nil {
		id, err := e.IDGen.NewID(ctx)
		if err != nil {
			e.logFailure(logger, "ledger_event_id_failed", eventType, err)
			return
		}
		eventID = id
	}

	envelope, err := newLedgerEnvelope(eventID, eventType, partitionKeyPath, partitionKey, now, data)
	if err != nil {
		e.logFailure(logger, "ledger_event_encode_failed", eventType, err)
		return
	}
	if err := e.Outbox.AppendOutbox(ctx, envelope); err != nil {
		e.logFailure(logger, "ledger_outbox_append_failed", eventType, err)
	}
}

func (eventEmitter) logFailure(logger *slog.Logger, event string, eventType string, err error) {
	logger.Error("ledger event was not recorded",
		"event", event,
		"module", "governance/voting-ledger",
		"layer", "application",
		"event_type", eventType,
		"error", err.Error(),
	)
}
