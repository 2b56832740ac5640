package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "tokenvote/contexts/governance/voting-ledger/application"
	"tokenvote/contexts/governance/voting-ledger/ports"
)

const defaultRelayBatch = 100

// OutboxRelay publishes persisted ledger events to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce relays one batch of pending rows in order. A row is marked
// published only after the bus accepts it, and the batch stops at the first
// failure so the next cycle resumes from that row.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	batch := r.BatchSize
	if batch <= 0 {
		batch = defaultRelayBatch
	}

	rows, err := r.Outbox.ListPendingOutbox(ctx, batch)
	if err != nil {
		logger.Error("ledger outbox list failed",
			"event", "ledger_outbox_list_failed",
			"module", "governance/voting-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(rows) == 0 {
		logger.Debug("ledger outbox relay found no pending rows",
			"event", "ledger_outbox_relay_noop",
			"module", "governance/voting-ledger",
			"layer", "worker",
			"batch_size", batch,
		)
		return nil
	}

	for _, row := range rows {
		if stage, err := r.relay(ctx, row); err != nil {
			logger.Error("ledger outbox relay failed",
				"event", "ledger_outbox_"+stage+"_failed",
				"module", "governance/voting-ledger",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", row.EventType,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("ledger outbox relay cycle completed",
		"event", "ledger_outbox_relay_completed",
		"module", "governance/voting-ledger",
		"layer", "worker",
		"published_count", len(rows),
	)
	return nil
}

// relay moves one row onto the bus. On failure it names the stage that
// failed: decode, validate, publish or mark.
func (r OutboxRelay) relay(ctx context.Context, row ports.OutboxMessage) (string, error) {
	var event ports.EventEnvelope
	if err := json.Unmarshal(row.Payload, &event); err != nil {
		return "decode", err
	}
	if err := event.Validate(); err != nil {
		return "validate", err
	}

	topic := event.EventType
	if topic == "" {
		topic = row.EventType
	}
	if err := r.Publisher.Publish(ctx, topic, event); err != nil {
		return "publish", err
	}
	if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, r.now()); err != nil {
		return "mark", err
	}
	return "", nil
}

func (r OutboxRelay) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
