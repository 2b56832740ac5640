package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "tokenvote/contexts/governance/voting-ledger/domain/errors"
	"tokenvote/contexts/governance/voting-ledger/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pgUndefinedTable   = "42P01"
	pgUniqueViolation  = "23505"
	defaultOutboxBatch = 100
)

// Repository persists the ledger event outbox and consumer dedup records.
// Ledger state itself is never written here.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&outboxRow{}, &dedupRow{}); err != nil {
		return r.fail("ledger_repo_migrate_failed", err)
	}
	return nil
}

// AppendOutbox stores envelope as a pending row. Re-appending the same event
// is a no-op; a different payload under an existing id is ErrEventConflict.
func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	if strings.TrimSpace(envelope.EventID) == "" {
		envelope.EventID = uuid.NewString()
		envelope.TraceID = envelope.EventID
	}
	row, err := newOutboxRow(envelope)
	if err != nil {
		return r.fail("ledger_repo_outbox_encode_failed", err, "event_type", envelope.EventType)
	}

	for attempt := 0; ; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var stored outboxRow
			lookup := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("payload").
				Take(&stored, "outbox_id = ?", row.OutboxID)
			switch {
			case lookup.Error == nil:
				if !bytes.Equal(stored.Payload, row.Payload) {
					return domainerrors.ErrEventConflict
				}
				return nil
			case errors.Is(lookup.Error, gorm.ErrRecordNotFound):
				return tx.Create(&row).Error
			default:
				return lookup.Error
			}
		})
		// A concurrent append won the insert; the second pass sees its row.
		if !retryAfterRace(err, attempt) {
			break
		}
	}
	if err == nil || errors.Is(err, domainerrors.ErrEventConflict) {
		return err
	}
	return r.fail("ledger_repo_outbox_append_failed", err, "outbox_id", row.OutboxID)
}

// ListPendingOutbox returns up to limit unpublished rows, oldest first.
func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = defaultOutboxBatch
	}
	var rows []outboxRow
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at, outbox_id").
		Limit(limit).
		Find(&rows).Error
	if pgCode(err) == pgUndefinedTable {
		// The API process migrates; a worker that starts first sees nothing.
		r.logger.Warn("ledger outbox table missing",
			"event", "ledger_repo_outbox_table_missing",
			"module", "governance/voting-ledger",
			"layer", "adapter",
		)
		return nil, nil
	}
	if err != nil {
		return nil, r.fail("ledger_repo_outbox_list_failed", err, "limit", limit)
	}

	messages := make([]ports.OutboxMessage, len(rows))
	for i, row := range rows {
		messages[i] = row.message()
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	id := strings.TrimSpace(outboxID)
	at := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxRow{}).
		Where("outbox_id = ?", id).
		Update("published_at", &at)
	if result.Error != nil {
		return r.fail("ledger_repo_outbox_mark_failed", result.Error, "outbox_id", id)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEventConflict
	}
	return nil
}

// ReserveEvent records that a consumer handled eventID. It returns true when
// a live reservation with the same payload hash already exists; an expired
// reservation is taken over.
func (r *Repository) ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	want := dedupRow{
		EventID:     strings.TrimSpace(eventID),
		PayloadHash: strings.TrimSpace(payloadHash),
		ExpiresAt:   expiresAt.UTC(),
	}

	var duplicate bool
	var err error
	for attempt := 0; ; attempt++ {
		duplicate = false
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var held dedupRow
			lookup := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&held, "event_id = ?", want.EventID)
			if errors.Is(lookup.Error, gorm.ErrRecordNotFound) {
				return tx.Create(&want).Error
			}
			if lookup.Error != nil {
				return lookup.Error
			}

			if time.Now().UTC().After(held.ExpiresAt) {
				return tx.Model(&held).Updates(map[string]any{
					"payload_hash": want.PayloadHash,
					"expires_at":   want.ExpiresAt,
				}).Error
			}
			if held.PayloadHash != want.PayloadHash {
				return domainerrors.ErrEventConflict
			}
			duplicate = true
			return nil
		})
		if !retryAfterRace(err, attempt) {
			break
		}
	}
	switch {
	case err == nil:
		return duplicate, nil
	case errors.Is(err, domainerrors.ErrEventConflict):
		return false, err
	default:
		return false, r.fail("ledger_repo_reserve_event_failed", err, "event_id", want.EventID)
	}
}

// retryAfterRace allows exactly one more attempt when an insert lost a
// primary key race; any later error is returned to the caller.
func retryAfterRace(err error, attempt int) bool {
	return attempt == 0 && pgCode(err) == pgUniqueViolation
}

func (r *Repository) fail(event string, err error, attrs ...any) error {
	r.logger.Error("ledger repository operation failed",
		append([]any{
			"event", event,
			"module", "governance/voting-ledger",
			"layer", "adapter",
			"error", err.Error(),
		}, attrs...)...,
	)
	return err
}

// outboxRow is pending while PublishedAt is nil.
type outboxRow struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type;not null"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null;index:idx_ledger_outbox_pending,priority:2"`
	PublishedAt  *time.Time `gorm:"column:published_at;index:idx_ledger_outbox_pending,priority:1"`
}

func (outboxRow) TableName() string {
	return "ledger_outbox"
}

func newOutboxRow(envelope ports.EventEnvelope) (outboxRow, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxRow{}, err
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return outboxRow{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		CreatedAt:    createdAt,
	}, nil
}

func (row outboxRow) message() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     row.OutboxID,
		EventType:    row.EventType,
		PartitionKey: row.PartitionKey,
		Payload:      append([]byte(nil), row.Payload...),
		CreatedAt:    row.CreatedAt.UTC(),
	}
}

type dedupRow struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash;not null"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null;index"`
}

func (dedupRow) TableName() string {
	return "ledger_event_dedup"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

var (
	_ ports.OutboxWriter     = (*Repository)(nil)
	_ ports.OutboxRepository = (*Repository)(nil)
	_ ports.EventDedupStore  = (*Repository)(nil)
)
