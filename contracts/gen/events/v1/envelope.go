package v1

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Ledger event types. The data payload of each is a JSON object; amounts are
// decimal strings and candidate ids are JSON numbers.
const (
	TokenTransferred    = "token.transferred"
	TokenApproved       = "token.approved"
	CandidateRegistered = "candidate.registered"
	VoteCast            = "vote.cast"
)

// SchemaVersion is the envelope revision producers stamp on new events.
const SchemaVersion = 1

var ErrInvalidEnvelope = errors.New("invalid event envelope")

// Envelope is the canonical, versioned wrapper every ledger event travels in
// between the outbox, the bus and consumers. Fields are append-only.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// Validate reports whether the envelope carries what consumers need to route
// and dedup it.
func (e Envelope) Validate() error {
	switch {
	case strings.TrimSpace(e.EventID) == "":
		return errors.Join(ErrInvalidEnvelope, errors.New("event_id is required"))
	case strings.TrimSpace(e.EventType) == "":
		return errors.Join(ErrInvalidEnvelope, errors.New("event_type is required"))
	case e.SchemaVersion > SchemaVersion:
		return errors.Join(ErrInvalidEnvelope, errors.New("unsupported schema_version"))
	case len(e.Data) == 0 || !json.Valid(e.Data):
		return errors.Join(ErrInvalidEnvelope, errors.New("data must be a JSON document"))
	}
	return nil
}
