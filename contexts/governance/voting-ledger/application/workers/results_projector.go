package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	application "tokenvote/contexts/governance/voting-ledger/application"
	"tokenvote/contexts/governance/voting-ledger/application/commands"
	"tokenvote/contexts/governance/voting-ledger/domain/entities"
	"tokenvote/contexts/governance/voting-ledger/ports"
)

const defaultResultsCG = "voting-ledger-results-cg"

// ResultsTally is a read-side projection of candidate vote counts built from
// published events. vote.cast carries the absolute count, so applying an
// event twice or out of order converges to the same state. The tally lives in
// worker memory and starts empty on restart: it only reflects events delivered
// since then, and the leader it logs is an observation, not a source of truth.
type ResultsTally struct {
	mu     sync.Mutex
	names  map[uint64]string
	counts map[uint64]uint64
}

func NewResultsTally() *ResultsTally {
	return &ResultsTally{
		names:  make(map[uint64]string),
		counts: make(map[uint64]uint64),
	}
}

// register records a candidate. An id that comes back under a different name
// belongs to a restarted ledger, so its old count is dropped.
func (t *ResultsTally) register(id uint64, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if known, ok := t.names[id]; ok && known != name {
		t.counts[id] = 0
	}
	t.names[id] = name
	if _, ok := t.counts[id]; !ok {
		t.counts[id] = 0
	}
}

func (t *ResultsTally) observe(id uint64, count uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if count > t.counts[id] {
		t.counts[id] = count
	}
}

// Leader mirrors the ledger's winner rule: most votes, lowest id on ties.
func (t *ResultsTally) Leader() (entities.Candidate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var leader entities.Candidate
	found := false
	for id, count := range t.counts {
		if !found || count > leader.VoteCount || (count == leader.VoteCount && id < leader.ID) {
			leader = entities.Candidate{ID: id, Name: t.names[id], VoteCount: count}
			found = true
		}
	}
	return leader, found
}

func (t *ResultsTally) Count(id uint64) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[id]
}

// ResultsProjector keeps a ResultsTally current from candidate and vote
// events and logs whenever the projected leader changes.
type ResultsProjector struct {
	Subscriber    ports.EventSubscriber
	Dedup         ports.EventDedupStore
	Tally         *ResultsTally
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Disabled      bool
	Logger        *slog.Logger
}

func (p ResultsProjector) Start(ctx context.Context) error {
	logger := application.ResolveLogger(p.Logger)
	if p.Disabled {
		logger.Info("results projector disabled by feature flag",
			"event", "ledger_results_projector_disabled",
			"module", "governance/voting-ledger",
			"layer", "worker",
		)
		return nil
	}
	group := strings.TrimSpace(p.ConsumerGroup)
	if group == "" {
		group = defaultResultsCG
	}

	for _, topic := range []string{commands.EventCandidateRegistered, commands.EventVoteCast} {
		if err := p.Subscriber.Subscribe(ctx, topic, group, p.Handle); err != nil {
			logger.Error("results projector subscribe failed",
				"event", "ledger_results_projector_subscribe_failed",
				"module", "governance/voting-ledger",
				"layer", "worker",
				"topic", topic,
				"consumer_group", group,
				"error", err.Error(),
			)
			return err
		}
	}
	logger.Info("results projector subscriptions active",
		"event", "ledger_results_projector_started",
		"module", "governance/voting-ledger",
		"layer", "worker",
		"consumer_group", group,
	)
	return nil
}

// Handle applies one envelope to the tally. Replayed event ids are skipped.
func (p ResultsProjector) Handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(p.Logger)
	if p.Dedup != nil {
		alreadyProcessed, err := p.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), p.now().Add(p.dedupTTL()))
		if err != nil {
			logger.Error("results event dedupe failed",
				"event", "ledger_results_dedupe_failed",
				"module", "governance/voting-ledger",
				"layer", "worker",
				"event_id", event.EventID,
				"error", err.Error(),
			)
			return err
		}
		if alreadyProcessed {
			return nil
		}
	}

	var payload struct {
		CandidateID uint64 `json:"candidate_id"`
		Name        string `json:"name"`
		VoteCount   uint64 `json:"vote_count"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("results event decode failed",
			"event", "ledger_results_decode_failed",
			"module", "governance/voting-ledger",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		return err
	}

	before, hadLeader := p.Tally.Leader()
	switch event.EventType {
	case commands.EventCandidateRegistered:
		p.Tally.register(payload.CandidateID, payload.Name)
	case commands.EventVoteCast:
		p.Tally.observe(payload.CandidateID, payload.VoteCount)
	default:
		return nil
	}

	after, _ := p.Tally.Leader()
	if !hadLeader || after.ID != before.ID {
		logger.Info("projected election leader changed",
			"event", "ledger_results_leader_changed",
			"module", "governance/voting-ledger",
			"layer", "worker",
			"candidate_id", after.ID,
			"name", after.Name,
			"vote_count", after.VoteCount,
		)
	}
	return nil
}

func (p ResultsProjector) now() time.Time {
	now := time.Now().UTC()
	if p.Clock != nil {
		now = p.Clock.Now().UTC()
	}
	return now
}

func (p ResultsProjector) dedupTTL() time.Duration {
	if p.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return p.DedupTTL
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
