package queries

import (
	"context"

	"tokenvote/contexts/governance/voting-ledger/domain/entities"
	"tokenvote/contexts/governance/voting-ledger/domain/ledger"
)

type ElectionQueries struct {
	Ledger *ledger.Ledger
}

func (q ElectionQueries) CandidateIDs(_ context.Context) []uint64 {
	return q.Ledger.CandidateIDs()
}

func (q ElectionQueries) Candidates(_ context.Context) []entities.Candidate {
	return q.Ledger.Candidates()
}

func (q ElectionQueries) Candidate(_ context.Context, id uint64) (entities.Candidate, error) {
	return q.Ledger.Candidate(id)
}

func (q ElectionQueries) Winner(_ context.Context) (entities.Candidate, error) {
	return q.Ledger.Winner()
}

func (q ElectionQueries) HasVoted(_ context.Context, identity entities.Identity) bool {
	return q.Ledger.HasVoted(identity)
}

func (q ElectionQueries) Stats(_ context.Context) entities.ElectionStats {
	return q.Ledger.Stats()
}
