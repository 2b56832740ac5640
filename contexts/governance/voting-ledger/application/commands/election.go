package commands

import (
	"context"
	"log/slog"
	"strconv"

	application "tokenvote/contexts/governance/voting-ledger/application"
	"tokenvote/contexts/governance/voting-ledger/domain/entities"
	"tokenvote/contexts/governance/voting-ledger/domain/ledger"
	"tokenvote/contexts/governance/voting-ledger/ports"
)

type AddCandidateCommand struct {
	Caller entities.Identity
	Name   string
}

type VoteCommand struct {
	Voter       entities.Identity
	CandidateID uint64
	Proof       []byte
}

// ElectionUseCase registers candidates and consumes voter authorizations.
type ElectionUseCase struct {
	Ledger *ledger.Ledger
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc ElectionUseCase) AddCandidate(ctx context.Context, cmd AddCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	candidate, err := uc.Ledger.AddCandidate(cmd.Name, cmd.Caller)
	if err != nil {
		logger.Warn("candidate registration rejected",
			"event", "ledger_add_candidate_rejected",
			"module", "governance/voting-ledger",
			"layer", "application",
			"caller", cmd.Caller.String(),
			"error", err.Error(),
		)
		return entities.Candidate{}, err
	}

	uc.emitter().emit(ctx, logger, EventCandidateRegistered, partitionByCandidateID, strconv.FormatUint(candidate.ID, 10), map[string]any{
		"candidate_id":  candidate.ID,
		"name":          candidate.Name,
		"registered_by": cmd.Caller.String(),
	})
	logger.Info("candidate registered",
		"event", "ledger_candidate_registered",
		"module", "governance/voting-ledger",
		"layer", "application",
		"candidate_id", candidate.ID,
		"name", candidate.Name,
	)
	return candidate, nil
}

func (uc ElectionUseCase) Vote(ctx context.Context, cmd VoteCommand) (entities.VoteReceipt, error) {
	logger := application.ResolveLogger(uc.Logger)
	receipt, err := uc.Ledger.Vote(cmd.CandidateID, cmd.Proof, cmd.Voter)
	if err != nil {
		logger.Warn("vote rejected",
			"event", "ledger_vote_rejected",
			"module", "governance/voting-ledger",
			"layer", "application",
			"voter", cmd.Voter.String(),
			"candidate_id", cmd.CandidateID,
			"error", err.Error(),
		)
		return entities.VoteReceipt{}, err
	}

	uc.emitter().emit(ctx, logger, EventVoteCast, partitionByCandidateID, strconv.FormatUint(receipt.Candidate.ID, 10), map[string]any{
		"candidate_id": receipt.Candidate.ID,
		"voter":        receipt.Voter.String(),
		"vote_count":   receipt.Candidate.VoteCount,
	})
	logger.Info("vote cast",
		"event", "ledger_vote_cast",
		"module", "governance/voting-ledger",
		"layer", "application",
		"voter", receipt.Voter.String(),
		"candidate_id", receipt.Candidate.ID,
		"vote_count", receipt.Candidate.VoteCount,
	)
	return receipt, nil
}

func (uc ElectionUseCase) emitter() eventEmitter {
	return eventEmitter{Outbox: uc.Outbox, Clock: uc.Clock, IDGen: uc.IDGen}
}
