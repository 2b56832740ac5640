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

type TransferCommand struct {
	From   entities.Identity
	To     entities.Identity
	Amount uint64
}

type TransferFromCommand struct {
	Spender entities.Identity
	From    entities.Identity
	To      entities.Identity
	Amount  uint64
}

type ApproveCommand struct {
	Owner   entities.Identity
	Spender entities.Identity
	Amount  uint64
}

// TransferUseCase runs balance-moving commands against the ledger and
// records each committed change in the outbox.
type TransferUseCase struct {
	Ledger *ledger.Ledger
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc TransferUseCase) Transfer(ctx context.Context, cmd TransferCommand) (entities.TransferReceipt, error) {
	logger := application.ResolveLogger(uc.Logger)
	receipt, err := uc.Ledger.Transfer(cmd.From, cmd.To, cmd.Amount)
	if err != nil {
		logger.Warn("token transfer rejected",
			"event", "ledger_transfer_rejected",
			"module", "governance/voting-ledger",
			"layer", "application",
			"from", cmd.From.String(),
			"to", cmd.To.String(),
			"amount", cmd.Amount,
			"error", err.Error(),
		)
		return entities.TransferReceipt{}, err
	}

	uc.emitter().emit(ctx, logger, EventTokenTransferred, partitionByIdentity, receipt.From.String(), transferData(receipt))
	logger.Info("token transferred",
		"event", "ledger_transfer_committed",
		"module", "governance/voting-ledger",
		"layer", "application",
		"from", receipt.From.String(),
		"to", receipt.To.String(),
		"amount", receipt.Amount,
	)
	return receipt, nil
}

func (uc TransferUseCase) TransferFrom(ctx context.Context, cmd TransferFromCommand) (entities.TransferReceipt, error) {
	logger := application.ResolveLogger(uc.Logger)
	receipt, err := uc.Ledger.TransferFrom(cmd.Spender, cmd.From, cmd.To, cmd.Amount)
	if err != nil {
		logger.Warn("delegated token transfer rejected",
			"event", "ledger_transfer_from_rejected",
			"module", "governance/voting-ledger",
			"layer", "application",
			"spender", cmd.Spender.String(),
			"from", cmd.From.String(),
			"to", cmd.To.String(),
			"amount", cmd.Amount,
			"error", err.Error(),
		)
		return entities.TransferReceipt{}, err
	}

	uc.emitter().emit(ctx, logger, EventTokenTransferred, partitionByIdentity, receipt.From.String(), transferData(receipt))
	logger.Info("delegated token transfer committed",
		"event", "ledger_transfer_from_committed",
		"module", "governance/voting-ledger",
		"layer", "application",
		"spender", receipt.Spender.String(),
		"from", receipt.From.String(),
		"to", receipt.To.String(),
		"amount", receipt.Amount,
	)
	return receipt, nil
}

func (uc TransferUseCase) Approve(ctx context.Context, cmd ApproveCommand) (entities.ApprovalReceipt, error) {
	logger := application.ResolveLogger(uc.Logger)
	receipt, err := uc.Ledger.Approve(cmd.Owner, cmd.Spender, cmd.Amount)
	if err != nil {
		logger.Warn("allowance approval rejected",
			"event", "ledger_approve_rejected",
			"module", "governance/voting-ledger",
			"layer", "application",
			"owner", cmd.Owner.String(),
			"spender", cmd.Spender.String(),
			"error", err.Error(),
		)
		return entities.ApprovalReceipt{}, err
	}

	uc.emitter().emit(ctx, logger, EventTokenApproved, partitionByIdentity, receipt.Owner.String(), map[string]any{
		"owner":   receipt.Owner.String(),
		"spender": receipt.Spender.String(),
		"amount":  strconv.FormatUint(receipt.Amount, 10),
	})
	logger.Info("allowance approved",
		"event", "ledger_approve_committed",
		"module", "governance/voting-ledger",
		"layer", "application",
		"owner", receipt.Owner.String(),
		"spender", receipt.Spender.String(),
		"amount", receipt.Amount,
	)
	return receipt, nil
}

func (uc TransferUseCase) emitter() eventEmitter {
	return eventEmitter{Outbox: uc.Outbox, Clock: uc.Clock, IDGen: uc.IDGen}
}

// Amounts are encoded as decimal strings so consumers in other runtimes do
// not lose precision above 2^53.
func transferData(receipt entities.TransferReceipt) map[string]any {
	data := map[string]any{
		"from":   receipt.From.String(),
		"to":     receipt.To.String(),
		"amount": strconv.FormatUint(receipt.Amount, 10),
	}
	if receipt.Spender != "" {
		data["spender"] = receipt.Spender.String()
	}
	return data
}
