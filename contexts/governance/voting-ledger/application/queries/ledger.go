package queries

import (
	"context"

	"tokenvote/contexts/governance/voting-ledger/domain/entities"
	"tokenvote/contexts/governance/voting-ledger/domain/ledger"
)

type LedgerQueries struct {
	Ledger *ledger.Ledger
}

func (q LedgerQueries) TokenInfo(_ context.Context) entities.TokenInfo {
	return q.Ledger.Info()
}

func (q LedgerQueries) BalanceOf(_ context.Context, identity entities.Identity) uint64 {
	return q.Ledger.BalanceOf(identity)
}

func (q LedgerQueries) Allowance(_ context.Context, owner entities.Identity, spender entities.Identity) uint64 {
	return q.Ledger.Allowance(owner, spender)
}
