package votingledger

import (
	"log/slog"

	"tokenvote/contexts/governance/voting-ledger/adapters/ethsig"
	httpadapter "tokenvote/contexts/governance/voting-ledger/adapters/http"
	"tokenvote/contexts/governance/voting-ledger/adapters/memory"
	"tokenvote/contexts/governance/voting-ledger/application/commands"
	"tokenvote/contexts/governance/voting-ledger/application/queries"
	"tokenvote/contexts/governance/voting-ledger/domain/ledger"
	"tokenvote/contexts/governance/voting-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Ledger  *ledger.Ledger
	Store   *memory.Store
}

type Dependencies struct {
	Genesis  ledger.Genesis
	Verifier ports.AuthorizationVerifier
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) (Module, error) {
	verifier := deps.Verifier
	if verifier == nil {
		verifier = ethsig.Verifier{}
	}
	state, err := ledger.New(deps.Genesis, verifier)
	if err != nil {
		return Module{}, err
	}

	transfers := commands.TransferUseCase{
		Ledger: state,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	election := commands.ElectionUseCase{
		Ledger: state,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Transfers: transfers,
			Election:  election,
			Balances:  queries.LedgerQueries{Ledger: state},
			Results:   queries.ElectionQueries{Ledger: state},
			Logger:    deps.Logger,
		},
		Ledger: state,
	}, nil
}

func NewInMemoryModule(genesis ledger.Genesis, logger *slog.Logger) (Module, error) {
	store := memory.NewStore()
	module, err := NewModule(Dependencies{
		Genesis: genesis,
		Outbox:  store,
		Clock:   store,
		IDGen:   store,
		Logger:  logger,
	})
	if err != nil {
		return Module{}, err
	}
	module.Store = store
	return module, nil
}
