package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"tokenvote/contexts/governance/voting-ledger/adapters/ethsig"
	application "tokenvote/contexts/governance/voting-ledger/application"
	"tokenvote/contexts/governance/voting-ledger/application/commands"
	"tokenvote/contexts/governance/voting-ledger/application/queries"
	"tokenvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "tokenvote/contexts/governance/voting-ledger/domain/errors"
	httptransport "tokenvote/contexts/governance/voting-ledger/transport/http"
)

type Handler struct {
	Transfers commands.TransferUseCase
	Election  commands.ElectionUseCase
	Balances  queries.LedgerQueries
	Results   queries.ElectionQueries
	Logger    *slog.Logger
}

// TokenInfoHandler godoc
// @Summary Token metadata
// @Description Returns name, symbol, decimals, total supply and registry owner.
// @Tags voting-ledger
// @Produce json
// @Success 200 {object} httptransport.TokenInfoResponse
// @Router /v1/token [get]
func (h Handler) TokenInfoHandler(ctx context.Context) httptransport.TokenInfoResponse {
	info := h.Balances.TokenInfo(ctx)
	return httptransport.TokenInfoResponse{
		Name:        info.Name,
		Symbol:      info.Symbol,
		Decimals:    info.Decimals,
		TotalSupply: formatAmount(info.TotalSupply),
		Owner:       info.Owner.String(),
	}
}

// BalanceHandler godoc
// @Summary Account balance
// @Description Returns the token balance of an address; unknown addresses hold 0.
// @Tags voting-ledger
// @Produce json
// @Param address path string true "Hex address"
// @Success 200 {object} httptransport.BalanceResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/accounts/{address}/balance [get]
func (h Handler) BalanceHandler(ctx context.Context, address string) (httptransport.BalanceResponse, error) {
	identity, err := parseIdentity(address)
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	return httptransport.BalanceResponse{
		Address: identity.String(),
		Balance: formatAmount(h.Balances.BalanceOf(ctx, identity)),
	}, nil
}

// TransferHandler godoc
// @Summary Transfer tokens
// @Description Moves tokens from the caller's balance to another address.
// @Tags voting-ledger
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Caller address"
// @Param request body httptransport.TransferRequest true "Transfer"
// @Success 200 {object} httptransport.TransferResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /v1/transfers [post]
func (h Handler) TransferHandler(
	ctx context.Context,
	caller string,
	req httptransport.TransferRequest,
) (httptransport.TransferResponse, error) {
	from, err := parseIdentity(caller)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	to, err := parseIdentity(req.To)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}

	receipt, err := h.Transfers.Transfer(ctx, commands.TransferCommand{
		From:   from,
		To:     to,
		Amount: amount,
	})
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	return mapTransfer(receipt), nil
}

// TransferFromHandler godoc
// @Summary Spend an allowance
// @Description Moves tokens between two addresses using the caller's allowance.
// @Tags voting-ledger
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Spender address"
// @Param request body httptransport.TransferFromRequest true "Delegated transfer"
// @Success 200 {object} httptransport.TransferResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /v1/transfers/from [post]
func (h Handler) TransferFromHandler(
	ctx context.Context,
	caller string,
	req httptransport.TransferFromRequest,
) (httptransport.TransferResponse, error) {
	spender, err := parseIdentity(caller)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	from, err := parseIdentity(req.From)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	to, err := parseIdentity(req.To)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}

	receipt, err := h.Transfers.TransferFrom(ctx, commands.TransferFromCommand{
		Spender: spender,
		From:    from,
		To:      to,
		Amount:  amount,
	})
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	return mapTransfer(receipt), nil
}

// ApproveHandler godoc
// @Summary Approve a spender
// @Description Sets the amount a spender may move out of the caller's balance.
// @Tags voting-ledger
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Owner address"
// @Param request body httptransport.ApproveRequest true "Approval"
// @Success 200 {object} httptransport.AllowanceResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /v1/allowances [post]
func (h Handler) ApproveHandler(
	ctx context.Context,
	caller string,
	req httptransport.ApproveRequest,
) (httptransport.AllowanceResponse, error) {
	owner, err := parseIdentity(caller)
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	spender, err := parseIdentity(req.Spender)
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}

	receipt, err := h.Transfers.Approve(ctx, commands.ApproveCommand{
		Owner:   owner,
		Spender: spender,
		Amount:  amount,
	})
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	return httptransport.AllowanceResponse{
		Owner:   receipt.Owner.String(),
		Spender: receipt.Spender.String(),
		Amount:  formatAmount(receipt.Amount),
	}, nil
}

// AllowanceHandler godoc
// @Summary Read an allowance
// @Tags voting-ledger
// @Produce json
// @Param owner path string true "Owner address"
// @Param spender path string true "Spender address"
// @Success 200 {object} httptransport.AllowanceResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/allowances/{owner}/{spender} [get]
func (h Handler) AllowanceHandler(ctx context.Context, owner string, spender string) (httptransport.AllowanceResponse, error) {
	ownerID, err := parseIdentity(owner)
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	spenderID, err := parseIdentity(spender)
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	return httptransport.AllowanceResponse{
		Owner:   ownerID.String(),
		Spender: spenderID.String(),
		Amount:  formatAmount(h.Balances.Allowance(ctx, ownerID, spenderID)),
	}, nil
}

// AddCandidateHandler godoc
// @Summary Register a candidate
// @Description Appends a candidate with the next sequential id. Owner only.
// @Tags voting-ledger
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Registry owner address"
// @Param request body httptransport.AddCandidateRequest true "Candidate"
// @Success 201 {object} httptransport.CandidateResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /v1/candidates [post]
func (h Handler) AddCandidateHandler(
	ctx context.Context,
	caller string,
	req httptransport.AddCandidateRequest,
) (httptransport.CandidateResponse, error) {
	identity, err := parseIdentity(caller)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	candidate, err := h.Election.AddCandidate(ctx, commands.AddCandidateCommand{
		Caller: identity,
		Name:   req.Name,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

// ListCandidatesHandler godoc
// @Summary List candidates
// @Description Returns candidate ids in registration order plus their snapshots.
// @Tags voting-ledger
// @Produce json
// @Success 200 {object} httptransport.CandidateListResponse
// @Router /v1/candidates [get]
func (h Handler) ListCandidatesHandler(ctx context.Context) httptransport.CandidateListResponse {
	candidates := h.Results.Candidates(ctx)
	resp := httptransport.CandidateListResponse{
		CandidateIDs: make([]uint64, 0, len(candidates)),
		Items:        make([]httptransport.CandidateResponse, 0, len(candidates)),
	}
	for _, candidate := range candidates {
		resp.CandidateIDs = append(resp.CandidateIDs, candidate.ID)
		resp.Items = append(resp.Items, mapCandidate(candidate))
	}
	return resp
}

// GetCandidateHandler godoc
// @Summary Get a candidate
// @Tags voting-ledger
// @Produce json
// @Param candidate_id path int true "Candidate id"
// @Success 200 {object} httptransport.CandidateResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/candidates/{candidate_id} [get]
func (h Handler) GetCandidateHandler(ctx context.Context, rawID string) (httptransport.CandidateResponse, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return httptransport.CandidateResponse{}, domainerrors.ErrInvalidInput
	}
	candidate, err := h.Results.Candidate(ctx, id)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

// VoteHandler godoc
// @Summary Cast a vote
// @Description Consumes the owner-signed authorization bound to the caller.
// @Tags voting-ledger
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Voter address"
// @Param request body httptransport.VoteRequest true "Vote"
// @Success 200 {object} httptransport.VoteResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/votes [post]
func (h Handler) VoteHandler(
	ctx context.Context,
	caller string,
	req httptransport.VoteRequest,
) (httptransport.VoteResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	voter, err := parseIdentity(caller)
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	proof, err := ethsig.DecodeProof(req.Signature)
	if err != nil {
		// Undecodable proofs go to the ledger as empty so candidate lookup
		// still runs first and the rejection is the usual unauthorized.
		logger.Debug("vote signature decode failed",
			"event", "http_vote_signature_decode_failed",
			"module", "governance/voting-ledger",
			"layer", "transport",
			"voter", voter.String(),
		)
		proof = nil
	}

	receipt, err := h.Election.Vote(ctx, commands.VoteCommand{
		Voter:       voter,
		CandidateID: req.CandidateID,
		Proof:       proof,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		Voter:     receipt.Voter.String(),
		Candidate: mapCandidate(receipt.Candidate),
	}, nil
}

// VoterStatusHandler godoc
// @Summary Voter status
// @Tags voting-ledger
// @Produce json
// @Param address path string true "Voter address"
// @Success 200 {object} httptransport.VoterStatusResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/voters/{address} [get]
func (h Handler) VoterStatusHandler(ctx context.Context, address string) (httptransport.VoterStatusResponse, error) {
	identity, err := parseIdentity(address)
	if err != nil {
		return httptransport.VoterStatusResponse{}, err
	}
	return httptransport.VoterStatusResponse{
		Address:  identity.String(),
		HasVoted: h.Results.HasVoted(ctx, identity),
	}, nil
}

// WinnerHandler godoc
// @Summary Election winner
// @Description Candidate with the most votes; ties go to the lowest id.
// @Tags voting-ledger
// @Produce json
// @Success 200 {object} httptransport.CandidateResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/election/winner [get]
func (h Handler) WinnerHandler(ctx context.Context) (httptransport.CandidateResponse, error) {
	winner, err := h.Results.Winner(ctx)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(winner), nil
}

// StatsHandler godoc
// @Summary Election statistics
// @Tags voting-ledger
// @Produce json
// @Success 200 {object} httptransport.ElectionStatsResponse
// @Router /v1/election/stats [get]
func (h Handler) StatsHandler(ctx context.Context) httptransport.ElectionStatsResponse {
	stats := h.Results.Stats(ctx)
	return httptransport.ElectionStatsResponse{
		Candidates: stats.Candidates,
		VotesCast:  stats.VotesCast,
		Holders:    stats.Holders,
	}
}

func parseIdentity(raw string) (entities.Identity, error) {
	identity, err := ethsig.ParseIdentity(raw)
	if err != nil {
		return "", domainerrors.ErrInvalidInput
	}
	return identity, nil
}

func parseAmount(raw string) (uint64, error) {
	amount, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, domainerrors.ErrInvalidInput
	}
	return amount, nil
}

func formatAmount(amount uint64) string {
	return strconv.FormatUint(amount, 10)
}

func mapTransfer(receipt entities.TransferReceipt) httptransport.TransferResponse {
	return httptransport.TransferResponse{
		From:        receipt.From.String(),
		To:          receipt.To.String(),
		Spender:     receipt.Spender.String(),
		Amount:      formatAmount(receipt.Amount),
		FromBalance: formatAmount(receipt.FromBalance),
		ToBalance:   formatAmount(receipt.ToBalance),
	}
}

func mapCandidate(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		ID:        candidate.ID,
		Name:      candidate.Name,
		VoteCount: candidate.VoteCount,
	}
}
