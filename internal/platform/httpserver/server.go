package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	votingledger "tokenvote/contexts/governance/voting-ledger"
	ledgererrors "tokenvote/contexts/governance/voting-ledger/domain/errors"
	ledgerhttp "tokenvote/contexts/governance/voting-ledger/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "tokenvote/internal/platform/httpserver/docs"
)

// callerHeader carries the identity the upstream account service
// authenticated for this request.
const callerHeader = "X-Caller-Address"

type Server struct {
	mux    *http.ServeMux
	http   *http.Server
	logger *slog.Logger
	addr   string
	ledger votingledger.Module
}

func New(ledger votingledger.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		ledger: ledger,
	}
	s.registerRoutes()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /v1/token", s.handleTokenInfo)
	s.mux.HandleFunc("GET /v1/accounts/{address}/balance", s.handleBalance)
	s.mux.HandleFunc("POST /v1/transfers", s.handleTransfer)
	s.mux.HandleFunc("POST /v1/transfers/from", s.handleTransferFrom)
	s.mux.HandleFunc("POST /v1/allowances", s.handleApprove)
	s.mux.HandleFunc("GET /v1/allowances/{owner}/{spender}", s.handleAllowance)

	s.mux.HandleFunc("POST /v1/candidates", s.handleAddCandidate)
	s.mux.HandleFunc("GET /v1/candidates", s.handleListCandidates)
	s.mux.HandleFunc("GET /v1/candidates/{candidate_id}", s.handleGetCandidate)
	s.mux.HandleFunc("POST /v1/votes", s.handleVote)
	s.mux.HandleFunc("GET /v1/voters/{address}", s.handleVoterStatus)
	s.mux.HandleFunc("GET /v1/election/winner", s.handleWinner)
	s.mux.HandleFunc("GET /v1/election/stats", s.handleStats)
}

func (s *Server) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Handler.TokenInfoHandler(r.Context()))
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.BalanceHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.TransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.ledger.Handler.TransferHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransferFrom(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.TransferFromRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.ledger.Handler.TransferFromHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.ApproveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.ledger.Handler.ApproveHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAllowance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.AllowanceHandler(r.Context(), r.PathValue("owner"), r.PathValue("spender"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.AddCandidateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.ledger.Handler.AddCandidateHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Handler.ListCandidatesHandler(r.Context()))
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.GetCandidateHandler(r.Context(), r.PathValue("candidate_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.VoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.ledger.Handler.VoteHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoterStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.VoterStatusHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWinner(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.WinnerHandler(r.Context())
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Handler.StatsHandler(r.Context()))
}

func requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get(callerHeader))
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_caller", callerHeader+" header is required")
		return "", false
	}
	return caller, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrInvalidInput):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrUnauthorized):
		writeLedgerError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, ledgererrors.ErrNotFound):
		writeLedgerError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrNoCandidates):
		writeLedgerError(w, http.StatusNotFound, "no_candidates", err.Error())
	case errors.Is(err, ledgererrors.ErrAlreadyVoted):
		writeLedgerError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, ledgererrors.ErrInsufficientBalance):
		writeLedgerError(w, http.StatusUnprocessableEntity, "insufficient_balance", err.Error())
	case errors.Is(err, ledgererrors.ErrInsufficientAllowance):
		writeLedgerError(w, http.StatusUnprocessableEntity, "insufficient_allowance", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
