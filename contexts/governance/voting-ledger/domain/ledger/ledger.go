// Package ledger holds the authoritative token-and-election state machine.
//
// A Ledger owns balances, allowances, the candidate registry and the vote
// record. Every operation runs to completion under the ledger mutex and
// validates before it writes, so a rejected call leaves no partial effects.
package ledger

import (
	"math"
	"strings"
	"sync"

	"tokenvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "tokenvote/contexts/governance/voting-ledger/domain/errors"
)

// AuthorizationVerifier recovers the identity that issued proof for voter.
// Implementations return an error for empty or malformed proofs.
type AuthorizationVerifier interface {
	RecoverSigner(voter entities.Identity, proof []byte) (entities.Identity, error)
}

// Genesis fixes the owner and supply at construction time.
type Genesis struct {
	Owner       entities.Identity
	TotalSupply uint64
	Name        string
	Symbol      string
	Decimals    uint8
}

type allowanceKey struct {
	owner   entities.Identity
	spender entities.Identity
}

type Ledger struct {
	mu sync.Mutex

	info       entities.TokenInfo
	balances   map[entities.Identity]uint64
	allowances map[allowanceKey]uint64
	candidates []entities.Candidate
	voted      map[entities.Identity]struct{}
	verifier   AuthorizationVerifier
}

func New(genesis Genesis, verifier AuthorizationVerifier) (*Ledger, error) {
	owner := entities.Identity(strings.TrimSpace(string(genesis.Owner)))
	if owner == "" || owner == entities.ZeroIdentity || verifier == nil {
		return nil, domainerrors.ErrInvalidInput
	}

	balances := make(map[entities.Identity]uint64)
	if genesis.TotalSupply > 0 {
		balances[owner] = genesis.TotalSupply
	}
	return &Ledger{
		info: entities.TokenInfo{
			Name:        strings.TrimSpace(genesis.Name),
			Symbol:      strings.TrimSpace(genesis.Symbol),
			Decimals:    genesis.Decimals,
			TotalSupply: genesis.TotalSupply,
			Owner:       owner,
		},
		balances:   balances,
		allowances: make(map[allowanceKey]uint64),
		candidates: make([]entities.Candidate, 0),
		voted:      make(map[entities.Identity]struct{}),
		verifier:   verifier,
	}, nil
}

func (l *Ledger) Info() entities.TokenInfo {
	// info is immutable after New.
	return l.info
}

func (l *Ledger) Owner() entities.Identity {
	return l.info.Owner
}

func (l *Ledger) TotalSupply() uint64 {
	return l.info.TotalSupply
}

func (l *Ledger) BalanceOf(identity entities.Identity) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[identity]
}

func (l *Ledger) Allowance(owner entities.Identity, spender entities.Identity) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowances[allowanceKey{owner: owner, spender: spender}]
}

// Transfer moves amount from the caller's own balance to another identity.
func (l *Ledger) Transfer(from entities.Identity, to entities.Identity, amount uint64) (entities.TransferReceipt, error) {
	if !validCounterparties(from, to) {
		return entities.TransferReceipt{}, domainerrors.ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > l.balances[from] {
		return entities.TransferReceipt{}, domainerrors.ErrInsufficientBalance
	}
	l.move(from, to, amount)
	return entities.TransferReceipt{
		From:        from,
		To:          to,
		Amount:      amount,
		FromBalance: l.balances[from],
		ToBalance:   l.balances[to],
	}, nil
}

// Approve sets the amount spender may move out of owner's balance. An
// allowance of math.MaxUint64 is never decremented by TransferFrom.
func (l *Ledger) Approve(owner entities.Identity, spender entities.Identity, amount uint64) (entities.ApprovalReceipt, error) {
	if !validCounterparties(owner, spender) {
		return entities.ApprovalReceipt{}, domainerrors.ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := allowanceKey{owner: owner, spender: spender}
	if amount == 0 {
		delete(l.allowances, key)
	} else {
		l.allowances[key] = amount
	}
	return entities.ApprovalReceipt{Owner: owner, Spender: spender, Amount: amount}, nil
}

func (l *Ledger) TransferFrom(
	spender entities.Identity,
	from entities.Identity,
	to entities.Identity,
	amount uint64,
) (entities.TransferReceipt, error) {
	if strings.TrimSpace(string(spender)) == "" || !validCounterparties(from, to) {
		return entities.TransferReceipt{}, domainerrors.ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := allowanceKey{owner: from, spender: spender}
	allowance := l.allowances[key]
	if amount > allowance {
		return entities.TransferReceipt{}, domainerrors.ErrInsufficientAllowance
	}
	if amount > l.balances[from] {
		return entities.TransferReceipt{}, domainerrors.ErrInsufficientBalance
	}

	if allowance != math.MaxUint64 {
		allowance -= amount
		if allowance == 0 {
			delete(l.allowances, key)
		} else {
			l.allowances[key] = allowance
		}
	}
	l.move(from, to, amount)
	return entities.TransferReceipt{
		From:        from,
		To:          to,
		Spender:     spender,
		Amount:      amount,
		FromBalance: l.balances[from],
		ToBalance:   l.balances[to],
		Allowance:   allowance,
	}, nil
}

// AddCandidate appends a candidate with the next sequential id. Only the
// registry owner may call it.
func (l *Ledger) AddCandidate(name string, caller entities.Identity) (entities.Candidate, error) {
	if caller != l.info.Owner {
		return entities.Candidate{}, domainerrors.ErrUnauthorized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	candidate := entities.Candidate{
		ID:   uint64(len(l.candidates)) + 1,
		Name: name,
	}
	l.candidates = append(l.candidates, candidate)
	return candidate, nil
}

func (l *Ledger) CandidateIDs() []uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]uint64, 0, len(l.candidates))
	for _, candidate := range l.candidates {
		ids = append(ids, candidate.ID)
	}
	return ids
}

func (l *Ledger) Candidates() []entities.Candidate {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]entities.Candidate(nil), l.candidates...)
}

func (l *Ledger) Candidate(id uint64) (entities.Candidate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.indexOf(id)
	if !ok {
		return entities.Candidate{}, domainerrors.ErrNotFound
	}
	return l.candidates[idx], nil
}

func (l *Ledger) HasVoted(identity entities.Identity) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.voted[identity]
	return ok
}

// Vote consumes the owner-issued authorization bound to voter. The vote
// record is keyed by identity, not by proof bytes, so an equivalent but
// differently encoded signature cannot be replayed. The verifier must only
// accept one spelling per identity.
func (l *Ledger) Vote(candidateID uint64, proof []byte, voter entities.Identity) (entities.VoteReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.indexOf(candidateID)
	if !ok {
		return entities.VoteReceipt{}, domainerrors.ErrNotFound
	}
	if strings.TrimSpace(string(voter)) == "" || len(proof) == 0 {
		return entities.VoteReceipt{}, domainerrors.ErrUnauthorized
	}
	signer, err := l.verifier.RecoverSigner(voter, proof)
	if err != nil || signer != l.info.Owner {
		return entities.VoteReceipt{}, domainerrors.ErrUnauthorized
	}
	if _, done := l.voted[voter]; done {
		return entities.VoteReceipt{}, domainerrors.ErrAlreadyVoted
	}

	l.voted[voter] = struct{}{}
	l.candidates[idx].VoteCount++
	return entities.VoteReceipt{
		Voter:     voter,
		Candidate: l.candidates[idx],
	}, nil
}

// Winner returns the candidate with the most votes. Ties go to the
// first-registered candidate.
func (l *Ledger) Winner() (entities.Candidate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.candidates) == 0 {
		return entities.Candidate{}, domainerrors.ErrNoCandidates
	}
	winner := l.candidates[0]
	for _, candidate := range l.candidates[1:] {
		if candidate.VoteCount > winner.VoteCount {
			winner = candidate
		}
	}
	return winner, nil
}

func (l *Ledger) Stats() entities.ElectionStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return entities.ElectionStats{
		Candidates: len(l.candidates),
		VotesCast:  len(l.voted),
		Holders:    len(l.balances),
	}
}

func (l *Ledger) indexOf(id uint64) (int, bool) {
	if id == 0 || id > uint64(len(l.candidates)) {
		return 0, false
	}
	return int(id - 1), true
}

// move assumes the caller checked the balance. Zero balances are dropped so
// Holders counts only funded accounts.
func (l *Ledger) move(from entities.Identity, to entities.Identity, amount uint64) {
	if from == to || amount == 0 {
		return
	}
	remaining := l.balances[from] - amount
	if remaining == 0 {
		delete(l.balances, from)
	} else {
		l.balances[from] = remaining
	}
	l.balances[to] += amount
}

func validCounterparties(from entities.Identity, to entities.Identity) bool {
	if strings.TrimSpace(string(from)) == "" || strings.TrimSpace(string(to)) == "" {
		return false
	}
	return to != entities.ZeroIdentity
}
