package errors

import "errors"

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("candidate not found")
	ErrAlreadyVoted          = errors.New("identity has already voted")
	ErrNoCandidates          = errors.New("no candidates registered")
	ErrInvalidInput          = errors.New("invalid ledger input")
	ErrEventConflict         = errors.New("ledger event conflict")
)
