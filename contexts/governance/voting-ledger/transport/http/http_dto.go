package http

// Amounts are decimal strings so 64-bit balances survive JSON number parsing
// in JavaScript clients.

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TokenInfoResponse struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	TotalSupply string `json:"total_supply"`
	Owner       string `json:"owner"`
}

type BalanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type TransferFromRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type TransferResponse struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Spender     string `json:"spender,omitempty"`
	Amount      string `json:"amount"`
	FromBalance string `json:"from_balance"`
	ToBalance   string `json:"to_balance"`
}

type ApproveRequest struct {
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type AllowanceResponse struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type AddCandidateRequest struct {
	Name string `json:"name"`
}

type CandidateResponse struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	VoteCount uint64 `json:"vote_count"`
}

type CandidateListResponse struct {
	CandidateIDs []uint64            `json:"candidate_ids"`
	Items        []CandidateResponse `json:"items"`
}

type VoteRequest struct {
	CandidateID uint64 `json:"candidate_id"`
	Signature   string `json:"signature"`
}

type VoteResponse struct {
	Voter     string            `json:"voter"`
	Candidate CandidateResponse `json:"candidate"`
}

type VoterStatusResponse struct {
	Address  string `json:"address"`
	HasVoted bool   `json:"has_voted"`
}

type ElectionStatsResponse struct {
	Candidates int `json:"candidates"`
	VotesCast  int `json:"votes_cast"`
	Holders    int `json:"holders"`
}
