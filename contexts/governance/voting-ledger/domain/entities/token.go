package entities

// Identity is an opaque principal key. Adapters canonicalize it before it
// reaches the ledger so two spellings of one account never diverge.
type Identity string

// ZeroIdentity is the canonical all-zero account; transfers never target it.
const ZeroIdentity Identity = "0x0000000000000000000000000000000000000000"

func (i Identity) String() string {
	return string(i)
}

type TokenInfo struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply uint64
	Owner       Identity
}

type TransferReceipt struct {
	From        Identity
	To          Identity
	Spender     Identity
	Amount      uint64
	FromBalance uint64
	ToBalance   uint64
	Allowance   uint64
}

type ApprovalReceipt struct {
	Owner   Identity
	Spender Identity
	Amount  uint64
}

type VoteReceipt struct {
	Voter     Identity
	Candidate Candidate
}
