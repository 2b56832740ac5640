package ledger_test

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"tokenvote/contexts/governance/voting-ledger/adapters/ethsig"
	"tokenvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "tokenvote/contexts/governance/voting-ledger/domain/errors"
	"tokenvote/contexts/governance/voting-ledger/domain/ledger"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	owner = entities.Identity("0x00000000000000000000000000000000000000AA")
	alice = entities.Identity("0x00000000000000000000000000000000000000A1")
	bob   = entities.Identity("0x00000000000000000000000000000000000000B0")
	carol = entities.Identity("0x00000000000000000000000000000000000000C0")
)

// stubVerifier treats proof bytes as the signer identity, so "owner signed
// for voter" is encoded as proof == owner+":"+voter.
type stubVerifier struct{}

func (stubVerifier) RecoverSigner(voter entities.Identity, proof []byte) (entities.Identity, error) {
	raw := string(proof)
	suffix := ":" + string(voter)
	if len(raw) <= len(suffix) || raw[len(raw)-len(suffix):] != suffix {
		return "", errors.New("proof not bound to voter")
	}
	return entities.Identity(raw[:len(raw)-len(suffix)]), nil
}

func proofFor(signer entities.Identity, voter entities.Identity) []byte {
	return []byte(string(signer) + ":" + string(voter))
}

func newLedger(t *testing.T, supply uint64) *ledger.Ledger {
	t.Helper()
	l, err := ledger.New(ledger.Genesis{
		Owner:       owner,
		TotalSupply: supply,
		Name:        "Voting Token",
		Symbol:      "VOTE",
		Decimals:    18,
	}, stubVerifier{})
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	return l
}

func sumBalances(l *ledger.Ledger, identities ...entities.Identity) uint64 {
	var total uint64
	for _, identity := range identities {
		total += l.BalanceOf(identity)
	}
	return total
}

func TestNewRejectsMissingOwnerOrVerifier(t *testing.T) {
	if _, err := ledger.New(ledger.Genesis{TotalSupply: 10}, stubVerifier{}); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty owner, got %v", err)
	}
	if _, err := ledger.New(ledger.Genesis{Owner: entities.ZeroIdentity}, stubVerifier{}); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero owner, got %v", err)
	}
	if _, err := ledger.New(ledger.Genesis{Owner: owner}, nil); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil verifier, got %v", err)
	}
}

func TestGenesisCreditsOwner(t *testing.T) {
	l := newLedger(t, 1000)
	if got := l.BalanceOf(owner); got != 1000 {
		t.Fatalf("expected owner balance 1000, got %d", got)
	}
	if got := l.BalanceOf(alice); got != 0 {
		t.Fatalf("expected unknown identity balance 0, got %d", got)
	}
	if l.TotalSupply() != 1000 || l.Owner() != owner {
		t.Fatalf("unexpected info %+v", l.Info())
	}
}

func TestTransferConservesSupply(t *testing.T) {
	l := newLedger(t, 1000)
	steps := []struct {
		from   entities.Identity
		to     entities.Identity
		amount uint64
	}{
		{owner, alice, 50},
		{alice, bob, 20},
		{bob, carol, 20},
		{owner, owner, 10},
		{carol, owner, 0},
		{alice, alice, 30},
	}
	for _, step := range steps {
		if _, err := l.Transfer(step.from, step.to, step.amount); err != nil {
			t.Fatalf("transfer %s->%s %d: %v", step.from, step.to, step.amount, err)
		}
		if total := sumBalances(l, owner, alice, bob, carol); total != 1000 {
			t.Fatalf("expected balances to sum to 1000, got %d", total)
		}
	}
	if l.BalanceOf(owner) != 950 || l.BalanceOf(alice) != 30 || l.BalanceOf(bob) != 0 || l.BalanceOf(carol) != 20 {
		t.Fatalf("unexpected balances owner=%d alice=%d bob=%d carol=%d",
			l.BalanceOf(owner), l.BalanceOf(alice), l.BalanceOf(bob), l.BalanceOf(carol))
	}
}

func TestTransferOverBalanceLeavesStateUnchanged(t *testing.T) {
	l := newLedger(t, 100)
	if _, err := l.Transfer(owner, alice, 101); !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if l.BalanceOf(owner) != 100 || l.BalanceOf(alice) != 0 {
		t.Fatalf("balances changed after failed transfer")
	}
	if _, err := l.Transfer(bob, alice, 1); !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance from empty account, got %v", err)
	}
}

func TestTransferSelfRequiresBalance(t *testing.T) {
	l := newLedger(t, 10)
	if _, err := l.Transfer(owner, owner, 11); !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance on self transfer, got %v", err)
	}
	receipt, err := l.Transfer(owner, owner, 10)
	if err != nil {
		t.Fatalf("self transfer: %v", err)
	}
	if receipt.FromBalance != 10 || receipt.ToBalance != 10 {
		t.Fatalf("unexpected self transfer receipt %+v", receipt)
	}
}

func TestTransferRejectsZeroRecipient(t *testing.T) {
	l := newLedger(t, 10)
	if _, err := l.Transfer(owner, entities.ZeroIdentity, 1); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if l.BalanceOf(owner) != 10 {
		t.Fatalf("owner balance changed")
	}
}

func TestAllowanceFlow(t *testing.T) {
	l := newLedger(t, 100)
	if _, err := l.Approve(owner, alice, 40); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := l.TransferFrom(alice, owner, bob, 41); !errors.Is(err, domainerrors.ErrInsufficientAllowance) {
		t.Fatalf("expected ErrInsufficientAllowance, got %v", err)
	}
	receipt, err := l.TransferFrom(alice, owner, bob, 15)
	if err != nil {
		t.Fatalf("transfer from: %v", err)
	}
	if receipt.Allowance != 25 || receipt.Spender != alice {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if l.Allowance(owner, alice) != 25 || l.BalanceOf(bob) != 15 || l.BalanceOf(owner) != 85 {
		t.Fatalf("unexpected state after transfer from")
	}

	// Approve overwrites rather than adds.
	if _, err := l.Approve(owner, alice, 5); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got := l.Allowance(owner, alice); got != 5 {
		t.Fatalf("expected allowance 5, got %d", got)
	}
}

func TestTransferFromChecksBalanceAfterAllowance(t *testing.T) {
	l := newLedger(t, 10)
	if _, err := l.Approve(owner, alice, 50); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := l.TransferFrom(alice, owner, bob, 20); !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := l.Allowance(owner, alice); got != 50 {
		t.Fatalf("allowance changed after failed transfer: %d", got)
	}
}

func TestInfiniteAllowanceIsNotDecremented(t *testing.T) {
	l := newLedger(t, 100)
	if _, err := l.Approve(owner, alice, math.MaxUint64); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := l.TransferFrom(alice, owner, bob, 60); err != nil {
		t.Fatalf("transfer from: %v", err)
	}
	if got := l.Allowance(owner, alice); got != math.MaxUint64 {
		t.Fatalf("expected infinite allowance to stay, got %d", got)
	}
}

func TestAddCandidateAssignsSequentialIDs(t *testing.T) {
	l := newLedger(t, 0)
	for i, name := range []string{"Alice", "Bob", "Carol"} {
		candidate, err := l.AddCandidate(name, owner)
		if err != nil {
			t.Fatalf("add candidate: %v", err)
		}
		if candidate.ID != uint64(i+1) || candidate.VoteCount != 0 {
			t.Fatalf("unexpected candidate %+v", candidate)
		}
	}
	ids := l.CandidateIDs()
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestAddCandidateAllowsDuplicateNames(t *testing.T) {
	l := newLedger(t, 0)
	first, _ := l.AddCandidate("Alice", owner)
	second, err := l.AddCandidate("Alice", owner)
	if err != nil {
		t.Fatalf("duplicate name: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("duplicate names must still get distinct ids")
	}
}

func TestAddCandidateRejectsNonOwner(t *testing.T) {
	l := newLedger(t, 0)
	if _, err := l.AddCandidate("Mallory", alice); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(l.CandidateIDs()) != 0 {
		t.Fatalf("registry changed after unauthorized add")
	}
	if _, err := l.AddCandidate("   ", owner); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
}

func TestCandidateLookup(t *testing.T) {
	l := newLedger(t, 0)
	if _, err := l.Candidate(1); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := l.AddCandidate("Alice", owner); err != nil {
		t.Fatalf("add candidate: %v", err)
	}
	candidate, err := l.Candidate(1)
	if err != nil || candidate.Name != "Alice" {
		t.Fatalf("unexpected candidate %+v err=%v", candidate, err)
	}
	for _, id := range []uint64{0, 2} {
		if _, err := l.Candidate(id); !errors.Is(err, domainerrors.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for id %d, got %v", id, err)
		}
	}
}

func TestVoteOncePerIdentity(t *testing.T) {
	l := newLedger(t, 0)
	_, _ = l.AddCandidate("Alice", owner)
	_, _ = l.AddCandidate("Bob", owner)

	receipt, err := l.Vote(1, proofFor(owner, alice), alice)
	if err != nil {
		t.Fatalf("vote: %v", err)
	}
	if receipt.Candidate.VoteCount != 1 || receipt.Voter != alice {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if !l.HasVoted(alice) {
		t.Fatalf("expected alice to be marked as voted")
	}

	if _, err := l.Vote(1, proofFor(owner, alice), alice); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted on replay, got %v", err)
	}
	if _, err := l.Vote(2, proofFor(owner, alice), alice); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted for other candidate, got %v", err)
	}
	first, _ := l.Candidate(1)
	second, _ := l.Candidate(2)
	if first.VoteCount != 1 || second.VoteCount != 0 {
		t.Fatalf("vote counts changed on replay: %d %d", first.VoteCount, second.VoteCount)
	}
}

func TestVoteRejectsInvalidAuthorization(t *testing.T) {
	l := newLedger(t, 0)
	_, _ = l.AddCandidate("Alice", owner)

	cases := map[string]struct {
		proof []byte
		voter entities.Identity
	}{
		"empty proof":      {proof: nil, voter: alice},
		"non-owner signer": {proof: proofFor(bob, alice), voter: alice},
		"bound to other":   {proof: proofFor(owner, bob), voter: alice},
		"garbage":          {proof: []byte{0x01, 0x02}, voter: alice},
		"empty voter":      {proof: proofFor(owner, ""), voter: ""},
	}
	for name, tc := range cases {
		if _, err := l.Vote(1, tc.proof, tc.voter); !errors.Is(err, domainerrors.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
	candidate, _ := l.Candidate(1)
	if candidate.VoteCount != 0 || l.HasVoted(alice) {
		t.Fatalf("state changed after rejected votes")
	}
}

func TestVoteChecksCandidateBeforeAuthorization(t *testing.T) {
	l := newLedger(t, 0)
	if _, err := l.Vote(9, nil, alice); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := l.Vote(9, proofFor(owner, ""), ""); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank voter and unknown candidate, got %v", err)
	}
	if l.HasVoted(alice) {
		t.Fatalf("vote record changed after unknown candidate")
	}
}

func TestWinnerRules(t *testing.T) {
	l := newLedger(t, 0)
	if _, err := l.Winner(); !errors.Is(err, domainerrors.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}

	_, _ = l.AddCandidate("Alice", owner)
	_, _ = l.AddCandidate("Bob", owner)
	winner, err := l.Winner()
	if err != nil || winner.ID != 1 || winner.VoteCount != 0 {
		t.Fatalf("expected zero-vote tie to go to candidate 1, got %+v err=%v", winner, err)
	}

	if _, err := l.Vote(2, proofFor(owner, alice), alice); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if winner, _ := l.Winner(); winner.ID != 2 {
		t.Fatalf("expected candidate 2 to lead, got %+v", winner)
	}

	if _, err := l.Vote(1, proofFor(owner, bob), bob); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if winner, _ := l.Winner(); winner.ID != 1 || winner.VoteCount != 1 {
		t.Fatalf("expected tie to go to lowest id, got %+v", winner)
	}

	if _, err := l.Vote(1, proofFor(owner, carol), carol); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if winner, _ := l.Winner(); winner.ID != 1 || winner.VoteCount != 2 {
		t.Fatalf("expected candidate 1 with 2 votes, got %+v", winner)
	}
}

func TestStatsCountsFundedHolders(t *testing.T) {
	l := newLedger(t, 100)
	_, _ = l.Transfer(owner, alice, 100)
	_, _ = l.AddCandidate("Alice", owner)
	_, _ = l.Vote(1, proofFor(owner, bob), bob)

	stats := l.Stats()
	if stats.Holders != 1 || stats.Candidates != 1 || stats.VotesCast != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestConcurrentVotesAndTransfers(t *testing.T) {
	l := newLedger(t, 1000)
	_, _ = l.AddCandidate("Alice", owner)

	voters := []entities.Identity{alice, bob, carol}
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		voter := voters[i%len(voters)]
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = l.Vote(1, proofFor(owner, voter), voter)
		}()
		go func() {
			defer wg.Done()
			_, _ = l.Transfer(owner, voter, 1)
		}()
	}
	wg.Wait()

	candidate, _ := l.Candidate(1)
	if candidate.VoteCount != 3 {
		t.Fatalf("expected exactly one vote per identity, got %d", candidate.VoteCount)
	}
	if total := sumBalances(l, owner, alice, bob, carol); total != 1000 {
		t.Fatalf("expected supply conserved, got %d", total)
	}
}

func TestElectionScenarioWithSignedAuthorizations(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer, err := ethsig.NewSignerFromKey(key)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	addr1, _ := ethsig.ParseIdentity("0x1111111111111111111111111111111111111111")
	addr2, _ := ethsig.ParseIdentity("0x2222222222222222222222222222222222222222")

	l, err := ledger.New(ledger.Genesis{Owner: signer.Identity(), TotalSupply: 1000}, ethsig.Verifier{})
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	if _, err := l.Transfer(signer.Identity(), addr1, 50); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if l.BalanceOf(addr1) != 50 || l.BalanceOf(signer.Identity()) != 950 {
		t.Fatalf("unexpected balances after transfer")
	}

	_, _ = l.AddCandidate("Alice", signer.Identity())
	_, _ = l.AddCandidate("Bob", signer.Identity())

	for _, voter := range []entities.Identity{addr1, addr2} {
		proof, err := signer.Authorize(voter)
		if err != nil {
			t.Fatalf("authorize: %v", err)
		}
		if _, err := l.Vote(1, proof, voter); err != nil {
			t.Fatalf("vote for %s: %v", voter, err)
		}
	}

	winner, err := l.Winner()
	if err != nil {
		t.Fatalf("winner: %v", err)
	}
	if winner.ID != 1 || winner.Name != "Alice" || winner.VoteCount != 2 {
		t.Fatalf("unexpected winner %+v", winner)
	}
}

func TestSignedAuthorizationCountsOnceAcrossAddressSpellings(t *testing.T) {
	ownerKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate owner key: %v", err)
	}
	voterKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate voter key: %v", err)
	}
	signer, _ := ethsig.NewSignerFromKey(ownerKey)
	voter := entities.Identity(crypto.PubkeyToAddress(voterKey.PublicKey).Hex())

	l, err := ledger.New(ledger.Genesis{Owner: signer.Identity()}, ethsig.Verifier{})
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	_, _ = l.AddCandidate("Alice", signer.Identity())

	proof, err := signer.Authorize(voter)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if _, err := l.Vote(1, proof, voter); err != nil {
		t.Fatalf("vote: %v", err)
	}

	raw := string(voter)
	for _, spelling := range []string{strings.ToLower(raw), "0x" + strings.ToUpper(raw[2:])} {
		if spelling == raw {
			continue
		}
		_, err := l.Vote(1, proof, entities.Identity(spelling))
		if err == nil {
			t.Fatalf("%s: one authorization was spent twice", spelling)
		}
		if !errors.Is(err, domainerrors.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", spelling, err)
		}
	}

	candidate, _ := l.Candidate(1)
	if candidate.VoteCount != 1 {
		t.Fatalf("expected 1 vote, got %d", candidate.VoteCount)
	}
	if stats := l.Stats(); stats.VotesCast != 1 {
		t.Fatalf("expected one vote record, got %d", stats.VotesCast)
	}
}
