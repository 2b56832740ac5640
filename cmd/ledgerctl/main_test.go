package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const testVoter = "0x1111111111111111111111111111111111111111"

func runLedgerctl(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestAuthorizeThenVerifyRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	keyHex := hexutil.Encode(crypto.FromECDSA(key))
	owner := crypto.PubkeyToAddress(key.PublicKey).Hex()

	address, err := runLedgerctl(t, "address", "--key", keyHex)
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	if address != owner {
		t.Fatalf("expected %s, got %s", owner, address)
	}

	proof, err := runLedgerctl(t, "authorize", testVoter, "--key", keyHex)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	signer, err := runLedgerctl(t, "verify", testVoter, proof)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if signer != owner {
		t.Fatalf("expected signer %s, got %s", owner, signer)
	}
}

func TestAuthorizeRequiresKey(t *testing.T) {
	t.Setenv(ownerKeyEnv, "")
	if _, err := runLedgerctl(t, "authorize", testVoter); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestAuthorizeReadsKeyFromEnv(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	t.Setenv(ownerKeyEnv, hexutil.Encode(crypto.FromECDSA(key))[2:])
	if _, err := runLedgerctl(t, "authorize", testVoter); err != nil {
		t.Fatalf("authorize with env key: %v", err)
	}
}

func TestVerifyRejectsMalformedProof(t *testing.T) {
	if _, err := runLedgerctl(t, "verify", testVoter, "0x0102"); err == nil {
		t.Fatalf("expected malformed proof error")
	}
	if _, err := runLedgerctl(t, "authorize", "not-an-address", "--key", "00"); err == nil {
		t.Fatalf("expected invalid voter error")
	}
}
