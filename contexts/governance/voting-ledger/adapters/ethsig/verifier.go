package ethsig

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"tokenvote/contexts/governance/voting-ledger/domain/entities"
	"tokenvote/contexts/governance/voting-ledger/domain/ledger"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrInvalidAddress = errors.New("invalid hex address")
	ErrMalformedProof = errors.New("malformed authorization proof")
	ErrInvalidKey     = errors.New("invalid signing key")
)

// ParseIdentity validates a hex address and returns its EIP-55 checksummed
// form, which is the only spelling the ledger ever sees.
func ParseIdentity(raw string) (entities.Identity, error) {
	value := strings.TrimSpace(raw)
	if !common.IsHexAddress(value) {
		return "", ErrInvalidAddress
	}
	return entities.Identity(common.HexToAddress(value).Hex()), nil
}

// AuthorizationDigest is keccak256 over the voter's 20 address bytes.
func AuthorizationDigest(voter common.Address) common.Hash {
	return crypto.Keccak256Hash(voter.Bytes())
}

// authorizationHash wraps the digest in the EIP-191 personal message prefix,
// matching what wallet message-signing produces for a 32-byte payload.
func authorizationHash(voter common.Address) []byte {
	return accounts.TextHash(AuthorizationDigest(voter).Bytes())
}

// canonicalVoter accepts only the checksummed spelling ParseIdentity returns.
// The vote record is keyed by the identity string, so every other letter case
// of the same address is rejected.
func canonicalVoter(voter entities.Identity) (common.Address, error) {
	raw := string(voter)
	if !common.IsHexAddress(raw) {
		return common.Address{}, ErrInvalidAddress
	}
	addr := common.HexToAddress(raw)
	if addr.Hex() != raw {
		return common.Address{}, ErrInvalidAddress
	}
	return addr, nil
}

// Verifier recovers the owner identity from 65-byte r||s||v proofs.
type Verifier struct{}

func (Verifier) RecoverSigner(voter entities.Identity, proof []byte) (entities.Identity, error) {
	addr, err := canonicalVoter(voter)
	if err != nil {
		return "", err
	}
	if len(proof) != crypto.SignatureLength {
		return "", ErrMalformedProof
	}

	sig := make([]byte, crypto.SignatureLength)
	copy(sig, proof)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return "", ErrMalformedProof
	}

	pub, err := crypto.SigToPub(authorizationHash(addr), sig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	return entities.Identity(crypto.PubkeyToAddress(*pub).Hex()), nil
}

// Signer issues authorization proofs on behalf of the registry owner. The
// ledger never holds one; it lives with the key-management collaborator.
type Signer struct {
	key *ecdsa.PrivateKey
}

func NewSigner(hexKey string) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &Signer{key: key}, nil
}

func NewSignerFromKey(key *ecdsa.PrivateKey) (*Signer, error) {
	if key == nil {
		return nil, ErrInvalidKey
	}
	return &Signer{key: key}, nil
}

func (s *Signer) Identity() entities.Identity {
	return entities.Identity(crypto.PubkeyToAddress(s.key.PublicKey).Hex())
}

// Authorize signs the authorization for voter with v in {27,28}.
func (s *Signer) Authorize(voter entities.Identity) ([]byte, error) {
	addr, err := canonicalVoter(voter)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(authorizationHash(addr), s.key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

func EncodeProof(proof []byte) string {
	return hexutil.Encode(proof)
}

// DecodeProof accepts hex with or without the 0x prefix. "0x" decodes to an
// empty proof.
func DecodeProof(raw string) ([]byte, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	if !strings.HasPrefix(value, "0x") && !strings.HasPrefix(value, "0X") {
		value = "0x" + value
	}
	proof, err := hexutil.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	return proof, nil
}

var _ ledger.AuthorizationVerifier = Verifier{}
