// Package votingledger implements the token-and-election ledger inside the
// governance context.
//
// The module owns a fixed-supply fungible token, an owner-curated candidate
// registry and a one-vote-per-identity election gated by owner-signed
// authorizations. Ledger state lives in memory behind the domain mutex;
// committed changes are recorded as outbox events that workers relay to the
// event bus and project into a read-side tally.
package votingledger
