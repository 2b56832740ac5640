package main

import "os"

// ledgerctl is the operator CLI for the key-management side of the ledger:
// it signs voter authorizations with the owner key and checks proofs offline.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
