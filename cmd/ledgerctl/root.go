package main

import (
	"errors"
	"os"
	"strings"

	"tokenvote/contexts/governance/voting-ledger/adapters/ethsig"

	"github.com/spf13/cobra"
)

const ownerKeyEnv = "LEDGER_OWNER_PRIVATE_KEY"

// newRootCmd builds the ledgerctl command tree. The owner key is only needed
// by commands that sign.
func newRootCmd() *cobra.Command {
	var keyHex string

	rootCmd := &cobra.Command{
		Use:          "ledgerctl",
		Short:        "Issue and check voting ledger authorization proofs",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&keyHex, "key", "", "owner private key in hex (defaults to $"+ownerKeyEnv+")")

	loadSigner := func() (*ethsig.Signer, error) {
		value := strings.TrimSpace(keyHex)
		if value == "" {
			value = strings.TrimSpace(os.Getenv(ownerKeyEnv))
		}
		if value == "" {
			return nil, errors.New("owner key is required: pass --key or set " + ownerKeyEnv)
		}
		return ethsig.NewSigner(value)
	}

	rootCmd.AddCommand(
		newAddressCmd(loadSigner),
		newAuthorizeCmd(loadSigner),
		newVerifyCmd(),
	)
	return rootCmd
}
