package main

import (
	"fmt"

	"tokenvote/contexts/governance/voting-ledger/adapters/ethsig"

	"github.com/spf13/cobra"
)

func newAddressCmd(loadSigner func() (*ethsig.Signer, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Print the identity of the owner key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := loadSigner()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), signer.Identity().String())
			return err
		},
	}
}
