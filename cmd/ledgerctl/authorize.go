package main

import (
	"fmt"

	"tokenvote/contexts/governance/voting-ledger/adapters/ethsig"

	"github.com/spf13/cobra"
)

func newAuthorizeCmd(loadSigner func() (*ethsig.Signer, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "authorize <voter>",
		Short: "Sign a single-use voting authorization for voter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			voter, err := ethsig.ParseIdentity(args[0])
			if err != nil {
				return err
			}
			signer, err := loadSigner()
			if err != nil {
				return err
			}
			proof, err := signer.Authorize(voter)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ethsig.EncodeProof(proof))
			return err
		},
	}
}
