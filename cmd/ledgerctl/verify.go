package main

import (
	"errors"
	"fmt"

	"tokenvote/contexts/governance/voting-ledger/adapters/ethsig"

	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <voter> <proof>",
		Short: "Print the identity that signed proof for voter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			voter, err := ethsig.ParseIdentity(args[0])
			if err != nil {
				return err
			}
			proof, err := ethsig.DecodeProof(args[1])
			if err != nil {
				return err
			}
			if len(proof) == 0 {
				return errors.New("proof is empty")
			}
			signer, err := ethsig.Verifier{}.RecoverSigner(voter, proof)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), signer.String())
			return err
		},
	}
}
