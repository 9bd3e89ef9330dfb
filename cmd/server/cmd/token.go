package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bistro_back_end/internal/auth"
	"bistro_back_end/internal/config"
	"bistro_back_end/internal/validation"
)

func newTokenCommand() *cobra.Command {
	var email string
	c := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for an email",
		Long:  `Mint a signed access token with ACCESS_TOKEN_SECRET, as POST /jwt would.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.Email("email", email); err != nil {
				return err
			}
			authCfg, err := config.LoadAuth()
			if err != nil {
				return err
			}
			tok, err := auth.NewTokenService(authCfg.TokenSecret, authCfg.TokenTTL).Issue(map[string]any{"email": email})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	c.Flags().StringVar(&email, "email", "", "email embedded in the token")
	_ = c.MarkFlagRequired("email")
	return c
}
