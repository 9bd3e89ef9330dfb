package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bistro_back_end/internal/app"
	"bistro_back_end/internal/config"
	"bistro_back_end/internal/validation"
)

func newPromoteCommand() *cobra.Command {
	var email string
	c := &cobra.Command{
		Use:   "promote",
		Short: "Grant the admin role to a user",
		Long:  `Create the user if needed and grant the admin role. Used to bootstrap the first admin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.Email("email", email); err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			logger := config.NewLogger(cfg.Logging)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			store, err := app.OpenStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			if err := app.BootstrapAdmin(ctx, store, email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now admin\n", email)
			return nil
		},
	}
	c.Flags().StringVar(&email, "email", "", "email of the user to promote")
	_ = c.MarkFlagRequired("email")
	return c
}
