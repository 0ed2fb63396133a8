package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/middleware"
)

func newTokenCmd(load configLoader) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin JWT signed with auth.jwt_secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			token, err := middleware.IssueToken([]byte(cfg.Auth.JWTSecret), subject, ttl, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject (operator name)")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}
