package main

import (
	"fmt"
	"time"

	"catalogdemo/middleware"

	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed token for the admin API",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := middleware.GenerateToken([]byte(settings.JWTSecret), tokenSubject, tokenRole, tokenTTL)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "userId claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", middleware.RoleAdmin, "role claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
