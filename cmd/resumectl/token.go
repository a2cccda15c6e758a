package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"resume-builder/internal/shared/auth"
)

var (
	tokenEmail string
	tokenTTL   time.Duration
)

// tokenCmd signs a token with the local JWT_SECRET, for development servers.
var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue a development API token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		claims := auth.Claims{
			Email:            tokenEmail,
			RegisteredClaims: jwt.RegisteredClaims{Subject: args[0]},
		}
		if tokenTTL > 0 {
			claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(tokenTTL))
		}
		signed, err := auth.SignJWT(claims)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default 24h)")
	rootCmd.AddCommand(tokenCmd)
}
