package main

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/pkg/jwt"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// tokenCommand issues a bearer token for local testing against the API.
func tokenCommand() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET must be set")
			}
			if _, err := uuid.Parse(userID); err != nil {
				return domain.ErrParseUUID
			}
			token, err := jwt.NewJWTService(cfg.JWTSecret).GenerateTokenUser(userID, domain.RoleUser)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID to embed in the token")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
