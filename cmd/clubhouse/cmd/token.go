package cmd

import (
	"errors"
	"fmt"
	"time"

	"clubhouse-backend/internal/auth"
	"clubhouse-backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenEmail   string
	tokenName    string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a signed identity assertion for claims mode",
	Long: `Mint an HS256 identity assertion signed with the configured claims
secret, the same shape the external identity provider sends. Useful for
exercising the API locally with AUTH_MODE=claims.

Examples:
  clubhouse token --sub idp|42 --email coach@example.com --name "Pat Coach"
  curl -H "Authorization: Bearer $(clubhouse token --sub idp|42)" localhost:8080/api/events`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if cfg.Auth.ClaimsSecret == "" {
			return errors.New("AUTH_CLAIMS_SECRET is not set")
		}
		if tokenSubject == "" {
			return errors.New("--sub is required")
		}

		now := time.Now()
		registered := jwt.RegisteredClaims{
			Subject:   tokenSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		}
		if cfg.Auth.ClaimsIssuer != "" {
			registered.Issuer = cfg.Auth.ClaimsIssuer
		}
		if cfg.Auth.ClaimsAudience != "" {
			registered.Audience = jwt.ClaimStrings{cfg.Auth.ClaimsAudience}
		}

		token, err := auth.SignClaims(cfg.Auth.ClaimsSecret, &auth.Claims{
			Email:            tokenEmail,
			Name:             tokenName,
			RegisteredClaims: registered,
		})
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "subject (stable member id)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "display name claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}
