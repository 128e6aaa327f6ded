package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finadmin/internal/config"
	"finadmin/internal/credentials"
	"finadmin/internal/logger"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect the configured API credential",
	// No request is sent, so the API settings are not required.
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		settings = cfg
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a bearer token is configured and, for JWTs, its claims",
	Long: `Show whether a bearer token is configured and, for JWTs, its subject,
roles and expiry. The token is decoded locally; its signature is not checked
and no request is sent.`,
	Args: cobra.NoArgs,
	RunE: runAuthStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authStatusCmd)
}

type authStatus struct {
	Configured bool                   `json:"configured"`
	JWT        bool                   `json:"jwt"`
	Expired    bool                   `json:"expired"`
	Claims     *credentials.TokenInfo `json:"claims,omitempty"`
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("auth")
	out := cmd.OutOrStdout()

	token, ok := credentialStore().Get(credentials.TokenKey)
	status := authStatus{Configured: ok}
	if ok {
		info, err := credentials.Inspect(token)
		switch {
		case errors.Is(err, credentials.ErrOpaqueToken):
			log.Debug().Msg("Bearer token is opaque")
		case err != nil:
			return err
		default:
			status.JWT = true
			status.Claims = &info
			status.Expired = info.Expired(time.Now())
		}
	}

	if jsonOutput(cmd) {
		return printJSON(out, status)
	}

	switch {
	case !status.Configured:
		fmt.Fprintln(out, "No bearer token configured. Set FINADMIN_API_TOKEN or FINADMIN_CREDENTIALS_FILE.")
	case !status.JWT:
		fmt.Fprintln(out, "Bearer token configured (opaque).")
	default:
		fmt.Fprintf(out, "Bearer token configured for %s\n", firstNonEmpty(status.Claims.Email, status.Claims.Subject, "unknown subject"))
		if len(status.Claims.Roles) > 0 {
			fmt.Fprintf(out, "  roles:   %v\n", status.Claims.Roles)
		}
		if !status.Claims.ExpiresAt.IsZero() {
			state := "valid"
			if status.Expired {
				state = "EXPIRED"
			}
			fmt.Fprintf(out, "  expires: %s (%s)\n", status.Claims.ExpiresAt.Format(time.RFC3339), state)
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
