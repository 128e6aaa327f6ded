package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finadmin/internal/api"
	"finadmin/internal/config"
	"finadmin/internal/credentials"
	"finadmin/internal/logger"
)

var version = "1.0.0"

// settings is the configuration every command runs with: the environment
// overlaid with the global flags.
var settings *config.Config

var rootCmd = &cobra.Command{
	Use:   "finadmin",
	Short: "Finance administration console for invoices, payments and users",
	Long: `finadmin is a command-line console for the finance administration API.

It lists, filters and summarizes invoices, payments and user accounts,
creates, updates and deletes them, shows the dashboard overview, and exports
the filtered collections to CSV, XLSX or a Google Sheet.

Required environment variables:
  FINADMIN_API_URL   - Base URL of the finance API (or --api-url)
  FINADMIN_API_TOKEN - Bearer token, OR a "token" entry in the JSON file
                       named by FINADMIN_CREDENTIALS_FILE`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %s\n", api.Message(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Base URL of the finance API (overrides FINADMIN_API_URL)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Request timeout (overrides FINADMIN_REQUEST_TIMEOUT)")
	rootCmd.PersistentFlags().String("format", "table", "Output format: table or json")
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.RequestTimeout = timeout
	}
	if format, _ := cmd.Flags().GetString("format"); format != "table" && format != "json" {
		return fmt.Errorf("unsupported format %q (use table or json)", format)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	settings = cfg
	return nil
}

// credentialStore looks the bearer token up in the environment first and
// then in the credentials file, if one is configured.
func credentialStore() credentials.Store {
	chain := credentials.Chain{credentials.Env{Prefix: "FINADMIN_API_"}}
	if settings.CredentialsFile != "" {
		chain = append(chain, credentials.File{Path: settings.CredentialsFile})
	}
	return chain
}

func newAPIClient() (*api.Client, error) {
	return api.NewClient(api.Config{
		BaseURL:   settings.APIBaseURL,
		Timeout:   settings.RequestTimeout,
		UserAgent: "finadmin/" + version,
	}, credentialStore())
}
