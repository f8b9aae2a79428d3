package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/auto-cv/jobscrape/internal/creds"
	"github.com/auto-cv/jobscrape/internal/ui"
)

var (
	loginUsername string
	loginPassword string
	loginClear    bool
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store LinkedIn credentials in the OS keyring",
	Long: `Stores the LinkedIn username and password in the OS keyring so
browser-based extraction can authenticate without environment variables.

Environment variables (LINKEDIN_USERNAME, LINKEDIN_PASSWORD, or a .env
file) take precedence over the keyring when both are set.`,
	Example: `  # Store credentials
  jobscrape login --username me@example.com --password 'secret'

  # Remove stored credentials
  jobscrape login --clear`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "LinkedIn username (email)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "LinkedIn password")
	loginCmd.Flags().BoolVar(&loginClear, "clear", false, "Remove stored credentials from the keyring")
}

func runLogin(cmd *cobra.Command, args []string) error {
	if loginClear {
		if err := creds.Clear(); err != nil {
			return fmt.Errorf("failed to clear credentials: %w", err)
		}
		fmt.Println(ui.Success("✓ Credentials removed from keyring"))
		return nil
	}

	if loginUsername == "" || loginPassword == "" {
		return fmt.Errorf("both --username and --password are required (or use --clear)")
	}

	if err := creds.Store(creds.Credentials{
		Username: loginUsername,
		Password: loginPassword,
	}); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	fmt.Println(ui.Success("✓ Credentials saved to keyring"))
	fmt.Printf("%s\n", ui.Info("Browser-based extraction will now log in automatically."))
	return nil
}
