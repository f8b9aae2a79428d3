package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/auto-cv/jobscrape/internal/app"
	"github.com/auto-cv/jobscrape/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "jobscrape",
	Short:   "Scrape job postings into a durable local cache",
	Long:    `Jobscrape extracts job postings from public pages and LinkedIn, caching every result in an append-only local store so each URL is fetched at most once.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Initialize the application lazily so -h/help never opens the cache
	// or takes its writer lock.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetApp() != nil {
			return nil
		}

		cfg, err := config.Load(rootCmd)
		if err != nil {
			return err
		}

		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		SetApp(cmd, a)
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if a := GetApp(); a != nil {
			_ = a.Close()
			SetApp(cmd, nil)
		}
	}
}
