// Package cli provides the command-line interface for the jobscrape application.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/auto-cv/jobscrape/internal/app"
)

// Global reference - set in PersistentPreRunE, cleared in PersistentPostRun
var globalApp *app.Application

// SetApp stores the Application for commands to access
func SetApp(_ *cobra.Command, a *app.Application) {
	globalApp = a
}

// GetApp retrieves the current Application
func GetApp() *app.Application {
	return globalApp
}
