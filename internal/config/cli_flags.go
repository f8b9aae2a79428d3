package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Log in JSON format")
	cmd.PersistentFlags().String("proxy", "", "HTTP/SOCKS5 proxy for browser sessions (e.g., http://localhost:8080)")
	cmd.PersistentFlags().String("timeout", "", "HTTP request timeout (e.g., 10s)")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().String("cache-dir", "", "Cache directory (default ~/.auto-cv/raw_job_description_cache)")
	cmd.PersistentFlags().String("selectors", "", "Path to a YAML file overriding built-in selector profiles")
	cmd.PersistentFlags().Bool("headful", false, "Run the browser with a visible window")
}
