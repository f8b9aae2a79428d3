package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/auto-cv/jobscrape/internal/ui"
	"github.com/auto-cv/jobscrape/pkg/models"
)

var (
	getOverwrite bool
	getOutput    string
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Extract a job posting, serving from the cache when possible",
	Long: `Extracts a single job posting. The URL is classified to pick an engine:
LinkedIn job pages go through a headless browser session (credentials
required), everything else through a plain HTTP fetch.

Results are cached by URL, so repeating a get is free. Use --overwrite to
force a fresh extraction and replace the cached entry.`,
	Example: `  # Extract a posting (cached on success)
  jobscrape get https://example.com/careers/backend-engineer

  # Force a re-scrape of an already-cached URL
  jobscrape get https://www.linkedin.com/jobs/view/123456 --overwrite

  # Save the record as JSON
  jobscrape get https://example.com/careers/backend-engineer -o posting.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().BoolVar(&getOverwrite, "overwrite", false, "Re-extract even if the URL is cached, replacing the entry")
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "File path to save the record (supports .json, .md, .txt)")
}

func runGet(cmd *cobra.Command, args []string) error {
	a := GetApp()
	url := args[0]

	var (
		rec *models.JobPosting
		hit bool
		err error
	)
	if getOverwrite {
		rec, err = a.Service.Refresh(cmd.Context(), url)
	} else {
		rec, hit, err = a.Service.ExtractWithCache(cmd.Context(), url)
	}
	if err != nil {
		return err
	}

	if rec.IsEmpty() {
		fmt.Println(ui.Error("✗ Extraction failed, nothing cached (retry later)"))
		return nil
	}

	if getOutput != "" {
		return saveRecord(rec, getOutput)
	}
	printRecord(rec, hit)
	return nil
}

func saveRecord(rec *models.JobPosting, path string) error {
	var content []byte
	var err error

	switch {
	case strings.HasSuffix(path, ".md"):
		content = []byte(rec.MarkdownDescription)
	case strings.HasSuffix(path, ".txt"):
		content = []byte(rec.RawDescription)
	default:
		content, err = json.MarshalIndent(rec, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	log.Debug().Str("file", path).Msg("Record saved")
	fmt.Println(ui.Success("✓ Saved to " + path))
	return nil
}

func printRecord(rec *models.JobPosting, hit bool) {
	source := ui.Info("(extracted)")
	if hit {
		source = ui.Info("(cached)")
	}

	fmt.Printf("\n%s %s\n", ui.Bold(rec.Title), source)
	fmt.Printf("%s %s\n", ui.Bold("Company:"), rec.Company)
	if rec.Location != "" && rec.Location != models.NotAvailable {
		fmt.Printf("%s %s\n", ui.Bold("Location:"), rec.Location)
	}
	if rec.Salary != "" && rec.Salary != models.NotAvailable {
		fmt.Printf("%s %s\n", ui.Bold("Salary:"), rec.Salary)
	}
	if rec.JobID != "" && rec.JobID != models.NotAvailable {
		fmt.Printf("%s %s\n", ui.Bold("Job ID:"), rec.JobID)
	}
	fmt.Printf("%s %s\n", ui.Bold("URL:"), rec.URL)

	desc := rec.MarkdownDescription
	if desc == "" {
		desc = rec.RawDescription
	}
	if desc != "" && desc != models.NotAvailable {
		fmt.Printf("\n%s\n", desc)
	}
}
