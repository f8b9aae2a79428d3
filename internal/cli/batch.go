package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/auto-cv/jobscrape/internal/ui"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Extract every URL listed in a file",
	Long: `Reads URLs from a file (one per line, blank lines and #-comments
skipped) and extracts each in turn. Cached URLs are served from the cache,
so a batch run can be resumed by simply running it again: only the URLs
that failed or were never reached are fetched.`,
	Example: `  # urls.txt holds one posting URL per line
  jobscrape batch urls.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	a := GetApp()

	urls, err := readURLList(args[0])
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", args[0])
	}

	bar := progressbar.Default(int64(len(urls)), "extracting")

	var hits, extracted, failed int
	for _, url := range urls {
		rec, hit, err := a.Service.ExtractWithCache(cmd.Context(), url)
		switch {
		case err != nil:
			// Configuration faults (bad URL, missing credentials) are logged
			// and counted but do not abort the rest of the batch.
			log.Warn().Str("url", url).Err(err).Msg("Skipping URL")
			failed++
		case hit:
			hits++
		case rec.IsEmpty():
			failed++
		default:
			extracted++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	fmt.Printf("\n%s %d cached, %d extracted, %d failed\n",
		ui.Bold("Done:"), hits, extracted, failed)
	if failed > 0 {
		fmt.Println(ui.Info("Failed URLs were not cached; re-run the batch to retry them."))
	}
	return nil
}

func readURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open URL list: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read URL list: %w", err)
	}
	return urls, nil
}
