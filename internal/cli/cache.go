package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/auto-cv/jobscrape/internal/cache"
	"github.com/auto-cv/jobscrape/internal/ui"
)

// cacheCmd groups inspection subcommands for the durable cache
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the durable job posting cache",
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached postings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()

		recs := a.Store.Records()
		sort.Slice(recs, func(i, j int) bool { return recs[i].URL < recs[j].URL })

		for _, rec := range recs {
			fmt.Printf("%s  %s %s %s\n",
				ui.Info(cache.Key(rec.URL)[:12]),
				ui.Bold(rec.Title),
				ui.ColorDim+"@"+ui.ColorReset,
				rec.Company)
			fmt.Printf("              %s\n", rec.URL)
		}
		if len(recs) == 0 {
			fmt.Println(ui.Info("Cache is empty."))
		}
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and location",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()

		fmt.Printf("%s %d\n", ui.Bold("Entries:"), a.Store.Len())
		fmt.Printf("%s %s\n", ui.Bold("Log:"), a.Store.Path())
		if info, err := os.Stat(a.Store.Path()); err == nil {
			fmt.Printf("%s %d bytes\n", ui.Bold("Size:"), info.Size())
		}
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache log path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(GetApp().Store.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheLsCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePathCmd)
}
