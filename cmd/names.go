package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/vscarantav/parallelscriptures/internal/config"
	"github.com/vscarantav/parallelscriptures/internal/progress"
	"github.com/vscarantav/parallelscriptures/internal/scripture"
)

var (
	namesLangs string
	namesYes   bool
)

var refreshNamesCmd = &cobra.Command{
	Use:   "refresh-names",
	Short: "Crawl localized book names into booksnames.json",
	Long: `Fetches the localized title of every book and the localized word for
"Chapter" for each requested language, then writes the result to
booksnames.json in the data directory. The server serves book lists
from this file without touching the upstream site.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		langs := splitLangs(namesLangs)
		if len(langs) == 0 {
			return fmt.Errorf("no languages given (use --langs, e.g. --langs eng,por,spa,fra)")
		}

		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		outPath := filepath.Join(cfg.DataDir, "booksnames.json")

		// Confirm before overwriting an existing crawl.
		if _, err := os.Stat(outPath); err == nil && !namesYes {
			prompt := promptui.Prompt{
				Label:     fmt.Sprintf("%s exists, overwrite", outPath),
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				fmt.Fprintln(os.Stderr, "Aborted.")
				return nil
			}
		}

		client := scripture.NewClient(
			cfg.UpstreamBase,
			cfg.UserAgent,
			time.Duration(cfg.FetchTimeout)*time.Second,
			cfg.FetchRetries,
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, finish := progress.NewCrawl()
		names, err := scripture.CrawlNames(ctx, client, langs, report)
		finish()
		if err != nil {
			return fmt.Errorf("crawling names: %w", err)
		}

		if err := scripture.WriteNames(outPath, names); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d languages to %s\n", len(names), outPath)
		return nil
	},
}

func splitLangs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if lang := strings.TrimSpace(part); lang != "" {
			out = append(out, lang)
		}
	}
	return out
}

func init() {
	refreshNamesCmd.Flags().StringVar(&namesLangs, "langs", "eng,por,spa,fra", "comma-separated language codes to crawl")
	refreshNamesCmd.Flags().BoolVarP(&namesYes, "yes", "y", false, "overwrite without asking")
	rootCmd.AddCommand(refreshNamesCmd)
}
