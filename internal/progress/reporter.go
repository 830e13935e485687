// Package progress reports name-crawl progress: a terminal progress bar
// when interactive, line-per-item logs under CI.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// NewCrawl returns a progress callback shaped for scripture.CrawlNames
// plus a finish func to call once the crawl ends. The crawl reports its
// total on the first callback, so the bar is created lazily.
func NewCrawl() (cb func(done, total int, item string), finish func()) {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return lineCrawl(os.Stderr)
	}
	return barCrawl()
}

// barCrawl drives a terminal progress bar described by the item being
// fetched (e.g. "por/1-ne").
func barCrawl() (func(done, total int, item string), func()) {
	var bar *progressbar.ProgressBar
	cb := func(done, total int, item string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Fetching book names"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		bar.Describe(item)
		_ = bar.Set(done)
	}
	finish := func() {
		if bar != nil {
			_ = bar.Finish()
		}
	}
	return cb, finish
}

// lineCrawl prints one line per fetched item, suitable for CI logs.
func lineCrawl(w io.Writer) (func(done, total int, item string), func()) {
	started := false
	cb := func(done, total int, item string) {
		if !started {
			fmt.Fprintf(w, "Starting name crawl: %d items\n", total)
			started = true
		}
		fmt.Fprintf(w, "[%d/%d] %s\n", done, total, item)
	}
	finish := func() {
		if started {
			fmt.Fprintln(w, "Name crawl complete")
		}
	}
	return cb, finish
}
