package scripture

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/vscarantav/parallelscriptures/internal/canon"
)

func catalogAbbrs() []string {
	out := make([]string, len(canon.Books))
	for i, b := range canon.Books {
		out[i] = b.Abbr
	}
	return out
}

// CrawlProgress is invoked after each fetched title with the work done
// so far and the item just finished.
type CrawlProgress func(done, total int, item string)

// CrawlNames scrapes localized book names and the chapter label for the
// given languages, producing a NameMap suitable for booksnames.json.
// Individual title failures fall back to the uppercased abbreviation so
// one missing book does not sink a whole language.
func CrawlNames(ctx context.Context, client *Client, langs []string, progress CrawlProgress) (NameMap, error) {
	if len(langs) == 0 {
		return nil, fmt.Errorf("no languages given")
	}

	books := catalogAbbrs()
	total := len(langs) * (len(books) + 1) // +1 per language for the chapter label
	done := 0
	step := func(item string) {
		done++
		if progress != nil {
			progress(done, total, item)
		}
	}

	out := make(NameMap, len(langs))
	for _, lang := range langs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m := make(map[string]string, len(books)+1)

		label, err := client.ChapterLabel(ctx, lang)
		if err != nil {
			log.Printf("scripture: chapter label for %s: %v", lang, err)
			label = "Chapter"
		}
		m[chapterKey] = label
		step(lang + "/" + chapterKey)

		for _, abbr := range books {
			title, err := client.BookTitle(ctx, abbr, lang)
			if err != nil {
				log.Printf("scripture: title %s lang=%s: %v", abbr, lang, err)
				title = ""
			}
			if title != "" {
				m[abbr] = title
			}
			step(lang + "/" + abbr)
		}

		out[lang] = m
	}
	return out, nil
}

// WriteNames writes a crawled NameMap to path as indented JSON.
func WriteNames(path string, names NameMap) error {
	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling names: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
