package scripture

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/vscarantav/parallelscriptures/internal/canon"
)

// NameMap maps language code -> {book abbr -> localized title}, with a
// reserved "chapter" key holding the localized word for "Chapter".
type NameMap map[string]map[string]string

// chapterKey is the reserved key inside a language's name map.
const chapterKey = "chapter"

//go:embed booksnames.json
var embeddedNames []byte

// BookInfo is one entry of the per-language book list.
type BookInfo struct {
	Abbr     string `json:"abbr"`
	Name     string `json:"name"`
	Chapters int    `json:"chapters"`
}

// Names serves localized book names and chapter labels, preferring the
// precomputed booksnames.json and falling back to live title scrapes.
type Names struct {
	client *Client
	ttl    time.Duration

	mu    sync.RWMutex
	names NameMap
	cache map[string]booksCacheEntry
}

type booksCacheEntry struct {
	at    time.Time
	books []BookInfo
}

// LoadNames builds a Names store from the booksnames.json at path. A
// missing or corrupt file degrades to the embedded copy.
func LoadNames(path string, client *Client, ttl time.Duration) *Names {
	n := &Names{
		client: client,
		ttl:    ttl,
		cache:  make(map[string]booksCacheEntry),
	}

	data, err := os.ReadFile(path)
	if err != nil || json.Unmarshal(data, &n.names) != nil || len(n.names) == 0 {
		if err != nil && !os.IsNotExist(err) {
			log.Printf("scripture: reading %s: %v (using embedded names)", path, err)
		}
		n.names = nil
	}
	if n.names == nil {
		if err := json.Unmarshal(embeddedNames, &n.names); err != nil {
			// The embedded file is compiled in; this cannot happen
			// outside a build error.
			n.names = NameMap{}
		}
	}
	return n
}

// Raw returns the full name map, as served by /booksnames.json.
func (n *Names) Raw() NameMap {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.names
}

// ChapterLabel returns the localized word for "Chapter", falling back
// to English when the language is unknown.
func (n *Names) ChapterLabel(lang string) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if m, ok := n.names[lang]; ok {
		if w := m[chapterKey]; w != "" {
			return w
		}
	}
	return "Chapter"
}

// BookName returns the localized title for one book without any
// network fallback: precomputed name, or the abbreviation uppercased.
func (n *Names) BookName(lang, abbr string) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if m, ok := n.names[lang]; ok {
		if name := m[abbr]; name != "" {
			return name
		}
	}
	return strings.ToUpper(abbr)
}

// Books returns the book list for one language. Languages present in
// booksnames.json are served from it; otherwise titles are scraped live
// book by book. Either way the result is cached for the TTL.
func (n *Names) Books(ctx context.Context, lang string) ([]BookInfo, error) {
	n.mu.RLock()
	if hit, ok := n.cache[lang]; ok && time.Since(hit.at) < n.ttl {
		n.mu.RUnlock()
		return hit.books, nil
	}
	localized := n.names[lang]
	n.mu.RUnlock()

	out := make([]BookInfo, 0, len(canon.Books))
	if len(localized) > 0 {
		for _, b := range canon.Books {
			name := localized[b.Abbr]
			if name == "" {
				name = strings.ToUpper(b.Abbr)
			}
			out = append(out, BookInfo{Abbr: b.Abbr, Name: name, Chapters: b.Chapters})
		}
	} else {
		// Slow path, kept for languages the crawl has not covered.
		for _, b := range canon.Books {
			title, err := n.client.BookTitle(ctx, b.Abbr, lang)
			if err != nil {
				return nil, fmt.Errorf("loading books for %s: %w", lang, err)
			}
			out = append(out, BookInfo{Abbr: b.Abbr, Name: title, Chapters: b.Chapters})
		}
	}

	n.mu.Lock()
	n.cache[lang] = booksCacheEntry{at: time.Now(), books: out}
	n.mu.Unlock()
	return out, nil
}
