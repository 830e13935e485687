// Package scripture fetches and parses chapter content from the
// churchofjesuschrist.org study pages: verses, book titles, chapter
// labels, and the 1 Nephi 1 subtitle/introduction block.
package scripture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// ErrNotFound reports a 404 from the upstream site, typically a book
// that does not exist in the requested language.
var ErrNotFound = errors.New("scripture: upstream page not found")

// Client fetches upstream study pages with retry on transient failures.
type Client struct {
	base      string
	userAgent string
	http      *http.Client
	retries   int
}

// NewClient creates a client for the given upstream base URL, e.g.
// "https://www.churchofjesuschrist.org/study/scriptures/bofm".
func NewClient(base, userAgent string, timeout time.Duration, retries int) *Client {
	if retries < 1 {
		retries = 1
	}
	return &Client{
		base:      strings.TrimRight(base, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
		retries:   retries,
	}
}

// ChapterURL returns the upstream page URL for a chapter.
func (c *Client) ChapterURL(book string, chapter int, lang string) string {
	return fmt.Sprintf("%s/%s/%d?lang=%s", c.base, url.PathEscape(book), chapter, url.QueryEscape(lang))
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// get fetches a URL with retry and backoff on network errors and
// transient status codes, mirroring the retry policy the service has
// always used against this upstream.
func (c *Client) get(ctx context.Context, pageURL string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			backoff := 500 * time.Millisecond << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if retryableStatus(resp.StatusCode) {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("upstream status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode == http.StatusNotFound {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %s", ErrNotFound, pageURL)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("upstream status %d for %s", resp.StatusCode, pageURL)
		}
		return resp, nil
	}
	return nil, fmt.Errorf("fetching %s: %w", pageURL, lastErr)
}

// getDoc fetches and parses a page.
func (c *Client) getDoc(ctx context.Context, pageURL string) (*html.Node, error) {
	resp, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	return doc, nil
}

// Chapter fetches and parses the verses of one chapter in one language.
func (c *Client) Chapter(ctx context.Context, book string, chapter int, lang string) ([]Verse, error) {
	resp, err := c.get(ctx, c.ChapterURL(book, chapter, lang))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return parseVerses(resp.Body)
}

// contentDoc resolves the document that actually carries the chapter
// text. Some locales serve it inline, others behind an iframe (inline
// srcdoc or a separate src page).
func (c *Client) contentDoc(ctx context.Context, pageURL string, outer *html.Node) (*html.Node, error) {
	srcdoc, src := findContentIframe(outer)
	if srcdoc != "" {
		return html.Parse(strings.NewReader(srcdoc))
	}
	if src != "" {
		base, err := url.Parse(pageURL)
		if err != nil {
			return outer, nil
		}
		ref, err := url.Parse(src)
		if err != nil {
			return outer, nil
		}
		inner, err := c.getDoc(ctx, base.ResolveReference(ref).String())
		if err != nil {
			return nil, fmt.Errorf("fetching content iframe: %w", err)
		}
		return inner, nil
	}
	return outer, nil
}

// Intro fetches the subtitle and introduction block. Only 1 Nephi 1
// carries one; any other position returns empty text without touching
// the upstream.
func (c *Client) Intro(ctx context.Context, book string, chapter int, lang string) (IntroText, error) {
	if book != "1-ne" || chapter != 1 {
		return IntroText{}, nil
	}

	pageURL := c.ChapterURL(book, chapter, lang)
	outer, err := c.getDoc(ctx, pageURL)
	if err != nil {
		return IntroText{}, err
	}

	if it := parseIntro(outer); it.Subtitle != "" || it.Introduction != "" {
		return it, nil
	}

	inner, err := c.contentDoc(ctx, pageURL, outer)
	if err != nil {
		return IntroText{}, err
	}
	return parseIntro(inner), nil
}

// BookTitle scrapes the localized book title from the book's first
// chapter. Fallback path for languages missing from booksnames.json.
func (c *Client) BookTitle(ctx context.Context, book, lang string) (string, error) {
	doc, err := c.getDoc(ctx, c.ChapterURL(book, 1, lang))
	if err != nil {
		return "", err
	}

	title := parseTitle(doc)
	if title == "" {
		return "", fmt.Errorf("no title found for %s lang=%s", book, lang)
	}
	title = stripLeadingChapterPhrase(title)
	title = cleanSpaces(stripTrailingChapter(title))
	return demojibake(title), nil
}

// ChapterLabel scrapes the localized word for "Chapter" from the
// 1 Nephi 1 heading.
func (c *Client) ChapterLabel(ctx context.Context, lang string) (string, error) {
	doc, err := c.getDoc(ctx, c.ChapterURL("1-ne", 1, lang))
	if err != nil {
		return "", err
	}
	label := parseChapterLabel(doc)
	if label == "" {
		return "", fmt.Errorf("no chapter label found for lang=%s", lang)
	}
	return demojibake(label), nil
}
