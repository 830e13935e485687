package scripture

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// node helpers over the x/net/html tree.

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// walk visits the tree in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// findFirst returns the first element matching the predicate.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && match(n) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return found
}

// textContent gathers all text under a node, skipping subtrees for which
// skip returns true. Text fragments are joined with single spaces.
func textContent(n *html.Node, skip func(*html.Node) bool) string {
	var parts []string
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.ElementNode && skip != nil && skip(n) {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return strings.Join(parts, " ")
}

// parseVerses extracts ordered verses from a chapter page: every
// <p class="verse">, with its <span class="verse-number"> removed from
// the text.
func parseVerses(r io.Reader) ([]Verse, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var verses []Verse
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "p" || !hasClass(n, "verse") {
			return
		}
		num := ""
		if numNode := findFirst(n, func(e *html.Node) bool { return hasClass(e, "verse-number") }); numNode != nil {
			num = strings.TrimSpace(textContent(numNode, nil))
		}
		text := textContent(n, func(e *html.Node) bool { return hasClass(e, "verse-number") })
		text = cleanSpaces(text)
		if num != "" {
			text = stripDuplicateNumber(text, num)
		}
		text = tightenPunctuation(text)
		verses = append(verses, Verse{Number: num, Text: text})
	})
	return verses, nil
}

// stripDuplicateNumber removes the verse number when it also leaks into
// the start of the paragraph text.
func stripDuplicateNumber(text, num string) string {
	re := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(num) + `[\s.:  \-–—]*`)
	return re.ReplaceAllString(text, "")
}

// IntroText is the optional subtitle/introduction block of a chapter.
type IntroText struct {
	Subtitle     string `json:"subtitle"`
	Introduction string `json:"introduction"`
}

// parseIntro pulls the subtitle and introduction paragraphs out of a
// chapter document. Locales vary between class, id, and data-aid markers.
func parseIntro(doc *html.Node) IntroText {
	matchBlock := func(prefix string) func(*html.Node) bool {
		return func(e *html.Node) bool {
			if hasClass(e, prefix) {
				return true
			}
			if strings.HasPrefix(attrVal(e, "id"), prefix) {
				return true
			}
			return strings.HasPrefix(attrVal(e, "data-aid"), prefix)
		}
	}

	var it IntroText
	if n := findFirst(doc, matchBlock("subtitle")); n != nil {
		it.Subtitle = demojibake(cleanSpaces(textContent(n, nil)))
	}
	if n := findFirst(doc, matchBlock("intro")); n != nil {
		it.Introduction = demojibake(cleanSpaces(textContent(n, nil)))
	}
	return it
}

// findContentIframe locates the scripture content iframe on pages that
// wrap the chapter text, skipping login/silent auth frames. It returns
// either the inline srcdoc document or the src URL to fetch.
func findContentIframe(doc *html.Node) (srcdoc, src string) {
	var fallback string
	var found *html.Node
	walk(doc, func(n *html.Node) {
		if found != nil || n.Type != html.ElementNode || n.Data != "iframe" {
			return
		}
		if sd := attrVal(n, "srcdoc"); sd != "" {
			found = n
			srcdoc = sd
			return
		}
		s := attrVal(n, "src")
		if s == "" || strings.Contains(s, "login") || strings.Contains(s, "silent") {
			return
		}
		if strings.Contains(s, "/study/scriptures/") {
			found = n
			src = s
			return
		}
		if fallback == "" {
			fallback = s
		}
	})
	if found == nil {
		src = fallback
	}
	return srcdoc, src
}

// parseTitle extracts the book title from a chapter page, trying the
// selectors the site has used over time.
func parseTitle(doc *html.Node) string {
	// contentTitle region is the most consistent marker.
	if span := findFirst(doc, func(e *html.Node) bool {
		return e.Data == "span" && strings.Contains(attrVal(e, "class"), "contentTitle")
	}); span != nil {
		if div := findFirst(span, func(e *html.Node) bool { return e.Data == "div" }); div != nil {
			if t := cleanSpaces(textContent(div, nil)); t != "" {
				return t
			}
		}
	}

	// Dominant span inside the h1.
	if h1 := findFirst(doc, func(e *html.Node) bool { return e.Data == "h1" }); h1 != nil {
		if dom := findFirst(h1, func(e *html.Node) bool { return hasClass(e, "dominant") }); dom != nil {
			if t := cleanSpaces(textContent(dom, nil)); t != "" {
				return t
			}
		}
		if t := cleanSpaces(textContent(h1, nil)); t != "" {
			return t
		}
	}

	// og:title is less ideal but better than nothing.
	if meta := findFirst(doc, func(e *html.Node) bool {
		return e.Data == "meta" && attrVal(e, "property") == "og:title"
	}); meta != nil {
		if t := cleanSpaces(attrVal(meta, "content")); t != "" {
			return t
		}
	}

	return ""
}

// parseChapterLabel extracts the localized "Chapter" word from the
// title-number heading ("Capítulo 1" -> "Capítulo").
func parseChapterLabel(doc *html.Node) string {
	n := findFirst(doc, func(e *html.Node) bool { return hasClass(e, "title-number") })
	if n == nil {
		return ""
	}
	t := cleanSpaces(textContent(n, nil))
	var out []string
	for _, f := range strings.Fields(t) {
		if !isAllDigits(f) {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}
