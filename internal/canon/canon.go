// Package canon holds the fixed Book of Mormon catalog and chapter
// navigation over it. The catalog order is the canonical reading order
// and, for navigation, the books form a single ring of chapters.
package canon

// Book describes one work in the canon.
type Book struct {
	Abbr     string
	Chapters int
}

// Books is the canonical ordered catalog. Navigation treats it as cyclic:
// the chapter after moro 10 is 1-ne 1.
var Books = []Book{
	{"1-ne", 22},
	{"2-ne", 33},
	{"jacob", 7},
	{"enos", 1},
	{"jarom", 1},
	{"omni", 1},
	{"w-of-m", 1},
	{"mosiah", 29},
	{"alma", 63},
	{"hel", 16},
	{"3-ne", 30},
	{"4-ne", 1},
	{"morm", 9},
	{"ether", 15},
	{"moro", 10},
}

var indexByAbbr = func() map[string]int {
	m := make(map[string]int, len(Books))
	for i, b := range Books {
		m[b.Abbr] = i
	}
	return m
}()

// Position identifies a chapter within the canon. Chapter is 1-based.
type Position struct {
	Book    string
	Chapter int
}

// Lookup returns the catalog entry for an abbreviation.
func Lookup(abbr string) (Book, bool) {
	i, ok := indexByAbbr[abbr]
	if !ok {
		return Book{}, false
	}
	return Books[i], true
}

// Chapters returns the chapter count for a book, or 0 if unknown.
func Chapters(abbr string) int {
	if b, ok := Lookup(abbr); ok {
		return b.Chapters
	}
	return 0
}

// clamp forces a position's chapter into [1, chapters]. Query parameters
// arrive unvalidated; stepping from a clamped position keeps the ring
// arithmetic sound instead of producing out-of-catalog chapters.
func clamp(idx, chapter int) int {
	if chapter < 1 {
		return 1
	}
	if n := Books[idx].Chapters; chapter > n {
		return n
	}
	return chapter
}

// Next returns the position one chapter forward, wrapping to the first
// chapter of the following book and from the last book to the first.
// ok is false when the book is not in the catalog.
func Next(p Position) (Position, bool) {
	idx, found := indexByAbbr[p.Book]
	if !found {
		return Position{}, false
	}
	ch := clamp(idx, p.Chapter)
	if ch < Books[idx].Chapters {
		return Position{Book: p.Book, Chapter: ch + 1}, true
	}
	nxt := (idx + 1) % len(Books)
	return Position{Book: Books[nxt].Abbr, Chapter: 1}, true
}

// Previous returns the position one chapter back, wrapping to the last
// chapter of the preceding book and from the first book to the last.
func Previous(p Position) (Position, bool) {
	idx, found := indexByAbbr[p.Book]
	if !found {
		return Position{}, false
	}
	ch := clamp(idx, p.Chapter)
	if ch > 1 {
		return Position{Book: p.Book, Chapter: ch - 1}, true
	}
	prv := (idx - 1 + len(Books)) % len(Books)
	return Position{Book: Books[prv].Abbr, Chapter: Books[prv].Chapters}, true
}

// TotalChapters returns the number of chapters in the whole canon.
func TotalChapters() int {
	n := 0
	for _, b := range Books {
		n += b.Chapters
	}
	return n
}
