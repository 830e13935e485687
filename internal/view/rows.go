// Package view builds the verse-row model for a chapter and manages the
// parallel/single layout toggle over it. Layout logic is kept as pure
// data transformations; markup generation goes through a Renderer so the
// toggle semantics are testable without a browser.
package view

import "github.com/vscarantav/parallelscriptures/internal/scripture"

// Row pairs the main- and second-language verse at one index. When the
// two arrays differ in length, the missing side is the zero Verse.
type Row struct {
	Index  int // 1-based
	Main   scripture.Verse
	Second scripture.Verse
}

// BuildRows aligns two verse arrays index by index, up to the longer of
// the two.
func BuildRows(main, second []scripture.Verse) []Row {
	n := len(main)
	if len(second) > n {
		n = len(second)
	}
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		r := Row{Index: i + 1}
		if i < len(main) {
			r.Main = main[i]
		}
		if i < len(second) {
			r.Second = second[i]
		}
		rows = append(rows, r)
	}
	return rows
}

// Item is one expandable entry of the single view: the main-language
// line shown collapsed, the second-language line revealed on expand.
type Item struct {
	Index    int
	Main     scripture.Verse
	Second   scripture.Verse
	Expanded bool
}

// itemsFromRows produces the collapsed single-view items for a row set.
func itemsFromRows(rows []Row) []Item {
	items := make([]Item, len(rows))
	for i, r := range rows {
		items[i] = Item{Index: r.Index, Main: r.Main, Second: r.Second}
	}
	return items
}
