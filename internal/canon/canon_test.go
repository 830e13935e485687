package canon

import "testing"

func TestCatalogShape(t *testing.T) {
	if len(Books) != 15 {
		t.Fatalf("expected 15 books, got %d", len(Books))
	}
	if Books[0].Abbr != "1-ne" || Books[len(Books)-1].Abbr != "moro" {
		t.Errorf("catalog order wrong: first=%s last=%s", Books[0].Abbr, Books[len(Books)-1].Abbr)
	}
	if got := TotalChapters(); got != 239 {
		t.Errorf("expected 239 chapters total, got %d", got)
	}
}

func TestNextWithinBook(t *testing.T) {
	got, ok := Next(Position{"alma", 5})
	if !ok || got != (Position{"alma", 6}) {
		t.Fatalf("Next(alma 5) = %v, %v", got, ok)
	}
}

func TestNextCrossesBookBoundary(t *testing.T) {
	got, ok := Next(Position{"4-ne", 1})
	if !ok || got != (Position{"morm", 1}) {
		t.Fatalf("Next(4-ne 1) = %v, want morm 1", got)
	}
	got, ok = Next(Position{"1-ne", 22})
	if !ok || got != (Position{"2-ne", 1}) {
		t.Fatalf("Next(1-ne 22) = %v, want 2-ne 1", got)
	}
}

func TestPreviousCrossesBookBoundary(t *testing.T) {
	got, ok := Previous(Position{"morm", 1})
	if !ok || got != (Position{"4-ne", 1}) {
		t.Fatalf("Previous(morm 1) = %v, want 4-ne 1", got)
	}
	got, ok = Previous(Position{"2-ne", 1})
	if !ok || got != (Position{"1-ne", 22}) {
		t.Fatalf("Previous(2-ne 1) = %v, want 1-ne 22", got)
	}
}

func TestCanonWrap(t *testing.T) {
	got, ok := Next(Position{"moro", 10})
	if !ok || got != (Position{"1-ne", 1}) {
		t.Fatalf("Next(moro 10) = %v, want 1-ne 1", got)
	}
	got, ok = Previous(Position{"1-ne", 1})
	if !ok || got != (Position{"moro", 10}) {
		t.Fatalf("Previous(1-ne 1) = %v, want moro 10", got)
	}
}

// Walking the entire ring forward must visit every chapter exactly once
// and return to the start; previous must invert every step.
func TestRingRoundTrip(t *testing.T) {
	start := Position{"1-ne", 1}
	p := start
	for i := 0; i < TotalChapters(); i++ {
		n, ok := Next(p)
		if !ok {
			t.Fatalf("Next(%v) failed", p)
		}
		back, ok := Previous(n)
		if !ok || back != p {
			t.Fatalf("Previous(Next(%v)) = %v", p, back)
		}
		p = n
	}
	if p != start {
		t.Fatalf("ring walk ended at %v, want %v", p, start)
	}
}

func TestUnknownBookIsInert(t *testing.T) {
	if _, ok := Next(Position{"psalms", 1}); ok {
		t.Error("Next should reject unknown book")
	}
	if _, ok := Previous(Position{"psalms", 1}); ok {
		t.Error("Previous should reject unknown book")
	}
	if Chapters("psalms") != 0 {
		t.Error("Chapters(unknown) should be 0")
	}
}

func TestOutOfRangeChapterClamped(t *testing.T) {
	// chapter 0 clamps to 1, then steps to the previous book's last chapter
	got, ok := Previous(Position{"2-ne", 0})
	if !ok || got != (Position{"1-ne", 22}) {
		t.Fatalf("Previous(2-ne 0) = %v, want 1-ne 22", got)
	}
	// chapter beyond the end clamps to the last chapter, then wraps forward
	got, ok = Next(Position{"jacob", 99})
	if !ok || got != (Position{"enos", 1}) {
		t.Fatalf("Next(jacob 99) = %v, want enos 1", got)
	}
}
