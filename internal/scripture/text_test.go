package scripture

import "testing"

func TestCleanSpaces(t *testing.T) {
	in := "  1 Nephi   1  "
	if got := cleanSpaces(in); got != "1 Nephi 1" {
		t.Errorf("cleanSpaces(%q) = %q", in, got)
	}
}

func TestDemojibake(t *testing.T) {
	tests := []struct{ in, want string }{
		// "Capítulo" whose UTF-8 bytes were decoded as latin-1.
		{"CapÃ­tulo", "Capítulo"},
		{"Ãther", "Éther"},
		{"Capítulo", "Capítulo"}, // already correct, untouched
		{"plain ascii", "plain ascii"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := demojibake(tt.in); got != tt.want {
			t.Errorf("demojibake(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripLeadingChapterPhrase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Chapter 1 Nephi", "Nephi"},
		{"Capítulo 1 1 Néfi", "1 Néfi"},
		{"Kapitel 3 Jakob", "Jakob"},
		{"Alma — an account of the people", "Alma"},
		{"Mosiah", "Mosiah"},
	}
	for _, tt := range tests {
		if got := stripLeadingChapterPhrase(tt.in); got != tt.want {
			t.Errorf("stripLeadingChapterPhrase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripTrailingChapter(t *testing.T) {
	if got := stripTrailingChapter("1 Nephi 1"); got != "1 Nephi" {
		t.Errorf("got %q", got)
	}
	if got := stripTrailingChapter("Words of Mormon"); got != "Words of Mormon" {
		t.Errorf("got %q", got)
	}
}

func TestTightenPunctuation(t *testing.T) {
	in := "wherefore , they were scattered ; and it was so ."
	want := "wherefore, they were scattered; and it was so."
	if got := tightenPunctuation(in); got != want {
		t.Errorf("tightenPunctuation = %q, want %q", got, want)
	}
}
