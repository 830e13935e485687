package scripture

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Verse is one numbered verse of a chapter.
type Verse struct {
	Number string `json:"verse"`
	Text   string `json:"text"`
}

// MarshalJSON emits the structured {"verse","text"} form.
func (v Verse) MarshalJSON() ([]byte, error) {
	type wire struct {
		Number string `json:"verse"`
		Text   string `json:"text"`
	}
	return json.Marshal(wire{Number: v.Number, Text: v.Text})
}

// UnmarshalJSON accepts either the structured form or the legacy bare
// string form "1 And it came to pass...", where the leading integer
// token is the verse number.
func (v *Verse) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		num, text := splitLeadingNumber(s)
		v.Number = num
		v.Text = text
		return nil
	}

	type wire struct {
		Number string `json:"verse"`
		Text   string `json:"text"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v.Number = w.Number
	v.Text = w.Text
	return nil
}

// splitLeadingNumber splits "12 text" into ("12", "text"). A string
// without a leading integer token becomes an unnumbered verse.
func splitLeadingNumber(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && unicode.IsDigit(rune(s[i])) {
		i++
	}
	if i == 0 {
		return "", s
	}
	return s[:i], strings.TrimSpace(s[i:])
}
