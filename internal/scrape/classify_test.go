package scrape

import "testing"

func TestClassifyShapes(t *testing.T) {
	cases := map[string]FieldShape{
		"4.123":      ShapeDecimal,
		"1.234,56":   ShapeDecimal,
		"104.2031":   ShapeDecimal,
		"+0.015":     ShapeSignedDecimal,
		"-23,45":     ShapeSignedDecimal,
		"+0.42%":     ShapePercent,
		"-1,05%":     ShapePercent,
		"15:30":      ShapeClockTime,
		"15:30:45":   ShapeClockTime,
		"22/08":      ShapeShortDate,
		"22/08/2026": ShapeShortDate,
		"6LG6":       ShapeGlobexCode,
		"6EU6":       ShapeGlobexCode,
		"FEB 2026":   ShapeMonthYear,
		"405K":       ShapeVolume,
		"1.2M":       ShapeVolume,
		"U.S. 10Y":   ShapeText,
		"Ibovespa":   ShapeText,
		"":           ShapeUnknown,
		"-":          ShapeUnknown,
		"--":         ShapeUnknown,
	}
	for text, want := range cases {
		if got := Classify(text); got != want {
			t.Fatalf("Classify(%q) = %s, want %s", text, got, want)
		}
	}
}

func TestClassifyClockBeatsDecimal(t *testing.T) {
	// A time cell must never be mistaken for a price.
	if got := Classify("12:45"); got != ShapeClockTime {
		t.Fatalf("got %s", got)
	}
}

func TestClassifyPercentBeatsSigned(t *testing.T) {
	if got := Classify("+12.5%"); got != ShapePercent {
		t.Fatalf("got %s", got)
	}
}
