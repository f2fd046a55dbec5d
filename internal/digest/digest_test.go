package digest

import (
	"strings"
	"testing"

	"github.com/parlwatch/hansard/internal/hansard"
)

func doc(chamber hansard.Chamber, title, text string) hansard.SavedDocument {
	return hansard.SavedDocument{Chamber: chamber, Title: title, ID: "X1", Path: title + ".txt", Text: text}
}

func TestSplitParagraphs(t *testing.T) {
	cases := []struct {
		name string
		text string
		want int
	}{
		{"unix endings", "one\n\ntwo\n\nthree", 3},
		{"crlf endings", "one\r\n\r\ntwo", 2},
		{"multiple blanks", "one\n\n\n\ntwo", 2},
		{"whitespace between", "one\n   \ntwo", 2},
		{"single paragraph", "just one", 1},
		{"empty", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SplitParagraphs(tc.text); len(got) != tc.want {
				t.Fatalf("got %d paragraphs %q, want %d", len(got), got, tc.want)
			}
		})
	}
}

func TestWholeWordMatching(t *testing.T) {
	docs := []hansard.SavedDocument{doc(hansard.Assembly, "HA",
		"Healthcare funding was raised.\n\nThe Health portfolio is under review.")}

	d := Build(docs, []string{"health"}, Options{})
	if d.TotalMatches != 1 {
		t.Fatalf("expected exactly one whole-word match, got %d", d.TotalMatches)
	}
	ex := d.Documents[0].Excerpts
	if len(ex) != 1 || !strings.Contains(ex[0].Window[0], "portfolio") {
		t.Fatalf("matched the wrong paragraph: %+v", ex)
	}
}

func TestMatchingIsCaseInsensitive(t *testing.T) {
	docs := []hansard.SavedDocument{doc(hansard.Council, "LC", "The BUDGET was tabled.")}
	d := Build(docs, []string{"budget"}, Options{})
	if d.TotalMatches != 1 {
		t.Fatalf("case-insensitive match failed: %d", d.TotalMatches)
	}
}

func TestRadiusZeroSingleParagraph(t *testing.T) {
	text := "Opening remarks.\n\nMR SMITH: The budget is strong.\n\nClosing remarks.\n\nAdjournment."
	d := Build([]hansard.SavedDocument{doc(hansard.Assembly, "HA", text)}, []string{"budget"}, Options{Radius: 0})
	if d.TotalMatches != 1 {
		t.Fatalf("expected one match, got %d", d.TotalMatches)
	}
	ex := d.Documents[0].Excerpts[0]
	if len(ex.Window) != 1 {
		t.Fatalf("radius 0 window = %d paragraphs, want 1", len(ex.Window))
	}
}

func TestRadiusOneClippedAtBoundaries(t *testing.T) {
	text := "The budget leads the agenda.\n\nSecond paragraph.\n\nThird paragraph."
	d := Build([]hansard.SavedDocument{doc(hansard.Assembly, "HA", text)}, []string{"budget"}, Options{Radius: 1})
	ex := d.Documents[0].Excerpts[0]
	// Match in the first paragraph: window is clipped to 2 paragraphs.
	if len(ex.Window) != 2 {
		t.Fatalf("clipped window = %d paragraphs, want 2: %q", len(ex.Window), ex.Window)
	}

	mid := "First.\n\nThe budget again.\n\nLast."
	d = Build([]hansard.SavedDocument{doc(hansard.Assembly, "HA", mid)}, []string{"budget"}, Options{Radius: 1})
	if got := len(d.Documents[0].Excerpts[0].Window); got != 3 {
		t.Fatalf("mid-document radius 1 window = %d paragraphs, want 3", got)
	}
}

func TestDuplicateWindowsCollapse(t *testing.T) {
	// Same keyword and same window must collapse; a second keyword hitting
	// the same window still gets its own excerpt.
	text := "MR SMITH: The budget covers health.\n\nMR SMITH: The budget covers health."
	d := Build([]hansard.SavedDocument{doc(hansard.Assembly, "HA", text)}, []string{"budget", "health"}, Options{})
	if d.TotalMatches != 2 {
		t.Fatalf("expected one excerpt per keyword, got %d", d.TotalMatches)
	}
	kws := map[string]bool{}
	for _, ex := range d.Documents[0].Excerpts {
		kws[ex.Keyword] = true
	}
	if !kws["budget"] || !kws["health"] {
		t.Fatalf("keywords missing from excerpts: %+v", d.Documents[0].Excerpts)
	}
}

func TestEmptyKeywordSet(t *testing.T) {
	d := Build([]hansard.SavedDocument{doc(hansard.Council, "LC", "text")}, nil, Options{})
	if !d.NoKeywords {
		t.Fatal("NoKeywords flag not set")
	}
	if len(d.Documents) != 1 {
		t.Fatalf("document list missing: %+v", d.Documents)
	}
	if !strings.Contains(d.Render(), "No keywords configured") {
		t.Fatalf("rendering should flag missing keywords:\n%s", d.Render())
	}
}

func TestTruncationKeepsTrueTotal(t *testing.T) {
	var parts []string
	for i := 0; i < 10; i++ {
		parts = append(parts, "Paragraph about the budget, item "+strings.Repeat("x", i+1)+".")
	}
	text := strings.Join(parts, "\n\n")
	d := Build([]hansard.SavedDocument{doc(hansard.Assembly, "HA", text)}, []string{"budget"}, Options{MaxMatches: 3})
	if d.EmittedMatches != 3 || !d.Truncated {
		t.Fatalf("expected 3 emitted and truncated flag, got %d truncated=%v", d.EmittedMatches, d.Truncated)
	}
	if d.TotalMatches != 10 {
		t.Fatalf("true total lost under truncation: %d", d.TotalMatches)
	}
	if !strings.Contains(d.Render(), "showing first 3") {
		t.Fatalf("rendering should surface truncation:\n%s", d.Render())
	}
}

func TestPhraseKeyword(t *testing.T) {
	text := "The Legislative Council amendments were accepted."
	d := Build([]hansard.SavedDocument{doc(hansard.Council, "LC", text)}, []string{"legislative council"}, Options{})
	if d.TotalMatches != 1 {
		t.Fatalf("whole-phrase match failed: %d", d.TotalMatches)
	}
}

func TestDigestScenarioSingleMatch(t *testing.T) {
	// One paragraph with "budget", three without: exactly one excerpt with
	// a one-paragraph window.
	text := "Prayers were read.\n\nMR SMITH: The budget is strong.\n\nQuestion agreed to.\n\nHouse adjourned."
	d := Build([]hansard.SavedDocument{doc(hansard.Assembly, "HA", text)}, []string{"budget"}, Options{Radius: 0})
	if d.TotalMatches != 1 || len(d.Documents[0].Excerpts) != 1 {
		t.Fatalf("expected exactly one excerpt: %+v", d)
	}
	ex := d.Documents[0].Excerpts[0]
	if ex.Keyword != "budget" || len(ex.Window) != 1 {
		t.Fatalf("unexpected excerpt: %+v", ex)
	}
	if ex.Speaker != "Mr Smith" {
		t.Fatalf("speaker = %q, want %q", ex.Speaker, "Mr Smith")
	}
}

func TestDocumentsGroupedByChamber(t *testing.T) {
	docs := []hansard.SavedDocument{
		doc(hansard.Council, "LC", "budget"),
		doc(hansard.Assembly, "HA", "budget"),
	}
	d := Build(docs, []string{"budget"}, Options{})
	if d.Documents[0].Chamber != hansard.Assembly || d.Documents[1].Chamber != hansard.Council {
		t.Fatalf("chamber ordering wrong: %+v", d.Documents)
	}
}
