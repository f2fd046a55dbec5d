package digest

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// "MR SMITH:", "MS J. SMITH:" — Hansard's shouting-case speaker marker.
	upperName = regexp.MustCompile(`^([A-Z][A-Z .'\-]{2,}?)\s*:`)
	// "Mr Smith:", "Hon Jane Howlett:" — honorific plus title-cased name.
	titledName = regexp.MustCompile(`^((?:Mr|Mrs|Ms|Dr|Hon|Madam|Sir)\.?(?:\s+[A-Z][A-Za-z.'\-]+)+)\s*:`)
	// "Mr John Doe -" — the marker as a standalone line terminated by a dash
	// instead of a colon. The name must be the whole line, or an ordinary
	// sentence opening with an honorific would be mistaken for a marker.
	titledNameDash = regexp.MustCompile(`^((?:Mr|Mrs|Ms|Dr|Hon|Madam|Sir)\.?(?:\s+[A-Z][A-Za-z.'\-]+)+)\s*[-–—]\s*$`)
	// "Madam SPEAKER", "The PRESIDENT", "The CHAIR" — presiding officers,
	// which often appear without a colon.
	roleToken = regexp.MustCompile(`(?i)^((?:madam|mr|the)\s+(?:deputy\s+)?(?:speaker|president|chair(?:man|person)?))\b`)
)

// Attribute finds the speaker for the paragraph at idx. The matching
// paragraph's first line is inspected first; when it carries no marker, the
// nearest preceding paragraph with one wins — multi-paragraph speeches only
// mark the first paragraph. An empty result means no speaker, which is not
// an error.
func Attribute(paras []string, idx int) string {
	if idx >= len(paras) {
		return ""
	}
	for i := idx; i >= 0; i-- {
		if sp := speakerOf(paras[i]); sp != "" {
			return sp
		}
	}
	return ""
}

// speakerOf inspects the first line of a paragraph for a speaker marker.
func speakerOf(para string) string {
	line := para
	if j := strings.IndexAny(para, "\r\n"); j >= 0 {
		line = para[:j]
	}
	line = strings.TrimSpace(line)
	if m := upperName.FindStringSubmatch(line); m != nil {
		return normalizeName(m[1])
	}
	if m := titledName.FindStringSubmatch(line); m != nil {
		return normalizeName(m[1])
	}
	if m := titledNameDash.FindStringSubmatch(line); m != nil {
		return normalizeName(m[1])
	}
	if m := roleToken.FindStringSubmatch(line); m != nil {
		return normalizeName(m[1])
	}
	return ""
}

// normalizeName folds "MR SMITH" style markers into "Mr Smith" form.
func normalizeName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
