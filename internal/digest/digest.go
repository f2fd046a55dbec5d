// Package digest produces the keyword-match report for newly acquired
// transcripts: speaker-attributed paragraph excerpts grouped by chamber,
// document and keyword. The engine is stateless; each call processes only
// the documents handed to it.
package digest

import (
	"regexp"
	"strings"

	"github.com/parlwatch/hansard/internal/hansard"
)

// Options controls excerpt windows and output size.
type Options struct {
	// Radius is how many neighbouring paragraphs to include on each side of
	// a match. 0 means just the matching paragraph.
	Radius int
	// MaxMatches caps the emitted excerpts; 0 means unlimited. The true
	// match total is always recorded.
	MaxMatches int
}

// Excerpt is one keyword hit: the paragraph window around the match and the
// speaker it was attributed to (empty when no marker was found).
type Excerpt struct {
	Keyword string
	Speaker string
	Window  []string
}

// DocumentDigest groups a document's excerpts.
type DocumentDigest struct {
	Chamber  hansard.Chamber
	Title    string
	Path     string
	Excerpts []Excerpt
}

// Digest is the full report for one run.
type Digest struct {
	Keywords       []string
	NoKeywords     bool
	Documents      []DocumentDigest
	TotalMatches   int
	EmittedMatches int
	Truncated      bool
}

var paragraphBreak = regexp.MustCompile(`\r?\n\s*\r?\n`)

// SplitParagraphs breaks transcript text on blank-line boundaries, tolerant
// of CRLF endings and stray whitespace between paragraphs.
func SplitParagraphs(text string) []string {
	parts := paragraphBreak.Split(text, -1)
	paras := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// Build scans docs for the keywords and assembles the report. Documents are
// grouped by chamber in routing priority order, keeping input order within a
// chamber. Matching is whole-word/whole-phrase and case-insensitive;
// identical keyword+window pairs collapse to one excerpt for the run.
func Build(docs []hansard.SavedDocument, keywords []string, opts Options) Digest {
	kws := cleanKeywords(keywords)
	d := Digest{Keywords: kws}
	if len(kws) == 0 {
		d.NoKeywords = true
		for _, doc := range ordered(docs) {
			d.Documents = append(d.Documents, DocumentDigest{Chamber: doc.Chamber, Title: doc.Title, Path: doc.Path})
		}
		return d
	}

	patterns := make([]*regexp.Regexp, len(kws))
	for i, kw := range kws {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
	}

	seen := make(map[string]struct{})
	for _, doc := range ordered(docs) {
		dd := DocumentDigest{Chamber: doc.Chamber, Title: doc.Title, Path: doc.Path}
		paras := SplitParagraphs(doc.Text)
		for i, para := range paras {
			for k, re := range patterns {
				if !re.MatchString(para) {
					continue
				}
				window := windowAround(paras, i, opts.Radius)
				key := kws[k] + "\x00" + strings.Join(window, "\n\n")
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				d.TotalMatches++
				if opts.MaxMatches > 0 && d.EmittedMatches >= opts.MaxMatches {
					d.Truncated = true
					continue
				}
				dd.Excerpts = append(dd.Excerpts, Excerpt{
					Keyword: kws[k],
					Speaker: Attribute(paras, i),
					Window:  window,
				})
				d.EmittedMatches++
			}
		}
		d.Documents = append(d.Documents, dd)
	}
	return d
}

// windowAround returns the paragraphs within radius of idx, clipped at the
// document boundaries.
func windowAround(paras []string, idx, radius int) []string {
	if radius < 0 {
		radius = 0
	}
	lo := idx - radius
	if lo < 0 {
		lo = 0
	}
	hi := idx + radius + 1
	if hi > len(paras) {
		hi = len(paras)
	}
	out := make([]string, hi-lo)
	copy(out, paras[lo:hi])
	return out
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// ordered sorts documents by chamber routing priority, stable within each
// chamber.
func ordered(docs []hansard.SavedDocument) []hansard.SavedDocument {
	out := make([]hansard.SavedDocument, 0, len(docs))
	for _, c := range hansard.Chambers {
		for _, doc := range docs {
			if doc.Chamber == c {
				out = append(out, doc)
			}
		}
	}
	return out
}
