package digest

import (
	"fmt"
	"strings"

	"github.com/parlwatch/hansard/internal/hansard"
)

// Render formats the digest as plain text. The same rendering is written to
// the digest artifact on disk and used as the notification body.
func (d Digest) Render() string {
	var b strings.Builder

	if d.NoKeywords {
		b.WriteString("No keywords configured.\n")
		if len(d.Documents) > 0 {
			b.WriteString("\nNew transcripts:\n")
			for _, doc := range d.Documents {
				fmt.Fprintf(&b, "  [%s] %s\n", doc.Chamber.Label(), doc.Title)
			}
		}
		return b.String()
	}

	fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(d.Keywords, ", "))
	if d.Truncated {
		fmt.Fprintf(&b, "Matches: %d (showing first %d)\n", d.TotalMatches, d.EmittedMatches)
	} else {
		fmt.Fprintf(&b, "Matches: %d\n", d.TotalMatches)
	}

	n := 0
	for _, c := range hansard.Chambers {
		docs := d.documentsFor(c)
		if len(docs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n=== %s ===\n", c.Label())
		for _, doc := range docs {
			fmt.Fprintf(&b, "\n%s\n", doc.Title)
			if len(doc.Excerpts) == 0 {
				b.WriteString("  (no keyword matches)\n")
				continue
			}
			for _, ex := range doc.Excerpts {
				n++
				speaker := ex.Speaker
				if speaker == "" {
					speaker = "no speaker"
				}
				fmt.Fprintf(&b, "\nMatch #%d (keyword: %s, %s)\n%s\n", n, ex.Keyword, speaker, strings.Join(ex.Window, "\n\n"))
			}
		}
	}
	return b.String()
}

func (d Digest) documentsFor(c hansard.Chamber) []DocumentDigest {
	var out []DocumentDigest
	for _, doc := range d.Documents {
		if doc.Chamber == c {
			out = append(out, doc)
		}
	}
	return out
}
