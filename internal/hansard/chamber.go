package hansard

import "strings"

// Chamber identifies which legislative body a transcript belongs to.
type Chamber int

const (
	Unclassified Chamber = iota
	Assembly
	Council
)

// String returns the short form used in directory names and manifest keys.
func (c Chamber) String() string {
	switch c {
	case Assembly:
		return "assembly"
	case Council:
		return "council"
	default:
		return "unclassified"
	}
}

// Label returns the chamber's display name.
func (c Chamber) Label() string {
	switch c {
	case Assembly:
		return "House of Assembly"
	case Council:
		return "Legislative Council"
	default:
		return "Unclassified"
	}
}

// Chambers lists every category in routing priority order.
var Chambers = []Chamber{Assembly, Council, Unclassified}

// Upstream titles are inconsistent about separators, so treat underscores
// and the various dash characters as spaces before matching.
var separatorReplacer = strings.NewReplacer("_", " ", "-", " ", "–", " ", "—", " ")

// Classify derives the chamber from transcript text. It is deterministic and
// case-insensitive; Assembly wins over Council when both names appear. Text
// naming neither chamber is routed to Unclassified.
func Classify(text string) Chamber {
	t := strings.Join(strings.Fields(strings.ToLower(separatorReplacer.Replace(text))), " ")
	if strings.Contains(t, "house of assembly") {
		return Assembly
	}
	if strings.Contains(t, "legislative council") {
		return Council
	}
	return Unclassified
}
