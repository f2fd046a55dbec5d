package hansard

import (
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeRunes = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Slug reduces s to the filename-safe charset, collapsing every run of
// other characters to a single underscore.
func Slug(s string) string {
	return strings.Trim(unsafeRunes.ReplaceAllString(s, "_"), "_")
}

// FileName composes the on-disk name for a transcript. The identifier is
// always part of the name so two sittings with identical titles cannot
// collide.
func FileName(title, id string) string {
	base := Slug(title)
	if base == "" {
		base = "transcript"
	}
	return base + "_" + Slug(id) + ".txt"
}

// DestPath returns the destination for a transcript under root, routed into
// the chamber's directory.
func DestPath(root string, c Chamber, title, id string) string {
	return filepath.Join(root, c.String(), FileName(title, id))
}
