// Package keywords loads the literal terms the digest engine scans for.
package keywords

import (
	"bufio"
	"os"
	"strings"
)

// Load resolves the keyword set for a run: the keywords file wins when it
// yields any terms (one per line, '#' lines ignored, surrounding quotes
// stripped), otherwise the configured fallback applies. The result is
// immutable for the run.
func Load(path string, fallback []string) []string {
	if kws := fromFile(path); len(kws) > 0 {
		return kws
	}
	return fallback
}

func fromFile(path string) []string {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var kws []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		kws = append(kws, unquote(line))
	}
	return kws
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
