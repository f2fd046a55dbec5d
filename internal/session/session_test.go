package session

import "testing"

func TestDocumentID(t *testing.T) {
	cases := []struct{ href, want string }{
		{"https://search.parliament.tas.gov.au/doc/HA20250819", "HA20250819"},
		{"/doc/LC20250820/page/3", "LC20250820"},
		{"/doc/HA20250819?hl=budget", "HA20250819"},
		{"/doc/HA20250819#s2", "HA20250819"},
		{"/search/results?page=2", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := DocumentID(tc.href); got != tc.want {
			t.Fatalf("DocumentID(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}
