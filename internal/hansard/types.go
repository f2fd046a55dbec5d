package hansard

// Candidate is a not-yet-fetched reference to a transcript discovered on a
// search results page. The ID is the stable token extracted from the result
// link and is the dedup key across runs.
type Candidate struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Href  string `json:"href"`
}

// Document is the fetched plain text of a transcript.
type Document struct {
	Candidate     Candidate
	Text          string
	SuggestedName string
}

// SavedDocument records a transcript that landed on disk during a run.
type SavedDocument struct {
	Chamber Chamber
	Title   string
	ID      string
	Path    string
	Text    string
}
