// Package session defines the browsing capability the acquisition pipeline
// depends on. The pipeline never talks to a browser directly; it sees only
// these primitives, which keeps the traversal logic testable against a fake.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/parlwatch/hansard/internal/hansard"
)

// ErrNoResults is returned by implementations when a search produced no
// document links at all.
var ErrNoResults = errors.New("session: no results")

// Session is a single stateful browse of the upstream search interface. The
// current page is part of the session, so traversal is strictly sequential
// and non-restartable: a fresh traversal needs a fresh session.
type Session interface {
	// PageCandidates returns the document links visible on the current
	// results page, in source order.
	PageCandidates(ctx context.Context) ([]hansard.Candidate, error)

	// NextPage advances to the following results page. It returns false
	// when the source reports no further page.
	NextPage(ctx context.Context) (bool, error)

	// FetchDocument retrieves the plain text of the candidate's transcript.
	FetchDocument(ctx context.Context, c hansard.Candidate) (hansard.Document, error)
}

// DocumentID extracts the stable identifier from a result link. Hansard
// viewer links carry the document token in the path segment after "/doc/";
// anything trailing (further segments, query, fragment) is not part of it.
func DocumentID(href string) string {
	const marker = "/doc/"
	i := strings.Index(href, marker)
	if i < 0 {
		return ""
	}
	id := href[i+len(marker):]
	for _, sep := range []string{"/", "?", "#"} {
		if j := strings.Index(id, sep); j >= 0 {
			id = id[:j]
		}
	}
	return id
}
