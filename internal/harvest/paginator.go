package harvest

import (
	"context"
	"log"

	"github.com/parlwatch/hansard/internal/hansard"
	"github.com/parlwatch/hansard/internal/session"
)

// Paginator walks a session's result pages and yields candidates in source
// order, deduplicated within each page (a document can appear behind several
// anchors on one page). It is a one-shot iterator: the page position lives
// in the session, so a fresh traversal needs a fresh session.
type Paginator struct {
	sess     session.Session
	maxPages int
	logger   *log.Logger

	page  int
	queue []hansard.Candidate
	done  bool
}

// NewPaginator wraps sess. Traversal stops after maxPages pages, when the
// session reports no further page, or when advancing fails.
func NewPaginator(sess session.Session, maxPages int, logger *log.Logger) *Paginator {
	if logger == nil {
		logger = log.New(log.Writer(), "[PAGES] ", log.LstdFlags)
	}
	return &Paginator{sess: sess, maxPages: maxPages, logger: logger}
}

// Next returns the next candidate, or ok=false when the traversal is over.
// Page-level failures end the traversal; they are not surfaced as errors
// because an unreachable next page is the normal end of a result set.
func (p *Paginator) Next(ctx context.Context) (hansard.Candidate, bool) {
	for {
		if len(p.queue) > 0 {
			c := p.queue[0]
			p.queue = p.queue[1:]
			return c, true
		}
		if p.done {
			return hansard.Candidate{}, false
		}

		if p.page == 0 {
			p.page = 1
		} else {
			if p.page >= p.maxPages {
				p.logger.Printf("page limit %d reached, stopping", p.maxPages)
				p.done = true
				continue
			}
			ok, err := p.sess.NextPage(ctx)
			if err != nil {
				p.logger.Printf("cannot advance past page %d, stopping: %v", p.page, err)
				p.done = true
				continue
			}
			if !ok {
				p.done = true
				continue
			}
			p.page++
		}

		cands, err := p.sess.PageCandidates(ctx)
		if err != nil {
			p.logger.Printf("cannot read page %d, stopping: %v", p.page, err)
			p.done = true
			continue
		}
		p.queue = dedupPage(cands)
		if len(p.queue) == 0 && p.page == 1 {
			p.done = true
		}
	}
}

// Page reports the 1-based page the paginator last loaded.
func (p *Paginator) Page() int { return p.page }

// dedupPage drops repeated identifiers within a single page, keeping the
// first occurrence's order.
func dedupPage(cands []hansard.Candidate) []hansard.Candidate {
	seen := make(map[string]struct{}, len(cands))
	out := cands[:0:0]
	for _, c := range cands {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
