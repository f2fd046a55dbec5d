// Package chromedp implements the browse session against the Hansard search
// site using a headless Chrome instance.
package chromedp

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	readability "github.com/go-shiori/go-readability"

	"github.com/parlwatch/hansard/config"
	"github.com/parlwatch/hansard/internal/hansard"
	"github.com/parlwatch/hansard/internal/session"
)

// resultLink mirrors the anchors collected from a results page.
type resultLink struct {
	Href  string `json:"href"`
	Title string `json:"title"`
}

// collectLinks gathers every document-viewer anchor on the current page.
const collectLinks = `Array.from(document.querySelectorAll('a[href*="/doc/"]'))
	.map(a => ({href: a.href, title: (a.innerText || '').trim()}))`

// Session drives one sequential browse of the Quick Search result pages.
// Pagination state lives in the upstream session, so a Session is used for
// exactly one traversal and then closed.
type Session struct {
	cfg    config.Config
	logger *log.Logger

	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc

	page       int
	cached     []hansard.Candidate
	haveCached bool
}

var _ session.Session = (*Session)(nil)

// New launches a browser and positions the session at results page 1. The
// first page is not loaded until candidates are requested.
func New(ctx context.Context, cfg config.Config, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[BROWSER] ", log.LstdFlags)
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Browser.Headless),
		chromedp.UserAgent(cfg.Browser.UserAgent),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	bctx, cancelBrowser := chromedp.NewContext(actx)
	return &Session{
		cfg:           cfg,
		logger:        logger,
		browserCtx:    bctx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		page:          1,
	}, nil
}

// Close tears the browser down.
func (s *Session) Close() {
	s.cancelBrowser()
	s.cancelAlloc()
}

// PageCandidates implements session.Session.
func (s *Session) PageCandidates(ctx context.Context) ([]hansard.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.haveCached {
		return s.cached, nil
	}
	cands, err := s.loadPage(s.page)
	if err != nil {
		return nil, err
	}
	s.cached = cands
	s.haveCached = true
	return cands, nil
}

// NextPage implements session.Session. A page with no document links is
// treated as the end of the result set.
func (s *Session) NextPage(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	cands, err := s.loadPage(s.page + 1)
	if err != nil {
		return false, err
	}
	if len(cands) == 0 {
		return false, nil
	}
	s.page++
	s.cached = cands
	s.haveCached = true
	return true, nil
}

// FetchDocument implements session.Session. The viewer page is rendered in
// the browser and its article text extracted with readability.
func (s *Session) FetchDocument(ctx context.Context, c hansard.Candidate) (hansard.Document, error) {
	if err := ctx.Err(); err != nil {
		return hansard.Document{}, err
	}
	href := s.absoluteHref(c.Href)
	tctx, cancel := context.WithTimeout(s.browserCtx, s.cfg.Browser.Timeout+s.cfg.Browser.DownloadPause)
	defer cancel()

	var html string
	err := chromedp.Run(tctx,
		chromedp.Navigate(href),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// The viewer wires its toolbar up lazily; give it time before
		// reading the document out.
		chromedp.Sleep(s.cfg.Browser.DownloadPause),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return hansard.Document{}, fmt.Errorf("fetching document %s: %w", c.ID, err)
	}

	article, err := readability.FromReader(strings.NewReader(html), mustParseURL(href))
	if err != nil {
		return hansard.Document{}, fmt.Errorf("extracting text for %s: %w", c.ID, err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return hansard.Document{}, fmt.Errorf("document %s yielded no text", c.ID)
	}
	title := c.Title
	if title == "" {
		title = strings.TrimSpace(article.Title)
	}
	return hansard.Document{
		Candidate:     c,
		Text:          text,
		SuggestedName: hansard.FileName(title, c.ID),
	}, nil
}

// SearchAndFetch runs a one-off advanced search for query and fetches the
// first document in the results. Used by the fetch subcommand.
func (s *Session) SearchAndFetch(ctx context.Context, query string) (hansard.Document, error) {
	if err := ctx.Err(); err != nil {
		return hansard.Document{}, err
	}
	tctx, cancel := context.WithTimeout(s.browserCtx, s.cfg.Browser.Timeout)
	defer cancel()

	var raw []resultLink
	err := chromedp.Run(tctx,
		chromedp.Navigate(s.cfg.Search.AdvancedURL),
		chromedp.WaitVisible(`input[name="IW_FIELD_TERM"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="IW_FIELD_TERM"]`, query+kb.Enter, chromedp.ByQuery),
		chromedp.WaitReady(`a[href*="/doc/"]`, chromedp.ByQuery),
		chromedp.Evaluate(collectLinks, &raw),
	)
	if err != nil {
		return hansard.Document{}, fmt.Errorf("advanced search for %q: %w", query, err)
	}
	cands := s.toCandidates(raw)
	if len(cands) == 0 {
		return hansard.Document{}, session.ErrNoResults
	}
	c := cands[0]
	if c.Title == "" {
		c.Title = query
	}
	return s.FetchDocument(ctx, c)
}

// loadPage navigates to the numbered results page and collects its links.
func (s *Session) loadPage(page int) ([]hansard.Candidate, error) {
	tctx, cancel := context.WithTimeout(s.browserCtx, s.cfg.Browser.Timeout)
	defer cancel()

	var raw []resultLink
	err := chromedp.Run(tctx,
		chromedp.Navigate(s.searchURL(page)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(collectLinks, &raw),
	)
	if err != nil {
		return nil, fmt.Errorf("loading results page %d: %w", page, err)
	}
	return s.toCandidates(raw), nil
}

func (s *Session) toCandidates(raw []resultLink) []hansard.Candidate {
	cands := make([]hansard.Candidate, 0, len(raw))
	for _, l := range raw {
		id := session.DocumentID(l.Href)
		if id == "" {
			continue
		}
		cands = append(cands, hansard.Candidate{ID: id, Title: l.Title, Href: l.Href})
	}
	return cands
}

// searchURL builds the Quick Search URL for a page. Parameter names come
// from the Hansard page source.
func (s *Session) searchURL(page int) string {
	q := url.Values{}
	q.Set("IW_FIELD_ADVANCE_PHRASE", strconv.Itoa(s.cfg.Search.Year))
	q.Set("IW_DATABASE", s.cfg.Search.Database)
	q.Set("IW_SORT", s.cfg.Search.Sort)
	q.Set("IW_PAGE", strconv.Itoa(page))
	return s.cfg.Search.BaseURL + "?" + q.Encode()
}

func (s *Session) absoluteHref(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}
	base, err := url.Parse(s.cfg.Search.BaseURL)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
