package kind

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/chromedp/chromedp"

	"kindcli/internal/browser"
)

var (
	pageFromURLRe     = regexp.MustCompile(`[?&]page(?:[Nn]o)?=(\d+)`)
	pageFromOnclickRe = regexp.MustCompile(`goPage\((\d+)\)`)
)

// PageFromURL extracts a page number from a portal URL query string. Returns
// 0 when the URL carries no page parameter.
func PageFromURL(u string) int {
	m := pageFromURLRe.FindStringSubmatch(u)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// PageFromOnclick extracts the target page of a goPage(N) pagination handler.
// Returns 0 when the handler is not a page jump.
func PageFromOnclick(onclick string) int {
	m := pageFromOnclickRe.FindStringSubmatch(onclick)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// activePageJS reads the highlighted page indicator from the pagination bar.
const activePageJS = `(() => {
	const markers = [
		'.paging a.current', '.paging a.on', '.paging a.active',
		'.paging strong', '.paging span.on',
		'div.paging li.on a', 'a.current', 'strong.current',
	];
	for (const sel of markers) {
		for (const el of document.querySelectorAll(sel)) {
			const n = parseInt(el.textContent.trim(), 10);
			if (!isNaN(n) && n > 0) return n;
		}
	}
	return 0;
})()`

// CurrentPage derives the page the portal is showing.
func (p *Portal) CurrentPage(ctx context.Context) int {
	return p.readPage(ctx)
}

// derivePage reads the page number from the live session: the highlighted
// pagination indicator first, the URL page parameter second, page one when
// neither is available.
func (p *Portal) derivePage(ctx context.Context) int {
	var n int
	if err := p.evaluate(activePageJS, &n); err == nil && n > 0 {
		return n
	}
	if loc, err := p.sess.Location(); err == nil {
		if n := PageFromURL(loc); n > 0 {
			return n
		}
	}
	return 1
}

// paginationLink is an anchor harvested from the page for Go-side matching.
type paginationLink struct {
	Index   int    `json:"index"`
	Onclick string `json:"onclick"`
	Href    string `json:"href"`
	Text    string `json:"text"`
}

const harvestLinksJS = `(() => {
	const out = [];
	const anchors = document.querySelectorAll('a[onclick], a[href]');
	for (let i = 0; i < anchors.length; i++) {
		out.push({
			index: i,
			onclick: anchors[i].getAttribute('onclick') || '',
			href: anchors[i].getAttribute('href') || '',
			text: anchors[i].textContent.trim(),
		});
	}
	return out;
})()`

// nextPageCandidates builds the ordered control strategies for reaching a
// given page number.
func nextPageCandidates(next int) []browser.Candidate {
	return []browser.Candidate{
		{Desc: "numeric page link", Sel: fmt.Sprintf(
			`//div[contains(@class, 'paging')]//a[normalize-space(text())='%d' and not(contains(@class, 'disabled'))]`, next),
			By: chromedp.BySearch, Clickable: true},
		{Desc: "next arrow", Sel: "a.next:not(.disabled)", By: chromedp.ByQuery, Clickable: true},
		{Desc: "goPage handler", Sel: fmt.Sprintf(`//a[contains(@onclick, 'goPage(%d)')]`, next),
			By: chromedp.BySearch, Clickable: true},
		{Desc: "page href", Sel: fmt.Sprintf(`//a[contains(@href, 'pageNo=%d') or contains(@href, 'page=%d')]`, next, next),
			By: chromedp.BySearch, Clickable: true},
	}
}

// Advance moves to the next result page. It returns false when pagination is
// terminal, i.e. no control leads to a strictly greater page number. The
// postcondition is verified by re-deriving the current page after the click;
// a click that lands back on the same page never counts as success.
func (p *Portal) Advance(ctx context.Context) bool {
	cur := p.CurrentPage(ctx)
	next := cur + 1

	for _, c := range nextPageCandidates(next) {
		if err := p.tryClick(ctx, c); err != nil {
			p.logger.Debug("pagination control failed",
				slog.String("desc", c.Desc), slog.String("error", err.Error()))
			continue
		}
		if p.settled(ctx, cur) {
			return true
		}
	}

	return p.advanceByScan(ctx, cur, next)
}

// resolveAndClick resolves a single pagination control and clicks it on the
// live session.
func (p *Portal) resolveAndClick(ctx context.Context, c browser.Candidate) error {
	if _, err := p.res.Resolve(ctx, "next page control", []browser.Candidate{c}); err != nil {
		return err
	}
	by := c.By
	if by == nil {
		by = chromedp.ByQuery
	}
	return p.sess.RunFor(p.sess.WaitTimeout(),
		chromedp.ScrollIntoView(c.Sel, by),
		chromedp.Click(c.Sel, by),
	)
}

// advanceByScan harvests every anchor on the page and clicks the first one
// whose handler, href, or label targets the next page.
func (p *Portal) advanceByScan(ctx context.Context, cur, next int) bool {
	links, err := p.harvest()
	if err != nil {
		p.logger.Debug("pagination link scan failed", slog.String("error", err.Error()))
		return false
	}

	for _, link := range links {
		hit := PageFromOnclick(link.Onclick) == next ||
			PageFromURL(link.Href) == next ||
			link.Text == strconv.Itoa(next)
		if !hit {
			continue
		}
		clicked, err := p.clickLink(link.Index)
		if err != nil || !clicked {
			continue
		}
		if p.settled(ctx, cur) {
			return true
		}
	}

	p.logger.Info("pagination terminal", slog.Int("page", cur))
	return false
}

// harvestLinks collects the page's anchors for Go-side matching.
func (p *Portal) harvestLinks() ([]paginationLink, error) {
	var links []paginationLink
	if err := p.evaluate(harvestLinksJS, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// clickLinkByIndex clicks the i-th harvested anchor.
func (p *Portal) clickLinkByIndex(index int) (bool, error) {
	clickJS := fmt.Sprintf(`(() => {
		const anchors = document.querySelectorAll('a[onclick], a[href]');
		if (%d >= anchors.length) return false;
		anchors[%d].scrollIntoView(true);
		anchors[%d].click();
		return true;
	})()`, index, index, index)
	var clicked bool
	if err := p.evaluate(clickJS, &clicked); err != nil {
		return false, err
	}
	return clicked, nil
}

// settled waits out the page transition and reports whether the portal now
// shows a page past the one we advanced from.
func (p *Portal) settled(ctx context.Context, from int) bool {
	if err := Sleep(ctx, p.pace.AfterClick); err != nil {
		return false
	}
	now := p.CurrentPage(ctx)
	if now > from {
		p.logger.Debug("advanced page", slog.Int("from", from), slog.Int("to", now))
		return true
	}
	return false
}
