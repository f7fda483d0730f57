package kind

import (
	"context"
	"log/slog"

	"github.com/chromedp/chromedp"

	"kindcli/internal/browser"
	"kindcli/internal/config"
)

// Portal drives the KIND disclosure search page through one browser session.
// It implements Source for the Collector.
type Portal struct {
	sess   *browser.Session
	res    *browser.Resolver
	cfg    config.CollectorConfig
	pace   Pacing
	logger *slog.Logger

	// Pagination internals; swapped out in tests.
	readPage  func(ctx context.Context) int
	tryClick  func(ctx context.Context, c browser.Candidate) error
	harvest   func() ([]paginationLink, error)
	clickLink func(index int) (bool, error)
}

// NewPortal wires a portal to an already-launched session.
func NewPortal(sess *browser.Session, cfg config.CollectorConfig, logger *slog.Logger) *Portal {
	p := &Portal{
		sess:   sess,
		res:    browser.NewResolver(sess, sess.WaitTimeout(), logger),
		cfg:    cfg,
		pace:   PacingFromConfig(cfg),
		logger: logger,
	}
	p.readPage = p.derivePage
	p.tryClick = p.resolveAndClick
	p.harvest = p.harvestLinks
	p.clickLink = p.clickLinkByIndex
	return p
}

// searchFormMarkers are the alternative signs that the search page finished
// loading; the portal serves several form variants.
var searchFormMarkers = []browser.Candidate{
	{Desc: "search form by id", Sel: "searchForm", By: chromedp.ByID},
	{Desc: "search area class", Sel: ".search_02", By: chromedp.ByQuery},
	{Desc: "from-date input", Sel: `input[name='fromDate']`, By: chromedp.ByQuery},
	{Desc: "search container", Sel: `//div[@class='sch_con']`, By: chromedp.BySearch},
}

// Open navigates to the disclosure search page and waits until one of the
// known form markers appears. Required: failure captures a screenshot.
func (p *Portal) Open(ctx context.Context) error {
	if err := p.sess.Navigate(p.cfg.SearchURL()); err != nil {
		p.Screenshot("navigate_error")
		return err
	}
	if err := Sleep(ctx, p.pace.AfterNavigate); err != nil {
		return err
	}
	if _, err := p.res.Resolve(ctx, "search form", searchFormMarkers); err != nil {
		p.Screenshot("navigate_error")
		return err
	}
	p.logger.Info("search page loaded", slog.String("url", p.cfg.SearchURL()))
	return nil
}

// Screenshot captures a diagnostic screenshot with the given prefix.
func (p *Portal) Screenshot(prefix string) {
	p.sess.CaptureScreenshot(prefix)
}

// evaluate runs a JS expression on the page with the bounded wait timeout.
func (p *Portal) evaluate(expr string, out any) error {
	return p.sess.RunFor(p.sess.WaitTimeout(), chromedp.Evaluate(expr, out))
}
