package kind

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/chromedp/chromedp"

	"kindcli/internal/browser"
)

// configStep is one form-configuration step with an explicit criticality
// tag. The continue/abort decision is table-driven: required failures abort
// the sub-range, optional failures fall back to the portal's defaults.
type configStep struct {
	name     string
	required bool
	run      func(ctx context.Context) error
}

// Configure applies a search configuration to the form. It returns a
// *StepError when a required step fails; optional-step failures are logged
// and the portal's defaults stand.
func (p *Portal) Configure(ctx context.Context, sc SearchConfig) error {
	steps := []configStep{
		{"date range", true, func(ctx context.Context) error {
			return p.setDateRange(ctx, sc.Range)
		}},
		{"market filter", false, func(ctx context.Context) error {
			return p.selectMarket(ctx, sc.Market)
		}},
		{"disclosure types", false, func(ctx context.Context) error {
			return p.selectDisclosureTypes(ctx, sc.Types)
		}},
		{"page size", false, func(ctx context.Context) error {
			return p.setPageSize(ctx, sc.PageSize)
		}},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			if step.required {
				p.Screenshot(step.name + "_error")
				return &StepError{Step: step.name, Required: true, Err: err}
			}
			p.logger.Warn("optional form step failed, using portal default",
				slog.String("step", step.name),
				slog.String("error", err.Error()))
		}
		if err := Sleep(ctx, p.pace.AfterFormChange); err != nil {
			return err
		}
	}
	return nil
}

var (
	startDateCandidates = []browser.Candidate{
		{Desc: "by name", Sel: `input[name='fromDate']`, By: chromedp.ByQuery},
		{Desc: "by id", Sel: "fromDate", By: chromedp.ByID},
		{Desc: "by xpath name", Sel: `//input[@name='fromDate']`, By: chromedp.BySearch},
		{Desc: "by placeholder", Sel: `//input[@placeholder='YYYY.MM.DD' or @placeholder='시작일']`, By: chromedp.BySearch},
	}
	endDateCandidates = []browser.Candidate{
		{Desc: "by name", Sel: `input[name='toDate']`, By: chromedp.ByQuery},
		{Desc: "by id", Sel: "toDate", By: chromedp.ByID},
		{Desc: "by xpath name", Sel: `//input[@name='toDate']`, By: chromedp.BySearch},
		{Desc: "by placeholder", Sel: `//input[@placeholder='YYYY.MM.DD' or @placeholder='종료일']`, By: chromedp.BySearch},
	}
)

// setDateRange writes YYYY.MM.DD values into the start and end date inputs.
func (p *Portal) setDateRange(ctx context.Context, r DateRange) error {
	if err := r.Validate(); err != nil {
		return err
	}

	inputs := []struct {
		target     string
		candidates []browser.Candidate
		value      string
	}{
		{"start date input", startDateCandidates, r.Start.Format("2006.01.02")},
		{"end date input", endDateCandidates, r.End.Format("2006.01.02")},
	}
	for _, in := range inputs {
		c, err := p.res.Resolve(ctx, in.target, in.candidates)
		if err != nil {
			return err
		}
		by := c.By
		if by == nil {
			by = chromedp.ByQuery
		}
		err = p.sess.RunFor(p.sess.WaitTimeout(),
			chromedp.Clear(c.Sel, by),
			chromedp.SetValue(c.Sel, in.value, by),
		)
		if err != nil {
			return fmt.Errorf("failed to set %s: %w", in.target, err)
		}
	}

	p.logger.Info("date range set", slog.String("range", r.String()))
	return nil
}

// marketRadioIDs maps non-default market scopes to their radio control ids.
var marketRadioIDs = map[Market]string{
	MarketMain:   "rWertpapier",
	MarketGrowth: "rKosdaq",
}

// selectMarket toggles the market radio control. "all" is the portal
// default and a no-op.
func (p *Portal) selectMarket(ctx context.Context, m Market) error {
	if m == "" || m == MarketAll {
		return nil
	}
	id, known := marketRadioIDs[m]
	if !known {
		return fmt.Errorf("unknown market scope %q", m)
	}

	sel := "#" + id
	if _, err := p.res.Resolve(ctx, "market radio "+string(m), []browser.Candidate{
		{Desc: "radio by id", Sel: sel, By: chromedp.ByQuery, Clickable: true},
	}); err != nil {
		return err
	}

	checked, err := p.toggleChecked(sel)
	if err != nil {
		return err
	}
	if !checked {
		return fmt.Errorf("market radio %s: %w", m, ErrVerificationFailed)
	}
	p.logger.Info("market filter selected", slog.String("market", string(m)))
	return nil
}

// marketActionTabCandidates locate the market-action tab that reveals the
// disclosure-type checkboxes.
var marketActionTabCandidates = []browser.Candidate{
	{Desc: "tab by id", Sel: "dsclsType02", By: chromedp.ByID, Clickable: true},
	{Desc: "tab by title", Sel: `//a[@title='시장조치']`, By: chromedp.BySearch, Clickable: true},
	{Desc: "tab by onclick", Sel: `//a[contains(@onclick, 'fnDisclosureType') and contains(@onclick, '02')]`, By: chromedp.BySearch, Clickable: true},
	{Desc: "tab by text", Sel: `//li[contains(@class, 'tab')]/a[contains(text(), '시장조치')]`, By: chromedp.BySearch, Clickable: true},
}

// checkboxCandidates are the type-specific ordered selector lists. CSS only:
// the click-and-verify path runs through querySelector.
var checkboxCandidates = map[DisclosureType][]string{
	TypeInvestmentWarning:    {"#dsclsLayer02_33", `input[value='0313']`},
	TypeUnfaithfulDisclosure: {`input[value='0314']`},
	TypeListingManagement:    {`input[value='0315']`},
}

// selectDisclosureTypes activates the market-action tab (best-effort),
// resets all checked boxes in that section, then checks each requested
// type. A type whose checkbox cannot be resolved is skipped; partial
// success is still success.
func (p *Portal) selectDisclosureTypes(ctx context.Context, types []DisclosureType) error {
	if len(types) == 0 {
		types = []DisclosureType{TypeInvestmentWarning}
	}

	if c, err := p.res.Resolve(ctx, "market-action tab", marketActionTabCandidates); err != nil {
		p.logger.Warn("market-action tab not found, staying on default tab")
	} else {
		by := c.By
		if by == nil {
			by = chromedp.ByQuery
		}
		if err := p.sess.RunFor(p.sess.WaitTimeout(), chromedp.Click(c.Sel, by)); err != nil {
			p.logger.Warn("market-action tab click failed", slog.String("error", err.Error()))
		}
		if err := Sleep(ctx, p.pace.AfterFormChange); err != nil {
			return err
		}
	}

	// Idempotent reset: uncheck everything currently checked in the
	// market-action section, falling back to all checkboxes on the page.
	const resetJS = `(() => {
		let boxes = document.querySelectorAll("#dsclsLayer02 input[type='checkbox']");
		if (boxes.length === 0) boxes = document.querySelectorAll("input[type='checkbox']");
		let cleared = 0;
		for (const box of boxes) {
			if (box.checked) { box.click(); cleared++; }
		}
		return cleared;
	})()`
	var cleared int
	if err := p.evaluate(resetJS, &cleared); err != nil {
		return fmt.Errorf("failed to reset disclosure-type checkboxes: %w", err)
	}
	p.logger.Info("disclosure-type checkboxes reset", slog.Int("cleared", cleared))

	for _, typ := range types {
		if err := p.checkDisclosureType(ctx, typ); err != nil {
			p.logger.Warn("disclosure type skipped",
				slog.String("type", string(typ)),
				slog.String("error", err.Error()))
			p.Screenshot("checkbox_error")
		}
	}
	return nil
}

func (p *Portal) checkDisclosureType(ctx context.Context, typ DisclosureType) error {
	for _, sel := range checkboxCandidates[typ] {
		if _, err := p.res.Resolve(ctx, string(typ), []browser.Candidate{
			{Desc: sel, Sel: sel, By: chromedp.ByQuery, Clickable: true},
		}); err != nil {
			continue
		}
		checked, err := p.toggleChecked(sel)
		if err == nil && checked {
			p.logger.Info("disclosure type checked",
				slog.String("type", string(typ)),
				slog.String("selector", sel))
			return nil
		}
	}

	// Last resort: scan labels for the type text and toggle the associated
	// checkbox.
	labelJS := fmt.Sprintf(`(() => {
		for (const label of document.querySelectorAll('label')) {
			if (!label.textContent.includes(%q)) continue;
			const forID = label.getAttribute('for');
			let box = forID ? document.getElementById(forID) : null;
			if (!box && label.parentElement) {
				box = label.parentElement.querySelector("input[type='checkbox']");
			}
			if (box) {
				if (!box.checked) box.click();
				return !!box.checked;
			}
		}
		return false;
	})()`, string(typ))
	var checked bool
	if err := p.evaluate(labelJS, &checked); err != nil {
		return err
	}
	if !checked {
		return fmt.Errorf("checkbox for %s: %w", typ, browser.ErrTargetNotFound)
	}
	return nil
}

// toggleChecked clicks a checkbox/radio identified by a CSS selector unless
// it is already selected, and returns the resulting checked state.
func (p *Portal) toggleChecked(sel string) (bool, error) {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		el.scrollIntoView(true);
		if (!el.checked) el.click();
		return !!el.checked;
	})()`, sel)
	var checked bool
	err := p.evaluate(js, &checked)
	return checked, err
}

// setPageSize sets the page-size dropdown, trying selection by value, by
// visible text, by index, then a direct option click, in that order.
// Best-effort: the portal's default page size stands on failure.
func (p *Portal) setPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return nil
	}
	value := strconv.Itoa(size)

	const dropdown = "#currentPageSize"
	if _, err := p.res.Resolve(ctx, "page size dropdown", []browser.Candidate{
		{Desc: "dropdown by id", Sel: dropdown, By: chromedp.ByQuery},
	}); err != nil {
		return err
	}

	attempts := []struct {
		desc string
		js   string
	}{
		{"by value", fmt.Sprintf(`(() => {
			const sel = document.querySelector(%q);
			if (!sel) return false;
			sel.value = %q;
			if (sel.value !== %q) return false;
			sel.dispatchEvent(new Event('change', {bubbles: true}));
			return true;
		})()`, dropdown, value, value)},
		{"by visible text", fmt.Sprintf(`(() => {
			const sel = document.querySelector(%q);
			if (!sel) return false;
			for (const opt of sel.options) {
				if (opt.text.trim() === %q) {
					sel.value = opt.value;
					sel.dispatchEvent(new Event('change', {bubbles: true}));
					return true;
				}
			}
			return false;
		})()`, dropdown, value)},
		{"by index", fmt.Sprintf(`(() => {
			const sel = document.querySelector(%q);
			if (!sel || sel.options.length < 4) return false;
			sel.selectedIndex = 3;
			sel.dispatchEvent(new Event('change', {bubbles: true}));
			return true;
		})()`, dropdown)},
		{"direct option click", fmt.Sprintf(`(() => {
			const opt = document.querySelector(%q + " option[value='" + %q + "']");
			if (!opt) return false;
			opt.click();
			return true;
		})()`, dropdown, value)},
	}

	for _, attempt := range attempts {
		var ok bool
		if err := p.evaluate(attempt.js, &ok); err != nil || !ok {
			continue
		}
		p.logger.Info("page size set",
			slog.Int("size", size),
			slog.String("mechanism", attempt.desc))
		return nil
	}
	return fmt.Errorf("page size dropdown: %w", ErrVerificationFailed)
}

// searchButtonCandidates locate the search submit control, most specific
// first.
var searchButtonCandidates = []browser.Candidate{
	{Desc: "button group search", Sel: "#searchForm .btn-group a.search-btn", By: chromedp.ByQuery, Clickable: true},
	{Desc: "search class", Sel: "a.search-btn", By: chromedp.ByQuery, Clickable: true},
	{Desc: "sprite search", Sel: "a.btn-sprite.search-btn", By: chromedp.ByQuery, Clickable: true},
	{Desc: "search text", Sel: `//a[contains(text(), '검색') or contains(@title, '검색')]`, By: chromedp.BySearch, Clickable: true},
	{Desc: "search input", Sel: `//input[@value='검색' or @title='검색']`, By: chromedp.BySearch, Clickable: true},
	{Desc: "search onclick", Sel: `//a[contains(@onclick, 'searchContents') or contains(@onclick, 'search')]`, By: chromedp.BySearch, Clickable: true},
}

// resultMarkers are alternative signs that the result area rendered.
var resultMarkers = []browser.Candidate{
	{Desc: "list content", Sel: ".list_content", By: chromedp.ByQuery},
	{Desc: "list table", Sel: `//table[contains(@class, 'list')]`, By: chromedp.BySearch},
	{Desc: "any body row", Sel: `//tbody//tr`, By: chromedp.BySearch},
}

// Search submits the configured search. Locating and activating the button
// is required; waiting for the result area is best-effort since an empty
// result set renders differently across portal variants.
func (p *Portal) Search(ctx context.Context) error {
	c, err := p.res.Resolve(ctx, "search button", searchButtonCandidates)
	if err != nil {
		p.Screenshot("search_error")
		return err
	}
	by := c.By
	if by == nil {
		by = chromedp.ByQuery
	}
	err = p.sess.RunFor(p.sess.WaitTimeout(),
		chromedp.ScrollIntoView(c.Sel, by),
		chromedp.Click(c.Sel, by),
	)
	if err != nil {
		p.Screenshot("search_error")
		return fmt.Errorf("failed to click search button: %w", err)
	}
	if err := Sleep(ctx, p.pace.AfterNavigate); err != nil {
		return err
	}

	if _, err := p.res.Resolve(ctx, "search results", resultMarkers); err != nil {
		p.logger.Warn("result area did not appear within wait, continuing")
	}
	return nil
}
