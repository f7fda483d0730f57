package kind

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
)

// ExtractPage snapshots the rendered page and parses its disclosure rows.
// A page with a recognized empty-result marker returns (nil, nil); a page
// where no result table can be located returns ErrStructureChanged with a
// diagnostic screenshot.
func (p *Portal) ExtractPage(ctx context.Context) ([]DisclosureRecord, error) {
	var html string
	err := p.sess.RunFor(p.sess.WaitTimeout(),
		chromedp.OuterHTML("body", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	records, err := ExtractRecords(html, p.cfg.BaseURL, p.logger)
	if err != nil {
		if errors.Is(err, ErrStructureChanged) {
			p.Screenshot("no_table_rows")
		}
		return nil, err
	}
	p.logger.Info("page extracted", slog.Int("records", len(records)))
	return records, nil
}
