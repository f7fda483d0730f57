package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"kindcli/internal/config"
)

// Session owns one Chrome instance and the context chain driving it. It is
// used by exactly one collection flow at a time; methods are not safe for
// concurrent use.
type Session struct {
	cfg    config.BrowserConfig
	paths  *config.Paths
	logger *slog.Logger

	ctx          context.Context
	cancelCtx    context.CancelFunc
	cancelAlloc  context.CancelFunc
	limiter      *rate.Limiter
	closeOnce    sync.Once
}

// NewSession launches a browser configured from cfg. The download directory
// and screenshot directory come from paths. The caller must Close the session;
// Close is safe to call more than once.
func NewSession(ctx context.Context, cfg config.BrowserConfig, paths *config.Paths, logger *slog.Logger) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
		chromedp.UserAgent(cfg.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	s := &Session{
		cfg:         cfg,
		paths:       paths,
		logger:      logger,
		ctx:         browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		limiter:     rate.NewLimiter(rate.Limit(cfg.ActionsPerSec), 1),
	}

	// First Run starts the process; route downloads to our directory.
	err := chromedp.Run(browserCtx,
		cdpbrowser.SetDownloadBehavior(cdpbrowser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(paths.DownloadsDir))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	logger.Info("browser session started",
		slog.Bool("headless", cfg.Headless),
		slog.String("download_dir", paths.DownloadsDir))
	return s, nil
}

// RunFor executes actions with a bounded deadline, after waiting on the
// action-rate limiter. Used for the per-candidate waits of the selector
// resolver and every other session interaction.
func (s *Session) RunFor(timeout time.Duration, actions ...chromedp.Action) error {
	if err := s.limiter.Wait(s.ctx); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Navigate loads a URL and waits for the document body to be ready.
func (s *Session) Navigate(url string) error {
	s.logger.Info("navigating", slog.String("url", url))
	return s.RunFor(s.cfg.NavTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// Location returns the current page URL.
func (s *Session) Location() (string, error) {
	var url string
	err := s.RunFor(s.cfg.WaitTimeout, chromedp.Location(&url))
	return url, err
}

// CaptureScreenshot saves a full-page screenshot into the screenshots
// directory and returns its path. Failures are logged, never fatal; callers
// use this purely for diagnostics.
func (s *Session) CaptureScreenshot(prefix string) string {
	var buf []byte
	if err := s.RunFor(s.cfg.WaitTimeout, chromedp.FullScreenshot(&buf, 90)); err != nil {
		s.logger.Warn("screenshot capture failed",
			slog.String("prefix", prefix),
			slog.String("error", err.Error()))
		return ""
	}

	path := s.paths.GetScreenshotPath(prefix)
	if err := os.WriteFile(path, buf, 0644); err != nil {
		s.logger.Warn("screenshot write failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return ""
	}

	s.logger.Warn("diagnostic screenshot saved", slog.String("path", path))
	return path
}

// WaitTimeout returns the configured bounded-wait duration for element
// conditions.
func (s *Session) WaitTimeout() time.Duration {
	return s.cfg.WaitTimeout
}

// Close tears the session down. Idempotent; always safe on failure paths.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancelCtx()
		s.cancelAlloc()
		s.logger.Info("browser session closed")
	})
}
