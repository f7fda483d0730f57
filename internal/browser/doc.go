// Package browser wraps a chromedp session behind the small surface the
// collector needs: launch with headless and download-directory settings,
// navigation, paced action execution, diagnostic screenshots, and an
// ordered-fallback selector resolver for a portal whose markup varies
// between sessions and table layouts.
package browser
