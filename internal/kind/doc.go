// Package kind collects market-disclosure records (investment-warning
// designations and related notices) from the KRX KIND disclosure portal.
//
// The package drives a browser session through a search form, pages through
// the result table until exhaustion or a cap, extracts a normalized record
// per row despite the portal's unstable multi-variant markup, and merges
// records across chunked date ranges.
//
// Components:
//
//	Portal     - form configuration, row extraction and pagination against
//	             a live browser session
//	Collector  - splits long date ranges, runs one search cycle per
//	             sub-range, accumulates and normalizes records
//
// Pure helpers (title classification, detail-link parsing, row mapping,
// range splitting, dedup/sort) take no browser dependency and are covered
// by package tests directly.
package kind
