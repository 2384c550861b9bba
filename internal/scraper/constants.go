// Package scraper provides constants used throughout the browser session.
package scraper

import "time"

// Browser configuration
const (
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720
	ScreenshotQuality   = 100 // 100 makes chromedp capture PNG
)

// Lifecycle events reported by the page domain
const (
	LifecycleInit        = "init"
	LifecycleNetworkIdle = "networkIdle"
)

// ReadyFallbackTimeout bounds the body wait used when networkIdle never fires
const ReadyFallbackTimeout = 10 * time.Second

// Page summary selectors
const (
	TitleSelectors = "#firstHeading, h1"
	MetaDesc       = "description"
	OGDescription  = "og:description"
	MaxExcerptLen  = 300
)

// Text processing constants
const (
	DoubleNewline = "\n\n"
	TripleNewline = "\n\n\n"
	DoubleSpace   = "  "
	SingleSpace   = " "
)
