// Package scraper provides browser configuration options for Chrome automation.
package scraper

import (
	"github.com/chromedp/chromedp"

	"wordreel/internal/config"
)

// BrowserOptions contains configuration for browser automation
type BrowserOptions struct {
	Headless     bool
	WindowWidth  int
	WindowHeight int
	UserAgent    string
	ExecPath     string
}

// DefaultBrowserOptions returns standard browser options
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		Headless:     true,
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
	}
}

// BrowserOptionsFromConfig maps the run configuration onto browser options
func BrowserOptionsFromConfig(cfg config.Config) BrowserOptions {
	opts := DefaultBrowserOptions()
	opts.Headless = cfg.Headless
	opts.UserAgent = cfg.UserAgent
	opts.ExecPath = cfg.ChromePath
	if cfg.ViewportWidth > 0 && cfg.ViewportHeight > 0 {
		opts.WindowWidth = cfg.ViewportWidth
		opts.WindowHeight = cfg.ViewportHeight
	}
	return opts
}

// BuildChromeOptions creates Chrome options based on BrowserOptions
func BuildChromeOptions(opts BrowserOptions) []chromedp.ExecAllocatorOption {
	chromeOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	chromeOpts = append(chromeOpts,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)

	// Add user agent if provided
	if opts.UserAgent != "" {
		chromeOpts = append(chromeOpts, chromedp.UserAgent(opts.UserAgent))
	}

	if opts.ExecPath != "" {
		chromeOpts = append(chromeOpts, chromedp.ExecPath(opts.ExecPath))
	}

	return chromeOpts
}
