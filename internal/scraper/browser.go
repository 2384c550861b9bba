package scraper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"wordreel/internal/config"
	"wordreel/internal/models"
)

// Session is one Chrome tab driven through chromedp
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc

	settleDelay time.Duration
	scrollPause time.Duration
	navTimeout  time.Duration
	logger      zerolog.Logger

	watcher   *idleWatcher
	closeOnce sync.Once
}

// NewSession starts a Chrome process and opens a tab in it
func NewSession(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Session, error) {
	chromeOpts := BuildChromeOptions(BrowserOptionsFromConfig(cfg))

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, chromeOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		settleDelay: cfg.SettleDelay,
		scrollPause: cfg.ScrollPause,
		navTimeout:  cfg.NavigationTimeout,
		logger:      logger.With().Str("component", "browser").Logger(),
	}

	// Start the browser and turn on lifecycle events before listening
	if err := chromedp.Run(browserCtx, page.SetLifecycleEventsEnabled(true)); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	// A page target's main frame shares the target's ID
	var mainFrame cdp.FrameID
	if c := chromedp.FromContext(browserCtx); c != nil && c.Target != nil {
		mainFrame = cdp.FrameID(c.Target.TargetID)
	}
	s.watcher = newIdleWatcher(mainFrame)
	chromedp.ListenTarget(browserCtx, s.watcher.handle)

	return s, nil
}

// run executes actions on the tab, aborting when either ctx or the session ends
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Open navigates to targetURL, waits for the network to go idle, then lets the
// page settle
func (s *Session) Open(ctx context.Context, targetURL string) error {
	s.watcher.reset()

	navCtx, cancel := context.WithTimeout(ctx, s.navTimeout)
	defer cancel()

	start := time.Now()
	if err := s.run(navCtx, chromedp.Navigate(targetURL)); err != nil {
		return &models.NavigationError{URL: targetURL, Err: err}
	}

	select {
	case <-s.watcher.done():
		s.logger.Debug().Dur("elapsed", time.Since(start)).Msg("network idle")
	case <-navCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn().Dur("timeout", s.navTimeout).Msg("network never went idle, waiting for body instead")

		readyCtx, readyCancel := context.WithTimeout(ctx, ReadyFallbackTimeout)
		defer readyCancel()
		if err := s.run(readyCtx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
			return &models.NavigationError{URL: targetURL, Err: err}
		}
	}

	if err := s.run(ctx, chromedp.Sleep(s.settleDelay)); err != nil {
		return err
	}
	return nil
}

// Locate runs the locator script and returns every visible match of word
func (s *Session) Locate(ctx context.Context, word string) ([]models.Box, error) {
	var boxes []models.Box
	if err := s.run(ctx, chromedp.Evaluate(LocatorScript(word), &boxes)); err != nil {
		return nil, fmt.Errorf("locator script failed: %w", err)
	}
	return boxes, nil
}

// ScrollTo scrolls the window so top is at the top of the viewport, then pauses
// for lazy content to paint
func (s *Session) ScrollTo(ctx context.Context, top float64) error {
	script := "window.scrollTo(0, " + strconv.FormatFloat(top, 'f', -1, 64) + ")"
	return s.run(ctx,
		chromedp.Evaluate(script, nil),
		chromedp.Sleep(s.scrollPause),
	)
}

// FullScreenshot captures the whole page as PNG
func (s *Session) FullScreenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, chromedp.FullScreenshot(&buf, ScreenshotQuality)); err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, errors.New("empty screenshot")
	}
	return buf, nil
}

// OuterHTML returns the rendered document markup
func (s *Session) OuterHTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// Close shuts the tab and the browser process. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.allocCancel()
	})
}
