// Package pipeline runs one capture: locate the word on the page, capture a
// zoomed frame per occurrence and encode a randomly sampled clip.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"wordreel/internal/config"
	"wordreel/internal/frames"
	"wordreel/internal/models"
	"wordreel/internal/output"
	"wordreel/internal/scraper"
	"wordreel/internal/video"
)

// Browser is the page driver the pipeline needs
type Browser interface {
	Open(ctx context.Context, url string) error
	Locate(ctx context.Context, word string) ([]models.Box, error)
	ScrollTo(ctx context.Context, top float64) error
	FullScreenshot(ctx context.Context) ([]byte, error)
	OuterHTML(ctx context.Context) (string, error)
	Close()
}

// BrowserFactory starts a browser for one run
type BrowserFactory func(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Browser, error)

// ChromeFactory starts a headless Chrome session through chromedp
func ChromeFactory(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Browser, error) {
	return scraper.NewSession(ctx, cfg, logger)
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithBrowserFactory replaces the Chrome session
func WithBrowserFactory(f BrowserFactory) Option {
	return func(p *Pipeline) { p.newBrowser = f }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// Pipeline orchestrates a single run
type Pipeline struct {
	cfg        config.Config
	logger     zerolog.Logger
	encoder    video.Encoder
	out        io.Writer
	newBrowser BrowserFactory
	summarizer *scraper.Summarizer
	now        func() time.Time
}

// New returns a pipeline that prints progress lines to out
func New(cfg config.Config, logger zerolog.Logger, encoder video.Encoder, out io.Writer, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		logger:     logger,
		encoder:    encoder,
		out:        out,
		newBrowser: ChromeFactory,
		summarizer: scraper.NewSummarizer(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the whole capture and returns the manifest it wrote
func (p *Pipeline) Run(ctx context.Context) (*models.Manifest, error) {
	cfg := p.cfg
	log := p.logger.With().Str("word", cfg.Word).Str("url", cfg.URL).Logger()

	if err := cfg.Validate(); err != nil {
		return nil, &models.InvalidInputError{Field: "config", Err: err}
	}
	frameCount := cfg.FramesNeeded()
	if frameCount <= 0 {
		return nil, &models.InvalidInputError{
			Field: "duration",
			Err:   fmt.Errorf("%gs at %d fps yields no frames", cfg.DurationSec, cfg.FPS),
		}
	}

	manifest := &models.Manifest{
		Word:      cfg.Word,
		URL:       cfg.URL,
		FPS:       cfg.FPS,
		Frames:    frameCount,
		StartedAt: p.now(),
	}

	if err := output.Reset(cfg.ScreenshotDir, cfg.ClipDir); err != nil {
		return nil, err
	}

	shots, err := p.capture(ctx, log, manifest)
	if err != nil {
		return nil, err
	}

	composer := frames.NewComposer(frames.Geometry{
		ZoomWidth:   cfg.ZoomWidth,
		ZoomHeight:  cfg.ZoomHeight,
		FrameWidth:  cfg.FrameWidth,
		FrameHeight: cfg.FrameHeight,
	}, cfg.KeepFullScreenshots, log)

	captures, err := composer.Process(ctx, shots)
	if err != nil {
		return nil, err
	}
	for _, c := range captures {
		fmt.Fprintf(p.out, "Saved screenshot: %s\n", c.Path)
	}
	manifest.Captures = captures

	paths, err := output.ListFrames(cfg.ScreenshotDir, cfg.Word)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, &models.NoFramesError{Dir: cfg.ScreenshotDir, Word: cfg.Word}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = p.now().UnixNano()
	}
	manifest.Seed = seed
	selected := video.Sample(paths, frameCount, video.NewRand(seed))

	videoPath := output.VideoPath(cfg.ClipDir, cfg.Word)
	log.Info().Int("frames", len(selected)).Int("images", len(paths)).Int64("seed", seed).Msg("encoding video")

	if err := p.encoder.Encode(ctx, selected, cfg.FPS, videoPath); err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "Video saved to %s\n", videoPath)

	manifest.Video = videoPath
	manifest.FinishedAt = p.now()

	manifestPath, err := output.WriteManifest(cfg.ClipDir, cfg.ManifestName, manifest)
	if err != nil {
		// The clip exists, a missing manifest is not worth failing the run
		log.Warn().Err(err).Msg("failed to write manifest")
	} else {
		log.Info().Str("path", manifestPath).Msg("manifest written")
	}

	return manifest, nil
}

// capture drives the browser: open the page, locate occurrences and take a
// full-page screenshot centered on each one
func (p *Pipeline) capture(ctx context.Context, log zerolog.Logger, manifest *models.Manifest) ([]frames.Shot, error) {
	cfg := p.cfg

	browser, err := p.newBrowser(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	defer browser.Close()

	log.Info().Msg("opening page")
	if err := browser.Open(ctx, cfg.URL); err != nil {
		return nil, err
	}

	boxes, err := browser.Locate(ctx, cfg.Word)
	if err != nil {
		return nil, err
	}
	unique := scraper.Dedupe(boxes)
	manifest.Found = len(boxes)
	manifest.Unique = len(unique)
	fmt.Fprintf(p.out, "Found %d exact instances of '%s'\n", len(unique), cfg.Word)

	p.summarize(ctx, log, browser, manifest)

	limit := min(len(unique), cfg.MaxInstances)
	shots := make([]frames.Shot, 0, limit)

	for i, box := range unique[:limit] {
		_, cy := box.Center()
		top := cy - float64(cfg.ScrollOffset())

		if err := browser.ScrollTo(ctx, top); err != nil {
			return nil, &models.CaptureError{Index: i, Step: "scroll", Err: err}
		}

		png, err := browser.FullScreenshot(ctx)
		if err != nil {
			return nil, &models.CaptureError{Index: i, Step: "screenshot", Err: err}
		}

		fullPath := output.FullShotPath(cfg.ScreenshotDir, cfg.Word, i)
		if err := os.WriteFile(fullPath, png, 0644); err != nil {
			return nil, &models.CaptureError{Index: i, Step: "write", Err: err}
		}

		log.Debug().Int("index", i).Float64("top", top).Str("path", fullPath).Msg("full page captured")
		shots = append(shots, frames.Shot{
			Index:     i,
			Box:       box,
			FullPath:  fullPath,
			FramePath: output.FramePath(cfg.ScreenshotDir, cfg.Word, i),
		})
	}

	return shots, nil
}

// summarize records page metadata. Failures are logged and never stop the run.
func (p *Pipeline) summarize(ctx context.Context, log zerolog.Logger, browser Browser, manifest *models.Manifest) {
	html, err := browser.OuterHTML(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read page html")
		return
	}

	summary, err := p.summarizer.Summarize(html, p.cfg.URL, p.cfg.Word)
	if err != nil {
		log.Warn().Err(err).Msg("page summary incomplete")
	}
	manifest.Page = &summary

	log.Info().
		Str("title", summary.Title).
		Int("article_matches", summary.ArticleMatches).
		Msg("page summary")
}
