// Package config holds the run configuration: the three user inputs plus every
// capture, framing and encoding constant, with defaults and validation.
package config

import (
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Config contains everything a single run needs
type Config struct {
	// User inputs
	Word        string
	URL         string
	DurationSec float64

	// Output locations
	ScreenshotDir string
	ClipDir       string
	ManifestName  string

	// Final frame geometry
	FrameWidth  int
	FrameHeight int

	// Zoom box cropped around each occurrence
	ZoomWidth    int
	ZoomHeight   int
	MaxInstances int

	FPS  int
	Seed int64

	// Browser
	Headless          bool
	ChromePath        string
	UserAgent         string
	ViewportWidth     int
	ViewportHeight    int
	SettleDelay       time.Duration
	ScrollPause       time.Duration
	NavigationTimeout time.Duration

	FFmpegPath          string
	KeepFullScreenshots bool

	LogLevel string
	LogFile  string
}

// MaxFrames caps the clip length; every frame is held in memory as a path
const MaxFrames = 36000

// Default returns the default run configuration with empty user inputs
func Default() Config {
	return Config{
		ScreenshotDir:     "screenshots",
		ClipDir:           "clips",
		ManifestName:      "manifest.yaml",
		FrameWidth:        1080,
		FrameHeight:       1440,
		ZoomWidth:         400,
		ZoomHeight:        300,
		MaxInstances:      12,
		FPS:               6,
		Headless:          true,
		ViewportWidth:     1280,
		ViewportHeight:    720,
		SettleDelay:       3 * time.Second,
		ScrollPause:       200 * time.Millisecond,
		NavigationTimeout: 60 * time.Second,
		FFmpegPath:        "ffmpeg",
		LogLevel:          "info",
	}
}

// Validate checks the configuration and reports the first invalid field
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Word) == "" {
		return fmt.Errorf("word is required")
	}
	if strings.ContainsAny(c.Word, `/\`) {
		return fmt.Errorf("word must not contain path separators")
	}
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("url is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url must include a host")
	}
	if math.IsNaN(c.DurationSec) || math.IsInf(c.DurationSec, 0) {
		return fmt.Errorf("duration must be a finite number")
	}
	if c.DurationSec <= 0 {
		return fmt.Errorf("duration must be > 0")
	}
	if c.ScreenshotDir == "" {
		return fmt.Errorf("screenshot_dir is required")
	}
	if c.ClipDir == "" {
		return fmt.Errorf("clip_dir is required")
	}
	if filepath.Clean(c.ScreenshotDir) == filepath.Clean(c.ClipDir) {
		return fmt.Errorf("screenshot_dir and clip_dir must differ")
	}
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return fmt.Errorf("frame size must be > 0, got %dx%d", c.FrameWidth, c.FrameHeight)
	}
	if c.FrameWidth%2 != 0 || c.FrameHeight%2 != 0 {
		return fmt.Errorf("frame size must be even for yuv420p, got %dx%d", c.FrameWidth, c.FrameHeight)
	}
	if c.ZoomWidth <= 0 || c.ZoomHeight <= 0 {
		return fmt.Errorf("zoom size must be > 0, got %dx%d", c.ZoomWidth, c.ZoomHeight)
	}
	if c.MaxInstances <= 0 {
		return fmt.Errorf("max_instances must be > 0")
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be > 0")
	}
	if c.DurationSec*float64(c.FPS) > MaxFrames {
		return fmt.Errorf("duration %gs at %d fps exceeds %d frames", c.DurationSec, c.FPS, MaxFrames)
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		return fmt.Errorf("viewport size must be > 0, got %dx%d", c.ViewportWidth, c.ViewportHeight)
	}
	if c.SettleDelay < 0 || c.ScrollPause < 0 {
		return fmt.Errorf("delays must be >= 0")
	}
	if c.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation_timeout must be > 0")
	}
	if c.FFmpegPath == "" {
		return fmt.Errorf("ffmpeg path is required")
	}
	return nil
}

// FramesNeeded is the number of video frames for the requested duration,
// truncated toward zero
func (c *Config) FramesNeeded() int {
	return int(c.DurationSec * float64(c.FPS))
}

// ScrollOffset is subtracted from an occurrence's center to get the scroll top
func (c *Config) ScrollOffset() int {
	return c.FrameHeight / 2
}

// FrameDuration is how long each sampled image stays on screen
func (c *Config) FrameDuration() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
