package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"wordreel/internal/models"
)

// Viper keys, shared with the command line flags and the YAML config file
const (
	KeyWord              = "word"
	KeyURL               = "url"
	KeyDuration          = "duration"
	KeyScreenshotDir     = "screenshot_dir"
	KeyClipDir           = "clip_dir"
	KeyManifestName      = "manifest_name"
	KeyFrameWidth        = "frame_width"
	KeyFrameHeight       = "frame_height"
	KeyZoomWidth         = "zoom_width"
	KeyZoomHeight        = "zoom_height"
	KeyMaxInstances      = "max_instances"
	KeyFPS               = "fps"
	KeySeed              = "seed"
	KeyHeadless          = "headless"
	KeyChromePath        = "chrome_path"
	KeyUserAgent         = "user_agent"
	KeyViewportWidth     = "viewport_width"
	KeyViewportHeight    = "viewport_height"
	KeySettleDelay       = "settle_delay"
	KeyScrollPause       = "scroll_pause"
	KeyNavigationTimeout = "navigation_timeout"
	KeyFFmpegPath        = "ffmpeg_path"
	KeyKeepFull          = "keep_full"
	KeyLogLevel          = "log_level"
	KeyLogFile           = "log_file"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. WORDREEL_FPS
const EnvPrefix = "WORDREEL"

// NewViper returns a viper instance with defaults and environment binding set up
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// SetDefaults registers Default() under every key
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault(KeyScreenshotDir, d.ScreenshotDir)
	v.SetDefault(KeyClipDir, d.ClipDir)
	v.SetDefault(KeyManifestName, d.ManifestName)
	v.SetDefault(KeyFrameWidth, d.FrameWidth)
	v.SetDefault(KeyFrameHeight, d.FrameHeight)
	v.SetDefault(KeyZoomWidth, d.ZoomWidth)
	v.SetDefault(KeyZoomHeight, d.ZoomHeight)
	v.SetDefault(KeyMaxInstances, d.MaxInstances)
	v.SetDefault(KeyFPS, d.FPS)
	v.SetDefault(KeySeed, d.Seed)
	v.SetDefault(KeyHeadless, d.Headless)
	v.SetDefault(KeyViewportWidth, d.ViewportWidth)
	v.SetDefault(KeyViewportHeight, d.ViewportHeight)
	v.SetDefault(KeySettleDelay, d.SettleDelay)
	v.SetDefault(KeyScrollPause, d.ScrollPause)
	v.SetDefault(KeyNavigationTimeout, d.NavigationTimeout)
	v.SetDefault(KeyFFmpegPath, d.FFmpegPath)
	v.SetDefault(KeyKeepFull, d.KeepFullScreenshots)
	v.SetDefault(KeyLogLevel, d.LogLevel)
}

// ReadFile merges a YAML config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// ParseDuration parses a duration in seconds
func ParseDuration(raw string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &models.InvalidInputError{Field: "duration", Err: err}
	}
	return d, nil
}

// Load builds a Config from v. It does not validate: the user inputs may
// still be missing and get prompted for afterwards. A duration that is set
// but does not parse is an error rather than a missing input.
func Load(v *viper.Viper) (Config, error) {
	var duration float64
	if raw := v.GetString(KeyDuration); v.IsSet(KeyDuration) && strings.TrimSpace(raw) != "" {
		d, err := ParseDuration(raw)
		if err != nil {
			return Config{}, err
		}
		duration = d
	}

	return Config{
		Word:                strings.TrimSpace(v.GetString(KeyWord)),
		URL:                 strings.TrimSpace(v.GetString(KeyURL)),
		DurationSec:         duration,
		ScreenshotDir:       v.GetString(KeyScreenshotDir),
		ClipDir:             v.GetString(KeyClipDir),
		ManifestName:        v.GetString(KeyManifestName),
		FrameWidth:          v.GetInt(KeyFrameWidth),
		FrameHeight:         v.GetInt(KeyFrameHeight),
		ZoomWidth:           v.GetInt(KeyZoomWidth),
		ZoomHeight:          v.GetInt(KeyZoomHeight),
		MaxInstances:        v.GetInt(KeyMaxInstances),
		FPS:                 v.GetInt(KeyFPS),
		Seed:                v.GetInt64(KeySeed),
		Headless:            v.GetBool(KeyHeadless),
		ChromePath:          v.GetString(KeyChromePath),
		UserAgent:           v.GetString(KeyUserAgent),
		ViewportWidth:       v.GetInt(KeyViewportWidth),
		ViewportHeight:      v.GetInt(KeyViewportHeight),
		SettleDelay:         v.GetDuration(KeySettleDelay),
		ScrollPause:         v.GetDuration(KeyScrollPause),
		NavigationTimeout:   v.GetDuration(KeyNavigationTimeout),
		FFmpegPath:          v.GetString(KeyFFmpegPath),
		KeepFullScreenshots: v.GetBool(KeyKeepFull),
		LogLevel:            v.GetString(KeyLogLevel),
		LogFile:             v.GetString(KeyLogFile),
	}, nil
}
