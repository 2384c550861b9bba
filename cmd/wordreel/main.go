package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wordreel/internal/config"
	"wordreel/internal/logging"
	"wordreel/internal/pipeline"
	"wordreel/internal/prompt"
	"wordreel/internal/video"
)

// flagKeys maps every config key to its command line flag
var flagKeys = map[string]string{
	config.KeyWord:              "word",
	config.KeyURL:               "url",
	config.KeyDuration:          "duration",
	config.KeyScreenshotDir:     "screenshot-dir",
	config.KeyClipDir:           "clip-dir",
	config.KeyManifestName:      "manifest-name",
	config.KeyFrameWidth:        "frame-width",
	config.KeyFrameHeight:       "frame-height",
	config.KeyZoomWidth:         "zoom-width",
	config.KeyZoomHeight:        "zoom-height",
	config.KeyMaxInstances:      "max-instances",
	config.KeyFPS:               "fps",
	config.KeySeed:              "seed",
	config.KeyHeadless:          "headless",
	config.KeyChromePath:        "chrome-path",
	config.KeyUserAgent:         "user-agent",
	config.KeyViewportWidth:     "viewport-width",
	config.KeyViewportHeight:    "viewport-height",
	config.KeySettleDelay:       "settle-delay",
	config.KeyScrollPause:       "scroll-pause",
	config.KeyNavigationTimeout: "navigation-timeout",
	config.KeyFFmpegPath:        "ffmpeg-path",
	config.KeyKeepFull:          "keep-full",
	config.KeyLogLevel:          "log-level",
	config.KeyLogFile:           "log-file",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(config.NewViper(), os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd wires flags, environment and config file into a single run
func newRootCmd(v *viper.Viper, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "wordreel",
		Short: "Capture every occurrence of a word on a Wikipedia page and cut it into a clip",
		Long: `wordreel opens a Wikipedia page in Chrome, finds each visible whole-word
occurrence of the target word, saves a zoomed portrait frame around it and
encodes a clip from randomly sampled frames.

Missing inputs are asked for on the terminal.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cfgFile, stdin, stdout)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "YAML config file")
	bindFlags(cmd, v)

	return cmd
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	d := config.Default()
	f := cmd.Flags()

	f.StringP("word", "w", "", "Target word")
	f.StringP("url", "u", "", "Full Wikipedia URL")
	f.Float64P("duration", "d", 0, "Total video duration in seconds")
	f.String("screenshot-dir", d.ScreenshotDir, "Directory for frames, cleared on every run")
	f.String("clip-dir", d.ClipDir, "Directory for the video, cleared on every run")
	f.String("manifest-name", d.ManifestName, "Run manifest file name inside the clip directory")
	f.Int("frame-width", d.FrameWidth, "Frame width in pixels")
	f.Int("frame-height", d.FrameHeight, "Frame height in pixels")
	f.Int("zoom-width", d.ZoomWidth, "Width of the box cropped around each occurrence")
	f.Int("zoom-height", d.ZoomHeight, "Height of the box cropped around each occurrence")
	f.Int("max-instances", d.MaxInstances, "Maximum occurrences to capture")
	f.Int("fps", d.FPS, "Video frame rate")
	f.Int64("seed", d.Seed, "Sampling seed, 0 picks one from the clock")
	f.Bool("headless", d.Headless, "Run Chrome without a window")
	f.String("chrome-path", d.ChromePath, "Chrome executable, empty to auto-detect")
	f.String("user-agent", d.UserAgent, "Override the browser user agent")
	f.Int("viewport-width", d.ViewportWidth, "Browser window width")
	f.Int("viewport-height", d.ViewportHeight, "Browser window height")
	f.Duration("settle-delay", d.SettleDelay, "Wait after the network goes idle")
	f.Duration("scroll-pause", d.ScrollPause, "Wait after each scroll")
	f.Duration("navigation-timeout", d.NavigationTimeout, "Limit for page load and network idle")
	f.String("ffmpeg-path", d.FFmpegPath, "ffmpeg executable")
	f.Bool("keep-full", d.KeepFullScreenshots, "Keep full-page screenshots")
	f.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	f.String("log-file", d.LogFile, "Also write JSON logs to this rotating file")

	for key, name := range flagKeys {
		if err := bindFlag(cmd, v, key, name); err != nil {
			panic(err)
		}
	}
}

// bindFlag binds the named flag of cmd to a viper key
func bindFlag(cmd *cobra.Command, v *viper.Viper, key, name string) error {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return fmt.Errorf("no flag %q for config key %q", name, key)
	}
	if err := v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("failed to bind flag %q: %w", name, err)
	}
	return nil
}

// loadConfig merges config file, environment and flags, then prompts for
// whatever input is still missing
func loadConfig(v *viper.Viper, cfgFile string, stdin io.Reader, stdout io.Writer) (config.Config, error) {
	if err := config.ReadFile(v, cfgFile); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, err
	}
	if err := prompt.Fill(&cfg, stdin, stdout); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	logger, closer, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: stderr,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	encoder := video.NewFFmpeg(cfg.FFmpegPath, logger)
	if err := encoder.Check(); err != nil {
		return err
	}

	manifest, err := pipeline.New(cfg, logger, encoder, stdout).Run(ctx)
	if err != nil {
		logger.Error().Err(err).Str("word", cfg.Word).Msg("run failed")
		return err
	}

	logger.Info().
		Str("video", manifest.Video).
		Int("captures", len(manifest.Captures)).
		Dur("elapsed", manifest.FinishedAt.Sub(manifest.StartedAt)).
		Msg("done")
	return nil
}
