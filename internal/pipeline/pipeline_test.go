package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordreel/internal/config"
	"wordreel/internal/models"
	"wordreel/internal/output"
)

type fakeBrowser struct {
	boxes   []models.Box
	openErr error
	png     []byte

	scrolls  []float64
	shots    int
	closed   bool
	openedAt string
}

func (f *fakeBrowser) Open(ctx context.Context, url string) error {
	f.openedAt = url
	return f.openErr
}

func (f *fakeBrowser) Locate(ctx context.Context, word string) ([]models.Box, error) {
	return f.boxes, nil
}

func (f *fakeBrowser) ScrollTo(ctx context.Context, top float64) error {
	f.scrolls = append(f.scrolls, top)
	return nil
}

func (f *fakeBrowser) FullScreenshot(ctx context.Context) ([]byte, error) {
	f.shots++
	return f.png, nil
}

func (f *fakeBrowser) OuterHTML(ctx context.Context) (string, error) {
	return `<html><head><title>France - Wikipedia</title></head><body>
		<h1 id="firstHeading">France</h1><p>Paris is the capital of France.</p></body></html>`, nil
}

func (f *fakeBrowser) Close() { f.closed = true }

type fakeEncoder struct {
	calls  int
	frames []string
	fps    int
	out    string
	err    error
}

func (e *fakeEncoder) Encode(ctx context.Context, frames []string, fps int, out string) error {
	e.calls++
	e.frames = frames
	e.fps = fps
	e.out = out
	return e.err
}

func pagePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 30, G: 60, B: 90, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.Word = "Paris"
	cfg.URL = "https://en.wikipedia.org/wiki/France"
	cfg.DurationSec = 2
	cfg.ScreenshotDir = filepath.Join(root, "screenshots")
	cfg.ClipDir = filepath.Join(root, "clips")
	cfg.FrameWidth = 108
	cfg.FrameHeight = 144
	cfg.ZoomWidth = 40
	cfg.ZoomHeight = 30
	cfg.MaxInstances = 3
	cfg.Seed = 99
	return cfg
}

func newTestPipeline(cfg config.Config, b *fakeBrowser, enc *fakeEncoder, out *bytes.Buffer) (*Pipeline, *int) {
	starts := 0
	factory := func(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Browser, error) {
		starts++
		return b, nil
	}
	clock := func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return New(cfg, zerolog.Nop(), enc, out, WithBrowserFactory(factory), WithClock(clock)), &starts
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)

	// Leftovers from an earlier run must be cleared
	require.NoError(t, os.MkdirAll(cfg.ScreenshotDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ScreenshotDir, "Paris_9.png"), []byte("stale"), 0644))

	browser := &fakeBrowser{
		png: pagePNG(t, 320, 2000),
		boxes: []models.Box{
			{X: 100, Y: 200, Width: 40, Height: 16},
			{X: 100.3, Y: 199.8, Width: 40, Height: 16},
			{X: 120, Y: 900, Width: 40, Height: 16},
			{X: 50, Y: 1500, Width: 40, Height: 16},
			{X: 60, Y: 1800, Width: 40, Height: 16},
		},
	}
	enc := &fakeEncoder{}
	var out bytes.Buffer

	p, _ := newTestPipeline(cfg, browser, enc, &out)
	manifest, err := p.Run(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Found 4 exact instances of 'Paris'", lines[0])
	for i := 0; i < 3; i++ {
		assert.Equal(t, "Saved screenshot: "+output.FramePath(cfg.ScreenshotDir, "Paris", i), lines[i+1])
	}
	videoPath := output.VideoPath(cfg.ClipDir, "Paris")
	assert.Equal(t, "Video saved to "+videoPath, lines[4])

	// Scroll top is the occurrence center minus half the frame height
	assert.Equal(t, []float64{208 - 72, 908 - 72, 1508 - 72}, browser.scrolls)
	assert.Equal(t, 3, browser.shots)
	assert.True(t, browser.closed)
	assert.Equal(t, cfg.URL, browser.openedAt)

	frames, err := output.ListFrames(cfg.ScreenshotDir, "Paris")
	require.NoError(t, err)
	assert.Len(t, frames, 3)
	_, err = os.Stat(output.FullShotPath(cfg.ScreenshotDir, "Paris", 0))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, 1, enc.calls)
	assert.Equal(t, 6, enc.fps)
	assert.Equal(t, videoPath, enc.out)
	assert.Len(t, enc.frames, 12)
	for _, f := range enc.frames {
		assert.Contains(t, frames, f)
	}

	assert.Equal(t, 5, manifest.Found)
	assert.Equal(t, 4, manifest.Unique)
	assert.Len(t, manifest.Captures, 3)
	assert.Equal(t, int64(99), manifest.Seed)
	require.NotNil(t, manifest.Page)
	assert.Equal(t, "France", manifest.Page.Title)

	saved, err := output.ReadManifest(filepath.Join(cfg.ClipDir, cfg.ManifestName))
	require.NoError(t, err)
	assert.Equal(t, videoPath, saved.Video)
}

func TestRunSameSeedSameClip(t *testing.T) {
	boxes := []models.Box{{X: 10, Y: 10}, {X: 10, Y: 400}, {X: 10, Y: 800}}

	var picks [][]string
	for i := 0; i < 2; i++ {
		cfg := testConfig(t)
		enc := &fakeEncoder{}
		p, _ := newTestPipeline(cfg, &fakeBrowser{png: pagePNG(t, 200, 1000), boxes: boxes}, enc, &bytes.Buffer{})
		_, err := p.Run(context.Background())
		require.NoError(t, err)

		names := make([]string, len(enc.frames))
		for j, f := range enc.frames {
			names[j] = filepath.Base(f)
		}
		picks = append(picks, names)
	}

	assert.Equal(t, picks[0], picks[1])
}

func TestRunNoOccurrences(t *testing.T) {
	cfg := testConfig(t)
	enc := &fakeEncoder{}
	var out bytes.Buffer
	browser := &fakeBrowser{png: pagePNG(t, 100, 100)}

	p, _ := newTestPipeline(cfg, browser, enc, &out)
	_, err := p.Run(context.Background())

	var noFrames *models.NoFramesError
	require.ErrorAs(t, err, &noFrames)
	assert.Equal(t, "No images found for the video.", err.Error())
	assert.Equal(t, "Found 0 exact instances of 'Paris'\n", out.String())
	assert.Zero(t, enc.calls)
	assert.True(t, browser.closed)
}

func TestRunZeroFramesFailsBeforeBrowser(t *testing.T) {
	cfg := testConfig(t)
	cfg.DurationSec = 0.1

	enc := &fakeEncoder{}
	p, starts := newTestPipeline(cfg, &fakeBrowser{}, enc, &bytes.Buffer{})
	_, err := p.Run(context.Background())

	var inputErr *models.InvalidInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "duration", inputErr.Field)
	assert.Zero(t, *starts)
	assert.Zero(t, enc.calls)
}

func TestRunNavigationFailure(t *testing.T) {
	cfg := testConfig(t)
	navErr := &models.NavigationError{URL: cfg.URL, Err: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	browser := &fakeBrowser{openErr: navErr}

	p, _ := newTestPipeline(cfg, browser, &fakeEncoder{}, &bytes.Buffer{})
	_, err := p.Run(context.Background())

	assert.ErrorIs(t, err, navErr)
	assert.True(t, browser.closed)
}

func TestRunEncodeFailure(t *testing.T) {
	cfg := testConfig(t)
	encErr := &models.EncodeError{Output: "x.mp4", Err: errors.New("exit status 1")}
	enc := &fakeEncoder{err: encErr}
	var out bytes.Buffer

	p, _ := newTestPipeline(cfg, &fakeBrowser{png: pagePNG(t, 200, 400), boxes: []models.Box{{X: 20, Y: 20}}}, enc, &out)
	_, err := p.Run(context.Background())

	assert.ErrorIs(t, err, encErr)
	assert.NotContains(t, out.String(), "Video saved to")
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.URL = "not a url"

	p, starts := newTestPipeline(cfg, &fakeBrowser{}, &fakeEncoder{}, &bytes.Buffer{})
	_, err := p.Run(context.Background())

	var inputErr *models.InvalidInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Zero(t, *starts)
}
