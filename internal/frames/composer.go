package frames

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"wordreel/internal/models"
)

// MaxWorkers caps concurrent decodes; a full-page screenshot can be hundreds of MB once decoded
const MaxWorkers = 4

// Shot is a full-page screenshot waiting to be turned into a frame
type Shot struct {
	Index     int
	Box       models.Box
	FullPath  string
	FramePath string
}

// Composer turns full-page screenshots into frames concurrently
type Composer struct {
	geometry Geometry
	keepFull bool
	workers  int
	logger   zerolog.Logger
}

func NewComposer(g Geometry, keepFull bool, logger zerolog.Logger) *Composer {
	return &Composer{
		geometry: g,
		keepFull: keepFull,
		workers:  min(runtime.GOMAXPROCS(0), MaxWorkers),
		logger:   logger.With().Str("component", "frames").Logger(),
	}
}

// Process composes every shot and writes its frame. Results are in input
// order. Shots whose zoom box falls outside the screenshot are skipped with a
// warning; any other failure aborts the batch.
func (c *Composer) Process(ctx context.Context, shots []Shot) ([]models.Capture, error) {
	results := make([]*models.Capture, len(shots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, shot := range shots {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			capture, err := c.processOne(shot)
			if errors.Is(err, ErrEmptyCrop) {
				c.logger.Warn().Int("index", shot.Index).Str("path", shot.FullPath).Msg("occurrence is outside the screenshot, skipping")
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = capture
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	captures := make([]models.Capture, 0, len(results))
	for _, r := range results {
		if r != nil {
			captures = append(captures, *r)
		}
	}
	return captures, nil
}

func (c *Composer) processOne(shot Shot) (*models.Capture, error) {
	src, err := imaging.Open(shot.FullPath)
	if err != nil {
		return nil, &models.CaptureError{Index: shot.Index, Step: "decode", Err: err}
	}

	cx, cy := shot.Box.Center()
	frame, err := Compose(src, cx, cy, c.geometry)
	if err != nil {
		if errors.Is(err, ErrEmptyCrop) {
			c.removeFull(shot)
		}
		return nil, &models.CaptureError{Index: shot.Index, Step: "crop", Err: err}
	}

	if err := imaging.Save(frame, shot.FramePath); err != nil {
		return nil, &models.CaptureError{Index: shot.Index, Step: "save", Err: err}
	}

	c.removeFull(shot)

	c.logger.Debug().Int("index", shot.Index).Str("path", shot.FramePath).Msg("frame written")
	return &models.Capture{Index: shot.Index, Box: shot.Box, Path: shot.FramePath}, nil
}

func (c *Composer) removeFull(shot Shot) {
	if c.keepFull {
		return
	}
	if err := os.Remove(shot.FullPath); err != nil && !os.IsNotExist(err) {
		c.logger.Warn().Err(fmt.Errorf("remove %s: %w", shot.FullPath, err)).Int("index", shot.Index).Msg("failed to remove full screenshot")
	}
}
