package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"wordreel/internal/models"
)

// Encoder turns an ordered list of image files into a video
type Encoder interface {
	Encode(ctx context.Context, frames []string, fps int, out string) error
}

// FFmpeg encodes by piping PNG frames into an ffmpeg process
type FFmpeg struct {
	Path   string
	logger zerolog.Logger
}

func NewFFmpeg(path string, logger zerolog.Logger) *FFmpeg {
	return &FFmpeg{
		Path:   path,
		logger: logger.With().Str("component", "ffmpeg").Logger(),
	}
}

// Check reports whether the ffmpeg binary can be found
func (f *FFmpeg) Check() error {
	if _, err := exec.LookPath(f.Path); err != nil {
		return fmt.Errorf("ffmpeg binary %q not found: %w", f.Path, err)
	}
	return nil
}

// Args returns the ffmpeg arguments for reading PNGs on stdin and writing an
// H.264 mp4 to out, every input image lasting one frame at fps
func Args(fps int, out string) []string {
	rate := strconv.Itoa(fps)
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "image2pipe",
		"-framerate", rate,
		"-c:v", "png",
		"-i", "-",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", rate,
		"-movflags", "+faststart",
		out,
	}
}

// Encode writes frames, in order, to out at fps. Each distinct file is read once.
func (f *FFmpeg) Encode(ctx context.Context, frames []string, fps int, out string) error {
	if len(frames) == 0 {
		return &models.EncodeError{Output: out, Err: errors.New("no frames")}
	}

	data, err := loadFrames(frames)
	if err != nil {
		return &models.EncodeError{Output: out, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return &models.EncodeError{Output: out, Err: err}
	}

	args := Args(fps, out)
	f.logger.Debug().Str("args", strings.Join(args, " ")).Int("frames", len(frames)).Msg("starting ffmpeg")

	cmd := exec.CommandContext(ctx, f.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &models.EncodeError{Output: out, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return &models.EncodeError{Output: out, Err: err}
	}

	writeErr := writeFrames(stdin, frames, data)
	closeErr := stdin.Close()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &models.EncodeError{Output: out, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	if writeErr != nil {
		return &models.EncodeError{Output: out, Err: writeErr}
	}
	if closeErr != nil {
		return &models.EncodeError{Output: out, Err: closeErr}
	}

	return nil
}

func loadFrames(frames []string) (map[string][]byte, error) {
	data := make(map[string][]byte)
	for _, p := range frames {
		if _, ok := data[p]; ok {
			continue
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read frame: %w", err)
		}
		data[p] = b
	}
	return data, nil
}

func writeFrames(w io.Writer, frames []string, data map[string][]byte) error {
	for _, p := range frames {
		if _, err := w.Write(data[p]); err != nil {
			return fmt.Errorf("failed to write frame %s: %w", p, err)
		}
	}
	return nil
}
