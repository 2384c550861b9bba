// Package output manages the screenshot and clip directories and the file
// names written into them.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	pngExt    = ".png"
	fullShot  = "_full" + pngExt
	videoExt  = ".mp4"
	dirPerms  = 0755
	filePerms = 0644
)

// Reset removes every directory recursively, then recreates them all empty.
// Nothing is created before everything is removed, so nested directories survive.
func Reset(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clear %s: %w", dir, err)
		}
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, dirPerms); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// FullShotPath is where the full-page screenshot for occurrence i is written
func FullShotPath(dir, word string, i int) string {
	return filepath.Join(dir, word+"_"+strconv.Itoa(i)+fullShot)
}

// FramePath is where the composed frame for occurrence i is written
func FramePath(dir, word string, i int) string {
	return filepath.Join(dir, word+"_"+strconv.Itoa(i)+pngExt)
}

// VideoPath is the output clip for word
func VideoPath(dir, word string) string {
	return filepath.Join(dir, word+videoExt)
}

// ListFrames returns the frames in dir whose names start with word and end in
// .png, sorted by name. Full-page screenshots are never frames.
func ListFrames(dir, word string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var frames []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, word) || !strings.HasSuffix(name, pngExt) {
			continue
		}
		if strings.HasSuffix(name, fullShot) {
			continue
		}
		frames = append(frames, filepath.Join(dir, name))
	}

	sort.Strings(frames)
	return frames, nil
}
