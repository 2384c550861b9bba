// Package prompt asks for run inputs on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"wordreel/internal/config"
	"wordreel/internal/models"
)

// Prompts shown for the three run inputs
const (
	WordPrompt     = "Enter the target word: "
	URLPrompt      = "Enter the full Wikipedia URL: "
	DurationPrompt = "Enter the total video duration in seconds: "
)

// Ask writes label to w and returns the next line from r, trimmed
func Ask(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := io.WriteString(w, label); err != nil {
		return "", err
	}

	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Fill asks for every run input not already set in cfg, in the order word,
// url, duration
func Fill(cfg *config.Config, r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)

	if cfg.Word == "" {
		word, err := Ask(br, w, WordPrompt)
		if err != nil {
			return &models.InvalidInputError{Field: "word", Err: err}
		}
		cfg.Word = word
	}

	if cfg.URL == "" {
		u, err := Ask(br, w, URLPrompt)
		if err != nil {
			return &models.InvalidInputError{Field: "url", Err: err}
		}
		cfg.URL = u
	}

	if cfg.DurationSec == 0 {
		raw, err := Ask(br, w, DurationPrompt)
		if err != nil {
			return &models.InvalidInputError{Field: "duration", Err: err}
		}
		d, err := config.ParseDuration(raw)
		if err != nil {
			return err
		}
		cfg.DurationSec = d
	}

	return nil
}

