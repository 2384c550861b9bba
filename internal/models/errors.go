// Package models defines the shared data types and typed errors for better
// error handling and context.
package models

import "fmt"

// InvalidInputError represents a user input that cannot be used for a run
type InvalidInputError struct {
	Field string
	Err   error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// NavigationError represents a failure to load the target page
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// CaptureError represents a failure while capturing one occurrence
type CaptureError struct {
	Index int
	Step  string
	Err   error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture %d failed at %s: %v", e.Index, e.Step, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// NoFramesError is returned when the screenshot directory holds no frame for the word
type NoFramesError struct {
	Dir  string
	Word string
}

func (e *NoFramesError) Error() string {
	return "No images found for the video."
}

// EncodeError represents a failed video encode
type EncodeError struct {
	Output string
	Stderr string
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("encoding %s failed: %v: %s", e.Output, e.Err, e.Stderr)
	}
	return fmt.Sprintf("encoding %s failed: %v", e.Output, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
