package models

import "time"

// Box is the bounding rectangle of one text match in document coordinates
type Box struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Center returns the midpoint of the box
func (b Box) Center() (cx, cy float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Capture is one saved zoomed frame
type Capture struct {
	Index int    `yaml:"index"`
	Box   Box    `yaml:"box"`
	Path  string `yaml:"path"`
}

// PageSummary contains informational metadata about the rendered page
type PageSummary struct {
	Title          string `yaml:"title,omitempty"`
	Excerpt        string `yaml:"excerpt,omitempty"`
	ArticleMatches int    `yaml:"article_matches"`
}

// Manifest records what a run produced
type Manifest struct {
	Word       string       `yaml:"word"`
	URL        string       `yaml:"url"`
	Page       *PageSummary `yaml:"page,omitempty"`
	Found      int          `yaml:"found"`
	Unique     int          `yaml:"unique"`
	Captures   []Capture    `yaml:"captures"`
	Frames     int          `yaml:"frames"`
	FPS        int          `yaml:"fps"`
	Seed       int64        `yaml:"seed"`
	Video      string       `yaml:"video"`
	StartedAt  time.Time    `yaml:"started_at"`
	FinishedAt time.Time    `yaml:"finished_at"`
}
