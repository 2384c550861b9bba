package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSample(t *testing.T) {
	paths := []string{"a.png", "b.png", "c.png"}

	tests := []struct {
		name  string
		paths []string
		n     int
		want  int
	}{
		{name: "more frames than images", paths: paths, n: 30, want: 30},
		{name: "fewer frames than images", paths: paths, n: 2, want: 2},
		{name: "zero frames", paths: paths, n: 0, want: 0},
		{name: "negative frames", paths: paths, n: -3, want: 0},
		{name: "no images", paths: nil, n: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sample(tt.paths, tt.n, NewRand(1))
			assert.Len(t, got, tt.want)
			for _, p := range got {
				assert.Contains(t, tt.paths, p)
			}
		})
	}
}

func TestSampleIsReproducible(t *testing.T) {
	paths := []string{"a.png", "b.png", "c.png", "d.png"}

	first := Sample(paths, 50, NewRand(42))
	second := Sample(paths, 50, NewRand(42))
	assert.Equal(t, first, second)
}

func TestSampleWithReplacement(t *testing.T) {
	got := Sample([]string{"only.png"}, 6, NewRand(3))
	assert.Equal(t, []string{"only.png", "only.png", "only.png", "only.png", "only.png", "only.png"}, got)
}
