package gesture

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefineSwipe_Default(t *testing.T) {
	for _, d := range []float64{0, -5, math.NaN()} {
		if got := DefineSwipe(d).Distance; got != DefaultSwipeDistance {
			t.Errorf("DefineSwipe(%v).Distance = %v, want %v", d, got, DefaultSwipeDistance)
		}
	}
	if got := DefineSwipe(40).Distance; got != 40 {
		t.Errorf("DefineSwipe(40).Distance = %v", got)
	}
}

func TestSwipe_Detect(t *testing.T) {
	s := DefineSwipe(100)
	origin := Point{X: 500, Y: 500}

	tests := []struct {
		name    string
		current Point
		want    []SwipeDirection
	}{
		{"short", Point{X: 550, Y: 520}, nil},
		{"exact distance is not a swipe", Point{X: 600, Y: 500}, nil},
		{"right", Point{X: 601, Y: 500}, []SwipeDirection{SwipeRight}},
		{"left", Point{X: 350, Y: 480}, []SwipeDirection{SwipeLeft}},
		{"up", Point{X: 500, Y: 300}, []SwipeDirection{SwipeUp}},
		{"down", Point{X: 490, Y: 700}, []SwipeDirection{SwipeDown}},
		{"diagonal", Point{X: 700, Y: 300}, []SwipeDirection{SwipeRight, SwipeUp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Detect(origin, tt.current)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Detect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSwipeDirection_String(t *testing.T) {
	if SwipeUp.String() != "up" || SwipeDirection(9).String() != "unknown" {
		t.Errorf("unexpected names: %q %q", SwipeUp, SwipeDirection(9))
	}
}
