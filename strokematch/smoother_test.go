package strokematch

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestSmoothKeepsShape(t *testing.T) {
	smoother := NewSmootherDefault()
	stroke := make(Stroke, 50)
	for i := range stroke {
		stroke[i] = Point{X: float64(i) * 5, Y: 0}
	}
	smoothed, err := smoother.Smooth(stroke)
	if err != nil {
		t.Fatal(err)
	}
	if len(smoothed) != len(stroke) {
		t.Fatalf("Expected %d points, got %d", len(stroke), len(smoothed))
	}
	if smoothed[0] != stroke[0] || smoothed[len(smoothed)-1] != stroke[len(stroke)-1] {
		t.Errorf("Endpoints must be kept: %v, %v", smoothed[0], smoothed[len(smoothed)-1])
	}
	for i, pt := range smoothed {
		if !pt.isFinite() {
			t.Errorf("point #%d is not finite: %v", i, pt)
		}
		// Measurements and initial state lie on the X axis, so there is nothing to pull points off it
		if math.Abs(pt.Y) > eps {
			t.Errorf("point #%d left the line: %v", i, pt)
		}
	}
	if stroke[10].X != 50 {
		t.Error("Smooth must not modify source stroke")
	}
}

func TestSmoothShortStroke(t *testing.T) {
	smoother := NewSmootherDefault()
	stroke := Stroke{{X: 1, Y: 2}, {X: 3, Y: 4}}
	smoothed, err := smoother.Smooth(stroke)
	if err != nil {
		t.Fatal(err)
	}
	if len(smoothed) != 2 || smoothed[0] != stroke[0] || smoothed[1] != stroke[1] {
		t.Errorf("Two-point stroke must stay as is, got %v", smoothed)
	}
}

func TestNewSmootherValidation(t *testing.T) {
	if _, err := NewSmoother(WithProcessNoise(0)); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("Expected ErrInvalidParameters, got %v", err)
	}
	if _, err := NewSmoother(WithMeasurementNoise(1, -1)); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("Expected ErrInvalidParameters, got %v", err)
	}
	if _, err := NewSmoother(WithProcessNoise(1), WithMeasurementNoise(2, 2)); err != nil {
		t.Error(err)
	}
}
