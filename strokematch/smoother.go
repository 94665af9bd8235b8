package strokematch

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

// Smoother removes pointer jitter from captured strokes with 2D Kalman filter.
// Endpoints are kept as captured since resampling anchors on them
type Smoother struct {
	dt       float64
	ux       float64
	uy       float64
	stdDevA  float64
	stdDevMx float64
	stdDevMy float64
}

// SmootherOption customizes Smoother
type SmootherOption func(*Smoother)

// WithProcessNoise sets standard deviation of acceleration
func WithProcessNoise(stdDevA float64) SmootherOption {
	return func(smoother *Smoother) {
		smoother.stdDevA = stdDevA
	}
}

// WithMeasurementNoise sets standard deviation of measured X and Y
func WithMeasurementNoise(stdDevMx, stdDevMy float64) SmootherOption {
	return func(smoother *Smoother) {
		smoother.stdDevMx = stdDevMx
		smoother.stdDevMy = stdDevMy
	}
}

// NewSmootherDefault creates smoother tuned for mouse input in 1024x1024 drawing space
func NewSmootherDefault() *Smoother {
	return &Smoother{
		/* Kalman filter props */
		dt:       1.0,
		ux:       0.0,
		uy:       0.0,
		stdDevA:  2.0,
		stdDevMx: 3.0,
		stdDevMy: 3.0,
	}
}

// NewSmoother creates smoother with default parameters overridden by given options
func NewSmoother(opts ...SmootherOption) (*Smoother, error) {
	smoother := NewSmootherDefault()
	for _, opt := range opts {
		opt(smoother)
	}
	if !(smoother.stdDevA > 0) || !(smoother.stdDevMx > 0) || !(smoother.stdDevMy > 0) {
		return nil, errors.Wrapf(ErrInvalidParameters, "noise deviations must be positive, got %v, %v, %v", smoother.stdDevA, smoother.stdDevMx, smoother.stdDevMy)
	}
	return smoother, nil
}

// Smooth returns filtered copy of the stroke. Strokes of 2 points or less are returned as is (copied)
func (smoother *Smoother) Smooth(stroke Stroke) (Stroke, error) {
	smoothed := stroke.Clone()
	if len(stroke) <= 2 {
		return smoothed, nil
	}
	kf := kalman_filter.NewKalman2D(smoother.dt, smoother.ux, smoother.uy, smoother.stdDevA, smoother.stdDevMx, smoother.stdDevMy, kalman_filter.WithState2D(stroke[0].X, stroke[0].Y))
	for i := 1; i < len(stroke)-1; i++ {
		kf.Predict()
		err := kf.Update(stroke[i].X, stroke[i].Y)
		if err != nil {
			return nil, errors.Wrapf(err, "can't filter point #%d", i)
		}
		stateX, stateY := kf.GetState()
		smoothed[i] = Point{X: stateX, Y: stateY}
	}
	return smoothed, nil
}
