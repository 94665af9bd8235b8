package strokematch

import "github.com/pkg/errors"

// Resample converts stroke into exactly n points equally spaced along its arc length.
// First and last points are the stroke endpoints; interior point i lies at fraction i/(n-1) of total length.
func Resample(stroke Stroke, n int) (Stroke, error) {
	if n < 2 {
		return nil, errors.Wrapf(ErrInvalidParameters, "can't resample into %d point(s), at least 2 required", n)
	}
	if err := stroke.Validate(); err != nil {
		return nil, errors.Wrap(err, "can't resample")
	}
	interval := stroke.Length() / float64(n-1)
	lastSegment := len(stroke) - 2

	resampled := make(Stroke, n)
	resampled[0] = stroke[0]
	resampled[n-1] = stroke[len(stroke)-1]

	segment := 0
	walked := 0.0 // arc length up to the start of current segment
	for i := 1; i < n-1; i++ {
		target := float64(i) * interval
		// Move along the path until segment containing target distance is found.
		// Accumulated rounding could push target past the end, so never step beyond the last segment
		for segment < lastSegment {
			segmentLength := euclideanDistance(stroke[segment], stroke[segment+1])
			if walked+segmentLength >= target {
				break
			}
			walked += segmentLength
			segment++
		}
		start, end := stroke[segment], stroke[segment+1]
		segmentLength := euclideanDistance(start, end)
		fraction := 0.0
		if segmentLength > 0 {
			fraction = clampFloat64((target-walked)/segmentLength, 0, 1)
		}
		resampled[i] = lerp(start, end, fraction)
	}
	return resampled, nil
}

func resampleAll(strokes []Stroke, n int) ([]Stroke, error) {
	resampled := make([]Stroke, len(strokes))
	for i, stroke := range strokes {
		parts, err := Resample(stroke, n)
		if err != nil {
			return nil, errors.Wrapf(err, "stroke #%d", i)
		}
		resampled[i] = parts
	}
	return resampled, nil
}
