package strokematch

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultDetail is number of samples each stroke is resampled to before comparison
	DefaultDetail = 10
)

// Sample is a resampled user point and its distance to the matched reference sample
type Sample struct {
	Point    Point   `json:"point"`
	Distance float64 `json:"distance"`
}

// StrokeResult is comparison details for a single stroke pair
type StrokeResult struct {
	// Mean of sample distances
	Error   float64  `json:"error"`
	Samples []Sample `json:"samples"`
}

// ScoreResult is outcome of comparing reference strokes against user strokes.
// Lower score means more similar, 0 is perfect match.
type ScoreResult struct {
	Score float64 `json:"score"`
	// Largest single sample distance across the whole comparison
	MaxError float64        `json:"max_error"`
	Strokes  []StrokeResult `json:"strokes"`
}

// Intensity returns sample distance normalized by MaxError and clamped to [0, 1].
// It is meant for color-coding feedback overlays
func (result *ScoreResult) Intensity(strokeIdx, sampleIdx int) float64 {
	if result.MaxError <= 0 {
		return 0
	}
	return minFloat64(1, result.Strokes[strokeIdx].Samples[sampleIdx].Distance/result.MaxError)
}

// Scorer compares stroke sets at a fixed detail level
type Scorer struct {
	// Number of samples per stroke. Default is 10
	detail int
}

// NewScorerDefault creates scorer with DefaultDetail samples per stroke
func NewScorerDefault() *Scorer {
	return &Scorer{
		detail: DefaultDetail,
	}
}

// NewScorer creates scorer with custom detail level
func NewScorer(detail int) (*Scorer, error) {
	if detail < 2 {
		return nil, errors.Wrapf(ErrInvalidParameters, "detail level must be at least 2, got %d", detail)
	}
	return &Scorer{
		detail: detail,
	}, nil
}

// Detail returns number of samples per stroke
func (scorer *Scorer) Detail() int {
	return scorer.detail
}

// Score compares reference strokes (already transformed) with user strokes.
// Stroke i of reference is matched with stroke i of user input.
func (scorer *Scorer) Score(reference, user []Stroke) (*ScoreResult, error) {
	if len(reference) != len(user) {
		return nil, errors.Wrapf(ErrMismatchedStrokeCount, "reference has %d stroke(s), user has %d", len(reference), len(user))
	}
	if len(reference) == 0 {
		return nil, errors.Wrap(ErrInvalidParameters, "nothing to compare: no strokes")
	}
	result := ScoreResult{
		Strokes: make([]StrokeResult, len(reference)),
	}
	strokeErrors := make([]float64, len(reference))
	distances := make([]float64, scorer.detail)
	for s := range reference {
		referenceParts, err := Resample(reference[s], scorer.detail)
		if err != nil {
			return nil, errors.Wrapf(err, "reference stroke #%d", s)
		}
		userParts, err := Resample(user[s], scorer.detail)
		if err != nil {
			return nil, errors.Wrapf(err, "user stroke #%d", s)
		}
		samples := make([]Sample, scorer.detail)
		for i := range samples {
			distances[i] = euclideanDistance(userParts[i], referenceParts[i])
			samples[i] = Sample{
				Point:    userParts[i],
				Distance: distances[i],
			}
		}
		strokeErrors[s] = stat.Mean(distances, nil)
		result.MaxError = maxFloat64(result.MaxError, floats.Max(distances))
		result.Strokes[s] = StrokeResult{
			Error:   strokeErrors[s],
			Samples: samples,
		}
	}
	result.Score = stat.Mean(strokeErrors, nil)
	return &result, nil
}

// Score compares strokes using default scorer
func Score(reference, user []Stroke) (*ScoreResult, error) {
	return NewScorerDefault().Score(reference, user)
}

// prepare validates stroke counts and resamples user strokes once, so that repeated
// scoring (e.g. during search) only needs to resample reference strokes
func (scorer *Scorer) prepare(referenceCount int, user []Stroke) ([]Stroke, error) {
	if referenceCount != len(user) {
		return nil, errors.Wrapf(ErrMismatchedStrokeCount, "reference has %d stroke(s), user has %d", referenceCount, len(user))
	}
	if referenceCount == 0 {
		return nil, errors.Wrap(ErrInvalidParameters, "nothing to compare: no strokes")
	}
	userParts, err := resampleAll(user, scorer.detail)
	if err != nil {
		return nil, errors.Wrap(err, "user strokes")
	}
	return userParts, nil
}

// scoreResampled computes the same score as Score without collecting per-sample details.
// userParts must come from prepare
func (scorer *Scorer) scoreResampled(reference, userParts []Stroke) (float64, error) {
	total := 0.0
	for s := range reference {
		referenceParts, err := Resample(reference[s], scorer.detail)
		if err != nil {
			return 0, errors.Wrapf(err, "reference stroke #%d", s)
		}
		strokeError := 0.0
		for i := range referenceParts {
			strokeError += euclideanDistance(userParts[s][i], referenceParts[i])
		}
		total += strokeError / float64(scorer.detail)
	}
	return total / float64(len(reference)), nil
}
