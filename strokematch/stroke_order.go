package strokematch

import (
	"github.com/arthurkushman/go-hungarian"
	"github.com/pkg/errors"
)

// StrokeOrder describes which reference stroke each user stroke resembles most,
// regardless of the order strokes were drawn in
type StrokeOrder struct {
	// Assignment[i] is index of reference stroke matched to user stroke i, or -1 when unmatched
	Assignment []int `json:"assignment"`
	// Reversed[i] is true when user stroke i is closer to its reference stroke drawn backwards
	Reversed []bool `json:"reversed"`
	// InOrder is true when every user stroke i is matched to reference stroke i in the right direction
	InOrder bool `json:"in_order"`
}

// MatchStrokeOrder finds optimal one-to-one assignment between user and reference strokes.
// Cost of a pair is mean distance of resampled points, trying both directions of the user stroke.
// Stroke counts may differ: extra strokes stay unmatched.
func (scorer *Scorer) MatchStrokeOrder(reference, user []Stroke) (*StrokeOrder, error) {
	if len(reference) == 0 || len(user) == 0 {
		return nil, errors.Wrap(ErrInvalidParameters, "nothing to match: no strokes")
	}
	referenceParts, err := resampleAll(reference, scorer.detail)
	if err != nil {
		return nil, errors.Wrap(err, "reference strokes")
	}
	userParts, err := resampleAll(user, scorer.detail)
	if err != nil {
		return nil, errors.Wrap(err, "user strokes")
	}

	numUser := len(userParts)
	numReference := len(referenceParts)
	costMatrix := make([][]float64, numUser)
	reversedMatrix := make([][]bool, numUser)
	maxCost := 0.0
	for i := range userParts {
		costMatrix[i] = make([]float64, numReference)
		reversedMatrix[i] = make([]bool, numReference)
		backwards := userParts[i].Reversed()
		for j := range referenceParts {
			forward := meanPairDistance(userParts[i], referenceParts[j])
			backward := meanPairDistance(backwards, referenceParts[j])
			costMatrix[i][j] = forward
			if backward < forward {
				costMatrix[i][j] = backward
				reversedMatrix[i][j] = true
			}
			maxCost = maxFloat64(maxCost, costMatrix[i][j])
		}
	}

	// Hungarian solver maximizes profit over a square matrix: turn costs into profits and pad with zeros
	paddedSize := maxInt(numUser, numReference)
	profitMatrix := make([][]float64, paddedSize)
	for i := 0; i < paddedSize; i++ {
		profitMatrix[i] = make([]float64, paddedSize)
	}
	for i := 0; i < numUser; i++ {
		for j := 0; j < numReference; j++ {
			profitMatrix[i][j] = maxCost - costMatrix[i][j] + 1.0
		}
	}
	assignmentsMap := hungarian.SolveMax(profitMatrix)

	order := StrokeOrder{
		Assignment: make([]int, numUser),
		Reversed:   make([]bool, numUser),
		InOrder:    numUser == numReference,
	}
	for i := range order.Assignment {
		order.Assignment[i] = -1
	}
	for userIdx, rowMap := range assignmentsMap {
		if userIdx >= numUser {
			continue
		}
		for referenceIdx := range rowMap {
			if referenceIdx < numReference {
				order.Assignment[userIdx] = referenceIdx
				order.Reversed[userIdx] = reversedMatrix[userIdx][referenceIdx]
			}
			break
		}
	}
	for i := range order.Assignment {
		if order.Assignment[i] != i || order.Reversed[i] {
			order.InOrder = false
		}
	}
	return &order, nil
}

// MatchStrokeOrder uses default detail level
func MatchStrokeOrder(reference, user []Stroke) (*StrokeOrder, error) {
	return NewScorerDefault().MatchStrokeOrder(reference, user)
}

func meanPairDistance(a, b Stroke) float64 {
	total := 0.0
	for i := range a {
		total += euclideanDistance(a[i], b[i])
	}
	return total / float64(len(a))
}
