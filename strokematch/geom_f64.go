package strokematch

import (
	"encoding/json"
	"image"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in the shared drawing space (origin at bottom-left, y grows upward)
type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

// NewPointFrom converts integer pointer coordinates. Caller is responsible for flipping Y axis if needed
func NewPointFrom(point image.Point) Point {
	return Point{
		X: float64(point.X),
		Y: float64(point.Y),
	}
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func pointFromVec(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// MarshalJSON encodes point as [x, y] pair (dictionary format)
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes point from [x, y] pair
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return errors.Wrap(err, "point must be encoded as [x, y]")
	}
	if len(pair) != 2 {
		return errors.Errorf("point must have exactly 2 coordinates, got %d", len(pair))
	}
	p.X = pair[0]
	p.Y = pair[1]
	return nil
}

func (p Point) isFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

func euclideanDistance(p1, p2 Point) float64 {
	return r2.Norm(r2.Sub(p1.vec(), p2.vec()))
}

// Distance returns Euclidean distance between two points. It is symmetric
func Distance(p1, p2 Point) float64 {
	return euclideanDistance(p1, p2)
}

// lerp returns the point at fraction t of the way from a to b
func lerp(a, b Point, t float64) Point {
	return pointFromVec(r2.Add(a.vec(), r2.Scale(t, r2.Sub(b.vec(), a.vec()))))
}

// Stroke is an ordered polyline. Order encodes drawing direction
type Stroke []Point

// Length returns sum of consecutive segment lengths. Length of a stroke with less than 2 points is 0
func (stroke Stroke) Length() float64 {
	length := 0.0
	for i := 1; i < len(stroke); i++ {
		length += euclideanDistance(stroke[i-1], stroke[i])
	}
	return length
}

// Reversed returns copy of the stroke drawn in opposite direction
func (stroke Stroke) Reversed() Stroke {
	reversed := make(Stroke, len(stroke))
	for i, pt := range stroke {
		reversed[len(stroke)-1-i] = pt
	}
	return reversed
}

// Clone returns a deep copy of the stroke
func (stroke Stroke) Clone() Stroke {
	cloned := make(Stroke, len(stroke))
	copy(cloned, stroke)
	return cloned
}

// Validate checks that stroke could be resampled: at least 2 finite points and non-zero length
func (stroke Stroke) Validate() error {
	if len(stroke) < 2 {
		return errors.Wrapf(ErrDegenerateStroke, "stroke has %d point(s)", len(stroke))
	}
	for i, pt := range stroke {
		if !pt.isFinite() {
			return errors.Wrapf(ErrInvalidParameters, "point #%d is not finite: %v", i, pt)
		}
	}
	length := stroke.Length()
	if !(length > 0) || math.IsInf(length, 0) {
		return errors.Wrapf(ErrDegenerateStroke, "stroke length is %v", length)
	}
	return nil
}

// StrokeLength is a shorthand for stroke.Length()
func StrokeLength(stroke Stroke) float64 {
	return stroke.Length()
}

// Character is a reference dictionary entry: identifier plus ordered skeleton strokes.
// Treat it as read-only once loaded.
type Character struct {
	ID      string   `json:"character"`
	Strokes []Stroke `json:"medians"`
}

// Validate checks every reference stroke
func (character Character) Validate() error {
	if len(character.Strokes) == 0 {
		return errors.Wrapf(ErrInvalidParameters, "character '%s' has no strokes", character.ID)
	}
	for i, stroke := range character.Strokes {
		if err := stroke.Validate(); err != nil {
			return errors.Wrapf(err, "character '%s', stroke #%d", character.ID, i)
		}
	}
	return nil
}

func cloneStrokes(strokes []Stroke) []Stroke {
	cloned := make([]Stroke, len(strokes))
	for i, stroke := range strokes {
		cloned[i] = stroke.Clone()
	}
	return cloned
}
