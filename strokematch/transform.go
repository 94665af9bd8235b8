package strokematch

import (
	"fmt"

	"github.com/pkg/errors"
)

// Transform is a 7-parameter 2D mapping applied to reference strokes before comparison.
// It is an immutable value: search produces a new Transform per step.
type Transform struct {
	ScaleX     float64 `json:"scale_x"`
	ScaleY     float64 `json:"scale_y"`
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	// Radians
	Rotate float64 `json:"rotate"`
	// Degrees, skews X
	Slant float64 `json:"slant"`
	// Degrees, skews Y
	Tilt float64 `json:"tilt"`
}

// IdentityTransform returns transform which maps every point onto itself
func IdentityTransform() Transform {
	return Transform{
		ScaleX: 1,
		ScaleY: 1,
	}
}

// FeedbackTransform is the fixed 10 degrees tilt used when overlaying fitted reference on top of user's drawing
func FeedbackTransform() Transform {
	tr := IdentityTransform()
	tr.Tilt = 10
	return tr
}

// Validate rejects NaN and infinite parameters
func (tr Transform) Validate() error {
	params := [...]struct {
		name  string
		value float64
	}{
		{"scale_x", tr.ScaleX},
		{"scale_y", tr.ScaleY},
		{"translate_x", tr.TranslateX},
		{"translate_y", tr.TranslateY},
		{"rotate", tr.Rotate},
		{"slant", tr.Slant},
		{"tilt", tr.Tilt},
	}
	for _, param := range params {
		if !isFinite(param.value) {
			return errors.Wrapf(ErrInvalidParameters, "transform parameter '%s' is %v", param.name, param.value)
		}
	}
	return nil
}

// Matrix returns linear part of the transform.
// Order is fixed: tilt-shear first, then slant-shear, rotate, scale. Translation is not included.
func (tr Transform) Matrix() Mat2 {
	return ScaleMat2(tr.ScaleX, tr.ScaleY).
		Mul(RotationMat2(tr.Rotate)).
		Mul(ShearXMat2(tr.Slant)).
		Mul(ShearYMat2(tr.Tilt))
}

// Apply maps single point. Translation is added last, in output space
func (tr Transform) Apply(p Point) Point {
	return tr.apply(tr.Matrix(), p)
}

func (tr Transform) apply(m Mat2, p Point) Point {
	out := m.MulVec(p)
	out.X += tr.TranslateX
	out.Y += tr.TranslateY
	return out
}

// ApplyStroke maps every point of the stroke into a new stroke
func (tr Transform) ApplyStroke(stroke Stroke) Stroke {
	m := tr.Matrix()
	transformed := make(Stroke, len(stroke))
	for i, pt := range stroke {
		transformed[i] = tr.apply(m, pt)
	}
	return transformed
}

// ApplyStrokes maps every stroke. Source strokes are left untouched
func (tr Transform) ApplyStrokes(strokes []Stroke) []Stroke {
	m := tr.Matrix()
	transformed := make([]Stroke, len(strokes))
	for s, stroke := range strokes {
		out := make(Stroke, len(stroke))
		for i, pt := range stroke {
			out[i] = tr.apply(m, pt)
		}
		transformed[s] = out
	}
	return transformed
}

func (tr Transform) String() string {
	return fmt.Sprintf("scale=(%.4f, %.4f) translate=(%.2f, %.2f) rotate=%.4frad slant=%.2fdeg tilt=%.2fdeg",
		tr.ScaleX, tr.ScaleY, tr.TranslateX, tr.TranslateY, tr.Rotate, tr.Slant, tr.Tilt)
}

// Apply maps point with given transform
func Apply(p Point, tr Transform) Point {
	return tr.Apply(p)
}
