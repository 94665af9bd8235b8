package strokematch

import "math"

// Mat2 is a 2x2 matrix in row-major order:
//
//	| A  B |
//	| C  D |
type Mat2 struct {
	A, B float64
	C, D float64
}

// IdentityMat2 returns the identity matrix
func IdentityMat2() Mat2 {
	return Mat2{A: 1, D: 1}
}

// ScaleMat2 returns diag(sx, sy)
func ScaleMat2(sx, sy float64) Mat2 {
	return Mat2{A: sx, D: sy}
}

// RotationMat2 returns counter-clockwise rotation by angle (radians)
func RotationMat2(angle float64) Mat2 {
	sin, cos := math.Sincos(angle)
	return Mat2{
		A: cos, B: -sin,
		C: sin, D: cos,
	}
}

// ShearXMat2 skews X by tan(degrees): x' = x + tan(degrees)*y
func ShearXMat2(degrees float64) Mat2 {
	return Mat2{
		A: 1, B: math.Tan(degrees * math.Pi / 180.0),
		D: 1,
	}
}

// ShearYMat2 skews Y by tan(degrees): y' = tan(degrees)*x + y
func ShearYMat2(degrees float64) Mat2 {
	return Mat2{
		A: 1,
		C: math.Tan(degrees * math.Pi / 180.0), D: 1,
	}
}

// Mul returns m * other, so that other is applied first
func (m Mat2) Mul(other Mat2) Mat2 {
	return Mat2{
		A: m.A*other.A + m.B*other.C,
		B: m.A*other.B + m.B*other.D,
		C: m.C*other.A + m.D*other.C,
		D: m.C*other.B + m.D*other.D,
	}
}

// MulVec applies matrix to a point
func (m Mat2) MulVec(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y,
		Y: m.C*p.X + m.D*p.Y,
	}
}
