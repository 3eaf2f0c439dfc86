// Package vector provides the Cartesian and spherical value types shared by
// every body-position engine and the observation pipeline: Vector3 and
// StateVector carry the time they are valid at; TerseVector and
// RotationMatrix are the bare numeric forms used in tight inner loops (the
// Pluto segment integrator, frame rotations).
package vector

import "math"

// KmPerAU is the IAU astronomical unit in km.
const KmPerAU = 1.4959787069098932e8

// Vector3 is a Cartesian position in AU, valid at a specific time.
//
// Time is stored as TT days since J2000 so that callers can compare two
// vectors' validity without importing astrotime (which itself depends on
// nothing — this avoids a cycle while keeping the invariant that each
// vector carries the AstroTime at which it is valid.
type Vector3 struct {
	X, Y, Z float64
	TT      float64
}

// StateVector adds velocity (AU/day) to a Vector3.
type StateVector struct {
	X, Y, Z    float64
	VX, VY, VZ float64
	TT         float64
}

// TerseVector is a bare 3-vector with no attached time, for inner loops
// (gravity integration, frame rotation) where allocating a time stamp per
// intermediate value would be wasteful.
type TerseVector [3]float64

// RotationMatrix is a 3x3 rotation applied by premultiplication to column
// vectors (Apply computes R·v). Compose(a, b) is the matrix product a·b,
// which applies b first and then a.
type RotationMatrix [3][3]float64

// Identity returns the 3x3 identity rotation.
func Identity() RotationMatrix {
	return RotationMatrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Apply rotates v by r: r.Apply(v) = R*v.
func (r RotationMatrix) Apply(v TerseVector) TerseVector {
	return TerseVector{
		r[0][0]*v[0] + r[0][1]*v[1] + r[0][2]*v[2],
		r[1][0]*v[0] + r[1][1]*v[1] + r[1][2]*v[2],
		r[2][0]*v[0] + r[2][1]*v[1] + r[2][2]*v[2],
	}
}

// Transpose returns R^T, which for an orthonormal rotation matrix is its
// inverse (R·Rᵀ = I).
func (r RotationMatrix) Transpose() RotationMatrix {
	var out RotationMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[j][i]
		}
	}
	return out
}

// Compose returns the rotation that applies b first, then a:
// Compose(a, b).Apply(v) == a.Apply(b.Apply(v)).
func Compose(a, b RotationMatrix) RotationMatrix {
	var out RotationMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// Spherical is (lat, lon, dist): lat in [-90,90], lon in
// [0,360), dist > 0.
type Spherical struct {
	LatDeg, LonDeg, Dist float64
}

// FromSpherical converts (lat, lon, dist) to a Cartesian TerseVector.
func FromSpherical(s Spherical) TerseVector {
	lat := s.LatDeg * Deg2Rad
	lon := s.LonDeg * Deg2Rad
	cosLat := math.Cos(lat)
	return TerseVector{
		s.Dist * cosLat * math.Cos(lon),
		s.Dist * cosLat * math.Sin(lon),
		s.Dist * math.Sin(lat),
	}
}

// ToSpherical converts a Cartesian TerseVector to (lat, lon, dist).
func ToSpherical(v TerseVector) Spherical {
	dist := Length(v)
	if dist == 0 {
		return Spherical{}
	}
	lat := math.Asin(v[2]/dist) * Rad2Deg
	lon := math.Mod(math.Atan2(v[1], v[0])*Rad2Deg+360.0, 360.0)
	return Spherical{LatDeg: lat, LonDeg: lon, Dist: dist}
}

const (
	Deg2Rad = math.Pi / 180.0
	Rad2Deg = 180.0 / math.Pi
)

func Dot(a, b TerseVector) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func Length(a TerseVector) float64 {
	return math.Sqrt(Dot(a, a))
}

func Scale(s float64, a TerseVector) TerseVector {
	return TerseVector{s * a[0], s * a[1], s * a[2]}
}

func Sub(a, b TerseVector) TerseVector {
	return TerseVector{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func Add(a, b TerseVector) TerseVector {
	return TerseVector{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func Cross(a, b TerseVector) TerseVector {
	return TerseVector{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Terse strips the time field from a Vector3.
func (v Vector3) Terse() TerseVector { return TerseVector{v.X, v.Y, v.Z} }

// Terse strips the time field and velocity from a StateVector, returning
// the position only.
func (s StateVector) Terse() TerseVector { return TerseVector{s.X, s.Y, s.Z} }

// VelTerse returns the velocity component of a StateVector.
func (s StateVector) VelTerse() TerseVector { return TerseVector{s.VX, s.VY, s.VZ} }

// WithTerse builds a Vector3 from a TerseVector at the given time.
func WithTerse(v TerseVector, tt float64) Vector3 {
	return Vector3{X: v[0], Y: v[1], Z: v[2], TT: tt}
}

// Separation returns the angular separation in degrees between two vectors,
// via Kahan's numerically stable formula (grounded on coord.SeparationAngle).
func Separation(a, b TerseVector) float64 {
	lenA := Length(a)
	lenB := Length(b)
	if lenA == 0 || lenB == 0 {
		return 0
	}
	u := Scale(lenB, a)
	v := Scale(lenA, b)
	diff := Sub(u, v)
	sum := Add(u, v)
	return 2.0 * math.Atan2(Length(diff), Length(sum)) * Rad2Deg
}
