// Package rotation builds and applies 3×3 rotation matrices over unit-sphere vectors.
//
// Matrices are mgl64.Mat3 values (column-major). They are expected to be orthogonal:
// nothing here validates that, and a non-orthogonal matrix silently produces
// non-unit vectors.
package rotation

import (
	"math"

	"github.com/akmonengine/mercator/sphere"
	"github.com/go-gl/mathgl/mgl64"
)

// AntipodalEpsilon is the smallest 1+cos(angle) for which Between uses Rodrigues' formula.
// Below it the two vectors are treated as antipodal.
const AntipodalEpsilon = 1e-12

// Identity returns the rotation that leaves every point in place
func Identity() mgl64.Mat3 {
	return mgl64.Ident3()
}

// Apply rotates the sphere point v by m
func Apply(m mgl64.Mat3, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mul3x1(v)
}

// ApplyGeo rotates g by m and converts the result back to spherical-polar angles
func ApplyGeo(m mgl64.Mat3, g sphere.GeoPoint) sphere.GeoPoint {
	return sphere.FromVector(Apply(m, sphere.ToVector(g)))
}

// Compose returns a·b: the rotation that applies b first, then a.
func Compose(a, b mgl64.Mat3) mgl64.Mat3 {
	return a.Mul3(b)
}

// Inverse returns the inverse of the rotation m, which is its transpose.
func Inverse(m mgl64.Mat3) mgl64.Mat3 {
	return m.Transpose()
}

// Between returns the minimal rotation mapping the unit vector from onto the unit vector to.
//
// With c = from·to and v = from×to the matrix is I + [v]× + [v]×²/(1+c)
// (Rodrigues' formula without extracting the axis or angle).
// When from and to are antipodal there is no unique minimal rotation: the half turn
// about an axis perpendicular to from is returned instead.
func Between(from, to mgl64.Vec3) mgl64.Mat3 {
	c := from.Dot(to)
	if 1+c < AntipodalEpsilon {
		return halfTurn(perpendicular(from))
	}

	v := from.Cross(to)
	k := skew(v)

	return mgl64.Ident3().Add(k).Add(k.Mul3(k).Mul(1 / (1 + c)))
}

// FromAngles returns the rotation about the polar axis by longDeg, followed by the
// rotation about the y axis (through the original equator at 90°) by latDeg.
// A positive latDeg moves the point at (0°, 0°) north.
func FromAngles(longDeg, latDeg float64) mgl64.Mat3 {
	return mgl64.Rotate3DY(-sphere.Radians(latDeg)).Mul3(mgl64.Rotate3DZ(sphere.Radians(longDeg)))
}

// Orthogonal reports whether m·mᵀ equals the identity within threshold
func Orthogonal(m mgl64.Mat3, threshold float64) bool {
	return m.Mul3(m.Transpose()).ApproxEqualThreshold(mgl64.Ident3(), threshold)
}

// skew returns the cross-product matrix [v]× such that [v]×·u = v×u
func skew(v mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3{
		0, v.Z(), -v.Y(),
		-v.Z(), 0, v.X(),
		v.Y(), -v.X(), 0,
	}
}

// perpendicular returns a unit vector orthogonal to v, built from the coordinate axis
// v is least aligned with
func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	axis := mgl64.Vec3{1, 0, 0}
	ax, ay, az := math.Abs(v.X()), math.Abs(v.Y()), math.Abs(v.Z())
	if ay < ax && ay <= az {
		axis = mgl64.Vec3{0, 1, 0}
	} else if az < ax && az < ay {
		axis = mgl64.Vec3{0, 0, 1}
	}

	return v.Cross(axis).Normalize()
}

// halfTurn returns the rotation by π about the unit axis a: 2·a·aᵀ - I
func halfTurn(a mgl64.Vec3) mgl64.Mat3 {
	var m mgl64.Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			m[col*3+row] = 2 * a[row] * a[col]
		}
	}

	return m.Sub(mgl64.Ident3())
}
