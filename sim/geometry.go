package sim

import "math"

// vec3 is an ECEF vector in kilometres.
type vec3 struct {
	X, Y, Z float64
}

func (v vec3) sub(other vec3) vec3 {
	return vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

func (v vec3) dot(other vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v vec3) norm() float64 {
	return math.Sqrt(v.dot(v))
}

func (v vec3) distanceTo(other vec3) float64 {
	return v.sub(other).norm()
}

// elevationDegrees returns the elevation angle of the target as seen from
// the observer: 0 at the geometric horizon, 90 overhead. Used to decide when
// the satellite is visible and the link carries an allocation at all.
func elevationDegrees(observer, target vec3) float64 {
	v := target.sub(observer)
	vNorm := v.norm()
	r := observer.norm()
	if vNorm == 0 || r == 0 {
		return 90
	}

	zenith := vec3{X: observer.X / r, Y: observer.Y / r, Z: observer.Z / r}
	cosGamma := v.dot(zenith) / vNorm
	if cosGamma > 1 {
		cosGamma = 1
	} else if cosGamma < -1 {
		cosGamma = -1
	}
	return 90.0 - math.Acos(cosGamma)*180.0/math.Pi
}
