package physics

import "math"

// Lightweight 3D math for agent movement and orientation.
// Axes follow a left-handed, Y-up convention: +Z is forward, +Y is up.

const epsilon = 1e-9

// Vec3 is a 3D vector.
type Vec3 struct{ X, Y, Z float64 }

var (
	Zero    = Vec3{}
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
	Right   = Vec3{X: 1}
)

// V3 is a shortcut constructor.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3         { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3         { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3    { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64      { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64         { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Length() }

// Cross returns the cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Normalized returns the unit vector of v, or Zero when v has no length.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < epsilon {
		return Zero
	}
	return v.Scale(1 / l)
}

// Lerp moves from a towards b by fraction t, clamped to [0, 1].
// The result never passes b.
func Lerp(a, b Vec3, t float64) Vec3 {
	t = Clamp01(t)
	return a.Add(b.Sub(a).Scale(t))
}

// Clamp01 clamps t to [0, 1].
func Clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

// Quat is a rotation quaternion.
type Quat struct{ X, Y, Z, W float64 }

// Identity is the rotation that does nothing.
var Identity = Quat{W: 1}

func (q Quat) Dot(o Quat) float64 { return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W }

// Normalized returns q scaled to unit length. A zero quaternion becomes Identity.
func (q Quat) Normalized() Quat {
	l := math.Sqrt(q.Dot(q))
	if l < epsilon {
		return Identity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Forward is the direction +Z points to after applying q.
func (q Quat) Forward() Vec3 { return q.Rotate(Forward) }

// LookRotation returns the rotation whose forward axis points along dir and
// whose up axis is as close to up as possible. A zero dir yields Identity.
func LookRotation(dir, up Vec3) Quat {
	f := dir.Normalized()
	if f == Zero {
		return Identity
	}
	r := up.Cross(f).Normalized()
	if r == Zero {
		// dir is parallel to up; pick any perpendicular right axis.
		r = Right.Cross(f).Cross(f).Normalized()
		if r == Zero {
			r = Right
		}
	}
	u := f.Cross(r)

	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	var q Quat
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = Quat{W: 0.25 * s, X: (m21 - m12) / s, Y: (m02 - m20) / s, Z: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = Quat{W: (m21 - m12) / s, X: 0.25 * s, Y: (m01 + m10) / s, Z: (m02 + m20) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = Quat{W: (m02 - m20) / s, X: (m01 + m10) / s, Y: 0.25 * s, Z: (m12 + m21) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = Quat{W: (m10 - m01) / s, X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: 0.25 * s}
	}
	return q.Normalized()
}

// Slerp interpolates from a to b by t (clamped to [0, 1]) along the shortest arc.
func Slerp(a, b Quat, t float64) Quat {
	t = Clamp01(t)
	d := a.Dot(b)
	if d < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
		d = -d
	}
	if d > 0.9995 {
		return Quat{
			a.X + (b.X-a.X)*t,
			a.Y + (b.Y-a.Y)*t,
			a.Z + (b.Z-a.Z)*t,
			a.W + (b.W-a.W)*t,
		}.Normalized()
	}
	theta0 := math.Acos(d)
	theta := theta0 * t
	s0 := math.Cos(theta) - d*math.Sin(theta)/math.Sin(theta0)
	s1 := math.Sin(theta) / math.Sin(theta0)
	return Quat{
		a.X*s0 + b.X*s1,
		a.Y*s0 + b.Y*s1,
		a.Z*s0 + b.Z*s1,
		a.W*s0 + b.W*s1,
	}.Normalized()
}

// Angle returns the angle in degrees between two rotations.
func Angle(a, b Quat) float64 {
	d := math.Abs(a.Normalized().Dot(b.Normalized()))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d) * 180 / math.Pi
}
