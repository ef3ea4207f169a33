package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLerpClampsAndNeverOvershoots(t *testing.T) {
	a, b := V3(0, 0, 0), V3(10, 0, 0)

	require.Equal(t, V3(5, 0, 0), Lerp(a, b, 0.5))
	require.Equal(t, b, Lerp(a, b, 3))
	require.Equal(t, a, Lerp(a, b, -1))
}

func TestLookRotationForwardMatchesDirection(t *testing.T) {
	dirs := []Vec3{
		V3(0, 0, 1),
		V3(1, 0, 0),
		V3(-1, 0, 0),
		V3(0, 0, -1),
		V3(1, 2, 3),
		V3(0, 1, 0),
	}
	for _, d := range dirs {
		q := LookRotation(d, Up)
		got := q.Forward()
		want := d.Normalized()
		require.InDelta(t, want.X, got.X, 1e-9, "dir %v", d)
		require.InDelta(t, want.Y, got.Y, 1e-9, "dir %v", d)
		require.InDelta(t, want.Z, got.Z, 1e-9, "dir %v", d)
	}
	require.Equal(t, Identity, LookRotation(Zero, Up))
}

func TestSlerpTakesShortestArc(t *testing.T) {
	from := Identity
	to := LookRotation(V3(1, 0, 0), Up) // 90 degrees about Y

	require.InDelta(t, 90, Angle(from, to), 1e-9)

	half := Slerp(from, to, 0.5)
	require.InDelta(t, 45, Angle(from, half), 1e-6)
	require.InDelta(t, 45, Angle(half, to), 1e-6)

	// The negated quaternion is the same rotation; interpolation must not go the long way.
	neg := Quat{-to.X, -to.Y, -to.Z, -to.W}
	require.InDelta(t, 45, Angle(from, Slerp(from, neg, 0.5)), 1e-6)

	require.InDelta(t, 0, Angle(to, Slerp(from, to, 1)), 1e-6)
}

func TestAngleOfIdenticalRotationsIsZero(t *testing.T) {
	q := LookRotation(V3(3, -1, 2), Up)
	require.InDelta(t, 0, Angle(q, q), 1e-6)
	require.False(t, math.IsNaN(Angle(q, q)))
}

func TestBodyImplementsTransform(t *testing.T) {
	var tr Transform = NewBody(V3(1, 2, 3))
	require.Equal(t, V3(1, 2, 3), tr.Position())
	require.Equal(t, Identity, tr.Rotation())

	tr.SetPosition(Zero)
	require.Equal(t, Zero, tr.Position())
}
