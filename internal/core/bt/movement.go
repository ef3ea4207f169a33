package bt

import "github.com/zeusync/minions/internal/core/systems/physics"

// MoveTo moves the tick transform toward a target position. Each tick covers
// the fraction speed*dt of the remaining distance, clamped to [0, 1], so the
// agent never overshoots. It returns Running until it is within the arrival
// threshold.
type MoveTo struct {
	BaseNode
	targetKey    Key[physics.Vec3]
	speedKey     Key[float64]
	thresholdKey Key[float64]
}

func NewMoveTo(name, targetKey, speedKey, thresholdKey string) *MoveTo {
	return &MoveTo{
		BaseNode:     NewBaseNode(name),
		targetKey:    NewKey[physics.Vec3](targetKey),
		speedKey:     NewKey[float64](speedKey),
		thresholdKey: NewKey[float64](thresholdKey),
	}
}

func (m *MoveTo) Tick(t *TickContext) (Status, error) {
	if t.Transform == nil {
		return StatusFailure, ErrNoTransform
	}
	target, err := m.targetKey.Get(t.BB)
	if err != nil {
		return StatusFailure, err
	}
	speed, err := m.speedKey.Get(t.BB)
	if err != nil {
		return StatusFailure, err
	}
	threshold, err := m.thresholdKey.Get(t.BB)
	if err != nil {
		return StatusFailure, err
	}

	pos := physics.Lerp(t.Transform.Position(), target, speed*t.Seconds())
	t.Transform.SetPosition(pos)
	if pos.Distance(target) <= threshold {
		return StatusSuccess, nil
	}
	return StatusRunning, nil
}

func (m *MoveTo) Bindings() []Binding {
	return []Binding{m.targetKey.Binding(), m.speedKey.Binding(), m.thresholdKey.Binding()}
}

func (m *MoveTo) Validate() error {
	return requireKeys(m.targetKey.Name(), m.speedKey.Name(), m.thresholdKey.Name())
}

// FaceTarget rotates a transform toward a target point along the shortest arc.
//
// With SucceedWhileRotating set it succeeds every tick, so a Sequence can keep
// moving while the turn completes. Otherwise it returns Running until the
// angle left is within the threshold key, in degrees. FaceImmediately snaps
// to the target orientation and needs no speed key.
type FaceTarget struct {
	BaseNode
	SucceedWhileRotating bool
	FaceImmediately      bool

	targetKey    Key[physics.Vec3]
	speedKey     Key[float64]
	thresholdKey Key[float64]
	transform    physics.Transform
}

func NewFaceTarget(name, targetKey, speedKey, thresholdKey string) *FaceTarget {
	return &FaceTarget{
		BaseNode:     NewBaseNode(name),
		targetKey:    NewKey[physics.Vec3](targetKey),
		speedKey:     NewKey[float64](speedKey),
		thresholdKey: NewKey[float64](thresholdKey),
	}
}

// WithTransform makes the node rotate tr instead of the tick transform.
func (f *FaceTarget) WithTransform(tr physics.Transform) *FaceTarget {
	f.transform = tr
	return f
}

func (f *FaceTarget) Tick(t *TickContext) (Status, error) {
	tr := f.transform
	if tr == nil {
		tr = t.Transform
	}
	if tr == nil {
		return StatusFailure, ErrNoTransform
	}
	target, err := f.targetKey.Get(t.BB)
	if err != nil {
		return StatusFailure, err
	}
	var speed, threshold float64
	if !f.FaceImmediately {
		if speed, err = f.speedKey.Get(t.BB); err != nil {
			return StatusFailure, err
		}
	}
	if !f.SucceedWhileRotating {
		if threshold, err = f.thresholdKey.Get(t.BB); err != nil {
			return StatusFailure, err
		}
	}

	dir := target.Sub(tr.Position())
	if dir.Length() < 1e-9 {
		return StatusSuccess, nil
	}
	want := physics.LookRotation(dir, physics.Up)
	rot := want
	if !f.FaceImmediately {
		rot = physics.Slerp(tr.Rotation(), want, physics.Clamp01(speed*t.Seconds()))
	}
	tr.SetRotation(rot)

	if f.SucceedWhileRotating || physics.Angle(rot, want) <= threshold {
		return StatusSuccess, nil
	}
	return StatusRunning, nil
}

func (f *FaceTarget) Bindings() []Binding {
	b := []Binding{f.targetKey.Binding()}
	if !f.FaceImmediately {
		b = append(b, f.speedKey.Binding())
	}
	if !f.SucceedWhileRotating {
		b = append(b, f.thresholdKey.Binding())
	}
	return b
}

func (f *FaceTarget) Validate() error {
	keys := []string{f.targetKey.Name()}
	if !f.FaceImmediately {
		keys = append(keys, f.speedKey.Name())
	}
	if !f.SucceedWhileRotating {
		keys = append(keys, f.thresholdKey.Name())
	}
	return requireKeys(keys...)
}
