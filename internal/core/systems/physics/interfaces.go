package physics

// Transform is the spatial state a behavior node may read and move.
// Implementations are owned by the agent that drives the tree.
type Transform interface {
	Position() Vec3
	SetPosition(p Vec3)
	Rotation() Quat
	SetRotation(q Quat)
}

// Body is a plain Transform value holder.
type Body struct {
	Pos Vec3
	Rot Quat
}

// NewBody returns a body at p facing +Z.
func NewBody(p Vec3) *Body { return &Body{Pos: p, Rot: Identity} }

func (b *Body) Position() Vec3     { return b.Pos }
func (b *Body) SetPosition(p Vec3) { b.Pos = p }
func (b *Body) Rotation() Quat     { return b.Rot }
func (b *Body) SetRotation(q Quat) { b.Rot = q }
