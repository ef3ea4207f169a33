package minion

import (
	"math/rand"

	"github.com/zeusync/minions/internal/core/bt"
	"github.com/zeusync/minions/internal/core/systems/physics"
)

// Blackboard keys used by the basic minion tree.
const (
	KeyMoveTarget           = "MoveTarget"
	KeyMoveSpeed            = "MoveSpeed"
	KeyMoveThreshold        = "MoveThreshold"
	KeyRotationSpeed        = "RotationSpeed"
	KeyRotationThreshold    = "RotationThreshold"
	KeyRange                = "MinMaxRange"
	KeyWait                 = "WaitTime"
	KeyAttacking            = "Attacking"
	KeyAttackTarget         = "AttackTarget"
	KeyAttackSpeed          = "AttackSpeed"
	KeyAttackDistance       = "AttackDistance"
	KeyArmRotationSpeed     = "ArmRotationSpeed"
	KeyArmRotationThreshold = "ArmRotationThreshold"
)

// BasicBehavior is the Definition of the basic minion tree:
//
//	Selector
//	├── Sequence attack: CheckBool(Attacking), FaceTarget(arm), MoveTo(AttackTarget), Attack
//	└── Sequence wander: FaceTarget(body), MoveTo(MoveTarget), Wait, GetRandomPoint
//
// The wander branch starts toward a random point inside Params.Range.
type BasicBehavior struct {
	Params Params
	// Arm is rotated toward the attack target; nil rotates the body instead.
	Arm    physics.Transform
	Rng    *rand.Rand
	Attack func(t *bt.TickContext) (bt.Status, error)
}

func (d BasicBehavior) BuildTree(b *bt.Builder) error {
	p := d.Params
	if err := p.Validate(); err != nil {
		return err
	}

	b.Set(KeyMoveSpeed, p.MoveSpeed)
	b.Set(KeyMoveThreshold, p.MoveThreshold)
	b.Set(KeyRotationSpeed, p.RotationSpeed)
	b.Set(KeyRotationThreshold, p.RotationThreshold)
	b.Set(KeyRange, p.Range)
	b.Set(KeyWait, p.WaitTime)
	b.Set(KeyAttacking, false)
	b.Set(KeyAttackSpeed, p.AttackSpeed)
	b.Set(KeyAttackDistance, p.AttackDistance)
	b.Set(KeyArmRotationSpeed, p.ArmRotationSpeed)
	b.Set(KeyArmRotationThreshold, p.ArmRotationThreshold)
	b.Set(KeyMoveTarget, bt.RandomPointIn(d.Rng, p.Range))

	attack := d.Attack
	if attack == nil {
		attack = func(*bt.TickContext) (bt.Status, error) { return bt.StatusFailure, nil }
	}

	aim := bt.NewFaceTarget("AimArm", KeyAttackTarget, KeyArmRotationSpeed, KeyArmRotationThreshold)
	aim.SucceedWhileRotating = true
	if d.Arm != nil {
		aim.WithTransform(d.Arm)
	}
	attackSeq := b.Sequence("Attack",
		b.Add(bt.NewCheckBool("IsAttacking", KeyAttacking)),
		b.Add(aim),
		b.Add(bt.NewMoveTo("Charge", KeyAttackTarget, KeyAttackSpeed, KeyAttackDistance)),
		b.Add(bt.NewAction("Strike", attack)),
	)

	face := bt.NewFaceTarget("Face", KeyMoveTarget, KeyRotationSpeed, KeyRotationThreshold)
	face.SucceedWhileRotating = true
	wanderSeq := b.Sequence("Wander",
		b.Add(face),
		b.Add(bt.NewMoveTo("Move", KeyMoveTarget, KeyMoveSpeed, KeyMoveThreshold)),
		b.Add(bt.NewWait("Rest", KeyWait)),
		b.Add(bt.NewGetRandomPoint("PickPoint", KeyRange, KeyMoveTarget, d.Rng)),
	)

	b.SetRoot(b.Selector("Root", attackSeq, wanderSeq))
	return nil
}
