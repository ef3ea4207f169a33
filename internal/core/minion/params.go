package minion

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidParams = errors.New("invalid minion params")

// Params tunes a minion and its behavior tree. Speeds are fractions of the
// remaining distance or angle covered per second.
type Params struct {
	MoveSpeed            float64       `yaml:"move_speed"`
	MoveThreshold        float64       `yaml:"move_threshold"`
	RotationSpeed        float64       `yaml:"rotation_speed"`
	RotationThreshold    float64       `yaml:"rotation_threshold"`
	WaitTime             float64       `yaml:"wait_time"`
	Range                []float64     `yaml:"range"`
	DetectionRange       float64       `yaml:"detection_range"`
	AttackSpeed          float64       `yaml:"attack_speed"`
	AttackDistance       float64       `yaml:"attack_distance"`
	AttackDamage         int64         `yaml:"attack_damage"`
	AttackCooldown       time.Duration `yaml:"attack_cooldown"`
	ArmRotationSpeed     float64       `yaml:"arm_rotation_speed"`
	ArmRotationThreshold float64       `yaml:"arm_rotation_threshold"`
	MaxHealth            int64         `yaml:"max_health"`
	MaxHands             int           `yaml:"max_hands"`
}

// DefaultParams returns the tuning used when no config overrides it.
func DefaultParams() Params {
	return Params{
		MoveSpeed:            2,
		MoveThreshold:        0.1,
		RotationSpeed:        4,
		RotationThreshold:    2,
		WaitTime:             2,
		Range:                []float64{-10, 10, 0, 0, -10, 10},
		DetectionRange:       3,
		AttackSpeed:          4,
		AttackDistance:       0.75,
		AttackDamage:         10,
		AttackCooldown:       time.Second,
		ArmRotationSpeed:     8,
		ArmRotationThreshold: 5,
		MaxHealth:            100,
		MaxHands:             2,
	}
}

func (p Params) Validate() error {
	if len(p.Range) != 6 {
		return fmt.Errorf("%w: range has %d values, want 6", ErrInvalidParams, len(p.Range))
	}
	for i := 0; i < 6; i += 2 {
		if p.Range[i] > p.Range[i+1] {
			return fmt.Errorf("%w: range axis %d has min %v above max %v", ErrInvalidParams, i/2, p.Range[i], p.Range[i+1])
		}
	}
	switch {
	case p.MoveSpeed <= 0, p.AttackSpeed <= 0:
		return fmt.Errorf("%w: speeds must be positive", ErrInvalidParams)
	case p.MaxHealth <= 0:
		return fmt.Errorf("%w: max_health must be positive", ErrInvalidParams)
	case p.MaxHands < 1:
		return fmt.Errorf("%w: max_hands must be at least 1", ErrInvalidParams)
	case p.WaitTime < 0, math.IsNaN(p.WaitTime), p.AttackCooldown < 0:
		return fmt.Errorf("%w: wait_time and attack_cooldown must not be negative", ErrInvalidParams)
	}
	return nil
}
