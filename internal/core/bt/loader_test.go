package bt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/minions/internal/core/systems/physics"
)

const wanderYAML = `
name: wander
root: main
seed: 42
blackboard:
  speed: 5
  near: 0.1
  pause: 0.2
  area: [-5, 5, 0, 0, -5, 5]
  home: {x: 1, y: 0, z: 2}
nodes:
  main:
    type: sequence
    children: [face, go, rest, pick]
  face:
    type: face_target
    params: {target_key: dest, speed_key: speed, succeed_while_rotating: true}
  go:
    type: move_to
    params: {target_key: dest, speed_key: speed, threshold_key: near}
  rest:
    type: wait
    params: {duration_key: pause}
  pick:
    type: random_point
    params: {range_key: area, point_key: dest}
`

func TestLoadYAMLAndRun(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader(wanderYAML))
	require.NoError(t, err)

	body := physics.NewBody(physics.Zero)
	tree, err := cfg.Build(nil, WithTransform(body))
	require.NoError(t, err)
	require.Equal(t, "wander", tree.Name())
	require.Equal(t, 5, tree.Len())

	home, err := Get[physics.Vec3](tree.Blackboard(), "home")
	require.NoError(t, err)
	require.Equal(t, physics.V3(1, 0, 2), home)

	require.NoError(t, tree.Activate())
	// No destination yet: the sequence fails at face and retries next tick.
	st, err := tree.Tick(dt)
	require.Equal(t, StatusFailure, st)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, tree.SetBlackboardValue("dest", physics.V3(0, 0, 0)))
	// Already there: one tick waiting, then the wait ends and a new point is picked.
	st, err = tree.Tick(dt)
	require.NoError(t, err)
	require.Equal(t, StatusRunning, st)
	st, err = tree.Tick(dt)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, st)
	dest, err := Get[physics.Vec3](tree.Blackboard(), "dest")
	require.NoError(t, err)
	require.Zero(t, dest.Y)
	require.LessOrEqual(t, dest.X, 5.0)
	require.GreaterOrEqual(t, dest.X, -5.0)
}

func TestSeededConfigIsDeterministic(t *testing.T) {
	pick := func() physics.Vec3 {
		cfg, err := LoadYAML(strings.NewReader(wanderYAML))
		require.NoError(t, err)
		cfg.Root = "pick"
		cfg.Nodes = map[string]ConfigNode{"pick": cfg.Nodes["pick"]}
		tree, err := cfg.Build(nil)
		require.NoError(t, err)
		require.NoError(t, tree.Activate())
		_, err = tree.Tick(dt)
		require.NoError(t, err)
		p, err := Get[physics.Vec3](tree.Blackboard(), "dest")
		require.NoError(t, err)
		return p
	}
	require.Equal(t, pick(), pick())
}

func TestLoadJSONWithRegistry(t *testing.T) {
	const cfgJSON = `{
  "name": "flags",
  "root": "root",
  "nodes": {
    "root": {"type": "sequence", "children": ["ready", "work"]},
    "ready": {"type": "condition", "condition": "IsTrue", "params": {"key": "ready"}},
    "work": {"type": "action", "action": "SetBool", "params": {"key": "done", "value": true}}
  },
  "blackboard": {"ready": true}
}`
	cfg, err := LoadJSON(strings.NewReader(cfgJSON))
	require.NoError(t, err)
	reg := NewRegistry()
	RegisterBuiltins(reg)

	tree, err := cfg.Build(reg)
	require.NoError(t, err)
	require.NoError(t, tree.Activate())
	st, err := tree.Tick(dt)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, st)

	done, err := Get[bool](tree.Blackboard(), "done")
	require.NoError(t, err)
	require.True(t, done)
}

func TestConfigBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want error
	}{
		{"no root", `nodes: {a: {type: sequence}}`, ErrRootNotSet},
		{"unknown type", `
root: a
nodes: {a: {type: parallel}}`, ErrUnknownNodeType},
		{"unknown action", `
root: a
nodes: {a: {type: action, action: Fly}}`, ErrUnknownNodeType},
		{"missing child", `
root: a
nodes: {a: {type: selector, children: [b]}}`, ErrMissingChild},
		{"cycle", `
root: a
nodes:
  a: {type: sequence, children: [b]}
  b: {type: sequence, children: [a]}`, ErrCycle},
		{"shared child", `
root: a
nodes:
  a: {type: sequence, children: [b, c]}
  b: {type: sequence, children: [c]}
  c: {type: check_bool, params: {key: k}}`, ErrSharedChild},
		{"unreachable", `
root: a
nodes:
  a: {type: check_bool, params: {key: k}}
  b: {type: check_bool, params: {key: k}}`, ErrUnreachable},
		{"missing param", `
root: a
nodes: {a: {type: move_to, params: {target_key: t}}}`, ErrInvalidParam},
		{"bad blackboard value", `
root: a
blackboard: {k: hello}
nodes: {a: {type: check_bool, params: {key: k}}}`, ErrUnsupportedType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadYAML(strings.NewReader(tc.yaml))
			require.NoError(t, err)
			reg := NewRegistry()
			RegisterBuiltins(reg)
			_, err = cfg.Build(reg)
			var be *BuildError
			require.ErrorAs(t, err, &be)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCoerceValue(t *testing.T) {
	v, err := coerceValue([]any{1, 2.5})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2.5}, v)

	v, err = coerceValue([]any{map[string]any{"x": 1, "y": 2, "z": 3}})
	require.NoError(t, err)
	require.Equal(t, []physics.Vec3{physics.V3(1, 2, 3)}, v)

	_, err = coerceValue(map[string]any{"x": 1, "y": 2})
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = coerceValue(map[string]any{"x": 1, "y": 2, "z": 3, "w": 4})
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestRegistryBuiltins(t *testing.T) {
	reg := NewRegistry()
	RegisterBuiltins(reg)

	n, err := reg.NewCondition("HasKey", "has", map[string]any{"key": "x"})
	require.NoError(t, err)
	bb := NewBlackboard()
	st, err := n.Tick(ctx(bb, dt, nil))
	require.NoError(t, err)
	require.Equal(t, StatusFailure, st)

	Set(bb, "x", 1.0)
	st, err = n.Tick(ctx(bb, dt, nil))
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, st)

	_, err = reg.NewAction("SetBool", "set", map[string]any{})
	require.ErrorIs(t, err, ErrInvalidParam)

	noop, err := reg.NewAction("Noop", "noop", nil)
	require.NoError(t, err)
	require.Equal(t, "noop", noop.Name())
}

func TestExprCondition(t *testing.T) {
	reg := NewRegistry()
	RegisterBuiltins(reg)

	n, err := reg.NewCondition("Expr", "fast", map[string]any{"expr": "speed > 1 && !tired"})
	require.NoError(t, err)
	bb := NewBlackboard()
	Set(bb, "speed", 2.0)
	Set(bb, "tired", false)
	st, err := n.Tick(ctx(bb, dt, nil))
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, st)

	Set(bb, "speed", 0.5)
	st, err = n.Tick(ctx(bb, dt, nil))
	require.NoError(t, err)
	require.Equal(t, StatusFailure, st)

	_, err = reg.NewCondition("Expr", "broken", map[string]any{"expr": "speed >"})
	require.ErrorIs(t, err, ErrInvalidParam)
}

func TestLoadJSONRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"not an object": `[]`,
		"no nodes":      `{"root": "a"}`,
		"node w/o type": `{"root": "a", "nodes": {"a": {"children": []}}}`,
		"unknown field": `{"root": "a", "nodes": {"a": {"type": "sequence"}}, "extra": 1}`,
		"bad children":  `{"root": "a", "nodes": {"a": {"type": "sequence", "children": [1]}}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadJSON(strings.NewReader(doc))
			require.ErrorContains(t, err, "validate tree config")
		})
	}

	_, err := LoadJSON(strings.NewReader(`{"root":`))
	require.ErrorContains(t, err, "decode tree config")
}

func TestLoadYAMLRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"misspelled children": `
root: a
nodes:
  a: {type: sequence, chilren: [b]}
  b: {type: check_bool, params: {key: k}}`,
		"unknown top-level field": `
root: a
nods: {a: {type: sequence}}`,
		"node without type": `
root: a
nodes: {a: {children: []}}`,
		"empty document": ``,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(doc))
			require.ErrorContains(t, err, "validate tree config")
		})
	}

	_, err := LoadYAML(strings.NewReader("root: [a"))
	require.ErrorContains(t, err, "decode tree config")
}
