package bt

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/minions/internal/core/systems/physics"
)

// Config describes a tree in JSON or YAML: a root, named nodes and initial
// blackboard values.
//
//	name: wander
//	root: main
//	blackboard:
//	  speed: 2
//	  area: [-5, 5, 0, 0, -5, 5]
//	nodes:
//	  main: {type: sequence, children: [pick, go]}
//	  pick: {type: random_point, params: {range_key: area, point_key: dest}}
//	  go:   {type: move_to, params: {target_key: dest, speed_key: speed, threshold_key: near}}
type Config struct {
	Name       string                `json:"name" yaml:"name"`
	Root       string                `json:"root" yaml:"root"`
	Seed       *int64                `json:"seed,omitempty" yaml:"seed,omitempty"`
	Nodes      map[string]ConfigNode `json:"nodes" yaml:"nodes"`
	Blackboard map[string]any        `json:"blackboard,omitempty" yaml:"blackboard,omitempty"`
}

type ConfigNode struct {
	Type      string         `json:"type" yaml:"type"`
	Children  []string       `json:"children,omitempty" yaml:"children,omitempty"`
	Action    string         `json:"action,omitempty" yaml:"action,omitempty"`
	Condition string         `json:"condition,omitempty" yaml:"condition,omitempty"`
	Params    map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

//go:embed tree.schema.json
var treeSchemaJSON string

var treeSchema = jsonschema.MustCompileString("tree.schema.json", treeSchemaJSON)

// LoadJSON loads config from JSON reader. The document is checked against
// the tree config schema before it is decoded.
func LoadJSON(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tree config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tree config: %w", err)
	}
	if err := treeSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate tree config: %w", err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode tree config: %w", err)
	}
	return &c, nil
}

// LoadYAML loads config from YAML reader. The document is checked against
// the same schema as LoadJSON, so misspelled fields are rejected.
func LoadYAML(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tree config: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tree config: %w", err)
	}
	// Round trip through JSON so the validator sees JSON types only.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("decode tree config: %w", err)
	}
	var norm any
	if err := json.Unmarshal(raw, &norm); err != nil {
		return nil, fmt.Errorf("decode tree config: %w", err)
	}
	if err := treeSchema.Validate(norm); err != nil {
		return nil, fmt.Errorf("validate tree config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode tree config: %w", err)
	}
	return &c, nil
}

// Build builds the configured tree. Leaves of type action and condition are
// looked up in reg, which may be nil when the config uses none.
func (c *Config) Build(reg *Registry, opts ...Option) (*Tree, error) {
	return NewTree(c.Name, c.Definition(reg), opts...)
}

// Definition returns a Definition that wires the configured nodes.
func (c *Config) Definition(reg *Registry) Definition {
	return DefinitionFunc(func(b *Builder) error { return c.wire(b, reg) })
}

func (c *Config) wire(b *Builder, reg *Registry) error {
	if c.Root == "" {
		return &BuildError{Tree: c.Name, Err: ErrRootNotSet}
	}
	keys := make([]string, 0, len(c.Blackboard))
	for k := range c.Blackboard {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := coerceValue(c.Blackboard[k])
		if err != nil {
			return &BuildError{Tree: c.Name, Err: fmt.Errorf("blackboard %q: %w", k, err)}
		}
		b.Set(k, v)
	}

	created := make(map[string]NodeID, len(c.Nodes))
	building := make(map[string]bool)
	var build func(name string) (NodeID, error)
	build = func(name string) (NodeID, error) {
		if id, ok := created[name]; ok {
			return id, nil
		}
		if building[name] {
			return NoNode, &BuildError{Tree: c.Name, Node: name, Err: ErrCycle}
		}
		nc, ok := c.Nodes[name]
		if !ok {
			return NoNode, &BuildError{Tree: c.Name, Node: name, Err: ErrMissingChild}
		}
		building[name] = true
		defer delete(building, name)

		var n Node
		var err error
		switch nc.Type {
		case "sequence", "selector":
			ids := make([]NodeID, 0, len(nc.Children))
			for _, ch := range nc.Children {
				id, err := build(ch)
				if err != nil {
					return NoNode, err
				}
				ids = append(ids, id)
			}
			if nc.Type == "sequence" {
				n = NewSequence(name, ids...)
			} else {
				n = NewSelector(name, ids...)
			}
		case "action", "condition":
			if reg == nil {
				return NoNode, &BuildError{Tree: c.Name, Node: name, Err: fmt.Errorf("%w: no registry for %s", ErrUnknownNodeType, nc.Type)}
			}
			if nc.Type == "action" {
				n, err = reg.NewAction(nc.Action, name, nc.Params)
			} else {
				n, err = reg.NewCondition(nc.Condition, name, nc.Params)
			}
		default:
			n, err = c.leaf(name, nc)
		}
		if err != nil {
			return NoNode, &BuildError{Tree: c.Name, Node: name, Err: err}
		}
		id := b.Add(n)
		created[name] = id
		return id, nil
	}

	root, err := build(c.Root)
	if err != nil {
		return err
	}
	b.SetRoot(root)

	// Nodes not reachable from the root are still added so the builder
	// reports them.
	names := make([]string, 0, len(c.Nodes))
	for name := range c.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := build(name); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) leaf(name string, nc ConfigNode) (Node, error) {
	p := nc.Params
	switch nc.Type {
	case "wait":
		key, err := paramString(p, "duration_key")
		if err != nil {
			return nil, err
		}
		return NewWait(name, key), nil
	case "check_bool":
		key, err := paramString(p, "key")
		if err != nil {
			return nil, err
		}
		return NewCheckBool(name, key), nil
	case "random_point":
		rk, err := paramString(p, "range_key")
		if err != nil {
			return nil, err
		}
		pk, err := paramString(p, "point_key")
		if err != nil {
			return nil, err
		}
		return NewGetRandomPoint(name, rk, pk, c.rng(name)), nil
	case "move_to":
		keys, err := paramStrings(p, "target_key", "speed_key", "threshold_key")
		if err != nil {
			return nil, err
		}
		return NewMoveTo(name, keys[0], keys[1], keys[2]), nil
	case "face_target":
		f := NewFaceTarget(name, "", "", "")
		var err error
		if f.SucceedWhileRotating, err = paramBool(p, "succeed_while_rotating", false); err != nil {
			return nil, err
		}
		if f.FaceImmediately, err = paramBool(p, "face_immediately", false); err != nil {
			return nil, err
		}
		if f.targetKey.name, err = paramString(p, "target_key"); err != nil {
			return nil, err
		}
		if !f.FaceImmediately {
			if f.speedKey.name, err = paramString(p, "speed_key"); err != nil {
				return nil, err
			}
		}
		if !f.SucceedWhileRotating {
			if f.thresholdKey.name, err = paramString(p, "threshold_key"); err != nil {
				return nil, err
			}
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, nc.Type)
	}
}

// rng returns nil without a seed so the leaf seeds itself from the clock.
func (c *Config) rng(node string) *rand.Rand {
	if c.Seed == nil {
		return nil
	}
	return rand.New(rand.NewSource(*c.Seed ^ int64(xxhash.Sum64String(c.Name+"/"+node))))
}

func paramString(p map[string]any, key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrInvalidParam, key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %q must be a non-empty string", ErrInvalidParam, key)
	}
	return s, nil
}

func paramStrings(p map[string]any, keys ...string) ([]string, error) {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		s, err := paramString(p, k)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func paramBool(p map[string]any, key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q must be a bool", ErrInvalidParam, key)
	}
	return b, nil
}

// coerceValue turns decoded JSON or YAML into a blackboard value: numbers
// become float64, {x, y, z} maps become Vec3 and lists become []float64 or
// []Vec3.
func coerceValue(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case map[string]any:
		return coerceVec(x)
	case []any:
		if len(x) == 0 {
			return []float64{}, nil
		}
		if _, isMap := x[0].(map[string]any); isMap {
			out := make([]physics.Vec3, 0, len(x))
			for _, e := range x {
				m, ok := e.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("%w: mixed list", ErrUnsupportedType)
				}
				vec, err := coerceVec(m)
				if err != nil {
					return nil, err
				}
				out = append(out, vec)
			}
			return out, nil
		}
		out := make([]float64, 0, len(x))
		for _, e := range x {
			f, ok := toFloat(e)
			if !ok {
				return nil, fmt.Errorf("%w: list element %T", ErrUnsupportedType, e)
			}
			out = append(out, f)
		}
		return out, nil
	}
	if f, ok := toFloat(v); ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

func coerceVec(m map[string]any) (physics.Vec3, error) {
	var out [3]float64
	for i, axis := range []string{"x", "y", "z"} {
		f, ok := toFloat(m[axis])
		if !ok {
			return physics.Vec3{}, fmt.Errorf("%w: vector needs numeric %q", ErrUnsupportedType, axis)
		}
		out[i] = f
	}
	for k := range m {
		if !slices.Contains([]string{"x", "y", "z"}, k) {
			return physics.Vec3{}, fmt.Errorf("%w: vector has extra field %q", ErrUnsupportedType, k)
		}
	}
	return physics.V3(out[0], out[1], out[2]), nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
