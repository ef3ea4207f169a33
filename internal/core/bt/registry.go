package bt

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
)

// Factory creates a leaf named name from config params.
type Factory func(name string, params map[string]any) (Node, error)

// Registry maps action and condition names used in configs to factories.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	acts  map[string]Factory
	conds map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		acts:  make(map[string]Factory),
		conds: make(map[string]Factory),
	}
}

func (r *Registry) RegisterAction(name string, f Factory) {
	r.mu.Lock()
	r.acts[name] = f
	r.mu.Unlock()
}

func (r *Registry) RegisterCondition(name string, f Factory) {
	r.mu.Lock()
	r.conds[name] = f
	r.mu.Unlock()
}

// NewAction instantiates the action registered as kind.
func (r *Registry) NewAction(kind, name string, params map[string]any) (Node, error) {
	r.mu.RLock()
	f := r.acts[kind]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: action %q", ErrUnknownNodeType, kind)
	}
	return f(name, params)
}

// NewCondition instantiates the condition registered as kind.
func (r *Registry) NewCondition(kind, name string, params map[string]any) (Node, error) {
	r.mu.RLock()
	f := r.conds[kind]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: condition %q", ErrUnknownNodeType, kind)
	}
	return f(name, params)
}

// RegisterBuiltins registers the generic leaves configs can use without any
// game code: actions SetBool and Noop, conditions HasKey, IsTrue and Expr.
func RegisterBuiltins(r *Registry) {
	r.RegisterAction("SetBool", func(name string, params map[string]any) (Node, error) {
		key, err := paramString(params, "key")
		if err != nil {
			return nil, err
		}
		val, err := paramBool(params, "value", false)
		if err != nil {
			return nil, err
		}
		flag := NewKey[bool](key)
		return NewAction(name, func(t *TickContext) (Status, error) {
			flag.Set(t.BB, val)
			return StatusSuccess, nil
		}), nil
	})
	r.RegisterAction("Noop", func(name string, _ map[string]any) (Node, error) {
		return NewAction(name, func(*TickContext) (Status, error) { return StatusSuccess, nil }), nil
	})

	r.RegisterCondition("HasKey", func(name string, params map[string]any) (Node, error) {
		key, err := paramString(params, "key")
		if err != nil {
			return nil, err
		}
		return NewCondition(name, func(t *TickContext) (bool, error) { return t.BB.Has(key), nil }), nil
	})
	// IsTrue treats a missing key as false, unlike check_bool.
	r.RegisterCondition("IsTrue", func(name string, params map[string]any) (Node, error) {
		key, err := paramString(params, "key")
		if err != nil {
			return nil, err
		}
		return NewCondition(name, func(t *TickContext) (bool, error) {
			v, err := Get[bool](t.BB, key)
			return err == nil && v, nil
		}), nil
	})

	// Expr evaluates a boolean expression over a snapshot of the blackboard,
	// for example "MoveSpeed > 1 && !Attacking".
	r.RegisterCondition("Expr", func(name string, params map[string]any) (Node, error) {
		code, err := paramString(params, "expr")
		if err != nil {
			return nil, err
		}
		program, err := expr.Compile(code, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("%w: expr %q: %w", ErrInvalidParam, code, err)
		}
		return NewCondition(name, func(t *TickContext) (bool, error) {
			out, err := expr.Run(program, t.BB.Snapshot())
			if err != nil {
				return false, fmt.Errorf("expr %q: %w", code, err)
			}
			ok, _ := out.(bool)
			return ok, nil
		}), nil
	})
}
