package bt

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/zeusync/minions/internal/core/systems/physics"
)

// Kind tags the type of a blackboard value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFloat
	KindBool
	KindVec3
	KindFloats
	KindVecs
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindVec3:
		return "vec3"
	case KindFloats:
		return "[]float"
	case KindVecs:
		return "[]vec3"
	default:
		return "invalid"
	}
}

// Value lists the types a blackboard can hold.
type Value interface {
	float64 | bool | physics.Vec3 | []float64 | []physics.Vec3
}

// KindOf returns the kind tag of T.
func KindOf[T Value]() Kind {
	var zero T
	return kindOf(any(zero))
}

func kindOf(v any) Kind {
	switch v.(type) {
	case float64:
		return KindFloat
	case bool:
		return KindBool
	case physics.Vec3:
		return KindVec3
	case []float64:
		return KindFloats
	case []physics.Vec3:
		return KindVecs
	default:
		return KindInvalid
	}
}

// Blackboard is a keyed store of tagged values scoped to one tree.
// Any key may be overwritten with a value of another kind; last write wins.
// Slices are copied in and out so callers never share backing arrays with it.
type Blackboard struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewBlackboard creates an empty blackboard.
func NewBlackboard() *Blackboard {
	return &Blackboard{data: make(map[string]any)}
}

// Set stores v under key.
func Set[T Value](bb *Blackboard, key string, v T) {
	bb.store(key, copyValue(any(v)))
}

// Get returns the value under key as T. It fails with ErrKeyNotFound when the
// key is absent and ErrTypeMismatch when it holds another kind.
func Get[T Value](bb *Blackboard, key string) (T, error) {
	var zero T
	raw, ok := bb.load(key)
	if !ok {
		return zero, keyNotFound(key)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, typeMismatch(key, kindOf(raw), KindOf[T]())
	}
	return copyValue(any(v)).(T), nil
}

// SetValue is the untyped form of Set. float32 and int values are widened to
// float64; anything outside Value is rejected with ErrUnsupportedType.
func (bb *Blackboard) SetValue(key string, v any) error {
	switch n := v.(type) {
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	}
	if kindOf(v) == KindInvalid {
		return fmt.Errorf("%w: %q: %T", ErrUnsupportedType, key, v)
	}
	bb.store(key, copyValue(v))
	return nil
}

// Value is the untyped form of Get.
func (bb *Blackboard) Value(key string) (any, error) {
	raw, ok := bb.load(key)
	if !ok {
		return nil, keyNotFound(key)
	}
	return copyValue(raw), nil
}

// Kind reports the kind stored under key.
func (bb *Blackboard) Kind(key string) (Kind, bool) {
	raw, ok := bb.load(key)
	if !ok {
		return KindInvalid, false
	}
	return kindOf(raw), true
}

func (bb *Blackboard) Has(key string) bool {
	_, ok := bb.load(key)
	return ok
}

func (bb *Blackboard) Delete(key string) {
	bb.mu.Lock()
	delete(bb.data, key)
	bb.mu.Unlock()
}

func (bb *Blackboard) Len() int {
	bb.mu.RLock()
	defer bb.mu.RUnlock()
	return len(bb.data)
}

// Keys returns the keys in sorted order.
func (bb *Blackboard) Keys() []string {
	bb.mu.RLock()
	keys := make([]string, 0, len(bb.data))
	for k := range bb.data {
		keys = append(keys, k)
	}
	bb.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Snapshot returns a deep copy of the contents.
func (bb *Blackboard) Snapshot() map[string]any {
	bb.mu.RLock()
	defer bb.mu.RUnlock()
	out := make(map[string]any, len(bb.data))
	for k, v := range bb.data {
		out[k] = copyValue(v)
	}
	return out
}

func (bb *Blackboard) Clear() {
	bb.mu.Lock()
	bb.data = make(map[string]any)
	bb.mu.Unlock()
}

func (bb *Blackboard) store(key string, v any) {
	bb.mu.Lock()
	if bb.data == nil {
		bb.data = make(map[string]any)
	}
	bb.data[key] = v
	bb.mu.Unlock()
}

func (bb *Blackboard) load(key string) (any, bool) {
	bb.mu.RLock()
	defer bb.mu.RUnlock()
	v, ok := bb.data[key]
	return v, ok
}

func copyValue(v any) any {
	switch s := v.(type) {
	case []float64:
		return slices.Clone(s)
	case []physics.Vec3:
		return slices.Clone(s)
	default:
		return v
	}
}

// Key is a typed handle to a blackboard key.
type Key[T Value] struct{ name string }

// NewKey returns a handle for name.
func NewKey[T Value](name string) Key[T] { return Key[T]{name: name} }

func (k Key[T]) Name() string { return k.name }

func (k Key[T]) Kind() Kind { return KindOf[T]() }

func (k Key[T]) Get(bb *Blackboard) (T, error) { return Get[T](bb, k.name) }

func (k Key[T]) Set(bb *Blackboard, v T) { Set(bb, k.name, v) }

// Binding describes k for build-time checks.
func (k Key[T]) Binding() Binding { return Binding{Key: k.name, Kind: k.Kind()} }
