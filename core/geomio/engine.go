package geomio

import (
	"os"
	"sync/atomic"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Engine is an optional native geometry backend. It speaks extended WKB
// on both sides: the operations here serialize the tree, hand the bytes
// over and decode the reply through the same codec, so an engine never
// touches model internals. Implementations must be safe for concurrent
// use.
type Engine interface {
	Buffer(ewkb []byte, distance float64) ([]byte, error)
	Union(a, b []byte) ([]byte, error)
	Intersection(a, b []byte) ([]byte, error)
	MakeValid(ewkb []byte) ([]byte, error)
	// Relate evaluates a DE-9IM intersection-matrix pattern.
	Relate(a, b []byte, pattern string) (bool, error)
}

// noEngineEnv force-disables the engine regardless of the toggle, for
// ruling the native path out in deployments and tests.
const noEngineEnv = "GEOMKIT_NO_ENGINE"

// forcedState is a tri-state availability override: zero means decide by
// whether an engine is registered. It is a single relaxed flag, not a
// lock; mutate it from one goroutine at a time.
var forcedState atomic.Int32

const (
	forcedAuto int32 = 0
	forcedOn   int32 = 1
	forcedOff  int32 = -1
)

var engineSlot atomic.Value

type engineHolder struct {
	engine Engine
}

// SetEngine registers the native backend. Passing nil unregisters it.
func SetEngine(e Engine) {
	engineSlot.Store(&engineHolder{engine: e})
}

func currentEngine() Engine {
	if h, ok := engineSlot.Load().(*engineHolder); ok {
		return h.engine
	}
	return nil
}

// ForceEngine overrides availability in both directions, for tests and
// for callers that must not fall back silently.
func ForceEngine(on bool) {
	if on {
		forcedState.Store(forcedOn)
	} else {
		forcedState.Store(forcedOff)
	}
}

// ResetEngine returns availability to automatic.
func ResetEngine() {
	forcedState.Store(forcedAuto)
}

// EngineAvailable reports whether engine-backed operations may run. The
// environment kill switch wins over the toggle, the toggle over the
// automatic check. Codec and detector behavior never depends on this.
func EngineAvailable() bool {
	if os.Getenv(noEngineEnv) != "" {
		return false
	}
	switch forcedState.Load() {
	case forcedOn:
		return true
	case forcedOff:
		return false
	}
	return currentEngine() != nil
}

// Union combines two geometries through the native engine.
func Union(a, b geom.Geometry) (geom.Geometry, error) {
	return binaryOp("Union", a, b, Engine.Union)
}

// Intersection intersects two geometries through the native engine.
func Intersection(a, b geom.Geometry) (geom.Geometry, error) {
	return binaryOp("Intersection", a, b, Engine.Intersection)
}

// Buffer expands a geometry by a distance through the native engine.
func Buffer(g geom.Geometry, distance float64) (geom.Geometry, error) {
	return unaryOp("Buffer", g, func(e Engine, data []byte) ([]byte, error) {
		return e.Buffer(data, distance)
	})
}

// MakeValid repairs a geometry through the native engine.
func MakeValid(g geom.Geometry) (geom.Geometry, error) {
	return unaryOp("MakeValid", g, Engine.MakeValid)
}

// Relate evaluates a DE-9IM pattern between two geometries through the
// native engine.
func Relate(a, b geom.Geometry, pattern string) (bool, error) {
	e, err := activeEngine("Relate")
	if err != nil {
		return false, err
	}
	ax, bx, err := encodePair(a, b)
	if err != nil {
		return false, err
	}
	return e.Relate(ax, bx, pattern)
}

func unaryOp(name string, g geom.Geometry, call func(Engine, []byte) ([]byte, error)) (geom.Geometry, error) {
	e, err := activeEngine(name)
	if err != nil {
		return nil, err
	}
	data, err := Encode(g, "ewkb")
	if err != nil {
		return nil, err
	}
	out, err := call(e, data)
	if err != nil {
		return nil, errors.Wrapf(err, "engine %s", name)
	}
	return DecodeFormat(out, "ewkb")
}

func binaryOp(name string, a, b geom.Geometry, call func(Engine, []byte, []byte) ([]byte, error)) (geom.Geometry, error) {
	e, err := activeEngine(name)
	if err != nil {
		return nil, err
	}
	ax, bx, err := encodePair(a, b)
	if err != nil {
		return nil, err
	}
	out, err := call(e, ax, bx)
	if err != nil {
		return nil, errors.Wrapf(err, "engine %s", name)
	}
	return DecodeFormat(out, "ewkb")
}

func encodePair(a, b geom.Geometry) ([]byte, []byte, error) {
	ax, err := Encode(a, "ewkb")
	if err != nil {
		return nil, nil, err
	}
	bx, err := Encode(b, "ewkb")
	if err != nil {
		return nil, nil, err
	}
	return ax, bx, nil
}

func activeEngine(op string) (Engine, error) {
	if !EngineAvailable() {
		return nil, errors.NewUnsupportedOperation(op, "native engine unavailable")
	}
	e := currentEngine()
	if e == nil {
		return nil, errors.NewUnsupportedOperation(op, "no engine registered")
	}
	return e, nil
}
