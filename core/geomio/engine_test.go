package geomio_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
	"github.com/geomkit/geomkit/core/geomio"
)

// stubEngine records what it was handed and replies with canned bytes.
type stubEngine struct {
	lastA, lastB []byte
	lastDist     float64
	lastPattern  string
	result       []byte
	related      bool
	err          error
}

func (s *stubEngine) Buffer(ewkb []byte, distance float64) ([]byte, error) {
	s.lastA, s.lastDist = ewkb, distance
	return s.result, s.err
}

func (s *stubEngine) Union(a, b []byte) ([]byte, error) {
	s.lastA, s.lastB = a, b
	return s.result, s.err
}

func (s *stubEngine) Intersection(a, b []byte) ([]byte, error) {
	s.lastA, s.lastB = a, b
	return s.result, s.err
}

func (s *stubEngine) MakeValid(ewkb []byte) ([]byte, error) {
	s.lastA = ewkb
	return s.result, s.err
}

func (s *stubEngine) Relate(a, b []byte, pattern string) (bool, error) {
	s.lastA, s.lastB, s.lastPattern = a, b, pattern
	return s.related, s.err
}

func withEngine(t *testing.T, e geomio.Engine) {
	t.Helper()
	geomio.ResetEngine()
	geomio.SetEngine(e)
	t.Cleanup(func() {
		geomio.SetEngine(nil)
		geomio.ResetEngine()
	})
}

func cannedPoint(t *testing.T, x, y float64) []byte {
	t.Helper()
	data, err := geomio.Encode(geom.NewPoint(x, y), "ewkb")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return data
}

func TestEngineUnavailableByDefault(t *testing.T) {
	withEngine(t, nil)
	if geomio.EngineAvailable() {
		t.Error("EngineAvailable() = true with no engine registered")
	}
	_, err := geomio.Union(geom.NewPoint(1, 2), geom.NewPoint(3, 4))
	if !errors.Is(err, errors.ErrUnsupportedOperation) {
		t.Fatalf("err = %v, want unsupported operation", err)
	}
}

func TestEngineAvailableWhenRegistered(t *testing.T) {
	withEngine(t, &stubEngine{})
	if !geomio.EngineAvailable() {
		t.Error("EngineAvailable() = false with an engine registered")
	}
}

func TestForceEngineOffMasksEngine(t *testing.T) {
	withEngine(t, &stubEngine{})
	geomio.ForceEngine(false)
	if geomio.EngineAvailable() {
		t.Error("EngineAvailable() = true after ForceEngine(false)")
	}
	_, err := geomio.MakeValid(geom.NewPoint(1, 2))
	if !errors.Is(err, errors.ErrUnsupportedOperation) {
		t.Fatalf("err = %v, want unsupported operation", err)
	}
}

func TestForceEngineOnWithoutEngine(t *testing.T) {
	withEngine(t, nil)
	geomio.ForceEngine(true)
	if !geomio.EngineAvailable() {
		t.Error("EngineAvailable() = false after ForceEngine(true)")
	}
	_, err := geomio.Buffer(geom.NewPoint(1, 2), 0.5)
	if !errors.Is(err, errors.ErrUnsupportedOperation) {
		t.Fatalf("err = %v, want unsupported operation", err)
	}
}

func TestEnvironmentDisablesEngine(t *testing.T) {
	withEngine(t, &stubEngine{})
	geomio.ForceEngine(true)
	t.Setenv("GEOMKIT_NO_ENGINE", "1")
	if geomio.EngineAvailable() {
		t.Error("EngineAvailable() = true with GEOMKIT_NO_ENGINE set")
	}
	_, err := geomio.Intersection(geom.NewPoint(1, 2), geom.NewPoint(3, 4))
	if !errors.Is(err, errors.ErrUnsupportedOperation) {
		t.Fatalf("err = %v, want unsupported operation", err)
	}
}

func TestUnionRoundTripsThroughEngine(t *testing.T) {
	stub := &stubEngine{result: cannedPoint(t, 5, 6)}
	withEngine(t, stub)

	a := geom.NewPoint(1, 2)
	b := geom.NewPoint(3, 4)
	g, err := geomio.Union(a, b)
	if err != nil {
		t.Fatalf("Union failed: %v", err)
	}
	p := g.(*geom.Point)
	if p.X() != 5 || p.Y() != 6 {
		t.Errorf("Union result = (%v, %v), want (5, 6)", p.X(), p.Y())
	}

	// The engine sees both operands as extended WKB.
	gotA, err := geomio.DecodeFormat(stub.lastA, "ewkb")
	if err != nil {
		t.Fatalf("decoding captured operand failed: %v", err)
	}
	gotB, err := geomio.DecodeFormat(stub.lastB, "ewkb")
	if err != nil {
		t.Fatalf("decoding captured operand failed: %v", err)
	}
	if !a.Equals(gotA) || !b.Equals(gotB) {
		t.Error("engine did not receive the encoded operands")
	}
}

func TestBufferPassesDistance(t *testing.T) {
	stub := &stubEngine{result: cannedPoint(t, 0, 0)}
	withEngine(t, stub)
	if _, err := geomio.Buffer(geom.NewPoint(1, 2), 2.5); err != nil {
		t.Fatalf("Buffer failed: %v", err)
	}
	if stub.lastDist != 2.5 {
		t.Errorf("distance = %v, want 2.5", stub.lastDist)
	}
}

func TestRelatePassesPattern(t *testing.T) {
	stub := &stubEngine{related: true}
	withEngine(t, stub)
	ok, err := geomio.Relate(geom.NewPoint(1, 2), geom.NewPoint(1, 2), "T*F**FFF*")
	if err != nil {
		t.Fatalf("Relate failed: %v", err)
	}
	if !ok {
		t.Error("Relate() = false, want true")
	}
	if stub.lastPattern != "T*F**FFF*" {
		t.Errorf("pattern = %q, want %q", stub.lastPattern, "T*F**FFF*")
	}
}

func TestEngineErrorIsWrapped(t *testing.T) {
	stub := &stubEngine{err: fmt.Errorf("topology exception")}
	withEngine(t, stub)
	_, err := geomio.MakeValid(geom.NewPoint(1, 2))
	if err == nil {
		t.Fatal("expected an error from the engine")
	}
	if !strings.Contains(err.Error(), "MakeValid") {
		t.Errorf("err = %q, want the operation name in the message", err)
	}
}
