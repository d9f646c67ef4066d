package trap

import (
	"math"
	"testing"
)

// negZero is -0.0; the Go constant -0.0 is exactly +0, so it cannot be
// written as a literal.
var negZero = math.Copysign(0, -1)

func TestFloatMinSignedZeroTieBreak(t *testing.T) {
	if got := floatMin64(negZero, 0.0); !isNegZero(got) {
		t.Fatalf("min(-0.0, 0.0) = %v, want -0.0", got)
	}
	if got := floatMin64(0.0, negZero); !isNegZero(got) {
		t.Fatalf("min(0.0, -0.0) = %v, want -0.0", got)
	}
}

func TestFloatMaxSignedZeroTieBreak(t *testing.T) {
	if got := floatMax64(negZero, 0.0); got != 0 || isNegZero(got) {
		t.Fatalf("max(-0.0, 0.0) = %v, want +0.0", got)
	}
	if got := floatMax64(0.0, negZero); got != 0 || isNegZero(got) {
		t.Fatalf("max(0.0, -0.0) = %v, want +0.0", got)
	}
}

func TestFloatMinMaxPropagateQuietNaN(t *testing.T) {
	signaling := math.Float64frombits(0x7ff0000000000001) // signaling NaN pattern
	for _, got := range []float64{
		floatMin64(signaling, 1),
		floatMin64(1, signaling),
		floatMax64(signaling, 1),
		floatMax64(1, signaling),
	} {
		if !math.IsNaN(got) {
			t.Fatalf("expected NaN result, got %v", got)
		}
		bits := math.Float64bits(got)
		if bits&(1<<51) == 0 {
			t.Fatalf("expected quiet bit set in result NaN, bits=%x", bits)
		}
	}
}

func TestFloatMinMaxOrdinary(t *testing.T) {
	if got := floatMin64(3, 5); got != 3 {
		t.Fatalf("min(3,5) = %v, want 3", got)
	}
	if got := floatMax64(3, 5); got != 5 {
		t.Fatalf("max(3,5) = %v, want 5", got)
	}
}

func TestFloatRoundingFamilyPropagatesNaN(t *testing.T) {
	nan := math.NaN()
	for _, fn := range []func(float64) float64{floatCeil64, floatFloor64, floatTrunc64, floatNearest64} {
		if got := fn(nan); !math.IsNaN(got) {
			t.Fatalf("expected NaN passthrough, got %v", got)
		}
	}
}

func TestFloatRoundingFamily(t *testing.T) {
	if got := floatCeil64(1.2); got != 2 {
		t.Fatalf("ceil(1.2) = %v, want 2", got)
	}
	if got := floatFloor64(1.8); got != 1 {
		t.Fatalf("floor(1.8) = %v, want 1", got)
	}
	if got := floatTrunc64(-1.8); got != -1 {
		t.Fatalf("trunc(-1.8) = %v, want -1", got)
	}
	if got := floatNearest64(2.5); got != 2 {
		t.Fatalf("nearest(2.5) = %v, want 2 (ties to even)", got)
	}
}

func isNegZero(f float64) bool {
	return f == 0 && math.Signbit(f)
}
