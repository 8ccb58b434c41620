package air

import (
	"testing"

	"github.com/vybium/starkcore/internal/starkcore/domain"
	"github.com/vybium/starkcore/internal/starkcore/field"
)

func TestProofOptionsValidate(t *testing.T) {
	good := DefaultProofOptions()
	if err := good.Validate(); err != nil {
		t.Fatalf("default options should validate: %v", err)
	}

	bad := good
	bad.BlowupFactor = 3
	if err := bad.Validate(); err == nil {
		t.Error("expected error for non-allowed blowup factor")
	}

	bad = good
	bad.GrindingFactor = 32
	if err := bad.Validate(); err == nil {
		t.Error("expected error for grinding factor >= 32")
	}

	bad = good
	bad.CosetOffset = field.Zero()
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero coset offset")
	}
}

func TestTraceTableValidation(t *testing.T) {
	col := make([]field.Element, 8)
	for i := range col {
		col[i] = field.NewFromUint64(uint64(i))
	}
	if _, err := NewTraceTable([][]field.Element{col}); err != nil {
		t.Fatalf("valid trace table rejected: %v", err)
	}

	badCol := make([]field.Element, 7)
	if _, err := NewTraceTable([][]field.Element{badCol}); err == nil {
		t.Error("expected error for non-power-of-two trace length")
	}

	mismatched := make([]field.Element, 4)
	if _, err := NewTraceTable([][]field.Element{col, mismatched}); err == nil {
		t.Error("expected error for mismatched column lengths")
	}
}

func TestReadFrameFromTraceWrapsCyclically(t *testing.T) {
	col := make([]field.Element, 8)
	for i := range col {
		col[i] = field.NewFromUint64(uint64(i))
	}
	table, err := NewTraceTable([][]field.Element{col})
	if err != nil {
		t.Fatalf("NewTraceTable failed: %v", err)
	}

	frame := ReadFrameFromTrace(table, 7, []uint64{0, 1, 2})
	if !frame.At(0, 0).Equal(field.NewFromUint64(7)) {
		t.Errorf("offset 0 at row 7 = %s, want 7", frame.At(0, 0))
	}
	if !frame.At(1, 0).Equal(field.NewFromUint64(0)) {
		t.Errorf("offset 1 at row 7 should wrap to row 0, got %s", frame.At(1, 0))
	}
	if !frame.At(2, 0).Equal(field.NewFromUint64(1)) {
		t.Errorf("offset 2 at row 7 should wrap to row 1, got %s", frame.At(2, 0))
	}
}

func TestReadFrameFromLDEWrapsModuloLDESize(t *testing.T) {
	ldeSize := uint64(32)
	col := make([]field.Element, ldeSize)
	for i := range col {
		col[i] = field.NewFromUint64(uint64(i))
	}
	frame := ReadFrameFromLDE([][]field.Element{col}, 30, 4, ldeSize, []uint64{0, 1})
	if !frame.At(0, 0).Equal(field.NewFromUint64(30)) {
		t.Errorf("offset 0 at index 30 = %s, want 30", frame.At(0, 0))
	}
	want := (30 + 4) % ldeSize
	if !frame.At(1, 0).Equal(field.NewFromUint64(want)) {
		t.Errorf("offset 1 at index 30 should wrap to %d, got %s", want, frame.At(1, 0))
	}
}

func TestDefaultTransitionExemptionsVanishOnLastRoots(t *testing.T) {
	dom, err := domain.New(8, 4, field.NewFromUint64(3))
	if err != nil {
		t.Fatalf("domain.New failed: %v", err)
	}
	ctx := AirContext{
		TraceLength:              8,
		TraceColumns:             1,
		NumTransitionConstraints: 1,
		TransitionDegrees:        []uint64{1},
		TransitionExemptions:     []uint64{2},
		TransitionOffsets:        []uint64{0, 1},
		Options:                  DefaultProofOptions(),
	}
	polys := DefaultTransitionExemptions(ctx, dom)
	roots := dom.TraceRoots()
	lastTwo := roots[len(roots)-2:]
	for _, r := range lastTwo {
		if !polys[0].Evaluate(r).IsZero() {
			t.Errorf("exemption polynomial does not vanish at excluded root %s", r)
		}
	}
	if polys[0].Evaluate(roots[0]).IsZero() {
		t.Error("exemption polynomial unexpectedly vanishes at a non-excluded root")
	}
}
