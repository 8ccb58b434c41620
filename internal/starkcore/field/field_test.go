package field

import (
	"math/big"
	"testing"
)

func TestAddSubNeg(t *testing.T) {
	a := NewFromUint64(5)
	b := NewFromUint64(7)

	if !a.Add(b).Equal(NewFromUint64(12)) {
		t.Error("5 + 7 != 12")
	}
	if !b.Sub(a).Equal(NewFromUint64(2)) {
		t.Error("7 - 5 != 2")
	}
	if !a.Add(a.Neg()).IsZero() {
		t.Error("a + (-a) != 0")
	}
}

func TestMulInvDiv(t *testing.T) {
	a := NewFromUint64(6)
	b := NewFromUint64(7)

	if !a.Mul(b).Equal(NewFromUint64(42)) {
		t.Error("6 * 7 != 42")
	}

	inv, err := a.Inv()
	if err != nil {
		t.Fatalf("Inv failed: %v", err)
	}
	if !a.Mul(inv).IsOne() {
		t.Error("a * a^-1 != 1")
	}

	q, err := b.Div(a)
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}
	if !q.Mul(a).Equal(b) {
		t.Error("(b/a)*a != b")
	}

	if _, err := Zero().Inv(); err == nil {
		t.Error("expected error inverting zero")
	}
}

func TestExp(t *testing.T) {
	a := NewFromUint64(3)
	got := a.Exp(big.NewInt(4))
	want := NewFromUint64(81)
	if !got.Equal(want) {
		t.Errorf("3^4 = %s, want %s", got, want)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	values := []Element{Zero(), One(), NewFromUint64(123456789), Generator}
	for _, v := range values {
		b := v.Bytes()
		if len(b) != ByteLength {
			t.Fatalf("Bytes length = %d, want %d", len(b), ByteLength)
		}
		back, err := FromBytes(b[:])
		if err != nil {
			t.Fatalf("FromBytes failed: %v", err)
		}
		if !back.Equal(v) {
			t.Errorf("round trip mismatch: got %s, want %s", back, v)
		}
	}
}

func TestPrimitiveRootOfUnity(t *testing.T) {
	tests := []uint64{2, 4, 8, 16, 1024}
	for _, order := range tests {
		root, err := PrimitiveRootOfUnity(order)
		if err != nil {
			t.Fatalf("order %d: %v", order, err)
		}
		// root^order == 1
		if !root.ExpUint64(order).IsOne() {
			t.Errorf("order %d: root^order != 1", order)
		}
		// root^(order/2) != 1 for order > 1, confirming it is primitive
		if order > 1 {
			if root.ExpUint64(order / 2).IsOne() {
				t.Errorf("order %d: root is not primitive", order)
			}
		}
	}

	if _, err := PrimitiveRootOfUnity(3); err == nil {
		t.Error("expected error for non-power-of-two order")
	}
}

func TestBatchInvert(t *testing.T) {
	elems := []Element{NewFromUint64(2), NewFromUint64(3), NewFromUint64(5), NewFromUint64(7)}
	inverses, err := BatchInvert(elems)
	if err != nil {
		t.Fatalf("BatchInvert failed: %v", err)
	}
	for i, e := range elems {
		if !e.Mul(inverses[i]).IsOne() {
			t.Errorf("element %d: e * inv(e) != 1", i)
		}
	}

	if _, err := BatchInvert([]Element{NewFromUint64(1), Zero()}); err == nil {
		t.Error("expected error batch-inverting a zero element")
	}
}

func TestParallelBatchInvertMatchesSerial(t *testing.T) {
	n := 2000
	elems := make([]Element, n)
	for i := 0; i < n; i++ {
		elems[i] = NewFromUint64(uint64(i + 1))
	}

	serial, err := BatchInvert(elems)
	if err != nil {
		t.Fatalf("serial BatchInvert failed: %v", err)
	}
	parallel, err := ParallelBatchInvert(elems, 4)
	if err != nil {
		t.Fatalf("parallel BatchInvert failed: %v", err)
	}
	for i := range serial {
		if !serial[i].Equal(parallel[i]) {
			t.Fatalf("mismatch at index %d", i)
		}
	}
}
