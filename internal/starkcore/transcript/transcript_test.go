package transcript

import (
	"testing"

	"github.com/vybium/starkcore/internal/starkcore/field"
)

func TestDeterministic(t *testing.T) {
	run := func() [32]byte {
		tr := New()
		tr.Append([]byte("root"))
		tr.AppendUint64(42)
		tr.AppendFieldElement(field.NewFromUint64(7))
		return tr.Challenge()
	}

	a := run()
	b := run()
	if a != b {
		t.Error("identical append sequences produced different challenges")
	}
}

func TestAppendOrderMatters(t *testing.T) {
	tr1 := New()
	tr1.Append([]byte("a"))
	tr1.Append([]byte("b"))
	c1 := tr1.Challenge()

	tr2 := New()
	tr2.Append([]byte("b"))
	tr2.Append([]byte("a"))
	c2 := tr2.Challenge()

	if c1 == c2 {
		t.Error("different append order produced the same challenge")
	}
}

func TestConsecutiveChallengesDiffer(t *testing.T) {
	tr := New()
	tr.Append([]byte("seed"))
	a := tr.Challenge()
	b := tr.Challenge()
	if a == b {
		t.Error("consecutive challenge draws were identical")
	}
}

func TestChallengeIndexInBound(t *testing.T) {
	tr := New()
	tr.Append([]byte("seed"))
	const bound = 17
	for i := 0; i < 100; i++ {
		idx := tr.ChallengeIndex(bound)
		if idx >= bound {
			t.Fatalf("index %d out of bound %d", idx, bound)
		}
	}
}
