package examples

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// FibonacciRAP is the permutation-argument AIR: two main columns holding a
// Fibonacci sequence and a row-0/row-(n-2) permutation of it, plus one
// auxiliary column carrying the running product z_{i+1} = z_i*(a_i+gamma)/(b_i+gamma)
// that a verifier uses to check the permutation without seeing it directly.
type FibonacciRAP struct {
	ctx air.AirContext
}

// NewFibonacciRAP builds a FibonacciRAP AIR for a trace of the given length.
func NewFibonacciRAP(traceLength uint64, options air.ProofOptions) FibonacciRAP {
	return FibonacciRAP{ctx: air.AirContext{
		TraceLength:              traceLength,
		TraceColumns:             2,
		NumTransitionConstraints: 2,
		TransitionDegrees:        []uint64{1, 2},
		TransitionExemptions:     []uint64{3, 1},
		TransitionOffsets:        []uint64{0, 1, 2},
		Options:                  options,
	}}
}

func (a FibonacciRAP) Context() air.AirContext  { return a.ctx }
func (a FibonacciRAP) Options() air.ProofOptions { return a.ctx.Options }
func (a FibonacciRAP) BlowupFactor() uint64      { return a.ctx.Options.BlowupFactor }

func (a FibonacciRAP) BuildRAPChallenges(tr *transcript.Transcript) air.RAPChallenges {
	return air.RAPChallenges{tr.ChallengeFieldElement()}
}

func (a FibonacciRAP) NumAuxiliaryRAPColumns() int { return 1 }

func (a FibonacciRAP) BuildAuxiliaryTrace(main air.TraceTable, rap air.RAPChallenges, publicInput any) (air.TraceTable, error) {
	gamma := rap[0]
	notPerm := main.Column(0)
	perm := main.Column(1)
	n := main.Length()

	aux := make([]field.Element, n)
	aux[0] = field.One()
	for i := uint64(1); i < n; i++ {
		numerator := notPerm[i-1].Add(gamma)
		denominator := perm[i-1].Add(gamma)
		term, err := numerator.Div(denominator)
		if err != nil {
			return air.TraceTable{}, fmt.Errorf("examples: fibonacci rap auxiliary column: %w", err)
		}
		aux[i] = aux[i-1].Mul(term)
	}
	return air.NewTraceTable([][]field.Element{aux})
}

func (a FibonacciRAP) ComputeTransition(frame air.Frame, rap air.RAPChallenges) []field.Element {
	gamma := rap[0]

	fibConstraint := frame.At(2, 0).Sub(frame.At(1, 0)).Sub(frame.At(0, 0))

	zI := frame.At(0, 2)
	zIPlusOne := frame.At(1, 2)
	aI := frame.At(0, 0)
	bI := frame.At(0, 1)
	permConstraint := zIPlusOne.Mul(bI.Add(gamma)).Sub(zI.Mul(aI.Add(gamma)))

	return []field.Element{fibConstraint, permConstraint}
}

func (a FibonacciRAP) BoundaryConstraints(rap air.RAPChallenges, publicInput any) []air.BoundaryConstraint {
	return []air.BoundaryConstraint{
		{Column: 0, Row: 0, Value: field.One()},
		{Column: 0, Row: 1, Value: field.One()},
		{Column: 2, Row: 0, Value: field.One()},
	}
}

func (a FibonacciRAP) CompositionPolyDegreeBound() uint64 { return a.ctx.TraceLength }

// FibonacciRAPTrace builds the two main columns for a final (power-of-two)
// trace length n: a Fibonacci sequence of length n-1 in column 0, and in
// column 1 the same sequence with its first and last elements swapped, each
// padded with a trailing zero row.
func FibonacciRAPTrace(n uint64) air.TraceTable {
	m := n - 1
	fibSeq := make([]field.Element, m)
	fibSeq[0] = field.One()
	fibSeq[1] = field.One()
	for i := uint64(2); i < m; i++ {
		fibSeq[i] = fibSeq[i-1].Add(fibSeq[i-2])
	}

	fibPermuted := make([]field.Element, m)
	copy(fibPermuted, fibSeq)
	fibPermuted[0] = fibSeq[m-1]
	fibPermuted[m-1] = fibSeq[0]

	notPerm := append(fibSeq, field.Zero())
	perm := append(fibPermuted, field.Zero())

	table, err := air.NewTraceTable([][]field.Element{notPerm, perm})
	if err != nil {
		panic(err)
	}
	return table
}
