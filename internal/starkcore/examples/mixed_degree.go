package examples

import (
	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// MixedDegree is a two-column AIR combining a degree-1 Fibonacci-style
// recurrence in column 0 with a degree-2 squaring recurrence in column 1,
// each with its own exemption count. It exists to exercise the composition
// polynomial's per-constraint degree adjustment when constraints disagree
// on both degree and exemption depth.
type MixedDegree struct {
	ctx air.AirContext
}

// NewMixedDegree builds a MixedDegree AIR for a trace of the given length.
func NewMixedDegree(traceLength uint64, options air.ProofOptions) MixedDegree {
	return MixedDegree{ctx: air.AirContext{
		TraceLength:              traceLength,
		TraceColumns:             2,
		NumTransitionConstraints: 2,
		TransitionDegrees:        []uint64{1, 2},
		TransitionExemptions:     []uint64{2, 1},
		TransitionOffsets:        []uint64{0, 1, 2},
		Options:                  options,
	}}
}

func (a MixedDegree) Context() air.AirContext  { return a.ctx }
func (a MixedDegree) Options() air.ProofOptions { return a.ctx.Options }
func (a MixedDegree) BlowupFactor() uint64      { return a.ctx.Options.BlowupFactor }

func (a MixedDegree) BuildAuxiliaryTrace(main air.TraceTable, rap air.RAPChallenges, publicInput any) (air.TraceTable, error) {
	return air.TraceTable{}, nil
}

func (a MixedDegree) BuildRAPChallenges(tr *transcript.Transcript) air.RAPChallenges {
	return nil
}

func (a MixedDegree) NumAuxiliaryRAPColumns() int { return 0 }

func (a MixedDegree) ComputeTransition(frame air.Frame, rap air.RAPChallenges) []field.Element {
	fibLHS := frame.At(2, 0)
	fibRHS := frame.At(0, 0).Add(frame.At(1, 0))
	quadLHS := frame.At(1, 1)
	quadRHS := frame.At(0, 1).Square()
	return []field.Element{fibLHS.Sub(fibRHS), quadLHS.Sub(quadRHS)}
}

func (a MixedDegree) BoundaryConstraints(rap air.RAPChallenges, publicInput any) []air.BoundaryConstraint {
	return []air.BoundaryConstraint{
		{Column: 0, Row: 0, Value: field.One()},
		{Column: 0, Row: 1, Value: field.One()},
		{Column: 1, Row: 0, Value: field.NewFromUint64(2)},
	}
}

func (a MixedDegree) CompositionPolyDegreeBound() uint64 { return 2 * a.ctx.TraceLength }

// MixedDegreeTrace builds both columns for n rows: column 0 is the
// Fibonacci sequence, column 1 is repeated squaring starting at 2.
func MixedDegreeTrace(n uint64) air.TraceTable {
	fib := make([]field.Element, n)
	fib[0] = field.One()
	fib[1] = field.One()
	for i := uint64(2); i < n; i++ {
		fib[i] = fib[i-1].Add(fib[i-2])
	}
	quad := make([]field.Element, n)
	quad[0] = field.NewFromUint64(2)
	for i := uint64(1); i < n; i++ {
		quad[i] = quad[i-1].Square()
	}
	table, err := air.NewTraceTable([][]field.Element{fib, quad})
	if err != nil {
		panic(err)
	}
	return table
}
