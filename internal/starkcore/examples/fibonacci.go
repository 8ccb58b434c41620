// Package examples collects concrete AIR instances used to exercise the
// proving and verification pipelines end to end. None of these are part of
// the public surface; they mirror the worked scenarios a newcomer to the
// protocol would reach for first.
package examples

import (
	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// Fibonacci is the one-column recurrence t(x+2) = t(x) + t(x+1), pinned at
// rows 0 and 1 by the boundary constraints.
type Fibonacci struct {
	ctx air.AirContext
}

// NewFibonacci builds a Fibonacci AIR for a trace of the given length.
func NewFibonacci(traceLength uint64, options air.ProofOptions) Fibonacci {
	return Fibonacci{ctx: air.AirContext{
		TraceLength:              traceLength,
		TraceColumns:             1,
		NumTransitionConstraints: 1,
		TransitionDegrees:        []uint64{1},
		TransitionExemptions:     []uint64{2},
		TransitionOffsets:        []uint64{0, 1, 2},
		Options:                  options,
	}}
}

func (a Fibonacci) Context() air.AirContext  { return a.ctx }
func (a Fibonacci) Options() air.ProofOptions { return a.ctx.Options }
func (a Fibonacci) BlowupFactor() uint64      { return a.ctx.Options.BlowupFactor }

func (a Fibonacci) BuildAuxiliaryTrace(main air.TraceTable, rap air.RAPChallenges, publicInput any) (air.TraceTable, error) {
	return air.TraceTable{}, nil
}

func (a Fibonacci) BuildRAPChallenges(tr *transcript.Transcript) air.RAPChallenges {
	return nil
}

func (a Fibonacci) NumAuxiliaryRAPColumns() int { return 0 }

func (a Fibonacci) ComputeTransition(frame air.Frame, rap air.RAPChallenges) []field.Element {
	lhs := frame.At(2, 0)
	rhs := frame.At(0, 0).Add(frame.At(1, 0))
	return []field.Element{lhs.Sub(rhs)}
}

func (a Fibonacci) BoundaryConstraints(rap air.RAPChallenges, publicInput any) []air.BoundaryConstraint {
	return []air.BoundaryConstraint{
		{Column: 0, Row: 0, Value: field.One()},
		{Column: 0, Row: 1, Value: field.One()},
	}
}

func (a Fibonacci) CompositionPolyDegreeBound() uint64 { return 2 * a.ctx.TraceLength }

// FibonacciTrace builds the trace column for n rows, starting 1, 1.
func FibonacciTrace(n uint64) air.TraceTable {
	col := make([]field.Element, n)
	col[0] = field.One()
	col[1] = field.One()
	for i := uint64(2); i < n; i++ {
		col[i] = col[i-1].Add(col[i-2])
	}
	table, err := air.NewTraceTable([][]field.Element{col})
	if err != nil {
		panic(err)
	}
	return table
}
