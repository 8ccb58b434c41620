package examples

import (
	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// Quadratic is the one-column recurrence t(x+1) = t(x)^2, pinned at row 0.
// Its transition constraint has degree 2, one higher than Fibonacci's,
// exercising a non-trivial per-constraint degree in the composition
// polynomial's degree-adjustment terms.
type Quadratic struct {
	ctx air.AirContext
}

// NewQuadratic builds a Quadratic AIR for a trace of the given length.
func NewQuadratic(traceLength uint64, options air.ProofOptions) Quadratic {
	return Quadratic{ctx: air.AirContext{
		TraceLength:              traceLength,
		TraceColumns:             1,
		NumTransitionConstraints: 1,
		TransitionDegrees:        []uint64{2},
		TransitionExemptions:     []uint64{1},
		TransitionOffsets:        []uint64{0, 1},
		Options:                  options,
	}}
}

func (a Quadratic) Context() air.AirContext  { return a.ctx }
func (a Quadratic) Options() air.ProofOptions { return a.ctx.Options }
func (a Quadratic) BlowupFactor() uint64      { return a.ctx.Options.BlowupFactor }

func (a Quadratic) BuildAuxiliaryTrace(main air.TraceTable, rap air.RAPChallenges, publicInput any) (air.TraceTable, error) {
	return air.TraceTable{}, nil
}

func (a Quadratic) BuildRAPChallenges(tr *transcript.Transcript) air.RAPChallenges {
	return nil
}

func (a Quadratic) NumAuxiliaryRAPColumns() int { return 0 }

func (a Quadratic) ComputeTransition(frame air.Frame, rap air.RAPChallenges) []field.Element {
	next := frame.At(1, 0)
	squared := frame.At(0, 0).Square()
	return []field.Element{next.Sub(squared)}
}

func (a Quadratic) BoundaryConstraints(rap air.RAPChallenges, publicInput any) []air.BoundaryConstraint {
	return []air.BoundaryConstraint{
		{Column: 0, Row: 0, Value: field.NewFromUint64(2)},
	}
}

func (a Quadratic) CompositionPolyDegreeBound() uint64 { return 4 * a.ctx.TraceLength }

// QuadraticTrace builds the trace column for n rows, starting at 2 and
// squaring at every step.
func QuadraticTrace(n uint64) air.TraceTable {
	col := make([]field.Element, n)
	col[0] = field.NewFromUint64(2)
	for i := uint64(1); i < n; i++ {
		col[i] = col[i-1].Square()
	}
	table, err := air.NewTraceTable([][]field.Element{col})
	if err != nil {
		panic(err)
	}
	return table
}
