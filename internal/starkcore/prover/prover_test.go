package prover

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// fibAIR is a minimal single-column AIR computing a Fibonacci-like
// recurrence t(x+2) = t(x) + t(x+1), used to exercise the full pipeline.
type fibAIR struct {
	ctx air.AirContext
}

func (a fibAIR) Context() air.AirContext  { return a.ctx }
func (a fibAIR) Options() air.ProofOptions { return a.ctx.Options }
func (a fibAIR) BlowupFactor() uint64      { return a.ctx.Options.BlowupFactor }
func (a fibAIR) BuildAuxiliaryTrace(main air.TraceTable, rap air.RAPChallenges, publicInput any) (air.TraceTable, error) {
	return air.TraceTable{}, nil
}
func (a fibAIR) BuildRAPChallenges(tr *transcript.Transcript) air.RAPChallenges {
	return nil
}
func (a fibAIR) NumAuxiliaryRAPColumns() int { return 0 }
func (a fibAIR) ComputeTransition(frame air.Frame, rap air.RAPChallenges) []field.Element {
	lhs := frame.At(2, 0)
	rhs := frame.At(0, 0).Add(frame.At(1, 0))
	return []field.Element{lhs.Sub(rhs)}
}
func (a fibAIR) BoundaryConstraints(rap air.RAPChallenges, publicInput any) []air.BoundaryConstraint {
	return []air.BoundaryConstraint{
		{Column: 0, Row: 0, Value: field.NewFromUint64(1)},
		{Column: 0, Row: 1, Value: field.NewFromUint64(1)},
	}
}
func (a fibAIR) CompositionPolyDegreeBound() uint64 { return 4 * a.ctx.TraceLength }

func buildFibTrace(n uint64) air.TraceTable {
	col := make([]field.Element, n)
	col[0] = field.NewFromUint64(1)
	col[1] = field.NewFromUint64(1)
	for i := uint64(2); i < n; i++ {
		col[i] = col[i-1].Add(col[i-2])
	}
	table, err := air.NewTraceTable([][]field.Element{col})
	if err != nil {
		panic(err)
	}
	return table
}

func fibContext(n uint64) air.AirContext {
	options := air.DefaultProofOptions()
	options.FriNumberOfQueries = 4
	return air.AirContext{
		TraceLength:              n,
		TraceColumns:             1,
		NumTransitionConstraints: 1,
		TransitionDegrees:        []uint64{1},
		TransitionExemptions:     []uint64{2},
		TransitionOffsets:        []uint64{0, 1, 2},
		Options:                  options,
	}
}

func TestProveProducesWellShapedProof(t *testing.T) {
	n := uint64(8)
	a := fibAIR{ctx: fibContext(n)}
	trace := buildFibTrace(n)

	p, err := Prove(trace, a, nil)
	require.NoError(t, err, "Prove must succeed on a valid trace")

	assert.Equal(t, n, p.TraceLength)
	assert.False(t, p.HasAuxTrace, "expected no auxiliary trace for a pure-main AIR")
	assert.Len(t, p.Decommitments, a.ctx.Options.FriNumberOfQueries)
	require.Len(t, p.TraceOODEvaluations, 1, "expected 1 column of OOD evaluations")
	assert.Len(t, p.TraceOODEvaluations[0], len(a.ctx.TransitionOffsets))
	assert.NotEmpty(t, p.FRILayerRoots, "expected at least one FRI layer root")
	for i, d := range p.Decommitments {
		assert.Lenf(t, d.MainTraceLeaf, 1, "decommitment %d: main trace leaf column count", i)
		assert.Lenf(t, d.FRILayers, len(p.FRILayerRoots), "decommitment %d: FRI layer opening count", i)
	}
}

func TestProveRejectsTraceLengthMismatch(t *testing.T) {
	a := fibAIR{ctx: fibContext(8)}
	wrongTrace := buildFibTrace(16)
	_, err := Prove(wrongTrace, a, nil)
	assert.Error(t, err, "expected an error when the trace length does not match the AIR context")
}

func TestProveIsDeterministicGivenSameInputs(t *testing.T) {
	n := uint64(8)
	a := fibAIR{ctx: fibContext(n)}
	trace := buildFibTrace(n)

	p1, err := Prove(trace, a, nil)
	require.NoError(t, err, "Prove must succeed on a valid trace")
	p2, err := Prove(trace, a, nil)
	require.NoError(t, err, "Prove must succeed on a valid trace")

	assert.Equal(t, p1.MainTraceRoot, p2.MainTraceRoot, "main trace root should be deterministic across identical runs")
	assert.Equal(t, p1.CompositionRoot, p2.CompositionRoot, "composition root should be deterministic across identical runs")
	assert.True(t, p1.FRILastValue.Equal(p2.FRILastValue), "FRI last value should be deterministic across identical runs")
}

func TestProveWithLoggerLogsStepOnFailure(t *testing.T) {
	a := fibAIR{ctx: fibContext(8)}
	wrongTrace := buildFibTrace(16)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	_, err := ProveWithLogger(wrongTrace, a, nil, logger)
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "setup", "expected the failing step to be logged")
}
