package verifier

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/prover"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// fibAIR is a minimal single-column AIR computing a Fibonacci-like
// recurrence t(x+2) = t(x) + t(x+1), used to exercise the full pipeline.
type fibAIR struct {
	ctx air.AirContext
}

func (a fibAIR) Context() air.AirContext   { return a.ctx }
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

func TestVerifyAcceptsHonestProof(t *testing.T) {
	n := uint64(8)
	a := fibAIR{ctx: fibContext(n)}
	trace := buildFibTrace(n)

	p, err := prover.Prove(trace, a, nil)
	require.NoError(t, err, "Prove must succeed on a valid trace")

	ok, err := Verify(p, a, nil, zerolog.Nop())
	require.NoError(t, err, "Verify must not error on a well-formed proof")
	assert.True(t, ok, "Verify rejected an honest proof")
}

func TestVerifyRejectsTamperedOODValue(t *testing.T) {
	n := uint64(8)
	a := fibAIR{ctx: fibContext(n)}
	trace := buildFibTrace(n)

	p, err := prover.Prove(trace, a, nil)
	require.NoError(t, err, "Prove must succeed on a valid trace")
	p.TraceOODEvaluations[0][0] = p.TraceOODEvaluations[0][0].Add(field.One())

	ok, err := Verify(p, a, nil, zerolog.Nop())
	require.NoError(t, err, "a failed consistency check is a false result, not an error")
	assert.False(t, ok, "Verify accepted a proof with a tampered out-of-domain evaluation")
}

func TestVerifyRejectsTamperedDecommitmentLeaf(t *testing.T) {
	n := uint64(8)
	a := fibAIR{ctx: fibContext(n)}
	trace := buildFibTrace(n)

	p, err := prover.Prove(trace, a, nil)
	require.NoError(t, err, "Prove must succeed on a valid trace")
	p.Decommitments[0].MainTraceLeaf[0] = p.Decommitments[0].MainTraceLeaf[0].Add(field.One())

	ok, err := Verify(p, a, nil, zerolog.Nop())
	require.NoError(t, err, "a failed Merkle check is a false result, not an error")
	assert.False(t, ok, "Verify accepted a proof with a tampered main trace leaf")
}

func TestVerifyRejectsWrongTraceLength(t *testing.T) {
	n := uint64(8)
	a := fibAIR{ctx: fibContext(n)}
	trace := buildFibTrace(n)

	p, err := prover.Prove(trace, a, nil)
	require.NoError(t, err, "Prove must succeed on a valid trace")
	p.TraceLength = 16

	_, err = Verify(p, a, nil, zerolog.Nop())
	assert.Error(t, err, "expected an error when the proof's trace length does not match the AIR context")
}

func TestVerifyLogsStructuredFailureReason(t *testing.T) {
	n := uint64(8)
	a := fibAIR{ctx: fibContext(n)}
	trace := buildFibTrace(n)

	p, err := prover.Prove(trace, a, nil)
	require.NoError(t, err, "Prove must succeed on a valid trace")
	p.TraceOODEvaluations[0][0] = p.TraceOODEvaluations[0][0].Add(field.One())

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ok, err := Verify(p, a, nil, logger)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "composition_consistency", "expected the rejection step to be logged")
}
