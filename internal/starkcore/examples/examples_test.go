package examples

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/prover"
	"github.com/vybium/starkcore/internal/starkcore/verifier"
)

func testOptions() air.ProofOptions {
	options := air.DefaultProofOptions()
	options.FriNumberOfQueries = 4
	return options
}

func TestFibonacciProvesAndVerifies(t *testing.T) {
	a := NewFibonacci(8, testOptions())
	trace := FibonacciTrace(8)

	p, err := prover.Prove(trace, a, nil)
	require.NoError(t, err, "Prove must succeed on a valid Fibonacci trace")

	ok, err := verifier.Verify(p, a, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, ok, "Verify rejected an honest Fibonacci proof")
}

func TestQuadraticProvesAndVerifies(t *testing.T) {
	a := NewQuadratic(8, testOptions())
	trace := QuadraticTrace(8)

	p, err := prover.Prove(trace, a, nil)
	require.NoError(t, err, "Prove must succeed on a valid Quadratic trace")

	ok, err := verifier.Verify(p, a, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, ok, "Verify rejected an honest Quadratic proof")
}

func TestMixedDegreeProvesAndVerifies(t *testing.T) {
	a := NewMixedDegree(8, testOptions())
	trace := MixedDegreeTrace(8)

	p, err := prover.Prove(trace, a, nil)
	require.NoError(t, err, "Prove must succeed on a valid MixedDegree trace")

	ok, err := verifier.Verify(p, a, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, ok, "Verify rejected an honest MixedDegree proof")
}

func TestFibonacciRAPProvesAndVerifies(t *testing.T) {
	a := NewFibonacciRAP(16, testOptions())
	trace := FibonacciRAPTrace(16)

	p, err := prover.Prove(trace, a, nil)
	require.NoError(t, err, "Prove must succeed on a valid FibonacciRAP trace")
	assert.True(t, p.HasAuxTrace, "FibonacciRAP must produce an auxiliary trace")

	ok, err := verifier.Verify(p, a, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, ok, "Verify rejected an honest FibonacciRAP proof")
}
