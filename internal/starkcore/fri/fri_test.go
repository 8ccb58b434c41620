package fri

import (
	"testing"

	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
	"github.com/vybium/starkcore/internal/starkcore/polynomial"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

func randomLowDegreePoly(degree int) polynomial.Polynomial {
	coeffs := make([]field.Element, degree+1)
	for i := range coeffs {
		coeffs[i] = field.NewFromUint64(uint64(i*7 + 3))
	}
	return polynomial.New(coeffs)
}

func mustGenerator(t *testing.T, size uint64) field.Element {
	t.Helper()
	g, err := field.PrimitiveRootOfUnity(size)
	if err != nil {
		t.Fatalf("PrimitiveRootOfUnity failed: %v", err)
	}
	return g
}

func TestCommitThenQueryRoundTrip(t *testing.T) {
	p0 := randomLowDegreePoly(7)
	cosetOffset := field.NewFromUint64(3)
	domainSize := uint64(32)

	proverTr := transcript.New()
	layers, lastValue, err := CommitPhase(proverTr, p0, cosetOffset, domainSize)
	if err != nil {
		t.Fatalf("CommitPhase failed: %v", err)
	}
	if len(layers) == 0 {
		t.Fatal("expected at least one committed layer")
	}

	decommitments, err := QueryPhase(proverTr, layers, 4)
	if err != nil {
		t.Fatalf("QueryPhase failed: %v", err)
	}

	layerRoots := make([]merkle.Digest, len(layers))
	for i, l := range layers {
		layerRoots[i] = l.Tree.Root()
	}

	verifierTr := transcript.New()
	zetas := ReplayCommitPhase(verifierTr, layerRoots)
	verifierTr.AppendFieldElement(lastValue)

	g0 := mustGenerator(t, domainSize)

	for q, d := range decommitments {
		iota := verifierTr.ChallengeIndex(domainSize)
		if iota != d.Iota {
			t.Fatalf("query %d: replayed iota %d does not match prover's %d", q, iota, d.Iota)
		}
		v0 := layers[0].Poly.Evaluate(cosetOffset.Mul(g0.ExpUint64(d.Iota)))
		ok, err := VerifyQuery(layerRoots, zetas, cosetOffset, domainSize, lastValue, d.Iota, v0, d)
		if err != nil {
			t.Fatalf("query %d: VerifyQuery error: %v", q, err)
		}
		if !ok {
			t.Errorf("query %d: VerifyQuery rejected an honest proof", q)
		}
	}
}

func TestVerifyQueryRejectsTamperedSymmetricEvaluation(t *testing.T) {
	p0 := randomLowDegreePoly(7)
	cosetOffset := field.NewFromUint64(3)
	domainSize := uint64(32)

	proverTr := transcript.New()
	layers, lastValue, err := CommitPhase(proverTr, p0, cosetOffset, domainSize)
	if err != nil {
		t.Fatalf("CommitPhase failed: %v", err)
	}
	decommitments, err := QueryPhase(proverTr, layers, 1)
	if err != nil {
		t.Fatalf("QueryPhase failed: %v", err)
	}

	layerRoots := make([]merkle.Digest, len(layers))
	for i, l := range layers {
		layerRoots[i] = l.Tree.Root()
	}
	verifierTr := transcript.New()
	zetas := ReplayCommitPhase(verifierTr, layerRoots)
	verifierTr.AppendFieldElement(lastValue)
	iota := verifierTr.ChallengeIndex(domainSize)

	g0 := mustGenerator(t, domainSize)
	v0 := layers[0].Poly.Evaluate(cosetOffset.Mul(g0.ExpUint64(iota)))

	tampered := decommitments[0]
	tampered.Layers[0].SymmetricEvaluation = tampered.Layers[0].SymmetricEvaluation.Add(field.One())

	ok, err := VerifyQuery(layerRoots, zetas, cosetOffset, domainSize, lastValue, iota, v0, tampered)
	if err != nil {
		t.Fatalf("VerifyQuery error: %v", err)
	}
	if ok {
		t.Error("VerifyQuery accepted a tampered symmetric evaluation")
	}
}
