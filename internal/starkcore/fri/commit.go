// Package fri implements the FRI (Fast Reed-Solomon IOP of Proximity)
// low-degree test: recursive polynomial folding committed layer by layer
// under Merkle trees, followed by symmetric-pair query decommitments.
package fri

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
	"github.com/vybium/starkcore/internal/starkcore/polynomial"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// Layer is one committed step of the FRI folding chain: the polynomial at
// this layer, its evaluations over its own coset, and the Merkle tree over
// those evaluations.
type Layer struct {
	Poly        polynomial.Polynomial
	Evaluations []field.Element
	Tree        *merkle.Tree
	CosetOffset field.Element
	DomainSize  uint64
}

// domainFromOffset returns the coset domain offset*g^i, i=0..size-1, where
// g is the primitive root of unity of order size.
func domainFromOffset(offset field.Element, size uint64) ([]field.Element, error) {
	g, err := field.PrimitiveRootOfUnity(size)
	if err != nil {
		return nil, fmt.Errorf("fri: failed to derive domain generator for size %d: %w", size, err)
	}
	points := make([]field.Element, size)
	current := offset
	for i := range points {
		points[i] = current
		current = current.Mul(g)
	}
	return points, nil
}

func commitLayer(poly polynomial.Polynomial, offset field.Element, size uint64) (*Layer, error) {
	domainPoints, err := domainFromOffset(offset, size)
	if err != nil {
		return nil, err
	}
	evals := poly.EvaluateOnDomain(domainPoints)

	leaves := make([][]field.Element, len(evals))
	for i, e := range evals {
		leaves[i] = []field.Element{e}
	}
	tree, err := merkle.Build(leaves)
	if err != nil {
		return nil, fmt.Errorf("fri: failed to build layer Merkle tree: %w", err)
	}

	return &Layer{
		Poly:        poly,
		Evaluations: evals,
		Tree:        tree,
		CosetOffset: offset,
		DomainSize:  size,
	}, nil
}

// CommitPhase folds p0 repeatedly until it is a constant polynomial,
// committing a Merkle tree per layer and appending its root to the
// transcript before drawing the next fold challenge. The final constant's
// sole coefficient (last_value) is appended to the transcript without a
// Merkle commitment; the verifier checks that every query's co-linearity
// chain ends on it.
func CommitPhase(tr *transcript.Transcript, p0 polynomial.Polynomial, cosetOffset field.Element, domainSize uint64) ([]*Layer, field.Element, error) {
	if domainSize == 0 || (domainSize&(domainSize-1)) != 0 {
		return nil, field.Element{}, fmt.Errorf("fri: domain size %d must be a power of two", domainSize)
	}

	var layers []*Layer
	currentPoly := p0
	currentOffset := cosetOffset
	currentSize := domainSize

	for currentPoly.Degree() > 0 && currentSize > 1 {
		layer, err := commitLayer(currentPoly, currentOffset, currentSize)
		if err != nil {
			return nil, field.Element{}, err
		}
		layers = append(layers, layer)
		tr.AppendDigest(layer.Tree.Root())

		zeta := tr.ChallengeFieldElement()
		even, odd := currentPoly.EvenOdd()
		currentPoly = even.Add(odd.MulScalar(zeta))
		currentOffset = currentOffset.Square()
		currentSize /= 2
	}

	lastValue := currentPoly.Coefficient(0)
	tr.AppendFieldElement(lastValue)

	return layers, lastValue, nil
}
