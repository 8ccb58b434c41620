package fri

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// ReplayCommitPhase appends each received layer root into the verifier's
// transcript and draws the matching fold challenge, exactly mirroring the
// append-then-draw order of CommitPhase. It returns one challenge per
// layer, in commit order.
func ReplayCommitPhase(tr *transcript.Transcript, layerRoots []merkle.Digest) []field.Element {
	zetas := make([]field.Element, len(layerRoots))
	for i, root := range layerRoots {
		tr.AppendDigest(root)
		zetas[i] = tr.ChallengeFieldElement()
	}
	return zetas
}

// VerifyQuery checks one query's FRI opening: every layer's symmetric
// Merkle opening, the co-linearity chain from v0 through to the final
// layer, and that the chain lands on last_value. v0 is not authenticated
// here; the caller must independently reconstruct it from Deep composition
// consistency before calling VerifyQuery.
func VerifyQuery(
	layerRoots []merkle.Digest,
	zetas []field.Element,
	cosetOffset0 field.Element,
	domainSize0 uint64,
	lastValue field.Element,
	iota uint64,
	v0 field.Element,
	decommitment QueryDecommitment,
) (bool, error) {
	if len(decommitment.Layers) != len(layerRoots) || len(decommitment.Layers) != len(zetas) {
		return false, fmt.Errorf("fri: query decommitment layer count %d does not match %d committed layers",
			len(decommitment.Layers), len(layerRoots))
	}

	two, err := field.NewFromUint64(2).Inv()
	if err != nil {
		return false, fmt.Errorf("fri: failed to invert 2: %w", err)
	}

	v := v0
	offset := cosetOffset0
	size := domainSize0

	for k, opening := range decommitment.Layers {
		symIndex := (iota + size/2) % size
		if !merkle.Verify(layerRoots[k], []field.Element{opening.SymmetricEvaluation}, int(symIndex), opening.SymmetricAuthPath) {
			return false, nil
		}

		g, err := field.PrimitiveRootOfUnity(size)
		if err != nil {
			return false, fmt.Errorf("fri: failed to derive layer %d generator: %w", k, err)
		}
		x := offset.Mul(g.ExpUint64(iota % size))
		xInv, err := x.Inv()
		if err != nil {
			return false, fmt.Errorf("fri: evaluation point at layer %d is zero: %w", k, err)
		}

		sym := opening.SymmetricEvaluation
		half := v.Add(sym).Mul(two)
		diff := v.Sub(sym).Mul(two).Mul(xInv)
		v = half.Add(zetas[k].Mul(diff))

		offset = offset.Square()
		size /= 2
	}

	return v.Equal(lastValue), nil
}
