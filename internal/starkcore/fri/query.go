package fri

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// LayerDecommitment is one FRI layer's contribution to a single query: the
// symmetric evaluation and its Merkle path. The non-symmetric (iota_s)
// evaluation is never sent; for layer 0 it is recovered from Deep
// composition consistency, and for every later layer it is recomputed from
// the previous layer's co-linearity equation.
type LayerDecommitment struct {
	SymmetricEvaluation field.Element
	SymmetricAuthPath   merkle.AuthPath
}

// QueryDecommitment bundles one query's full FRI opening, across all
// layers, at a single iota index.
type QueryDecommitment struct {
	Iota   uint64
	Layers []LayerDecommitment
}

// QueryPhase draws fri_number_of_queries indices from the transcript and
// opens the symmetric evaluation of every layer at each one.
func QueryPhase(tr *transcript.Transcript, layers []*Layer, numberOfQueries int) ([]QueryDecommitment, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("fri: cannot query with no committed layers")
	}
	domainSize := layers[0].DomainSize

	out := make([]QueryDecommitment, numberOfQueries)
	for q := 0; q < numberOfQueries; q++ {
		iota := tr.ChallengeIndex(domainSize)

		layerOpenings := make([]LayerDecommitment, len(layers))
		for k, layer := range layers {
			symIndex := (iota + layer.DomainSize/2) % layer.DomainSize
			path, err := layer.Tree.Prove(int(symIndex))
			if err != nil {
				return nil, fmt.Errorf("fri: failed to prove layer %d at query %d: %w", k, q, err)
			}
			layerOpenings[k] = LayerDecommitment{
				SymmetricEvaluation: layer.Evaluations[symIndex],
				SymmetricAuthPath:   path,
			}
		}

		out[q] = QueryDecommitment{Iota: iota, Layers: layerOpenings}
	}

	return out, nil
}
