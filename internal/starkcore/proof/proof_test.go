package proof

import (
	"testing"

	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/fri"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
)

func sampleProof() *StarkProof {
	return &StarkProof{
		TraceLength:     8,
		MainTraceRoot:   merkle.Digest{1, 2, 3},
		HasAuxTrace:     true,
		AuxTraceRoot:    merkle.Digest{4, 5, 6},
		CompositionRoot: merkle.Digest{7, 8, 9},
		TraceOODEvaluations: [][]field.Element{
			{field.NewFromUint64(10), field.NewFromUint64(11)},
			{field.NewFromUint64(12), field.NewFromUint64(13)},
		},
		H1AtZSquared:  field.NewFromUint64(100),
		H2AtZSquared:  field.NewFromUint64(200),
		FRILayerRoots: []merkle.Digest{{9, 9, 9}, {8, 8, 8}},
		FRILastValue:  field.NewFromUint64(42),
		Nonce:         999,
		Decommitments: []Decommitment{
			{
				MainTraceLeaf:       []field.Element{field.NewFromUint64(1)},
				MainTraceAuthPath:   merkle.AuthPath{{1}, {2}},
				AuxTraceLeaf:        []field.Element{field.NewFromUint64(2)},
				AuxTraceAuthPath:    merkle.AuthPath{{3}},
				CompositionLeaf:     [2]field.Element{field.NewFromUint64(3), field.NewFromUint64(4)},
				CompositionAuthPath: merkle.AuthPath{{5}},
				FRILayers: []fri.LayerDecommitment{
					{SymmetricEvaluation: field.NewFromUint64(7), SymmetricAuthPath: merkle.AuthPath{{6}}},
					{SymmetricEvaluation: field.NewFromUint64(8), SymmetricAuthPath: merkle.AuthPath{{7}}},
				},
			},
		},
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	p := sampleProof()
	data, err := p.MarshalBinary(1, 1)
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	got, err := UnmarshalBinary(data, 1, 1, 2, true)
	if err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}

	if got.TraceLength != p.TraceLength {
		t.Errorf("TraceLength = %d, want %d", got.TraceLength, p.TraceLength)
	}
	if got.MainTraceRoot != p.MainTraceRoot {
		t.Error("MainTraceRoot mismatch")
	}
	if got.AuxTraceRoot != p.AuxTraceRoot {
		t.Error("AuxTraceRoot mismatch")
	}
	if !got.FRILastValue.Equal(p.FRILastValue) {
		t.Error("FRILastValue mismatch")
	}
	if len(got.Decommitments) != 1 || len(got.Decommitments[0].FRILayers) != 2 {
		t.Fatal("decommitment shape mismatch")
	}
	if !got.Decommitments[0].AuxTraceLeaf[0].Equal(field.NewFromUint64(2)) {
		t.Error("aux trace leaf value mismatch after round trip")
	}
}

func TestUnmarshalRejectsTruncatedBuffer(t *testing.T) {
	p := sampleProof()
	data, err := p.MarshalBinary(1, 1)
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if _, err := UnmarshalBinary(data[:len(data)-10], 1, 1, 2, true); err == nil {
		t.Error("expected error decoding a truncated buffer")
	}
}
