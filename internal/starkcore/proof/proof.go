// Package proof defines the StarkProof wire format: every value a prover
// emits and a verifier consumes, plus its byte-exact binary encoding.
package proof

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/fri"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
)

// Decommitment is one query's full opening: the main-trace leaf, the
// auxiliary-trace leaf (if the AIR has one), and the composition leaf at
// iota, each with its own Merkle path, plus the FRI layer openings for
// that same iota.
type Decommitment struct {
	Iota uint64

	MainTraceLeaf     []field.Element
	MainTraceAuthPath merkle.AuthPath

	AuxTraceLeaf     []field.Element // empty if the AIR has no auxiliary columns
	AuxTraceAuthPath merkle.AuthPath

	CompositionLeaf     [2]field.Element // H1(upsilon), H2(upsilon)
	CompositionAuthPath merkle.AuthPath

	FRILayers []fri.LayerDecommitment
}

// StarkProof is everything the verifier needs, independent of the AIR's
// Go type: trace commitments, out-of-domain evaluations, the composition
// commitment, the full FRI transcript, and per-query decommitments.
type StarkProof struct {
	TraceLength uint64

	MainTraceRoot   merkle.Digest
	HasAuxTrace     bool
	AuxTraceRoot    merkle.Digest
	CompositionRoot merkle.Digest

	// TraceOODEvaluations[j][k] = t_j(z*g^offset_k) for every column
	// (main columns first, then auxiliary), column-major then offset-major.
	TraceOODEvaluations [][]field.Element
	H1AtZSquared        field.Element
	H2AtZSquared        field.Element

	FRILayerRoots []merkle.Digest
	FRILastValue  field.Element

	Nonce uint64

	Decommitments []Decommitment
}

func putDigest(buf []byte, d merkle.Digest) []byte {
	return append(buf, d[:]...)
}

func putElement(buf []byte, e field.Element) []byte {
	b := e.Bytes()
	return append(buf, b[:]...)
}

func putUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func putUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func putAuthPath(buf []byte, path merkle.AuthPath) []byte {
	buf = putUint32(buf, uint32(len(path)))
	for _, d := range path {
		buf = putDigest(buf, d)
	}
	return buf
}

// MarshalBinary encodes the proof per the core's byte-exact wire format.
// numMainColumns and numAuxColumns describe the AIR's shape and are not
// self-describing in the stream; their sum must match the number of
// columns in TraceOODEvaluations.
func (p *StarkProof) MarshalBinary(numMainColumns, numAuxColumns int) ([]byte, error) {
	if len(p.TraceOODEvaluations) != numMainColumns+numAuxColumns {
		return nil, fmt.Errorf("proof: trace OOD evaluation column count %d does not match %d main + %d aux",
			len(p.TraceOODEvaluations), numMainColumns, numAuxColumns)
	}

	var buf []byte
	buf = putUint64(buf, p.TraceLength)
	buf = putDigest(buf, p.MainTraceRoot)
	if p.HasAuxTrace {
		buf = putDigest(buf, p.AuxTraceRoot)
	}
	buf = putDigest(buf, p.CompositionRoot)

	for _, column := range p.TraceOODEvaluations {
		for _, v := range column {
			buf = putElement(buf, v)
		}
	}

	buf = putElement(buf, p.H1AtZSquared)
	buf = putElement(buf, p.H2AtZSquared)

	buf = putUint32(buf, uint32(len(p.FRILayerRoots)))
	for _, root := range p.FRILayerRoots {
		buf = putDigest(buf, root)
	}
	buf = putElement(buf, p.FRILastValue)

	buf = putUint64(buf, p.Nonce)

	buf = putUint32(buf, uint32(len(p.Decommitments)))
	for _, d := range p.Decommitments {
		for _, v := range d.MainTraceLeaf {
			buf = putElement(buf, v)
		}
		buf = putAuthPath(buf, d.MainTraceAuthPath)
		if p.HasAuxTrace {
			for _, v := range d.AuxTraceLeaf {
				buf = putElement(buf, v)
			}
			buf = putAuthPath(buf, d.AuxTraceAuthPath)
		}
		buf = putElement(buf, d.CompositionLeaf[0])
		buf = putElement(buf, d.CompositionLeaf[1])
		buf = putAuthPath(buf, d.CompositionAuthPath)
		for _, layer := range d.FRILayers {
			buf = putElement(buf, layer.SymmetricEvaluation)
			buf = putAuthPath(buf, layer.SymmetricAuthPath)
		}
	}

	return buf, nil
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) digest() (merkle.Digest, error) {
	if r.pos+32 > len(r.data) {
		return merkle.Digest{}, fmt.Errorf("proof: unexpected end of buffer reading digest")
	}
	var d merkle.Digest
	copy(d[:], r.data[r.pos:r.pos+32])
	r.pos += 32
	return d, nil
}

func (r *reader) element() (field.Element, error) {
	if r.pos+field.ByteLength > len(r.data) {
		return field.Element{}, fmt.Errorf("proof: unexpected end of buffer reading element")
	}
	e, err := field.FromBytes(r.data[r.pos : r.pos+field.ByteLength])
	if err != nil {
		return field.Element{}, fmt.Errorf("proof: invalid field element encoding: %w", err)
	}
	r.pos += field.ByteLength
	return e, nil
}

func (r *reader) uint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("proof: unexpected end of buffer reading uint64")
	}
	v := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) uint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("proof: unexpected end of buffer reading uint32")
	}
	v := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) authPath() (merkle.AuthPath, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	path := make(merkle.AuthPath, n)
	for i := range path {
		d, err := r.digest()
		if err != nil {
			return nil, err
		}
		path[i] = d
	}
	return path, nil
}

// UnmarshalBinary decodes a proof produced by MarshalBinary. numMainColumns,
// numAuxColumns, numOffsets and hasAuxTrace describe the AIR's shape and
// must match what the prover used to build the proof. Decommitment.Iota is
// not part of the encoding, so every decoded decommitment has Iota 0.
func UnmarshalBinary(data []byte, numMainColumns, numAuxColumns, numOffsets int, hasAuxTrace bool) (*StarkProof, error) {
	r := &reader{data: data}
	p := &StarkProof{HasAuxTrace: hasAuxTrace}

	var err error
	if p.TraceLength, err = r.uint64(); err != nil {
		return nil, err
	}
	if p.MainTraceRoot, err = r.digest(); err != nil {
		return nil, err
	}
	if hasAuxTrace {
		if p.AuxTraceRoot, err = r.digest(); err != nil {
			return nil, err
		}
	}
	if p.CompositionRoot, err = r.digest(); err != nil {
		return nil, err
	}

	numColumns := numMainColumns + numAuxColumns
	p.TraceOODEvaluations = make([][]field.Element, numColumns)
	for j := range p.TraceOODEvaluations {
		col := make([]field.Element, numOffsets)
		for k := range col {
			if col[k], err = r.element(); err != nil {
				return nil, err
			}
		}
		p.TraceOODEvaluations[j] = col
	}

	if p.H1AtZSquared, err = r.element(); err != nil {
		return nil, err
	}
	if p.H2AtZSquared, err = r.element(); err != nil {
		return nil, err
	}

	layerCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	p.FRILayerRoots = make([]merkle.Digest, layerCount)
	for i := range p.FRILayerRoots {
		if p.FRILayerRoots[i], err = r.digest(); err != nil {
			return nil, err
		}
	}
	if p.FRILastValue, err = r.element(); err != nil {
		return nil, err
	}

	if p.Nonce, err = r.uint64(); err != nil {
		return nil, err
	}

	queryCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	p.Decommitments = make([]Decommitment, queryCount)
	for q := range p.Decommitments {
		d := Decommitment{}
		d.MainTraceLeaf = make([]field.Element, numMainColumns)
		for j := range d.MainTraceLeaf {
			if d.MainTraceLeaf[j], err = r.element(); err != nil {
				return nil, err
			}
		}
		if d.MainTraceAuthPath, err = r.authPath(); err != nil {
			return nil, err
		}
		if hasAuxTrace {
			d.AuxTraceLeaf = make([]field.Element, numAuxColumns)
			for j := range d.AuxTraceLeaf {
				if d.AuxTraceLeaf[j], err = r.element(); err != nil {
					return nil, err
				}
			}
			if d.AuxTraceAuthPath, err = r.authPath(); err != nil {
				return nil, err
			}
		}
		if d.CompositionLeaf[0], err = r.element(); err != nil {
			return nil, err
		}
		if d.CompositionLeaf[1], err = r.element(); err != nil {
			return nil, err
		}
		if d.CompositionAuthPath, err = r.authPath(); err != nil {
			return nil, err
		}
		d.FRILayers = make([]fri.LayerDecommitment, layerCount)
		for k := range d.FRILayers {
			sym, err := r.element()
			if err != nil {
				return nil, err
			}
			path, err := r.authPath()
			if err != nil {
				return nil, err
			}
			d.FRILayers[k] = fri.LayerDecommitment{SymmetricEvaluation: sym, SymmetricAuthPath: path}
		}
		p.Decommitments[q] = d
	}

	return p, nil
}
