// Package transcript implements the Fiat-Shamir append-and-challenge
// sponge shared by prover and verifier. It is the sole source of
// randomness in the protocol: the same sequence of appends must yield the
// same sequence of challenges on both sides, byte for byte.
package transcript

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/starkcore/internal/starkcore/field"
)

// Transcript is a single-owner, single-writer sponge. It must never be
// shared across goroutines; the prover and verifier each own exactly one
// instance for the lifetime of a proof.
type Transcript struct {
	state [32]byte
}

// New returns a fresh transcript with a zeroed initial state.
func New() *Transcript {
	return &Transcript{}
}

// Append absorbs data into the sponge state.
func (t *Transcript) Append(data []byte) {
	h := sha3.New256()
	h.Write(t.state[:])
	h.Write(data)
	copy(t.state[:], h.Sum(nil))
}

// AppendDigest absorbs a 32-byte digest (a Merkle root, typically).
func (t *Transcript) AppendDigest(d [32]byte) {
	t.Append(d[:])
}

// AppendFieldElement absorbs a single field element's fixed-width encoding.
func (t *Transcript) AppendFieldElement(e field.Element) {
	b := e.Bytes()
	t.Append(b[:])
}

// AppendFieldElements absorbs a slice of field elements in order.
func (t *Transcript) AppendFieldElements(es []field.Element) {
	for _, e := range es {
		t.AppendFieldElement(e)
	}
}

// AppendUint64 absorbs a big-endian uint64 (used for the grinding nonce).
func (t *Transcript) AppendUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	t.Append(b[:])
}

// Challenge draws the next 32-byte digest and ratchets the sponge state so
// consecutive draws differ deterministically.
func (t *Transcript) Challenge() [32]byte {
	h := sha3.New256()
	h.Write(t.state[:])
	h.Write([]byte{0x01}) // domain separator: challenge draw, not an append
	var out [32]byte
	copy(out[:], h.Sum(nil))
	t.state = out
	return out
}

// ChallengeFieldElement derives a field element from the first 8 bytes of a
// fresh challenge, read big-endian. A single transcript draw underlies every combination
// coefficient and fold challenge in the protocol.
func (t *Transcript) ChallengeFieldElement() field.Element {
	c := t.Challenge()
	v := binary.BigEndian.Uint64(c[:8])
	return field.NewFromUint64(v)
}

// ChallengeFieldElements draws n independent field elements in order.
func (t *Transcript) ChallengeFieldElements(n int) []field.Element {
	out := make([]field.Element, n)
	for i := range out {
		out[i] = t.ChallengeFieldElement()
	}
	return out
}

// ChallengeIndex derives an index in [0, bound) from the first 8 bytes of a
// fresh challenge, read big-endian, modulo bound. bound must be positive.
func (t *Transcript) ChallengeIndex(bound uint64) uint64 {
	c := t.Challenge()
	v := binary.BigEndian.Uint64(c[:8])
	return v % bound
}

// ChallengeIndices draws n independent query indices in [0, bound).
func (t *Transcript) ChallengeIndices(n int, bound uint64) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = t.ChallengeIndex(bound)
	}
	return out
}
