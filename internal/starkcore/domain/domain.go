// Package domain constructs the two evaluation domains the prover and
// verifier share: the trace-length subgroup of roots of unity, and the
// blown-up, coset-shifted low-degree-extension (LDE) domain.
package domain

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/field"
)

// Domain holds both domains derived from a trace length and a blowup
// factor. It is immutable after construction and safe to share by read.
type Domain struct {
	TraceLength  uint64
	BlowupFactor uint64
	CosetOffset  field.Element

	traceGenerator field.Element
	ldeGenerator   field.Element
}

// New derives trace and LDE domains for the given trace length and blowup
// factor. cosetOffset must be nonzero and must not coincide with any trace
// root, so the LDE domain stays disjoint from the trace domain (spec
// invariant: trace roots are a subset of the LDE roots only when the
// offset is 1, which this core never uses).
func New(traceLength, blowupFactor uint64, cosetOffset field.Element) (*Domain, error) {
	if traceLength == 0 || (traceLength&(traceLength-1)) != 0 {
		return nil, fmt.Errorf("domain: trace length %d must be a power of two", traceLength)
	}
	if blowupFactor == 0 || (blowupFactor&(blowupFactor-1)) != 0 {
		return nil, fmt.Errorf("domain: blowup factor %d must be a power of two", blowupFactor)
	}
	if cosetOffset.IsZero() {
		return nil, fmt.Errorf("domain: coset offset must be nonzero")
	}

	traceGen, err := field.PrimitiveRootOfUnity(traceLength)
	if err != nil {
		return nil, fmt.Errorf("domain: failed to derive trace generator: %w", err)
	}

	ldeSize := traceLength * blowupFactor
	ldeGen, err := field.PrimitiveRootOfUnity(ldeSize)
	if err != nil {
		return nil, fmt.Errorf("domain: failed to derive LDE generator: %w", err)
	}

	d := &Domain{
		TraceLength:    traceLength,
		BlowupFactor:   blowupFactor,
		CosetOffset:    cosetOffset,
		traceGenerator: traceGen,
		ldeGenerator:   ldeGen,
	}

	if d.offsetHitsTraceRoot() {
		return nil, fmt.Errorf("domain: coset offset coincides with a trace root")
	}
	// An offset inside the LDE subgroup makes the coset that subgroup,
	// which contains every trace root.
	if cosetOffset.ExpUint64(ldeSize).IsOne() {
		return nil, fmt.Errorf("domain: coset offset lies in the LDE subgroup, so the LDE coset contains the trace roots")
	}

	return d, nil
}

func (d *Domain) offsetHitsTraceRoot() bool {
	// The offset collides with a trace root only if offset^TraceLength == 1.
	return d.CosetOffset.ExpUint64(d.TraceLength).IsOne()
}

// TraceGenerator returns the primitive root of unity of order TraceLength.
func (d *Domain) TraceGenerator() field.Element {
	return d.traceGenerator
}

// LDEGenerator returns the primitive root of unity of order
// TraceLength*BlowupFactor.
func (d *Domain) LDEGenerator() field.Element {
	return d.ldeGenerator
}

// LDESize returns the size of the LDE domain.
func (d *Domain) LDESize() uint64 {
	return d.TraceLength * d.BlowupFactor
}

// TraceRoots returns the full trace-length subgroup, ω^0 .. ω^(n-1).
func (d *Domain) TraceRoots() []field.Element {
	roots := make([]field.Element, d.TraceLength)
	current := field.One()
	for i := range roots {
		roots[i] = current
		current = current.Mul(d.traceGenerator)
	}
	return roots
}

// TraceRootPower returns ω^k, the k-th power of the trace generator, used
// to express frame offsets g^k.
func (d *Domain) TraceRootPower(k uint64) field.Element {
	return d.traceGenerator.ExpUint64(k)
}

// LDECoset returns the coset-shifted LDE domain: offset * g^i for
// i = 0 .. LDESize-1.
func (d *Domain) LDECoset() []field.Element {
	coset := make([]field.Element, d.LDESize())
	current := d.CosetOffset
	for i := range coset {
		coset[i] = current
		current = current.Mul(d.ldeGenerator)
	}
	return coset
}

// LDEPoint returns the i-th point of the LDE coset without materializing
// the whole domain.
func (d *Domain) LDEPoint(i uint64) field.Element {
	return d.CosetOffset.Mul(d.ldeGenerator.ExpUint64(i))
}
