// Package constraints builds and evaluates the composition polynomial: the
// single low-degree combination of every boundary and transition quotient,
// weighted by Fiat-Shamir-drawn coefficients. The same per-point formula
// serves both the prover (evaluated at every LDE point, then interpolated
// back to recover H's coefficients) and the verifier (evaluated once, at
// the out-of-domain point z, with no polynomial algebra at all).
package constraints

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/domain"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/polynomial"
)

// Coeffs is one (alpha, beta) degree-adjustment coefficient pair.
type Coeffs struct {
	Alpha field.Element
	Beta  field.Element
}

// DegreeAdjustment returns alpha*x^shift + beta.
func DegreeAdjustment(x field.Element, shift uint64, c Coeffs) field.Element {
	return c.Alpha.Mul(x.ExpUint64(shift)).Add(c.Beta)
}

// BoundaryTerm holds, for one column, the small explicit polynomials
// needed to evaluate its boundary quotient at any point: vj interpolates
// the pinned (row, value) pairs and Zj is their vanishing polynomial.
// Inactive columns (no boundary constraints) contribute nothing to H, but
// still consume a coefficient draw to keep the transcript schedule fixed.
type BoundaryTerm struct {
	Active bool
	V      polynomial.Polynomial
	Z      polynomial.Polynomial
}

// GroupBoundaryConstraintsByColumn buckets constraints by column index for
// columns 0..totalColumns-1.
func GroupBoundaryConstraintsByColumn(totalColumns int, cs []air.BoundaryConstraint) [][]air.BoundaryConstraint {
	grouped := make([][]air.BoundaryConstraint, totalColumns)
	for _, c := range cs {
		grouped[c.Column] = append(grouped[c.Column], c)
	}
	return grouped
}

// BuildBoundaryTerms derives vj and Zj for every column from the grouped
// boundary constraints and the trace domain's roots of unity.
func BuildBoundaryTerms(dom *domain.Domain, grouped [][]air.BoundaryConstraint) ([]BoundaryTerm, error) {
	roots := dom.TraceRoots()
	out := make([]BoundaryTerm, len(grouped))
	for j, cs := range grouped {
		if len(cs) == 0 {
			out[j] = BoundaryTerm{Active: false}
			continue
		}
		points := make([]polynomial.Point, len(cs))
		zeroRoots := make([]field.Element, len(cs))
		for i, c := range cs {
			if c.Row >= uint64(len(roots)) {
				return nil, fmt.Errorf("constraints: boundary row %d out of range for trace length %d", c.Row, len(roots))
			}
			root := roots[c.Row]
			points[i] = polynomial.Point{X: root, Y: c.Value}
			zeroRoots[i] = root
		}
		v, err := polynomial.Interpolate(points)
		if err != nil {
			return nil, fmt.Errorf("constraints: failed to build vj for column %d: %w", j, err)
		}
		out[j] = BoundaryTerm{
			Active: true,
			V:      v,
			Z:      polynomial.Zerofier(zeroRoots),
		}
	}
	return out, nil
}

// ValueAt evaluates H(x) = sum of degree-adjusted boundary and transition
// terms at a single point x, given the per-column t_j(x) values and a
// frame built at x (read from the LDE-extended trace for the prover, or
// from received out-of-domain evaluations for the verifier). No polynomial
// division is performed here: every quotient is a field-element ratio.
func ValueAt(
	a air.AIR,
	traceLength uint64,
	degreeBound uint64,
	x field.Element,
	tAt []field.Element,
	boundaryTerms []BoundaryTerm,
	frame air.Frame,
	rap air.RAPChallenges,
	exemptionPolys []polynomial.Polynomial,
	transitionDegrees []uint64,
	boundaryCoeffs, transitionCoeffs []Coeffs,
) (field.Element, error) {
	if len(tAt) != len(boundaryTerms) || len(tAt) != len(boundaryCoeffs) {
		return field.Element{}, fmt.Errorf("constraints: column count mismatch (t=%d, terms=%d, coeffs=%d)",
			len(tAt), len(boundaryTerms), len(boundaryCoeffs))
	}
	if degreeBound < traceLength {
		return field.Element{}, fmt.Errorf("constraints: degree bound %d is smaller than trace length %d", degreeBound, traceLength)
	}

	h := field.Zero()
	boundaryShift := degreeBound - traceLength

	for j, bt := range boundaryTerms {
		if !bt.Active {
			continue
		}
		zAtX := bt.Z.Evaluate(x)
		if zAtX.IsZero() {
			return field.Element{}, fmt.Errorf("constraints: boundary zerofier vanished at evaluation point for column %d", j)
		}
		zInv, err := zAtX.Inv()
		if err != nil {
			return field.Element{}, fmt.Errorf("constraints: failed to invert boundary zerofier: %w", err)
		}
		bj := tAt[j].Sub(bt.V.Evaluate(x)).Mul(zInv)
		h = h.Add(bj.Mul(DegreeAdjustment(x, boundaryShift, boundaryCoeffs[j])))
	}

	transitionVals := a.ComputeTransition(frame, rap)
	if len(transitionVals) != len(transitionCoeffs) || len(transitionVals) != len(exemptionPolys) || len(transitionVals) != len(transitionDegrees) {
		return field.Element{}, fmt.Errorf("constraints: transition constraint count mismatch")
	}

	zTransAtX := x.ExpUint64(traceLength).Sub(field.One())
	if zTransAtX.IsZero() {
		return field.Element{}, fmt.Errorf("constraints: transition zerofier vanished at evaluation point (x is a trace root)")
	}
	zTransInv, err := zTransAtX.Inv()
	if err != nil {
		return field.Element{}, fmt.Errorf("constraints: failed to invert transition zerofier: %w", err)
	}

	for i, val := range transitionVals {
		degree := transitionDegrees[i]
		if degree == 0 {
			return field.Element{}, fmt.Errorf("constraints: transition constraint %d has degree 0", i)
		}
		// C_i*E_i/(x^n-1) has degree degree*(n-1) + deg(E_i) - n; the
		// adjustment lifts it to degree D-1.
		quotientDegree := int64(degree*(traceLength-1)) + int64(exemptionPolys[i].Degree()) - int64(traceLength)
		if quotientDegree > int64(degreeBound)-1 {
			return field.Element{}, fmt.Errorf("constraints: degree bound too small for transition constraint %d", i)
		}
		shift := uint64(int64(degreeBound) - 1 - quotientDegree)
		ei := exemptionPolys[i].Evaluate(x)
		ti := val.Mul(ei).Mul(zTransInv)
		h = h.Add(ti.Mul(DegreeAdjustment(x, shift, transitionCoeffs[i])))
	}

	return h, nil
}

// EvaluateOnLDE computes H's evaluation vector over the full LDE domain,
// by calling ValueAt at every index. columnsLDE holds every column (main
// then auxiliary) already extended to the LDE domain; blowupFactor and the
// transition offsets determine how frames are read at each LDE index via
// air.ReadFrameFromLDE.
func EvaluateOnLDE(
	a air.AIR,
	dom *domain.Domain,
	columnsLDE [][]field.Element,
	offsets []uint64,
	degreeBound uint64,
	boundaryTerms []BoundaryTerm,
	rap air.RAPChallenges,
	exemptionPolys []polynomial.Polynomial,
	transitionDegrees []uint64,
	boundaryCoeffs, transitionCoeffs []Coeffs,
) ([]field.Element, error) {
	ldeSize := dom.LDESize()
	out := make([]field.Element, ldeSize)

	for i := uint64(0); i < ldeSize; i++ {
		x := dom.LDEPoint(i)
		tAt := make([]field.Element, len(columnsLDE))
		for j, col := range columnsLDE {
			tAt[j] = col[i]
		}
		frame := air.ReadFrameFromLDE(columnsLDE, i, dom.BlowupFactor, ldeSize, offsets)

		val, err := ValueAt(a, dom.TraceLength, degreeBound, x, tAt, boundaryTerms, frame, rap,
			exemptionPolys, transitionDegrees, boundaryCoeffs, transitionCoeffs)
		if err != nil {
			return nil, fmt.Errorf("constraints: evaluation failed at LDE index %d: %w", i, err)
		}
		out[i] = val
	}

	return out, nil
}
