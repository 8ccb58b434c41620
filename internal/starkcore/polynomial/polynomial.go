// Package polynomial implements dense univariate polynomials over the
// starkcore prime field: evaluation, interpolation, arithmetic, and the
// vanishing-polynomial construction used by boundary and transition
// zerofiers.
package polynomial

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/vybium/starkcore/internal/starkcore/field"
)

// Polynomial is a dense coefficient vector, lowest degree first. The zero
// polynomial is represented as a single zero coefficient; New trims leading
// zero coefficients so Degree is always exact.
type Polynomial struct {
	coefficients []field.Element
}

// New builds a polynomial from coefficients, trimming trailing zero terms.
func New(coefficients []field.Element) Polynomial {
	end := len(coefficients)
	for end > 0 && coefficients[end-1].IsZero() {
		end--
	}
	if end == 0 {
		return Polynomial{coefficients: []field.Element{field.Zero()}}
	}
	trimmed := make([]field.Element, end)
	copy(trimmed, coefficients[:end])
	return Polynomial{coefficients: trimmed}
}

// Monomial returns coeff * x^degree.
func Monomial(degree int, coeff field.Element) Polynomial {
	coeffs := make([]field.Element, degree+1)
	for i := range coeffs {
		coeffs[i] = field.Zero()
	}
	coeffs[degree] = coeff
	return New(coeffs)
}

// Zero returns the zero polynomial.
func Zero() Polynomial { return New([]field.Element{field.Zero()}) }

// Constant returns a degree-zero polynomial with the given value.
func Constant(v field.Element) Polynomial { return New([]field.Element{v}) }

// Degree returns the polynomial's degree; the zero polynomial has degree 0
// by convention of this package (callers must check IsZero separately).
func (p Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// IsZero reports whether p is identically zero.
func (p Polynomial) IsZero() bool {
	return len(p.coefficients) == 1 && p.coefficients[0].IsZero()
}

// Coefficient returns the coefficient of x^degree, or zero if out of range.
func (p Polynomial) Coefficient(degree int) field.Element {
	if degree < 0 || degree >= len(p.coefficients) {
		return field.Zero()
	}
	return p.coefficients[degree]
}

// Coefficients returns a defensive copy of the coefficient vector.
func (p Polynomial) Coefficients() []field.Element {
	out := make([]field.Element, len(p.coefficients))
	copy(out, p.coefficients)
	return out
}

// LeadingCoefficient returns the coefficient of the highest-degree term.
func (p Polynomial) LeadingCoefficient() field.Element {
	return p.coefficients[len(p.coefficients)-1]
}

// Evaluate computes p(x) via Horner's method.
func (p Polynomial) Evaluate(x field.Element) field.Element {
	result := field.Zero()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

// EvaluateOnDomain evaluates p at every point of domain, in order.
func (p Polynomial) EvaluateOnDomain(domain []field.Element) []field.Element {
	out := make([]field.Element, len(domain))
	for i, x := range domain {
		out[i] = p.Evaluate(x)
	}
	return out
}

// Add returns p + other.
func (p Polynomial) Add(other Polynomial) Polynomial {
	n := len(p.coefficients)
	if len(other.coefficients) > n {
		n = len(other.coefficients)
	}
	out := make([]field.Element, n)
	for i := 0; i < n; i++ {
		out[i] = p.Coefficient(i).Add(other.Coefficient(i))
	}
	return New(out)
}

// Sub returns p - other.
func (p Polynomial) Sub(other Polynomial) Polynomial {
	n := len(p.coefficients)
	if len(other.coefficients) > n {
		n = len(other.coefficients)
	}
	out := make([]field.Element, n)
	for i := 0; i < n; i++ {
		out[i] = p.Coefficient(i).Sub(other.Coefficient(i))
	}
	return New(out)
}

// Neg returns -p.
func (p Polynomial) Neg() Polynomial {
	out := make([]field.Element, len(p.coefficients))
	for i, c := range p.coefficients {
		out[i] = c.Neg()
	}
	return New(out)
}

// Mul returns p * other via schoolbook convolution.
func (p Polynomial) Mul(other Polynomial) Polynomial {
	if p.IsZero() || other.IsZero() {
		return Zero()
	}
	out := make([]field.Element, p.Degree()+other.Degree()+1)
	for i := range out {
		out[i] = field.Zero()
	}
	for i, a := range p.coefficients {
		if a.IsZero() {
			continue
		}
		for j, b := range other.coefficients {
			out[i+j] = out[i+j].Add(a.Mul(b))
		}
	}
	return New(out)
}

// MulScalar returns p scaled by s.
func (p Polynomial) MulScalar(s field.Element) Polynomial {
	out := make([]field.Element, len(p.coefficients))
	for i, c := range p.coefficients {
		out[i] = c.Mul(s)
	}
	return New(out)
}

// Pow raises p to a non-negative integer power via square-and-multiply.
func (p Polynomial) Pow(exponent uint64) Polynomial {
	result := Constant(field.One())
	base := p
	for exponent > 0 {
		if exponent&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exponent >>= 1
	}
	return result
}

// QuoRem divides p by divisor, returning quotient and remainder such that
// p = quotient*divisor + remainder with deg(remainder) < deg(divisor).
func (p Polynomial) QuoRem(divisor Polynomial) (Polynomial, Polynomial, error) {
	if divisor.IsZero() {
		return Polynomial{}, Polynomial{}, fmt.Errorf("polynomial: division by zero polynomial")
	}
	if divisor.Degree() > p.Degree() || p.IsZero() {
		return Zero(), p, nil
	}

	remainder := make([]field.Element, len(p.coefficients))
	copy(remainder, p.coefficients)

	leadInv, err := divisor.LeadingCoefficient().Inv()
	if err != nil {
		return Polynomial{}, Polynomial{}, fmt.Errorf("polynomial: division failed: %w", err)
	}

	quotient := make([]field.Element, p.Degree()-divisor.Degree()+1)
	for i := range quotient {
		quotient[i] = field.Zero()
	}

	for deg := len(remainder) - 1; deg >= divisor.Degree(); deg-- {
		lead := remainder[deg]
		if lead.IsZero() {
			continue
		}
		coeff := lead.Mul(leadInv)
		shift := deg - divisor.Degree()
		quotient[shift] = coeff
		for j, dc := range divisor.coefficients {
			remainder[shift+j] = remainder[shift+j].Sub(coeff.Mul(dc))
		}
	}

	return New(quotient), New(remainder), nil
}

// Div divides p by divisor and errors if the division is not exact, i.e.
// the remainder is nonzero. This is the common case in the prover, where
// every quotient polynomial is expected to divide evenly.
func (p Polynomial) Div(divisor Polynomial) (Polynomial, error) {
	q, r, err := p.QuoRem(divisor)
	if err != nil {
		return Polynomial{}, err
	}
	if !r.IsZero() {
		return Polynomial{}, fmt.Errorf("polynomial: division is not exact, nonzero remainder of degree %d", r.Degree())
	}
	return q, nil
}

// Compose returns p(other(x)).
func (p Polynomial) Compose(other Polynomial) Polynomial {
	result := Zero()
	power := Constant(field.One())
	for _, coeff := range p.coefficients {
		result = result.Add(power.MulScalar(coeff))
		power = power.Mul(other)
	}
	return result
}

// EvenOdd splits p(x) = even(x^2) + x*odd(x^2) and returns (even, odd).
// This is the folding decomposition used throughout FRI.
func (p Polynomial) EvenOdd() (Polynomial, Polynomial) {
	var evenCoeffs, oddCoeffs []field.Element
	for i, c := range p.coefficients {
		if i%2 == 0 {
			evenCoeffs = append(evenCoeffs, c)
		} else {
			oddCoeffs = append(oddCoeffs, c)
		}
	}
	if len(evenCoeffs) == 0 {
		evenCoeffs = []field.Element{field.Zero()}
	}
	if len(oddCoeffs) == 0 {
		oddCoeffs = []field.Element{field.Zero()}
	}
	return New(evenCoeffs), New(oddCoeffs)
}

// Clone returns an independent copy of p.
func (p Polynomial) Clone() Polynomial {
	return New(p.Coefficients())
}

// String renders p in human-readable descending-power form.
func (p Polynomial) String() string {
	if p.IsZero() {
		return "0"
	}
	var terms []string
	for i := p.Degree(); i >= 0; i-- {
		c := p.Coefficient(i)
		if c.IsZero() {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, c.String())
		case 1:
			terms = append(terms, fmt.Sprintf("%sx", c))
		default:
			terms = append(terms, fmt.Sprintf("%sx^%d", c, i))
		}
	}
	return strings.Join(terms, " + ")
}

// Point is an (x, y) pair used for interpolation.
type Point struct {
	X field.Element
	Y field.Element
}

// Interpolate returns the unique lowest-degree polynomial passing through
// all given points, via Lagrange interpolation with a single batched
// denominator inversion.
func Interpolate(points []Point) (Polynomial, error) {
	if len(points) == 0 {
		return Polynomial{}, fmt.Errorf("polynomial: need at least one point to interpolate")
	}

	denominators := make([]field.Element, len(points))
	for i, pi := range points {
		d := field.One()
		for j, pj := range points {
			if i == j {
				continue
			}
			diff := pi.X.Sub(pj.X)
			if diff.IsZero() {
				return Polynomial{}, fmt.Errorf("polynomial: duplicate x-coordinate in interpolation set")
			}
			d = d.Mul(diff)
		}
		denominators[i] = d
	}

	invDenominators, err := field.BatchInvert(denominators)
	if err != nil {
		return Polynomial{}, fmt.Errorf("polynomial: failed to invert denominators: %w", err)
	}

	result := Zero()
	for i, pi := range points {
		basis := Constant(pi.Y.Mul(invDenominators[i]))
		for j, pj := range points {
			if i == j {
				continue
			}
			// multiply by (x - pj.X)
			factor := New([]field.Element{pj.X.Neg(), field.One()})
			basis = basis.Mul(factor)
		}
		result = result.Add(basis)
	}

	return result, nil
}

// Zerofier returns the vanishing polynomial of the given root set,
// Z(x) = Π (x - root).
func Zerofier(roots []field.Element) Polynomial {
	result := Constant(field.One())
	for _, r := range roots {
		result = result.Mul(New([]field.Element{r.Neg(), field.One()}))
	}
	return result
}

// SubgroupZerofier returns x^n - 1, the vanishing polynomial of an order-n
// multiplicative subgroup, without materializing its roots individually.
func SubgroupZerofier(n uint64) Polynomial {
	coeffs := make([]field.Element, n+1)
	for i := range coeffs {
		coeffs[i] = field.Zero()
	}
	coeffs[0] = field.NewFromInt64(-1)
	coeffs[n] = field.One()
	return New(coeffs)
}

// BigIntExponent is a convenience for building big.Int exponents used by
// field.Element.Exp from small integers, kept here so callers constructing
// degree-adjustment terms don't need to import math/big directly.
func BigIntExponent(n uint64) *big.Int {
	return new(big.Int).SetUint64(n)
}
