// Package field implements arithmetic over the 252-bit prime field used by
// the STARK core: residues modulo p = 2^251 + 17*2^192 + 1. The field has a
// 2-adic subgroup of order 2^192, large enough for any trace size the core
// is expected to handle.
package field

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// ByteLength is the fixed width of a field element's serialized form.
const ByteLength = 32

// Modulus is p = 2^251 + 17*2^192 + 1.
var Modulus = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 251)
	term := new(big.Int).Lsh(big.NewInt(17), 192)
	p.Add(p, term)
	p.Add(p, big.NewInt(1))
	return p
}()

// TwoAdicity is the largest k such that 2^k divides (Modulus-1).
const TwoAdicity = 192

// Generator is a multiplicative generator of the field, used to derive
// primitive roots of unity of any order dividing 2^TwoAdicity * odd.
var Generator = NewFromUint64(3)

// Element is a value in the field, always kept reduced modulo Modulus.
type Element struct {
	value *big.Int
}

// Zero is the additive identity.
func Zero() Element { return Element{value: big.NewInt(0)} }

// One is the multiplicative identity.
func One() Element { return Element{value: big.NewInt(1)} }

// New reduces v modulo Modulus and returns the corresponding element.
func New(v *big.Int) Element {
	r := new(big.Int).Mod(v, Modulus)
	return Element{value: r}
}

// NewFromUint64 builds an element from a uint64.
func NewFromUint64(v uint64) Element {
	return New(new(big.Int).SetUint64(v))
}

// NewFromInt64 builds an element from an int64, handling negatives correctly.
func NewFromInt64(v int64) Element {
	return New(big.NewInt(v))
}

// Random draws a uniformly random element using a CSPRNG.
func Random() (Element, error) {
	v, err := rand.Int(rand.Reader, Modulus)
	if err != nil {
		return Element{}, fmt.Errorf("field: failed to draw random element: %w", err)
	}
	return Element{value: v}, nil
}

// Big returns a copy of the underlying big.Int.
func (e Element) Big() *big.Int {
	return new(big.Int).Set(e.value)
}

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool {
	return e.value.Sign() == 0
}

// IsOne reports whether e is the multiplicative identity.
func (e Element) IsOne() bool {
	return e.value.Cmp(big.NewInt(1)) == 0
}

// Equal reports value equality.
func (e Element) Equal(other Element) bool {
	return e.value.Cmp(other.value) == 0
}

// Add returns e + other.
func (e Element) Add(other Element) Element {
	r := new(big.Int).Add(e.value, other.value)
	r.Mod(r, Modulus)
	return Element{value: r}
}

// Sub returns e - other.
func (e Element) Sub(other Element) Element {
	r := new(big.Int).Sub(e.value, other.value)
	r.Mod(r, Modulus)
	return Element{value: r}
}

// Neg returns -e.
func (e Element) Neg() Element {
	r := new(big.Int).Neg(e.value)
	r.Mod(r, Modulus)
	return Element{value: r}
}

// Mul returns e * other.
func (e Element) Mul(other Element) Element {
	r := new(big.Int).Mul(e.value, other.value)
	r.Mod(r, Modulus)
	return Element{value: r}
}

// Square returns e * e.
func (e Element) Square() Element {
	return e.Mul(e)
}

// Inv returns the multiplicative inverse of e. Returns an error for zero.
func (e Element) Inv() (Element, error) {
	if e.IsZero() {
		return Element{}, fmt.Errorf("field: cannot invert zero element")
	}
	r := new(big.Int).ModInverse(e.value, Modulus)
	if r == nil {
		return Element{}, fmt.Errorf("field: element is not invertible")
	}
	return Element{value: r}, nil
}

// Div returns e / other.
func (e Element) Div(other Element) (Element, error) {
	inv, err := other.Inv()
	if err != nil {
		return Element{}, fmt.Errorf("field: division failed: %w", err)
	}
	return e.Mul(inv), nil
}

// Exp returns e raised to a non-negative exponent.
func (e Element) Exp(exponent *big.Int) Element {
	r := new(big.Int).Exp(e.value, exponent, Modulus)
	return Element{value: r}
}

// ExpUint64 raises e to a uint64 exponent.
func (e Element) ExpUint64(exponent uint64) Element {
	return e.Exp(new(big.Int).SetUint64(exponent))
}

// String renders the decimal representation of the element.
func (e Element) String() string {
	return e.value.String()
}

// Bytes serializes the element as a fixed-width, big-endian 32-byte array.
func (e Element) Bytes() [ByteLength]byte {
	var out [ByteLength]byte
	b := e.value.Bytes()
	copy(out[ByteLength-len(b):], b)
	return out
}

// FromBytes parses a fixed-width big-endian encoding produced by Bytes.
func FromBytes(b []byte) (Element, error) {
	if len(b) != ByteLength {
		return Element{}, fmt.Errorf("field: expected %d bytes, got %d", ByteLength, len(b))
	}
	v := new(big.Int).SetBytes(b)
	if v.Cmp(Modulus) >= 0 {
		return Element{}, fmt.Errorf("field: encoded value exceeds modulus")
	}
	return Element{value: v}, nil
}

// PrimitiveRootOfUnity returns a generator of the unique cyclic subgroup of
// the given order, which must divide 2^TwoAdicity. It errors if order is not
// a power of two or exceeds the field's two-adicity.
func PrimitiveRootOfUnity(order uint64) (Element, error) {
	if order == 0 || (order&(order-1)) != 0 {
		return Element{}, fmt.Errorf("field: subgroup order %d is not a power of two", order)
	}
	bits := 0
	for n := order; n > 1; n >>= 1 {
		bits++
	}
	if bits > TwoAdicity {
		return Element{}, fmt.Errorf("field: subgroup order %d exceeds two-adicity %d", order, TwoAdicity)
	}
	// exponent = (p-1) / order
	exponent := new(big.Int).Sub(Modulus, big.NewInt(1))
	exponent.Div(exponent, new(big.Int).SetUint64(order))
	return Generator.Exp(exponent), nil
}
