// Package pow implements the grinding proof-of-work check used to raise a
// proof's soundness past what its query count alone provides: the prover
// must find a nonce whose digest has enough leading zero bits.
package pow

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/crypto/sha3"
)

// LeadingZeroBits counts the number of leading zero bits in digest.
func LeadingZeroBits(digest [32]byte) int {
	count := 0
	for _, b := range digest {
		if b == 0 {
			count += 8
			continue
		}
		for mask := byte(0x80); mask > 0; mask >>= 1 {
			if b&mask != 0 {
				return count
			}
			count++
		}
	}
	return count
}

func digest(challenge [32]byte, nonce uint64) [32]byte {
	h := sha3.New256()
	h.Write(challenge[:])
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	h.Write(n[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// FindNonce searches for the smallest nonce such that
// hash(challenge || nonce) has at least grindingFactor leading zero bits.
func FindNonce(challenge [32]byte, grindingFactor uint8) (uint64, error) {
	if grindingFactor == 0 {
		return 0, nil
	}
	limit := uint64(math.MaxUint64)
	for nonce := uint64(0); nonce < limit; nonce++ {
		if LeadingZeroBits(digest(challenge, nonce)) >= int(grindingFactor) {
			return nonce, nil
		}
	}
	return 0, fmt.Errorf("pow: exhausted nonce space without meeting grinding factor %d", grindingFactor)
}

// CheckNonce reports whether nonce satisfies the grinding requirement.
func CheckNonce(challenge [32]byte, nonce uint64, grindingFactor uint8) bool {
	if grindingFactor == 0 {
		return true
	}
	return LeadingZeroBits(digest(challenge, nonce)) >= int(grindingFactor)
}
