package starkcore

import (
	"github.com/rs/zerolog"

	"github.com/vybium/starkcore/internal/starkcore/prover"
	"github.com/vybium/starkcore/internal/starkcore/verifier"
)

// Prove runs the four-round proving pipeline over mainTrace for the given
// AIR, returning a StarkProof or a ProvingError identifying what went
// wrong. Diagnostics are discarded; use ProveWithLogger to observe them.
func Prove(mainTrace TraceTable, a AIR, publicInput any) (*StarkProof, error) {
	return prover.Prove(mainTrace, a, publicInput)
}

// ProveWithLogger runs the proving pipeline exactly as Prove does,
// additionally emitting a Debug event on logger for every ProvingError
// constructed along the way.
func ProveWithLogger(mainTrace TraceTable, a AIR, publicInput any, logger zerolog.Logger) (*StarkProof, error) {
	return prover.ProveWithLogger(mainTrace, a, publicInput, logger)
}

// Verify checks a StarkProof against the given AIR and public input. It
// returns (false, nil) for a well-formed proof that fails a consistency
// check, and (_, error) only when the proof or AIR context is malformed.
// Rejection diagnostics are discarded; use VerifyWithLogger to observe them.
func Verify(p *StarkProof, a AIR, publicInput any) (bool, error) {
	return verifier.Verify(p, a, publicInput, zerolog.Nop())
}

// VerifyWithLogger verifies exactly as Verify does, additionally logging
// the specific step and reason behind any rejection or internal error.
func VerifyWithLogger(p *StarkProof, a AIR, publicInput any, logger zerolog.Logger) (bool, error) {
	return verifier.Verify(p, a, publicInput, logger)
}
