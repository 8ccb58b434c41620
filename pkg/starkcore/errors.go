package starkcore

import "github.com/vybium/starkcore/internal/starkcore/starkerr"

// ErrorCode identifies the kind of proving or verification failure.
type ErrorCode = starkerr.Code

const (
	// ErrUnknown is the zero value; never returned deliberately.
	ErrUnknown = starkerr.Unknown

	// ErrWrongParameter covers a non-power-of-two trace length, an
	// inconsistent AIR context, or a similarly malformed input.
	ErrWrongParameter = starkerr.WrongParameter

	// ErrInterpolationFailure covers a trace column of zero length or other
	// condition that makes interpolation impossible.
	ErrInterpolationFailure = starkerr.InterpolationFailure

	// ErrCompositionDegreeMismatch means the degree of the composition
	// polynomial exceeds the AIR's declared bound.
	ErrCompositionDegreeMismatch = starkerr.CompositionDegreeMismatch
)

// ProvingError is the error type every Prove/Verify call returns on
// malformed input or an internal inconsistency. A failed proof (the proof
// is well-formed but does not verify) is reported as (false, nil), not as
// a ProvingError; see Verify.
type ProvingError = starkerr.ProvingError
