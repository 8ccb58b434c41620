package starkcore

import (
	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/proof"
)

// FieldElement is an element of the 252-bit prime field every computation
// is proved over.
type FieldElement = field.Element

// AIR is the contract a computation implements to be provable: a trace
// table plus boundary and transition constraints, with an optional
// Randomized-AIR-with-Preprocessing auxiliary trace.
type AIR = air.AIR

// AirContext carries the static shape of an AIR.
type AirContext = air.AirContext

// ProofOptions configures the security/performance tradeoffs of a proof.
type ProofOptions = air.ProofOptions

// BoundaryConstraint pins one trace cell to a fixed value.
type BoundaryConstraint = air.BoundaryConstraint

// RAPChallenges is the verifier randomness an AIR consumes to build its
// auxiliary trace.
type RAPChallenges = air.RAPChallenges

// TraceTable is a column-major matrix of field elements.
type TraceTable = air.TraceTable

// Frame is a read-only window of per-offset trace rows.
type Frame = air.Frame

// StarkProof is the complete artifact produced by Prove and consumed by
// Verify: trace and composition commitments, out-of-domain evaluations,
// and the FRI layer roots and query decommitments.
type StarkProof = proof.StarkProof

// Decommitment is one FRI query's authenticated openings.
type Decommitment = proof.Decommitment

// DefaultProofOptions returns options targeting roughly 128-bit security at
// blowup factor 4 (55 queries), with grinding disabled.
func DefaultProofOptions() ProofOptions {
	return air.DefaultProofOptions()
}

// NewTraceTable validates and wraps a set of columns into a TraceTable.
func NewTraceTable(columns [][]FieldElement) (TraceTable, error) {
	return air.NewTraceTable(columns)
}
