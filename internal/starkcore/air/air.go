// Package air defines the contract a computation must satisfy to be
// proved by this core: a trace table plus boundary and transition
// constraints, with an optional Randomized-AIR-with-Preprocessing (RAP)
// auxiliary trace built from verifier randomness.
package air

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/domain"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/polynomial"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// ProofOptions configures the security/performance tradeoffs of a proof.
type ProofOptions struct {
	// BlowupFactor is the LDE expansion factor; must be a power of two.
	BlowupFactor uint64
	// FriNumberOfQueries is the number of FRI query-phase repetitions.
	FriNumberOfQueries int
	// CosetOffset seeds the LDE coset; must be nonzero and off the trace domain.
	CosetOffset field.Element
	// GrindingFactor is the number of required proof-of-work leading zero bits.
	GrindingFactor uint8
}

// DefaultProofOptions returns options targeting roughly 128-bit security at
// blowup factor 4 (55 queries), with grinding disabled.
func DefaultProofOptions() ProofOptions {
	return ProofOptions{
		BlowupFactor:       4,
		FriNumberOfQueries: 55,
		CosetOffset:        field.NewFromUint64(3),
		GrindingFactor:     0,
	}
}

// Validate checks the structural requirements spec'd for ProofOptions.
func (o ProofOptions) Validate() error {
	switch o.BlowupFactor {
	case 2, 4, 8, 16, 32:
	default:
		return fmt.Errorf("air: blowup factor %d must be one of {2,4,8,16,32}", o.BlowupFactor)
	}
	if o.FriNumberOfQueries <= 0 {
		return fmt.Errorf("air: fri_number_of_queries must be positive, got %d", o.FriNumberOfQueries)
	}
	if o.CosetOffset.IsZero() {
		return fmt.Errorf("air: coset_offset must be nonzero")
	}
	if o.GrindingFactor >= 32 {
		return fmt.Errorf("air: grinding_factor must be < 32, got %d", o.GrindingFactor)
	}
	return nil
}

// Grinding reports whether proof-of-work grinding is required.
func (o ProofOptions) Grinding() bool {
	return o.GrindingFactor > 0
}

func (o ProofOptions) String() string {
	return fmt.Sprintf("ProofOptions{blowup=%d, queries=%d, offset=%s, grinding=%d}",
		o.BlowupFactor, o.FriNumberOfQueries, o.CosetOffset, o.GrindingFactor)
}

// AirContext carries the static shape of an AIR: trace dimensions and
// per-constraint metadata, plus the proof options governing its LDE and
// FRI parameters.
type AirContext struct {
	TraceLength              uint64
	TraceColumns             int
	NumTransitionConstraints int
	// TransitionDegrees[i] is the degree of transition constraint i.
	TransitionDegrees []uint64
	// TransitionExemptions[i] is the number of final trace rows where
	// constraint i need not hold.
	TransitionExemptions []uint64
	// TransitionOffsets lists the frame offsets (in steps) referenced by
	// any transition constraint, e.g. {0,1,2} for a 2nd-order recurrence.
	TransitionOffsets []uint64
	Options           ProofOptions
}

func (c AirContext) String() string {
	return fmt.Sprintf("AirContext{traceLength=%d, columns=%d, constraints=%d, options=%s}",
		c.TraceLength, c.TraceColumns, c.NumTransitionConstraints, c.Options)
}

// Validate checks internal consistency of the context.
func (c AirContext) Validate() error {
	if c.TraceLength == 0 || (c.TraceLength&(c.TraceLength-1)) != 0 {
		return fmt.Errorf("air: trace length %d must be a power of two", c.TraceLength)
	}
	if c.TraceColumns <= 0 {
		return fmt.Errorf("air: trace must have at least one column")
	}
	if len(c.TransitionDegrees) != c.NumTransitionConstraints {
		return fmt.Errorf("air: transition_degrees length %d does not match num_transition_constraints %d",
			len(c.TransitionDegrees), c.NumTransitionConstraints)
	}
	if len(c.TransitionExemptions) != c.NumTransitionConstraints {
		return fmt.Errorf("air: transition_exemptions length %d does not match num_transition_constraints %d",
			len(c.TransitionExemptions), c.NumTransitionConstraints)
	}
	return c.Options.Validate()
}

// BoundaryConstraint pins one trace cell to a fixed value.
type BoundaryConstraint struct {
	Column int
	Row    uint64
	Value  field.Element
}

// RAPChallenges is the verifier randomness an AIR consumes to build its
// auxiliary trace. A pure-main AIR returns an empty slice; a RAP AIR
// returns one element per random coefficient it needs (e.g. a single
// permutation-argument gamma).
type RAPChallenges []field.Element

// TraceTable is a column-major matrix of field elements. All columns must
// have equal, power-of-two length.
type TraceTable struct {
	columns [][]field.Element
}

// NewTraceTable validates and wraps a set of columns.
func NewTraceTable(columns [][]field.Element) (TraceTable, error) {
	if len(columns) == 0 {
		return TraceTable{}, fmt.Errorf("air: trace table must have at least one column")
	}
	n := len(columns[0])
	if n == 0 || (n&(n-1)) != 0 {
		return TraceTable{}, fmt.Errorf("air: trace length %d must be a power of two", n)
	}
	for i, col := range columns {
		if len(col) != n {
			return TraceTable{}, fmt.Errorf("air: column %d has length %d, want %d", i, len(col), n)
		}
	}
	return TraceTable{columns: columns}, nil
}

// NumColumns returns the number of columns.
func (t TraceTable) NumColumns() int {
	return len(t.columns)
}

// Length returns the (power-of-two) number of rows.
func (t TraceTable) Length() uint64 {
	if len(t.columns) == 0 {
		return 0
	}
	return uint64(len(t.columns[0]))
}

// Column returns column j.
func (t TraceTable) Column(j int) []field.Element {
	return t.columns[j]
}

// At returns the value at (column j, row i).
func (t TraceTable) At(j int, i uint64) field.Element {
	return t.columns[j][i]
}

// Columns returns all columns.
func (t TraceTable) Columns() [][]field.Element {
	return t.columns
}

// Frame is a read-only window of per-offset rows: Frame.Rows[k][j] is
// column j's value at the k-th transition offset, whether read from the
// base trace (step i+offset, cyclically) or from out-of-domain evaluations
// (z*g^offset).
type Frame struct {
	Rows [][]field.Element
}

// NewFrame wraps precomputed per-offset rows.
func NewFrame(rows [][]field.Element) Frame {
	return Frame{Rows: rows}
}

// ReadFrameFromTrace extracts a frame at trace row i for the given cyclic
// offsets, wrapping modulo the trace length.
func ReadFrameFromTrace(table TraceTable, row uint64, offsets []uint64) Frame {
	n := table.Length()
	rows := make([][]field.Element, len(offsets))
	for k, offset := range offsets {
		stepRow := (row + offset) % n
		values := make([]field.Element, table.NumColumns())
		for j := 0; j < table.NumColumns(); j++ {
			values[j] = table.At(j, stepRow)
		}
		rows[k] = values
	}
	return Frame{Rows: rows}
}

// At returns column j's value at the k-th frame offset.
func (f Frame) At(k, j int) field.Element {
	return f.Rows[k][j]
}

// ReadFrameFromLDE extracts a frame at LDE index i for the given transition
// offsets, reading directly from LDE-extended columns rather than the base
// trace. Since the LDE generator raised to BlowupFactor equals the trace
// generator, t_j(x*g^k) for x = LDEPoint(i) is simply the LDE evaluation at
// index (i + blowupFactor*k) mod ldeSize: no trace-polynomial evaluation is
// needed once the columns have been extended.
func ReadFrameFromLDE(columnsLDE [][]field.Element, i, blowupFactor, ldeSize uint64, offsets []uint64) Frame {
	rows := make([][]field.Element, len(offsets))
	for k, offset := range offsets {
		idx := (i + blowupFactor*offset) % ldeSize
		values := make([]field.Element, len(columnsLDE))
		for j, col := range columnsLDE {
			values[j] = col[idx]
		}
		rows[k] = values
	}
	return Frame{Rows: rows}
}

// AIR is the contract every provable computation implements. Methods
// correspond directly to the external interface's nine operations.
type AIR interface {
	// Context returns the AIR's static shape.
	Context() AirContext
	// Options returns the proof options in force.
	Options() ProofOptions
	// BlowupFactor is a convenience accessor equal to Options().BlowupFactor.
	BlowupFactor() uint64

	// BuildAuxiliaryTrace derives the RAP auxiliary columns, if any, from
	// the main trace and the drawn RAP challenges. A pure-main AIR returns
	// an empty TraceTable (NumAuxiliaryRAPColumns() == 0).
	BuildAuxiliaryTrace(main TraceTable, rap RAPChallenges, publicInput any) (TraceTable, error)

	// BuildRAPChallenges draws this AIR's randomness from the transcript,
	// immediately after the main trace commitment is appended.
	BuildRAPChallenges(tr *transcript.Transcript) RAPChallenges

	// NumAuxiliaryRAPColumns reports how many auxiliary columns this AIR
	// produces; zero for a pure-main AIR.
	NumAuxiliaryRAPColumns() int

	// ComputeTransition evaluates every transition constraint at the given
	// frame, returning one field element per constraint.
	ComputeTransition(frame Frame, rap RAPChallenges) []field.Element

	// BoundaryConstraints lists the fixed (column, row, value) triples the
	// trace (including auxiliary columns) must satisfy.
	BoundaryConstraints(rap RAPChallenges, publicInput any) []BoundaryConstraint

	// CompositionPolyDegreeBound is the degree D used for every degree
	// adjustment term in the composition polynomial (typically 2*trace_length).
	CompositionPolyDegreeBound() uint64
}

// DefaultTransitionExemptions builds, for each transition constraint, the
// exemption polynomial E_i(x) = Π (x - root) over the last k_i roots of the
// trace domain (natural-order indices n-k_i .. n-1). This is the contract's
// documented default; AIR implementations with non-standard exemption
// placement may compute their own instead.
func DefaultTransitionExemptions(ctx AirContext, dom *domain.Domain) []polynomial.Polynomial {
	roots := dom.TraceRoots()
	n := len(roots)

	polys := make([]polynomial.Polynomial, ctx.NumTransitionConstraints)
	for i, k := range ctx.TransitionExemptions {
		if k == 0 {
			polys[i] = polynomial.Constant(field.One())
			continue
		}
		exempted := make([]field.Element, 0, k)
		for idx := n - int(k); idx < n; idx++ {
			exempted = append(exempted, roots[idx])
		}
		polys[i] = polynomial.Zerofier(exempted)
	}
	return polys
}
