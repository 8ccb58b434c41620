// Package prover implements the four-round STARK proving pipeline: trace
// commitment, composition polynomial construction, out-of-domain sampling,
// and Deep composition plus FRI.
package prover

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/constraints"
	"github.com/vybium/starkcore/internal/starkcore/domain"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/fri"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
	"github.com/vybium/starkcore/internal/starkcore/polynomial"
	"github.com/vybium/starkcore/internal/starkcore/pow"
	"github.com/vybium/starkcore/internal/starkcore/proof"
	"github.com/vybium/starkcore/internal/starkcore/starkerr"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// debugLogErr emits a single Debug event for a ProvingError, matching the
// verifier's structured-logging discipline; it returns the error unchanged
// so call sites can use it as `return nil, debugLogErr(logger, step, err)`.
func debugLogErr(logger zerolog.Logger, step string, err *starkerr.ProvingError) *starkerr.ProvingError {
	logger.Debug().Err(err).Str("step", step).Msg("proving error constructed")
	return err
}

func interpolateColumns(logger zerolog.Logger, dom *domain.Domain, columns [][]field.Element) ([]polynomial.Polynomial, error) {
	roots := dom.TraceRoots()
	polys := make([]polynomial.Polynomial, len(columns))
	for j, col := range columns {
		if len(col) != len(roots) {
			return nil, debugLogErr(logger, "interpolate", starkerr.New(starkerr.InterpolationFailure,
				fmt.Sprintf("column %d has length %d, expected trace length %d", j, len(col), len(roots))))
		}
		points := make([]polynomial.Point, len(col))
		for i, v := range col {
			points[i] = polynomial.Point{X: roots[i], Y: v}
		}
		p, err := polynomial.Interpolate(points)
		if err != nil {
			return nil, debugLogErr(logger, "interpolate", starkerr.Wrap(starkerr.InterpolationFailure, fmt.Sprintf("failed to interpolate column %d", j), err))
		}
		polys[j] = p
	}
	return polys, nil
}

func extendColumns(polys []polynomial.Polynomial, cosetDomain []field.Element) [][]field.Element {
	out := make([][]field.Element, len(polys))
	for j, p := range polys {
		out[j] = p.EvaluateOnDomain(cosetDomain)
	}
	return out
}

// rowMajorLeaves transposes column-major LDE evaluations into one leaf per
// LDE index, batching every column's value at that index into a single
// Merkle leaf.
func rowMajorLeaves(columnsLDE [][]field.Element, size uint64) [][]field.Element {
	leaves := make([][]field.Element, size)
	for i := uint64(0); i < size; i++ {
		row := make([]field.Element, len(columnsLDE))
		for j, col := range columnsLDE {
			row[j] = col[i]
		}
		leaves[i] = row
	}
	return leaves
}

func pairCoeffs(raw []field.Element) []constraints.Coeffs {
	out := make([]constraints.Coeffs, len(raw)/2)
	for i := range out {
		out[i] = constraints.Coeffs{Alpha: raw[2*i], Beta: raw[2*i+1]}
	}
	return out
}

// sampleOODPoint draws z from the transcript, rejecting any draw that
// lands on a trace root or an LDE coset point.
func sampleOODPoint(tr *transcript.Transcript, dom *domain.Domain) field.Element {
	forbidden := make(map[string]bool)
	for _, r := range dom.TraceRoots() {
		forbidden[r.String()] = true
	}
	for _, p := range dom.LDECoset() {
		forbidden[p.String()] = true
	}
	for {
		candidate := tr.ChallengeFieldElement()
		if !forbidden[candidate.String()] {
			return candidate
		}
	}
}

// Prove runs the full proving pipeline for the given main trace and AIR,
// returning a StarkProof or a ProvingError identifying what went wrong.
// Diagnostics are discarded; use ProveWithLogger to observe them.
func Prove(mainTrace air.TraceTable, a air.AIR, publicInput any) (*proof.StarkProof, error) {
	return ProveWithLogger(mainTrace, a, publicInput, zerolog.Nop())
}

// ProveWithLogger runs the proving pipeline exactly as Prove does, additionally
// emitting a Debug event for every ProvingError constructed along the way.
// Logging augments the error return; it never replaces it.
func ProveWithLogger(mainTrace air.TraceTable, a air.AIR, publicInput any, logger zerolog.Logger) (*proof.StarkProof, error) {
	ctx := a.Context()
	if err := ctx.Validate(); err != nil {
		return nil, debugLogErr(logger, "setup", starkerr.Wrap(starkerr.WrongParameter, "invalid AIR context", err))
	}
	if mainTrace.Length() != ctx.TraceLength {
		return nil, debugLogErr(logger, "setup", starkerr.New(starkerr.WrongParameter,
			fmt.Sprintf("main trace length %d does not match AIR context trace length %d", mainTrace.Length(), ctx.TraceLength)))
	}
	if mainTrace.NumColumns() != ctx.TraceColumns {
		return nil, debugLogErr(logger, "setup", starkerr.New(starkerr.WrongParameter,
			fmt.Sprintf("main trace has %d columns, AIR context declares %d", mainTrace.NumColumns(), ctx.TraceColumns)))
	}

	dom, err := domain.New(ctx.TraceLength, ctx.Options.BlowupFactor, ctx.Options.CosetOffset)
	if err != nil {
		return nil, debugLogErr(logger, "setup", starkerr.Wrap(starkerr.WrongParameter, "failed to construct evaluation domain", err))
	}

	tr := transcript.New()

	// --- Round 1: trace commitment ---
	mainPolys, err := interpolateColumns(logger, dom, mainTrace.Columns())
	if err != nil {
		return nil, err
	}
	mainLDE := extendColumns(mainPolys, dom.LDECoset())
	mainTree, err := merkle.Build(rowMajorLeaves(mainLDE, dom.LDESize()))
	if err != nil {
		return nil, debugLogErr(logger, "commit_main", starkerr.Wrap(starkerr.WrongParameter, "failed to commit main trace", err))
	}
	tr.AppendDigest(mainTree.Root())

	rap := a.BuildRAPChallenges(tr)
	auxTable, err := a.BuildAuxiliaryTrace(mainTrace, rap, publicInput)
	if err != nil {
		return nil, debugLogErr(logger, "aux_trace", starkerr.Wrap(starkerr.WrongParameter, "failed to build auxiliary trace", err))
	}
	hasAux := a.NumAuxiliaryRAPColumns() > 0

	var auxPolys []polynomial.Polynomial
	var auxLDE [][]field.Element
	var auxTree *merkle.Tree
	var auxRoot merkle.Digest
	if hasAux {
		auxPolys, err = interpolateColumns(logger, dom, auxTable.Columns())
		if err != nil {
			return nil, err
		}
		auxLDE = extendColumns(auxPolys, dom.LDECoset())
		auxTree, err = merkle.Build(rowMajorLeaves(auxLDE, dom.LDESize()))
		if err != nil {
			return nil, debugLogErr(logger, "commit_aux", starkerr.Wrap(starkerr.WrongParameter, "failed to commit auxiliary trace", err))
		}
		auxRoot = auxTree.Root()
		tr.AppendDigest(auxRoot)
	}

	totalColumns := ctx.TraceColumns + a.NumAuxiliaryRAPColumns()
	allPolys := append(append([]polynomial.Polynomial{}, mainPolys...), auxPolys...)
	allLDE := append(append([][]field.Element{}, mainLDE...), auxLDE...)

	// --- Round 2: composition polynomial ---
	boundaryCoeffs := pairCoeffs(tr.ChallengeFieldElements(2 * totalColumns))
	transitionCoeffs := pairCoeffs(tr.ChallengeFieldElements(2 * ctx.NumTransitionConstraints))

	bcs := a.BoundaryConstraints(rap, publicInput)
	grouped := constraints.GroupBoundaryConstraintsByColumn(totalColumns, bcs)
	boundaryTerms, err := constraints.BuildBoundaryTerms(dom, grouped)
	if err != nil {
		return nil, debugLogErr(logger, "composition", starkerr.Wrap(starkerr.WrongParameter, "failed to build boundary terms", err))
	}

	exemptionPolys := air.DefaultTransitionExemptions(ctx, dom)
	degreeBound := a.CompositionPolyDegreeBound()

	hEvals, err := constraints.EvaluateOnLDE(a, dom, allLDE, ctx.TransitionOffsets, degreeBound,
		boundaryTerms, rap, exemptionPolys, ctx.TransitionDegrees, boundaryCoeffs, transitionCoeffs)
	if err != nil {
		return nil, debugLogErr(logger, "composition", starkerr.Wrap(starkerr.CompositionDegreeMismatch, "failed to evaluate composition polynomial", err))
	}

	hPoints := make([]polynomial.Point, len(hEvals))
	coset := dom.LDECoset()
	for i, v := range hEvals {
		hPoints[i] = polynomial.Point{X: coset[i], Y: v}
	}
	hPoly, err := polynomial.Interpolate(hPoints)
	if err != nil {
		return nil, debugLogErr(logger, "composition", starkerr.Wrap(starkerr.CompositionDegreeMismatch, "failed to interpolate composition polynomial", err))
	}
	if uint64(hPoly.Degree()) >= degreeBound {
		return nil, debugLogErr(logger, "composition", starkerr.New(starkerr.CompositionDegreeMismatch,
			fmt.Sprintf("composition polynomial degree %d exceeds bound %d", hPoly.Degree(), degreeBound)))
	}
	h1, h2 := hPoly.EvenOdd()

	h1LDE := h1.EvaluateOnDomain(coset)
	h2LDE := h2.EvaluateOnDomain(coset)
	compLeaves := make([][]field.Element, dom.LDESize())
	for i := range compLeaves {
		compLeaves[i] = []field.Element{h1LDE[i], h2LDE[i]}
	}
	compTree, err := merkle.Build(compLeaves)
	if err != nil {
		return nil, debugLogErr(logger, "commit_composition", starkerr.Wrap(starkerr.WrongParameter, "failed to commit composition polynomial", err))
	}
	tr.AppendDigest(compTree.Root())

	// --- Round 3: out-of-domain sampling ---
	z := sampleOODPoint(tr, dom)
	zSquared := z.Square()
	h1AtZSquared := h1.Evaluate(zSquared)
	h2AtZSquared := h2.Evaluate(zSquared)
	tr.AppendFieldElement(h1AtZSquared)
	tr.AppendFieldElement(h2AtZSquared)

	traceOOD := make([][]field.Element, totalColumns)
	for j, p := range allPolys {
		row := make([]field.Element, len(ctx.TransitionOffsets))
		for k, offset := range ctx.TransitionOffsets {
			point := z.Mul(dom.TraceRootPower(offset))
			row[k] = p.Evaluate(point)
		}
		traceOOD[j] = row
		tr.AppendFieldElements(row)
	}

	// --- Round 4: Deep composition + FRI ---
	gammaEven := tr.ChallengeFieldElement()
	gammaOdd := tr.ChallengeFieldElement()
	gammaTrace := tr.ChallengeFieldElements(totalColumns * len(ctx.TransitionOffsets))

	deep := polynomial.Zero()
	idx := 0
	for j, p := range allPolys {
		for k, offset := range ctx.TransitionOffsets {
			point := z.Mul(dom.TraceRootPower(offset))
			numerator := p.Sub(polynomial.Constant(traceOOD[j][k]))
			linear := polynomial.New([]field.Element{point.Neg(), field.One()})
			quotient, err := numerator.Div(linear)
			if err != nil {
				return nil, debugLogErr(logger, "deep", starkerr.Wrap(starkerr.CompositionDegreeMismatch,
					fmt.Sprintf("Deep quotient for column %d offset %d did not divide evenly", j, k), err))
			}
			deep = deep.Add(quotient.MulScalar(gammaTrace[idx]))
			idx++
		}
	}
	hLinear := polynomial.New([]field.Element{zSquared.Neg(), field.One()})
	h1Quotient, err := h1.Sub(polynomial.Constant(h1AtZSquared)).Div(hLinear)
	if err != nil {
		return nil, debugLogErr(logger, "deep", starkerr.Wrap(starkerr.CompositionDegreeMismatch, "H1 Deep quotient did not divide evenly", err))
	}
	h2Quotient, err := h2.Sub(polynomial.Constant(h2AtZSquared)).Div(hLinear)
	if err != nil {
		return nil, debugLogErr(logger, "deep", starkerr.Wrap(starkerr.CompositionDegreeMismatch, "H2 Deep quotient did not divide evenly", err))
	}
	deep = deep.Add(h1Quotient.MulScalar(gammaEven)).Add(h2Quotient.MulScalar(gammaOdd))

	layers, lastValue, err := fri.CommitPhase(tr, deep, dom.CosetOffset, dom.LDESize())
	if err != nil {
		return nil, debugLogErr(logger, "fri_commit", starkerr.Wrap(starkerr.WrongParameter, "FRI commit phase failed", err))
	}

	challengeDigest := tr.Challenge()
	nonce, err := pow.FindNonce(challengeDigest, ctx.Options.GrindingFactor)
	if err != nil {
		return nil, debugLogErr(logger, "grinding", starkerr.Wrap(starkerr.WrongParameter, "grinding failed to find a valid nonce", err))
	}
	tr.AppendUint64(nonce)

	queryResults, err := fri.QueryPhase(tr, layers, ctx.Options.FriNumberOfQueries)
	if err != nil {
		return nil, debugLogErr(logger, "fri_query", starkerr.Wrap(starkerr.WrongParameter, "FRI query phase failed", err))
	}

	decommitments := make([]proof.Decommitment, len(queryResults))
	for i, q := range queryResults {
		mainLeaf := make([]field.Element, ctx.TraceColumns)
		for j := 0; j < ctx.TraceColumns; j++ {
			mainLeaf[j] = mainLDE[j][q.Iota]
		}
		mainPath, err := mainTree.Prove(int(q.Iota))
		if err != nil {
			return nil, debugLogErr(logger, "decommitment", starkerr.Wrap(starkerr.WrongParameter, "failed to prove main trace leaf", err))
		}

		var auxLeaf []field.Element
		var auxPath merkle.AuthPath
		if hasAux {
			auxLeaf = make([]field.Element, a.NumAuxiliaryRAPColumns())
			for j := range auxLeaf {
				auxLeaf[j] = auxLDE[j][q.Iota]
			}
			auxPath, err = auxTree.Prove(int(q.Iota))
			if err != nil {
				return nil, debugLogErr(logger, "decommitment", starkerr.Wrap(starkerr.WrongParameter, "failed to prove auxiliary trace leaf", err))
			}
		}

		compPath, err := compTree.Prove(int(q.Iota))
		if err != nil {
			return nil, debugLogErr(logger, "decommitment", starkerr.Wrap(starkerr.WrongParameter, "failed to prove composition leaf", err))
		}

		decommitments[i] = proof.Decommitment{
			Iota:                q.Iota,
			MainTraceLeaf:       mainLeaf,
			MainTraceAuthPath:   mainPath,
			AuxTraceLeaf:        auxLeaf,
			AuxTraceAuthPath:    auxPath,
			CompositionLeaf:     [2]field.Element{h1LDE[q.Iota], h2LDE[q.Iota]},
			CompositionAuthPath: compPath,
			FRILayers:           q.Layers,
		}
	}

	layerRoots := make([]merkle.Digest, len(layers))
	for i, l := range layers {
		layerRoots[i] = l.Tree.Root()
	}

	return &proof.StarkProof{
		TraceLength:         ctx.TraceLength,
		MainTraceRoot:       mainTree.Root(),
		HasAuxTrace:         hasAux,
		AuxTraceRoot:        auxRoot,
		CompositionRoot:     compTree.Root(),
		TraceOODEvaluations: traceOOD,
		H1AtZSquared:        h1AtZSquared,
		H2AtZSquared:        h2AtZSquared,
		FRILayerRoots:       layerRoots,
		FRILastValue:        lastValue,
		Nonce:               nonce,
		Decommitments:       decommitments,
	}, nil
}
