// Package verifier implements the STARK verification pipeline: it replays
// every transcript append the prover made, recomputes the challenges that
// must follow, and checks the composition and FRI consistency equations
// using only the values and Merkle paths the proof actually reveals.
package verifier

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/constraints"
	"github.com/vybium/starkcore/internal/starkcore/domain"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/fri"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
	"github.com/vybium/starkcore/internal/starkcore/pow"
	"github.com/vybium/starkcore/internal/starkcore/proof"
	"github.com/vybium/starkcore/internal/starkcore/starkerr"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

func pairCoeffs(raw []field.Element) []constraints.Coeffs {
	out := make([]constraints.Coeffs, len(raw)/2)
	for i := range out {
		out[i] = constraints.Coeffs{Alpha: raw[2*i], Beta: raw[2*i+1]}
	}
	return out
}

// sampleOODPoint mirrors the prover's rejection-sampling loop exactly: the
// same forbidden set and the same draw-per-rejection discipline, so the
// transcript stays in lockstep.
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

// Verify checks a StarkProof against an AIR and its public input. A false
// result with no error means the proof failed a consistency check; an
// error means the proof or inputs were structurally malformed. logger
// receives exactly one Error event naming which step rejected the proof;
// pass zerolog.Nop() for silent verification.
func Verify(p *proof.StarkProof, a air.AIR, publicInput any, logger zerolog.Logger) (bool, error) {
	ctx := a.Context()
	if err := ctx.Validate(); err != nil {
		wrapped := starkerr.Wrap(starkerr.WrongParameter, "invalid AIR context", err)
		logger.Debug().Err(wrapped).Str("step", "setup").Msg("proving/verification error constructed")
		return false, wrapped
	}
	if p.TraceLength != ctx.TraceLength {
		return false, starkerr.New(starkerr.WrongParameter,
			fmt.Sprintf("proof trace length %d does not match AIR context trace length %d", p.TraceLength, ctx.TraceLength))
	}
	if p.HasAuxTrace != (a.NumAuxiliaryRAPColumns() > 0) {
		return false, starkerr.New(starkerr.WrongParameter, "proof's auxiliary trace presence does not match the AIR's declared shape")
	}
	if len(p.Decommitments) != ctx.Options.FriNumberOfQueries {
		return false, starkerr.New(starkerr.WrongParameter,
			fmt.Sprintf("proof has %d query decommitments, AIR requires %d", len(p.Decommitments), ctx.Options.FriNumberOfQueries))
	}

	dom, err := domain.New(ctx.TraceLength, ctx.Options.BlowupFactor, ctx.Options.CosetOffset)
	if err != nil {
		return false, starkerr.Wrap(starkerr.WrongParameter, "failed to construct evaluation domain", err)
	}

	tr := transcript.New()
	tr.AppendDigest(p.MainTraceRoot)
	rap := a.BuildRAPChallenges(tr)
	if p.HasAuxTrace {
		tr.AppendDigest(p.AuxTraceRoot)
	}

	totalColumns := ctx.TraceColumns + a.NumAuxiliaryRAPColumns()
	if len(p.TraceOODEvaluations) != totalColumns {
		return false, starkerr.New(starkerr.WrongParameter,
			fmt.Sprintf("proof carries %d trace OOD columns, AIR declares %d", len(p.TraceOODEvaluations), totalColumns))
	}

	boundaryCoeffs := pairCoeffs(tr.ChallengeFieldElements(2 * totalColumns))
	transitionCoeffs := pairCoeffs(tr.ChallengeFieldElements(2 * ctx.NumTransitionConstraints))

	bcs := a.BoundaryConstraints(rap, publicInput)
	grouped := constraints.GroupBoundaryConstraintsByColumn(totalColumns, bcs)
	boundaryTerms, err := constraints.BuildBoundaryTerms(dom, grouped)
	if err != nil {
		return false, starkerr.Wrap(starkerr.WrongParameter, "failed to build boundary terms", err)
	}
	exemptionPolys := air.DefaultTransitionExemptions(ctx, dom)
	degreeBound := a.CompositionPolyDegreeBound()

	tr.AppendDigest(p.CompositionRoot)

	z := sampleOODPoint(tr, dom)
	zSquared := z.Square()
	tr.AppendFieldElement(p.H1AtZSquared)
	tr.AppendFieldElement(p.H2AtZSquared)
	for _, row := range p.TraceOODEvaluations {
		if len(row) != len(ctx.TransitionOffsets) {
			return false, starkerr.New(starkerr.WrongParameter, "trace OOD row length does not match transition offset count")
		}
		tr.AppendFieldElements(row)
	}

	// Composition consistency: H(z) computed two ways must agree.
	frameRows := make([][]field.Element, len(ctx.TransitionOffsets))
	for k := range frameRows {
		row := make([]field.Element, totalColumns)
		for j := 0; j < totalColumns; j++ {
			row[j] = p.TraceOODEvaluations[j][k]
		}
		frameRows[k] = row
	}
	frame := air.NewFrame(frameRows)
	tAtZ := make([]field.Element, totalColumns)
	for j := 0; j < totalColumns; j++ {
		tAtZ[j] = p.TraceOODEvaluations[j][0]
	}
	hFromConstraints, err := constraints.ValueAt(a, ctx.TraceLength, degreeBound, z, tAtZ, boundaryTerms, frame, rap,
		exemptionPolys, ctx.TransitionDegrees, boundaryCoeffs, transitionCoeffs)
	if err != nil {
		return false, starkerr.Wrap(starkerr.WrongParameter, "failed to evaluate composition constraint formula at z", err)
	}
	hFromOOD := p.H1AtZSquared.Add(z.Mul(p.H2AtZSquared))
	if !hFromConstraints.Equal(hFromOOD) {
		logger.Error().Str("step", "composition_consistency").Str("reason", "H(z) computed from constraints disagrees with H1(z^2)+z*H2(z^2)").Msg("proof rejected")
		return false, nil
	}

	// --- Round 4 replay: Deep composition coefficients and FRI ---
	gammaEven := tr.ChallengeFieldElement()
	gammaOdd := tr.ChallengeFieldElement()
	gammaTrace := tr.ChallengeFieldElements(totalColumns * len(ctx.TransitionOffsets))

	zetas := fri.ReplayCommitPhase(tr, p.FRILayerRoots)
	tr.AppendFieldElement(p.FRILastValue)

	challengeDigest := tr.Challenge()
	if !pow.CheckNonce(challengeDigest, p.Nonce, ctx.Options.GrindingFactor) {
		logger.Error().Str("step", "grinding").Str("reason", "nonce does not satisfy the required leading-zero-bit count").Msg("proof rejected")
		return false, nil
	}
	tr.AppendUint64(p.Nonce)

	for _, d := range p.Decommitments {
		replayedIota := tr.ChallengeIndex(dom.LDESize())
		if replayedIota != d.Iota {
			return false, starkerr.New(starkerr.WrongParameter, "replayed query index does not match the decommitment's claimed index")
		}

		if len(d.MainTraceLeaf) != ctx.TraceColumns {
			logger.Error().Str("step", "decommitment").Str("reason", "main trace leaf column count mismatch").Msg("proof rejected")
			return false, nil
		}
		mainCombined := append(append([]field.Element{}, d.MainTraceLeaf...), d.AuxTraceLeaf...)
		if len(mainCombined) != totalColumns {
			logger.Error().Str("step", "decommitment").Str("reason", "combined trace leaf column count mismatch").Msg("proof rejected")
			return false, nil
		}

		if !merkle.Verify(p.MainTraceRoot, d.MainTraceLeaf, int(d.Iota), d.MainTraceAuthPath) {
			logger.Error().Str("step", "decommitment").Str("reason", "main trace Merkle path does not authenticate").Msg("proof rejected")
			return false, nil
		}
		if p.HasAuxTrace {
			if !merkle.Verify(p.AuxTraceRoot, d.AuxTraceLeaf, int(d.Iota), d.AuxTraceAuthPath) {
				logger.Error().Str("step", "decommitment").Str("reason", "auxiliary trace Merkle path does not authenticate").Msg("proof rejected")
				return false, nil
			}
		}
		if !merkle.Verify(p.CompositionRoot, d.CompositionLeaf[:], int(d.Iota), d.CompositionAuthPath) {
			logger.Error().Str("step", "decommitment").Str("reason", "composition Merkle path does not authenticate").Msg("proof rejected")
			return false, nil
		}

		v0, err := reconstructDeepValue(a, ctx, dom, z, zSquared, d.Iota, mainCombined, d.CompositionLeaf,
			p.TraceOODEvaluations, p.H1AtZSquared, p.H2AtZSquared, gammaEven, gammaOdd, gammaTrace)
		if err != nil {
			wrapped := starkerr.Wrap(starkerr.WrongParameter, "failed to reconstruct Deep composition value", err)
			logger.Debug().Err(wrapped).Str("step", "fri").Msg("proving/verification error constructed")
			return false, wrapped
		}

		ok, err := fri.VerifyQuery(p.FRILayerRoots, zetas, dom.CosetOffset, dom.LDESize(), p.FRILastValue, d.Iota, v0, fri.QueryDecommitment{
			Iota:   d.Iota,
			Layers: d.FRILayers,
		})
		if err != nil {
			wrapped := starkerr.Wrap(starkerr.WrongParameter, "FRI query verification failed", err)
			logger.Debug().Err(wrapped).Str("step", "fri").Msg("proving/verification error constructed")
			return false, wrapped
		}
		if !ok {
			logger.Error().Str("step", "fri").Str("reason", "colinearity chain did not reach the committed last value").Msg("proof rejected")
			return false, nil
		}
	}

	return true, nil
}

// reconstructDeepValue recomputes Deep(upsilon) at the LDE point indexed by
// iota, using only already Merkle-authenticated leaf values and the
// out-of-domain evaluations carried in the proof: the same formula the
// prover used to build its Deep composition polynomial, evaluated pointwise
// instead of as polynomial algebra.
func reconstructDeepValue(
	a air.AIR,
	ctx air.AirContext,
	dom *domain.Domain,
	z, zSquared field.Element,
	iota uint64,
	traceLeaf []field.Element,
	compositionLeaf [2]field.Element,
	traceOOD [][]field.Element,
	h1AtZSquared, h2AtZSquared field.Element,
	gammaEven, gammaOdd field.Element,
	gammaTrace []field.Element,
) (field.Element, error) {
	upsilon := dom.LDEPoint(iota)

	deep := field.Zero()
	idx := 0
	for j, leafValue := range traceLeaf {
		for k, offset := range ctx.TransitionOffsets {
			point := z.Mul(dom.TraceRootPower(offset))
			denom := upsilon.Sub(point)
			if denom.IsZero() {
				return field.Element{}, fmt.Errorf("verifier: query point coincides with an out-of-domain evaluation point")
			}
			denomInv, err := denom.Inv()
			if err != nil {
				return field.Element{}, err
			}
			quotient := leafValue.Sub(traceOOD[j][k]).Mul(denomInv)
			deep = deep.Add(quotient.Mul(gammaTrace[idx]))
			idx++
		}
	}

	denomH := upsilon.Sub(zSquared)
	if denomH.IsZero() {
		return field.Element{}, fmt.Errorf("verifier: query point coincides with z-squared")
	}
	denomHInv, err := denomH.Inv()
	if err != nil {
		return field.Element{}, err
	}
	h1Term := compositionLeaf[0].Sub(h1AtZSquared).Mul(denomHInv)
	h2Term := compositionLeaf[1].Sub(h2AtZSquared).Mul(denomHInv)
	deep = deep.Add(h1Term.Mul(gammaEven)).Add(h2Term.Mul(gammaOdd))

	return deep, nil
}
