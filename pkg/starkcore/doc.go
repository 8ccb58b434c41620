// Package starkcore provides a Scalable Transparent ARgument of Knowledge
// (STARK) prover and verifier core over a 252-bit prime field.
//
// starkcore implements the AIR/RAP proving model: a computation is
// expressed as an algebraic intermediate representation with boundary and
// transition constraints, optionally extended with a randomized auxiliary
// trace built from verifier-supplied randomness (RAP). Proving combines
// trace commitment, a degree-split composition polynomial, out-of-domain
// sampling, and a Deep composition polynomial checked via FRI.
//
// # Features
//
// - Four-round Fiat-Shamir proving pipeline (trace commit, composition
// commit, out-of-domain sampling, Deep/FRI)
// - AIR interface supporting plain and RAP (permutation-argument) traces
// - Batched-leaf Merkle commitments and a sponge-based transcript
// - Optional proof-of-work grinding on the FRI query challenge
// - Byte-exact proof (de)serialization
//
// # Quick Start
//
// Proving and verifying a computation expressed as an AIR:
//
//	trace, err := starkcore.NewTraceTable(columns)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	p, err := starkcore.Prove(trace, myAIR, publicInput)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ok, err := starkcore.Verify(p, myAIR, publicInput)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if ok {
//		fmt.Println("proof is valid")
//	}
//
// # Architecture
//
// - pkg/starkcore/: public API (this package)
// - internal/starkcore/: private implementation (not importable)
//
// The public API re-exports the field, AIR, and proof types via Go type
// aliases, so internal packages remain free to evolve without breaking
// callers.
//
// # References
//
// - STARK paper: https://eprint.iacr.org/2018/046
// - FRI paper: https://eccc.weizmann.ac.il/report/2017/134/
package starkcore
