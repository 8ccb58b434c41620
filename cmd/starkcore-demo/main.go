// Command starkcore-demo proves and verifies a small Fibonacci trace to
// exercise the full pipeline end to end, reporting progress and proof shape
// on stderr and the final timing line on stdout.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/vybium/starkcore/internal/starkcore/examples"
	"github.com/vybium/starkcore/pkg/starkcore"
)

func main() {
	traceLength := flag.Uint64("trace-length", 8, "Fibonacci trace length (must be a power of two)")
	queries := flag.Int("queries", 30, "number of FRI query-phase repetitions")
	verbose := flag.Bool("verbose", false, "log each proving/verification step")
	flag.Parse()

	options := starkcore.DefaultProofOptions()
	options.FriNumberOfQueries = *queries

	a := examples.NewFibonacci(*traceLength, options)
	trace := examples.FibonacciTrace(*traceLength)

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	logStderr(fmt.Sprintf("proving Fibonacci trace of length %d with %d FRI queries...", *traceLength, *queries))
	start := time.Now()
	p, err := starkcore.ProveWithLogger(trace, a, nil, logger)
	if err != nil {
		fatal(fmt.Sprintf("proving failed: %v", err))
	}
	proveElapsed := time.Since(start)

	logStderr(fmt.Sprintf("proof generated in %s: %d FRI layers, %d decommitments", proveElapsed, len(p.FRILayerRoots), len(p.Decommitments)))

	start = time.Now()
	ok, err := starkcore.VerifyWithLogger(p, a, nil, logger)
	if err != nil {
		fatal(fmt.Sprintf("verification errored: %v", err))
	}
	verifyElapsed := time.Since(start)

	if !ok {
		fatal("verification rejected a freshly generated proof")
	}

	fmt.Printf("proof valid: prove=%s verify=%s\n", proveElapsed, verifyElapsed)
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "starkcore-demo:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
