// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command pcpl runs a Phase-Cycled Provider Lane simulation end to end:
// it builds parameters and a fixture from a seed, then validates the
// structural invariants over a configured number of cycles.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if isAssertionFailure(err) {
		return 1
	}
	return 2
}
