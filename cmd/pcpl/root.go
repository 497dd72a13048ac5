// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	log "github.com/luxfi/log"

	"github.com/cekkr/phaselane/internal/validator"
	"github.com/cekkr/phaselane/pcpl"
)

type runFlags struct {
	cycles           int
	x                int
	seed             uint64
	tokenBits        int
	primeMode        string
	primeBits        int
	modulusBits      int
	compoundMode     string
	compoundCount    int
	compoundPrimes   int
	compoundOffset   int
	compoundPrimeBit int
	compoundPoolSize int
	compareX         string
	showParams       bool
	verbose          bool
	noChainingCheck  bool
}

func newRootCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "pcpl",
		Short: "Run a Phase-Cycled Provider Lane simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, flags)
		},
		SilenceUsage: true,
	}

	fl := cmd.Flags()
	fl.IntVar(&flags.cycles, "cycles", 200, "number of cycles to run")
	fl.IntVar(&flags.x, "x", 4, "number of provider lanes")
	fl.Uint64Var(&flags.seed, "seed", 1337, "fixture seed")
	fl.IntVar(&flags.tokenBits, "token-bits", 128, "lane token width in bits")
	fl.StringVar(&flags.primeMode, "prime-mode", "fixed", "prime derivation mode: fixed or generated")
	fl.IntVar(&flags.primeBits, "prime-bits", 24, "bit width of P, Q, R in generated mode")
	fl.IntVar(&flags.modulusBits, "modulus-bits", 32, "bit width of M in generated mode")
	fl.StringVar(&flags.compoundMode, "compound-mode", "classic", "compound generation mode: classic, prime-power, semiprime, offset, blend")
	fl.IntVar(&flags.compoundCount, "compound-count", pcpl.DefaultNumCompounds, "compounds per bouquet")
	fl.IntVar(&flags.compoundPrimes, "compound-primes", pcpl.DefaultPrimesPerCompound, "primes drawn per classic/offset compound")
	fl.IntVar(&flags.compoundOffset, "compound-offset", 0, "offset_max for the offset compound mode")
	fl.IntVar(&flags.compoundPrimeBit, "compound-prime-bits", 0, "bit width for a generated compound prime pool (0 uses the fixed pool)")
	fl.IntVar(&flags.compoundPoolSize, "compound-pool-size", 18, "size of a generated compound prime pool")
	fl.StringVar(&flags.compareX, "compare-x", "", "comma-separated list of x values to run and tabulate")
	fl.BoolVar(&flags.showParams, "show-params", false, "print the built Params before running")
	fl.BoolVar(&flags.verbose, "verbose", false, "log every cycle's emitting lane and token")
	fl.BoolVar(&flags.noChainingCheck, "no-chaining-check", false, "skip the chained-seed tamper check")

	return cmd
}

func isAssertionFailure(err error) bool {
	var af *validator.AssertionFailure
	return errors.As(err, &af)
}

func runSimulation(cmd *cobra.Command, flags *runFlags) error {
	if flags.compareX != "" {
		return runCompareX(cmd, flags)
	}

	p, err := buildParamsFromFlags(flags, flags.x)
	if err != nil {
		return err
	}
	if flags.showParams {
		printParams(cmd, p)
	}

	return runOne(cmd, flags, p)
}

func runOne(cmd *cobra.Command, flags *runFlags, p *pcpl.Params) error {
	mode, err := parseCompoundMode(flags.compoundMode)
	if err != nil {
		return err
	}

	cfg, err := pcpl.BuildCompoundConfig(flags.seed, p, flags.compoundCount, flags.compoundPrimes, mode,
		flags.compoundOffset, flags.compoundPrimeBit, flags.compoundPoolSize, pcpl.DefaultPoolLabel)
	if err != nil {
		return err
	}

	sec, st, err := pcpl.BuildFixture(flags.seed, p, cfg)
	if err != nil {
		return err
	}

	opts := pcpl.ValidateOptions{SkipChaining: flags.noChainingCheck}
	if flags.verbose {
		opts.Log = log.NewTestLogger(log.InfoLevel)
	}

	if err := pcpl.ValidateAll(p, sec, st, flags.cycles, opts); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d cycles validated for x=%d, token_bits=%d, seed=%d\n",
		flags.cycles, p.X, p.TokenBits, flags.seed)
	return nil
}

func runCompareX(cmd *cobra.Command, flags *runFlags) error {
	values, err := parseCompareX(flags.compareX)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "x\tcycles\tresult")
	var firstFailure error
	for _, x := range values {
		p, err := buildParamsFromFlags(flags, x)
		if err != nil {
			return err
		}
		if err := runOne(cmd, flags, p); err != nil {
			if isAssertionFailure(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\tFAIL: %v\n", x, flags.cycles, err)
				if firstFailure == nil {
					firstFailure = err
				}
				continue
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\tok\n", x, flags.cycles)
	}
	return firstFailure
}

func buildParamsFromFlags(flags *runFlags, x int) (*pcpl.Params, error) {
	mode, err := parsePrimeMode(flags.primeMode)
	if err != nil {
		return nil, err
	}
	return pcpl.BuildParams(pcpl.BuildConfig{
		X:           x,
		TokenBits:   flags.tokenBits,
		Mode:        mode,
		Seed:        flags.seed,
		PrimeBits:   flags.primeBits,
		ModulusBits: flags.modulusBits,
	})
}

func parsePrimeMode(s string) (pcpl.PrimeMode, error) {
	switch s {
	case "fixed":
		return pcpl.ModeFixed, nil
	case "generated":
		return pcpl.ModeGenerated, nil
	default:
		return 0, fmt.Errorf("unknown --prime-mode %q: want fixed or generated", s)
	}
}

func parseCompoundMode(s string) (pcpl.CompoundMode, error) {
	switch s {
	case "classic":
		return pcpl.ClassicMode, nil
	case "prime-power":
		return pcpl.PrimePowerMode, nil
	case "semiprime":
		return pcpl.SemiprimeMode, nil
	case "offset":
		return pcpl.OffsetMode, nil
	case "blend":
		return pcpl.BlendMode, nil
	default:
		return 0, fmt.Errorf("unknown --compound-mode %q", s)
	}
}

func parseCompareX(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid --compare-x entry %q: %w", part, err)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, errors.New("--compare-x requires at least one value")
	}
	return values, nil
}

func printParams(cmd *cobra.Command, p *pcpl.Params) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "x=%d P=%s Q=%s R=%s M=%s token_bits=%d token_bytes=%d seed_bytes=%d mod_bytes=%d\n",
		p.X, p.P, p.Q, p.R, p.M, p.TokenBits, p.TokenBytes, p.SeedBytes, p.ModBytes)
}
