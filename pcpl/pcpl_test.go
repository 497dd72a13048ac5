// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pcpl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEndToEnd_FixedModeScenarioA(t *testing.T) {
	p, err := BuildParams(BuildConfig{X: 4, TokenBits: 128, Mode: ModeFixed})
	require.NoError(t, err)

	cfg, err := BuildCompoundConfig(1337, p, DefaultNumCompounds, DefaultPrimesPerCompound, ClassicMode, 0, 0, 0, DefaultPoolLabel)
	require.NoError(t, err)

	sec, st, err := BuildFixture(1337, p, cfg)
	require.NoError(t, err)

	err = ValidateAll(p, sec, st, 200, ValidateOptions{})
	require.NoError(t, err)
}

func TestEndToEnd_GeneratedModeDeterministic(t *testing.T) {
	cfg1 := BuildConfig{X: 4, TokenBits: 64, Mode: ModeGenerated, Seed: 42, PrimeBits: 24, ModulusBits: 32}
	p1, err := BuildParams(cfg1)
	require.NoError(t, err)
	p2, err := BuildParams(cfg1)
	require.NoError(t, err)

	require.Equal(t, 0, p1.P.Cmp(p2.P))
	require.Equal(t, 0, p1.Q.Cmp(p2.Q))
	require.Equal(t, 0, p1.R.Cmp(p2.R))
	require.Equal(t, 0, p1.M.Cmp(p2.M))
}

func TestPeriod_MatchesClockRepetition(t *testing.T) {
	p, err := BuildParams(BuildConfig{X: 4, TokenBits: 64, Mode: ModeGenerated, Seed: 1, PrimeBits: 8, ModulusBits: 16})
	require.NoError(t, err)

	period := Period(p)
	require.True(t, period.IsUint64())
	periodU64 := period.Uint64()
	require.True(t, periodU64 < 1<<24)

	phi0 := PhaseClock(0, p).Phi
	phiPeriod := PhaseClock(periodU64, p).Phi
	require.Equal(t, phi0, phiPeriod)
}

func TestDeviceCycle_ViaFacade(t *testing.T) {
	p, err := BuildParams(BuildConfig{X: 4, TokenBits: 128, Mode: ModeFixed})
	require.NoError(t, err)
	cfg, err := BuildCompoundConfig(9, p, DefaultNumCompounds, DefaultPrimesPerCompound, ClassicMode, 0, 0, 0, DefaultPoolLabel)
	require.NoError(t, err)
	sec, st, err := BuildFixture(9, p, cfg)
	require.NoError(t, err)
	_ = sec

	idx, tok, err := DeviceCycle(0, p, st)
	require.NoError(t, err)
	require.True(t, idx >= 0 && idx < p.X)
	require.NotNil(t, tok)
}
