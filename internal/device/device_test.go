// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package device

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cekkr/phaselane/internal/params"
	"github.com/cekkr/phaselane/internal/secrets"
)

func testState(t *testing.T, x int) (*params.Params, *State) {
	t.Helper()
	p, err := params.Build(params.BuildConfig{X: x, TokenBits: 128, Mode: params.ModeFixed})
	require.NoError(t, err)

	w := make([]*big.Int, x)
	sec := make([]secrets.ProviderSecrets, x)
	for i := 0; i < x; i++ {
		w[i] = big.NewInt(0)
		sec[i] = secrets.ProviderSecrets{
			BouquetA: []*big.Int{big.NewInt(int64(6*i + 11))},
			BouquetB: []*big.Int{big.NewInt(int64(6*i + 13))},
			BouquetC: []*big.Int{big.NewInt(int64(6*i + 17))},
		}
	}

	st := &State{
		W:       w,
		S:       []byte("initial-seed-material-32-bytes!"),
		PermKey: []byte("permutation-key-material-32byte"),
		Secrets: sec,
	}
	return p, st
}

func TestCycle_FirstCycleMustBeZero(t *testing.T) {
	p, st := testState(t, 4)
	_, _, err := Cycle(1, p, st)
	require.ErrorIs(t, err, ErrNonMonotonicCycle)
}

func TestCycle_EnforcesMonotonicOrdering(t *testing.T) {
	p, st := testState(t, 4)
	_, _, err := Cycle(0, p, st)
	require.NoError(t, err)

	_, _, err = Cycle(0, p, st)
	require.ErrorIs(t, err, ErrNonMonotonicCycle)

	_, _, err = Cycle(2, p, st)
	require.ErrorIs(t, err, ErrNonMonotonicCycle)

	_, _, err = Cycle(1, p, st)
	require.NoError(t, err)
}

func TestCycle_StateUntouchedOnError(t *testing.T) {
	p, st := testState(t, 4)
	_, _, err := Cycle(0, p, st)
	require.NoError(t, err)

	sBefore := append([]byte(nil), st.S...)
	wBefore := make([]*big.Int, len(st.W))
	copy(wBefore, st.W)

	_, _, err = Cycle(99, p, st)
	require.ErrorIs(t, err, ErrNonMonotonicCycle)
	require.Equal(t, sBefore, st.S)
	require.Equal(t, wBefore, st.W)
}

func TestCycle_UpdatesExactlyTheSelectedLane(t *testing.T) {
	p, st := testState(t, 4)
	wBefore := make([]*big.Int, len(st.W))
	copy(wBefore, st.W)

	idx, tok, err := Cycle(0, p, st)
	require.NoError(t, err)
	require.True(t, idx >= 0 && idx < p.X)
	require.NotNil(t, tok)

	for i, w := range st.W {
		if i == idx {
			require.Equal(t, 0, w.Cmp(tok))
		} else {
			require.Equal(t, 0, w.Cmp(wBefore[i]))
		}
	}
}

func TestCycle_SeedChangesEveryCycle(t *testing.T) {
	p, st := testState(t, 4)
	s0 := append([]byte(nil), st.S...)

	_, _, err := Cycle(0, p, st)
	require.NoError(t, err)
	s1 := append([]byte(nil), st.S...)
	require.NotEqual(t, s0, s1)

	_, _, err = Cycle(1, p, st)
	require.NoError(t, err)
	s2 := append([]byte(nil), st.S...)
	require.NotEqual(t, s1, s2)
}

func TestCycle_DeterministicAcrossIdenticalStates(t *testing.T) {
	p1, st1 := testState(t, 4)
	p2, st2 := testState(t, 4)

	for tcycle := uint64(0); tcycle < 4; tcycle++ {
		idx1, tok1, err1 := Cycle(tcycle, p1, st1)
		idx2, tok2, err2 := Cycle(tcycle, p2, st2)
		require.NoError(t, err1)
		require.NoError(t, err2)
		require.Equal(t, idx1, idx2)
		require.Equal(t, 0, tok1.Cmp(tok2))
	}
	require.Equal(t, st1.S, st2.S)
}

func TestCycle_MultiCycleSequentialRun(t *testing.T) {
	p, st := testState(t, 4)
	for tcycle := uint64(0); tcycle < 16; tcycle++ {
		idx, tok, err := Cycle(tcycle, p, st)
		require.NoError(t, err)
		require.True(t, idx >= 0 && idx < p.X)
		require.NotNil(t, tok)
	}
	require.Equal(t, uint64(16), st.nextT)
}
