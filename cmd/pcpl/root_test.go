// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRun_FixedModeSucceeds(t *testing.T) {
	out, err := execute(t, "--cycles", "40", "--x", "4", "--seed", "1337")
	require.NoError(t, err)
	require.Contains(t, out, "ok:")
}

func TestRun_ShowParamsPrintsStructure(t *testing.T) {
	out, err := execute(t, "--cycles", "8", "--show-params")
	require.NoError(t, err)
	require.Contains(t, out, "x=4")
	require.Contains(t, out, "token_bits=128")
}

func TestRun_UnknownPrimeModeIsUsageError(t *testing.T) {
	_, err := execute(t, "--prime-mode", "bogus")
	require.Error(t, err)
	require.False(t, isAssertionFailure(err))
}

func TestRun_CompareXTabulatesMultipleValues(t *testing.T) {
	out, err := execute(t, "--compare-x", "4,5", "--cycles", "20")
	require.NoError(t, err)
	require.Contains(t, out, "x\tcycles\tresult")
}

func TestRun_GeneratedModeRequiresBitWidths(t *testing.T) {
	_, err := execute(t, "--prime-mode", "generated", "--prime-bits", "4", "--cycles", "4")
	require.Error(t, err)
}

func TestExitCodeFor(t *testing.T) {
	require.Equal(t, 0, exitCodeFor(nil))
}
