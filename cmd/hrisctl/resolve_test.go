package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestResolveDate_NightShiftTail(t *testing.T) {
	out, err := runCLI(t, "resolve-date", "--start", "22:00", "--end", "06:00", "--at", "2025-03-11T05:30:00+07:00", "--policy", "noon")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03-10 (night shift: true, policy: noon)")
}

func TestResolveDate_WindowPolicy(t *testing.T) {
	out, err := runCLI(t, "resolve-date", "--start", "22:00", "--end", "06:00", "--at", "2025-03-11T09:00:00Z", "--policy", "window", "--buffer", "2h")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03-11 (night shift: true, policy: window)")
}

func TestResolveDate_RejectsBadClock(t *testing.T) {
	_, err := runCLI(t, "resolve-date", "--start", "25:00", "--end", "06:00", "--at", "2025-03-11T05:30:00Z")
	require.Error(t, err)
}

func TestToken_RejectsUnknownRole(t *testing.T) {
	_, err := runCLI(t, "token", "--employee", "e1", "--role", "owner")
	require.Error(t, err)
}
