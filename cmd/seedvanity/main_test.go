package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screa/seedvanity/pkg/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDeriveAndVerifyCommands(t *testing.T) {
	base := types.PublicKey{1}.String()
	owner := types.PublicKey{2}.String()

	out, err := execute(t, "derive", "--base", base, "--owner", owner, "--seed", "42")
	require.NoError(t, err)
	addr := strings.TrimSpace(out)
	require.NotEmpty(t, addr)

	out, err = execute(t, "verify", "--base", base, "--owner", owner, "--seed", "42", "--address", addr)
	require.NoError(t, err)
	assert.Contains(t, out, "OK")

	_, err = execute(t, "verify", "--base", base, "--owner", owner, "--seed", "43", "--address", addr)
	assert.ErrorIs(t, err, types.ErrVerification)
}

func TestSearchRequiresPattern(t *testing.T) {
	base := types.PublicKey{1}.String()
	owner := types.PublicKey{2}.String()

	_, err := execute(t, "--base", base, "--owner", owner)
	assert.ErrorIs(t, err, types.ErrNoPattern)
}

func TestSetupLoggingToFile(t *testing.T) {
	saved := *cfg
	t.Cleanup(func() { *cfg = saved })

	cfg.LogFile = filepath.Join(t.TempDir(), "search.log")
	cleanup, err := setupLogging()
	require.NoError(t, err)
	require.NotNil(t, cleanup)

	logger.Printf("hello from the search")
	cleanup()

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the search")
}

func TestSetupLoggingToStdout(t *testing.T) {
	saved := *cfg
	t.Cleanup(func() { *cfg = saved })

	cfg.LogFile = ""
	cleanup, err := setupLogging()
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	assert.NotPanics(t, cleanup)
	assert.NotNil(t, logger)
}
