package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "geometry.yaml")
	contents := "keysize: 8\nvaluesize: 8\nblocksize: 128\nnumblocks: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	origStdout := os.Stdout
	os.Stdout = w

	rootCmd.SetArgs(args)
	execErr := rootCmd.Execute()

	os.Stdout = origStdout
	require.NoError(t, w.Close())
	out, readErr := io.ReadAll(r)
	require.NoError(t, readErr)

	require.NoError(t, execErr, "command %v failed: %s", args, out)
	return string(out)
}

func TestCLIInsertLookupRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.idx")
	cfgPath := writeTestConfig(t, dir)

	runCLI(t, "attach", "--data", dataPath, "--config", cfgPath, "--create")
	runCLI(t, "insert", "--data", dataPath, "--config", cfgPath, "AAAAAAAA", "00000001")

	out := runCLI(t, "lookup", "--data", dataPath, "--config", cfgPath, "AAAAAAAA")
	require.Equal(t, "00000001", strings.TrimSpace(out))
}

func TestCLIUpdateChangesLookupResult(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.idx")
	cfgPath := writeTestConfig(t, dir)

	runCLI(t, "attach", "--data", dataPath, "--config", cfgPath, "--create")
	runCLI(t, "insert", "--data", dataPath, "--config", cfgPath, "AAAAAAAA", "00000001")
	runCLI(t, "update", "--data", dataPath, "--config", cfgPath, "AAAAAAAA", "ZZZZZZZZ")

	out := runCLI(t, "lookup", "--data", dataPath, "--config", cfgPath, "AAAAAAAA")
	require.Equal(t, "ZZZZZZZZ", strings.TrimSpace(out))
}

func TestCLILookupNonExistentFails(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.idx")
	cfgPath := writeTestConfig(t, dir)

	runCLI(t, "attach", "--data", dataPath, "--config", cfgPath, "--create")

	rootCmd.SetArgs([]string{"lookup", "--data", dataPath, "--config", cfgPath, "ZZZZZZZZ"})
	err := rootCmd.Execute()
	require.Error(t, err)
}
