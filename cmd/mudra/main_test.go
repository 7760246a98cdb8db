package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const circleTraceJSON = `[{"x":200,"y":300},{"x":210,"y":300},{"x":220,"y":310},{"x":220,"y":320},
{"x":210,"y":330},{"x":200,"y":330},{"x":190,"y":320},{"x":190,"y":310},{"x":200,"y":300},{"x":210,"y":300}]`

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScore(t *testing.T) {
	tests := []struct {
		observed string
		pattern  string
		want     string
	}{
		{"012345670", "012345670", "0"},
		{"01234567", "012345670", "1"},
		{"down, right", "20", "0"},
		{"", "0", "10000"},
	}

	for _, tt := range tests {
		out, err := execute(t, "", "score", tt.observed, tt.pattern)
		require.NoError(t, err)
		assert.Equal(t, tt.want, strings.TrimSpace(out), "score %q %q", tt.observed, tt.pattern)
	}
}

func TestScore_InvalidDirection(t *testing.T) {
	_, err := execute(t, "", "score", "wiggle", "0")
	assert.ErrorContains(t, err, "observed")
}

func TestRecognize_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circle.json")
	require.NoError(t, os.WriteFile(path, []byte(circleTraceJSON), 0644))

	out, err := execute(t, "", "recognize", "--pattern", "012345670", "--min-moves", "8", "--fudge", "5", path)
	require.NoError(t, err)
	assert.Contains(t, out, "matched")
	assert.Contains(t, out, "score: 0")
	assert.Contains(t, out, "moves: 9")
	assert.Contains(t, out, "path:  012345670")
}

func TestRecognize_Stdin(t *testing.T) {
	out, err := execute(t, circleTraceJSON, "recognize", "-p", "0", "--min-moves", "8", "--fudge", "5", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "no match")
	assert.Contains(t, out, "moves: 9")
}

func TestRecognize_Errors(t *testing.T) {
	_, err := execute(t, "not json", "recognize", "-p", "0", "-")
	assert.ErrorContains(t, err, "invalid trace")

	_, err = execute(t, "[]", "recognize", "-p", "9", "-")
	assert.Error(t, err)

	_, err = execute(t, "", "recognize", "-p", "0", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read trace")
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "mudra")

	_, err = execute(t, "", "completion", "tcsh")
	assert.ErrorContains(t, err, "unsupported shell")
}

func TestSettingsURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/", settingsURL(":8080"))
	assert.Equal(t, "http://127.0.0.1:9000/", settingsURL("127.0.0.1:9000"))
}
