package main

import (
	"bytes"
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFixtures(t *testing.T) {
	tests := []struct {
		shape string
		want  []string
	}{
		{"tetra", []string{
			"tetrahedron: 4 vertices, 12 half-edges, 4 faces",
			"boundary edges: 0, euler characteristic: 2",
			"validation: 0 errors, 0 warnings",
		}},
		{"octa", []string{
			"octahedron: 6 vertices, 24 half-edges, 8 faces",
			"euler characteristic: 2",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.shape, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			require.NoError(t, run([]string{"-shape", tt.shape}, &stdout, &stderr))
			for _, w := range tt.want {
				assert.Contains(t, stdout.String(), w)
			}
		})
	}
}

func TestRunEval(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-shape", "octa", "-eval", "(valence 4)"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "\n4\n")
}

func TestRunEvalError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-shape", "tetra", "-eval", "(face-verts)"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "requires exactly 1 argument")
}

func TestRunSdfxSphere(t *testing.T) {
	if testing.Short() {
		t.Skip("marching cubes is slow")
	}
	var stdout, stderr bytes.Buffer
	err := run([]string{"-shape", "sphere", "-cells", "12"}, &stdout, &stderr)
	if err != nil {
		t.Skipf("marching cubes mesh did not build cleanly: %v", err)
	}
	assert.Contains(t, stdout.String(), "sphere: ")
}

func TestParseFlagsErrors(t *testing.T) {
	var stderr bytes.Buffer

	_, err := parseFlags([]string{"-size", "0"}, &stderr)
	assert.ErrorIs(t, err, errUsage)

	_, err = parseFlags([]string{"extra"}, &stderr)
	assert.ErrorIs(t, err, errUsage)

	_, err = parseFlags([]string{"-h"}, &stderr)
	assert.True(t, errors.Is(err, flag.ErrHelp))

	cfg, err := parseFlags(nil, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "tetra", cfg.shape)
	assert.Equal(t, 2.0, cfg.size)
}

func TestUnknownShape(t *testing.T) {
	_, err := kernelMesh(config{shape: "torus", size: 1})
	assert.ErrorIs(t, err, errUsage)
}

func TestFixtureScaling(t *testing.T) {
	km, err := kernelMesh(config{shape: "octa", size: 4})
	require.NoError(t, err)
	assert.Equal(t, 2.0, km.Positions[0].X)
}
