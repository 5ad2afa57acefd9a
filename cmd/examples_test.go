package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each examples/NAME.spp lowers to examples/NAME.stk.
func TestExamples(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "examples", "*.spp"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, src := range files {
		name := strings.TrimSuffix(filepath.Base(src), ".spp")
		t.Run(name, func(t *testing.T) {
			want, err := os.ReadFile(strings.TrimSuffix(src, ".spp") + ".stk")
			require.NoError(t, err)

			r := runCLI(t, "", src)
			require.NoError(t, r.err)
			assert.Equal(t, string(want), r.stdout.String())
			assert.Empty(t, r.stderr.String())
		})
	}
}

// Golden outputs lower to themselves.
func TestExamples_Idempotent(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "examples", "*.stk"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			want, err := os.ReadFile(path)
			require.NoError(t, err)

			r := runCLI(t, string(want))
			require.NoError(t, r.err)
			assert.Equal(t, string(want), r.stdout.String())
		})
	}
}
