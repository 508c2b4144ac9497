package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/lexcov"
	main "github.com/fwojciec/lexcov/cmd/lexcov"
	"github.com/fwojciec/lexcov/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordsSummaryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("counts words per list", func(t *testing.T) {
		t.Parallel()

		reg := ngslRegistry("market", "price")
		reg.Import(lexcov.ListNAWL, []string{"hypothesis"})

		var saves int
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Config: testConfig(),
			Words:  memoryWords(reg, &saves),
		}

		err := (&main.WordsSummaryCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Total words: 3\nNGSL: 2\nNAWL: 1\n", stdout.String())
	})

	t.Run("warns about an empty registry", func(t *testing.T) {
		t.Parallel()

		var saves int
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Config: testConfig(),
			Words:  memoryWords(lexcov.Registry{}, &saves),
		}

		err := (&main.WordsSummaryCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "word registry is empty")
	})
}

func TestWordsExportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the registry table", func(t *testing.T) {
		t.Parallel()

		reg := ngslRegistry("market", "price")
		var saves int
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Config: testConfig(),
			Words:  memoryWords(reg, &saves),
		}

		err := (&main.WordsExportCmd{}).Run(deps)

		require.NoError(t, err)
		got, err := fs.ReadRegistry(stdout)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, []string{lexcov.ListNGSL}, got["price"].Lists)
	})
}
