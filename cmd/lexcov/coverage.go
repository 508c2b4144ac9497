package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/lexcov"
	"github.com/fwojciec/lexcov/fs"
)

// Run executes the coverage command.
func (c *CoverageCmd) Run(deps *Dependencies) error {
	text, err := c.read(deps)
	if err != nil {
		return fail(deps, err)
	}

	reg, err := deps.Words.Load(deps.Ctx)
	if err != nil {
		return fail(deps, fmt.Errorf("registry: %w", err))
	}
	if len(reg) == 0 {
		return fail(deps, lexcov.Errorf(lexcov.EINVALID, "registry: no words loaded. Run 'lexcov lists import' first"))
	}
	manual, err := fs.LoadTerms(deps.Config.TermsPath)
	if err != nil {
		return fail(deps, fmt.Errorf("terms: %w", err))
	}

	metrics := lexcov.Coverage(text, reg.WordsByList(), manual, deps.Config.Coverage)
	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(metrics)
	}
	printCoverage(deps, metrics)
	return nil
}

func (c *CoverageCmd) read(deps *Dependencies) (string, error) {
	if c.File == "-" {
		if deps.Stdin == nil {
			return "", lexcov.Errorf(lexcov.EINVALID, "no standard input")
		}
		raw, err := io.ReadAll(deps.Stdin)
		return string(raw), err
	}
	raw, err := os.ReadFile(c.File)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
