package main

import (
	"fmt"

	"github.com/fwojciec/lexcov/fs"
)

// Run executes the words summary command.
func (c *WordsSummaryCmd) Run(deps *Dependencies) error {
	reg, err := deps.Words.Load(deps.Ctx)
	if err != nil {
		return fail(deps, err)
	}
	if len(reg) == 0 {
		fmt.Fprintf(deps.Stderr, "warn: word registry is empty: %s\n", deps.Config.WordsPath)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Total words: %d\n", len(reg))
	for _, lc := range reg.ListSummary() {
		fmt.Fprintf(deps.Stdout, "%s: %d\n", lc.Tag, lc.Words)
	}
	return nil
}

// Run executes the words export command.
func (c *WordsExportCmd) Run(deps *Dependencies) error {
	reg, err := deps.Words.Load(deps.Ctx)
	if err != nil {
		return fail(deps, err)
	}
	if len(reg) == 0 {
		fmt.Fprintf(deps.Stderr, "warn: word registry is empty: %s\n", deps.Config.WordsPath)
		return nil
	}
	return fs.WriteRegistry(deps.Stdout, reg)
}
