package main

import (
	"fmt"

	"github.com/fwojciec/lexcov/fs"
	"github.com/fwojciec/lexcov/sources"
)

// Run executes the lists import command.
func (c *ListsImportCmd) Run(deps *Dependencies) error {
	res, err := deps.Importer.Import(deps.Ctx, sources.Request{
		Names:     c.Names,
		SourceURL: c.SourceURL,
		DryRun:    c.DryRun,
	})
	if err != nil {
		return fail(deps, err)
	}

	if c.CSV != "" {
		var words []string
		for _, l := range res.Lists {
			words = append(words, l.Words...)
		}
		if err := fs.WriteWordColumnFile(c.CSV, words); err != nil {
			return fail(deps, fmt.Errorf("write csv: %w", err))
		}
		fmt.Fprintf(deps.Stdout, "[write] saved -> %s\n", c.CSV)
	}

	if c.DryRun {
		for _, l := range res.Lists {
			fmt.Fprintf(deps.Stdout, "[dry-run] %s: %d words\n", l.Source.Label, len(l.Words))
		}
		fmt.Fprintln(deps.Stdout, "[dry-run] registry not updated")
		return nil
	}
	for _, l := range res.Lists {
		fmt.Fprintf(deps.Stdout, "[words] %s: new=%d, tagged=%d\n", l.Source.Label, l.Import.Created, l.Import.Tagged)
	}
	fmt.Fprintf(deps.Stdout, "[words] total_entries=%d\n", res.Total)
	return nil
}
