package main

import "fmt"

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	article, err := fetchArticle(deps, c.URL)
	if err != nil {
		return fail(deps, err)
	}
	fmt.Fprintf(deps.Stdout, "Title: %s\n", article.Title)
	fmt.Fprintf(deps.Stdout, "Strategy: %s\n\n", article.Strategy)
	fmt.Fprintln(deps.Stdout, article.Body)
	return nil
}
