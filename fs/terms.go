package fs

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/fwojciec/lexcov"
)

// LoadTerms reads a specialized-term file, one term per line. Terms are
// lowercased and blank lines ignored. A missing file yields an empty set.
func LoadTerms(path string) (lexcov.WordSet, error) {
	terms := make(lexcov.WordSet)
	if path == "" {
		return terms, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return terms, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		term := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if term == "" {
			continue
		}
		terms[term] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return terms, nil
}
