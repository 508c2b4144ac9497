package fs

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
)

// ReadWordColumn returns the lowercased first field of every CSV record,
// skipping empty ones. Records may have any number of fields.
func ReadWordColumn(in io.Reader) ([]string, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var words []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if len(rec) == 0 {
			continue
		}
		w := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff")))
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	return words, nil
}

// ReadWordColumnFile is ReadWordColumn on the named file.
func ReadWordColumnFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWordColumn(f)
}

// WriteWordColumnFile writes words to path as a one-column CSV file.
func WriteWordColumnFile(path string, words []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	for _, w := range words {
		if err := cw.Write([]string{w}); err != nil {
			f.Close()
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
