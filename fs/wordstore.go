package fs

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/lexcov"
)

// WordColumns is the header row of the word registry table.
var WordColumns = []string{"word", "lists", "seen_tokens", "seen_articles", "last_seen"}

// listSeparator joins list tags within the lists column.
const listSeparator = ";"

// Ensure WordStore implements lexcov.WordStore at compile time.
var _ lexcov.WordStore = (*WordStore)(nil)

// WordStore implements lexcov.WordStore on a CSV file.
// Saves write a temporary file next to the target and rename it over the
// target, so readers never observe a partially written table.
type WordStore struct {
	path string
}

// NewWordStore creates a WordStore backed by the CSV file at path.
func NewWordStore(path string) *WordStore {
	return &WordStore{path: path}
}

// Path returns the location of the backing file.
func (s *WordStore) Path() string {
	return s.path
}

// Load reads the registry. A missing file yields an empty registry.
func (s *WordStore) Load(ctx context.Context) (lexcov.Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return lexcov.Registry{}, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := ReadRegistry(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return r, nil
}

// Save replaces the file with the registry contents.
func (s *WordStore) Save(ctx context.Context, r lexcov.Registry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := WriteRegistry(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// ReadRegistry decodes a registry table. Columns are located by header
// name. Rows without a word or with non-integer counters are skipped;
// empty counters read as zero.
func ReadRegistry(in io.Reader) (lexcov.Registry, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return lexcov.Registry{}, nil
	} else if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["word"]; !ok {
		return nil, lexcov.Errorf(lexcov.EINVALID, "word registry header has no word column")
	}
	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	r := lexcov.Registry{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		word := strings.ToLower(field(row, "word"))
		if word == "" {
			continue
		}
		seenTokens, ok := parseCount(field(row, "seen_tokens"))
		if !ok {
			continue
		}
		seenArticles, ok := parseCount(field(row, "seen_articles"))
		if !ok {
			continue
		}
		r[word] = &lexcov.WordEntry{
			Word:         word,
			Lists:        parseLists(field(row, "lists")),
			SeenTokens:   seenTokens,
			SeenArticles: seenArticles,
			LastSeen:     field(row, "last_seen"),
		}
	}
	return r, nil
}

func parseCount(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseLists(s string) []string {
	var lists []string
	seen := make(map[string]bool)
	for _, tag := range strings.Split(s, listSeparator) {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		lists = append(lists, tag)
	}
	sort.Strings(lists)
	return lists
}

// WriteRegistry encodes the registry as a table sorted by word, with
// sorted semicolon-joined list tags and CRLF row terminators.
func WriteRegistry(out io.Writer, r lexcov.Registry) error {
	cw := csv.NewWriter(out)
	cw.UseCRLF = true

	if err := cw.Write(WordColumns); err != nil {
		return err
	}
	for _, word := range r.Words() {
		entry := r[word]
		lists := append([]string(nil), entry.Lists...)
		sort.Strings(lists)
		if err := cw.Write([]string{
			word,
			strings.Join(lists, listSeparator),
			strconv.Itoa(entry.SeenTokens),
			strconv.Itoa(entry.SeenArticles),
			entry.LastSeen,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
