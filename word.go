package lexcov

import (
	"context"
	"sort"
	"strings"
	"time"
)

// TimestampFormat is the layout of WordEntry.LastSeen and other persisted
// timestamps: second precision with a numeric UTC offset.
const TimestampFormat = "2006-01-02T15:04:05-07:00"

// Now returns the current time formatted with TimestampFormat in UTC.
func Now() string {
	return time.Now().UTC().Format(TimestampFormat)
}

// WordEntry is one vocabulary word with its list membership and usage counters.
type WordEntry struct {
	Word         string
	Lists        []string // sorted, no duplicates
	SeenTokens   int
	SeenArticles int
	LastSeen     string
}

// HasList reports whether the entry is tagged with the list.
func (e *WordEntry) HasList(tag string) bool {
	i := sort.SearchStrings(e.Lists, tag)
	return i < len(e.Lists) && e.Lists[i] == tag
}

// AddList tags the entry with the list. Returns false if it was already tagged.
func (e *WordEntry) AddList(tag string) bool {
	i := sort.SearchStrings(e.Lists, tag)
	if i < len(e.Lists) && e.Lists[i] == tag {
		return false
	}
	e.Lists = append(e.Lists, "")
	copy(e.Lists[i+1:], e.Lists[i:])
	e.Lists[i] = tag
	return true
}

// untouched reports whether the entry has never been counted.
func (e *WordEntry) untouched() bool {
	return e.SeenTokens == 0 && e.SeenArticles == 0 && e.LastSeen == ""
}

// Registry maps a lowercase word to its entry.
// It is the single source of truth for list membership and usage counters.
type Registry map[string]*WordEntry

// ImportResult reports the outcome of Registry.Import.
type ImportResult struct {
	// Created counts words that were new to the registry.
	Created int
	// Tagged counts existing words that gained the list tag.
	Tagged int
}

// Import merges words into the registry under the list tag.
// Words are expected to be cleaned already; they are lowercased and trimmed
// again and empty words are ignored.
func (r Registry) Import(tag string, words []string) ImportResult {
	var res ImportResult
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		entry, ok := r[w]
		if !ok {
			entry = &WordEntry{Word: w}
			r[w] = entry
		}
		if !entry.AddList(tag) {
			continue
		}
		if entry.untouched() && len(entry.Lists) == 1 {
			res.Created++
		} else {
			res.Tagged++
		}
	}
	return res
}

// Seed ensures an untagged entry exists for each word.
// Returns the number of entries created.
func (r Registry) Seed(words []string) int {
	var created int
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := r[w]; ok {
			continue
		}
		r[w] = &WordEntry{Word: w}
		created++
	}
	return created
}

// Known returns the encounters restricted to words present in the registry.
func (r Registry) Known(encounters Counts) Counts {
	out := make(Counts)
	for w, c := range encounters {
		if _, ok := r[w]; ok {
			out[w] = c
		}
	}
	return out
}

// ApplyCounts records one article's encounters: for every known word the
// occurrence count is added to SeenTokens, SeenArticles is incremented and
// LastSeen is set to now. Unknown words and non-positive counts are ignored.
// The registry does not detect double application; callers track whether an
// article was already counted. Returns the number of entries updated.
func (r Registry) ApplyCounts(encounters Counts, now string) int {
	var n int
	for w, c := range encounters {
		entry, ok := r[w]
		if !ok || c <= 0 {
			continue
		}
		entry.SeenTokens += c
		entry.SeenArticles++
		entry.LastSeen = now
		n++
	}
	return n
}

// UnapplyCounts reverses ApplyCounts for the same encounters. Counters are
// floored at zero and LastSeen is cleared once SeenArticles reaches zero.
// Returns the number of entries updated.
func (r Registry) UnapplyCounts(encounters Counts) int {
	var n int
	for w, c := range encounters {
		entry, ok := r[w]
		if !ok || c <= 0 {
			continue
		}
		entry.SeenTokens = max(entry.SeenTokens-c, 0)
		entry.SeenArticles = max(entry.SeenArticles-1, 0)
		if entry.SeenArticles == 0 {
			entry.LastSeen = ""
		}
		n++
	}
	return n
}

// ResetMode selects how Registry.Reset clears the registry.
type ResetMode string

// Reset modes.
const (
	// ResetZero zeroes the counters of every entry and keeps list membership.
	ResetZero ResetMode = "zero"
	// ResetArchive removes every entry.
	ResetArchive ResetMode = "archive"
)

// Reset clears the registry according to mode and returns the number of
// entries it held before.
func (r Registry) Reset(mode ResetMode) (int, error) {
	before := len(r)
	switch mode {
	case ResetZero:
		for _, entry := range r {
			entry.SeenTokens = 0
			entry.SeenArticles = 0
			entry.LastSeen = ""
		}
	case ResetArchive:
		clear(r)
	default:
		return 0, Errorf(EINVALID, "unknown reset mode %q", mode)
	}
	return before, nil
}

// WordsByList groups the registry words by list tag.
func (r Registry) WordsByList() map[string]WordSet {
	out := make(map[string]WordSet)
	for w, entry := range r {
		for _, tag := range entry.Lists {
			set, ok := out[tag]
			if !ok {
				set = make(WordSet)
				out[tag] = set
			}
			set[w] = struct{}{}
		}
	}
	return out
}

// Words returns the registry words in sorted order.
func (r Registry) Words() []string {
	words := make([]string, 0, len(r))
	for w := range r {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// ListCount is the number of words tagged with a list.
type ListCount struct {
	Tag   string
	Words int
}

// ListSummary counts words per list, most populated list first.
func (r Registry) ListSummary() []ListCount {
	counts := make(map[string]int)
	for _, entry := range r {
		for _, tag := range entry.Lists {
			counts[tag]++
		}
	}
	out := make([]ListCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, ListCount{Tag: tag, Words: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Words != out[j].Words {
			return out[i].Words > out[j].Words
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// WordStore persists the registry.
// Stores assume exclusive access for the duration of a load-modify-save
// cycle; concurrent writers may lose updates.
type WordStore interface {
	// Load reads the full registry. A missing backing store yields an
	// empty registry, not an error.
	Load(ctx context.Context) (Registry, error)

	// Save replaces the backing store with the registry contents.
	Save(ctx context.Context, r Registry) error
}
