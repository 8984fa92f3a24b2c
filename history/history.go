// Package history implements the per-mode MRU history file: one line per
// entry, most-recent first, bounded to a configurable size, with entries
// matching a configured ignored-prefix set never inserted.
package history

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/btree"
	"github.com/pkg/errors"
)

// ignoredSet is a sorted prefix set backed by a B-tree: lookups walk
// candidate prefixes in descending order starting from the entry itself,
// so a match near the entry's own position is found without scanning the
// whole set.
type ignoredSet struct {
	tree *btree.BTreeG[string]
}

func newIgnoredSet(prefixes []string) *ignoredSet {
	tree := btree.NewG(32, func(a, b string) bool { return a < b })
	for _, p := range prefixes {
		if p != "" {
			tree.ReplaceOrInsert(p)
		}
	}
	return &ignoredSet{tree: tree}
}

// matches reports whether entry starts with any registered prefix. Because
// the tree is ordered, every prefix of entry sorts <= entry; we walk
// backward from the greatest key <= entry.
func (s *ignoredSet) matches(entry string) bool {
	found := false
	s.tree.DescendLessOrEqual(entry, func(p string) bool {
		if strings.HasPrefix(entry, p) {
			found = true
			return false
		}
		// Once a candidate key no longer shares entry's leading byte,
		// neither it nor any smaller key can be a prefix of entry, so
		// the walk stops there rather than scanning the whole tree.
		return entry != "" && p[0] == entry[0]
	})
	return found
}

// History is a bounded, file-backed MRU list for one mode.
type History struct {
	path    string
	max     int
	ignored *ignoredSet
	entries []string
}

// Open loads path (if it exists) into memory. max bounds the list length;
// ignoredPrefixes are never inserted by Prepend.
func Open(path string, max int, ignoredPrefixes []string) (*History, error) {
	h := &History{path: path, max: max, ignored: newIgnoredSet(ignoredPrefixes)}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, errors.Wrapf(err, "failed to open history file %q", path)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line != "" {
			h.entries = append(h.entries, line)
		}
	}
	return h, nil
}

// Entries returns the current MRU list, most-recent first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// PrependOrPromote moves entry to the front (linear scan to find an
// existing occurrence), truncates to max, and persists the file. A no-op
// if entry matches a configured ignored prefix.
func (h *History) PrependOrPromote(entry string) error {
	if entry == "" || h.ignored.matches(entry) {
		return nil
	}
	for i, e := range h.entries {
		if e == entry {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append([]string{entry}, h.entries...)
	if h.max > 0 && len(h.entries) > h.max {
		h.entries = h.entries[:h.max]
	}
	return h.save()
}

func (h *History) save() error {
	if h.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0700); err != nil {
		return errors.Wrap(err, "failed to create history directory")
	}
	tmp := h.path + ".tmp"
	var b strings.Builder
	for _, e := range h.entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(tmp, []byte(b.String()), 0600); err != nil {
		return errors.Wrap(err, "failed to write history file")
	}
	return os.Rename(tmp, h.path)
}
