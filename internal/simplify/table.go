package simplify

import (
	"errors"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Entry maps one legal term to its plain-language replacement.
type Entry struct {
	Term  string `yaml:"term" json:"term"`
	Plain string `yaml:"plain" json:"plain"`
}

// Table is an ordered, immutable list of replacements. Order is the order in
// which substitutions are applied.
type Table struct {
	entries []Entry
}

// NewTable builds a Table from entries in the given order. Terms are keyed by
// their lowercase form; when a term repeats, the entry stays at the position
// of its first occurrence and takes the replacement of its last one. Entries
// with a blank term are skipped.
func NewTable(entries []Entry) Table {
	out := make([]Entry, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Term) == "" {
			continue
		}
		key := strings.ToLower(e.Term)
		if i, ok := index[key]; ok {
			out[i].Plain = e.Plain
			continue
		}
		index[key] = len(out)
		out = append(out, e)
	}
	return Table{entries: out}
}

// Entries returns a copy of the table in application order.
func (t Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Len reports the number of distinct terms.
func (t Table) Len() int { return len(t.entries) }

// Lookup returns the replacement for term, matched case-insensitively.
func (t Table) Lookup(term string) (string, bool) {
	key := strings.ToLower(term)
	for _, e := range t.entries {
		if strings.ToLower(e.Term) == key {
			return e.Plain, true
		}
	}
	return "", false
}

// DefaultTable returns the built-in legal vocabulary. "hereinafter" is listed
// twice; the second definition wins.
func DefaultTable() Table {
	return NewTable([]Entry{
		{"hereinafter", "from now on"},
		{"whereas", "because"},
		{"notwithstanding", "despite"},
		{"pursuant to", "according to"},
		{"in accordance with", "following"},
		{"shall", "will"},
		{"may", "can"},
		{"must", "has to"},
		{"hereby", "by this"},
		{"thereof", "of it"},
		{"therein", "in it"},
		{"thereto", "to it"},
		{"whereby", "by which"},
		{"wherein", "in which"},
		{"whereof", "of which"},
		{"heretofore", "before now"},
		{"hereinbefore", "before this"},
		{"hereinafter", "after this"},
		{"aforesaid", "mentioned above"},
		{"aforementioned", "mentioned above"},
		{"indemnification", "protection from loss"},
		{"liability", "responsibility"},
		{"obligation", "duty"},
		{"breach", "violation"},
		{"remedy", "solution"},
		{"damages", "compensation"},
		{"warranty", "guarantee"},
		{"covenant", "promise"},
		{"provision", "rule"},
		{"clause", "section"},
		{"paragraph", "section"},
		{"subparagraph", "subsection"},
		{"schedule", "list"},
		{"exhibit", "attachment"},
		{"annex", "attachment"},
		{"appendix", "attachment"},
	})
}

// tableFile is the on-disk schema for a custom replacement table.
type tableFile struct {
	Terms []Entry `yaml:"terms"`
}

// ErrEmptyTable is returned when a table file defines no usable terms.
var ErrEmptyTable = errors.New("replacement table has no terms")

// ParseTable decodes a YAML (or JSON, which is valid YAML) table document.
func ParseTable(data []byte) (Table, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return Table{}, fmt.Errorf("parse table: %w", err)
	}
	t := NewTable(tf.Terms)
	if t.Len() == 0 {
		return Table{}, ErrEmptyTable
	}
	return t, nil
}

// LoadTableFile reads a replacement table from path.
func LoadTableFile(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	return ParseTable(b)
}
