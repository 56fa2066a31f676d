// Package skills normalizes raw skill strings to canonical names and matches
// resume phrases against the known skill vocabulary.
package skills

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/skillgap/internal/schemas"
	schemafiles "github.com/jonathan/skillgap/schemas"
)

// Alias maps one raw skill string to its canonical name.
type Alias struct {
	Raw       string
	Canonical string
}

// AliasTable is an ordered, read-only mapping from lowercase raw skill strings
// to canonical names. Iteration order is the order of the source file and is
// used to break similarity ties.
type AliasTable struct {
	keys  []string
	canon map[string]string
}

// NewAliasTable builds a table from entries. Raw strings are lowercased and
// trimmed; a repeated key keeps its first position and takes the last value.
func NewAliasTable(entries []Alias) *AliasTable {
	t := &AliasTable{canon: make(map[string]string, len(entries))}
	for _, e := range entries {
		key := normalizeKey(e.Raw)
		if key == "" {
			continue
		}
		if _, exists := t.canon[key]; !exists {
			t.keys = append(t.keys, key)
		}
		t.canon[key] = e.Canonical
	}
	return t
}

// LoadAliases reads and validates the alias table file at path.
func LoadAliases(path string) (*AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AliasLoadError{Path: path, Message: "read failed", Cause: err}
	}
	t, err := ParseAliases(data)
	if err != nil {
		return nil, &AliasLoadError{Path: path, Message: "invalid alias table", Cause: err}
	}
	return t, nil
}

// ParseAliases parses a JSON object of raw → canonical strings, keeping the
// key order of the document.
func ParseAliases(data []byte) (*AliasTable, error) {
	if err := schemas.Validate(schemafiles.SkillAliases, data); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}

	var entries []Alias
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("alias %q: %w", key, err)
		}
		entries = append(entries, Alias{Raw: key, Canonical: value})
	}

	return NewAliasTable(entries), nil
}

func normalizeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Len returns the number of aliases.
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Lookup returns the canonical name for raw after lowercasing and trimming.
func (t *AliasTable) Lookup(raw string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.canon[normalizeKey(raw)]
	return v, ok
}

// Keys returns the raw keys in load order.
func (t *AliasTable) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Skills returns the distinct canonical names in load order.
func (t *AliasTable) Skills() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, k := range t.keys {
		if v := t.canon[k]; !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// KnownSkills returns every key followed by every canonical name not already
// listed, in load order.
func (t *AliasTable) KnownSkills() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool, 2*len(t.keys))
	out := make([]string, 0, 2*len(t.keys))
	for _, k := range t.keys {
		seen[k] = true
		out = append(out, k)
	}
	for _, k := range t.keys {
		v := t.canon[k]
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
