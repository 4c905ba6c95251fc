// Package vocab holds the label vocabulary: the ordered set of category names a
// reviewer can assign, each with a stable integer id.
package vocab

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Category is one entry of a Vocabulary.
type Category struct {
	Name string `json:"name" example:"BaseballPitch"`
	ID   int    `json:"id" example:"1"`
}

// Vocabulary maps category names to ids. The zero value is an empty vocabulary.
type Vocabulary struct {
	byName map[string]int
	sorted []Category
}

// UnknownCategoryError is returned when a category name is not part of the vocabulary.
type UnknownCategoryError struct {
	Category string
	Known    []string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q, valid categories: %s", e.Category, strings.Join(e.Known, ", "))
}

// New builds a vocabulary assigning ids 0..len(names)-1 in the given order.
func New(names ...string) (Vocabulary, error) {
	m := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := m[name]; dup {
			return Vocabulary{}, fmt.Errorf("duplicate category %q", name)
		}
		m[name] = i
	}
	return FromMap(m)
}

// FromMap builds a vocabulary from an explicit name -> id mapping.
func FromMap(m map[string]int) (Vocabulary, error) {
	v := Vocabulary{
		byName: make(map[string]int, len(m)),
		sorted: make([]Category, 0, len(m)),
	}
	seen := make(map[int]string, len(m))
	for name, id := range m {
		if strings.TrimSpace(name) == "" {
			return Vocabulary{}, fmt.Errorf("empty category name for id %d", id)
		}
		if other, dup := seen[id]; dup {
			return Vocabulary{}, fmt.Errorf("categories %q and %q share id %d", other, name, id)
		}
		seen[id] = name
		v.byName[name] = id
		v.sorted = append(v.sorted, Category{Name: name, ID: id})
	}
	sort.Slice(v.sorted, func(i, j int) bool { return v.sorted[i].ID < v.sorted[j].ID })
	return v, nil
}

// Load parses a class list with one "<id> <name>" pair per line. Blank lines and
// lines starting with '#' are skipped.
func Load(r io.Reader) (Vocabulary, error) {
	m := make(map[string]int)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return Vocabulary{}, fmt.Errorf("class list line %d: expected \"<id> <name>\", got %q", lineNo, line)
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return Vocabulary{}, fmt.Errorf("class list line %d: parse id: %w", lineNo, err)
		}
		if _, dup := m[fields[1]]; dup {
			return Vocabulary{}, fmt.Errorf("class list line %d: duplicate category %q", lineNo, fields[1])
		}
		m[fields[1]] = id
	}
	if err := sc.Err(); err != nil {
		return Vocabulary{}, fmt.Errorf("read class list: %w", err)
	}
	return FromMap(m)
}

// LoadFile reads a class list from disk.
func LoadFile(path string) (Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("open class list: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (v Vocabulary) Len() int { return len(v.sorted) }

// ID returns the id of name.
func (v Vocabulary) ID(name string) (int, bool) {
	id, ok := v.byName[name]
	return id, ok
}

func (v Vocabulary) Contains(name string) bool {
	_, ok := v.byName[name]
	return ok
}

// Validate returns an *UnknownCategoryError if name is not in the vocabulary.
func (v Vocabulary) Validate(name string) error {
	if v.Contains(name) {
		return nil
	}
	return &UnknownCategoryError{Category: name, Known: v.Names()}
}

// Categories returns the categories ordered by id.
func (v Vocabulary) Categories() []Category {
	out := make([]Category, len(v.sorted))
	copy(out, v.sorted)
	return out
}

// Names returns the category names ordered by id.
func (v Vocabulary) Names() []string {
	out := make([]string, len(v.sorted))
	for i, c := range v.sorted {
		out[i] = c.Name
	}
	return out
}

// Map returns a fresh name -> id mapping.
func (v Vocabulary) Map() map[string]int {
	out := make(map[string]int, len(v.byName))
	for k, id := range v.byName {
		out[k] = id
	}
	return out
}

// SortByID orders names in place by category id. Names outside the vocabulary
// sort last, alphabetically.
func (v Vocabulary) SortByID(names []string) {
	sort.Slice(names, func(i, j int) bool {
		a, aok := v.byName[names[i]]
		b, bok := v.byName[names[j]]
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		default:
			return names[i] < names[j]
		}
	})
}
