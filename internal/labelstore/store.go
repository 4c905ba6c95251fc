// Package labelstore persists reviewer labels in an append-only JSON file.
// Every update appends; the latest entry for a key is its current label.
package labelstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrNotFound   = errors.New("no label for key")
	ErrUnknownKey = errors.New("unknown key")
)

// Update is the new label for one key.
type Update struct {
	Labels []int                      `json:"labels"`
	Extra  map[string]json.RawMessage `json:"extra,omitempty"`
}

// Options configures Open.
type Options struct {
	// ExtraFields are the additional per-entry fields accepted besides the labels.
	ExtraFields []string
	// Seed orders Unlabeled.
	Seed uint64
	// InitialLabels is a previous session's output whose labels are offered
	// as starting points.
	InitialLabels string
	Logger        *zap.Logger
}

// Store is safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	path        string
	keys        map[string]struct{}
	labels      []string
	extraFields []string
	seed        uint64
	entries     []Entry
	initial     *Store
	log         *zap.Logger
}

// Open returns a store over path holding labels for keys. An existing file is
// loaded and validated. An empty path keeps the store in memory only.
func Open(path string, keys, labels []string, opts Options) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		path:        path,
		keys:        make(map[string]struct{}, len(keys)),
		labels:      append([]string(nil), labels...),
		extraFields: append([]string(nil), opts.ExtraFields...),
		seed:        opts.Seed,
		log:         log,
	}
	sort.Strings(s.extraFields)
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			entries, err := s.loadFile(path)
			if err != nil {
				return nil, err
			}
			s.entries = entries
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat label store: %w", err)
		}
	}
	if opts.InitialLabels != "" {
		if err := s.setupInitial(opts.InitialLabels); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) initialPath() string {
	if s.path == "" {
		return ""
	}
	ext := filepath.Ext(s.path)
	return strings.TrimSuffix(s.path, ext) + "_initial" + ext
}

// setupInitial creates the initial-label store, seeded from labelsPath when given.
// Labels previously saved next to the store take precedence.
func (s *Store) setupInitial(labelsPath string) error {
	keys := make([]string, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	// Initial labels may name keys this session has not sampled yet.
	for _, path := range []string{s.initialPath(), labelsPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		f, err := ReadFile(path)
		if err != nil {
			return fmt.Errorf("open initial labels: %w", err)
		}
		keys = append(keys, f.Keys()...)
	}
	initial, err := Open(s.initialPath(), keys, s.labels, Options{ExtraFields: s.extraFields, Seed: s.seed, Logger: s.log})
	if err != nil {
		return fmt.Errorf("open initial labels: %w", err)
	}
	if labelsPath != "" {
		entries, err := initial.loadFile(labelsPath)
		if err != nil {
			return fmt.Errorf("load initial labels: %w", err)
		}
		initial.entries = append(entries, initial.entries...)
	}
	s.initial = initial
	return nil
}

func (s *Store) loadFile(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read label store: %w", err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(b, &top); err != nil {
		return nil, fmt.Errorf("decode label store %s: %w", path, err)
	}
	_, hasAnnotations := top["annotations"]
	_, hasLabels := top["labels"]
	if !hasAnnotations || !hasLabels || len(top) != 2 {
		return nil, fmt.Errorf("label store %s: expected exactly \"annotations\" and \"labels\"", path)
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode label store %s: %w", path, err)
	}
	if !slices.Equal(f.Labels, s.labels) {
		return nil, fmt.Errorf("label store %s: label list %v does not match %v", path, f.Labels, s.labels)
	}
	for _, e := range f.Annotations {
		if _, ok := s.keys[e.Key]; !ok {
			return nil, fmt.Errorf("label store %s: %w %q not in current list of keys", path, ErrUnknownKey, e.Key)
		}
		if err := s.checkLabels(e.Labels); err != nil {
			return nil, fmt.Errorf("label store %s key %s: %w", path, e.Key, err)
		}
		if got := e.fields(); !slices.Equal(got, s.extraFields) {
			return nil, fmt.Errorf("label store %s key %s: fields %v, want %v", path, e.Key, got, s.extraFields)
		}
	}
	return f.Annotations, nil
}

func (s *Store) checkLabels(ids []int) error {
	for _, id := range ids {
		if id < 0 || id >= len(s.labels) {
			return fmt.Errorf("label id %d out of range [0, %d)", id, len(s.labels))
		}
	}
	return nil
}

// dump rewrites the backing file. Caller holds s.mu.
func (s *Store) dump() error {
	if s.path == "" {
		return nil
	}
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(File{Annotations: entries, Labels: s.labels}); err != nil {
		return fmt.Errorf("encode label store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create label store dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write label store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace label store: %w", err)
	}
	return nil
}

// Labels returns the label names; entry label ids index into it.
func (s *Store) Labels() []string {
	return append([]string(nil), s.labels...)
}

// AddKeys registers more keys that can be labelled.
func (s *Store) AddKeys(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	if s.initial != nil {
		s.initial.AddKeys(keys...)
	}
}

// Get returns the latest entry for key.
func (s *Store) Get(key string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Key == key {
			return s.entries[i].clone(), nil
		}
	}
	return Entry{}, ErrNotFound
}

// Update appends one entry per key and persists the store. Extra fields that
// were not configured are dropped with a warning.
func (s *Store) Update(updates map[string]Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	added := make([]Entry, 0, len(keys))
	for _, k := range keys {
		if _, ok := s.keys[k]; !ok {
			return fmt.Errorf("%w %q", ErrUnknownKey, k)
		}
		u := updates[k]
		if err := s.checkLabels(u.Labels); err != nil {
			return fmt.Errorf("key %s: %w", k, err)
		}
		e := Entry{Key: k, Labels: append([]int{}, u.Labels...)}
		for field, v := range u.Extra {
			if !slices.Contains(s.extraFields, field) {
				s.log.Warn("ignoring unknown field", zap.String("key", k), zap.String("field", field))
				continue
			}
			if e.Extra == nil {
				e.Extra = make(map[string]json.RawMessage)
			}
			e.Extra[field] = v
		}
		added = append(added, e)
	}
	s.entries = append(s.entries, added...)
	return s.dump()
}

// Initial returns the initial label offered for key, if any.
func (s *Store) Initial(key string) (Entry, error) {
	s.mu.Lock()
	initial := s.initial
	s.mu.Unlock()
	if initial == nil {
		return Entry{}, ErrNotFound
	}
	return initial.Get(key)
}

// UpdateInitial records initial labels, creating the initial store on first use.
func (s *Store) UpdateInitial(updates map[string]Update) error {
	s.mu.Lock()
	if s.initial == nil {
		s.log.Info("setting up initial labels", zap.String("path", s.initialPath()))
		if err := s.setupInitial(""); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	initial := s.initial
	s.mu.Unlock()
	return initial.Update(updates)
}

// LabeledKeys returns the keys with at least one entry.
func (s *Store) LabeledKeys() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labeledLocked()
}

func (s *Store) labeledLocked() map[string]struct{} {
	out := make(map[string]struct{}, len(s.entries))
	for _, e := range s.entries {
		out[e.Key] = struct{}{}
	}
	return out
}

// Unlabeled returns up to n unlabelled keys in a seed-determined order.
func (s *Store) Unlabeled(n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	labeled := s.labeledLocked()
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		if _, ok := labeled[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	rng := rand.New(rand.NewPCG(s.seed, s.seed))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// NumCompleted is the number of distinct labelled keys.
func (s *Store) NumCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.labeledLocked())
}

// NumTotal is the number of keys to label.
func (s *Store) NumTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
