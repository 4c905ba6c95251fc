package labelstore

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Entry is one labelling decision. Extra carries the configured extra fields
// verbatim; they are flattened next to "key" and "labels" on disk.
type Entry struct {
	Key    string                     `json:"key"`
	Labels []int                      `json:"labels"`
	Extra  map[string]json.RawMessage `json:"-"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage, len(e.Extra)+2)
	for k, v := range e.Extra {
		m[k] = v
	}
	key, err := json.Marshal(e.Key)
	if err != nil {
		return nil, err
	}
	labels := e.Labels
	if labels == nil {
		labels = []int{}
	}
	ids, err := json.Marshal(labels)
	if err != nil {
		return nil, err
	}
	m["key"] = key
	m["labels"] = ids
	return json.Marshal(m)
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	rawKey, ok := m["key"]
	if !ok {
		return fmt.Errorf("entry missing key")
	}
	rawLabels, ok := m["labels"]
	if !ok {
		return fmt.Errorf("entry missing labels")
	}
	if err := json.Unmarshal(rawKey, &e.Key); err != nil {
		return fmt.Errorf("decode key: %w", err)
	}
	if err := json.Unmarshal(rawLabels, &e.Labels); err != nil {
		return fmt.Errorf("decode labels for %s: %w", e.Key, err)
	}
	delete(m, "key")
	delete(m, "labels")
	e.Extra = nil
	if len(m) > 0 {
		e.Extra = m
	}
	return nil
}

// fields returns the sorted names of the extra fields present on e.
func (e Entry) fields() []string {
	out := make([]string, 0, len(e.Extra))
	for k := range e.Extra {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (e Entry) clone() Entry {
	out := Entry{Key: e.Key, Labels: append([]int(nil), e.Labels...)}
	if e.Labels != nil && out.Labels == nil {
		out.Labels = []int{}
	}
	if e.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(e.Extra))
		for k, v := range e.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// File is the on-disk layout shared by the store and the label filter.
type File struct {
	Annotations []Entry  `json:"annotations"`
	Labels      []string `json:"labels"`
}

// ReadFile decodes a label-store file without validating it against a key set.
func ReadFile(path string) (File, error) {
	var f File
	b, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read labels: %w", err)
	}
	if err := json.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("decode labels %s: %w", path, err)
	}
	return f, nil
}

// Keys returns the distinct keys in f in first-seen order.
func (f File) Keys() []string {
	seen := make(map[string]struct{}, len(f.Annotations))
	out := make([]string, 0, len(f.Annotations))
	for _, e := range f.Annotations {
		if _, ok := seen[e.Key]; ok {
			continue
		}
		seen[e.Key] = struct{}{}
		out = append(out, e.Key)
	}
	return out
}
