package labelstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateAndGetLatest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	s, err := Open(path, []string{"a", "b", "c"}, []string{"run", "jump"}, Options{})
	require.NoError(t, err)

	_, err = s.Get("a")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Update(map[string]Update{"a": {Labels: []int{0}}}))
	require.NoError(t, s.Update(map[string]Update{"a": {Labels: []int{0, 1}}, "b": {Labels: []int{}}}))

	e, err := s.Get("a")
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, e.Labels)
	require.Equal(t, 2, s.NumCompleted())
	require.Equal(t, 3, s.NumTotal())
	require.Equal(t, []string{"c"}, s.Unlabeled(10))

	var f File
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &f))
	require.Len(t, f.Annotations, 3)
	require.Equal(t, []string{"run", "jump"}, f.Labels)

	reopened, err := Open(path, []string{"a", "b", "c"}, []string{"run", "jump"}, Options{})
	require.NoError(t, err)
	e, err = reopened.Get("a")
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, e.Labels)
}

func TestUpdateValidation(t *testing.T) {
	s, err := Open("", []string{"a"}, []string{"run"}, Options{})
	require.NoError(t, err)

	err = s.Update(map[string]Update{"zzz": {Labels: []int{0}}})
	require.ErrorIs(t, err, ErrUnknownKey)

	err = s.Update(map[string]Update{"a": {Labels: []int{3}}})
	require.Error(t, err)
	require.Equal(t, 0, s.NumCompleted())

	s.AddKeys("zzz")
	require.NoError(t, s.Update(map[string]Update{"zzz": {Labels: []int{0}}}))
}

func TestExtraFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	s, err := Open(path, []string{"a"}, []string{"run"}, Options{ExtraFields: []string{"notes"}})
	require.NoError(t, err)
	require.NoError(t, s.Update(map[string]Update{"a": {
		Labels: []int{0},
		Extra: map[string]json.RawMessage{
			"notes": json.RawMessage(`"blurry"`),
			"bogus": json.RawMessage(`1`),
		},
	}}))

	e, err := s.Get("a")
	require.NoError(t, err)
	require.Equal(t, map[string]json.RawMessage{"notes": json.RawMessage(`"blurry"`)}, e.Extra)

	_, err = Open(path, []string{"a"}, []string{"run"}, Options{})
	require.Error(t, err, "field set must match on load")
}

func TestOpenRejectsMismatchedFiles(t *testing.T) {
	dir := t.TempDir()
	testCases := []struct {
		name    string
		content string
	}{
		{"wrong_labels", `{"annotations": [], "labels": ["other"]}`},
		{"unknown_key", `{"annotations": [{"key": "x", "labels": [0]}], "labels": ["run"]}`},
		{"label_out_of_range", `{"annotations": [{"key": "a", "labels": [4]}], "labels": ["run"]}`},
		{"extra_top_level", `{"annotations": [], "labels": ["run"], "meta": 1}`},
		{"missing_labels", `{"annotations": []}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))
			_, err := Open(path, []string{"a"}, []string{"run"}, Options{})
			require.Error(t, err)
		})
	}
}

func TestUnlabeledIsSeeded(t *testing.T) {
	keys := []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7", "k8"}
	a, err := Open("", keys, []string{"x"}, Options{Seed: 3})
	require.NoError(t, err)
	b, err := Open("", keys, []string{"x"}, Options{Seed: 3})
	require.NoError(t, err)

	require.Equal(t, a.Unlabeled(5), b.Unlabeled(5))
	require.Len(t, a.Unlabeled(5), 5)
	require.ElementsMatch(t, keys, a.Unlabeled(-1))
}

func TestInitialLabels(t *testing.T) {
	dir := t.TempDir()
	previous := filepath.Join(dir, "previous.json")
	require.NoError(t, os.WriteFile(previous, []byte(`{"annotations": [{"key": "a", "labels": [1]}], "labels": ["run", "jump"]}`), 0o644))

	path := filepath.Join(dir, "labels.json")
	s, err := Open(path, []string{"a", "b"}, []string{"run", "jump"}, Options{InitialLabels: previous})
	require.NoError(t, err)

	e, err := s.Initial("a")
	require.NoError(t, err)
	require.Equal(t, []int{1}, e.Labels)

	require.NoError(t, s.UpdateInitial(map[string]Update{"b": {Labels: []int{0}}}))
	_, err = os.Stat(filepath.Join(dir, "labels_initial.json"))
	require.NoError(t, err)

	plain, err := Open("", []string{"a"}, []string{"run"}, Options{})
	require.NoError(t, err)
	_, err = plain.Initial("a")
	require.True(t, errors.Is(err, ErrNotFound))
	require.NoError(t, plain.UpdateInitial(map[string]Update{"a": {Labels: []int{0}}}))
	e, err = plain.Initial("a")
	require.NoError(t, err)
	require.Equal(t, []int{0}, e.Labels)
}

func TestReadFileKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"annotations": [{"key": "b", "labels": []}, {"key": "a", "labels": [0]}, {"key": "b", "labels": [0]}], "labels": ["run"]}`), 0o644))

	f, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"run"}, f.Labels)
	require.Equal(t, []string{"b", "a"}, f.Keys())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestInitialLabelsForUnsampledKeys(t *testing.T) {
	dir := t.TempDir()
	previous := filepath.Join(dir, "previous.json")
	require.NoError(t, os.WriteFile(previous, []byte(`{"annotations": [{"key": "v/7", "labels": [0]}], "labels": ["run"]}`), 0o644))

	s, err := Open(filepath.Join(dir, "labels.json"), nil, []string{"run"}, Options{InitialLabels: previous})
	require.NoError(t, err)

	e, err := s.Initial("v/7")
	require.NoError(t, err)
	require.Equal(t, []int{0}, e.Labels)
	require.Zero(t, s.NumTotal())
}
