// Package labelfilter selects stored labels by which categories they must,
// must not, or may carry.
package labelfilter

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"framelabel/internal/labelstore"
	"framelabel/internal/vocab"
)

// Policy decides what happens to labels named in no criterion.
type Policy string

const (
	PolicyError       Policy = "error"
	PolicyCanHave     Policy = "can-have"
	PolicyMustHave    Policy = "must-have"
	PolicyMustNotHave Policy = "must-not-have"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyError, PolicyCanHave, PolicyMustHave, PolicyMustNotHave:
		return p, nil
	}
	return "", fmt.Errorf("unknown unspecified-labels policy %q", s)
}

// Criteria lists label names per role. Every label must appear in one list
// unless Unspecified says otherwise.
type Criteria struct {
	MustHave    []string
	MustNotHave []string
	CanHave     []string
	// MustHaveOneOf relaxes MustHave to require any one of its labels.
	MustHaveOneOf bool
	Unspecified   Policy
}

// Merge reads label-store files in order and keeps the latest entry per key.
// All files must share the same label list. Keys come back sorted.
func Merge(log *zap.Logger, paths ...string) ([]labelstore.Entry, []string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	latest := make(map[string]labelstore.Entry)
	sources := make(map[string][]string)
	var labels []string
	for i, path := range paths {
		f, err := labelstore.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		if i == 0 {
			labels = f.Labels
		} else if !slices.Equal(labels, f.Labels) {
			return nil, nil, fmt.Errorf("labels in %s %v differ from %v", path, f.Labels, labels)
		}
		for _, e := range f.Annotations {
			latest[e.Key] = e
			sources[e.Key] = append(sources[e.Key], path)
		}
	}
	keys := make([]string, 0, len(latest))
	for k := range latest {
		keys = append(keys, k)
		if src := sources[k]; len(src) > 1 {
			log.Debug("key labelled multiple times, using latest",
				zap.String("key", k), zap.Strings("paths", src))
		}
	}
	sort.Strings(keys)
	out := make([]labelstore.Entry, len(keys))
	for i, k := range keys {
		out[i] = latest[k]
	}
	return out, labels, nil
}

type resolved struct {
	must, mustNot, can map[int]bool
}

func resolve(labels []string, c Criteria) (resolved, error) {
	v, err := vocab.New(labels...)
	if err != nil {
		return resolved{}, err
	}
	r := resolved{must: map[int]bool{}, mustNot: map[int]bool{}, can: map[int]bool{}}
	for _, group := range []struct {
		names []string
		into  map[int]bool
	}{{c.MustHave, r.must}, {c.MustNotHave, r.mustNot}, {c.CanHave, r.can}} {
		for _, name := range group.names {
			if err := v.Validate(name); err != nil {
				return resolved{}, err
			}
			id, _ := v.ID(name)
			group.into[id] = true
		}
	}

	var unspecified []int
	for id := range labels {
		if !r.must[id] && !r.mustNot[id] && !r.can[id] {
			unspecified = append(unspecified, id)
		}
	}
	if len(unspecified) == 0 {
		return r, nil
	}
	policy := c.Unspecified
	if policy == "" {
		policy = PolicyError
	}
	var into map[int]bool
	switch policy {
	case PolicyError:
		names := make([]string, len(unspecified))
		for i, id := range unspecified {
			names[i] = labels[id]
		}
		return resolved{}, fmt.Errorf("label(s) %s not specified in any of must-have, must-not-have, can-have", strings.Join(names, ", "))
	case PolicyCanHave:
		into = r.can
	case PolicyMustHave:
		into = r.must
	case PolicyMustNotHave:
		into = r.mustNot
	default:
		return resolved{}, fmt.Errorf("unknown unspecified-labels policy %q", policy)
	}
	for _, id := range unspecified {
		into[id] = true
	}
	return r, nil
}

// Filter splits rows into those meeting c and those that do not.
func Filter(log *zap.Logger, rows []labelstore.Entry, labels []string, c Criteria) (matching, rest []labelstore.Entry, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	r, err := resolve(labels, c)
	if err != nil {
		return nil, nil, err
	}
	name := func(ids map[int]bool) []string {
		out := []string{}
		for id := range labels {
			if ids[id] {
				out = append(out, labels[id])
			}
		}
		return out
	}
	log.Info("filtering labels",
		zap.Strings("must_have", name(r.must)),
		zap.Bool("must_have_one_of", c.MustHaveOneOf),
		zap.Strings("must_not_have", name(r.mustNot)),
		zap.Strings("can_have", name(r.can)))

	for _, row := range rows {
		have := map[int]bool{}
		for _, id := range row.Labels {
			have[id] = true
		}
		missing := map[int]bool{}
		for id := range r.must {
			if !have[id] {
				missing[id] = true
			}
		}
		unwanted := map[int]bool{}
		for id := range r.mustNot {
			if have[id] {
				unwanted[id] = true
			}
		}

		switch {
		case c.MustHaveOneOf && len(r.must) > 0 && len(missing) == len(r.must),
			!c.MustHaveOneOf && len(missing) > 0:
			log.Debug("row missing labels", zap.String("key", row.Key), zap.Strings("missing", name(missing)))
			rest = append(rest, row)
		case len(unwanted) > 0:
			log.Debug("row has unwanted labels", zap.String("key", row.Key), zap.Strings("unwanted", name(unwanted)))
			rest = append(rest, row)
		default:
			matching = append(matching, row)
		}
	}
	return matching, rest, nil
}
