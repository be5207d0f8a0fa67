package pathutil

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// MergeStrategy controls how fact sources that set the same path are combined
type MergeStrategy string

const (
	MergeFirst MergeStrategy = "first" // highest priority source wins
	MergeLast  MergeStrategy = "last"  // lowest priority source wins
	MergeError MergeStrategy = "error" // error on conflicts
)

// ErrConflict is returned by MergeError when sources disagree on a value
var ErrConflict = errors.New("conflicting fact values")

// ParseMergeStrategy validates a strategy name. The empty name is MergeFirst.
func ParseMergeStrategy(name string) (MergeStrategy, error) {
	switch s := MergeStrategy(name); s {
	case "":
		return MergeFirst, nil
	case MergeFirst, MergeLast, MergeError:
		return s, nil
	}
	return "", fmt.Errorf("unknown merge strategy %q", name)
}

// Source is a decoded facts document with a name and priority
type Source struct {
	Name     string
	Values   map[string]interface{}
	Priority int
}

// ConflictError reports the path two or more sources disagree on
type ConflictError struct {
	Path    Metadata
	Sources []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %v from sources %v", e.Path, ErrConflict, e.Sources)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// Merge combines sources into one document. Objects are merged key by key;
// any other value set by more than one source is resolved by strategy, in
// priority order (highest first).
func Merge(sources []Source, strategy MergeStrategy) (map[string]interface{}, error) {
	ordered := make([]Source, 0, len(sources))
	for _, src := range sources {
		if src.Values != nil {
			ordered = append(ordered, src)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	if strategy == MergeLast {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	merged := make(map[string]interface{})
	owners := make(map[string]string)
	for _, src := range ordered {
		for key, value := range src.Values {
			if err := mergeValue(merged, owners, ForVariable(key), key, value, src.Name, strategy); err != nil {
				return nil, err
			}
		}
	}
	return merged, nil
}

// mergeValue sets key in dst unless an earlier source already did. owners
// tracks which source first set each path.
func mergeValue(dst map[string]interface{}, owners map[string]string, md Metadata, key string, value interface{}, source string, strategy MergeStrategy) error {
	existing, ok := dst[key]
	if !ok {
		dst[key] = clone(value)
		recordOwners(owners, md, value, source)
		return nil
	}

	existingObj, existingIsObj := existing.(map[string]interface{})
	valueObj, valueIsObj := value.(map[string]interface{})
	if existingIsObj && valueIsObj {
		for k, v := range valueObj {
			if err := mergeValue(existingObj, owners, ForProperty(md, k), k, v, source, strategy); err != nil {
				return err
			}
		}
		return nil
	}

	if strategy == MergeError && !reflect.DeepEqual(existing, value) {
		sources := []string{owners[md.String()], source}
		sort.Strings(sources)
		return &ConflictError{Path: md, Sources: sources}
	}
	return nil
}

func recordOwners(owners map[string]string, md Metadata, value interface{}, source string) {
	owners[md.String()] = source
	if obj, ok := value.(map[string]interface{}); ok {
		for k, v := range obj {
			recordOwners(owners, ForProperty(md, k), v, source)
		}
	}
}

func clone(value interface{}) interface{} {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return value
	}
	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		out[k] = clone(v)
	}
	return out
}
