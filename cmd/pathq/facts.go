package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/effectus/effectus-query/pathutil"
)

// factsDocument is a JSON facts file: the raw bytes for gjson lookups and
// the decoded, normalized values used as the evaluation environment
type factsDocument struct {
	raw    []byte
	values map[string]interface{}
}

// loadFacts reads one or more facts files. Several files are merged with
// strategy; earlier files have higher priority.
func loadFacts(paths []string, strategy pathutil.MergeStrategy) (*factsDocument, error) {
	sources := make([]pathutil.Source, 0, len(paths))
	var data []byte
	for i, path := range paths {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading facts: %w", err)
		}

		var values map[string]interface{}
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parsing facts json %s: %w", path, err)
		}
		sources = append(sources, pathutil.Source{Name: path, Values: values, Priority: len(paths) - i})
	}

	var values map[string]interface{}
	if len(sources) == 1 {
		values = sources[0].Values
	} else {
		merged, err := pathutil.Merge(sources, strategy)
		if err != nil {
			return nil, err
		}
		if data, err = json.Marshal(merged); err != nil {
			return nil, fmt.Errorf("encoding merged facts: %w", err)
		}
		values = merged
	}

	for k, v := range values {
		values[k] = normalize(v)
	}
	return &factsDocument{raw: data, values: values}, nil
}

var timeLayouts = []string{time.RFC3339Nano, time.DateOnly}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// normalize gives decoded JSON the Go types the factory distinguishes:
// timestamps become time.Time and homogeneous arrays become typed slices
func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case string:
		if ts, ok := parseTime(v); ok {
			return ts
		}
		return v
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, e := range v {
			out[k] = normalize(e)
		}
		return out
	case []interface{}:
		return normalizeArray(v)
	default:
		return v
	}
}

func normalizeArray(v []interface{}) interface{} {
	elems := make([]interface{}, len(v))
	for i, e := range v {
		elems[i] = normalize(e)
	}
	if len(elems) == 0 {
		return elems
	}

	switch elems[0].(type) {
	case string:
		if out, ok := typedSlice[string](elems); ok {
			return out
		}
	case bool:
		if out, ok := typedSlice[bool](elems); ok {
			return out
		}
	case float64:
		if out, ok := typedSlice[float64](elems); ok {
			return out
		}
	}
	return elems
}

func typedSlice[T any](elems []interface{}) ([]T, bool) {
	out := make([]T, len(elems))
	for i, e := range elems {
		t, ok := e.(T)
		if !ok {
			return nil, false
		}
		out[i] = t
	}
	return out, true
}
