package pathutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// GJSONPath converts the metadata into gjson path syntax. List indexes
// become numeric segments and the any-element wildcard becomes '#', so
// customer.orders[*].total turns into customer.orders.#.total.
func (m Metadata) GJSONPath() string {
	parts := make([]string, 0, m.Depth()+1)
	for _, seg := range m.Segments() {
		switch seg.kind {
		case SegmentVariable, SegmentProperty:
			if seg.name != "" {
				parts = append(parts, escapeGJSON(seg.name))
			}
		case SegmentListIndex:
			parts = append(parts, strconv.Itoa(seg.index))
		case SegmentMapKey:
			parts = append(parts, escapeGJSON(fmt.Sprintf("%v", seg.key)))
		case SegmentCollectionAny:
			parts = append(parts, "#")
		}
	}
	return strings.Join(parts, ".")
}

// Lookup resolves the path against a JSON document
func Lookup(doc []byte, md Metadata) gjson.Result {
	return gjson.GetBytes(doc, md.GJSONPath())
}

// LookupValue resolves the path against a JSON document and converts the
// result to a Go value
func LookupValue(doc []byte, md Metadata) (interface{}, bool) {
	result := Lookup(doc, md)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

func escapeGJSON(segment string) string {
	var b strings.Builder
	for _, r := range segment {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
