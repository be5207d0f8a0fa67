// Package pathutil describes where a path expression points: a root variable
// followed by property, index, key and wildcard segments.
package pathutil

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind identifies how a path segment navigates from its parent
type SegmentKind int

const (
	// SegmentVariable is the root of a path
	SegmentVariable SegmentKind = iota

	// SegmentProperty is a named property access
	SegmentProperty

	// SegmentListIndex is an index into a list or array
	SegmentListIndex

	// SegmentMapKey is a key lookup in a map
	SegmentMapKey

	// SegmentCollectionAny stands for any element of a collection
	SegmentCollectionAny
)

// String returns the segment kind name
func (k SegmentKind) String() string {
	switch k {
	case SegmentVariable:
		return "variable"
	case SegmentProperty:
		return "property"
	case SegmentListIndex:
		return "index"
	case SegmentMapKey:
		return "key"
	case SegmentCollectionAny:
		return "any"
	default:
		return "unknown"
	}
}

// Metadata is the immutable context of a path: its parent and the segment
// that leads from the parent to this path. The zero value is an empty path.
type Metadata struct {
	parent *Metadata
	kind   SegmentKind
	name   string
	index  int
	key    interface{}
}

// ForVariable creates root metadata for a named variable
func ForVariable(name string) Metadata {
	return Metadata{kind: SegmentVariable, name: name}
}

// ForProperty creates metadata for a property of parent
func ForProperty(parent Metadata, name string) Metadata {
	return Metadata{parent: ref(parent), kind: SegmentProperty, name: name}
}

// ForListAccess creates metadata for the element at index of parent
func ForListAccess(parent Metadata, index int) Metadata {
	return Metadata{parent: ref(parent), kind: SegmentListIndex, index: index}
}

// ForMapAccess creates metadata for the entry at key of parent. The key must
// be comparable.
func ForMapAccess(parent Metadata, key interface{}) Metadata {
	return Metadata{parent: ref(parent), kind: SegmentMapKey, key: key}
}

// ForCollectionAny creates metadata standing for any element of parent
func ForCollectionAny(parent Metadata) Metadata {
	return Metadata{parent: ref(parent), kind: SegmentCollectionAny}
}

func ref(md Metadata) *Metadata {
	if md.IsEmpty() {
		return nil
	}
	return &md
}

// IsEmpty returns true for the zero Metadata
func (m Metadata) IsEmpty() bool {
	return m.parent == nil && m.kind == SegmentVariable && m.name == ""
}

// IsRoot returns true if the metadata has no parent
func (m Metadata) IsRoot() bool {
	return m.parent == nil
}

// Parent returns the parent metadata and whether one exists
func (m Metadata) Parent() (Metadata, bool) {
	if m.parent == nil {
		return Metadata{}, false
	}
	return *m.parent, true
}

// Kind returns how this segment navigates from its parent
func (m Metadata) Kind() SegmentKind {
	return m.kind
}

// Name returns the variable or property name
func (m Metadata) Name() string {
	return m.name
}

// Index returns the list index for SegmentListIndex metadata
func (m Metadata) Index() int {
	return m.index
}

// Key returns the map key for SegmentMapKey metadata
func (m Metadata) Key() interface{} {
	return m.key
}

// Root returns the root variable metadata
func (m Metadata) Root() Metadata {
	for m.parent != nil {
		m = *m.parent
	}
	return m
}

// Depth returns the number of segments below the root
func (m Metadata) Depth() int {
	depth := 0
	for p := m.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Segments returns the chain from the root to m, root first
func (m Metadata) Segments() []Metadata {
	segments := make([]Metadata, m.Depth()+1)
	cur := m
	for i := len(segments) - 1; i >= 0; i-- {
		segments[i] = cur
		if cur.parent != nil {
			cur = *cur.parent
		}
	}
	return segments
}

// Equal reports whether both metadata describe the same path
func (m Metadata) Equal(other Metadata) bool {
	if m.kind != other.kind || m.name != other.name || m.index != other.index || m.key != other.key {
		return false
	}
	if m.parent == nil || other.parent == nil {
		return m.parent == nil && other.parent == nil
	}
	return m.parent.Equal(*other.parent)
}

// String returns the path in dotted form, e.g. customer.orders[0].lines["x"]
func (m Metadata) String() string {
	var b strings.Builder
	for _, seg := range m.Segments() {
		switch seg.kind {
		case SegmentVariable:
			b.WriteString(seg.name)
		case SegmentProperty:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.name)
		case SegmentListIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.index))
			b.WriteByte(']')
		case SegmentMapKey:
			b.WriteByte('[')
			b.WriteString(FormatKey(seg.key))
			b.WriteByte(']')
		case SegmentCollectionAny:
			b.WriteString("[*]")
		}
	}
	return b.String()
}

// FormatKey renders a map key the way it appears inside brackets
func FormatKey(key interface{}) string {
	switch k := key.(type) {
	case string:
		return strconv.Quote(k)
	case fmt.Stringer:
		return strconv.Quote(k.String())
	default:
		return fmt.Sprintf("%v", k)
	}
}
