// Package flat converts between nested values and single-level maps whose
// keys encode the nesting path, e.g. {"a": {"b": 1}} <-> {"a.b": 1}.
//
// Slices flatten to decimal index segments ("tags.0", "tags.1"). Empty maps
// and empty slices are kept as leaf values so that a container with no keys
// still survives a round trip.
//
// Unflatten resolves collisions last-write-wins in sorted key order. A key
// always sorts before the keys below it, so a scalar stored at "a" is
// overwritten by a container as soon as "a.b" is applied.
package flat

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultDelimiter separates path segments.
const DefaultDelimiter = "."

type options struct {
	delimiter string
	maxDepth  int
}

// Option configures Flatten and Unflatten.
type Option func(*options)

// WithDelimiter sets the path segment separator.
func WithDelimiter(delimiter string) Option {
	return func(o *options) {
		if delimiter != "" {
			o.delimiter = delimiter
		}
	}
}

// WithMaxDepth stops Flatten from descending below the given depth.
// Containers found at that depth are stored as leaves. Zero means unlimited.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

func newOptions(opts []Option) options {
	o := options{delimiter: DefaultDelimiter}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Flatten collapses a nested map into a path-keyed map.
func Flatten(nested map[string]any, opts ...Option) map[string]any {
	o := newOptions(opts)
	out := make(map[string]any, len(nested))
	for key, value := range nested {
		flattenInto(out, key, value, 1, o)
	}
	return out
}

func flattenInto(out map[string]any, key string, value any, depth int, o options) {
	if o.maxDepth > 0 && depth >= o.maxDepth {
		out[key] = cloneLeaf(value)
		return
	}
	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			out[key] = map[string]any{}
			return
		}
		for child, v := range typed {
			flattenInto(out, key+o.delimiter+child, v, depth+1, o)
		}
	case []any:
		if len(typed) == 0 {
			out[key] = []any{}
			return
		}
		for i, v := range typed {
			flattenInto(out, key+o.delimiter+strconv.Itoa(i), v, depth+1, o)
		}
	case []string:
		items := make([]any, len(typed))
		for i, v := range typed {
			items[i] = v
		}
		flattenInto(out, key, items, depth, o)
	default:
		out[key] = value
	}
}

// branch is a container under construction during Unflatten.
type branch struct {
	children map[string]any
	list     bool
}

func newBranch(list bool) *branch {
	return &branch{children: map[string]any{}, list: list}
}

// Unflatten rebuilds the nested structure from a path-keyed map.
// Containers whose keys are all non-negative integers become []any ordered
// by index with gaps compacted.
func Unflatten(params map[string]any, opts ...Option) map[string]any {
	o := newOptions(opts)
	root := newBranch(false)
	for _, key := range sortedKeys(params) {
		parts := strings.Split(key, o.delimiter)
		current := root
		for _, part := range parts[:len(parts)-1] {
			next, ok := current.children[part].(*branch)
			if !ok {
				next = newBranch(false)
				current.children[part] = next
			}
			current = next
		}
		current.children[parts[len(parts)-1]] = toBranch(params[key])
	}
	out, _ := root.finalize(true).(map[string]any)
	return out
}

// Normalize round-trips params through Unflatten and Flatten, which
// resolves paths used as both scalar and container and compacts indices.
func Normalize(params map[string]any, opts ...Option) map[string]any {
	return Flatten(Unflatten(params, opts...), opts...)
}

// InNamespace reports whether key is path itself or lies below it.
func InNamespace(key, path string, opts ...Option) bool {
	o := newOptions(opts)
	return key == path || strings.HasPrefix(key, path+o.delimiter)
}

// Subset returns the entries of params inside the path namespace.
func Subset(params map[string]any, path string, opts ...Option) map[string]any {
	out := map[string]any{}
	for key, value := range params {
		if InNamespace(key, path, opts...) {
			out[key] = cloneLeaf(value)
		}
	}
	return out
}

// Omit returns a copy of params without the path namespace.
func Omit(params map[string]any, path string, opts ...Option) map[string]any {
	out := make(map[string]any, len(params))
	for key, value := range params {
		if !InNamespace(key, path, opts...) {
			out[key] = cloneLeaf(value)
		}
	}
	return out
}

// Get returns the unflattened value stored at path. The whole top-level
// namespace is rebuilt first, so array indices in path refer to the
// compacted positions.
func Get(params map[string]any, path string, opts ...Option) (any, bool) {
	o := newOptions(opts)
	parts := strings.Split(path, o.delimiter)
	var current any = Unflatten(Subset(params, parts[0], opts...), opts...)
	for _, part := range parts {
		switch typed := current.(type) {
		case map[string]any:
			v, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			idx, ok := index(part)
			if !ok || idx >= len(typed) {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Clone copies params. Leaf containers are copied so the result shares no
// mutable state with the input.
func Clone(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for key, value := range params {
		out[key] = cloneLeaf(value)
	}
	return out
}

func toBranch(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		b := newBranch(false)
		for k, v := range typed {
			b.children[k] = toBranch(v)
		}
		return b
	case []any:
		b := newBranch(true)
		for i, v := range typed {
			b.children[strconv.Itoa(i)] = toBranch(v)
		}
		return b
	case []string:
		b := newBranch(true)
		for i, v := range typed {
			b.children[strconv.Itoa(i)] = v
		}
		return b
	default:
		return value
	}
}

func (b *branch) finalize(root bool) any {
	if !root && b.isList() {
		type entry struct {
			idx   int
			value any
		}
		entries := make([]entry, 0, len(b.children))
		for k, v := range b.children {
			idx, _ := index(k)
			entries = append(entries, entry{idx: idx, value: v})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })
		out := make([]any, len(entries))
		for i, e := range entries {
			out[i] = finalizeValue(e.value)
		}
		return out
	}
	out := make(map[string]any, len(b.children))
	for k, v := range b.children {
		out[k] = finalizeValue(v)
	}
	return out
}

func (b *branch) isList() bool {
	if len(b.children) == 0 {
		return b.list
	}
	for k := range b.children {
		if _, ok := index(k); !ok {
			return false
		}
	}
	return true
}

func finalizeValue(value any) any {
	if b, ok := value.(*branch); ok {
		return b.finalize(false)
	}
	return value
}

// index parses a canonical non-negative decimal segment ("0", "12", not "01").
func index(segment string) (int, bool) {
	n, err := strconv.Atoi(segment)
	if err != nil || n < 0 || strconv.Itoa(n) != segment {
		return 0, false
	}
	return n, true
}

func cloneLeaf(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = cloneLeaf(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = cloneLeaf(v)
		}
		return out
	default:
		return value
	}
}

func sortedKeys(params map[string]any) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
