/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: level.go
Description: One level of the nested symbol mapping. A level maps element names either to
a deeper level or to a leaf value, and carries the description and limits side tables for
its leaves. Keys keep insertion order so records are written back in the order read.
*/

package core

// Level is one mapping level of a symbol's values
type Level struct {
	keys     []string
	children map[string]*Level
	values   map[string]float64

	Desc   map[string]string // Set element text, keyed like the leaf
	Limits map[string]Limits // Variable/equation level fields, keyed like the leaf
}

// NewLevel creates an empty level
func NewLevel() *Level {
	return &Level{
		children: make(map[string]*Level),
		values:   make(map[string]float64),
	}
}

// Keys returns the element names of this level in insertion order
func (l *Level) Keys() []string {
	out := make([]string, len(l.keys))
	copy(out, l.keys)
	return out
}

// Len returns the number of entries at this level
func (l *Level) Len() int {
	return len(l.keys)
}

// Has reports whether key is present as either a child or a leaf
func (l *Level) Has(key string) bool {
	if _, ok := l.children[key]; ok {
		return true
	}
	_, ok := l.values[key]
	return ok
}

// Child returns the nested level stored under key, or nil
func (l *Level) Child(key string) *Level {
	return l.children[key]
}

// EnsureChild returns the nested level under key, creating it if needed.
// A leaf stored under the same key is replaced.
func (l *Level) EnsureChild(key string) *Level {
	if child, ok := l.children[key]; ok {
		return child
	}
	if _, ok := l.values[key]; ok {
		delete(l.values, key)
	} else {
		l.keys = append(l.keys, key)
	}
	child := NewLevel()
	l.children[key] = child
	return child
}

// Value returns the leaf stored under key
func (l *Level) Value(key string) (float64, bool) {
	v, ok := l.values[key]
	return v, ok
}

// SetValue stores a leaf under key and reports whether the key is new
func (l *Level) SetValue(key string, v float64) bool {
	isNew := !l.Has(key)
	if _, ok := l.children[key]; ok {
		delete(l.children, key)
	}
	if isNew {
		l.keys = append(l.keys, key)
	}
	l.values[key] = v
	return isNew
}

// SetDesc attaches element text to the leaf under key
func (l *Level) SetDesc(key, text string) {
	if l.Desc == nil {
		l.Desc = make(map[string]string)
	}
	l.Desc[key] = text
}

// SetLimits attaches level fields to the leaf under key
func (l *Level) SetLimits(key string, limits Limits) {
	if l.Limits == nil {
		l.Limits = make(map[string]Limits)
	}
	l.Limits[key] = limits
}

// Delete removes key and its side-table entries
func (l *Level) Delete(key string) {
	if !l.Has(key) {
		return
	}
	delete(l.children, key)
	delete(l.values, key)
	delete(l.Desc, key)
	delete(l.Limits, key)
	for i, k := range l.keys {
		if k == key {
			l.keys = append(l.keys[:i], l.keys[i+1:]...)
			break
		}
	}
}

// CountLeaves returns the number of leaves depth levels below l.
// depth 1 counts the leaves of l itself.
func (l *Level) CountLeaves(depth int) int {
	if depth <= 1 {
		return len(l.values)
	}
	n := 0
	for _, key := range l.keys {
		if child := l.children[key]; child != nil {
			n += child.CountLeaves(depth - 1)
		}
	}
	return n
}

// collectKeys records, for each dimension below l, the distinct element names seen there.
// seen[0] belongs to l itself; the walk stops after len(seen) levels.
func (l *Level) collectKeys(seen []map[string]struct{}, order [][]string) [][]string {
	if len(seen) == 0 {
		return order
	}
	for _, key := range l.keys {
		if _, ok := seen[0][key]; !ok {
			seen[0][key] = struct{}{}
			order[0] = append(order[0], key)
		}
		if len(seen) > 1 {
			if child := l.children[key]; child != nil {
				child.collectKeys(seen[1:], order[1:])
			}
		}
	}
	return order
}

// DimensionKeys returns the distinct element names at each of dims dimensions,
// in first-seen order
func (l *Level) DimensionKeys(dims int) [][]string {
	seen := make([]map[string]struct{}, dims)
	order := make([][]string, dims)
	for i := range seen {
		seen[i] = make(map[string]struct{})
	}
	return l.collectKeys(seen, order)
}
