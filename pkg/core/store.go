/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: store.go
Description: The symbol store. Holds every symbol's values as nested levels, the symbol
metadata, and the universal element table. Scalars live directly at the root level keyed
by symbol name; N-dimensional symbols own a child level per symbol.
*/

package core

import (
	"fmt"
	"strings"
)

// Store holds all symbols read from, or destined for, one container
type Store struct {
	root      *Level
	names     []string
	info      map[string]*SymbolInfo
	universal SymbolInfo

	Universe *Universe
	File     FileInfo
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		root:     NewLevel(),
		info:     make(map[string]*SymbolInfo),
		Universe: NewUniverse(),
		universal: SymbolInfo{
			Name:   Wildcard,
			Dims:   1,
			Type:   TypeSet,
			Domain: WildcardDomain(1),
		},
	}
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("empty symbol name")
	}
	if name == Wildcard {
		return fmt.Errorf("%q names the universal set", name)
	}
	if strings.HasPrefix(name, ReservedPrefix) {
		return fmt.Errorf("%q: %w", name, ErrReservedName)
	}
	return nil
}

// Symbols returns every symbol name in insertion order
func (s *Store) Symbols() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of symbols
func (s *Store) Len() int {
	return len(s.names)
}

// Root returns the top level, where scalar symbols keep their leaves
func (s *Store) Root() *Level {
	return s.root
}

// Universal returns the metadata of the universal set
func (s *Store) Universal() *SymbolInfo {
	s.universal.Records = s.Universe.Len()
	return &s.universal
}

// SetUniversal replaces the universal set's metadata, keeping its shape
func (s *Store) SetUniversal(info SymbolInfo) {
	info.Name = Wildcard
	info.Dims = 1
	info.Type = TypeSet
	info.normalizeDomain()
	s.universal = info
}

// Info returns the metadata of a symbol. "*" yields the universal set.
func (s *Store) Info(name string) (*SymbolInfo, bool) {
	if name == Wildcard {
		return s.Universal(), true
	}
	info, ok := s.info[name]
	return info, ok
}

// EnsureInfo returns the metadata of a symbol, creating a scalar parameter entry if the
// symbol is unknown
func (s *Store) EnsureInfo(name string) (*SymbolInfo, error) {
	if info, ok := s.Info(name); ok {
		return info, nil
	}
	return s.AddSymbol(SymbolInfo{Name: name, Type: TypeParameter})
}

// AddSymbol registers a new symbol. The domain is padded with wildcards to Dims slots.
func (s *Store) AddSymbol(info SymbolInfo) (*SymbolInfo, error) {
	if err := checkName(info.Name); err != nil {
		return nil, err
	}
	if _, exists := s.info[info.Name]; exists {
		return nil, fmt.Errorf("symbol %s already exists", info.Name)
	}
	if info.Dims < 0 {
		return nil, fmt.Errorf("symbol %s: negative dimension %d", info.Name, info.Dims)
	}
	if info.Number == 0 {
		info.Number = len(s.names) + 1
	}
	info.normalizeDomain()

	stored := &info
	s.info[info.Name] = stored
	s.names = append(s.names, info.Name)
	if info.Dims > 0 {
		s.root.EnsureChild(info.Name)
	}
	return stored, nil
}

// RemoveSymbol drops a symbol with its values and metadata
func (s *Store) RemoveSymbol(name string) {
	if _, ok := s.info[name]; !ok {
		return
	}
	delete(s.info, name)
	s.root.Delete(name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

// SetType changes the type of a symbol
func (s *Store) SetType(name string, t SymbolType) error {
	info, err := s.EnsureInfo(name)
	if err != nil {
		return err
	}
	info.Type = t
	return nil
}

// SetTypeName changes the type of a symbol using its display name
func (s *Store) SetTypeName(name, typeName string) error {
	t, err := ParseSymbolType(typeName)
	if err != nil {
		return err
	}
	return s.SetType(name, t)
}

// Type returns the type of a symbol
func (s *Store) Type(name string) (SymbolType, bool) {
	info, ok := s.Info(name)
	if !ok {
		return 0, false
	}
	return info.Type, true
}

// SetDims changes the dimensionality of a symbol that holds no values yet
func (s *Store) SetDims(name string, dims int) error {
	if dims < 0 {
		return fmt.Errorf("symbol %s: negative dimension %d", name, dims)
	}
	info, err := s.EnsureInfo(name)
	if err != nil {
		return err
	}
	if info.Dims == dims {
		return nil
	}
	if info.Records > 0 {
		return fmt.Errorf("symbol %s: cannot change dimension of a symbol with %d records", name, info.Records)
	}
	s.root.Delete(name)
	info.Dims = dims
	info.Domain = nil
	info.normalizeDomain()
	if dims > 0 {
		s.root.EnsureChild(name)
	}
	return nil
}

// Dims returns the dimensionality of a symbol
func (s *Store) Dims(name string) (int, bool) {
	info, ok := s.Info(name)
	if !ok {
		return 0, false
	}
	return info.Dims, true
}

// SetDescription changes the explanatory text of a symbol
func (s *Store) SetDescription(name, desc string) error {
	info, err := s.EnsureInfo(name)
	if err != nil {
		return err
	}
	info.Description = desc
	return nil
}

// Values returns the nested level of an N-dimensional symbol, or nil for scalars and
// unknown symbols
func (s *Store) Values(name string) *Level {
	return s.root.Child(name)
}

// leafLevel finds the level that holds the leaf at coords, optionally creating the path
func (s *Store) leafLevel(name string, coords []string, create bool) (*Level, string, error) {
	info, ok := s.info[name]
	if !ok {
		return nil, "", fmt.Errorf("unknown symbol %s", name)
	}
	if len(coords) != info.Dims {
		return nil, "", fmt.Errorf("symbol %s has %d dimensions, got %d coordinates", name, info.Dims, len(coords))
	}
	if info.Dims == 0 {
		return s.root, name, nil
	}
	current := s.root.Child(name)
	for _, key := range coords[:len(coords)-1] {
		next := current.Child(key)
		if next == nil {
			if !create {
				return nil, "", fmt.Errorf("symbol %s has no entry %s", name, strings.Join(coords, "."))
			}
			next = current.EnsureChild(key)
		}
		current = next
	}
	return current, coords[len(coords)-1], nil
}

// Value returns the leaf of a symbol at the given coordinates
func (s *Store) Value(name string, coords ...string) (float64, bool) {
	level, key, err := s.leafLevel(name, coords, false)
	if err != nil {
		return 0, false
	}
	return level.Value(key)
}

// Lookup resolves a dotted path such as "p.a.b" to a leaf
func (s *Store) Lookup(path string) (float64, bool) {
	parts := strings.Split(path, ".")
	return s.Value(parts[0], parts[1:]...)
}

// SetValue stores a leaf. Unknown symbols are created as parameters with len(coords)
// dimensions. Every coordinate is registered in the universal table.
func (s *Store) SetValue(name string, coords []string, v float64) error {
	if _, ok := s.info[name]; !ok {
		if _, err := s.AddSymbol(SymbolInfo{Name: name, Dims: len(coords), Type: TypeParameter}); err != nil {
			return err
		}
	}
	level, key, err := s.leafLevel(name, coords, true)
	if err != nil {
		return err
	}
	for _, c := range coords {
		s.Universe.Add(c, "", false)
	}
	if level.SetValue(key, v) {
		s.info[name].Records++
	}
	return nil
}

// SetText attaches element text to an existing leaf of a set
func (s *Store) SetText(name string, coords []string, text string) error {
	level, key, err := s.leafLevel(name, coords, false)
	if err != nil {
		return err
	}
	if !level.Has(key) {
		return fmt.Errorf("symbol %s has no entry %s", name, strings.Join(coords, "."))
	}
	level.SetDesc(key, text)
	return nil
}

// Text returns the element text attached to a leaf
func (s *Store) Text(name string, coords ...string) (string, bool) {
	level, key, err := s.leafLevel(name, coords, false)
	if err != nil {
		return "", false
	}
	text, ok := level.Desc[key]
	return text, ok
}

// SetLimits attaches level fields to an existing leaf of a variable or equation
func (s *Store) SetLimits(name string, coords []string, limits Limits) error {
	level, key, err := s.leafLevel(name, coords, false)
	if err != nil {
		return err
	}
	if !level.Has(key) {
		return fmt.Errorf("symbol %s has no entry %s", name, strings.Join(coords, "."))
	}
	level.SetLimits(key, limits)
	return nil
}

// LimitsOf returns the level fields attached to a leaf
func (s *Store) LimitsOf(name string, coords ...string) (Limits, bool) {
	level, key, err := s.leafLevel(name, coords, false)
	if err != nil {
		return nil, false
	}
	limits, ok := level.Limits[key]
	return limits, ok
}

// AddElement registers an element in the universal table
func (s *Store) AddElement(name, text string) int {
	return s.Universe.Add(name, text, text != "")
}

// MergeElements appends the elements of other that are missing here
func (s *Store) MergeElements(other *Store) {
	s.Universe.Merge(other.Universe)
}

// WalkFunc is called once per leaf
type WalkFunc func(symbol string, coords []string, value float64) error

// Walk visits every leaf of every symbol in insertion order
func (s *Store) Walk(fn WalkFunc) error {
	for _, name := range s.names {
		if err := s.WalkSymbol(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// WalkSymbol visits every leaf of one symbol
func (s *Store) WalkSymbol(name string, fn WalkFunc) error {
	info, ok := s.info[name]
	if !ok {
		return fmt.Errorf("unknown symbol %s", name)
	}
	if info.Dims == 0 {
		if v, ok := s.root.Value(name); ok {
			return fn(name, nil, v)
		}
		return nil
	}
	level := s.root.Child(name)
	if level == nil {
		return nil
	}
	return walkLevel(name, level, make([]string, 0, info.Dims), info.Dims, fn)
}

func walkLevel(name string, level *Level, path []string, depth int, fn WalkFunc) error {
	for _, key := range level.keys {
		if depth > 1 {
			if child := level.children[key]; child != nil {
				if err := walkLevel(name, child, append(path, key), depth-1, fn); err != nil {
					return err
				}
			}
			continue
		}
		v, ok := level.values[key]
		if !ok {
			continue
		}
		coords := make([]string, len(path)+1)
		copy(coords, path)
		coords[len(path)] = key
		if err := fn(name, coords, v); err != nil {
			return err
		}
	}
	return nil
}
