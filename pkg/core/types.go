/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Core types for gdxdict. Defines symbol types, per-symbol metadata, domain
slots, level fields and the default value tables used when records are built.
*/

package core

import (
	"fmt"
	"strings"

	"github.com/kleascm/gdxdict/pkg/interfaces"
)

// Wildcard is the domain key of an unconstrained (or not yet known) dimension
const Wildcard = "*"

// Special values used by the container for infinities
const (
	PlusInf  = 3e300
	MinusInf = 4e300
)

// SymbolType is the kind of a symbol
type SymbolType int

const (
	TypeSet       SymbolType = interfaces.TypeCodeSet
	TypeParameter SymbolType = interfaces.TypeCodeParameter
	TypeVariable  SymbolType = interfaces.TypeCodeVariable
	TypeEquation  SymbolType = interfaces.TypeCodeEquation
	TypeAlias     SymbolType = interfaces.TypeCodeAlias
)

var typeNames = map[SymbolType]string{
	TypeSet:       "Set",
	TypeParameter: "Parameter",
	TypeVariable:  "Variable",
	TypeEquation:  "Equation",
	TypeAlias:     "Alias",
}

// String returns the display name of the type
func (t SymbolType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SymbolType(%d)", int(t))
}

// HasLimits reports whether records of this type carry the five level fields
func (t SymbolType) HasLimits() bool {
	return t == TypeVariable || t == TypeEquation
}

// ParseSymbolType maps a type name to its type. "scalar" is accepted as a parameter.
func ParseSymbolType(name string) (SymbolType, error) {
	switch strings.ToLower(name) {
	case "set":
		return TypeSet, nil
	case "parameter", "scalar":
		return TypeParameter, nil
	case "variable":
		return TypeVariable, nil
	case "equation":
		return TypeEquation, nil
	case "alias":
		return TypeAlias, nil
	}
	return 0, fmt.Errorf("unknown symbol type %q", name)
}

// LevelField indexes one of the five numeric facets of a variable or equation record
type LevelField int

const (
	FieldLevel LevelField = iota
	FieldMarginal
	FieldLower
	FieldUpper
	FieldScale
)

// LevelFields lists the fields in wire order
var LevelFields = []LevelField{FieldLevel, FieldMarginal, FieldLower, FieldUpper, FieldScale}

var levelFieldNames = [...]string{".l", ".m", ".lo", ".ub", ".scale"}

// String returns the GAMS suffix of the field
func (f LevelField) String() string {
	if f < 0 || int(f) >= len(levelFieldNames) {
		return fmt.Sprintf("LevelField(%d)", int(f))
	}
	return levelFieldNames[f]
}

// Limits holds the level fields present for one record
type Limits map[LevelField]float64

// LimitsFromValues captures all five fields of a record
func LimitsFromValues(v interfaces.Values) Limits {
	l := make(Limits, len(LevelFields))
	for _, f := range LevelFields {
		l[f] = v[f]
	}
	return l
}

// Variable subtypes, stored in SymbolInfo.UserInfo for variables
const (
	VarUnknown = iota
	VarBinary
	VarInteger
	VarPositive
	VarNegative
	VarFree
	VarSOS1
	VarSOS2
	VarSemiCont
	VarSemiInt
)

// DefaultVariableFields are the level fields a fresh variable record starts with, per subtype
var DefaultVariableFields = [...]interfaces.Values{
	//  .l   .m   .lo       .ub      .scale
	{0.0, 0.0, 0.0, 0.0, 1.0},          // unknown
	{0.0, 0.0, 0.0, 1.0, 1.0},          // binary
	{0.0, 0.0, 0.0, 100.0, 1.0},        // integer
	{0.0, 0.0, 0.0, PlusInf, 1.0},      // positive
	{0.0, 0.0, MinusInf, 0.0, 1.0},     // negative
	{0.0, 0.0, MinusInf, PlusInf, 1.0}, // free
	{0.0, 0.0, 0.0, PlusInf, 1.0},      // sos1
	{0.0, 0.0, 0.0, PlusInf, 1.0},      // sos2
	{0.0, 0.0, 1.0, PlusInf, 1.0},      // semicont
	{0.0, 0.0, 1.0, 100.0, 1.0},        // semiint
}

// DomainSlot is the domain of one dimension.
// Key is Wildcard until resolved; Ancestors is filled in only after Key is final.
type DomainSlot struct {
	Key       string   `json:"key" yaml:"key"`
	Index     int      `json:"index" yaml:"index"`
	Ancestors []string `json:"ancestors,omitempty" yaml:"ancestors,omitempty"`
}

// Resolved reports whether the slot names a concrete set
func (d DomainSlot) Resolved() bool {
	return d.Key != "" && d.Key != Wildcard
}

// WildcardDomain returns dims unresolved slots
func WildcardDomain(dims int) []DomainSlot {
	domain := make([]DomainSlot, dims)
	for i := range domain {
		domain[i] = DomainSlot{Key: Wildcard}
	}
	return domain
}

// SymbolInfo is the metadata kept for every symbol
type SymbolInfo struct {
	Name        string       `json:"name" yaml:"name"`
	Number      int          `json:"number" yaml:"number"`
	Dims        int          `json:"dims" yaml:"dims"`
	Type        SymbolType   `json:"type" yaml:"type"`
	Description string       `json:"description" yaml:"description"`
	UserInfo    int          `json:"userinfo" yaml:"userinfo"`
	Records     int          `json:"records" yaml:"records"`
	Domain      []DomainSlot `json:"domain" yaml:"domain"`
}

// TypeName returns the display name of the symbol's type
func (si *SymbolInfo) TypeName() string {
	return si.Type.String()
}

// DomainKeys returns the current key of every dimension
func (si *SymbolInfo) DomainKeys() []string {
	keys := make([]string, len(si.Domain))
	for i, d := range si.Domain {
		keys[i] = d.Key
	}
	return keys
}

// normalizeDomain makes sure the domain has one slot per dimension
func (si *SymbolInfo) normalizeDomain() {
	if len(si.Domain) == si.Dims {
		return
	}
	domain := WildcardDomain(si.Dims)
	copy(domain, si.Domain)
	si.Domain = domain
}

// FileInfo describes where a store was read from
type FileInfo struct {
	SymbolCount  int    `json:"symbol_count" yaml:"symbol_count"`
	ElementCount int    `json:"element_count" yaml:"element_count"`
	Producer     string `json:"producer" yaml:"producer"`
}
