/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types_test.go
Description: Tests for symbol types, level fields, domain slots and error values.
*/

package core_test

import (
	"errors"
	"io"
	"testing"

	"github.com/kleascm/gdxdict/pkg/core"
	"github.com/kleascm/gdxdict/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSymbolTypes tests type names and parsing
func TestSymbolTypes(t *testing.T) {
	assert.Equal(t, "Set", core.TypeSet.String())
	assert.Equal(t, "Equation", core.TypeEquation.String())
	assert.Equal(t, "SymbolType(9)", core.SymbolType(9).String())

	assert.True(t, core.TypeVariable.HasLimits())
	assert.True(t, core.TypeEquation.HasLimits())
	assert.False(t, core.TypeParameter.HasLimits())

	for name, want := range map[string]core.SymbolType{
		"set":       core.TypeSet,
		"Parameter": core.TypeParameter,
		"scalar":    core.TypeParameter,
		"VARIABLE":  core.TypeVariable,
		"equation":  core.TypeEquation,
		"alias":     core.TypeAlias,
	} {
		got, err := core.ParseSymbolType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := core.ParseSymbolType("table")
	assert.Error(t, err)
}

// TestLevelFields tests field suffixes and capture from a value buffer
func TestLevelFields(t *testing.T) {
	assert.Equal(t, ".l", core.FieldLevel.String())
	assert.Equal(t, ".scale", core.FieldScale.String())

	values := interfaces.Values{1, 2, 3, core.PlusInf, 5}
	limits := core.LimitsFromValues(values)
	assert.Len(t, limits, 5)
	assert.Equal(t, core.PlusInf, limits[core.FieldUpper])

	binary := core.DefaultVariableFields[core.VarBinary]
	assert.Equal(t, 1.0, binary[interfaces.ValUpper])
	free := core.DefaultVariableFields[core.VarFree]
	assert.Equal(t, core.MinusInf, free[interfaces.ValLower])
	assert.Equal(t, core.PlusInf, free[interfaces.ValUpper])
}

// TestDomainSlots tests wildcard handling
func TestDomainSlots(t *testing.T) {
	assert.False(t, core.DomainSlot{Key: core.Wildcard}.Resolved())
	assert.False(t, core.DomainSlot{}.Resolved())
	assert.True(t, core.DomainSlot{Key: "i"}.Resolved())

	domain := core.WildcardDomain(3)
	require.Len(t, domain, 3)
	for _, slot := range domain {
		assert.Equal(t, core.Wildcard, slot.Key)
	}
}

// TestErrors tests error messages and unwrapping
func TestErrors(t *testing.T) {
	open := &core.OpenError{Path: "in.yaml", Mode: "read", Err: io.EOF}
	assert.Equal(t, "couldn't open in.yaml for read: EOF", open.Error())
	assert.True(t, errors.Is(open, io.EOF))

	protocol := &core.ProtocolError{Op: "read record", Symbol: "p", Err: io.ErrUnexpectedEOF}
	assert.Contains(t, protocol.Error(), "symbol p")
	assert.True(t, errors.Is(protocol, io.ErrUnexpectedEOF))

	cycle := &core.DomainCycleError{Symbol: "p", Dimension: 0, Chain: []string{"a", "b", "a"}}
	assert.Equal(t, "domain cycle in p dimension 1: a -> b -> a", cycle.Error())
}
