/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: errors.go
Description: Error kinds raised while reading, guessing and writing containers. Every
kind is fatal to the current run; callers classify them with errors.As.
*/

package core

import (
	"errors"
	"fmt"
	"strings"
)

// ReservedPrefix marks bookkeeping keys; symbol names may not start with it
const ReservedPrefix = "__"

// ErrReservedName is returned when a symbol name collides with bookkeeping keys
var ErrReservedName = errors.New("symbol name uses reserved prefix " + ReservedPrefix)

// OpenError reports that the collaborator could not open a container
type OpenError struct {
	Path string
	Mode string // "read" or "write"
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("couldn't open %s for %s: %v", e.Path, e.Mode, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ProtocolError reports a failure mid-stream while talking to the collaborator
type ProtocolError struct {
	Op     string
	Symbol string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s (symbol %s): %v", e.Op, e.Symbol, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// DomainCycleError reports an ancestor chain that never reaches the wildcard
type DomainCycleError struct {
	Symbol    string
	Dimension int
	Chain     []string
}

func (e *DomainCycleError) Error() string {
	return fmt.Sprintf("domain cycle in %s dimension %d: %s",
		e.Symbol, e.Dimension+1, strings.Join(e.Chain, " -> "))
}
