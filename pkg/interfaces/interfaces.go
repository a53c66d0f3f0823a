/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared interfaces for gdxdict. Defines the contract of the external
data-exchange library (the "collaborator") that owns the container file format, so the
reader, writer and drivers can meet without import cycles.
*/

package interfaces

// Value array layout shared by every record. The order is fixed by the container format.
const (
	ValLevel    = 0 // .l
	ValMarginal = 1 // .m
	ValLower    = 2 // .lo
	ValUpper    = 3 // .ub
	ValScale    = 4 // .scale
	ValMax      = 5
)

// Values is the fixed-size numeric payload of one record
type Values [ValMax]float64

// Symbol type codes as used on the wire
const (
	TypeCodeSet       = 0
	TypeCodeParameter = 1
	TypeCodeVariable  = 2
	TypeCodeEquation  = 3
	TypeCodeAlias     = 4
)

// FileInfo describes a container as a whole
type FileInfo struct {
	SymbolCount  int    // Number of symbols, not counting the universal set
	ElementCount int    // Number of unique elements
	Producer     string // Program that wrote the container
}

// SymbolHeader is the metadata the collaborator reports for one symbol.
// Index 0 is always the universal set.
type SymbolHeader struct {
	Name        string
	Dims        int
	TypeCode    int
	Records     int
	UserInfo    int
	Description string
	Domain      []string // Declared domain per dimension, "*" when unknown
}

// RecordFunc receives one record while a symbol is streamed.
// Returning an error stops the stream and is propagated to the caller.
type RecordFunc func(keys []string, values Values) error

// Handle is an open container. Read handles support the read half, write
// handles the write half; calling the wrong half returns an error.
type Handle interface {
	// Read side
	FileInfo() (FileInfo, error)
	SymbolHeader(index int) (SymbolHeader, error)
	ReadRecords(index int, fn RecordFunc) error
	ElementText(textIndex int) (string, bool)

	// Write side
	RegisterElements(names []string) error
	AddElementText(text string) (int, error)
	BeginSymbol(header SymbolHeader) error
	WriteRecord(keys []string, values Values) error
	EndSymbol() error

	Close() error
}

// Driver opens containers. Implementations wrap one concrete storage format.
type Driver interface {
	OpenRead(path string) (Handle, error)
	OpenWrite(path string, producer string) (Handle, error)
	Name() string
}
