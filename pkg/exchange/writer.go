/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: writer.go
Description: Flattens a symbol store back into a container. Registers the universal element
table before any record, then streams every symbol's leaves with their element text and
level fields.
*/

package exchange

import (
	"io"

	"github.com/kleascm/gdxdict/pkg/core"
	"github.com/kleascm/gdxdict/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// DefaultProducer is recorded in containers written without an explicit producer
const DefaultProducer = "gdxdict"

// auxiliaryFields are written from the limits table; the level comes from the leaf
var auxiliaryFields = []core.LevelField{core.FieldMarginal, core.FieldLower, core.FieldUpper, core.FieldScale}

// Writer saves stores through a driver
type Writer struct {
	driver   interfaces.Driver
	logger   *logrus.Logger
	producer string
}

// NewWriter creates a writer. A nil logger discards output.
func NewWriter(driver interfaces.Driver, logger *logrus.Logger, producer string) *Writer {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	if producer == "" {
		producer = DefaultProducer
	}
	return &Writer{driver: driver, logger: logger, producer: producer}
}

// Write saves every symbol of store to path. Elements are registered by name only, so
// text attached to universe elements is not written; set element text is.
func (w *Writer) Write(store *core.Store, path string) (err error) {
	h, err := w.driver.OpenWrite(path, w.producer)
	if err != nil {
		return &core.OpenError{Path: path, Mode: "write", Err: err}
	}
	defer func() {
		if cerr := h.Close(); cerr != nil && err == nil {
			err = &core.ProtocolError{Op: "close", Err: cerr}
		}
	}()

	// Records address elements by position, so the table goes first
	if err := h.RegisterElements(store.Universe.Names()); err != nil {
		return &core.ProtocolError{Op: "register elements", Err: err}
	}

	total := 0
	for _, name := range store.Symbols() {
		n, err := w.writeSymbol(h, store, name)
		if err != nil {
			return err
		}
		total += n
	}

	w.logger.WithFields(logrus.Fields{
		"path":     path,
		"symbols":  store.Len(),
		"elements": store.Universe.Len(),
		"records":  total,
	}).Info("Container written")

	return nil
}

// writeSymbol streams one symbol and returns the number of records written
func (w *Writer) writeSymbol(h interfaces.Handle, store *core.Store, name string) (int, error) {
	info, _ := store.Info(name)

	header := interfaces.SymbolHeader{
		Name:        info.Name,
		Dims:        info.Dims,
		TypeCode:    int(info.Type),
		Records:     info.Records,
		UserInfo:    info.UserInfo,
		Description: info.Description,
		Domain:      info.DomainKeys(),
	}
	if err := h.BeginSymbol(header); err != nil {
		return 0, &core.ProtocolError{Op: "couldn't start writing data", Symbol: name, Err: err}
	}

	var (
		n   int
		err error
	)
	if info.Dims == 0 {
		if store.Root().Has(name) {
			err = w.writeLeaf(h, info, store.Root(), name, nil)
			n = 1
		}
	} else if level := store.Values(name); level != nil {
		n, err = w.writeLevel(h, info, level, make([]string, 0, info.Dims), info.Dims)
	}
	if err != nil {
		return 0, &core.ProtocolError{Op: "write record", Symbol: name, Err: err}
	}

	if err := h.EndSymbol(); err != nil {
		return 0, &core.ProtocolError{Op: "finish writing data", Symbol: name, Err: err}
	}

	w.logger.WithFields(logrus.Fields{
		"symbol":  name,
		"type":    info.TypeName(),
		"records": n,
	}).Debug("Symbol written")

	return n, nil
}

// writeLevel descends depth levels, accumulating the coordinate path
func (w *Writer) writeLevel(h interfaces.Handle, info *core.SymbolInfo, level *core.Level, path []string, depth int) (int, error) {
	n := 0
	for _, key := range level.Keys() {
		if depth > 1 {
			child := level.Child(key)
			if child == nil {
				continue
			}
			written, err := w.writeLevel(h, info, child, append(path, key), depth-1)
			if err != nil {
				return n, err
			}
			n += written
			continue
		}
		if _, ok := level.Value(key); !ok {
			continue
		}
		if err := w.writeLeaf(h, info, level, key, path); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// writeLeaf writes the record for level[key]. Each record gets its own freshly
// initialised value buffer.
func (w *Writer) writeLeaf(h interfaces.Handle, info *core.SymbolInfo, level *core.Level, key string, path []string) error {
	values := initialValues(info)

	if info.Type == core.TypeSet {
		textIndex := 0
		if text, ok := level.Desc[key]; ok {
			idx, err := h.AddElementText(text)
			if err != nil {
				return err
			}
			textIndex = idx
		}
		values[interfaces.ValLevel] = float64(textIndex)
	} else {
		values[interfaces.ValLevel], _ = level.Value(key)
	}

	if info.Type.HasLimits() {
		if limits, ok := level.Limits[key]; ok {
			for _, f := range auxiliaryFields {
				if v, ok := limits[f]; ok {
					values[f] = v
				}
			}
		}
	}

	var keys []string
	if info.Dims > 0 {
		keys = make([]string, len(path)+1)
		copy(keys, path)
		keys[len(path)] = key
	}
	return h.WriteRecord(keys, values)
}

// initialValues returns the buffer a record starts from: the subtype defaults for
// variables, zero otherwise
func initialValues(info *core.SymbolInfo) interfaces.Values {
	if info.Type == core.TypeVariable && info.UserInfo >= 0 && info.UserInfo < len(core.DefaultVariableFields) {
		return core.DefaultVariableFields[info.UserInfo]
	}
	return interfaces.Values{}
}
