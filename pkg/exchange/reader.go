/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reader.go
Description: Streams a container into a symbol store. Reads the universal set first, then
every symbol in file order, building nested levels plus the element text and limits side
tables, and finally runs domain inference over the whole store.
*/

package exchange

import (
	"fmt"
	"io"

	"github.com/kleascm/gdxdict/pkg/core"
	"github.com/kleascm/gdxdict/pkg/inference"
	"github.com/kleascm/gdxdict/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// Reader loads containers through a driver
type Reader struct {
	driver  interfaces.Driver
	logger  *logrus.Logger
	guesser *inference.DomainGuesser
}

// NewReader creates a reader. A nil logger discards output.
func NewReader(driver interfaces.Driver, logger *logrus.Logger) *Reader {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Reader{
		driver:  driver,
		logger:  logger,
		guesser: inference.NewDomainGuesser(logger),
	}
}

// Read loads the container at path and guesses any missing domains.
// The handle is closed before domain inference starts.
func (r *Reader) Read(path string) (*core.Store, *inference.Report, error) {
	store, err := r.load(path)
	if err != nil {
		return nil, nil, err
	}

	report, err := r.guesser.Run(store)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve domains of %s: %w", path, err)
	}

	return store, report, nil
}

// load reads every symbol of the container into a fresh store
func (r *Reader) load(path string) (store *core.Store, err error) {
	h, err := r.driver.OpenRead(path)
	if err != nil {
		return nil, &core.OpenError{Path: path, Mode: "read", Err: err}
	}
	defer func() {
		if cerr := h.Close(); cerr != nil && err == nil {
			store, err = nil, &core.ProtocolError{Op: "close", Err: cerr}
		}
	}()

	fi, err := h.FileInfo()
	if err != nil {
		return nil, &core.ProtocolError{Op: "file info", Err: err}
	}

	store = core.NewStore()
	store.File = core.FileInfo{
		SymbolCount:  fi.SymbolCount,
		ElementCount: fi.ElementCount,
		Producer:     fi.Producer,
	}

	if err := r.readUniverse(h, store); err != nil {
		return nil, err
	}

	for i := 1; i <= fi.SymbolCount; i++ {
		if err := r.readSymbol(h, store, i); err != nil {
			return nil, err
		}
	}

	r.logger.WithFields(logrus.Fields{
		"path":     path,
		"symbols":  store.Len(),
		"elements": store.Universe.Len(),
		"producer": fi.Producer,
	}).Info("Container read")

	return store, nil
}

// readUniverse loads the universal set stored at index 0
func (r *Reader) readUniverse(h interfaces.Handle, store *core.Store) error {
	hdr, err := h.SymbolHeader(0)
	if err != nil {
		return &core.ProtocolError{Op: "symbol info", Symbol: core.Wildcard, Err: err}
	}
	store.SetUniversal(core.SymbolInfo{
		Description: hdr.Description,
		UserInfo:    hdr.UserInfo,
	})

	err = h.ReadRecords(0, func(keys []string, values interfaces.Values) error {
		if len(keys) < 1 {
			return fmt.Errorf("universal record without element")
		}
		text, ok := h.ElementText(int(values[interfaces.ValLevel]))
		store.Universe.Add(keys[0], text, ok)
		return nil
	})
	if err != nil {
		return &core.ProtocolError{Op: "error in reading records", Symbol: core.Wildcard, Err: err}
	}
	return nil
}

// readSymbol loads one symbol's metadata and records
func (r *Reader) readSymbol(h interfaces.Handle, store *core.Store, index int) error {
	hdr, err := h.SymbolHeader(index)
	if err != nil {
		return &core.ProtocolError{Op: "symbol info", Symbol: fmt.Sprintf("#%d", index), Err: err}
	}
	if hdr.TypeCode < interfaces.TypeCodeSet || hdr.TypeCode > interfaces.TypeCodeAlias {
		return &core.ProtocolError{Op: "symbol info", Symbol: hdr.Name, Err: fmt.Errorf("unknown type code %d", hdr.TypeCode)}
	}

	info, err := store.AddSymbol(core.SymbolInfo{
		Name:        hdr.Name,
		Number:      index,
		Dims:        hdr.Dims,
		Type:        core.SymbolType(hdr.TypeCode),
		Description: hdr.Description,
		UserInfo:    hdr.UserInfo,
		Domain:      declaredDomain(store, hdr),
	})
	if err != nil {
		return &core.ProtocolError{Op: "symbol info", Symbol: hdr.Name, Err: err}
	}

	count := 0
	err = h.ReadRecords(index, func(keys []string, values interfaces.Values) error {
		count++
		return storeRecord(h, store, info, keys, values)
	})
	if err != nil {
		return &core.ProtocolError{Op: "error in reading records", Symbol: hdr.Name, Err: err}
	}

	if hdr.Records != count {
		r.logger.WithFields(logrus.Fields{
			"symbol":   hdr.Name,
			"declared": hdr.Records,
			"read":     count,
		}).Warn("Record count differs from symbol header")
	}
	info.Records = count

	r.logger.WithFields(logrus.Fields{
		"symbol":  info.Name,
		"type":    info.TypeName(),
		"dims":    info.Dims,
		"records": count,
	}).Debug("Symbol read")

	return nil
}

// declaredDomain converts the header's domain names into slots
func declaredDomain(store *core.Store, hdr interfaces.SymbolHeader) []core.DomainSlot {
	domain := core.WildcardDomain(hdr.Dims)
	for i := range domain {
		if i >= len(hdr.Domain) || hdr.Domain[i] == "" || hdr.Domain[i] == core.Wildcard {
			continue
		}
		domain[i].Key = hdr.Domain[i]
		if ref, ok := store.Info(hdr.Domain[i]); ok {
			domain[i].Index = ref.Number
		}
	}
	return domain
}

// storeRecord places one record into the symbol's nested levels
func storeRecord(h interfaces.Handle, store *core.Store, info *core.SymbolInfo, keys []string, values interfaces.Values) error {
	if len(keys) != info.Dims {
		return fmt.Errorf("record has %d keys, symbol has %d dimensions", len(keys), info.Dims)
	}

	level, key := store.Root(), info.Name
	if info.Dims > 0 {
		level = store.Values(info.Name)
		for _, k := range keys[:info.Dims-1] {
			level = level.EnsureChild(k)
		}
		key = keys[info.Dims-1]
	}
	for _, k := range keys {
		store.Universe.Add(k, "", false)
	}

	if info.Type == core.TypeSet {
		level.SetValue(key, 1)
		if text, ok := h.ElementText(int(values[interfaces.ValLevel])); ok {
			level.SetDesc(key, text)
		}
		return nil
	}

	level.SetValue(key, values[interfaces.ValLevel])
	if info.Type.HasLimits() {
		level.SetLimits(key, core.LimitsFromValues(values))
	}
	return nil
}
