/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: container.go
Description: In-memory container model shared by the drivers, and the handle that streams
it. A read handle serves symbols and text from a loaded container; a write handle builds a
new container and hands it to the driver on Close.
*/

package drivers

import (
	"fmt"
	"strings"

	"github.com/kleascm/gdxdict/pkg/core"
	"github.com/kleascm/gdxdict/pkg/interfaces"
)

// Element is one entry of a container's universal set
type Element struct {
	Name string `yaml:"name"`
	Text string `yaml:"text,omitempty"`
}

// Record is one stored record
type Record struct {
	Keys   []string          `yaml:"keys,flow"`
	Values interfaces.Values `yaml:"values,flow"`
}

// Symbol is one stored symbol
type Symbol struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Dims        int      `yaml:"dims"`
	UserInfo    int      `yaml:"userinfo,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Domain      []string `yaml:"domain,flow,omitempty"`
	Records     []Record `yaml:"records"`
}

// Container is a whole data-exchange file held in memory.
// Texts[0] is reserved for "no text"; set records reference texts by index.
type Container struct {
	Producer string    `yaml:"producer"`
	Elements []Element `yaml:"elements"`
	Texts    []string  `yaml:"texts,omitempty"`
	Symbols  []Symbol  `yaml:"symbols"`
}

// normalize fills in the reserved text slot
func (c *Container) normalize() {
	if len(c.Texts) == 0 || c.Texts[0] != "" {
		c.Texts = append([]string{""}, c.Texts...)
	}
}

type handleMode int

const (
	modeRead handleMode = iota
	modeWrite
)

// containerHandle implements interfaces.Handle over a Container
type containerHandle struct {
	mode      handleMode
	container *Container
	closed    bool

	// read side
	texts        []string
	elementTexts []int

	// write side
	registered bool
	elements   map[string]struct{}
	textIndex  map[string]int
	current    *Symbol
	onClose    func(*Container) error
}

// newReadHandle serves an existing container. Element texts of the universal set are
// appended to the handle's text table so they can be looked up like set texts.
func newReadHandle(c *Container) *containerHandle {
	c.normalize()
	h := &containerHandle{
		mode:         modeRead,
		container:    c,
		texts:        append([]string(nil), c.Texts...),
		elementTexts: make([]int, len(c.Elements)),
	}
	for i, e := range c.Elements {
		if e.Text != "" {
			h.elementTexts[i] = len(h.texts)
			h.texts = append(h.texts, e.Text)
		}
	}
	return h
}

// newWriteHandle builds a container and passes it to onClose
func newWriteHandle(producer string, onClose func(*Container) error) *containerHandle {
	return &containerHandle{
		mode:      modeWrite,
		container: &Container{Producer: producer, Texts: []string{""}},
		elements:  make(map[string]struct{}),
		textIndex: make(map[string]int),
		onClose:   onClose,
	}
}

func (h *containerHandle) check(mode handleMode, op string) error {
	if h.closed {
		return fmt.Errorf("%s: handle is closed", op)
	}
	if h.mode != mode {
		return fmt.Errorf("%s: handle not opened for this operation", op)
	}
	return nil
}

func (h *containerHandle) FileInfo() (interfaces.FileInfo, error) {
	if err := h.check(modeRead, "file info"); err != nil {
		return interfaces.FileInfo{}, err
	}
	return interfaces.FileInfo{
		SymbolCount:  len(h.container.Symbols),
		ElementCount: len(h.container.Elements),
		Producer:     h.container.Producer,
	}, nil
}

func (h *containerHandle) SymbolHeader(index int) (interfaces.SymbolHeader, error) {
	if err := h.check(modeRead, "symbol info"); err != nil {
		return interfaces.SymbolHeader{}, err
	}
	if index == 0 {
		return interfaces.SymbolHeader{
			Name:        core.Wildcard,
			Dims:        1,
			TypeCode:    interfaces.TypeCodeSet,
			Records:     len(h.container.Elements),
			Description: "Universe",
			Domain:      []string{core.Wildcard},
		}, nil
	}
	if index < 0 || index > len(h.container.Symbols) {
		return interfaces.SymbolHeader{}, fmt.Errorf("symbol index %d out of range", index)
	}
	s := h.container.Symbols[index-1]
	t, err := core.ParseSymbolType(s.Type)
	if err != nil {
		return interfaces.SymbolHeader{}, fmt.Errorf("symbol %s: %w", s.Name, err)
	}
	return interfaces.SymbolHeader{
		Name:        s.Name,
		Dims:        s.Dims,
		TypeCode:    int(t),
		Records:     len(s.Records),
		UserInfo:    s.UserInfo,
		Description: s.Description,
		Domain:      append([]string(nil), s.Domain...),
	}, nil
}

func (h *containerHandle) ReadRecords(index int, fn interfaces.RecordFunc) error {
	if err := h.check(modeRead, "read records"); err != nil {
		return err
	}
	if index == 0 {
		for i, e := range h.container.Elements {
			var values interfaces.Values
			values[interfaces.ValLevel] = float64(h.elementTexts[i])
			if err := fn([]string{e.Name}, values); err != nil {
				return err
			}
		}
		return nil
	}
	if index < 0 || index > len(h.container.Symbols) {
		return fmt.Errorf("symbol index %d out of range", index)
	}
	for _, r := range h.container.Symbols[index-1].Records {
		if err := fn(append([]string(nil), r.Keys...), r.Values); err != nil {
			return err
		}
	}
	return nil
}

func (h *containerHandle) ElementText(textIndex int) (string, bool) {
	if textIndex <= 0 || textIndex >= len(h.texts) {
		return "", false
	}
	return h.texts[textIndex], true
}

func (h *containerHandle) RegisterElements(names []string) error {
	if err := h.check(modeWrite, "register elements"); err != nil {
		return err
	}
	if h.registered {
		return fmt.Errorf("register elements: element table already registered")
	}
	for _, name := range names {
		if _, dup := h.elements[name]; dup {
			return fmt.Errorf("register elements: duplicate element %q", name)
		}
		h.elements[name] = struct{}{}
		h.container.Elements = append(h.container.Elements, Element{Name: name})
	}
	h.registered = true
	return nil
}

func (h *containerHandle) AddElementText(text string) (int, error) {
	if err := h.check(modeWrite, "add element text"); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}
	if idx, ok := h.textIndex[text]; ok {
		return idx, nil
	}
	idx := len(h.container.Texts)
	h.container.Texts = append(h.container.Texts, text)
	h.textIndex[text] = idx
	return idx, nil
}

func (h *containerHandle) BeginSymbol(header interfaces.SymbolHeader) error {
	if err := h.check(modeWrite, "begin symbol"); err != nil {
		return err
	}
	if !h.registered {
		return fmt.Errorf("begin symbol %s: element table not registered", header.Name)
	}
	if h.current != nil {
		return fmt.Errorf("begin symbol %s: symbol %s still open", header.Name, h.current.Name)
	}
	if header.Name == "" || strings.HasPrefix(header.Name, core.ReservedPrefix) {
		return fmt.Errorf("begin symbol: invalid name %q", header.Name)
	}
	for _, s := range h.container.Symbols {
		if s.Name == header.Name {
			return fmt.Errorf("begin symbol %s: duplicate symbol", header.Name)
		}
	}
	var domain []string
	for _, d := range header.Domain {
		if d != core.Wildcard {
			domain = append([]string(nil), header.Domain...)
			break
		}
	}
	h.current = &Symbol{
		Name:        header.Name,
		Type:        strings.ToLower(core.SymbolType(header.TypeCode).String()),
		Dims:        header.Dims,
		UserInfo:    header.UserInfo,
		Description: header.Description,
		Domain:      domain,
		Records:     []Record{},
	}
	return nil
}

func (h *containerHandle) WriteRecord(keys []string, values interfaces.Values) error {
	if err := h.check(modeWrite, "write record"); err != nil {
		return err
	}
	if h.current == nil {
		return fmt.Errorf("write record: no symbol open")
	}
	if len(keys) != h.current.Dims {
		return fmt.Errorf("write record: %d keys for %d-dimensional symbol %s", len(keys), h.current.Dims, h.current.Name)
	}
	for _, k := range keys {
		if _, ok := h.elements[k]; !ok {
			return fmt.Errorf("write record: element %q not registered", k)
		}
	}
	h.current.Records = append(h.current.Records, Record{
		Keys:   append([]string(nil), keys...),
		Values: values,
	})
	return nil
}

func (h *containerHandle) EndSymbol() error {
	if err := h.check(modeWrite, "end symbol"); err != nil {
		return err
	}
	if h.current == nil {
		return fmt.Errorf("end symbol: no symbol open")
	}
	h.container.Symbols = append(h.container.Symbols, *h.current)
	h.current = nil
	return nil
}

func (h *containerHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if h.mode == modeWrite && h.onClose != nil {
		return h.onClose(h.container)
	}
	return nil
}
