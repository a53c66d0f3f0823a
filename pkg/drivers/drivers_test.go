/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: drivers_test.go
Description: Tests for the container drivers. Covers the YAML file format, handle
protocol rules for both directions and driver selection.
*/

package drivers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/kleascm/gdxdict/pkg/core"
	"github.com/kleascm/gdxdict/pkg/drivers"
	"github.com/kleascm/gdxdict/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
producer: tests
elements:
  - name: a
    text: alpha
  - name: b
texts: [first]
symbols:
  - name: i
    type: set
    dims: 1
    description: items
    records:
      - keys: [a]
        values: [1, 0, 0, 0, 0]
      - keys: [b]
  - name: p
    dims: 1
    domain: [i]
    records:
      - keys: [b]
        values: [2.5]
`

// TestParseContainer tests YAML parsing with defaults
func TestParseContainer(t *testing.T) {
	c, err := drivers.ParseContainer([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "tests", c.Producer)
	assert.Equal(t, []string{"", "first"}, c.Texts, "reserved empty text prepended")
	require.Len(t, c.Symbols, 2)
	assert.Equal(t, "parameter", c.Symbols[1].Type)
	assert.Equal(t, interfaces.Values{2.5}, c.Symbols[1].Records[0].Values)
	assert.Equal(t, []string{"i"}, c.Symbols[1].Domain)
}

// TestParseContainerInvalid tests document validation
func TestParseContainerInvalid(t *testing.T) {
	for name, doc := range map[string]string{
		"syntax":    "symbols: [",
		"no name":   "symbols:\n  - dims: 1\n",
		"duplicate": "symbols:\n  - name: p\n  - name: p\n",
		"negative":  "symbols:\n  - name: p\n    dims: -1\n",
		"values":    "symbols:\n  - name: p\n    records:\n      - values: [1, 2, 3, 4, 5, 6]\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := drivers.ParseContainer([]byte(doc))
			assert.Error(t, err)
		})
	}
}

// TestReadHandle tests the read half of the handle protocol
func TestReadHandle(t *testing.T) {
	c, err := drivers.ParseContainer([]byte(sampleYAML))
	require.NoError(t, err)
	driver := drivers.NewMemory()
	driver.Put("in", c)

	h, err := driver.OpenRead("in")
	require.NoError(t, err)
	defer h.Close()

	fi, err := h.FileInfo()
	require.NoError(t, err)
	assert.Equal(t, interfaces.FileInfo{SymbolCount: 2, ElementCount: 2, Producer: "tests"}, fi)

	universe, err := h.SymbolHeader(0)
	require.NoError(t, err)
	assert.Equal(t, core.Wildcard, universe.Name)
	assert.Equal(t, 1, universe.Dims)
	assert.Equal(t, interfaces.TypeCodeSet, universe.TypeCode)
	assert.Equal(t, 2, universe.Records)

	var texts []string
	err = h.ReadRecords(0, func(keys []string, values interfaces.Values) error {
		text, _ := h.ElementText(int(values[interfaces.ValLevel]))
		texts = append(texts, keys[0]+"="+text)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a=alpha", "b="}, texts)

	hdr, err := h.SymbolHeader(1)
	require.NoError(t, err)
	assert.Equal(t, interfaces.SymbolHeader{
		Name: "i", Dims: 1, TypeCode: interfaces.TypeCodeSet, Records: 2, Description: "items",
	}, hdr)

	text, ok := h.ElementText(1)
	require.True(t, ok)
	assert.Equal(t, "first", text)
	_, ok = h.ElementText(0)
	assert.False(t, ok)
	_, ok = h.ElementText(99)
	assert.False(t, ok)

	_, err = h.SymbolHeader(3)
	assert.Error(t, err)
	assert.Error(t, h.ReadRecords(3, func([]string, interfaces.Values) error { return nil }))
	assert.Error(t, h.RegisterElements([]string{"a"}), "read handle cannot write")

	_, err = driver.OpenRead("missing")
	assert.Error(t, err)
}

// TestWriteHandle tests the ordering rules of the write half
func TestWriteHandle(t *testing.T) {
	driver := drivers.NewMemory()
	h, err := driver.OpenWrite("out", "tests")
	require.NoError(t, err)

	header := interfaces.SymbolHeader{Name: "p", Dims: 1, TypeCode: interfaces.TypeCodeParameter}
	assert.Error(t, h.BeginSymbol(header), "elements must be registered first")

	require.NoError(t, h.RegisterElements([]string{"a", "b"}))
	assert.Error(t, h.RegisterElements([]string{"c"}), "registration happens once")

	assert.Error(t, h.WriteRecord([]string{"a"}, interfaces.Values{}), "no symbol open")

	require.NoError(t, h.BeginSymbol(header))
	assert.Error(t, h.BeginSymbol(header), "symbol still open")
	assert.Error(t, h.WriteRecord([]string{"z"}, interfaces.Values{}), "unregistered element")
	assert.Error(t, h.WriteRecord([]string{"a", "b"}, interfaces.Values{}), "wrong key count")
	require.NoError(t, h.WriteRecord([]string{"a"}, interfaces.Values{4}))
	require.NoError(t, h.EndSymbol())
	assert.Error(t, h.EndSymbol())

	assert.Error(t, h.BeginSymbol(header), "duplicate symbol")
	assert.Error(t, h.BeginSymbol(interfaces.SymbolHeader{Name: "__p"}), "reserved name")

	idx, err := h.AddElementText("note")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	again, err := h.AddElementText("note")
	require.NoError(t, err)
	assert.Equal(t, idx, again)
	none, err := h.AddElementText("")
	require.NoError(t, err)
	assert.Equal(t, 0, none)

	_, err = h.FileInfo()
	assert.Error(t, err, "write handle cannot read")

	_, ok := driver.Get("out")
	assert.False(t, ok, "nothing stored before close")
	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	assert.Error(t, h.EndSymbol(), "closed handle")

	out, ok := driver.Get("out")
	require.True(t, ok)
	assert.Equal(t, "tests", out.Producer)
	assert.Equal(t, []string{"", "note"}, out.Texts)
	require.Len(t, out.Symbols, 1)
	assert.Equal(t, "parameter", out.Symbols[0].Type)
	assert.Nil(t, out.Symbols[0].Domain)
}

// TestYAMLFileRoundTrip tests writing a container to disk and loading it back
func TestYAMLFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	driver, err := drivers.NewYAMLFile(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, driver.SystemDir())
	assert.Equal(t, "yaml", driver.Name())

	h, err := driver.OpenWrite(path, "tests")
	require.NoError(t, err)
	require.NoError(t, h.RegisterElements([]string{"a", "b"}))
	require.NoError(t, h.BeginSymbol(interfaces.SymbolHeader{
		Name: "x", Dims: 2, TypeCode: interfaces.TypeCodeVariable, UserInfo: core.VarFree,
		Domain: []string{"*", "*"},
	}))
	require.NoError(t, h.WriteRecord([]string{"a", "b"}, interfaces.Values{1, 0, core.MinusInf, core.PlusInf, 1}))
	require.NoError(t, h.EndSymbol())
	require.NoError(t, h.BeginSymbol(interfaces.SymbolHeader{Name: "s", TypeCode: interfaces.TypeCodeParameter}))
	require.NoError(t, h.WriteRecord(nil, interfaces.Values{7}))
	require.NoError(t, h.EndSymbol())
	require.NoError(t, h.Close())

	got, err := drivers.LoadContainer(path)
	require.NoError(t, err)

	want := &drivers.Container{
		Producer: "tests",
		Elements: []drivers.Element{{Name: "a"}, {Name: "b"}},
		Texts:    []string{""},
		Symbols: []drivers.Symbol{
			{Name: "x", Type: "variable", Dims: 2, UserInfo: core.VarFree, Records: []drivers.Record{
				{Keys: []string{"a", "b"}, Values: interfaces.Values{1, 0, core.MinusInf, core.PlusInf, 1}},
			}},
			{Name: "s", Type: "parameter", Records: []drivers.Record{
				{Values: interfaces.Values{7}},
			}},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("container mismatch (-want +got):\n%s", diff)
	}

	_, err = driver.OpenRead(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	_, err = driver.OpenWrite(filepath.Join(dir, "no", "such", "dir.yaml"), "tests")
	assert.Error(t, err)
}

// TestNewYAMLFileSystemDir tests system directory validation
func TestNewYAMLFileSystemDir(t *testing.T) {
	_, err := drivers.NewYAMLFile("")
	assert.NoError(t, err)

	_, err = drivers.NewYAMLFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = drivers.NewYAMLFile(file)
	assert.Error(t, err)
}

// TestRegistry tests driver selection by name
func TestRegistry(t *testing.T) {
	d, err := drivers.New("", "")
	require.NoError(t, err)
	assert.Equal(t, drivers.Default, d.Name())

	d, err = drivers.New("memory", "")
	require.NoError(t, err)
	assert.Equal(t, "memory", d.Name())

	d, err = drivers.New("gdx", "")
	assert.Error(t, err)
	assert.Nil(t, d)

	d, err = drivers.New("yaml", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	assert.Nil(t, d)

	assert.ElementsMatch(t, []string{"yaml", "memory"}, drivers.Names())
}
