/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dump.go
Description: Dump command. Reads a container and prints its symbols as leaf lines, as a
YAML document or as a raw structure dump.
*/

package commands

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/kleascm/gdxdict/pkg/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DumpFormats lists the accepted values of --format
var DumpFormats = []string{"text", "yaml", "spew"}

// SymbolDump is the printable form of one symbol
type SymbolDump struct {
	Name        string     `yaml:"name"`
	Type        string     `yaml:"type"`
	Dims        int        `yaml:"dims"`
	Description string     `yaml:"description,omitempty"`
	Records     int        `yaml:"records"`
	Domain      []string   `yaml:"domain,omitempty,flow"`
	Leaves      []LeafDump `yaml:"leaves"`
}

// LeafDump is the printable form of one record
type LeafDump struct {
	Coords []string           `yaml:"coords,flow"`
	Value  float64            `yaml:"value"`
	Text   string             `yaml:"text,omitempty"`
	Limits map[string]float64 `yaml:"limits,omitempty"`
}

// RunDump prints the contents of args[0]
func RunDump(cmd *cobra.Command, args []string) error {
	format := viper.GetString("dump.format")
	if !validDumpFormat(format) {
		return &UsageError{Msg: fmt.Sprintf("unknown dump format %q", format)}
	}

	s, err := startSession(cmd.ErrOrStderr(), viper.GetString("system_dir"))
	if err != nil {
		return err
	}
	defer s.close()

	store, _, err := s.read(args[0])
	if err != nil {
		return err
	}

	symbols := store.Symbols()
	if only := viper.GetString("dump.symbol"); only != "" {
		if _, ok := store.Info(only); !ok {
			return fmt.Errorf("symbol %s not found in %s", only, args[0])
		}
		symbols = []string{only}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "yaml":
		dumps, err := BuildDump(store, symbols)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(dumps); err != nil {
			return fmt.Errorf("failed to encode dump: %w", err)
		}
		return enc.Close()
	case "spew":
		dumps, err := BuildDump(store, symbols)
		if err != nil {
			return err
		}
		config := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		config.Fdump(out, dumps)
		return nil
	default:
		return PrintSymbols(out, store, symbols)
	}
}

func validDumpFormat(format string) bool {
	for _, f := range DumpFormats {
		if f == format {
			return true
		}
	}
	return false
}

// PrintSymbols writes one "[symbol coords...] value" line per leaf
func PrintSymbols(out io.Writer, store *core.Store, symbols []string) error {
	for _, name := range symbols {
		err := store.WalkSymbol(name, func(symbol string, coords []string, value float64) error {
			path := append([]string{symbol}, coords...)
			_, err := fmt.Fprintf(out, "%v %v\n", path, value)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// BuildDump collects symbols with their leaves, element text and level fields
func BuildDump(store *core.Store, symbols []string) ([]SymbolDump, error) {
	dumps := make([]SymbolDump, 0, len(symbols))
	for _, name := range symbols {
		info, ok := store.Info(name)
		if !ok {
			return nil, fmt.Errorf("unknown symbol %s", name)
		}

		d := SymbolDump{
			Name:        info.Name,
			Type:        info.TypeName(),
			Dims:        info.Dims,
			Description: info.Description,
			Records:     info.Records,
			Domain:      info.DomainKeys(),
			Leaves:      []LeafDump{},
		}

		err := store.WalkSymbol(name, func(symbol string, coords []string, value float64) error {
			leaf := LeafDump{Coords: coords, Value: value}
			if text, ok := store.Text(symbol, coords...); ok {
				leaf.Text = text
			}
			if limits, ok := store.LimitsOf(symbol, coords...); ok {
				leaf.Limits = make(map[string]float64, len(limits))
				for f, v := range limits {
					leaf.Limits[f.String()] = v
				}
			}
			d.Leaves = append(d.Leaves, leaf)
			return nil
		})
		if err != nil {
			return nil, err
		}

		dumps = append(dumps, d)
	}
	return dumps, nil
}
