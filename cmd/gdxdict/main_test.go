/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main_test.go
Description: End-to-end tests for the gdxdict command line. Covers argument checking, exit
codes per failure kind, conversion, configuration sources and the inspection subcommands.
*/

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/gdxdict/cmd/gdxdict/commands"
	"github.com/kleascm/gdxdict/pkg/drivers"
	"github.com/kleascm/gdxdict/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleContainer() *drivers.Container {
	return &drivers.Container{
		Producer: "tests",
		Elements: []drivers.Element{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		Symbols: []drivers.Symbol{
			{Name: "i", Type: "set", Dims: 1, Records: []drivers.Record{
				{Keys: []string{"a"}}, {Keys: []string{"b"}},
			}},
			{Name: "j", Type: "set", Dims: 1, Records: []drivers.Record{
				{Keys: []string{"a"}}, {Keys: []string{"b"}}, {Keys: []string{"c"}},
			}},
			{Name: "p", Type: "parameter", Dims: 1, Records: []drivers.Record{
				{Keys: []string{"a"}, Values: interfaces.Values{1}},
				{Keys: []string{"b"}, Values: interfaces.Values{2}},
			}},
		},
	}
}

func writeContainer(t *testing.T, dir, name string, c *drivers.Container) string {
	t.Helper()
	data, err := drivers.MarshalContainer(c)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// TestUsageErrors tests argument checking
func TestUsageErrors(t *testing.T) {
	for name, args := range map[string][]string{
		"none":         {},
		"one":          {"in.yaml"},
		"four":         {"in.yaml", "out.yaml", "dir", "extra"},
		"unknown flag": {"--bogus", "in.yaml", "out.yaml"},
		"dump args":    {"dump"},
		"domains args": {"domains", "a.yaml", "b.yaml"},
	} {
		t.Run(name, func(t *testing.T) {
			code, _, stderr := runCLI(args...)
			assert.Equal(t, exitError, code)
			assert.Contains(t, stderr, "Error: ")
			assert.Contains(t, stderr, "Usage: "+usageLine)
		})
	}

	code, _, stderr := runCLI("in.yaml")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "Error: Wrong number of arguments")
}

// TestConvert tests a successful conversion with domain inference
func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := writeContainer(t, dir, "in.yaml", sampleContainer())
	out := filepath.Join(dir, "out.yaml")

	code, stdout, stderr := runCLI(in, out)
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Conversion finished")
	assert.Contains(t, stderr, "run_id=")

	got, err := drivers.LoadContainer(out)
	require.NoError(t, err)
	assert.Equal(t, "gdxdict", got.Producer)
	require.Len(t, got.Symbols, 3)
	assert.Equal(t, []string{"j"}, got.Symbols[0].Domain)
	assert.Nil(t, got.Symbols[1].Domain)
	assert.Equal(t, []string{"i"}, got.Symbols[2].Domain)
	assert.Equal(t, interfaces.Values{2}, got.Symbols[2].Records[1].Values)

	// The optional third argument names the system directory
	code, _, stderr = runCLI(in, filepath.Join(dir, "out2.yaml"), dir)
	assert.Equal(t, exitOK, code, stderr)
}

// TestConvertErrors tests the exit code of each failure kind
func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeContainer(t, dir, "in.yaml", sampleContainer())

	cycle := writeContainer(t, dir, "cycle.yaml", &drivers.Container{
		Elements: []drivers.Element{{Name: "a"}},
		Symbols: []drivers.Symbol{
			{Name: "u", Type: "set", Dims: 1, Domain: []string{"v"}, Records: []drivers.Record{{Keys: []string{"a"}}}},
			{Name: "v", Type: "set", Dims: 1, Domain: []string{"u"}, Records: []drivers.Record{{Keys: []string{"a"}}}},
		},
	})

	badType := sampleContainer()
	badType.Symbols[2].Type = "table"
	protocol := writeContainer(t, dir, "protocol.yaml", badType)

	for _, tc := range []struct {
		name   string
		args   []string
		code   int
		prefix string
	}{
		{"missing input", []string{filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "o1.yaml")}, exitError, "Open Error: "},
		{"missing system dir", []string{in, filepath.Join(dir, "o2.yaml"), filepath.Join(dir, "nosuchdir")}, exitError, "Open Error: "},
		{"unwritable output", []string{in, filepath.Join(dir, "nosuchdir", "o3.yaml")}, exitError, "Open Error: "},
		{"bad symbol type", []string{protocol, filepath.Join(dir, "o4.yaml")}, exitError, "Protocol Error: "},
		{"domain cycle", []string{cycle, filepath.Join(dir, "o5.yaml")}, exitError, "Domain Cycle Error: "},
		{"bad log level", []string{"--log-level", "loud", in, filepath.Join(dir, "o6.yaml")}, exitOther, "Error: "},
	} {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := runCLI(tc.args...)
			assert.Equal(t, tc.code, code)
			assert.Contains(t, stderr, tc.prefix)
		})
	}
}

// TestConvertConfiguration tests the config file and environment sources
func TestConvertConfiguration(t *testing.T) {
	dir := t.TempDir()
	in := writeContainer(t, dir, "in.yaml", sampleContainer())

	config := filepath.Join(dir, "gdxdict.yaml")
	require.NoError(t, os.WriteFile(config, []byte("producer: from-config\nlog_level: error\n"), 0644))

	out := filepath.Join(dir, "config.yaml")
	code, _, stderr := runCLI("--config", config, in, out)
	require.Equal(t, exitOK, code, stderr)
	assert.NotContains(t, stderr, "Conversion finished", "info entries suppressed")
	got, err := drivers.LoadContainer(out)
	require.NoError(t, err)
	assert.Equal(t, "from-config", got.Producer)

	t.Setenv("GDXDICT_PRODUCER", "from-env")
	out = filepath.Join(dir, "env.yaml")
	code, _, stderr = runCLI(in, out)
	require.Equal(t, exitOK, code, stderr)
	got, err = drivers.LoadContainer(out)
	require.NoError(t, err)
	assert.Equal(t, "from-env", got.Producer)

	code, _, _ = runCLI("--config", filepath.Join(dir, "missing.yaml"), in, out)
	assert.Equal(t, exitOther, code)

	logDir := filepath.Join(dir, "logs")
	code, _, stderr = runCLI("--log-dir", logDir, in, out)
	require.Equal(t, exitOK, code, stderr)
	logs, err := filepath.Glob(filepath.Join(logDir, "gdxdict_*.log"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

// TestDump tests every dump format
func TestDump(t *testing.T) {
	dir := t.TempDir()
	in := writeContainer(t, dir, "in.yaml", sampleContainer())

	code, stdout, stderr := runCLI("dump", "--symbol", "p", in)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "[p a] 1\n[p b] 2\n", stdout)

	code, stdout, stderr = runCLI("dump", in)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "[i a] 1\n")
	assert.Contains(t, stdout, "[j c] 1\n")

	code, stdout, stderr = runCLI("dump", "--format", "yaml", in)
	require.Equal(t, exitOK, code, stderr)
	var dumps []commands.SymbolDump
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &dumps))
	require.Len(t, dumps, 3)
	assert.Equal(t, "p", dumps[2].Name)
	assert.Equal(t, "Parameter", dumps[2].Type)
	assert.Equal(t, []string{"i"}, dumps[2].Domain)
	assert.Equal(t, []commands.LeafDump{
		{Coords: []string{"a"}, Value: 1},
		{Coords: []string{"b"}, Value: 2},
	}, dumps[2].Leaves)

	code, stdout, stderr = runCLI("dump", "--format", "spew", "--symbol", "i", in)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "SymbolDump")
	assert.Contains(t, stdout, `"i"`)

	code, _, _ = runCLI("dump", "--format", "xml", in)
	assert.Equal(t, exitError, code)

	code, _, stderr = runCLI("dump", "--symbol", "q", in)
	assert.Equal(t, exitOther, code)
	assert.Contains(t, stderr, "symbol q not found")
}

// TestDomains tests the domain listing and its JSON report
func TestDomains(t *testing.T) {
	dir := t.TempDir()
	in := writeContainer(t, dir, "in.yaml", sampleContainer())
	reports := filepath.Join(dir, "reports")

	code, stdout, stderr := runCLI("domains", "--report-dir", reports, in)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "i(j) Set\n  1 j -> *\n")
	assert.Contains(t, stdout, "j(*) Set\n  1 *\n")
	assert.Contains(t, stdout, "p(i) Parameter\n  1 i -> j -> *\n")

	files, err := filepath.Glob(filepath.Join(reports, "domains", "*_domains_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var report commands.DomainsReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, in, report.Input)
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Domains["p"], 1)
	assert.Equal(t, "i", report.Domains["p"][0].Key)
	assert.Equal(t, []string{"i", "j", "*"}, report.Domains["p"][0].Ancestors)
	assert.Len(t, report.Guesser.Guesses, 2)
}
