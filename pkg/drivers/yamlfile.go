/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: yamlfile.go
Description: File-backed driver storing containers as YAML documents. Reading loads the
whole document up front; writing builds the container in memory and flushes it when the
handle is closed.
*/

package drivers

import (
	"fmt"
	"os"

	"github.com/kleascm/gdxdict/pkg/interfaces"
	"gopkg.in/yaml.v3"
)

// YAMLFile reads and writes YAML containers
type YAMLFile struct {
	systemDir string
}

// NewYAMLFile creates the driver. A non-empty systemDir must be an existing directory.
func NewYAMLFile(systemDir string) (*YAMLFile, error) {
	if systemDir != "" {
		stat, err := os.Stat(systemDir)
		if err != nil {
			return nil, fmt.Errorf("system directory %s: %w", systemDir, err)
		}
		if !stat.IsDir() {
			return nil, fmt.Errorf("system directory %s is not a directory", systemDir)
		}
	}
	return &YAMLFile{systemDir: systemDir}, nil
}

// SystemDir returns the directory the driver was created with
func (d *YAMLFile) SystemDir() string {
	return d.systemDir
}

func (d *YAMLFile) OpenRead(path string) (interfaces.Handle, error) {
	c, err := LoadContainer(path)
	if err != nil {
		return nil, err
	}
	return newReadHandle(c), nil
}

func (d *YAMLFile) OpenWrite(path string, producer string) (interfaces.Handle, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create container file: %w", err)
	}
	return newWriteHandle(producer, func(c *Container) error {
		data, err := MarshalContainer(c)
		if err != nil {
			file.Close()
			return err
		}
		if _, err := file.Write(data); err != nil {
			file.Close()
			return fmt.Errorf("failed to write container file %s: %w", path, err)
		}
		return file.Close()
	}), nil
}

func (d *YAMLFile) Name() string {
	return "yaml"
}

// LoadContainer reads and parses a YAML container file
func LoadContainer(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read container file %s: %w", path, err)
	}
	return ParseContainer(data)
}

// ParseContainer parses YAML data into a Container
func ParseContainer(data []byte) (*Container, error) {
	var c Container
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse container YAML: %w", err)
	}
	if err := validateContainer(&c); err != nil {
		return nil, err
	}
	c.normalize()
	return &c, nil
}

// MarshalContainer serializes a Container to YAML
func MarshalContainer(c *Container) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal container: %w", err)
	}
	return data, nil
}

// UnmarshalYAML accepts value lists shorter than a full record; missing fields are zero
func (r *Record) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Keys   []string  `yaml:"keys"`
		Values []float64 `yaml:"values"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if len(raw.Values) > interfaces.ValMax {
		return fmt.Errorf("line %d: record has %d values, at most %d allowed", node.Line, len(raw.Values), interfaces.ValMax)
	}
	r.Keys = raw.Keys
	r.Values = interfaces.Values{}
	copy(r.Values[:], raw.Values)
	return nil
}

// validateContainer checks the parts of a document the handles rely on
func validateContainer(c *Container) error {
	seen := make(map[string]struct{}, len(c.Symbols))
	for i, s := range c.Symbols {
		if s.Name == "" {
			return fmt.Errorf("symbol #%d has no name", i+1)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate symbol %s", s.Name)
		}
		seen[s.Name] = struct{}{}
		if s.Dims < 0 {
			return fmt.Errorf("symbol %s: negative dimension %d", s.Name, s.Dims)
		}
		if s.Type == "" {
			c.Symbols[i].Type = "parameter"
		}
	}
	return nil
}
