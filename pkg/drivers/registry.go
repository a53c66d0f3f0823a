/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: registry.go
Description: Driver selection by name.
*/

package drivers

import (
	"fmt"

	"github.com/kleascm/gdxdict/pkg/interfaces"
)

// Default is the driver used when none is configured
const Default = "yaml"

// New returns the driver registered under name
func New(name string, systemDir string) (interfaces.Driver, error) {
	switch name {
	case "", "yaml":
		d, err := NewYAMLFile(systemDir)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", name)
	}
}

// Names lists the available drivers
func Names() []string {
	return []string{"yaml", "memory"}
}
