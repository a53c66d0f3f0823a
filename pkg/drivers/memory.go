/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: memory.go
Description: Driver keeping containers in memory, keyed by path. Used by tests and by
callers that build containers programmatically.
*/

package drivers

import (
	"fmt"

	"github.com/kleascm/gdxdict/pkg/interfaces"
)

// Memory stores containers in a map
type Memory struct {
	containers map[string]*Container
}

// NewMemory creates an empty memory driver
func NewMemory() *Memory {
	return &Memory{containers: make(map[string]*Container)}
}

// Put stores a container under path
func (m *Memory) Put(path string, c *Container) {
	m.containers[path] = c
}

// Get returns the container stored under path
func (m *Memory) Get(path string) (*Container, bool) {
	c, ok := m.containers[path]
	return c, ok
}

func (m *Memory) OpenRead(path string) (interfaces.Handle, error) {
	c, ok := m.containers[path]
	if !ok {
		return nil, fmt.Errorf("no container at %s", path)
	}
	return newReadHandle(c), nil
}

func (m *Memory) OpenWrite(path string, producer string) (interfaces.Handle, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}
	return newWriteHandle(producer, func(c *Container) error {
		m.containers[path] = c
		return nil
	}), nil
}

func (m *Memory) Name() string {
	return "memory"
}
