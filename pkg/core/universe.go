/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: universe.go
Description: The universal element table. Records reference elements by position, so the
table keeps strict insertion order and a name index for constant-time lookup.
*/

package core

// Element is one entry of the universal table
type Element struct {
	Name    string
	Text    string
	HasText bool
}

// Universe is the ordered registry of every element name used in a container
type Universe struct {
	elements []Element
	index    map[string]int
}

// NewUniverse creates an empty table
func NewUniverse() *Universe {
	return &Universe{index: make(map[string]int)}
}

// Add appends name if it is not present yet and returns its position.
// Text is only recorded for new elements.
func (u *Universe) Add(name string, text string, hasText bool) int {
	if i, ok := u.index[name]; ok {
		return i
	}
	i := len(u.elements)
	u.elements = append(u.elements, Element{Name: name, Text: text, HasText: hasText})
	u.index[name] = i
	return i
}

// Index returns the position of name
func (u *Universe) Index(name string) (int, bool) {
	i, ok := u.index[name]
	return i, ok
}

// Len returns the number of elements
func (u *Universe) Len() int {
	return len(u.elements)
}

// At returns the element at position i
func (u *Universe) At(i int) Element {
	return u.elements[i]
}

// Names returns all element names in table order
func (u *Universe) Names() []string {
	names := make([]string, len(u.elements))
	for i, e := range u.elements {
		names[i] = e.Name
	}
	return names
}

// Elements returns a copy of the table
func (u *Universe) Elements() []Element {
	out := make([]Element, len(u.elements))
	copy(out, u.elements)
	return out
}

// Merge appends every element of other that is missing here, keeping other's order
func (u *Universe) Merge(other *Universe) {
	for _, e := range other.elements {
		u.Add(e.Name, e.Text, e.HasText)
	}
}
