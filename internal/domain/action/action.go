// Package action translates gesture class indices into maze control commands.
package action

import "sort"

// Unknown is returned for class indices with no wired action.
const Unknown = "unknown_action"

// Maze actions.
const (
	Up    = "up"
	Down  = "down"
	Left  = "left"
	Right = "right"
)

// DefaultTable returns the class index to action table of the maze client.
func DefaultTable() map[int]string {
	return map[int]string{
		16: Up,    // two up
		2:  Down,  // fist
		3:  Left,  // four
		14: Right, // three
	}
}

// Mapper is an immutable lookup table.
type Mapper struct {
	table map[int]string
}

// NewMapper copies table. A nil table yields a mapper that always misses.
func NewMapper(table map[int]string) *Mapper {
	m := &Mapper{table: make(map[int]string, len(table))}
	for k, v := range table {
		m.table[k] = v
	}
	return m
}

// Map returns the action for classIndex, or Unknown.
func (m *Mapper) Map(classIndex int) string {
	if a, ok := m.table[classIndex]; ok {
		return a
	}
	return Unknown
}

// Table returns a copy of the table.
func (m *Mapper) Table() map[int]string {
	out := make(map[int]string, len(m.table))
	for k, v := range m.table {
		out[k] = v
	}
	return out
}

// Classes returns the mapped class indices in ascending order.
func (m *Mapper) Classes() []int {
	keys := make([]int, 0, len(m.table))
	for k := range m.table {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
