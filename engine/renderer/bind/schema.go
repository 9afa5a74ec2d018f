package bind

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// Schema is an ordered, validated table of binding declarations.
// It is immutable after NewSchema and safe to share.
type Schema struct {
	entries []Entry
	names   map[string]int
}

// NewSchema validates the entries and returns the schema. Declaration order is kept
// and determines both the layout descriptor order and the resource order expected by New.
//
// Panics when a slot or name is used twice, a name is empty, or Count is zero.
//
// Parameters:
//   - entries: the binding declarations in order
//
// Returns:
//   - *Schema: the validated schema
func NewSchema(entries ...Entry) *Schema {
	s := &Schema{
		entries: make([]Entry, len(entries)),
		names:   make(map[string]int, len(entries)),
	}
	copy(s.entries, entries)

	slots := make(map[uint32]string, len(entries))
	for i, e := range s.entries {
		if e.Name == "" {
			panic(fmt.Sprintf("bind: entry %d (slot %d) has no name", i, e.Slot))
		}
		if prev, ok := slots[e.Slot]; ok {
			panic(fmt.Sprintf("bind: duplicate binding slot %d (%q and %q)", e.Slot, prev, e.Name))
		}
		if _, ok := s.names[e.Name]; ok {
			panic(fmt.Sprintf("bind: duplicate binding name %q", e.Name))
		}
		if e.Count != nil && *e.Count == 0 {
			panic(fmt.Sprintf("bind: binding %q declares a zero count", e.Name))
		}
		slots[e.Slot] = e.Name
		s.names[e.Name] = i
	}
	return s
}

// Len returns the number of entries.
func (s *Schema) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the entries in declaration order.
func (s *Schema) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// EntryAt returns the entry at declaration index i.
func (s *Schema) EntryAt(i int) Entry {
	return s.entries[i]
}

// Index returns the declaration index of the named entry.
//
// Parameters:
//   - name: the entry name
//
// Returns:
//   - int: the index
//   - bool: false if no entry has that name
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.names[name]
	return i, ok
}

// Descriptor compiles the schema into a bind group layout descriptor with entries in declared order.
//
// Parameters:
//   - label: the debug label for the layout
//
// Returns:
//   - *wgpu.BindGroupLayoutDescriptor: the descriptor
func (s *Schema) Descriptor(label string) *wgpu.BindGroupLayoutDescriptor {
	entries := make([]wgpu.BindGroupLayoutEntry, len(s.entries))
	for i, e := range s.entries {
		entries[i] = e.layoutEntry()
	}
	return &wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: entries,
	}
}

// dynamicSlots lists the dynamic entry names in ascending slot order, which is the order
// the device consumes dynamic offsets in.
func (s *Schema) dynamicSlots() []string {
	var dynamic []Entry
	for _, e := range s.entries {
		if e.Kind == KindDynamicStorage {
			dynamic = append(dynamic, e)
		}
	}
	slices.SortFunc(dynamic, func(a, b Entry) int {
		return cmp.Compare(a.Slot, b.Slot)
	})

	names := make([]string, len(dynamic))
	for i, e := range dynamic {
		names[i] = e.Name
	}
	return names
}
