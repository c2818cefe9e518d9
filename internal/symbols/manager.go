// Package symbols manages the generated labels of a disassembly run.
package symbols

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Kind defines why an address got a label. Kinds are ordered by priority, a label of
// a higher kind replaces an existing label of a lower kind.
type Kind uint8

// label kinds.
const (
	DataReference Kind = iota // address referenced by an absolute data access
	Target                    // branch or jump destination
	Subroutine                // destination of a subroutine call
	Start                     // heuristically discovered program start
	Entry                     // initial or explicitly passed entry point
)

// Prefixes defines the name prefixes of the label kinds.
type Prefixes struct {
	Entry      string
	Start      string
	Subroutine string
	Target     string
	Data       string
}

// DefaultPrefixes returns the default label name prefixes.
func DefaultPrefixes() Prefixes {
	return Prefixes{
		Entry:      "ENTRY",
		Start:      "START",
		Subroutine: "SUB",
		Target:     "L",
		Data:       "D",
	}
}

func (p Prefixes) prefix(kind Kind) string {
	switch kind {
	case Entry:
		return p.Entry
	case Start:
		return p.Start
	case Subroutine:
		return p.Subroutine
	case Target:
		return p.Target
	default:
		return p.Data
	}
}

// Label is a generated symbolic name of an address.
type Label struct {
	Address uint16
	Name    string
	Kind    Kind
}

// Manager maps addresses to generated labels.
type Manager struct {
	prefixes Prefixes
	labels   map[uint16]Label
}

// New creates a new label manager using the given name prefixes.
func New(prefixes Prefixes) *Manager {
	return &Manager{
		prefixes: prefixes,
		labels:   map[uint16]Label{},
	}
}

// Add registers a label of the given kind for the address and returns the label
// that is set for the address afterwards.
func (m *Manager) Add(address uint16, kind Kind) Label {
	existing, ok := m.labels[address]
	if ok && existing.Kind >= kind {
		return existing
	}

	label := Label{
		Address: address,
		Name:    fmt.Sprintf("%s_%04X", m.prefixes.prefix(kind), address),
		Kind:    kind,
	}
	m.labels[address] = label
	return label
}

// Get returns the label of the address.
func (m *Manager) Get(address uint16) (Label, bool) {
	label, ok := m.labels[address]
	return label, ok
}

// Name returns the label name of the address.
func (m *Manager) Name(address uint16) (string, bool) {
	label, ok := m.labels[address]
	return label.Name, ok
}

// Has returns whether a label exists for the address.
func (m *Manager) Has(address uint16) bool {
	_, ok := m.labels[address]
	return ok
}

// Len returns the number of labels.
func (m *Manager) Len() int {
	return len(m.labels)
}

// Sorted returns all labels sorted by address.
func (m *Manager) Sorted() []Label {
	addresses := maps.Keys(m.labels)
	slices.Sort(addresses)

	labels := make([]Label, 0, len(addresses))
	for _, address := range addresses {
		labels = append(labels, m.labels[address])
	}
	return labels
}
