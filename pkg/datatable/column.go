// Package datatable is a reusable, server-driven table controller. It owns
// the interactive state of one table (page, search, per-column filters,
// sort, column order and pinning), turns every relevant change into exactly
// one listing request, and discards responses that a newer request has
// superseded. It is agnostic of the row type and of the transport behind
// the Fetcher.
package datatable

// FilterKind dispatches per-column filter behavior as a tagged variant
// instead of inspecting values at runtime.
type FilterKind int

const (
	// FilterNone marks a column without a filter control.
	FilterNone FilterKind = iota
	// FilterText matches as a case-insensitive substring.
	FilterText
	// FilterSelect matches one enumerated option exactly.
	FilterSelect
	// FilterMultiSelect matches membership in a chosen option set.
	FilterMultiSelect
)

// Option is one enumerated choice of a select-kind filter.
type Option struct {
	Label string
	Value string
}

// Column describes one table column: which row field it reads, how it is
// labeled, and which interactions it supports.
type Column struct {
	Key        string
	Header     string
	Sortable   bool
	Filterable bool
	Filter     FilterKind
	// Options is consulted only for FilterSelect / FilterMultiSelect.
	Options []Option
}

// PinSide is the presentation-only pinning state of a column.
type PinSide int

const (
	PinNone PinSide = iota
	PinLeft
	PinRight
)

// cyclePin advances left → right → none, matching the header control.
func cyclePin(p PinSide) PinSide {
	switch p {
	case PinNone:
		return PinLeft
	case PinLeft:
		return PinRight
	default:
		return PinNone
	}
}
