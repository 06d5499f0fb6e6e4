package datatable

import "sort"

// SortEntry is one (column, direction) directive; slice order decides
// primary key and tie-breakers.
type SortEntry struct {
	Key  string `json:"id"`
	Desc bool   `json:"desc"`
}

// FilterValue holds the active value(s) of one column filter. Text and
// single-select filters use one element; multi-select may hold several.
type FilterValue struct {
	Values []string
}

// State is the complete interactive state of a table, kept in one struct
// and mutated only through the controller's apply step.
type State struct {
	PageIndex int // 0-based in the UI; requests are 1-based
	PageSize  int
	Search    string
	Filters   map[string]FilterValue
	Sort      []SortEntry
	Order     []string // column display order, presentation only
	Pins      map[string]PinSide
}

func (s State) clone() State {
	out := s
	out.Filters = make(map[string]FilterValue, len(s.Filters))
	for k, v := range s.Filters {
		vals := make([]string, len(v.Values))
		copy(vals, v.Values)
		out.Filters[k] = FilterValue{Values: vals}
	}
	out.Sort = append([]SortEntry(nil), s.Sort...)
	out.Order = append([]string(nil), s.Order...)
	out.Pins = make(map[string]PinSide, len(s.Pins))
	for k, v := range s.Pins {
		out.Pins[k] = v
	}
	return out
}

// Filter is one serialized clause of a listing request.
type Filter struct {
	Key    string
	Values []string
}

// Request is the wire-shape listing request derived from State.
type Request struct {
	Page     int
	PageSize int
	Search   string
	Filters  []Filter
	Sort     []SortEntry
}

// Result carries one resolved listing page.
type Result[T any] struct {
	Rows     []T
	Total    int64
	Page     int
	LastPage int
}

func (s State) request() Request {
	req := Request{
		Page:     s.PageIndex + 1,
		PageSize: s.PageSize,
		Search:   s.Search,
		Sort:     append([]SortEntry(nil), s.Sort...),
	}
	for key, v := range s.Filters {
		if len(v.Values) == 0 {
			continue
		}
		req.Filters = append(req.Filters, Filter{Key: key, Values: append([]string(nil), v.Values...)})
	}
	// Map iteration order is random; keep the serialized request stable so
	// identical state yields an identical request.
	sort.Slice(req.Filters, func(i, j int) bool { return req.Filters[i].Key < req.Filters[j].Key })
	return req
}
