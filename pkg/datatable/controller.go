package datatable

import (
	"context"
	"sync"
)

// Fetcher resolves one listing request. Implementations may block; the
// controller calls it from its own goroutine.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, req Request) (Result[T], error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc[T any] func(ctx context.Context, req Request) (Result[T], error)

func (f FetcherFunc[T]) Fetch(ctx context.Context, req Request) (Result[T], error) {
	return f(ctx, req)
}

// Snapshot is what a renderer reads: the last successful result plus the
// in-flight and error flags. A failed fetch keeps the previous rows.
type Snapshot[T any] struct {
	Rows     []T
	Total    int64
	Page     int
	LastPage int
	Loading  bool
	Err      error
	State    State
}

// Controller owns one table instance. Every state change that affects the
// result set issues exactly one request tagged with a monotonic sequence
// number; a response whose tag is no longer the newest is discarded on
// arrival, so the last issued request always wins. Reordering and pinning
// columns never refetch.
type Controller[T any] struct {
	mu      sync.Mutex
	cols    map[string]Column
	state   State
	fetcher Fetcher[T]
	ctx     context.Context

	seq     uint64
	loading bool
	last    Result[T]
	err     error

	// onUpdate fires after every snapshot change, outside the lock.
	onUpdate func(Snapshot[T])
	wg       sync.WaitGroup
}

type Config[T any] struct {
	Columns  []Column
	Fetcher  Fetcher[T]
	PageSize int
	OnUpdate func(Snapshot[T])
}

func New[T any](cfg Config[T]) *Controller[T] {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	cols := make(map[string]Column, len(cfg.Columns))
	order := make([]string, 0, len(cfg.Columns))
	for _, col := range cfg.Columns {
		cols[col.Key] = col
		order = append(order, col.Key)
	}
	return &Controller[T]{
		cols:    cols,
		fetcher: cfg.Fetcher,
		ctx:     context.Background(),
		state: State{
			PageSize: pageSize,
			Filters:  map[string]FilterValue{},
			Order:    order,
			Pins:     map[string]PinSide{},
		},
		onUpdate: cfg.OnUpdate,
	}
}

// Start issues the mount-time fetch. ctx bounds all requests the
// controller makes from now on.
func (c *Controller[T]) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()
	c.apply(true, func(*State) {})
}

// Snapshot returns the current render state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Rows:     c.last.Rows,
		Total:    c.last.Total,
		Page:     c.last.Page,
		LastPage: c.last.LastPage,
		Loading:  c.loading,
		Err:      c.err,
		State:    c.state.clone(),
	}
}

// apply is the single reducer: it mutates state under the lock and, when
// the change affects the result set, launches the superseding fetch.
func (c *Controller[T]) apply(refetch bool, mutate func(*State)) {
	c.mu.Lock()
	mutate(&c.state)
	if !refetch {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return
	}
	c.seq++
	mySeq := c.seq
	req := c.state.request()
	c.loading = true
	ctx := c.ctx
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		res, err := c.fetcher.Fetch(ctx, req)

		c.mu.Lock()
		if mySeq != c.seq {
			// A newer request superseded this one; drop the response.
			c.mu.Unlock()
			return
		}
		c.loading = false
		if err != nil {
			c.err = err
		} else {
			c.err = nil
			c.last = res
		}
		done := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(done)
	}()
}

func (c *Controller[T]) notify(s Snapshot[T]) {
	if c.onUpdate != nil {
		c.onUpdate(s)
	}
}

// Wait blocks until no fetch is in flight. Intended for tests and for
// draining on shutdown.
func (c *Controller[T]) Wait() { c.wg.Wait() }

func (c *Controller[T]) SetPage(index int) {
	if index < 0 {
		index = 0
	}
	c.apply(true, func(s *State) { s.PageIndex = index })
}

func (c *Controller[T]) SetPageSize(size int) {
	if size < 1 {
		return
	}
	c.apply(true, func(s *State) {
		s.PageSize = size
		s.PageIndex = 0
	})
}

func (c *Controller[T]) SetSearch(text string) {
	c.apply(true, func(s *State) {
		s.Search = text
		s.PageIndex = 0
	})
}

// SetFilter replaces the filter value(s) of one column. Unknown or
// non-filterable columns are ignored.
func (c *Controller[T]) SetFilter(key string, values ...string) {
	col, ok := c.cols[key]
	if !ok || !col.Filterable {
		return
	}
	c.apply(true, func(s *State) {
		if len(values) == 0 {
			delete(s.Filters, key)
		} else {
			s.Filters[key] = FilterValue{Values: append([]string(nil), values...)}
		}
		s.PageIndex = 0
	})
}

func (c *Controller[T]) ClearFilter(key string) {
	c.apply(true, func(s *State) {
		delete(s.Filters, key)
		s.PageIndex = 0
	})
}

// ToggleSort cycles one column unsorted → asc → desc → unsorted. In
// single-column mode the new directive replaces the rest; with multi set,
// it appends or updates in place so earlier directives keep breaking ties.
func (c *Controller[T]) ToggleSort(key string, multi bool) {
	col, ok := c.cols[key]
	if !ok || !col.Sortable {
		return
	}
	c.apply(true, func(s *State) {
		idx := -1
		for i, e := range s.Sort {
			if e.Key == key {
				idx = i
				break
			}
		}
		if !multi {
			switch {
			case idx == -1 || len(s.Sort) > 1:
				s.Sort = []SortEntry{{Key: key}}
			case !s.Sort[idx].Desc:
				s.Sort = []SortEntry{{Key: key, Desc: true}}
			default:
				s.Sort = nil
			}
			return
		}
		switch {
		case idx == -1:
			s.Sort = append(s.Sort, SortEntry{Key: key})
		case !s.Sort[idx].Desc:
			s.Sort[idx].Desc = true
		default:
			s.Sort = append(s.Sort[:idx], s.Sort[idx+1:]...)
		}
	})
}

// MoveColumn changes display order only; no request is issued.
func (c *Controller[T]) MoveColumn(key string, to int) {
	c.apply(false, func(s *State) {
		from := -1
		for i, k := range s.Order {
			if k == key {
				from = i
				break
			}
		}
		if from == -1 || to < 0 || to >= len(s.Order) || from == to {
			return
		}
		k := s.Order[from]
		s.Order = append(s.Order[:from], s.Order[from+1:]...)
		s.Order = append(s.Order[:to], append([]string{k}, s.Order[to:]...)...)
	})
}

// CyclePin advances the pin side of one column; presentation only.
func (c *Controller[T]) CyclePin(key string) {
	if _, ok := c.cols[key]; !ok {
		return
	}
	c.apply(false, func(s *State) {
		s.Pins[key] = cyclePin(s.Pins[key])
	})
}

// Refresh re-issues the current request, e.g. after a mutation elsewhere.
func (c *Controller[T]) Refresh() {
	c.apply(true, func(*State) {})
}
