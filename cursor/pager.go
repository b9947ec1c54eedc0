package cursor

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ridge/must/v2"

	"github.com/sunxu/malladmin/wire"
)

// Pager drives pagination of one list screen: it owns the cursor fields of
// the query DTO and remembers the latest page to know which moves are legal.
//
// The filter fields of the DTO stay under the caller's control and may be
// changed at any time. A navigation call after a filter change never mixes
// the new filters with a stale cursor: it restarts from the first page
// instead.
//
// Navigation calls are serialized: a call started while another is in
// flight waits for it, so the page observed afterwards is always the result
// of the last call.
type Pager[T any] struct {
	query    Query
	pageSize int
	search   func(ctx context.Context) (wire.CursorPage[T], error)

	mu          sync.Mutex
	fingerprint string
	current     *wire.CursorPage[T]
}

// NewPager creates a Pager over the given query DTO. search sends the DTO
// to the collection's cursor search endpoint; it is invoked with the cursor
// fields already prepared.
func NewPager[T any](query Query, pageSize int, search func(ctx context.Context) (wire.CursorPage[T], error)) *Pager[T] {
	return &Pager[T]{
		query:    query,
		pageSize: pageSize,
		search:   search,
	}
}

// First fetches the first page, dropping any navigation state
func (p *Pager[T]) First(ctx context.Context) (wire.CursorPage[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.first(ctx)
}

func (p *Pager[T]) first(ctx context.Context) (wire.CursorPage[T], error) {
	First(p.query, p.pageSize)
	fingerprint := filterFingerprint(p.query)

	page, err := p.search(ctx)
	if err != nil {
		return wire.CursorPage[T]{}, err
	}
	p.fingerprint = fingerprint
	p.current = &page
	return page, nil
}

// Next fetches the page after the current one. Fails with ErrInvalidState
// when the latest response reported no next page. If the filters changed
// since the last fetch, restarts from the first page instead.
func (p *Pager[T]) Next(ctx context.Context) (wire.CursorPage[T], error) {
	return p.move(ctx, func(prev wire.CursorPage[T]) error {
		return Next(p.query, prev)
	})
}

// Prev fetches the page before the current one, symmetric to Next
func (p *Pager[T]) Prev(ctx context.Context) (wire.CursorPage[T], error) {
	return p.move(ctx, func(prev wire.CursorPage[T]) error {
		return Prev(p.query, prev)
	})
}

// Jump fetches the page with the given number, in either direction
func (p *Pager[T]) Jump(ctx context.Context, pageNum int) (wire.CursorPage[T], error) {
	return p.move(ctx, func(prev wire.CursorPage[T]) error {
		return Jump(p.query, prev, pageNum)
	})
}

func (p *Pager[T]) move(ctx context.Context, prepare func(prev wire.CursorPage[T]) error) (wire.CursorPage[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || p.fingerprint != filterFingerprint(p.query) {
		return p.first(ctx)
	}

	if err := prepare(*p.current); err != nil {
		return wire.CursorPage[T]{}, err
	}
	page, err := p.search(ctx)
	if err != nil {
		return wire.CursorPage[T]{}, err
	}
	p.current = &page
	return page, nil
}

// Current returns the latest fetched page, or false when nothing has been
// fetched yet
func (p *Pager[T]) Current() (wire.CursorPage[T], bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return wire.CursorPage[T]{}, false
	}
	return *p.current, true
}

// filterFingerprint captures the filter fields of the query, ignoring
// cursor state. Two equal fingerprints mean a cursor obtained under one
// query is valid under the other.
func filterFingerprint(q Query) string {
	c := q.Cursor()
	saved := *c
	c.ResetCursor()
	fingerprint := string(must.OK1(json.Marshal(q)))
	*c = saved
	return fingerprint
}
