package cursor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunxu/malladmin/test"
	"github.com/sunxu/malladmin/wire"
)

func intp(v int) *int {
	return &v
}

func idp(v wire.ID) *wire.ID {
	return &v
}

// fakeSearch records every query sent and replays canned pages
type fakeSearch struct {
	requests []wire.CursorQuery
	pages    []wire.CursorPage[wire.ProductVO]
}

func (f *fakeSearch) search(query *wire.ProductQuery) func(ctx context.Context) (wire.CursorPage[wire.ProductVO], error) {
	return func(ctx context.Context) (wire.CursorPage[wire.ProductVO], error) {
		f.requests = append(f.requests, query.CursorQuery)
		page := f.pages[0]
		if len(f.pages) > 1 {
			f.pages = f.pages[1:]
		}
		return page, nil
	}
}

func page(num int, prevID, nextID *wire.ID, token string) wire.CursorPage[wire.ProductVO] {
	return wire.CursorPage[wire.ProductVO]{
		PageSize:       20,
		NextCursorID:   nextID,
		HasNext:        nextID != nil,
		List:           []wire.ProductVO{{ID: 1, Name: "chair"}},
		CursorToken:    token,
		CurrentPageNum: intp(num),
		PrevCursorID:   prevID,
		HasPrev:        prevID != nil,
	}
}

func TestTokenPassThrough(t *testing.T) {
	ctx := test.Context(t)

	fake := &fakeSearch{pages: []wire.CursorPage[wire.ProductVO]{
		page(1, nil, idp(42), "abc"),
		page(2, idp(21), idp(84), "def"),
		page(3, idp(42), idp(126), "ghi"),
	}}
	query := &wire.ProductQuery{Name: "chair"}
	pager := NewPager(query, 20, fake.search(query))

	_, err := pager.First(ctx)
	require.NoError(t, err)
	_, err = pager.Next(ctx)
	require.NoError(t, err)
	_, err = pager.Next(ctx)
	require.NoError(t, err)

	require.Len(t, fake.requests, 3)

	first := fake.requests[0]
	require.Empty(t, first.CursorToken)
	require.Zero(t, first.CursorID)
	require.Empty(t, first.CursorDirection)
	require.Equal(t, 1, first.PageNum)
	require.Equal(t, 20, first.PageSize)

	second := fake.requests[1]
	require.Equal(t, "abc", second.CursorToken)
	require.Equal(t, wire.ID(42), second.CursorID)
	require.Equal(t, wire.Next, second.CursorDirection)
	require.Equal(t, 2, second.PageNum)

	third := fake.requests[2]
	require.Equal(t, "def", third.CursorToken)
	require.Equal(t, wire.ID(84), third.CursorID)
	require.Equal(t, wire.Next, third.CursorDirection)
	require.Equal(t, 3, third.PageNum)
}

func TestNextOnLastPage(t *testing.T) {
	ctx := test.Context(t)

	fake := &fakeSearch{pages: []wire.CursorPage[wire.ProductVO]{
		page(1, nil, nil, "abc"),
	}}
	query := &wire.ProductQuery{}
	pager := NewPager(query, 20, fake.search(query))

	_, err := pager.First(ctx)
	require.NoError(t, err)
	_, err = pager.Next(ctx)
	require.ErrorIs(t, err, ErrInvalidState)
	require.Len(t, fake.requests, 1)
}

func TestPrev(t *testing.T) {
	ctx := test.Context(t)

	fake := &fakeSearch{pages: []wire.CursorPage[wire.ProductVO]{
		page(2, idp(21), idp(84), "def"),
		page(1, nil, idp(42), "abc"),
	}}
	query := &wire.ProductQuery{}
	pager := NewPager(query, 20, fake.search(query))

	_, err := pager.First(ctx)
	require.NoError(t, err)
	_, err = pager.Prev(ctx)
	require.NoError(t, err)

	back := fake.requests[1]
	require.Equal(t, wire.Prev, back.CursorDirection)
	require.Equal(t, wire.ID(21), back.CursorID)
	require.Equal(t, "def", back.CursorToken)
	require.Equal(t, 1, back.PageNum)

	// page one has nothing before it
	_, err = pager.Prev(ctx)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestJump(t *testing.T) {
	ctx := test.Context(t)

	fake := &fakeSearch{pages: []wire.CursorPage[wire.ProductVO]{
		page(1, nil, idp(42), "abc"),
		page(4, idp(63), idp(168), "jkl"),
		page(2, idp(21), idp(84), "def"),
	}}
	query := &wire.ProductQuery{}
	pager := NewPager(query, 20, fake.search(query))

	_, err := pager.First(ctx)
	require.NoError(t, err)

	_, err = pager.Jump(ctx, 4)
	require.NoError(t, err)
	forward := fake.requests[1]
	require.Equal(t, 4, forward.PageNum)
	require.Equal(t, wire.Next, forward.CursorDirection)
	require.Equal(t, wire.ID(42), forward.CursorID)
	require.Equal(t, "abc", forward.CursorToken)

	_, err = pager.Jump(ctx, 2)
	require.NoError(t, err)
	backward := fake.requests[2]
	require.Equal(t, 2, backward.PageNum)
	require.Equal(t, wire.Prev, backward.CursorDirection)
	require.Equal(t, wire.ID(63), backward.CursorID)
	require.Equal(t, "jkl", backward.CursorToken)

	_, err = pager.Jump(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestFilterChangeRestartsPagination(t *testing.T) {
	ctx := test.Context(t)

	fake := &fakeSearch{pages: []wire.CursorPage[wire.ProductVO]{
		page(1, nil, idp(42), "abc"),
		page(1, nil, idp(17), "zzz"),
	}}
	query := &wire.ProductQuery{Name: "chair"}
	pager := NewPager(query, 20, fake.search(query))

	_, err := pager.First(ctx)
	require.NoError(t, err)

	// the filter changes under the pager; the stale cursor must not leak
	// into the next request
	query.Name = "table"
	_, err = pager.Next(ctx)
	require.NoError(t, err)

	restarted := fake.requests[1]
	require.Empty(t, restarted.CursorToken)
	require.Zero(t, restarted.CursorID)
	require.Empty(t, restarted.CursorDirection)
	require.Equal(t, 1, restarted.PageNum)
}

func TestNextBeforeFirstFetchesFirstPage(t *testing.T) {
	ctx := test.Context(t)

	fake := &fakeSearch{pages: []wire.CursorPage[wire.ProductVO]{
		page(1, nil, idp(42), "abc"),
	}}
	query := &wire.ProductQuery{}
	pager := NewPager(query, 20, fake.search(query))

	_, err := pager.Next(ctx)
	require.NoError(t, err)
	require.Empty(t, fake.requests[0].CursorToken)
	require.Equal(t, 1, fake.requests[0].PageNum)
}

func TestConcurrentNextSerializes(t *testing.T) {
	ctx := test.Context(t)

	fake := &fakeSearch{pages: []wire.CursorPage[wire.ProductVO]{
		page(1, nil, idp(42), "abc"),
		page(2, idp(21), idp(84), "def"),
		page(3, idp(42), idp(126), "ghi"),
	}}
	query := &wire.ProductQuery{}
	search := fake.search(query)
	pager := NewPager(query, 20, func(ctx context.Context) (wire.CursorPage[wire.ProductVO], error) {
		time.Sleep(20 * time.Millisecond) // keep the second call waiting on the pager
		return search(ctx)
	})

	_, err := pager.First(ctx)
	require.NoError(t, err)

	// two navigations race; each request must carry the token of the
	// response that completed just before it, never a stale one
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pager.Next(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, fake.requests, 3)
	require.Equal(t, "abc", fake.requests[1].CursorToken)
	require.Equal(t, wire.ID(42), fake.requests[1].CursorID)
	require.Equal(t, "def", fake.requests[2].CursorToken)
	require.Equal(t, wire.ID(84), fake.requests[2].CursorID)

	// the page observed after both calls is the last completed one
	current, ok := pager.Current()
	require.True(t, ok)
	require.Equal(t, 3, *current.CurrentPageNum)
}

func TestSearchFailureKeepsState(t *testing.T) {
	ctx := test.Context(t)

	calls := 0
	query := &wire.ProductQuery{}
	pager := NewPager(query, 20, func(context.Context) (wire.CursorPage[wire.ProductVO], error) {
		calls++
		if calls == 2 {
			return wire.CursorPage[wire.ProductVO]{}, context.DeadlineExceeded
		}
		return page(calls, nil, idp(wire.ID(calls*10)), "tok"), nil
	})

	_, err := pager.First(ctx)
	require.NoError(t, err)
	_, err = pager.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// the failed move did not advance the pager
	current, ok := pager.Current()
	require.True(t, ok)
	require.Equal(t, 1, *current.CurrentPageNum)
}
