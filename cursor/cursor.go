// Package cursor drives bidirectional cursor pagination against the
// collection search endpoints.
//
// The backend hands out an opaque cursorToken with every page. Moving to an
// adjacent page means echoing that token back together with the row boundary
// (cursorId) and a direction; the token is never inspected or modified on
// this side. The functions in this package prepare a query DTO for the next
// navigation step and guard against illegal moves; Pager adds the
// bookkeeping for the common drive-a-list-screen case.
package cursor

import (
	"errors"

	"github.com/sunxu/malladmin/wire"
)

// ErrInvalidState means there is no page in the requested direction: the
// latest response reported no next (or previous) page, or no page has been
// fetched yet.
var ErrInvalidState = errors.New("no page in the requested direction")

// Query is a collection filter DTO embedding wire.CursorQuery
type Query interface {
	Cursor() *wire.CursorQuery
}

// First prepares q to fetch the first page. Any cursor state left in q from
// earlier navigation is discarded; filter fields are untouched.
func First(q Query, pageSize int) {
	c := q.Cursor()
	c.ResetCursor()
	c.PageNum = 1
	if pageSize > 0 {
		c.PageSize = pageSize
	}
}

// Next prepares q to fetch the page after prev.
//
// prev.HasNext is the only authority on whether a next page exists. The
// cursor token of prev is passed through verbatim.
func Next[T any](q Query, prev wire.CursorPage[T]) error {
	if !prev.HasNext || prev.NextCursorID == nil {
		return ErrInvalidState
	}
	c := q.Cursor()
	c.CursorID = *prev.NextCursorID
	c.CursorDirection = wire.Next
	c.CursorToken = prev.CursorToken
	c.PageNum = 0
	if prev.CurrentPageNum != nil {
		c.PageNum = *prev.CurrentPageNum + 1
	}
	return nil
}

// Prev prepares q to fetch the page before prev
func Prev[T any](q Query, prev wire.CursorPage[T]) error {
	if !prev.HasPrev || prev.PrevCursorID == nil {
		return ErrInvalidState
	}
	c := q.Cursor()
	c.CursorID = *prev.PrevCursorID
	c.CursorDirection = wire.Prev
	c.CursorToken = prev.CursorToken
	c.PageNum = 0
	if prev.CurrentPageNum != nil && *prev.CurrentPageNum > 1 {
		c.PageNum = *prev.CurrentPageNum - 1
	}
	return nil
}

// Jump prepares q to fetch an arbitrary page by number. Only possible when
// the backend reports absolute page numbers: the cursor token carries the
// boundaries of the pages visited so far and the backend walks from the
// nearest one.
func Jump[T any](q Query, prev wire.CursorPage[T], pageNum int) error {
	if pageNum < 1 || prev.CurrentPageNum == nil || prev.CursorToken == "" {
		return ErrInvalidState
	}

	c := q.Cursor()
	switch current := *prev.CurrentPageNum; {
	case pageNum > current:
		if !prev.HasNext || prev.NextCursorID == nil {
			return ErrInvalidState
		}
		c.CursorDirection = wire.Next
		c.CursorID = *prev.NextCursorID
	case pageNum < current:
		if !prev.HasPrev || prev.PrevCursorID == nil {
			return ErrInvalidState
		}
		c.CursorDirection = wire.Prev
		c.CursorID = *prev.PrevCursorID
	default:
		c.CursorDirection = ""
		c.CursorID = 0
	}
	c.PageNum = pageNum
	c.CursorToken = prev.CursorToken
	return nil
}
