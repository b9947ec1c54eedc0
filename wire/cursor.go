package wire

// Direction tells the backend which way to move the cursor relative to the
// row boundary identified by CursorID.
type Direction string

// Direction values
const (
	Next Direction = "NEXT"
	Prev Direction = "PREV"
)

// CursorQuery is the pagination part of every cursor search request. Resource
// query DTOs embed it next to their filter fields.
//
// A fresh query carries neither CursorID nor CursorToken. On subsequent
// pages both are copied from the previous response: the token is an opaque
// server-issued blob (base64 of the server's internal cursor state) and must
// be echoed back verbatim, never inspected or modified.
type CursorQuery struct {
	PageNum         int       `json:"pageNum,omitempty"`
	PageSize        int       `json:"pageSize,omitempty"`
	NeedTotal       bool      `json:"needTotal,omitempty"`
	CursorID        ID        `json:"cursorId,omitempty"`
	CursorDirection Direction `json:"cursorDirection,omitempty"`
	CursorToken     string    `json:"cursorToken,omitempty"`
}

// Cursor makes any embedding query DTO usable by the cursor package.
func (q *CursorQuery) Cursor() *CursorQuery {
	return q
}

// ResetCursor clears navigation state, turning the query into a first-page
// one. Filter fields of the embedding DTO are untouched.
func (q *CursorQuery) ResetCursor() {
	q.PageNum = 0
	q.CursorID = 0
	q.CursorDirection = ""
	q.CursorToken = ""
}

// CursorPage is one page of a cursor search response.
//
// HasNext from the latest response is the only authority on whether another
// page exists; the client never counts rows. hasNext=false implies
// NextCursorID is null.
type CursorPage[T any] struct {
	PageSize       int64  `json:"pageSize"`
	NextCursorID   *ID    `json:"nextCursorId"`
	HasNext        bool   `json:"hasNext"`
	List           []T    `json:"list"`
	CursorToken    string `json:"cursorToken"`
	CurrentPageNum *int   `json:"currentPageNum,omitempty"`
	PrevCursorID   *ID    `json:"prevCursorId,omitempty"`
	HasPrev        bool   `json:"hasPrev,omitempty"`
}
