package malladmin

import (
	"context"
	"net/url"

	"github.com/sunxu/malladmin/cursor"
	"github.com/sunxu/malladmin/rest"
	"github.com/sunxu/malladmin/wire"
)

// UserService manages back-office accounts
type UserService struct {
	rest *rest.Client
}

// Search fetches one page of accounts matching the query
func (s UserService) Search(ctx context.Context, query *wire.UserQuery) (wire.CursorPage[wire.UserVO], error) {
	return rest.Post[wire.CursorPage[wire.UserVO]](ctx, s.rest, "/user/searchByBidirectionalCursor", query)
}

// Pager returns a pager over accounts matching the query. The caller keeps
// ownership of the query's filter fields.
func (s UserService) Pager(query *wire.UserQuery, pageSize int) *cursor.Pager[wire.UserVO] {
	return cursor.NewPager[wire.UserVO](query, pageSize, func(ctx context.Context) (wire.CursorPage[wire.UserVO], error) {
		return s.Search(ctx, query)
	})
}

// FindByID fetches one account
func (s UserService) FindByID(ctx context.Context, id wire.ID) (wire.UserVO, error) {
	return rest.Get[wire.UserVO](ctx, s.rest, "/user/findById", url.Values{"id": {id.String()}})
}

// Create adds an account
func (s UserService) Create(ctx context.Context, user wire.UserCreate) error {
	_, err := rest.Post[struct{}](ctx, s.rest, "/user/insert", user)
	return err
}

// Update modifies an account and returns the number of affected rows
func (s UserService) Update(ctx context.Context, user wire.UserUpdate) (int, error) {
	return rest.Post[int](ctx, s.rest, "/user/update", user)
}

// Delete removes accounts (soft) and returns the number of affected rows
func (s UserService) Delete(ctx context.Context, ids ...wire.ID) (int, error) {
	return rest.Post[int](ctx, s.rest, "/user/deleteByIds", ids)
}

// ResetPassword resets account passwords to the default and returns the
// number of affected rows
func (s UserService) ResetPassword(ctx context.Context, ids ...wire.ID) (int, error) {
	return rest.Post[int](ctx, s.rest, "/user/resetPwd", ids)
}

// Export starts a background Excel export of accounts matching the query.
// Completion arrives as an EXPORT_EXCEL notification on the push channel.
func (s UserService) Export(ctx context.Context, query *wire.UserQuery) error {
	_, err := rest.Post[struct{}](ctx, s.rest, "/user/export", query)
	return err
}
