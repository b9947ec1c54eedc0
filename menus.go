package malladmin

import (
	"context"

	"github.com/sunxu/malladmin/rest"
	"github.com/sunxu/malladmin/wire"
)

// MenuService exposes the navigation tree
type MenuService struct {
	rest *rest.Client
}

// Tree fetches the navigation menu tree of the logged-in user
func (s MenuService) Tree(ctx context.Context) ([]wire.MenuTree, error) {
	return rest.Get[[]wire.MenuTree](ctx, s.rest, "/menu/getMenuTree", nil)
}
