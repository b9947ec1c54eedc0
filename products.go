package malladmin

import (
	"context"
	"net/url"

	"github.com/sunxu/malladmin/cursor"
	"github.com/sunxu/malladmin/rest"
	"github.com/sunxu/malladmin/wire"
)

// ProductService manages the product catalog
type ProductService struct {
	rest *rest.Client
}

// Search fetches one page of products matching the query
func (s ProductService) Search(ctx context.Context, query *wire.ProductQuery) (wire.CursorPage[wire.ProductVO], error) {
	return rest.Post[wire.CursorPage[wire.ProductVO]](ctx, s.rest, "/product/searchByBidirectionalCursor", query)
}

// Pager returns a pager over products matching the query
func (s ProductService) Pager(query *wire.ProductQuery, pageSize int) *cursor.Pager[wire.ProductVO] {
	return cursor.NewPager[wire.ProductVO](query, pageSize, func(ctx context.Context) (wire.CursorPage[wire.ProductVO], error) {
		return s.Search(ctx, query)
	})
}

// FindByID fetches one product
func (s ProductService) FindByID(ctx context.Context, id wire.ID) (wire.ProductVO, error) {
	return rest.Get[wire.ProductVO](ctx, s.rest, "/product/findById", url.Values{"id": {id.String()}})
}

// Create adds a product
func (s ProductService) Create(ctx context.Context, product wire.ProductCreate) (wire.ProductVO, error) {
	return rest.Post[wire.ProductVO](ctx, s.rest, "/product", product)
}

// Update modifies a product under optimistic concurrency: product.Version
// must be the version of the ProductVO the edit was based on. A stale
// version fails with wire.ErrConflict; reload the product and retry with
// the fresh version.
func (s ProductService) Update(ctx context.Context, id wire.ID, product wire.ProductUpdate) (wire.ProductVO, error) {
	return rest.Put[wire.ProductVO](ctx, s.rest, "/product/"+id.String(), product)
}

// Delete removes a product (soft)
func (s ProductService) Delete(ctx context.Context, id wire.ID) (bool, error) {
	return rest.Del[bool](ctx, s.rest, "/product/"+id.String(), nil)
}

// Export starts a background Excel export of products matching the query.
// Completion arrives as an EXPORT_EXCEL notification on the push channel.
func (s ProductService) Export(ctx context.Context, query *wire.ProductQuery) error {
	_, err := rest.Post[struct{}](ctx, s.rest, "/product/export", query)
	return err
}

// CategoryTree fetches the product category tree for selection widgets
func (s ProductService) CategoryTree(ctx context.Context) ([]wire.CategoryTree, error) {
	return rest.Get[[]wire.CategoryTree](ctx, s.rest, "/category/tree", nil)
}

// Brands fetches all product brands
func (s ProductService) Brands(ctx context.Context) ([]wire.Brand, error) {
	return rest.Get[[]wire.Brand](ctx, s.rest, "/brand/all", nil)
}

// Units fetches all measurement units
func (s ProductService) Units(ctx context.Context) ([]wire.Unit, error) {
	return rest.Get[[]wire.Unit](ctx, s.rest, "/unit/all", nil)
}
