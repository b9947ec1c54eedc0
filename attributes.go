package malladmin

import (
	"context"

	"github.com/sunxu/malladmin/cursor"
	"github.com/sunxu/malladmin/rest"
	"github.com/sunxu/malladmin/wire"
)

// AttributeService manages product attributes
type AttributeService struct {
	rest *rest.Client
}

// All fetches all attributes
func (s AttributeService) All(ctx context.Context) ([]wire.AttributeVO, error) {
	return rest.Get[[]wire.AttributeVO](ctx, s.rest, "/attribute/all", nil)
}

// AllWithValues fetches all attributes together with their values, for
// building selection widgets
func (s AttributeService) AllWithValues(ctx context.Context) ([]wire.AttributeWithValues, error) {
	return rest.Get[[]wire.AttributeWithValues](ctx, s.rest, "/attribute/allWithValues", nil)
}

// Create adds an attribute
func (s AttributeService) Create(ctx context.Context, attribute wire.AttributeCreate) (wire.AttributeVO, error) {
	return rest.Post[wire.AttributeVO](ctx, s.rest, "/attribute/insert", attribute)
}

// Update renames an attribute
func (s AttributeService) Update(ctx context.Context, attribute wire.AttributeUpdate) (wire.AttributeVO, error) {
	return rest.Post[wire.AttributeVO](ctx, s.rest, "/attribute/update", attribute)
}

// Delete removes attributes (soft)
func (s AttributeService) Delete(ctx context.Context, ids ...wire.ID) (bool, error) {
	return rest.Post[bool](ctx, s.rest, "/attribute/deleteByIds", ids)
}

// AttributeValueService manages the values of product attributes
type AttributeValueService struct {
	rest *rest.Client
}

// Search fetches one page of attribute values matching the query
func (s AttributeValueService) Search(ctx context.Context, query *wire.AttributeValueQuery) (wire.CursorPage[wire.AttributeValueVO], error) {
	return rest.Post[wire.CursorPage[wire.AttributeValueVO]](ctx, s.rest, "/attributeValue/searchByBidirectionalCursor", query)
}

// Pager returns a pager over attribute values matching the query
func (s AttributeValueService) Pager(query *wire.AttributeValueQuery, pageSize int) *cursor.Pager[wire.AttributeValueVO] {
	return cursor.NewPager[wire.AttributeValueVO](query, pageSize, func(ctx context.Context) (wire.CursorPage[wire.AttributeValueVO], error) {
		return s.Search(ctx, query)
	})
}

// Create adds a value to an attribute
func (s AttributeValueService) Create(ctx context.Context, value wire.AttributeValueCreate) error {
	_, err := rest.Post[struct{}](ctx, s.rest, "/attributeValue/insert", value)
	return err
}

// Update modifies an attribute value
func (s AttributeValueService) Update(ctx context.Context, value wire.AttributeValueUpdate) error {
	_, err := rest.Post[struct{}](ctx, s.rest, "/attributeValue/update", value)
	return err
}

// Delete removes attribute values (soft)
func (s AttributeValueService) Delete(ctx context.Context, ids ...wire.ID) error {
	_, err := rest.Post[struct{}](ctx, s.rest, "/attributeValue/deleteByIds", ids)
	return err
}
