package service

import (
	"context"
	"database/sql"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
)

// table binds the store functions of one entity.
type table[T any] struct {
	// entity is the human name used in messages, e.g. "phone number".
	entity string
	// prefix namespaces operation names, e.g. "phone_numbers".
	prefix string

	create     func(context.Context, *sql.DB, *T) (*T, error)
	get        func(context.Context, *sql.DB, int64) (*T, error)
	list       func(context.Context, *sql.DB) ([]T, error)
	listActive func(context.Context, *sql.DB, model.ListFilter) ([]T, error)
	update     func(context.Context, *sql.DB, *T) error
	delete     func(context.Context, *sql.DB, int64) error
}

// records implements the operations every entity service shares.
type records[T any] struct {
	db *sql.DB
	t  table[T]
}

func (r *records[T]) op(name string) string {
	return r.t.prefix + "." + name
}

// ListAll returns every record in default order.
func (r *records[T]) ListAll(ctx context.Context) ([]T, error) {
	op := r.op("list_all")
	rows, err := r.t.list(ctx, r.db)
	if err != nil {
		return nil, classify(op, r.t.entity, err)
	}
	return rows, nil
}

// ListActive returns the records visible to customers that match f.
func (r *records[T]) ListActive(ctx context.Context, f model.ListFilter) ([]T, error) {
	op := r.op("list_active")
	if f.Limit < 0 || f.Offset < 0 {
		return nil, apperr.Validation(op, "limit and offset must not be negative", nil)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, apperr.Validation(op, "min_price is greater than max_price",
			map[string]string{"min_price": "must not exceed max_price"})
	}
	rows, err := r.t.listActive(ctx, r.db, f)
	if err != nil {
		return nil, classify(op, r.t.entity, err)
	}
	return rows, nil
}

// Get returns one record or a NotFound error.
func (r *records[T]) Get(ctx context.Context, id int64) (*T, error) {
	return r.load(ctx, r.op("get"), id)
}

// Delete removes a record. Deleting a missing id is NotFound.
func (r *records[T]) Delete(ctx context.Context, id int64) error {
	op := r.op("delete")
	if id <= 0 {
		return apperr.NotFound(op, r.t.entity+" not found")
	}
	return classify(op, r.t.entity, r.t.delete(ctx, r.db, id))
}

func (r *records[T]) load(ctx context.Context, op string, id int64) (*T, error) {
	if id <= 0 {
		return nil, apperr.NotFound(op, r.t.entity+" not found")
	}
	v, err := r.t.get(ctx, r.db, id)
	if err != nil {
		return nil, classify(op, r.t.entity, err)
	}
	if v == nil {
		return nil, apperr.NotFound(op, r.t.entity+" not found")
	}
	return v, nil
}

// insert validates v and stores it.
func (r *records[T]) insert(ctx context.Context, v *T) (*T, error) {
	op := r.op("create")
	if err := check(op, v); err != nil {
		return nil, err
	}
	created, err := r.t.create(ctx, r.db, v)
	if err != nil {
		return nil, classify(op, r.t.entity, err)
	}
	return created, nil
}

// modify loads id, applies patch, validates and writes every field back.
// patch also recomputes derived fields.
func (r *records[T]) modify(ctx context.Context, id int64, patch func(*T)) (*T, error) {
	op := r.op("update")
	v, err := r.load(ctx, op, id)
	if err != nil {
		return nil, err
	}
	patch(v)
	if err := check(op, v); err != nil {
		return nil, err
	}
	if err := r.t.update(ctx, r.db, v); err != nil {
		return nil, classify(op, r.t.entity, err)
	}
	return r.load(ctx, op, id)
}
