package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/store"
)

// classify converts a store error into a tagged error. Failures that are
// not a recognizable constraint are logged here and nowhere else.
func classify(op, entity string, err error) error {
	if err == nil {
		return nil
	}

	var fe *store.FilterError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(op, entity+" not found")
	case errors.As(err, &fe):
		return apperr.Validation(op, fe.Error(), map[string]string{fe.Field: "is not supported"})
	case store.IsUniqueViolation(err):
		col := store.ConstraintColumn(err)
		if col == "" {
			return apperr.Conflict(op, entity+" already exists", err)
		}
		e := apperr.Conflict(op, fmt.Sprintf("%s with this %s already exists", entity, col), err)
		e.Fields = map[string]string{col: "already exists"}
		return e
	case store.IsForeignKeyViolation(err):
		return apperr.Validation(op, "unknown category", map[string]string{"category_id": "unknown category"})
	case store.IsCheckViolation(err):
		return apperr.Validation(op, entity+" violates a storage constraint", nil)
	}

	slog.Error("storage failure", "op", op, "error", err)
	return apperr.Transient(op, err)
}
