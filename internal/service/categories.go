package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
	"github.com/numera-market/numera/internal/store"
)

// Categories manages listing categories.
type Categories struct {
	records[model.Category]
}

// NewCategories returns a category service backed by db.
func NewCategories(db *sql.DB) *Categories {
	return &Categories{records[model.Category]{db: db, t: table[model.Category]{
		entity:     "category",
		prefix:     "categories",
		create:     store.CreateCategory,
		get:        store.GetCategory,
		list:       store.ListCategories,
		listActive: store.ListActiveCategories,
		update:     store.UpdateCategory,
		delete:     store.DeleteCategory,
	}}}
}

// Create stores a new category. The slug is derived from the name when
// omitted.
func (s *Categories) Create(ctx context.Context, in model.CategoryInput) (*model.Category, error) {
	c := model.NewCategory()
	in.Apply(&c)
	normalizeCategory(&c)
	return s.insert(ctx, &c)
}

// Update merges in over the stored category.
func (s *Categories) Update(ctx context.Context, id int64, in model.CategoryInput) (*model.Category, error) {
	return s.modify(ctx, id, func(c *model.Category) {
		in.Apply(c)
		normalizeCategory(c)
	})
}

// Delete removes a category that no listing references.
func (s *Categories) Delete(ctx context.Context, id int64) error {
	err := s.records.Delete(ctx, id)
	if apperr.KindOf(err) != apperr.KindValidation {
		return err
	}
	n, cerr := store.CountCategoryListings(ctx, s.db, id)
	if cerr != nil {
		return err
	}
	return apperr.Validation("categories.delete",
		fmt.Sprintf("category is still referenced by %d listing(s)", n),
		map[string]string{"id": "still referenced"})
}

func normalizeCategory(c *model.Category) {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	c.Slug = Slugify(c.Slug)
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
}

// Slugify lower-cases s and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if r < 0x80 && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
