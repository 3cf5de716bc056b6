package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"VIP":               "vip",
		"  Fancy Numbers ":  "fancy-numbers",
		"786 & Lucky!!":     "786-lucky",
		"Ünïcode Category":  "n-code-category",
		"---":               "",
		"Mirror/Palindrome": "mirror-palindrome",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestCategoryDefaults(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	c, err := s.Categories.Create(ctx, model.CategoryInput{Name: ptr("Lucky Sevens")})
	require.NoError(t, err)
	assert.Equal(t, "lucky-sevens", c.Slug)
	assert.True(t, c.IsActive)

	_, err = s.Categories.Create(ctx, model.CategoryInput{Name: ptr("lucky sevens")})
	require.ErrorIs(t, err, apperr.ErrConflict)

	_, err = s.Categories.Create(ctx, model.CategoryInput{})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "is required", apperr.FieldsOf(err)["name"])
}

func TestCategoryListActiveExcludesInactive(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	seedCategory(t, s, "VIP")
	hidden := seedCategory(t, s, "Archive")
	_, err := s.Categories.Update(ctx, hidden.ID, model.CategoryInput{IsActive: ptr(false)})
	require.NoError(t, err)

	active, err := s.Categories.ListActive(ctx, model.ListFilter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "VIP", active[0].Name)
}

func TestDeleteReferencedCategory(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	c := seedCategory(t, s, "VIP")

	_, err := s.PhoneNumbers.Create(ctx, model.PhoneNumberInput{
		Number:       ptr("9000000009"),
		ListingInput: model.ListingInput{CategoryID: ptr(c.ID)},
	})
	require.NoError(t, err)

	err = s.Categories.Delete(ctx, c.ID)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, apperr.Message(err), "1 listing")

	assert.ErrorIs(t, s.Categories.Delete(ctx, 12345), apperr.ErrNotFound)
}
