package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/db"
	"github.com/numera-market/numera/internal/model"
)

func ptr[T any](v T) *T { return &v }

func newServices(t *testing.T) *Services {
	t.Helper()
	return New(db.NewTestDB(t))
}

func seedCategory(t *testing.T, s *Services, name string) *model.Category {
	t.Helper()
	c, err := s.Categories.Create(context.Background(), model.CategoryInput{Name: ptr(name)})
	require.NoError(t, err)
	return c
}

func TestVIPPhoneNumberScenario(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	vip := seedCategory(t, s, "VIP")
	require.Equal(t, int64(1), vip.ID)

	p, err := s.PhoneNumbers.Create(ctx, model.PhoneNumberInput{
		Number: ptr("9999999999"),
		ListingInput: model.ListingInput{
			CategoryID: ptr(vip.ID),
			Price:      ptr(decimal.NewFromInt(50000)),
			IsPremium:  ptr(true),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, p.DigitSum)

	active, err := s.PhoneNumbers.ListActive(ctx, model.ListFilter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "9999999999", active[0].Number)

	sold, err := s.PhoneNumbers.SetSold(ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, sold.IsSold)
	assert.True(t, sold.IsPremium, "toggle must keep other fields")

	active, err = s.PhoneNumbers.ListActive(ctx, model.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := s.PhoneNumbers.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateThenGetFillsDefaults(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	c := seedCategory(t, s, "Fancy")

	created, err := s.PhoneNumbers.Create(ctx, model.PhoneNumberInput{
		Number:       ptr(" 98765 43210 "),
		ListingInput: model.ListingInput{CategoryID: ptr(c.ID), Price: ptr(decimal.RequireFromString("1999.99"))},
	})
	require.NoError(t, err)

	got, err := s.PhoneNumbers.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "98765 43210", got.Number)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("1999.99")))
	assert.True(t, got.IsActive)
	assert.False(t, got.IsSold)
	assert.False(t, got.IsPremium)
	assert.False(t, got.IsVIP)
	assert.False(t, got.IsTodaysOffer)
	assert.Equal(t, 9, got.DigitSum)
	assert.Equal(t, "Fancy", got.CategoryName)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestDeleteTwiceIsNotFound(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	c := seedCategory(t, s, "VIP")

	p, err := s.PhoneNumbers.Create(ctx, model.PhoneNumberInput{
		Number:       ptr("9000000000"),
		ListingInput: model.ListingInput{CategoryID: ptr(c.ID)},
	})
	require.NoError(t, err)

	require.NoError(t, s.PhoneNumbers.Delete(ctx, p.ID))

	_, err = s.PhoneNumbers.Get(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = s.PhoneNumbers.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.False(t, apperr.Retryable(err))
}

func TestDuplicateNumberIsConflict(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	c := seedCategory(t, s, "VIP")

	in := model.PhoneNumberInput{Number: ptr("9888888888"), ListingInput: model.ListingInput{CategoryID: ptr(c.ID)}}
	_, err := s.PhoneNumbers.Create(ctx, in)
	require.NoError(t, err)

	_, err = s.PhoneNumbers.Create(ctx, in)
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, apperr.Message(err), "number")
	assert.Equal(t, "already exists", apperr.FieldsOf(err)["number"])
}

func TestUnknownCategoryIsValidation(t *testing.T) {
	s := newServices(t)

	_, err := s.PhoneNumbers.Create(context.Background(), model.PhoneNumberInput{
		Number:       ptr("9777777777"),
		ListingInput: model.ListingInput{CategoryID: ptr(int64(404))},
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, apperr.FieldsOf(err), "category_id")
}

func TestValidationHappensBeforeStorage(t *testing.T) {
	s := newServices(t)

	_, err := s.PhoneNumbers.Create(context.Background(), model.PhoneNumberInput{
		ListingInput: model.ListingInput{Price: ptr(decimal.NewFromInt(-5))},
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	fields := apperr.FieldsOf(err)
	assert.Equal(t, "is required", fields["number"])
	assert.Equal(t, "is required", fields["category_id"])
	assert.Equal(t, "must be at least 0", fields["price"])
}

func TestListActiveIsSubsetOfListAll(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	vip := seedCategory(t, s, "VIP")
	mirror := seedCategory(t, s, "Mirror")

	inputs := []model.PhoneNumberInput{
		{Number: ptr("9000000001"), ListingInput: model.ListingInput{CategoryID: ptr(vip.ID), Price: ptr(decimal.NewFromInt(100))}},
		{Number: ptr("9000000002"), ListingInput: model.ListingInput{CategoryID: ptr(vip.ID), Price: ptr(decimal.NewFromInt(200)), IsSold: ptr(true)}},
		{Number: ptr("9000000003"), ListingInput: model.ListingInput{CategoryID: ptr(mirror.ID), Price: ptr(decimal.NewFromInt(300)), IsActive: ptr(false)}},
		{Number: ptr("9000000004"), ListingInput: model.ListingInput{CategoryID: ptr(mirror.ID), Price: ptr(decimal.NewFromInt(400))}, IsVIP: ptr(true)},
	}
	for _, in := range inputs {
		_, err := s.PhoneNumbers.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := s.PhoneNumbers.ListAll(ctx)
	require.NoError(t, err)
	ids := map[int64]bool{}
	for _, p := range all {
		ids[p.ID] = true
	}

	filters := []model.ListFilter{
		{},
		{CategoryID: mirror.ID},
		{MinPrice: ptr(decimal.NewFromInt(150))},
		{Flags: map[string]bool{"is_vip": true}},
		{Search: "0001"},
	}
	for _, f := range filters {
		active, err := s.PhoneNumbers.ListActive(ctx, f)
		require.NoError(t, err)
		for _, p := range active {
			assert.True(t, ids[p.ID])
			assert.True(t, p.Available())
			if f.CategoryID != 0 {
				assert.Equal(t, f.CategoryID, p.CategoryID)
			}
			if f.MinPrice != nil {
				assert.True(t, p.Price.GreaterThanOrEqual(*f.MinPrice))
			}
		}
	}

	vipOnly, err := s.PhoneNumbers.ListActive(ctx, model.ListFilter{Flags: map[string]bool{"is_vip": true}})
	require.NoError(t, err)
	require.Len(t, vipOnly, 1)
	assert.Equal(t, "9000000004", vipOnly[0].Number)
}

func TestListActiveRejectsUnknownFilter(t *testing.T) {
	s := newServices(t)

	_, err := s.PhoneNumbers.ListActive(context.Background(), model.ListFilter{Equals: map[string]string{"1=1; --": "x"}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.PhoneNumbers.ListActive(context.Background(), model.ListFilter{
		MinPrice: ptr(decimal.NewFromInt(10)),
		MaxPrice: ptr(decimal.NewFromInt(5)),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateMergesPartialInput(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	c := seedCategory(t, s, "VIP")

	p, err := s.PhoneNumbers.Create(ctx, model.PhoneNumberInput{
		Number:       ptr("9123456789"),
		ListingInput: model.ListingInput{CategoryID: ptr(c.ID), Description: ptr("ascending")},
		IsVIP:        ptr(true),
	})
	require.NoError(t, err)

	updated, err := s.PhoneNumbers.Update(ctx, p.ID, model.PhoneNumberInput{Number: ptr("9111111111")})
	require.NoError(t, err)
	assert.Equal(t, "9111111111", updated.Number)
	assert.Equal(t, "ascending", updated.Description)
	assert.True(t, updated.IsVIP)
	assert.Equal(t, numerologyOf("9111111111"), updated.DigitSum)

	_, err = s.PhoneNumbers.Update(ctx, 999, model.PhoneNumberInput{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func numerologyOf(s string) int {
	sum := 0
	for _, r := range s {
		sum += int(r - '0')
	}
	for sum > 9 {
		sum = sum/10 + sum%10
	}
	return sum
}
