package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
)

func TestVehicleNumberDefaults(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	c := seedCategory(t, s, "Fancy")

	v, err := s.VehicleNumbers.Create(ctx, model.VehicleNumberInput{
		PlateNumber:  ptr("mh 12 ab 1234"),
		ListingInput: model.ListingInput{CategoryID: ptr(c.ID), Price: ptr(decimal.NewFromInt(25000))},
	})
	require.NoError(t, err)
	assert.Equal(t, "MH 12 AB 1234", v.PlateNumber)
	assert.Equal(t, "MH", v.StateCode)
	assert.Equal(t, 4, v.DigitSum)
	assert.True(t, v.IsActive)

	byState, err := s.VehicleNumbers.ListActive(ctx, model.ListFilter{Equals: map[string]string{"state_code": "MH"}})
	require.NoError(t, err)
	assert.Len(t, byState, 1)

	hidden, err := s.VehicleNumbers.SetActive(ctx, v.ID, false)
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)

	byState, err = s.VehicleNumbers.ListActive(ctx, model.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, byState)
}

func TestVehicleDuplicatePlateIgnoresInputCase(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	c := seedCategory(t, s, "Fancy")

	in := model.VehicleNumberInput{PlateNumber: ptr("DL 01 C 0001"), ListingInput: model.ListingInput{CategoryID: ptr(c.ID)}}
	_, err := s.VehicleNumbers.Create(ctx, in)
	require.NoError(t, err)

	in.PlateNumber = ptr("dl 01 c 0001")
	_, err = s.VehicleNumbers.Create(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCurrencyNumberDefaults(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	c := seedCategory(t, s, "Holy")

	n, err := s.CurrencyNumbers.Create(ctx, model.CurrencyNumberInput{
		SerialNumber: ptr("7aa 786786"),
		Denomination: ptr(500),
		ListingInput: model.ListingInput{CategoryID: ptr(c.ID), Price: ptr(decimal.NewFromInt(7860))},
	})
	require.NoError(t, err)
	assert.Equal(t, "7AA 786786", n.SerialNumber)
	assert.Equal(t, model.DefaultCurrencyCode, n.CurrencyCode)
	assert.Equal(t, 4, n.DigitSum)

	sold, err := s.CurrencyNumbers.SetSold(ctx, n.ID, true)
	require.NoError(t, err)
	assert.True(t, sold.IsSold)

	_, err = s.CurrencyNumbers.Update(ctx, n.ID, model.CurrencyNumberInput{CurrencyCode: ptr("RUPEE")})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, apperr.FieldsOf(err), "currency_code")
}
