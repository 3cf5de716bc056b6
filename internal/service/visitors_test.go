package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numera-market/numera/internal/apperr"
)

func TestVisitorCounters(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.Visitors.Get(ctx, "home")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	for range 3 {
		_, err := s.Visitors.Increment(ctx, "home")
		require.NoError(t, err)
	}
	v, err := s.Visitors.Increment(ctx, " vip ")
	require.NoError(t, err)
	assert.Equal(t, "vip", v.Page)
	assert.Equal(t, int64(1), v.Count)

	list, err := s.Visitors.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "home", list[0].Page)
	assert.Equal(t, int64(3), list[0].Count)

	require.NoError(t, s.Visitors.Reset(ctx, "home"))
	home, err := s.Visitors.Get(ctx, "home")
	require.NoError(t, err)
	assert.Zero(t, home.Count)

	require.NoError(t, s.Visitors.Delete(ctx, "home"))
	assert.ErrorIs(t, s.Visitors.Delete(ctx, "home"), apperr.ErrNotFound)
	assert.ErrorIs(t, s.Visitors.Reset(ctx, "home"), apperr.ErrNotFound)
}

func TestVisitorPageValidation(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.Visitors.Increment(ctx, "   ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.Visitors.Increment(ctx, strings.Repeat("p", maxPageName+1))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
