package service

import (
	"context"
	"errors"
	"testing"

	"stock_watch/internal/models"
	"stock_watch/internal/modules/symbol_store/service/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{ err error }

func (b brokenStore) List(context.Context) ([]models.TrackedSymbol, error) { return nil, b.err }
func (b brokenStore) Add(context.Context, string) error                    { return b.err }
func (b brokenStore) Remove(context.Context, string) error                 { return b.err }

func TestAdapterWrapsErrors(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("connection refused")
	a := NewAdapter(brokenStore{err: cause})

	_, err := a.ListSymbols(ctx)
	var pe *models.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "list", pe.Op)
	assert.ErrorIs(t, err, cause)

	err = a.AddSymbol(ctx, "AAA")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "add", pe.Op)
	assert.Equal(t, "AAA", pe.Code)

	err = a.RemoveSymbol(ctx, "AAA")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "remove", pe.Op)
}

func TestAdapterPassThrough(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(memory.NewSymbols("AAA"))

	require.NoError(t, a.AddSymbol(ctx, "BBB"))
	require.NoError(t, a.RemoveSymbol(ctx, "CCC"))

	got, err := a.ListSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.TrackedSymbol{{Code: "AAA"}, {Code: "BBB"}}, got)
}
