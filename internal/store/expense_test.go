package store

import (
	"context"
	"testing"

	"moneybook/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenses_CreateAndTotal(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	s := NewExpenses(db)
	ctx := context.Background()

	cat, err := s.Create(ctx, u.ID, "Food", []ItemInput{{Title: "bread", Amount: 2.5}, {Title: "milk", Amount: 1.2}})
	require.NoError(t, err)
	require.Len(t, cat.Items, 2)

	got, total, err := s.Get(ctx, u.ID, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, 3.7, total)
	assert.Equal(t, "bread", got.Items[0].Title)
}

func TestExpenses_CreateValidation(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	s := NewExpenses(db)
	ctx := context.Background()

	_, err := s.Create(ctx, u.ID, "", []ItemInput{{Title: "a", Amount: 1}})
	assert.ErrorIs(t, err, util.ErrValidation)
	_, err = s.Create(ctx, u.ID, "Food", nil)
	assert.ErrorIs(t, err, util.ErrValidation)
	_, err = s.Create(ctx, u.ID, "Food", []ItemInput{{Title: "a", Amount: 1}, {Title: "", Amount: 1}})
	assert.ErrorIs(t, err, util.ErrValidation)

	list, err := s.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExpenses_Items(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	v := newUser(t, db, "v@example.com")
	s := NewExpenses(db)
	ctx := context.Background()

	cat, err := s.Create(ctx, u.ID, "Travel", []ItemInput{{Title: "bus", Amount: 3}})
	require.NoError(t, err)

	cat, err = s.AddItem(ctx, u.ID, cat.ID, ItemInput{Title: "taxi", Amount: 12})
	require.NoError(t, err)
	require.Len(t, cat.Items, 2)
	taxi := cat.Items[1]

	item, err := s.GetItem(ctx, u.ID, taxi.ID)
	require.NoError(t, err)
	assert.Equal(t, "taxi", item.Title)

	_, err = s.GetItem(ctx, v.ID, taxi.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	item, err = s.UpdateItem(ctx, u.ID, taxi.ID, ItemInput{Title: "cab", Amount: 15})
	require.NoError(t, err)
	assert.Equal(t, "cab", item.Title)
	assert.Equal(t, 15.0, item.Amount)

	_, err = s.UpdateItem(ctx, v.ID, taxi.ID, ItemInput{Title: "x", Amount: 1})
	assert.ErrorIs(t, err, util.ErrForbidden)
	assert.ErrorIs(t, s.DeleteItem(ctx, v.ID, taxi.ID), util.ErrForbidden)
	_, err = s.AddItem(ctx, v.ID, cat.ID, ItemInput{Title: "x", Amount: 1})
	assert.ErrorIs(t, err, util.ErrForbidden)

	require.NoError(t, s.DeleteItem(ctx, u.ID, taxi.ID))
	_, total, err := s.Get(ctx, u.ID, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, total)

	assert.ErrorIs(t, s.DeleteItem(ctx, u.ID, taxi.ID), util.ErrNotFound)
}

func TestExpenses_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	v := newUser(t, db, "v@example.com")
	s := NewExpenses(db)
	ctx := context.Background()

	cat, err := s.Create(ctx, u.ID, "Bills", []ItemInput{{Title: "power", Amount: 40}})
	require.NoError(t, err)
	itemID := cat.Items[0].ID

	assert.ErrorIs(t, s.Delete(ctx, v.ID, cat.ID), util.ErrForbidden)
	require.NoError(t, s.Delete(ctx, u.ID, cat.ID))

	_, _, err = s.Get(ctx, u.ID, cat.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = s.GetItem(ctx, u.ID, itemID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
