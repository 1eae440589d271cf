package store

import (
	"context"
	"testing"

	"moneybook/internal/models"
	"moneybook/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeNotes(t *testing.T) {
	stored := []models.Note{
		{ID: 10, Title: "a", Content: "one"},
		{ID: 11, Title: "b", Content: "two"},
	}

	merged, err := MergeNotes(stored, []NoteInput{{Title: "A"}, {Content: "TWO"}})
	require.NoError(t, err)
	assert.Equal(t, "A", merged[0].Title)
	assert.Equal(t, "one", merged[0].Content)
	assert.Equal(t, "b", merged[1].Title)
	assert.Equal(t, "TWO", merged[1].Content)
	assert.Equal(t, "a", stored[0].Title, "stored slice must not be modified")

	merged, err = MergeNotes(stored, []NoteInput{{ID: 11, Title: "B"}})
	require.NoError(t, err)
	assert.Equal(t, "a", merged[0].Title)
	assert.Equal(t, "B", merged[1].Title)

	_, err = MergeNotes(stored, []NoteInput{{ID: 99, Title: "x"}})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = MergeNotes(stored, []NoteInput{{}, {}, {Title: "extra"}})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestNotebooks_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	s := NewNotebooks(db)
	ctx := context.Background()

	_, err := s.List(ctx, u.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	nb, err := s.Create(ctx, u.ID, "Trip", "summer", []NoteInput{
		{Title: "t1", Content: "c1"},
		{Title: "t2", Content: "c2"},
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, u.ID, nb.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trip", got.Heading)
	assert.Equal(t, "summer", got.Description)
	require.Len(t, got.Notes, 2)
	assert.Equal(t, "t1", got.Notes[0].Title)
	assert.Equal(t, "c2", got.Notes[1].Content)

	list, err := s.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNotebooks_Update(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	v := newUser(t, db, "v@example.com")
	s := NewNotebooks(db)
	ctx := context.Background()

	nb, err := s.Create(ctx, u.ID, "Plan", "", []NoteInput{{Title: "x", Content: "y"}})
	require.NoError(t, err)

	_, err = s.Update(ctx, u.ID, nb.ID, "", "d", nil)
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = s.Update(ctx, v.ID, nb.ID, "Hijack", "", nil)
	assert.ErrorIs(t, err, util.ErrForbidden)

	got, err := s.Update(ctx, u.ID, nb.ID, "Plan B", "revised", []NoteInput{{Content: "z"}})
	require.NoError(t, err)
	assert.Equal(t, "Plan B", got.Heading)
	assert.Equal(t, "revised", got.Description)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "x", got.Notes[0].Title)
	assert.Equal(t, "z", got.Notes[0].Content)
}

func TestNotebooks_Delete(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	v := newUser(t, db, "v@example.com")
	s := NewNotebooks(db)
	ctx := context.Background()

	nb, err := s.Create(ctx, u.ID, "Gone", "", []NoteInput{{Title: "n"}})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, v.ID, nb.ID), util.ErrForbidden)
	require.NoError(t, s.Delete(ctx, u.ID, nb.ID))

	var notes int64
	require.NoError(t, db.Model(&models.Note{}).Where("notebook_id = ?", nb.ID).Count(&notes).Error)
	assert.Zero(t, notes)

	assert.ErrorIs(t, s.Delete(ctx, u.ID, nb.ID), util.ErrNotFound)
}
