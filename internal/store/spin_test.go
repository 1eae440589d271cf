package store

import (
	"context"
	"testing"

	"moneybook/internal/models"
	"moneybook/internal/spin"
	"moneybook/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPlayers() []ParticipantInput {
	return []ParticipantInput{{Name: "A", Amount: 50}, {Name: "B", Amount: 50}}
}

func TestSpins_CreateRejectsBadParticipant(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	s := NewSpins(db, nil)
	ctx := context.Background()

	_, err := s.Create(ctx, u.ID, "Lunch", 100, []ParticipantInput{{Name: "A", Amount: 50}, {Name: "B", Amount: 0}})
	assert.ErrorIs(t, err, util.ErrValidation)
	_, err = s.Create(ctx, u.ID, "Lunch", 0, twoPlayers())
	assert.ErrorIs(t, err, util.ErrValidation)
	_, err = s.Create(ctx, u.ID, " ", 100, twoPlayers())
	assert.ErrorIs(t, err, util.ErrValidation)

	var groups int64
	require.NoError(t, db.Model(&models.SpinGroup{}).Count(&groups).Error)
	assert.Zero(t, groups)
}

func TestSpins_DrawRecordsHistory(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	s := NewSpins(db, nil)
	ctx := context.Background()

	g, err := s.Create(ctx, u.ID, "Lunch", 100, twoPlayers())
	require.NoError(t, err)

	const draws = 5
	for i := 1; i <= draws; i++ {
		res, err := s.Draw(ctx, u.ID, g.ID, 0)
		require.NoError(t, err)
		assert.Contains(t, []string{"A", "B"}, res.Winner.Name)
		assert.Equal(t, 100.0, res.TotalAmount)
		assert.Equal(t, int64(i), res.Winners)
	}

	got, err := s.Get(ctx, u.ID, g.ID)
	require.NoError(t, err)
	assert.Len(t, got.Winners, draws)
}

func TestSpins_DrawDeterministicAndChosen(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	s := NewSpins(db, spin.NewSelectorWithSource(func(int) int { return 1 }))
	ctx := context.Background()

	g, err := s.Create(ctx, u.ID, "Pool", 10, twoPlayers())
	require.NoError(t, err)

	res, err := s.Draw(ctx, u.ID, g.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "B", res.Winner.Name)

	res, err = s.Draw(ctx, u.ID, g.ID, g.Participants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "A", res.Winner.Name)
	assert.Equal(t, int64(2), res.Winners)

	_, err = s.Draw(ctx, u.ID, g.ID, 9999)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestSpins_DrawEmptyAndForeign(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	v := newUser(t, db, "v@example.com")
	s := NewSpins(db, nil)
	ctx := context.Background()

	g, err := s.Create(ctx, u.ID, "Empty", 10, nil)
	require.NoError(t, err)

	_, err = s.Draw(ctx, u.ID, g.ID, 0)
	assert.ErrorIs(t, err, spin.ErrNoParticipants)

	_, err = s.Draw(ctx, v.ID, g.ID, 0)
	assert.ErrorIs(t, err, util.ErrForbidden)
}

func TestSpins_Participants(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	v := newUser(t, db, "v@example.com")
	s := NewSpins(db, nil)
	ctx := context.Background()

	g, err := s.Create(ctx, u.ID, "Trip", 300, twoPlayers())
	require.NoError(t, err)

	_, err = s.AddParticipant(ctx, v.ID, g.ID, ParticipantInput{Name: "M", Amount: 1})
	assert.ErrorIs(t, err, util.ErrForbidden)

	g, err = s.AddParticipant(ctx, u.ID, g.ID, ParticipantInput{Name: "C", Amount: 25})
	require.NoError(t, err)
	require.Len(t, g.Participants, 3)

	_, err = s.DeleteParticipant(ctx, v.ID, g.ID, g.Participants[2].ID)
	assert.ErrorIs(t, err, util.ErrForbidden)

	g, err = s.DeleteParticipant(ctx, u.ID, g.ID, g.Participants[2].ID)
	require.NoError(t, err)
	assert.Len(t, g.Participants, 2)

	_, err = s.DeleteParticipant(ctx, u.ID, g.ID, 9999)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestSpins_Update(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	s := NewSpins(db, nil)
	ctx := context.Background()

	g, err := s.Create(ctx, u.ID, "Old", 100, twoPlayers())
	require.NoError(t, err)
	keep := g.Participants[0]

	got, err := s.Update(ctx, u.ID, g.ID, "New", 250, []ParticipantInput{
		{ID: keep.ID, Name: "A2", Amount: 60},
		{Name: "D", Amount: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Category)
	assert.Equal(t, 250.0, got.TotalAmount)
	require.Len(t, got.Participants, 2)
	assert.Equal(t, keep.ID, got.Participants[0].ID)
	assert.Equal(t, "A2", got.Participants[0].Name)
	assert.Equal(t, "D", got.Participants[1].Name)

	_, err = s.Update(ctx, u.ID, g.ID, "New", 250, []ParticipantInput{{ID: 9999, Name: "Z", Amount: 1}})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestSpins_Delete(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "u@example.com")
	v := newUser(t, db, "v@example.com")
	s := NewSpins(db, nil)
	ctx := context.Background()

	g, err := s.Create(ctx, u.ID, "Bye", 10, twoPlayers())
	require.NoError(t, err)
	_, err = s.Draw(ctx, u.ID, g.ID, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, v.ID, g.ID), util.ErrForbidden)
	require.NoError(t, s.Delete(ctx, u.ID, g.ID))

	var winners, participants int64
	require.NoError(t, db.Model(&models.SpinWinner{}).Where("spin_group_id = ?", g.ID).Count(&winners).Error)
	require.NoError(t, db.Model(&models.Participant{}).Where("spin_group_id = ?", g.ID).Count(&participants).Error)
	assert.Zero(t, winners)
	assert.Zero(t, participants)

	list, err := s.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
