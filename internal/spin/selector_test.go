package spin

import (
	"errors"
	"testing"

	"moneybook/internal/models"
	"moneybook/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []models.Participant {
	return []models.Participant{
		{ID: 1, Name: "A", Amount: 50},
		{ID: 2, Name: "B", Amount: 50},
		{ID: 3, Name: "C", Amount: 10},
	}
}

func TestPick_Empty(t *testing.T) {
	_, err := NewSelector().Pick(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestPick_Member(t *testing.T) {
	ps := sample()
	sel := NewSelector()
	for i := 0; i < 200; i++ {
		got, err := sel.Pick(ps)
		require.NoError(t, err)
		assert.Contains(t, []string{"A", "B", "C"}, got.Name)
	}
}

func TestPick_Deterministic(t *testing.T) {
	ps := sample()
	sel := NewSelectorWithSource(func(n int) int {
		assert.Equal(t, 3, n)
		return 2
	})
	got, err := sel.Pick(ps)
	require.NoError(t, err)
	assert.Equal(t, "C", got.Name)
}

func TestPick_ReachesEveryone(t *testing.T) {
	ps := sample()
	sel := NewSelector()
	seen := map[uint]bool{}
	for i := 0; i < 1000 && len(seen) < len(ps); i++ {
		got, err := sel.Pick(ps)
		require.NoError(t, err)
		seen[got.ID] = true
	}
	assert.Len(t, seen, len(ps))
}

func TestPickByID(t *testing.T) {
	sel := NewSelector()

	got, err := sel.PickByID(sample(), 2)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)

	_, err = sel.PickByID(sample(), 99)
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = sel.PickByID(nil, 1)
	assert.ErrorIs(t, err, ErrNoParticipants)
}
