// Package spin picks prize-group winners.
package spin

import (
	"math/rand"

	"moneybook/internal/models"
	"moneybook/internal/util"
)

var (
	ErrNoParticipants = util.NotFound("No participants in this spin group")
	ErrNoSuchEntrant  = util.NotFound("Participant not found in this spin group")
)

// Selector draws one participant uniformly at random. Stakes are not weights.
type Selector struct {
	intn func(n int) int
}

func NewSelector() *Selector {
	return &Selector{intn: rand.Intn}
}

// NewSelectorWithSource uses intn in place of the global source, which
// lets tests pin the outcome.
func NewSelectorWithSource(intn func(n int) int) *Selector {
	if intn == nil {
		intn = rand.Intn
	}
	return &Selector{intn: intn}
}

func (s *Selector) Pick(participants []models.Participant) (models.Participant, error) {
	if len(participants) == 0 {
		return models.Participant{}, ErrNoParticipants
	}
	return participants[s.intn(len(participants))], nil
}

// PickByID returns the participant chosen by the caller, for draws spun
// on the client.
func (s *Selector) PickByID(participants []models.Participant, id uint) (models.Participant, error) {
	if len(participants) == 0 {
		return models.Participant{}, ErrNoParticipants
	}
	for _, p := range participants {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Participant{}, ErrNoSuchEntrant
}
