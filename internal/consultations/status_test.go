package consultations

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

func TestCanTransition(t *testing.T) {
	legal := [][2]models.ConsultationStatus{
		{models.ConsultationPending, models.ConsultationInProgress},
		{models.ConsultationPending, models.ConsultationCancelled},
		{models.ConsultationInProgress, models.ConsultationArchived},
		{models.ConsultationInProgress, models.ConsultationCancelled},
	}
	for _, edge := range legal {
		assert.True(t, CanTransition(edge[0], edge[1]), "%s -> %s", edge[0], edge[1])
	}

	illegal := [][2]models.ConsultationStatus{
		{models.ConsultationPending, models.ConsultationArchived},
		{models.ConsultationInProgress, models.ConsultationPending},
		{models.ConsultationArchived, models.ConsultationPending},
		{models.ConsultationArchived, models.ConsultationInProgress},
		{models.ConsultationCancelled, models.ConsultationInProgress},
		{models.ConsultationCancelled, models.ConsultationArchived},
		{models.ConsultationPending, models.ConsultationPending},
	}
	for _, edge := range illegal {
		assert.False(t, CanTransition(edge[0], edge[1]), "%s -> %s", edge[0], edge[1])
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(models.ConsultationPending))
	assert.False(t, IsTerminal(models.ConsultationInProgress))
	assert.True(t, IsTerminal(models.ConsultationArchived))
	assert.True(t, IsTerminal(models.ConsultationCancelled))
}

func TestTransitionRejectsIllegalEdge(t *testing.T) {
	c := models.Consultation{Status: models.ConsultationArchived}
	err := Transition(&c, models.ConsultationInProgress)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.ConsultationArchived, c.Status, "status must not change on failure")
}
