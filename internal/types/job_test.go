package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardOnly(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusScored))
	assert.True(t, CanTransition(StatusScored, StatusApplied))
	assert.True(t, CanTransition(StatusApplied, StatusFollowedUp))
}

func TestCanTransition_RescoringIsLegal(t *testing.T) {
	assert.True(t, CanTransition(StatusScored, StatusScored))
}

func TestCanTransition_NoRegression(t *testing.T) {
	assert.False(t, CanTransition(StatusScored, StatusPending))
	assert.False(t, CanTransition(StatusApplied, StatusScored))
	assert.False(t, CanTransition(StatusFollowedUp, StatusApplied))
	assert.False(t, CanTransition(StatusFollowedUp, StatusPending))
}

func TestCanTransition_NoSkipping(t *testing.T) {
	assert.False(t, CanTransition(StatusPending, StatusApplied))
	assert.False(t, CanTransition(StatusPending, StatusFollowedUp))
	assert.False(t, CanTransition(StatusScored, StatusFollowedUp))
}

func TestLegalSources(t *testing.T) {
	assert.ElementsMatch(t, []JobStatus{StatusPending, StatusScored}, LegalSources(StatusScored))
	assert.ElementsMatch(t, []JobStatus{StatusScored}, LegalSources(StatusApplied))
	assert.ElementsMatch(t, []JobStatus{StatusApplied}, LegalSources(StatusFollowedUp))
	assert.Empty(t, LegalSources(StatusPending))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusFollowedUp.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusScored.IsTerminal())
	assert.False(t, StatusApplied.IsTerminal())
}
