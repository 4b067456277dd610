package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusNew, StatusInProgress, true},
		{StatusNew, StatusPendingInfo, true},
		{StatusNew, StatusRejected, true},
		{StatusNew, StatusCompleted, false},
		{StatusPendingInfo, StatusInProgress, true},
		{StatusPendingInfo, StatusRejected, true},
		{StatusPendingInfo, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusPendingInfo, true},
		{StatusInProgress, StatusRejected, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCancelled, StatusInProgress, false},
		{StatusRejected, StatusNew, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to),
			"transition %s -> %s", c.from, c.to)
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, StatusNew.IsTerminal())
	assert.False(t, StatusPendingInfo.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusNew.IsValid())
	assert.False(t, Status("archived").IsValid())
	assert.False(t, Status("").IsValid())
}
