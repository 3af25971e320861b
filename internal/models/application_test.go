package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplicationTransitions(t *testing.T) {
	statuses := []ApplicationStatus{
		ApplicationApplied, ApplicationShortlisted, ApplicationRejected, ApplicationHired,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := from == ApplicationApplied && to != ApplicationApplied
			require.Equalf(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	require.False(t, ApplicationApplied.Terminal())
	require.True(t, ApplicationShortlisted.Terminal())
	require.True(t, ApplicationRejected.Terminal())
	require.True(t, ApplicationHired.Terminal())
}
