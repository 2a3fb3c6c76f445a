package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Status
	}{
		{name: "active_lower", raw: "active", want: StatusActive},
		{name: "active_mixed_case", raw: "AcTiVe", want: StatusActive},
		{name: "active_padded", raw: "  Active  ", want: StatusActive},
		{name: "completed_lower", raw: "completed", want: StatusCompleted},
		{name: "completed_title", raw: "Completed", want: StatusCompleted},
		{name: "repealed_upper", raw: "REPEALED", want: StatusLoss},
		{name: "empty", raw: "", want: StatusLoss},
		{name: "whitespace_only", raw: "   ", want: StatusLoss},
		{name: "nonsense", raw: "banana", want: StatusLoss},
		{name: "loss_spelled_out", raw: "loss", want: StatusLoss},
		{name: "partial_match", raw: "activated", want: StatusLoss},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeStatus(tc.raw))
		})
	}
}

func TestNormalizeStatusTotality(t *testing.T) {
	// Every input lands in exactly one of the three buckets.
	inputs := []string{"", " ", "Active", "completed", "LOSS", "repealed", "null", "undefined", "ñ", "活躍", "\x00"}
	for _, in := range inputs {
		got := NormalizeStatus(in)
		assert.Contains(t, []Status{StatusActive, StatusCompleted, StatusLoss}, got, "input %q", in)
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusActive, StatusCompleted))
	assert.True(t, CanTransition(StatusActive, StatusLoss))
	assert.False(t, CanTransition(StatusActive, StatusActive))
	assert.False(t, CanTransition(StatusCompleted, StatusActive))
	assert.False(t, CanTransition(StatusCompleted, StatusLoss))
	assert.False(t, CanTransition(StatusLoss, StatusCompleted))
}
