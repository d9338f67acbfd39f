package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocomotion_String(t *testing.T) {
	tests := []struct {
		state    Locomotion
		expected string
	}{
		{Airborne, "Airborne"},
		{Grounded, "Grounded"},
		{Climbing, "Climbing"},
		{Drifting, "Drifting"},
		{Diving, "Diving"},
		{Locomotion(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

func TestLocomotionConstants(t *testing.T) {
	// Airborne is the zero value
	var l Locomotion
	assert.Equal(t, Airborne, l)
	assert.Equal(t, Locomotion(1), Grounded)
	assert.Equal(t, Locomotion(2), Climbing)
	assert.Equal(t, Locomotion(3), Drifting)
	assert.Equal(t, Locomotion(4), Diving)
}

func TestLocomotion_Predicates(t *testing.T) {
	assert.True(t, Drifting.Swimming())
	assert.True(t, Diving.Swimming())
	assert.False(t, Grounded.Swimming())
	assert.False(t, Airborne.Swimming())

	assert.True(t, Grounded.Supported())
	assert.True(t, Climbing.Supported())
	assert.False(t, Diving.Supported())
	assert.False(t, Airborne.Supported())
}
