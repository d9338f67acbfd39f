package telemetry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/movingsphere/internal/application/state"
	"github.com/younwookim/movingsphere/internal/application/system"
)

func TestNewSample(t *testing.T) {
	ctx := system.StepContext{
		State:              state.Grounded,
		GroundContacts:     2,
		Velocity:           mgl64.Vec3{3, 0, 4},
		Submergence:        0.25,
		JumpPhase:          1,
		Jumped:             true,
		ConnectionVelocity: mgl64.Vec3{0, 1.5, 0},
	}

	s := NewSample(7, 0.14, ctx, mgl64.Vec3{1, 2, 3})

	assert.Equal(t, 7, s.Step)
	assert.Equal(t, 0.14, s.Time)
	assert.Equal(t, "Grounded", s.State)
	assert.True(t, s.Grounded)
	assert.Equal(t, [3]float64{1, 2, 3}, [3]float64{s.X, s.Y, s.Z})
	assert.InDelta(t, 5.0, s.Speed, 1e-12)
	assert.Equal(t, 0.25, s.Submergence)
	assert.Equal(t, 1, s.JumpPhase)
	assert.True(t, s.Jumped)
	assert.Equal(t, 1.5, s.PlatformVY)
}

func TestWriter(t *testing.T) {
	samples := []Sample{
		{Step: 1, Time: 0.02, State: "Airborne", Y: 1, Speed: 0.5},
		{Step: 2, Time: 0.04, State: "Grounded", Grounded: true, Y: 0.5, Speed: 0.25},
		{Step: 3, Time: 0.06, State: "Grounded", Grounded: true, Y: 0.5, Jumped: true, JumpPhase: 1},
	}

	t.Run("writes the header once", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewWriter(&buf)

		require.NoError(t, w.Write(samples[0]))
		require.NoError(t, w.Write(samples[1:]...))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[0], "step,time,state,grounded"))
		assert.Equal(t, 1, strings.Count(buf.String(), "step,time"))
		assert.Equal(t, 3, w.Rows())

		read, err := ReadSamples(&buf)
		require.NoError(t, err)
		assert.Equal(t, samples, read)
	})

	t.Run("ignores empty batches", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewWriter(&buf)

		require.NoError(t, w.Write())

		assert.Zero(t, buf.Len())
		assert.Zero(t, w.Rows())
	})
}

func TestSummarize(t *testing.T) {
	t.Run("aggregates a trace", func(t *testing.T) {
		samples := []Sample{
			{Time: 0.02, State: "Airborne", Speed: 1, Y: 2},
			{Time: 0.04, State: "Grounded", Speed: 2, Y: 0.5, Jumped: true},
			{Time: 0.06, State: "Diving", Speed: 3, Y: -1, Submergence: 1},
		}

		s := Summarize(samples)

		assert.Equal(t, 3, s.Steps)
		assert.InDelta(t, 0.04, s.Duration, 1e-12)
		assert.InDelta(t, 2.0, s.MeanSpeed, 1e-12)
		assert.InDelta(t, 1.0, s.StdSpeed, 1e-12)
		assert.Equal(t, 3.0, s.MaxSpeed)
		assert.Equal(t, 2.0, s.MaxHeight)
		assert.Equal(t, -1.0, s.MinHeight)
		assert.Equal(t, 1.0, s.MaxSubmergence)
		assert.Equal(t, 1, s.Jumps)
		assert.Equal(t, map[string]int{"Airborne": 1, "Grounded": 1, "Diving": 1}, s.States)

		f := s.Fields()
		assert.Equal(t, 3, f["steps"])
		assert.Equal(t, 1, f["steps_Grounded"])
	})

	t.Run("single sample", func(t *testing.T) {
		s := Summarize([]Sample{{State: "Grounded", Speed: 4}})

		assert.Equal(t, 4.0, s.MeanSpeed)
		assert.Zero(t, s.StdSpeed)
	})

	t.Run("empty trace", func(t *testing.T) {
		s := Summarize(nil)

		assert.Zero(t, s.Steps)
		assert.Empty(t, s.States)
	})
}
