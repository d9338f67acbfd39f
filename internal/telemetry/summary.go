package telemetry

import (
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a trace.
type Summary struct {
	Steps          int
	Duration       float64
	MeanSpeed      float64
	StdSpeed       float64
	MaxSpeed       float64
	MaxHeight      float64
	MinHeight      float64
	MaxSubmergence float64
	Jumps          int
	States         map[string]int // steps spent per locomotion state
}

// Summarize computes the summary of samples.
func Summarize(samples []Sample) Summary {
	s := Summary{States: make(map[string]int)}
	if len(samples) == 0 {
		return s
	}

	speeds := make([]float64, len(samples))
	heights := make([]float64, len(samples))
	submergence := make([]float64, len(samples))
	for i, sm := range samples {
		speeds[i] = sm.Speed
		heights[i] = sm.Y
		submergence[i] = sm.Submergence
		s.States[sm.State]++
		if sm.Jumped {
			s.Jumps++
		}
	}

	s.Steps = len(samples)
	s.Duration = samples[len(samples)-1].Time - samples[0].Time
	if len(samples) > 1 {
		s.MeanSpeed, s.StdSpeed = stat.MeanStdDev(speeds, nil)
	} else {
		s.MeanSpeed = speeds[0]
	}
	s.MaxSpeed = floats.Max(speeds)
	s.MaxHeight = floats.Max(heights)
	s.MinHeight = floats.Min(heights)
	s.MaxSubmergence = floats.Max(submergence)
	return s
}

// Fields returns the summary as structured log fields.
func (s Summary) Fields() logrus.Fields {
	f := logrus.Fields{
		"steps":      s.Steps,
		"duration":   s.Duration,
		"mean_speed": s.MeanSpeed,
		"std_speed":  s.StdSpeed,
		"max_speed":  s.MaxSpeed,
		"max_height": s.MaxHeight,
		"jumps":      s.Jumps,
	}
	for state, n := range s.States {
		f["steps_"+state] = n
	}
	return f
}
