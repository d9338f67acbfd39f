package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/younwookim/movingsphere/internal/application/system"
)

// Replayer handles input playback from recorded data
type Replayer struct {
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{
		data:  data,
		frame: 0,
	}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Decode(file)
}

// Decode reads replay data from r
func Decode(r io.Reader) (*ReplayData, error) {
	var data ReplayData
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if data.FixedStep < 0 {
		return nil, fmt.Errorf("failed to decode replay: negative fixed step %v", data.FixedStep)
	}
	return &data, nil
}

// Encode writes replay data to w as indented JSON
func Encode(w io.Writer, data ReplayData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	return nil
}

// GetInput returns the input for the current frame and advances
func (r *Replayer) GetInput() (system.InputState, bool) {
	if r.frame >= len(r.data.Frames) {
		return system.InputState{}, false
	}

	fi := r.data.Frames[r.frame]
	r.frame++
	return fi.InputState(), true
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Stage returns the stage the replay was recorded on
func (r *Replayer) Stage() string {
	return r.data.Stage
}

// FixedStep returns the recorded step length, or fallback when the
// recording has none.
func (r *Replayer) FixedStep(fallback float64) float64 {
	if r.data.FixedStep > 0 {
		return r.data.FixedStep
	}
	return fallback
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}

// CreateTestReplayData creates replay data for testing: the agent walks
// right and jumps once every jumpEvery frames (0 never jumps).
func CreateTestReplayData(frames, jumpEvery int) ReplayData {
	data := ReplayData{
		Version:   Version,
		Stage:     "demo",
		StartTime: time.Now().Format(time.RFC3339),
		FixedStep: 0.02,
		Frames:    make([]FrameInput, frames),
	}

	for i := 0; i < frames; i++ {
		jump := jumpEvery > 0 && i%jumpEvery == jumpEvery-1
		data.Frames[i] = FrameInput{
			F:  i,
			R:  true,
			J:  jump,
			JP: jump,
		}
	}

	return data
}
