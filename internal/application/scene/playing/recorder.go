package playing

import (
	"fmt"
	"os"
	"time"

	"github.com/younwookim/movingsphere/internal/application/replay"
	"github.com/younwookim/movingsphere/internal/application/system"
)

// Recorder handles input recording for replay
type Recorder struct {
	data      replay.ReplayData
	recording bool
	frame     int
}

// NewRecorder creates a new recorder for a stage run at a fixed step
func NewRecorder(stage string, fixedStep float64) *Recorder {
	return &Recorder{
		data: replay.ReplayData{
			Version:   replay.Version,
			Stage:     stage,
			StartTime: time.Now().Format(time.RFC3339),
			FixedStep: fixedStep,
			Frames:    make([]replay.FrameInput, 0, 3000), // ~1 minute at 50 steps per second
		},
		recording: true,
	}
}

// RecordFrame records a single frame's input
func (r *Recorder) RecordFrame(input system.InputState) {
	if !r.recording {
		return
	}
	r.data.Frames = append(r.data.Frames, replay.NewFrameInput(r.frame, input))
	r.frame++
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := replay.Encode(file, r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// GetData returns the replay data (for testing)
func (r *Recorder) GetData() replay.ReplayData {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
