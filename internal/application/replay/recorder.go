package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Recorder collects the inputs of a run for replay
type Recorder struct {
	data      Data
	recording bool
}

// NewRecorder creates a new recorder with seed for deterministic replay
func NewRecorder(seed uint64, rangeID string, tickRate int) *Recorder {
	return &Recorder{
		data: Data{
			Version:   Version,
			Seed:      seed,
			Range:     rangeID,
			TickRate:  tickRate,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]Frame, 0, 64),
		},
		recording: true,
	}
}

func (r *Recorder) frame(tick uint64) *Frame {
	if n := len(r.data.Frames); n > 0 && r.data.Frames[n-1].T == tick {
		return &r.data.Frames[n-1]
	}
	r.data.Frames = append(r.data.Frames, Frame{T: tick})
	return &r.data.Frames[len(r.data.Frames)-1]
}

// RecordFire records a discharge applied before tick
func (r *Recorder) RecordFire(tick uint64, f Fire) {
	if !r.recording {
		return
	}
	fr := r.frame(tick)
	fr.Fires = append(fr.Fires, f)
}

// RecordThrow records a throw applied before tick
func (r *Recorder) RecordThrow(tick uint64, t Throw) {
	if !r.recording {
		return
	}
	fr := r.frame(tick)
	fr.Throws = append(fr.Throws, t)
}

// Encode writes the recording as indented JSON
func (r *Recorder) Encode(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	return nil
}

// Save writes the recording to a file
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return r.Encode(file)
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

// Data returns the recording
func (r *Recorder) Data() Data {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
