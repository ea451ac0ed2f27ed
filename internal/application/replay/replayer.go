package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Replayer hands recorded inputs back tick by tick
type Replayer struct {
	data  Data
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data Data) *Replayer {
	return &Replayer{data: data}
}

// Decode reads replay data
func Decode(r io.Reader) (*Data, error) {
	var data Data
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if data.Version != Version {
		return nil, fmt.Errorf("unsupported replay version %q", data.Version)
	}
	return &data, nil
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*Data, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Decode(file)
}

// Next returns the frame recorded for tick, if any. Frames before tick are skipped.
func (r *Replayer) Next(tick uint64) (Frame, bool) {
	for r.frame < len(r.data.Frames) && r.data.Frames[r.frame].T < tick {
		r.frame++
	}
	if r.frame >= len(r.data.Frames) || r.data.Frames[r.frame].T != tick {
		return Frame{}, false
	}
	f := r.data.Frames[r.frame]
	r.frame++
	return f, true
}

// Done reports whether every frame has been returned
func (r *Replayer) Done() bool {
	return r.frame >= len(r.data.Frames)
}

// CurrentFrame returns the index of the next frame
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Seed returns the seed used for the replay
func (r *Replayer) Seed() uint64 {
	return r.data.Seed
}

// Range returns the range the replay was recorded on
func (r *Replayer) Range() string {
	return r.data.Range
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}
