// Package backend defines the native-audio interface consumed by the
// gamesound core. A Device hands out a fixed set of Buffer and Voice
// objects at startup; the core owns them exclusively afterwards.
//
// Implementations must be cheap and non-blocking per call: the core invokes
// every method while holding its state lock.
package backend

import "errors"

// ErrDeviceNotFound is returned by drivers when no usable audio output
// exists on the host.
var ErrDeviceNotFound = errors.New("backend: device not found")

// State is the playback state of a Voice as reported by the driver.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// PCM describes decoded sample data handed to Buffer.Upload.
type PCM struct {
	Data       []byte
	SampleRate int
	BitDepth   int // 8 or 16
	Stereo     bool
}

// Device creates the playback resources for one audio output.
type Device interface {
	// NewBuffer allocates one storage slot for decoded audio data.
	NewBuffer() (Buffer, error)
	// NewVoice allocates one playback slot.
	NewVoice() (Voice, error)
	Close() error
}

// Buffer holds one uploaded piece of PCM data.
type Buffer interface {
	Upload(pcm PCM) error
	Close() error
}

// Voice renders one Buffer at a time.
type Voice interface {
	// SetBuffer binds the data to play. Passing nil unbinds.
	SetBuffer(b Buffer)
	Play()
	Pause()
	Stop()
	// SetGain sets the linear output gain, 0..1.
	SetGain(gain float32)
	// Gain reports the gain most recently set.
	Gain() float32
	// SetPan sets stereo position, -1 (left) .. 0 (center) .. 1 (right).
	SetPan(pan float32)
	SetLooping(loop bool)
	// SetDistance configures reference and maximum falloff distances.
	SetDistance(ref, max float32)
	// State reports the current driver-side playback state.
	State() State
	Close() error
}
