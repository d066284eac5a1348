package gamesound

import "log"

const (
	// MaxBuffers is the hard cap on buffer slots imposed by the handle
	// encoding (8 bits).
	MaxBuffers = 256
	// MaxVoices is the hard cap on simultaneous voices imposed by the
	// handle encoding (5 bits).
	MaxVoices = 32

	defaultGlobalVolume = 0.80
)

// Options configures a System. The zero value (or nil) selects the
// defaults: 256 buffers, 32 voices, global volume 0.80.
type Options struct {
	// Buffers is the number of decoded-audio cache slots, 1..256.
	Buffers int

	// Voices is the number of simultaneous playback slots, 1..32.
	Voices int

	// GlobalVolume is the initial master volume, 0..1.
	GlobalVolume float32

	// Logger overrides the destination for diagnostics. Defaults to the
	// standard logger.
	Logger *log.Logger
}

func (o *Options) sanitized() Options {
	out := Options{
		Buffers:      MaxBuffers,
		Voices:       MaxVoices,
		GlobalVolume: defaultGlobalVolume,
	}
	if o == nil {
		return out
	}
	if o.Buffers > 0 && o.Buffers <= MaxBuffers {
		out.Buffers = o.Buffers
	}
	if o.Voices > 0 && o.Voices <= MaxVoices {
		out.Voices = o.Voices
	}
	if o.GlobalVolume > 0 {
		out.GlobalVolume = min(o.GlobalVolume, 1)
	}
	out.Logger = o.Logger
	return out
}
