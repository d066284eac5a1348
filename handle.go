package gamesound

// Handle is an opaque reference to one playback session. It packs the
// bound buffer slot, the voice slot and the voice's allocation generation
// into a single integer:
//
//	bits  0..7   buffer slot (up to 256 buffers)
//	bits  8..12  voice slot (up to 32 voices)
//	bits 13..31  generation (wraps at 2^19)
//
// A Handle is not an ownership token. It stays valid only as long as the
// voice slot still carries the same generation; after the slot is reused
// the old handle silently stops matching.
type Handle uint32

// InvalidHandle is returned by Play when no sound could be started.
const InvalidHandle Handle = 0xffffffff

const (
	voiceShift = 8
	genShift   = 13
	genMask    = 0x7ffff // 19 bits

	bufferFieldMask = 0xff
	voiceFieldMask  = 0x1f
)

func makeHandle(buffer, voice int, generation uint32) Handle {
	return Handle(uint32(buffer)&bufferFieldMask |
		(uint32(voice)&voiceFieldMask)<<voiceShift |
		(generation&genMask)<<genShift)
}

// bufferSlot decodes the buffer index field. Total for any bit pattern;
// a stale or garbage handle simply fails the liveness check later.
func (h Handle) bufferSlot() int {
	return int(uint32(h) & bufferFieldMask)
}

func (h Handle) voiceSlot() int {
	return int(uint32(h) >> voiceShift & voiceFieldMask)
}

func (h Handle) generation() uint32 {
	return uint32(h) >> genShift & genMask
}
