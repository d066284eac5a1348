package gamesound

type voiceFlags uint32

const (
	voiceActive voiceFlags = 1 << iota
	voicePlaying
	voiceLooping
	voicePaused
)

func (f voiceFlags) has(bits voiceFlags) bool { return f&bits != 0 }

// voice is one playback slot. Its fields are only meaningful while the
// active flag is set.
type voice struct {
	flags      voiceFlags
	buffer     int    // bound buffer slot
	generation uint32 // bumped on every reallocation, 19 bits
	userTag    uint32
}

// voiceTable is a fixed-capacity array of playback slots. All methods
// assume the system lock is held.
type voiceTable struct {
	slots []voice
}

func newVoiceTable(capacity int) *voiceTable {
	return &voiceTable{slots: make([]voice, capacity)}
}

// allocate claims the first slot that is neither playing nor paused and
// binds it to the given buffer. Busy voices are never preempted; when all
// slots are busy allocate reports failure and the caller drops the sound.
func (t *voiceTable) allocate(buffer int) (int, bool) {
	for i := range t.slots {
		v := &t.slots[i]
		if v.flags.has(voicePlaying | voicePaused) {
			continue
		}
		v.generation = (v.generation + 1) & genMask
		v.buffer = buffer
		v.flags = voiceActive
		v.userTag = 0
		return i, true
	}
	return -1, false
}

// isLive is the single authority for whether a handle still refers to the
// session it was issued for.
func (t *voiceTable) isLive(slot, buffer int, generation uint32) bool {
	if slot < 0 || slot >= len(t.slots) {
		return false
	}
	v := &t.slots[slot]
	return v.flags.has(voiceActive) && v.buffer == buffer && v.generation == generation
}

func (t *voiceTable) countPlaying() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].flags.has(voicePlaying) {
			n++
		}
	}
	return n
}
