package gamesound

import (
	"fmt"

	"github.com/sndforge/gamesound/backend"
)

// soundBuffer is one slot of the decoded-audio cache.
type soundBuffer struct {
	name     string
	index    int
	active   bool // native data has been uploaded
	refCount int  // voices currently bound to this buffer, never negative
	lastUsed uint64
	native   backend.Buffer
}

// bufferPool is a named cache over a fixed array of buffer slots. Eviction
// only ever considers slots with refCount zero: a buffer still bound to a
// playing or paused voice is never reclaimed, however old. All methods
// assume the system lock is held.
type bufferPool struct {
	slots []soundBuffer
	names map[string]int
}

func newBufferPool(capacity int) *bufferPool {
	p := &bufferPool{
		slots: make([]soundBuffer, capacity),
		names: make(map[string]int, capacity),
	}
	for i := range p.slots {
		p.slots[i].index = i
	}
	return p
}

// acquire returns the slot that holds (or will hold) the named sound.
// Lookup order: exact cache hit, first structurally free slot, then the
// least recently used slot among unreferenced ones. Returns nil when every
// slot is still referenced; the caller must drop the request rather than
// interrupt audible playback.
func (p *bufferPool) acquire(name string) *soundBuffer {
	if i, ok := p.names[name]; ok {
		return &p.slots[i]
	}

	for i := range p.slots {
		if !p.slots[i].active && p.slots[i].name == "" {
			p.slots[i].name = name
			p.names[name] = i
			return &p.slots[i]
		}
	}

	oldest := -1
	var oldestUsed uint64 = ^uint64(0)
	for i := range p.slots {
		if p.slots[i].refCount == 0 && p.slots[i].lastUsed < oldestUsed {
			oldestUsed = p.slots[i].lastUsed
			oldest = i
		}
	}
	if oldest < 0 {
		return nil
	}

	b := &p.slots[oldest]
	delete(p.names, b.name)
	b.name = name
	b.active = false
	b.refCount = 0
	b.lastUsed = 0
	p.names[name] = oldest
	return b
}

// markLoaded flags the slot as holding uploaded native data.
func (p *bufferPool) markLoaded(b *soundBuffer) {
	b.active = true
}

// rollback undoes a failed acquisition so the slot is immediately
// reusable. Called when decode or upload fails after acquire.
func (p *bufferPool) rollback(b *soundBuffer) {
	delete(p.names, b.name)
	b.name = ""
	b.active = false
	b.refCount = 0
	b.lastUsed = 0
}

// touch records that the buffer's bound voice interacted with it this tick.
func (p *bufferPool) touch(b *soundBuffer, tick uint64) {
	b.lastUsed = tick
}

// release drops one voice reference. A negative count means the play/stop
// bookkeeping is broken somewhere, which is a programmer error, not a
// runtime condition.
func (p *bufferPool) release(b *soundBuffer) {
	b.refCount--
	if b.refCount < 0 {
		panic(fmt.Sprintf("gamesound: refCount of buffer %d (%q) went negative", b.index, b.name))
	}
}
