// Package gamesound maps named sound assets to a bounded pool of decoded
// audio buffers and live playback requests to a bounded pool of hardware
// voices. Callers refer to running sounds through generation-checked
// handles, so a handle that outlives its sound simply stops matching
// instead of controlling whatever reused the slot.
//
// A single System instance is safe for concurrent use from a simulation
// thread and an audio-polling thread; one internal lock serializes all
// state. Call Update once per frame to detect naturally finished sounds.
package gamesound

import (
	"fmt"
	"log"
	"sync"

	"github.com/sndforge/gamesound/backend"
)

// 2D sources sit at a fixed falloff configuration; pan is encoded as a
// position offset along the listener's x axis.
const (
	referenceDistance = 15.0
	maxDistance       = 200.0
)

// Info carries the per-request playback parameters for Play.
type Info struct {
	Volume       float32
	Pan          float32 // -1 (left) .. 1 (right)
	SamplingRate int     // raw PCM only
	BitRate      int     // raw PCM only: 8 or 16
	Stereo       bool    // raw PCM only
	UserTag      uint32  // returned through the completion callback
}

// CompletionFunc is invoked from Update for every sound that finished
// naturally. It runs with the system lock held and must not call back
// into the System.
type CompletionFunc func(userTag uint32)

// System owns the buffer and voice pools over one backend Device.
type System struct {
	mu sync.Mutex

	dev     backend.Device
	buffers *bufferPool
	voices  *voiceTable
	native  []backend.Voice // one per voice slot

	tick         uint64
	globalVolume float32
	callback     CompletionFunc
	enabled      bool
	logger       *log.Logger
}

// New creates a System over the given device. If the device is nil or
// allocating the pools fails, the returned System is permanently disabled:
// every operation is a safe no-op and Play returns InvalidHandle. The
// returned error describes why; the System itself is always usable.
func New(dev backend.Device, opts *Options) (*System, error) {
	o := opts.sanitized()
	logger := o.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &System{
		buffers:      newBufferPool(o.Buffers),
		voices:       newVoiceTable(o.Voices),
		tick:         1,
		globalVolume: o.GlobalVolume,
		logger:       logger,
	}

	if dev == nil {
		logger.Printf("gamesound: no audio device, sound disabled")
		return s, backend.ErrDeviceNotFound
	}

	for i := range s.buffers.slots {
		b, err := dev.NewBuffer()
		if err != nil {
			s.releaseNative()
			dev.Close()
			logger.Printf("gamesound: cannot allocate audio buffers, sound disabled: %v", err)
			return s, fmt.Errorf("allocating buffer %d: %w", i, err)
		}
		s.buffers.slots[i].native = b
	}
	for i := 0; i < o.Voices; i++ {
		v, err := dev.NewVoice()
		if err != nil {
			s.releaseNative()
			dev.Close()
			logger.Printf("gamesound: cannot allocate audio voices, sound disabled: %v", err)
			return s, fmt.Errorf("allocating voice %d: %w", i, err)
		}
		s.native = append(s.native, v)
	}

	s.dev = dev
	s.enabled = true
	logger.Printf("gamesound: initialized with %d buffers, %d voices", o.Buffers, o.Voices)
	return s, nil
}

func (s *System) releaseNative() {
	for i := range s.buffers.slots {
		if b := s.buffers.slots[i].native; b != nil {
			b.Close()
			s.buffers.slots[i].native = nil
		}
	}
	for _, v := range s.native {
		v.Close()
	}
	s.native = nil
}

// Enabled reports whether the system came up with a working device.
func (s *System) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Close stops everything and frees all native resources. The System is
// disabled afterwards.
func (s *System) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	s.stopAllLocked()
	s.releaseNative()
	s.dev.Close()
	s.dev = nil
	s.enabled = false
}

// Reset stops every voice and wipes all pool bookkeeping, including the
// name cache. Used at scene transitions where cached assets should not
// survive.
func (s *System) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	s.stopAllLocked()
	for i := range s.buffers.slots {
		b := &s.buffers.slots[i]
		b.name = ""
		b.active = false
		b.lastUsed = 0
	}
	clear(s.buffers.names)
}

// StopAll forcibly stops every voice and zeroes all buffer reference
// counts. Cached buffer data stays resident.
func (s *System) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	s.stopAllLocked()
}

func (s *System) stopAllLocked() {
	for i := range s.voices.slots {
		s.native[i].Stop()
		s.native[i].SetBuffer(nil)
		v := &s.voices.slots[i]
		v.buffer = 0
		v.flags &^= voicePlaying | voiceLooping | voicePaused
	}
	for i := range s.buffers.slots {
		s.buffers.slots[i].refCount = 0
	}
}

// SetCompletionCallback registers fn to be called from Update whenever a
// sound finishes playing on its own. Pass nil to unregister.
func (s *System) SetCompletionCallback(fn CompletionFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callback = fn
}

// Play starts the named sound and returns a handle for controlling it.
// The decoded data is cached under name, so repeated plays of the same
// asset skip the decode and upload. Play returns InvalidHandle when the
// system is disabled, when every buffer slot is still referenced, when
// decoding or uploading fails, or when all voices are busy; it never
// interrupts an audible sound to make room.
func (s *System) Play(name string, data []byte, format Format, info *Info, looping bool) Handle {
	if info == nil {
		info = &Info{Volume: 1}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return InvalidHandle
	}

	buf := s.buffers.acquire(name)
	if buf == nil {
		return InvalidHandle
	}

	if !buf.active {
		pcm, err := decodeAsset(format, data, info)
		if err != nil {
			s.logger.Printf("gamesound: sound %q has invalid data: %v", name, err)
			s.buffers.rollback(buf)
			return InvalidHandle
		}
		if err := buf.native.Upload(pcm); err != nil {
			s.logger.Printf("gamesound: cannot upload sound %q: %v", name, err)
			s.buffers.rollback(buf)
			return InvalidHandle
		}
		s.buffers.markLoaded(buf)
	}

	slot, ok := s.voices.allocate(buf.index)
	if !ok {
		// All voices busy. The buffer stays cached for the next attempt.
		return InvalidHandle
	}

	v := &s.voices.slots[slot]
	nv := s.native[slot]
	nv.Stop()
	nv.SetBuffer(buf.native)
	nv.SetDistance(referenceDistance, maxDistance)
	nv.SetPan(info.Pan)
	nv.SetLooping(looping)
	nv.SetGain(min(info.Volume*s.globalVolume, 1))
	nv.Play()

	v.flags |= voicePlaying
	if looping {
		v.flags |= voiceLooping
	}
	v.userTag = info.UserTag

	buf.refCount++
	s.buffers.touch(buf, s.tick)

	return makeHandle(buf.index, slot, v.generation)
}

// PlayOneShot plays a fire-and-forget sound, reporting only whether it
// started.
func (s *System) PlayOneShot(name string, data []byte, format Format, info *Info) bool {
	return s.Play(name, data, format, info, false) != InvalidHandle
}

// liveVoice resolves a handle to its voice slot, or -1 when the handle no
// longer refers to a live session. Stale handles are expected: a sound can
// finish between the caller's decision and its next call.
func (s *System) liveVoice(h Handle) int {
	if !s.enabled || h == InvalidHandle {
		return -1
	}
	slot := h.voiceSlot()
	if !s.voices.isLive(slot, h.bufferSlot(), h.generation()) {
		return -1
	}
	return slot
}

// Stop halts the sound if it is currently playing. Stale handles and
// already-stopped sounds are no-ops. The voice stays bound to its session
// until reallocated, so IsActive keeps reporting true.
func (s *System) Stop(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.liveVoice(h)
	if slot < 0 {
		return
	}
	v := &s.voices.slots[slot]
	if !v.flags.has(voicePlaying) {
		return
	}

	s.native[slot].Stop()
	s.native[slot].SetBuffer(nil)
	v.flags &^= voicePlaying | voiceLooping | voicePaused
	s.buffers.release(&s.buffers.slots[v.buffer])
}

// Pause suspends a playing sound. No-op unless the handle is live and the
// sound is playing.
func (s *System) Pause(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.liveVoice(h)
	if slot < 0 {
		return
	}
	v := &s.voices.slots[slot]
	if !v.flags.has(voicePlaying) {
		return
	}

	s.native[slot].Pause()
	v.flags &^= voicePlaying
	v.flags |= voicePaused
	s.buffers.touch(&s.buffers.slots[v.buffer], s.tick)
}

// Resume restarts a paused sound. No-op unless the handle is live and the
// sound is paused.
func (s *System) Resume(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.liveVoice(h)
	if slot < 0 {
		return
	}
	v := &s.voices.slots[slot]
	if !v.flags.has(voicePaused) {
		return
	}

	s.native[slot].Play()
	v.flags |= voicePlaying
	v.flags &^= voicePaused
	s.buffers.touch(&s.buffers.slots[v.buffer], s.tick)
}

// SetVolume sets the sound's volume, scaled by the global volume and
// clamped to 1.
func (s *System) SetVolume(h Handle, volume float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.liveVoice(h)
	if slot < 0 {
		return
	}
	s.native[slot].SetGain(min(volume*s.globalVolume, 1))
	s.buffers.touch(&s.buffers.slots[s.voices.slots[slot].buffer], s.tick)
}

// SetPan moves the sound's stereo position, -1 (left) to 1 (right).
func (s *System) SetPan(h Handle, pan float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.liveVoice(h)
	if slot < 0 {
		return
	}
	s.native[slot].SetPan(pan)
	s.buffers.touch(&s.buffers.slots[s.voices.slots[slot].buffer], s.tick)
}

// SetGlobalVolume rescales every active voice's current gain by the ratio
// of the new global volume to the old one, clamping each result to 1.
//
// The original per-voice volume is not retained, so repeated calls compound
// on already-clamped gains; the result approximates, rather than recomputes,
// volume*globalVolume. This lossy behavior is deliberate and kept as is.
func (s *System) SetGlobalVolume(volume float32) {
	volume = min(max(volume, 0), 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || volume == s.globalVolume {
		return
	}

	scale := float32(1)
	if s.globalVolume > 0 {
		scale = volume / s.globalVolume
	}
	for i := range s.voices.slots {
		if !s.voices.slots[i].flags.has(voiceActive) {
			continue
		}
		nv := s.native[i]
		nv.SetGain(min(nv.Gain()*scale, 1))
	}
	s.globalVolume = volume
}

// IsActive reports whether the handle still refers to a live session.
// A session stays live after an explicit Stop (until its voice slot is
// reused), but not after natural completion is detected by Update.
func (s *System) IsActive(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveVoice(h) >= 0
}

// IsPlaying reports whether the handle's sound is currently playing.
func (s *System) IsPlaying(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.liveVoice(h)
	return slot >= 0 && s.voices.slots[slot].flags.has(voicePlaying)
}

// IsLooping reports whether the handle's sound is playing in a loop.
func (s *System) IsLooping(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.liveVoice(h)
	return slot >= 0 && s.voices.slots[slot].flags.has(voiceLooping)
}

// ActiveVoiceCount returns the number of voices currently playing.
func (s *System) ActiveVoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return 0
	}
	return s.voices.countPlaying()
}

// Update polls every playing voice once and advances the tick counter.
// Call it once per frame from a single place, typically the audio or game
// loop. Sounds whose driver state reports stopped are retired: the
// completion callback fires with their user tag, the buffer reference is
// dropped and the voice becomes free.
func (s *System) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}

	for i := range s.voices.slots {
		v := &s.voices.slots[i]
		if !v.flags.has(voicePlaying) {
			continue
		}
		state := s.native[i].State()
		if state == backend.Stopped {
			// Finished naturally rather than via Stop.
			if s.callback != nil {
				s.callback(v.userTag)
			}
			s.buffers.release(&s.buffers.slots[v.buffer])
			v.flags = 0
			continue
		}
		if state != backend.Paused && v.flags.has(voicePaused) {
			// Resync a paused flag the driver no longer agrees with.
			v.flags &^= voicePaused
		}
	}

	s.tick++
}
