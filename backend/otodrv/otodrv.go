// Package otodrv implements the gamesound backend on top of the oto
// library. Buffers keep their PCM data in process memory; each voice is a
// small software mixer stream that converts its bound buffer to the device
// format on the fly, applying gain, stereo pan and looping per frame.
package otodrv

import (
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/sndforge/gamesound/backend"
)

const deviceChannels = 2

// Options configures the audio device.
type Options struct {
	// SampleRate is the device mixing rate. Defaults to 44100. Buffers
	// with other rates are resampled by their voice on playback.
	SampleRate int

	// BufferSize is the requested device buffer length. Zero selects the
	// driver default. Smaller values reduce latency at the risk of
	// glitches.
	BufferSize time.Duration
}

// Device is an audio output backed by oto. It implements backend.Device.
type Device struct {
	ctx        *oto.Context
	sampleRate int
}

// New opens the default audio output. It blocks until the driver is ready.
func New(opts *Options) (*Device, error) {
	sampleRate := 44100
	var bufferSize time.Duration
	if opts != nil {
		if opts.SampleRate > 0 {
			sampleRate = opts.SampleRate
		}
		bufferSize = opts.BufferSize
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: deviceChannels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("otodrv: opening device: %w", err)
	}
	<-ready

	return &Device{ctx: ctx, sampleRate: sampleRate}, nil
}

func (d *Device) NewBuffer() (backend.Buffer, error) {
	return &buffer{}, nil
}

func (d *Device) NewVoice() (backend.Voice, error) {
	v := &voice{dev: d}
	v.gain.Store(math.Float32bits(1))
	return v, nil
}

// Close suspends the device. oto contexts cannot be destroyed, so a closed
// Device simply stops consuming samples.
func (d *Device) Close() error {
	return d.ctx.Suspend()
}

type buffer struct {
	pcm backend.PCM
}

func (b *buffer) Upload(pcm backend.PCM) error {
	if pcm.SampleRate <= 0 {
		return fmt.Errorf("otodrv: invalid sample rate %d", pcm.SampleRate)
	}
	if pcm.BitDepth != 8 && pcm.BitDepth != 16 {
		return fmt.Errorf("otodrv: unsupported bit depth %d", pcm.BitDepth)
	}
	if len(pcm.Data) == 0 {
		return fmt.Errorf("otodrv: empty sample data")
	}
	b.pcm = pcm
	return nil
}

func (b *buffer) Close() error {
	b.pcm = backend.PCM{}
	return nil
}

// voice renders one buffer at a time. A fresh oto player is created per
// Play; Stop discards it along with anything it buffered ahead.
//
// Gain, pan and loop are atomics rather than mutex-guarded: the device
// mixer goroutine reads them from inside stream.Read, which must never
// contend with a voice method that is itself calling into the player.
type voice struct {
	dev *Device

	mu     sync.Mutex // guards buf, player, paused
	buf    *buffer
	player *oto.Player
	paused bool

	gain atomic.Uint32 // float32 bits
	pan  atomic.Uint32 // float32 bits
	loop atomic.Bool
}

func (v *voice) SetBuffer(b backend.Buffer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if b == nil {
		v.buf = nil
		return
	}
	v.buf = b.(*buffer)
}

func (v *voice) Play() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.paused && v.player != nil {
		v.player.Play()
		v.paused = false
		return
	}
	if v.buf == nil || len(v.buf.pcm.Data) == 0 {
		return
	}
	if v.player != nil {
		v.player.Close()
	}
	v.player = v.dev.ctx.NewPlayer(newStream(v, v.buf.pcm))
	v.paused = false
	v.player.Play()
}

func (v *voice) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.player != nil && !v.paused {
		v.player.Pause()
		v.paused = true
	}
}

func (v *voice) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.player != nil {
		v.player.Close()
		v.player = nil
	}
	v.paused = false
}

func (v *voice) SetGain(gain float32) {
	v.gain.Store(math.Float32bits(gain))
}

func (v *voice) Gain() float32 {
	return math.Float32frombits(v.gain.Load())
}

func (v *voice) SetPan(pan float32) {
	v.pan.Store(math.Float32bits(pan))
}

func (v *voice) SetLooping(loop bool) {
	v.loop.Store(loop)
}

// SetDistance is accepted for interface completeness. The software mixer
// has no distance model; pan and gain fully describe a 2D source.
func (v *voice) SetDistance(ref, max float32) {}

func (v *voice) State() backend.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.player == nil {
		return backend.Stopped
	}
	if v.paused {
		return backend.Paused
	}
	if v.player.IsPlaying() {
		return backend.Playing
	}
	return backend.Stopped
}

func (v *voice) Close() error {
	v.Stop()
	return nil
}

// stream converts a buffer's PCM to the device format: signed 16-bit
// little-endian stereo at the device rate, nearest-neighbor resampled,
// with the voice's current gain and pan applied per frame.
type stream struct {
	v   *voice
	pcm backend.PCM

	srcFrames int // total frames in the source
	outFrame  int // next device frame to produce
}

func newStream(v *voice, pcm backend.PCM) *stream {
	bytesPerFrame := pcm.BitDepth / 8
	if pcm.Stereo {
		bytesPerFrame *= 2
	}
	return &stream{
		v:         v,
		pcm:       pcm,
		srcFrames: len(pcm.Data) / bytesPerFrame,
	}
}

func (s *stream) Read(p []byte) (int, error) {
	gain := math.Float32frombits(s.v.gain.Load())
	pan := math.Float32frombits(s.v.pan.Load())
	loop := s.v.loop.Load()

	leftGain := gain * min(1, 1-pan)
	rightGain := gain * min(1, 1+pan)

	const frameBytes = 2 * deviceChannels
	frames := len(p) / frameBytes

	n := 0
	for i := 0; i < frames; i++ {
		src := s.outFrame * s.pcm.SampleRate / s.v.dev.sampleRate
		if src >= s.srcFrames {
			if !loop || s.srcFrames == 0 {
				if n == 0 {
					return 0, io.EOF
				}
				return n, nil
			}
			src %= s.srcFrames
		}

		l, r := s.sample(src)
		writeInt16(p[n:], scale(l, leftGain))
		writeInt16(p[n+2:], scale(r, rightGain))
		n += frameBytes
		s.outFrame++
	}
	return n, nil
}

// sample fetches one source frame as signed 16-bit left/right values.
// 8-bit data is unsigned, as produced by VOC and 8-bit WAV assets.
func (s *stream) sample(frame int) (int16, int16) {
	if s.pcm.BitDepth == 8 {
		if s.pcm.Stereo {
			l := (int16(s.pcm.Data[frame*2]) - 128) << 8
			r := (int16(s.pcm.Data[frame*2+1]) - 128) << 8
			return l, r
		}
		m := (int16(s.pcm.Data[frame]) - 128) << 8
		return m, m
	}
	if s.pcm.Stereo {
		l := int16(s.pcm.Data[frame*4]) | int16(s.pcm.Data[frame*4+1])<<8
		r := int16(s.pcm.Data[frame*4+2]) | int16(s.pcm.Data[frame*4+3])<<8
		return l, r
	}
	m := int16(s.pcm.Data[frame*2]) | int16(s.pcm.Data[frame*2+1])<<8
	return m, m
}

func scale(sample int16, gain float32) int16 {
	v := float32(sample) * gain
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

func writeInt16(p []byte, v int16) {
	p[0] = byte(v)
	p[1] = byte(v >> 8)
}
