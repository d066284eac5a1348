package gamesound

import (
	"fmt"

	"github.com/sndforge/gamesound/backend"
	"github.com/sndforge/gamesound/loaders/mp3"
	"github.com/sndforge/gamesound/loaders/oggvorbis"
	"github.com/sndforge/gamesound/loaders/voc"
	"github.com/sndforge/gamesound/loaders/wav"
)

// Format identifies how raw asset bytes passed to Play are encoded.
type Format int

const (
	// FormatRaw is uncompressed PCM; sample rate, bit depth and channel
	// layout come from the Info passed alongside.
	FormatRaw Format = iota
	// FormatVOC is the legacy Creative Voice format.
	FormatVOC
	// FormatWAV is linear PCM in a RIFF container.
	FormatWAV
	// FormatOggVorbis is Vorbis audio in an Ogg container.
	FormatOggVorbis
	// FormatMP3 is MPEG-1/2 layer 3 audio.
	FormatMP3
)

func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatVOC:
		return "voc"
	case FormatWAV:
		return "wav"
	case FormatOggVorbis:
		return "oggvorbis"
	case FormatMP3:
		return "mp3"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// decodeAsset turns asset bytes into uploadable PCM. Decoders are pure and
// keep no state across calls; a failure aborts only the one Play request.
func decodeAsset(format Format, data []byte, info *Info) (backend.PCM, error) {
	switch format {
	case FormatRaw:
		if info.BitRate != 8 && info.BitRate != 16 {
			return backend.PCM{}, fmt.Errorf("raw PCM bit depth must be 8 or 16, got %d", info.BitRate)
		}
		return backend.PCM{
			Data:       data,
			SampleRate: info.SamplingRate,
			BitDepth:   info.BitRate,
			Stereo:     info.Stereo,
		}, nil

	case FormatVOC:
		pcm, rate, err := voc.Decode(data)
		if err != nil {
			return backend.PCM{}, err
		}
		return backend.PCM{Data: pcm, SampleRate: rate, BitDepth: 8, Stereo: false}, nil

	case FormatWAV:
		a, err := wav.Decode(data)
		if err != nil {
			return backend.PCM{}, err
		}
		return backend.PCM{Data: a.Data, SampleRate: a.SampleRate, BitDepth: a.BitsPerSample, Stereo: a.Stereo}, nil

	case FormatOggVorbis:
		pcm, rate, stereo, err := oggvorbis.Decode(data)
		if err != nil {
			return backend.PCM{}, err
		}
		return backend.PCM{Data: pcm, SampleRate: rate, BitDepth: 16, Stereo: stereo}, nil

	case FormatMP3:
		pcm, rate, err := mp3.Decode(data)
		if err != nil {
			return backend.PCM{}, err
		}
		return backend.PCM{Data: pcm, SampleRate: rate, BitDepth: 16, Stereo: true}, nil
	}
	return backend.PCM{}, fmt.Errorf("unknown sound format %v", format)
}
