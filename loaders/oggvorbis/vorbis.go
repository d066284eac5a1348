// Package oggvorbis decodes Ogg Vorbis data to 16-bit PCM.
package oggvorbis

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

// DecodeFile reads and decodes an Ogg Vorbis file from disk.
func DecodeFile(path string) ([]byte, int, bool, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, false, fmt.Errorf("%s: failed to open: %w", path, err)
	}

	pcm, rate, stereo, err := Decode(rawData)
	if err != nil {
		return nil, 0, false, fmt.Errorf("%s: %w", path, err)
	}
	return pcm, rate, stereo, nil
}

// Decode decompresses Ogg Vorbis data, returning interleaved 16-bit
// little-endian PCM, the sample rate, and whether the data is stereo.
func Decode(oggData []byte) ([]byte, int, bool, error) {
	data, format, err := oggvorbis.ReadAll(bytes.NewReader(oggData))
	if err != nil {
		return nil, 0, false, err
	}
	if format.Channels != 1 && format.Channels != 2 {
		return nil, 0, false, fmt.Errorf("number of channels must be 1 or 2 but was %d", format.Channels)
	}

	pcm := make([]byte, len(data)*2)
	for i, f := range data {
		v := int16(max(min(f, 1), -1) * 32767)
		pcm[i*2] = byte(v)
		pcm[i*2+1] = byte(v >> 8)
	}
	return pcm, format.SampleRate, format.Channels == 2, nil
}
