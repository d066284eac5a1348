// Package mp3 decodes MP3 data to 16-bit PCM.
package mp3

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// Decode decompresses an entire MP3 stream, returning interleaved 16-bit
// little-endian stereo PCM and the sample rate.
func Decode(data []byte) ([]byte, int, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("mp3: %w", err)
	}
	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3: decode: %w", err)
	}
	return pcm, d.SampleRate(), nil
}
