// Package wav provides a WAV (RIFF) decoder for linear PCM files.
package wav

import (
	"bytes"
	"fmt"
	"os"
)

// Audio is decoded WAV content, ready for upload to an audio backend.
type Audio struct {
	Data          []byte
	SampleRate    int
	BitsPerSample int // 8 or 16
	Stereo        bool
}

// DecodeFile reads and decodes a WAV file from disk.
func DecodeFile(path string) (*Audio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Decode parses WAV data. Mono and stereo, 8-bit and 16-bit linear PCM
// are accepted; compressed formats are rejected.
func Decode(data []byte) (*Audio, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("wav: file too short")
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) {
		return nil, fmt.Errorf("wav: invalid header: 'RIFF' not found")
	}
	if !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, fmt.Errorf("wav: invalid header: 'WAVE' not found")
	}

	a := &Audio{}
	sawFmt := false

	// Read chunks
	offset := 12
	for offset+8 <= len(data) {
		buf := data[offset : offset+8]
		offset += 8
		size := int(buf[4]) | int(buf[5])<<8 | int(buf[6])<<16 | int(buf[7])<<24
		if size < 0 || offset+size > len(data) {
			return nil, fmt.Errorf("wav: truncated chunk %q", buf[0:4])
		}
		switch {
		case bytes.Equal(buf[0:4], []byte("fmt ")):
			// Size of 'fmt' header is usually 16, but can be more than 16.
			if size < 16 {
				return nil, fmt.Errorf("wav: invalid header: maybe non-PCM file?")
			}
			buf := data[offset : offset+size]
			format := int(buf[0]) | int(buf[1])<<8
			if format != 1 {
				return nil, fmt.Errorf("wav: format must be linear PCM")
			}
			channelCount := int(buf[2]) | int(buf[3])<<8
			switch channelCount {
			case 1:
				a.Stereo = false
			case 2:
				a.Stereo = true
			default:
				return nil, fmt.Errorf("wav: number of channels must be 1 or 2 but was %d", channelCount)
			}
			bitsPerSample := int(buf[14]) | int(buf[15])<<8
			if bitsPerSample != 8 && bitsPerSample != 16 {
				return nil, fmt.Errorf("wav: bits per sample must be 8 or 16 but was %d", bitsPerSample)
			}
			a.BitsPerSample = bitsPerSample
			a.SampleRate = int(buf[4]) | int(buf[5])<<8 | int(buf[6])<<16 | int(buf[7])<<24
			sawFmt = true
			offset += size
		case bytes.Equal(buf[0:4], []byte("data")):
			if !sawFmt {
				return nil, fmt.Errorf("wav: 'data' chunk before 'fmt '")
			}
			a.Data = data[offset : offset+size]
			return a, nil
		default:
			offset += size
		}
	}
	return nil, fmt.Errorf("wav: no 'data' chunk found")
}
