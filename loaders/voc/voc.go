// Package voc provides a decoder for the legacy Creative Voice (.VOC)
// format used by DOS-era game assets. Only the 8-bit unsigned PCM codec is
// supported, which is what those assets contain in practice.
package voc

import (
	"bytes"
	"fmt"
)

var header = []byte("Creative Voice File\x1a")

const (
	blockTerminator   = 0x00
	blockSoundData    = 0x01
	blockContinuation = 0x02
	blockSilence      = 0x03

	codecPCM8 = 0x00
)

// Decode parses VOC data and returns 8-bit unsigned mono PCM along with
// its sample rate. The rate comes from the first sound-data block; later
// blocks are assumed to share it.
func Decode(data []byte) ([]byte, int, error) {
	if len(data) < 26 || !bytes.Equal(data[:len(header)], header) {
		return nil, 0, fmt.Errorf("voc: invalid header")
	}
	offset := int(data[20]) | int(data[21])<<8
	if offset < 22 || offset > len(data) {
		return nil, 0, fmt.Errorf("voc: header size %d out of range", offset)
	}

	var pcm []byte
	sampleRate := 0

	for offset < len(data) {
		blockType := data[offset]
		offset++
		if blockType == blockTerminator {
			break
		}
		if offset+3 > len(data) {
			return nil, 0, fmt.Errorf("voc: truncated block header")
		}
		size := int(data[offset]) | int(data[offset+1])<<8 | int(data[offset+2])<<16
		offset += 3
		if offset+size > len(data) {
			return nil, 0, fmt.Errorf("voc: block exceeds data size")
		}
		body := data[offset : offset+size]
		offset += size

		switch blockType {
		case blockSoundData:
			if len(body) < 2 {
				return nil, 0, fmt.Errorf("voc: sound data block too short")
			}
			if body[1] != codecPCM8 {
				return nil, 0, fmt.Errorf("voc: unsupported codec 0x%02x", body[1])
			}
			if sampleRate == 0 {
				sampleRate = 1000000 / (256 - int(body[0]))
			}
			pcm = append(pcm, body[2:]...)

		case blockContinuation:
			pcm = append(pcm, body...)

		case blockSilence:
			if len(body) < 3 {
				return nil, 0, fmt.Errorf("voc: silence block too short")
			}
			length := int(body[0]) | int(body[1])<<8
			// Silence in unsigned 8-bit PCM is the midpoint value.
			pcm = append(pcm, bytes.Repeat([]byte{0x80}, length+1)...)

		default:
			// Markers, text, repeat loops: nothing to render.
		}
	}

	if sampleRate == 0 || len(pcm) == 0 {
		return nil, 0, fmt.Errorf("voc: no sound data")
	}
	return pcm, sampleRate, nil
}
