package voc

import (
	"bytes"
	"testing"
)

// vocFile assembles a file with the standard 26-byte header followed by
// the given blocks.
func vocFile(blocks ...[]byte) []byte {
	data := []byte("Creative Voice File\x1a")
	data = append(data, 0x1a, 0x00)             // header size
	data = append(data, 0x0a, 0x01, 0x29, 0x11) // version, checksum
	for _, b := range blocks {
		data = append(data, b...)
	}
	return data
}

func soundBlock(divisor byte, samples []byte) []byte {
	size := len(samples) + 2
	b := []byte{0x01, byte(size), byte(size >> 8), byte(size >> 16), divisor, 0x00}
	return append(b, samples...)
}

func TestDecodeSoundData(t *testing.T) {
	samples := []byte{0x10, 0x80, 0xf0}
	// Divisor 156 gives 1000000/100 = 10000 Hz.
	data := vocFile(soundBlock(156, samples), []byte{0x00})

	pcm, rate, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rate != 10000 {
		t.Fatalf("rate: got %d, want 10000", rate)
	}
	if !bytes.Equal(pcm, samples) {
		t.Fatalf("pcm: got %v, want %v", pcm, samples)
	}
}

func TestDecodeContinuation(t *testing.T) {
	data := vocFile(
		soundBlock(156, []byte{1, 2}),
		[]byte{0x02, 0x02, 0x00, 0x00, 3, 4}, // continuation, 2 bytes
		[]byte{0x00},
	)
	pcm, _, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(pcm, []byte{1, 2, 3, 4}) {
		t.Fatalf("pcm: got %v", pcm)
	}
}

func TestDecodeSilence(t *testing.T) {
	data := vocFile(
		soundBlock(156, []byte{1}),
		[]byte{0x03, 0x03, 0x00, 0x00, 0x02, 0x00, 156}, // 3 samples of silence
		[]byte{0x00},
	)
	pcm, _, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(pcm, []byte{1, 0x80, 0x80, 0x80}) {
		t.Fatalf("pcm: got %v", pcm)
	}
}

func TestDecodeSkipsUnknownBlocks(t *testing.T) {
	data := vocFile(
		[]byte{0x04, 0x02, 0x00, 0x00, 0xaa, 0xbb}, // marker block
		soundBlock(156, []byte{9}),
		[]byte{0x00},
	)
	pcm, rate, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rate != 10000 || !bytes.Equal(pcm, []byte{9}) {
		t.Fatalf("got pcm=%v rate=%d", pcm, rate)
	}
}

func TestDecodeRateFromFirstBlockOnly(t *testing.T) {
	data := vocFile(
		soundBlock(156, []byte{1}), // 10000 Hz
		soundBlock(206, []byte{2}), // would be 20000 Hz
		[]byte{0x00},
	)
	_, rate, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rate != 10000 {
		t.Fatalf("rate: got %d, want the first block's 10000", rate)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", bytes.Repeat([]byte{0x41}, 40)},
		{"truncated block header", vocFile([]byte{0x01, 0x10})},
		{"block exceeds data", vocFile([]byte{0x01, 0xff, 0x00, 0x00, 156, 0x00})},
		{"unsupported codec", vocFile(append([]byte{0x01, 0x03, 0x00, 0x00, 156, 0x04}, 0))},
		{"no sound data", vocFile([]byte{0x00})},
		{"short sound block", vocFile([]byte{0x01, 0x01, 0x00, 0x00, 156})},
		{"short silence block", vocFile(soundBlock(156, []byte{1}), []byte{0x03, 0x02, 0x00, 0x00, 1, 0})},
	}
	for _, tc := range cases {
		if _, _, err := Decode(tc.data); err == nil {
			t.Errorf("%s: Decode succeeded, want error", tc.name)
		}
	}
}
