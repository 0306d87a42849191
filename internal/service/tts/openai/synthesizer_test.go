package openai

import (
	"encoding/binary"
	"testing"
)

func TestDownsampleKeepsEveryThirdSample(t *testing.T) {
	samples := []int16{10, 20, 30, 40, 50, 60, 70}
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}

	out := downsample(raw)
	want := []int16{10, 40, 70}
	if len(out) != len(want) {
		t.Fatalf("got %d samples, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestDownsampleEmpty(t *testing.T) {
	if out := downsample(nil); len(out) != 0 {
		t.Errorf("expected no samples, got %d", len(out))
	}
}

func TestDownsampleOddTrailingByte(t *testing.T) {
	// A truncated trailing byte is ignored rather than read out of bounds.
	raw := []byte{0x01, 0x00, 0x02}
	out := downsample(raw)
	if len(out) != 1 || out[0] != 1 {
		t.Errorf("unexpected samples %v", out)
	}
}
