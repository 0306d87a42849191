// Package audio provides the telephony audio pipeline: G.711 μ-law
// codec, voice activity detection and speech accumulation.
package audio

// Telephony audio format: G.711 μ-law, 8kHz mono. One wire byte is one
// sample, so a 20ms frame is 160 bytes.
const (
	SampleRate     = 8000
	FrameBytes     = 160
	BytesPerSample = 1
)

const (
	muLawBias = 0x84
	muLawClip = 32635
)

var muLawDecodeTable = buildMuLawDecodeTable()

func buildMuLawDecodeTable() [256]int16 {
	var t [256]int16
	for i := 0; i < 256; i++ {
		u := ^byte(i)
		sign := u & 0x80
		exponent := (u >> 4) & 0x07
		mantissa := u & 0x0F
		magnitude := ((int32(mantissa)<<3 + muLawBias) << exponent) - muLawBias
		if sign != 0 {
			t[i] = int16(-magnitude)
		} else {
			t[i] = int16(magnitude)
		}
	}
	return t
}

// DecodeMuLaw expands μ-law wire bytes into linear 16-bit samples.
func DecodeMuLaw(data []byte) []int16 {
	out := make([]int16, len(data))
	for i, b := range data {
		out[i] = muLawDecodeTable[b]
	}
	return out
}

// EncodeMuLaw compands linear 16-bit samples into μ-law wire bytes.
func EncodeMuLaw(samples []int16) []byte {
	out := make([]byte, len(samples))
	for i, s := range samples {
		out[i] = encodeMuLawSample(s)
	}
	return out
}

func encodeMuLawSample(s int16) byte {
	var sign byte
	v := int32(s)
	if v < 0 {
		v = -v
		sign = 0x80
	}
	if v > muLawClip {
		v = muLawClip
	}
	v += muLawBias

	exponent := byte(7)
	for mask := int32(0x4000); v&mask == 0 && exponent > 0; mask >>= 1 {
		exponent--
	}
	mantissa := byte(v>>(exponent+3)) & 0x0F

	return ^(sign | exponent<<4 | mantissa)
}

// PCMBytes serializes samples as little-endian 16-bit PCM, the layout
// the STT collaborators expect.
func PCMBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		out[2*i] = byte(s)
		out[2*i+1] = byte(s >> 8)
	}
	return out
}
