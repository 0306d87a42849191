package whisper

import "encoding/binary"

// wrapWAV puts 16-bit mono PCM samples into a minimal RIFF/WAVE
// container (PCM format 1, single data chunk).
func wrapWAV(pcm []int16, sampleRateHz int) []byte {
	dataLen := len(pcm) * 2
	buf := make([]byte, 44+dataLen)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRateHz))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRateHz*2)) // byte rate
	binary.LittleEndian.PutUint16(buf[32:34], 2)                      // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16)                     // bits per sample

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(buf[44+i*2:], uint16(s))
	}
	return buf
}
