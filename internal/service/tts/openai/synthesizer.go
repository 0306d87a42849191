// Package openai provides an OpenAI text-to-speech synthesizer.
package openai

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"ai-voice-reception-service/internal/audio"
)

// The PCM response format is 24 kHz 16-bit mono; the media stream wants
// 8 kHz mu-law, so every third sample survives.
const (
	sourceRateHz = 24000
	decimation   = sourceRateHz / audio.SampleRate
)

// Synthesizer renders text with the OpenAI speech endpoint and
// downsamples the result to telephone rate.
type Synthesizer struct {
	client *openai.Client
	voice  openai.SpeechVoice
}

// New creates a synthesizer speaking with the given voice ("alloy",
// "nova", ...).
func New(apiKey, voice string) *Synthesizer {
	return &Synthesizer{
		client: openai.NewClient(apiKey),
		voice:  openai.SpeechVoice(voice),
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, fmt.Errorf("create speech: %w", err)
	}
	defer resp.Close()

	raw, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech body: %w", err)
	}

	return audio.EncodeMuLaw(downsample(raw)), nil
}

// downsample converts little-endian 24 kHz PCM bytes to 8 kHz samples
// by keeping every third sample. Fine for speech over a phone line; a
// proper low-pass filter is not worth the latency here.
func downsample(raw []byte) []int16 {
	n := len(raw) / 2
	out := make([]int16, 0, n/decimation+1)
	for i := 0; i+1 < len(raw); i += 2 * decimation {
		out = append(out, int16(binary.LittleEndian.Uint16(raw[i:i+2])))
	}
	return out
}
