// Package whisper provides an OpenAI Whisper transcription adapter.
package whisper

import (
	"bytes"
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"ai-voice-reception-service/internal/service/stt"
)

// Whisper does not report per-utterance confidence, so accepted
// transcripts carry a fixed score.
const defaultConfidence = 0.92

// Adapter implements stt.Transcriber using the OpenAI audio
// transcription endpoint. Linear PCM is wrapped in a WAV container
// before upload since the API identifies the format by file extension.
type Adapter struct {
	client       *openai.Client
	language     string
	sampleRateHz int
}

// New creates a Whisper adapter. The language code is the BCP-47 tag
// from configuration ("en-US"); Whisper wants the bare ISO 639-1 code.
func New(apiKey, language string, sampleRateHz int) *Adapter {
	lang, _, _ := strings.Cut(language, "-")
	return &Adapter{
		client:       openai.NewClient(apiKey),
		language:     lang,
		sampleRateHz: sampleRateHz,
	}
}

func (a *Adapter) Transcribe(ctx context.Context, pcm []int16) (stt.Result, error) {
	if len(pcm) == 0 {
		return stt.Result{}, nil
	}

	resp, err := a.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: "utterance.wav",
		Reader:   bytes.NewReader(wrapWAV(pcm, a.sampleRateHz)),
		Language: a.language,
	})
	if err != nil {
		return stt.Result{}, err
	}

	return stt.Result{
		Text:       strings.TrimSpace(resp.Text),
		Confidence: defaultConfidence,
	}, nil
}
