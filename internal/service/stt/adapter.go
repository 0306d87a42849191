// Package stt defines the interface for speech-to-text collaborators.
package stt

import "context"

// Result is one transcription outcome.
type Result struct {
	Text       string
	Confidence float64
}

// Transcriber submits a buffer of linear PCM samples (8kHz mono) and
// receives the transcript text. Implementations must honor ctx
// cancellation and deadlines; callers always attach a timeout.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []int16) (Result, error)
}
