// Package mock provides a silence-emitting synthesizer for local runs
// and tests.
package mock

import "context"

// BytesPerChar sizes the fake audio so playback duration scales with
// the reply length, roughly matching a real voice at telephone rate.
const BytesPerChar = 60

// Synthesizer implements tts.Synthesizer with mu-law silence. The
// output length is proportional to the input text so playback and
// barge-in behave realistically.
type Synthesizer struct{}

func New() *Synthesizer {
	return &Synthesizer{}
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := len(text) * BytesPerChar
	if n == 0 {
		return nil, nil
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = 0xFF // mu-law zero amplitude
	}
	return out, nil
}
