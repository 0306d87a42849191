// Package tts defines the speech synthesis contract. Implementations
// return 8 kHz G.711 mu-law audio ready to chunk onto the media stream.
package tts

import "context"

// Synthesizer renders text to telephone-rate mu-law audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
