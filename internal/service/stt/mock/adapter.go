// Package mock provides a canned transcriber for local runs and tests
// without cloud credentials.
package mock

import (
	"context"
	"sync"

	"ai-voice-reception-service/internal/service/stt"
)

// DefaultUtterances cycle through typical reception calls.
var DefaultUtterances = []stt.Result{
	{Text: "I'd like to book a checkup for my cat", Confidence: 0.94},
	{Text: "my dog ate chocolate an hour ago", Confidence: 0.91},
	{Text: "I need a refill for my dog's heartworm medication", Confidence: 0.93},
	{Text: "what are your opening hours", Confidence: 0.97},
}

// Adapter implements stt.Transcriber with scripted responses. Each call
// returns the next utterance in sequence; the script wraps around.
type Adapter struct {
	mu     sync.Mutex
	script []stt.Result
	next   int
}

// New returns an adapter serving the default utterance cycle.
func New() *Adapter {
	return &Adapter{script: DefaultUtterances}
}

// NewScripted returns an adapter serving the given results in order.
func NewScripted(script ...stt.Result) *Adapter {
	return &Adapter{script: script}
}

func (a *Adapter) Transcribe(ctx context.Context, pcm []int16) (stt.Result, error) {
	if err := ctx.Err(); err != nil {
		return stt.Result{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.script) == 0 {
		return stt.Result{}, nil
	}
	r := a.script[a.next%len(a.script)]
	a.next++
	return r, nil
}
