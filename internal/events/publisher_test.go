package events

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"ai-voice-reception-service/internal/models"
)

func newDisabledPublisher() *Publisher {
	return New(&Config{Enabled: false}, nil, zerolog.Nop())
}

func TestPublisher_DisabledMode(t *testing.T) {
	p := newDisabledPublisher()

	ev := models.UtteranceTranscribed{
		EventType: "call.utterance.transcribed",
		CallSID:   "CA123",
		Text:      "hello",
	}

	if err := p.PublishTranscript(context.Background(), "CA123", "call.utterance.transcribed", ev); err != nil {
		t.Errorf("disabled publish should not error: %v", err)
	}

	outcome := models.CallEnded{
		EventType: "call.ended",
		CallSID:   "CA123",
		Reason:    "stop",
	}
	if err := p.PublishCall(context.Background(), "CA123", "call.ended", outcome); err != nil {
		t.Errorf("disabled publish should not error: %v", err)
	}
}

func TestPublisher_NilConfig(t *testing.T) {
	p := New(nil, nil, zerolog.Nop())

	if p.enabled {
		t.Error("nil config should produce a disabled publisher")
	}
	if err := p.PublishCall(context.Background(), "CA123", "call.started", models.CallStarted{}); err != nil {
		t.Errorf("nil-config publish should not error: %v", err)
	}
}

func TestPublisher_MarshalFailure(t *testing.T) {
	p := newDisabledPublisher()

	// Channels are not JSON-serializable.
	if err := p.PublishCall(context.Background(), "CA123", "call.started", make(chan int)); err == nil {
		t.Error("expected marshal error for unserializable payload")
	}
}

func TestPublisher_Close_Disabled(t *testing.T) {
	p := newDisabledPublisher()

	if err := p.Close(); err != nil {
		t.Errorf("closing disabled publisher should not error: %v", err)
	}
}
