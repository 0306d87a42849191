package mock

import (
	"context"
	"testing"

	"ai-voice-reception-service/internal/service/stt"
)

func TestAdapterCyclesScript(t *testing.T) {
	a := NewScripted(
		stt.Result{Text: "one", Confidence: 0.9},
		stt.Result{Text: "two", Confidence: 0.8},
	)

	ctx := context.Background()
	for i, want := range []string{"one", "two", "one"} {
		res, err := a.Transcribe(ctx, nil)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if res.Text != want {
			t.Errorf("call %d: got %q, want %q", i, res.Text, want)
		}
	}
}

func TestAdapterHonorsContext(t *testing.T) {
	a := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.Transcribe(ctx, nil); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestAdapterEmptyScript(t *testing.T) {
	a := NewScripted()
	res, err := a.Transcribe(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "" {
		t.Errorf("expected empty result, got %q", res.Text)
	}
}
