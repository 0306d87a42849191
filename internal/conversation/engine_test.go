package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ai-voice-reception-service/internal/config"
	"ai-voice-reception-service/internal/service/reply"
	"ai-voice-reception-service/internal/triage"
)

type fakeGenerator struct {
	reply reply.Reply
	err   error
	delay time.Duration
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, req reply.Request) (reply.Reply, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return reply.Reply{}, ctx.Err()
		}
	}
	return f.reply, f.err
}

func testClinic() config.ClinicConfig {
	return config.ClinicConfig{
		Name:                   "Sunrise Veterinary Clinic",
		EmergencyNumber:        "+1-555-0100",
		PoisonControlNumber:    "+1-555-0111",
		TransferNumber:         "+1-555-0122",
		CallbackPromiseMinutes: 10,
	}
}

func newTestEngine(gen reply.Generator) *Engine {
	return NewEngine(triage.NewEngine(), gen, testClinic(), time.Second, zerolog.Nop())
}

func TestHandleUtterance_EmergencySpeaksScriptedLineAndEndsCall(t *testing.T) {
	gen := &fakeGenerator{reply: reply.Reply{Text: "should not be used"}}
	e := newTestEngine(gen)

	tr := e.HandleUtterance(context.Background(), "my dog is bleeding and unconscious", 0.9)
	if !tr.Escalate {
		t.Error("expected escalation")
	}
	if !tr.EndCall {
		t.Error("expected end of call")
	}
	if !strings.Contains(tr.ReplyText, "emergency") {
		t.Errorf("expected scripted emergency line, got %q", tr.ReplyText)
	}
	if gen.calls != 0 {
		t.Error("escalating turns must not call the reply generator")
	}
}

func TestHandleUtterance_PoisonSpeaksPoisonLine(t *testing.T) {
	e := newTestEngine(&fakeGenerator{})

	tr := e.HandleUtterance(context.Background(), "he ate chocolate an hour ago", 0.9)
	if !tr.Escalate || !tr.EndCall {
		t.Error("poison exposure must escalate and end the call")
	}
	if !strings.Contains(tr.ReplyText, "poison control") {
		t.Errorf("expected poison control number in reply, got %q", tr.ReplyText)
	}
}

func TestHandleUtterance_GeneratorReplyUsed(t *testing.T) {
	gen := &fakeGenerator{reply: reply.Reply{Text: "What day works best for you?"}}
	e := newTestEngine(gen)

	tr := e.HandleUtterance(context.Background(), "I'd like to book a checkup for my cat", 0.9)
	if tr.Escalate || tr.EndCall {
		t.Error("appointment request must not escalate or end the call")
	}
	if tr.ReplyText != "What day works best for you?" {
		t.Errorf("unexpected reply %q", tr.ReplyText)
	}
	if tr.Fallback {
		t.Error("successful generation is not a fallback")
	}
	if tr.Utterance.Result.Intent != triage.IntentAppointmentNew {
		t.Errorf("unexpected intent %s", tr.Utterance.Result.Intent)
	}
}

func TestHandleUtterance_GeneratorFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	e := newTestEngine(gen)

	tr := e.HandleUtterance(context.Background(), "what are your opening hours", 0.9)
	if !tr.Fallback {
		t.Error("expected fallback reply")
	}
	if !strings.Contains(tr.ReplyText, "call you back within 10 minutes") {
		t.Errorf("expected callback promise, got %q", tr.ReplyText)
	}
	if tr.EndCall {
		t.Error("fallback must not end the call")
	}
}

func TestHandleUtterance_GeneratorTimeoutFallsBack(t *testing.T) {
	gen := &fakeGenerator{delay: 200 * time.Millisecond, reply: reply.Reply{Text: "late"}}
	e := NewEngine(triage.NewEngine(), gen, testClinic(), 20*time.Millisecond, zerolog.Nop())

	tr := e.HandleUtterance(context.Background(), "what are your opening hours", 0.9)
	if !tr.Fallback {
		t.Error("expected fallback when generation exceeds its timeout")
	}
}

func TestHandleUtterance_HintRefinesGeneralOnly(t *testing.T) {
	gen := &fakeGenerator{reply: reply.Reply{Text: "ok", IntentHint: "prescription_refill"}}
	e := newTestEngine(gen)

	tr := e.HandleUtterance(context.Background(), "it's about my dog again", 0.9)
	if tr.Utterance.Result.Intent != triage.IntentPrescriptionRefill {
		t.Errorf("expected hint to refine general intent, got %s", tr.Utterance.Result.Intent)
	}
	if tr.Escalate {
		t.Error("a hint never changes escalation")
	}
}

func TestHandleUtterance_HintCannotOverrideTriage(t *testing.T) {
	gen := &fakeGenerator{reply: reply.Reply{Text: "ok", IntentHint: "general"}}
	e := newTestEngine(gen)

	tr := e.HandleUtterance(context.Background(), "I need a refill for my dog's medication", 0.9)
	if tr.Utterance.Result.Intent != triage.IntentPrescriptionRefill {
		t.Errorf("hint must not reclassify a triaged intent, got %s", tr.Utterance.Result.Intent)
	}
}

func TestHandleDTMF_EmergencyDigit(t *testing.T) {
	gen := &fakeGenerator{}
	e := newTestEngine(gen)

	tr := e.HandleDTMF(context.Background(), "2")
	if !tr.Escalate || !tr.EndCall {
		t.Error("digit 2 must escalate and end the call")
	}
	if gen.calls != 0 {
		t.Error("escalating digits must not call the reply generator")
	}
	if tr.Utterance.Source != SourceDTMF {
		t.Errorf("unexpected source %s", tr.Utterance.Source)
	}
}

func TestHandleDTMF_OperatorTransfer(t *testing.T) {
	e := newTestEngine(&fakeGenerator{})

	tr := e.HandleDTMF(context.Background(), "0")
	if !tr.Escalate || !tr.EndCall {
		t.Error("digit 0 must escalate and end the call")
	}
	if !strings.Contains(tr.ReplyText, "front desk") {
		t.Errorf("expected transfer line, got %q", tr.ReplyText)
	}
	if !strings.Contains(tr.ReplyText, "+1-555-0122") {
		t.Errorf("transfer line must carry the direct number, got %q", tr.ReplyText)
	}
}

func TestHandleDTMF_AppointmentUsesGenerator(t *testing.T) {
	gen := &fakeGenerator{reply: reply.Reply{Text: "What day works best?"}}
	e := newTestEngine(gen)

	tr := e.HandleDTMF(context.Background(), "1")
	if tr.Escalate || tr.EndCall {
		t.Error("digit 1 must not escalate")
	}
	if gen.calls != 1 {
		t.Errorf("expected one generator call, got %d", gen.calls)
	}
}

func TestGreetingNamesClinicAndMenu(t *testing.T) {
	e := newTestEngine(&fakeGenerator{})
	g := e.Greeting()
	if !strings.Contains(g, "Sunrise Veterinary Clinic") {
		t.Errorf("greeting misses clinic name: %q", g)
	}
	if !strings.Contains(g, "press 1") {
		t.Errorf("greeting misses the touch-tone menu: %q", g)
	}
}

func TestMaxDurationResultEscalatesAndEnds(t *testing.T) {
	e := newTestEngine(&fakeGenerator{})
	tr := e.MaxDurationResult()
	if !tr.Escalate || !tr.EndCall {
		t.Error("time limit turn must escalate and end the call")
	}
	if tr.ReplyText == "" {
		t.Error("time limit turn must speak a closing line")
	}
}

func TestHistoryIsBounded(t *testing.T) {
	gen := &fakeGenerator{reply: reply.Reply{Text: "ok"}}
	e := newTestEngine(gen)

	for i := 0; i < 30; i++ {
		e.HandleUtterance(context.Background(), "what are your opening hours", 0.9)
	}
	if len(e.history) > 12 {
		t.Errorf("history grew to %d turns", len(e.history))
	}
	if e.Turns() != 30 {
		t.Errorf("turn count = %d, want 30", e.Turns())
	}
}

// Spoken utterances resolve on the transcription goroutine while DTMF
// arrives on the connection read loop; both must land as whole,
// ordered turns.
func TestEngineTurnsFromConcurrentGoroutines(t *testing.T) {
	gen := &fakeGenerator{reply: reply.Reply{Text: "noted"}}
	e := newTestEngine(gen)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.HandleUtterance(context.Background(), "I need a refill of apoquel for my dog", 0.9)
		}()
		go func() {
			defer wg.Done()
			e.HandleDTMF(context.Background(), "3")
		}()
	}
	wg.Wait()

	if got := e.Turns(); got != 50 {
		t.Errorf("turn count = %d, want 50", got)
	}
	if gen.calls != 50 {
		t.Errorf("generator calls = %d, want 50", gen.calls)
	}
}
