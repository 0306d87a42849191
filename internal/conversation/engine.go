// Package conversation drives the spoken dialogue for one call. It
// classifies each utterance, decides whether to escalate, and produces
// the next assistant line, falling back to a scripted callback promise
// when reply generation is slow or failing.
package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ai-voice-reception-service/internal/config"
	"ai-voice-reception-service/internal/service/reply"
	"ai-voice-reception-service/internal/triage"
)

// Source marks how an utterance reached the engine.
type Source string

const (
	SourceSpeech Source = "speech"
	SourceDTMF   Source = "dtmf"
)

// Utterance is one caller input with its triage outcome attached.
type Utterance struct {
	ID         string
	Text       string
	Confidence float64
	Source     Source
	Timestamp  time.Time
	Fields     triage.Fields
	Result     triage.Result
}

// TurnResult is what the session speaks and does after one utterance.
type TurnResult struct {
	Utterance  Utterance
	ReplyText  string
	Escalate   bool
	EndCall    bool
	Fallback   bool
	GenLatency time.Duration
}

// Engine holds the per-call dialogue state. Caller inputs arrive on
// more than one goroutine (spoken utterances on the transcription
// flush goroutine, DTMF on the connection read loop), so turn handling
// is serialized behind mu: a digit pressed while a transcript resolves
// produces two ordered turns, never interleaved history.
type Engine struct {
	triage  *triage.Engine
	gen     reply.Generator
	clinic  config.ClinicConfig
	timeout time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	history []reply.Turn
	turns   int
}

// NewEngine creates a dialogue engine for one call.
func NewEngine(t *triage.Engine, gen reply.Generator, clinic config.ClinicConfig, timeout time.Duration, log zerolog.Logger) *Engine {
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &Engine{
		triage:  t,
		gen:     gen,
		clinic:  clinic,
		timeout: timeout,
		log:     log,
	}
}

// Greeting is the opening line spoken when the stream starts.
func (e *Engine) Greeting() string {
	return greetingLine(e.clinic)
}

// MaxDurationResult is the closing turn when the call hits its time
// limit. It always ends the call and escalates so staff follow up.
func (e *Engine) MaxDurationResult() TurnResult {
	return TurnResult{
		ReplyText: maxDurationLine(e.clinic),
		Escalate:  true,
		EndCall:   true,
	}
}

// Turns reports how many caller inputs have been handled.
func (e *Engine) Turns() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turns
}

// HandleUtterance runs one spoken caller input through triage and
// reply generation.
func (e *Engine) HandleUtterance(ctx context.Context, text string, confidence float64) TurnResult {
	res := e.triage.Classify(text)
	utt := Utterance{
		ID:         uuid.NewString(),
		Text:       text,
		Confidence: confidence,
		Source:     SourceSpeech,
		Timestamp:  time.Now().UTC(),
		Fields:     triage.Extract(text),
		Result:     res,
	}
	return e.finishTurn(ctx, utt)
}

// HandleDTMF runs one touch-tone digit through the fixed menu.
func (e *Engine) HandleDTMF(ctx context.Context, digit string) TurnResult {
	res := triage.ClassifyDTMF(digit)
	utt := Utterance{
		ID:         uuid.NewString(),
		Text:       digit,
		Confidence: 1.0,
		Source:     SourceDTMF,
		Timestamp:  time.Now().UTC(),
		Result:     res,
	}
	return e.finishTurn(ctx, utt)
}

func (e *Engine) finishTurn(ctx context.Context, utt Utterance) TurnResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.turns++
	tr := TurnResult{
		Utterance: utt,
		Escalate:  utt.Result.Escalate,
	}

	// Escalating directives speak a fixed line and end the automated
	// part of the call.
	if line, ok := directiveLine(utt.Result.Directive, e.clinic); ok && utt.Result.Escalate {
		tr.ReplyText = line
		tr.EndCall = true
		e.remember(utt.Text, line)
		return tr
	}

	genStart := time.Now()
	line, hint, fallback := e.generate(ctx, utt)
	tr.ReplyText = line
	tr.Fallback = fallback
	tr.GenLatency = time.Since(genStart)

	// A generator hint may refine a general classification for the
	// published record. It never changes urgency or escalation, and
	// never reclassifies a triaged intent.
	if hint != "" && utt.Result.Intent == triage.IntentGeneral {
		if refined, ok := refineIntent(hint); ok {
			tr.Utterance.Result.Intent = refined
		}
	}

	e.remember(utt.Text, line)
	return tr
}

func refineIntent(hint string) (triage.Intent, bool) {
	switch triage.Intent(hint) {
	case triage.IntentAppointmentNew, triage.IntentAppointmentModify,
		triage.IntentPrescriptionRefill, triage.IntentInsuranceInquiry:
		return triage.Intent(hint), true
	default:
		return "", false
	}
}

// generate asks the reply collaborator for the next line, bounded by
// the configured timeout. A slow or failing generator degrades to the
// scripted callback promise rather than dead air.
func (e *Engine) generate(ctx context.Context, utt Utterance) (text, hint string, fallback bool) {
	gctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	rep, err := e.gen.Generate(gctx, reply.Request{
		Utterance:  utt.Text,
		History:    e.history,
		ClinicName: e.clinic.Name,
		Intent:     string(utt.Result.Intent),
		Urgency:    utt.Result.Urgency.String(),
	})
	if err != nil {
		e.log.Warn().Err(err).Str("utteranceId", utt.ID).Msg("reply generation failed, using callback fallback")
		return callbackLine(e.clinic), "", true
	}
	if rep.Text == "" {
		return callbackLine(e.clinic), "", true
	}
	return rep.Text, rep.IntentHint, false
}

// FallbackLine is the fixed safe reply spoken when a collaborator
// fails mid-call: promise a staff callback instead of going silent.
func (e *Engine) FallbackLine() string {
	return callbackLine(e.clinic)
}

func (e *Engine) remember(caller, assistant string) {
	e.history = append(e.history, reply.Turn{Caller: caller, Assistant: assistant})
	// Bound the prompt: only the last turns matter for a reception call.
	if len(e.history) > 12 {
		e.history = e.history[len(e.history)-12:]
	}
}
