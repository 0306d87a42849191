// Package telephony runs one websocket media stream per phone call:
// inbound mu-law frames through voice activity detection into the
// speech accumulator, outbound synthesized replies in paced chunks,
// with barge-in cutting playback the moment the caller speaks.
package telephony

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ai-voice-reception-service/internal/audio"
	"ai-voice-reception-service/internal/config"
	"ai-voice-reception-service/internal/conversation"
	"ai-voice-reception-service/internal/events"
	"ai-voice-reception-service/internal/models"
	"ai-voice-reception-service/internal/observability/metrics"
	"ai-voice-reception-service/internal/service/stt"
)

// SessionConfig wires one call session.
type SessionConfig struct {
	CallSid  string
	From     string
	ClinicID string
	Clinic   config.ClinicConfig

	Conn        Conn
	Output      *OutputController
	Convo       *conversation.Engine
	Transcriber stt.Transcriber
	Publisher   *events.Publisher
	Metrics     *metrics.Metrics
	Log         zerolog.Logger

	Audio      config.AudioConfig
	STTTimeout time.Duration
	// MaxCallDuration bounds the call; hitting it speaks a closing
	// line and escalates to a staff callback.
	MaxCallDuration time.Duration
}

// Session owns all state for one call. Inbound events arrive on the
// connection read loop; transcription results arrive on the
// accumulator's flush goroutine; playback runs on its own goroutine.
// The two atomic flags coordinate barge-in between the read loop and
// playback without locks, everything else is guarded by mu.
type Session struct {
	callSid  string
	from     string
	clinicID string
	clinic   config.ClinicConfig

	conn      Conn
	out       *OutputController
	convo     *conversation.Engine
	publisher *events.Publisher
	metrics   *metrics.Metrics
	log       zerolog.Logger

	vad        *audio.Detector
	vadSamples int
	acc        *audio.Accumulator
	maxCall    time.Duration

	// speaking is true while a reply is being streamed out.
	// interrupt requests the current playback to stop.
	speaking  atomic.Bool
	interrupt atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc

	playMu sync.Mutex
	playWG sync.WaitGroup

	mu         sync.Mutex
	state      State
	streamSid  string
	startedAt  time.Time
	maxTimer   *time.Timer
	vadBuf     []int16
	transcript []conversation.Utterance
	escalated  bool
	endReason  string
}

// NewSession creates a session in WAITING_START.
func NewSession(cfg SessionConfig) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		callSid:   cfg.CallSid,
		from:      cfg.From,
		clinicID:  cfg.ClinicID,
		clinic:    cfg.Clinic,
		conn:      cfg.Conn,
		out:       cfg.Output,
		convo:     cfg.Convo,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		log:       cfg.Log,
		vad:       audio.NewDetector(cfg.Audio.VADThreshold),
		maxCall:   cfg.MaxCallDuration,
		ctx:       ctx,
		cancel:    cancel,
		state:     StateWaitingStart,
	}

	window := cfg.Audio.MinVADWindow
	if window <= 0 {
		window = 100 * time.Millisecond
	}
	s.vadSamples = int(window.Seconds() * audio.SampleRate)

	s.acc = audio.NewAccumulator(audio.AccumulatorConfig{
		Transcriber:  cfg.Transcriber,
		OnTranscript: s.onTranscript,
		Target:       cfg.Audio.AccumulateTarget,
		MaxBuffer:    cfg.Audio.MaxBuffer,
		Timeout:      cfg.STTTimeout,
		Metrics:      cfg.Metrics,
		Log:          cfg.Log,
	})
	return s
}

// HandleMessage dispatches one inbound envelope. Unknown events are
// logged and dropped; a session that has ended ignores everything.
func (s *Session) HandleMessage(env *Envelope) {
	switch env.Event {
	case EventConnected:
		s.OnConnect()
	case EventStart:
		if env.Start == nil {
			s.log.Warn().Msg("start event without payload")
			return
		}
		if err := s.OnStart(env.Start.StreamSid); err != nil {
			s.log.Debug().Err(err).Msg("start event rejected")
		}
	case EventMedia:
		raw, err := DecodeMediaPayload(env.Media)
		if err != nil {
			s.dropFrame("bad_base64")
			return
		}
		if err := s.OnMedia(raw); err != nil {
			s.log.Debug().Err(err).Msg("media event rejected")
		}
	case EventDTMF:
		if env.DTMF == nil {
			return
		}
		s.OnDTMF(env.DTMF.Digit)
	case EventStop:
		s.OnStop()
	case EventMark:
		// Provider echoes our playback marks; nothing to do.
	default:
		s.log.Debug().Str("event", env.Event).Msg("unknown stream event")
	}
}

// OnConnect acknowledges the provider handshake. The greeting waits
// for the start event because outbound media needs the stream SID.
func (s *Session) OnConnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsTerminal() {
		return
	}
	s.log.Info().Msg("media stream connected")
}

// OnStart binds the stream ID and moves to STREAMING. A duplicate
// start logs and keeps the original binding; a start after the end
// of the session is rejected with ErrSessionEnded.
func (s *Session) OnStart(streamSid string) error {
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.mu.Unlock()
		return ErrSessionEnded
	}
	if s.state == StateStreaming {
		s.log.Warn().Str("streamSid", streamSid).Msg("duplicate start event, keeping original stream")
		s.mu.Unlock()
		return nil
	}
	s.state = StateStreaming
	s.streamSid = streamSid
	s.startedAt = time.Now()
	if s.maxCall > 0 {
		s.maxTimer = time.AfterFunc(s.maxCall, s.onMaxDuration)
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordCallStart()
	}
	s.publishCall("call.started", models.CallStarted{
		EventType: "call.started",
		CallSID:   s.callSid,
		From:      s.from,
		ClinicID:  s.clinicID,
		Timestamp: time.Now().UnixMilli(),
	})
	s.log.Info().Str("streamSid", streamSid).Msg("stream started")

	s.speak(s.convo.Greeting(), false, "")
	return nil
}

// OnMedia feeds one inbound frame through the VAD window. Frames
// before start are rejected with ErrStreamNotStarted, frames after
// the end with ErrSessionEnded; both are counted as dropped.
func (s *Session) OnMedia(raw []byte) error {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	switch {
	case state.IsTerminal():
		s.dropFrame("session_ended")
		return ErrSessionEnded
	case state != StateStreaming:
		s.dropFrame("not_streaming")
		return ErrStreamNotStarted
	}

	if len(raw) == 0 {
		s.dropFrame("empty")
		return nil
	}
	if s.metrics != nil {
		s.metrics.RecordAudioReceived(len(raw))
	}

	frame := audio.DecodeMuLaw(raw)
	s.feedVAD(frame)
	return nil
}

// feedVAD buffers samples until a full VAD window is available, then
// classifies the window. Speech windows go to the accumulator;
// silence is discarded.
func (s *Session) feedVAD(frame []int16) {
	s.mu.Lock()
	s.vadBuf = append(s.vadBuf, frame...)
	if len(s.vadBuf) < s.vadSamples {
		s.mu.Unlock()
		return
	}
	window := s.vadBuf
	s.vadBuf = nil
	s.mu.Unlock()

	if s.vad.IsSpeech(window) {
		s.handleVoiceActivity(window)
	}
}

// handleVoiceActivity accumulates caller speech and triggers barge-in
// when it arrives while a reply is playing. The compare-and-swap
// makes the interruption fire exactly once per playback.
func (s *Session) handleVoiceActivity(window []int16) {
	if s.speaking.Load() && s.interrupt.CompareAndSwap(false, true) {
		if s.metrics != nil {
			s.metrics.RecordBargeIn()
		}
		// Any transcription already in flight belongs to the turn the
		// caller just talked over; its result must not produce a reply.
		s.acc.Supersede()
		s.log.Info().Msg("barge-in detected, interrupting playback")
	}
	s.acc.Append(window)
}

// OnDTMF maps a touch-tone digit straight to a conversation turn. A
// digit also interrupts any playing reply, same as speech.
func (s *Session) OnDTMF(digit string) {
	s.mu.Lock()
	if s.state != StateStreaming {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordDTMF(digit)
	}
	if s.speaking.Load() && s.interrupt.CompareAndSwap(false, true) {
		if s.metrics != nil {
			s.metrics.RecordBargeIn()
		}
		s.acc.Supersede()
	}

	s.log.Info().Str("digit", digit).Msg("dtmf received")
	s.handleTurn(s.convo.HandleDTMF(s.ctx, digit))
}

// OnStop flushes any buffered speech through transcription and tears
// the session down. Idempotent.
func (s *Session) OnStop() {
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	s.acc.FlushFinal(flushCtx)
	cancel()

	s.end("caller_hangup")
}

// Teardown releases the session after a transport failure. Ending
// first means no reply is attempted; the remaining buffer still goes
// through end's final flush so the last utterance makes it into the
// event stream.
func (s *Session) Teardown(reason string) {
	s.end(reason)
}

// onTranscript receives accepted transcription results from the
// accumulator. After the session has ended the utterance is still
// published for the record, but no turn runs.
func (s *Session) onTranscript(res stt.Result, gen uint64) {
	s.mu.Lock()
	ended := s.state.IsTerminal()
	s.mu.Unlock()

	if ended {
		s.publishUtterance(conversation.Utterance{
			ID:         uuid.NewString(),
			Text:       res.Text,
			Confidence: res.Confidence,
			Source:     conversation.SourceSpeech,
			Timestamp:  time.Now().UTC(),
		})
		return
	}

	s.handleTurn(s.convo.HandleUtterance(s.ctx, res.Text, res.Confidence))
}

// handleTurn records, publishes and speaks the outcome of one caller
// input.
func (s *Session) handleTurn(tr conversation.TurnResult) {
	utt := tr.Utterance

	s.mu.Lock()
	s.transcript = append(s.transcript, utt)
	if tr.Escalate {
		s.escalated = true
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordTriage(string(utt.Result.Intent), utt.Result.Urgency.String())
		if tr.GenLatency > 0 {
			s.metrics.RecordReply(tr.Fallback, tr.GenLatency.Seconds())
		}
	}

	s.publishUtterance(utt)
	s.publishCall("triage.decided", models.TriageDecided{
		EventType:   "triage.decided",
		CallSID:     s.callSid,
		ClinicID:    s.clinicID,
		UtteranceID: utt.ID,
		Intent:      string(utt.Result.Intent),
		Urgency:     utt.Result.Urgency.String(),
		Confidence:  utt.Result.Confidence,
		Escalate:    utt.Result.Escalate,
		Directive:   string(utt.Result.Directive),
		Timestamp:   time.Now().UnixMilli(),
	})

	if tr.Escalate {
		reason := string(utt.Result.Intent)
		if s.metrics != nil {
			s.metrics.RecordEscalation(reason)
		}
		s.publishCall("call.escalated", models.CallEscalated{
			EventType:      "call.escalated",
			CallSID:        s.callSid,
			From:           s.from,
			ClinicID:       s.clinicID,
			Reason:         reason,
			TransferNumber: s.clinic.TransferNumber,
			Timestamp:      time.Now().UnixMilli(),
		})
	}

	if tr.ReplyText != "" {
		endReason := ""
		if tr.EndCall {
			endReason = "escalated"
		}
		s.speak(tr.ReplyText, tr.EndCall, endReason)
	} else if tr.EndCall {
		s.end("escalated")
	}
}

// speak streams one reply on its own goroutine. Playbacks are
// serialized; a new reply waits for the previous one to finish or be
// interrupted. endReason, when set, tears the session down after the
// playback completes.
func (s *Session) speak(text string, endAfter bool, endReason string) {
	s.playWG.Add(1)
	go func() {
		defer s.playWG.Done()
		s.playMu.Lock()
		defer s.playMu.Unlock()

		s.mu.Lock()
		streamSid := s.streamSid
		ended := s.state.IsTerminal()
		s.mu.Unlock()
		if ended {
			return
		}

		s.interrupt.Store(false)
		s.speaking.Store(true)
		res, err := s.out.Play(s.ctx, streamSid, text, &s.interrupt)
		if err != nil && s.ctx.Err() == nil {
			s.log.Error().Err(err).Msg("playback failed")
			// One attempt at the fixed safe reply so the caller is not
			// left in silence before a failed synthesis.
			if fallback := s.convo.FallbackLine(); fallback != text {
				res, err = s.out.Play(s.ctx, streamSid, fallback, &s.interrupt)
				if err != nil && s.ctx.Err() == nil {
					s.log.Error().Err(err).Msg("fallback playback failed")
				}
			}
		}
		s.speaking.Store(false)

		if res.Interrupted {
			s.log.Debug().Int("chunksSent", res.ChunksSent).Msg("playback interrupted")
		}
		if endAfter {
			s.end(endReason)
		}
	}()
}

// onMaxDuration fires when the call hits its time budget: speak the
// scripted closing line, escalate for a staff callback, hang up.
func (s *Session) onMaxDuration() {
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.mu.Unlock()
		return
	}
	s.escalated = true
	s.mu.Unlock()

	s.log.Info().Dur("limit", s.maxCall).Msg("max call duration reached")
	if s.metrics != nil {
		s.metrics.RecordEscalation("max_duration")
	}
	s.publishCall("call.escalated", models.CallEscalated{
		EventType:      "call.escalated",
		CallSID:        s.callSid,
		From:           s.from,
		ClinicID:       s.clinicID,
		Reason:         "max_duration",
		TransferNumber: s.clinic.TransferNumber,
		Timestamp:      time.Now().UnixMilli(),
	})

	tr := s.convo.MaxDurationResult()
	// Cut whatever is playing so the closing line goes out now.
	s.interrupt.Store(true)
	s.speak(tr.ReplyText, true, "max_duration")
}

// end moves the session to ENDED exactly once and releases resources.
func (s *Session) end(reason string) {
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.mu.Unlock()
		return
	}
	s.state = StateEnded
	s.endReason = reason
	startedAt := s.startedAt
	utterances := len(s.transcript)
	escalated := s.escalated
	if s.maxTimer != nil {
		s.maxTimer.Stop()
	}
	s.mu.Unlock()

	// Speech still buffered below the flush target goes through
	// transcription for the record, whatever path ended the call. Runs
	// off the caller's goroutine: a turn that ends the call may itself
	// be holding the accumulator's flush slot.
	s.playWG.Add(1)
	go func() {
		defer s.playWG.Done()
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		s.acc.FlushFinal(flushCtx)
		cancel()
	}()

	s.cancel()

	var duration time.Duration
	if !startedAt.IsZero() {
		duration = time.Since(startedAt)
	}
	if s.metrics != nil {
		s.metrics.RecordCallEnd(duration.Seconds())
	}
	s.publishCall("call.ended", models.CallEnded{
		EventType:  "call.ended",
		CallSID:    s.callSid,
		ClinicID:   s.clinicID,
		Reason:     reason,
		DurationMs: duration.Milliseconds(),
		Utterances: utterances,
		Escalated:  escalated,
		Timestamp:  time.Now().UnixMilli(),
	})
	s.log.Info().
		Str("reason", reason).
		Dur("duration", duration).
		Int("utterances", utterances).
		Bool("escalated", escalated).
		Msg("session ended")
}

// Wait blocks until any in-flight playback goroutine has returned.
func (s *Session) Wait() {
	s.playWG.Wait()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Info is a point-in-time view of the session for introspection.
type Info struct {
	CallSid    string    `json:"callSid"`
	From       string    `json:"from"`
	ClinicID   string    `json:"clinicId"`
	StreamSid  string    `json:"streamSid,omitempty"`
	State      string    `json:"state"`
	StartedAt  time.Time `json:"startedAt,omitempty"`
	Utterances int       `json:"utterances"`
	Escalated  bool      `json:"escalated"`
	Speaking   bool      `json:"speaking"`
	EndReason  string    `json:"endReason,omitempty"`
}

// Snapshot returns the current session info.
func (s *Session) Snapshot() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		CallSid:    s.callSid,
		From:       s.from,
		ClinicID:   s.clinicID,
		StreamSid:  s.streamSid,
		State:      s.state.String(),
		StartedAt:  s.startedAt,
		Utterances: len(s.transcript),
		Escalated:  s.escalated,
		Speaking:   s.speaking.Load(),
		EndReason:  s.endReason,
	}
}

// Transcript returns a copy of the utterances handled so far.
func (s *Session) Transcript() []conversation.Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]conversation.Utterance, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) dropFrame(reason string) {
	if s.metrics != nil {
		s.metrics.RecordFrameDropped(reason)
	}
	s.log.Debug().Str("reason", reason).Msg("inbound frame dropped")
}

func (s *Session) publishUtterance(utt conversation.Utterance) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.publisher.PublishTranscript(ctx, s.callSid, "utterance.transcribed", models.UtteranceTranscribed{
		EventType:   "utterance.transcribed",
		CallSID:     s.callSid,
		ClinicID:    s.clinicID,
		UtteranceID: utt.ID,
		Text:        utt.Text,
		Confidence:  utt.Confidence,
		Source:      string(utt.Source),
		Timestamp:   time.Now().UnixMilli(),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("publish utterance event failed")
	}
}

func (s *Session) publishCall(eventType string, event any) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.publisher.PublishCall(ctx, s.callSid, eventType, event); err != nil {
		s.log.Error().Err(err).Str("eventType", eventType).Msg("publish call event failed")
	}
}
