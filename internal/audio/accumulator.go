package audio

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ai-voice-reception-service/internal/observability/metrics"
	"ai-voice-reception-service/internal/service/stt"
)

// TranscriptFunc receives transcription results. gen identifies the
// flush that produced the result; superseded generations never reach
// the callback.
type TranscriptFunc func(res stt.Result, gen uint64)

// AccumulatorConfig configures a speech accumulator.
type AccumulatorConfig struct {
	Transcriber  stt.Transcriber
	OnTranscript TranscriptFunc
	// Target buffered speech duration that triggers transcription.
	Target time.Duration
	// MaxBuffer caps buffered speech; overflow drops the oldest audio.
	MaxBuffer time.Duration
	// Timeout bounds each transcription request.
	Timeout time.Duration
	Metrics *metrics.Metrics
	Log     zerolog.Logger
}

// Accumulator buffers speech-bearing PCM frames and hands utterance-sized
// chunks to the transcription collaborator. At most one transcription
// request is in flight at a time; while one is pending the buffer keeps
// growing and is handed off once the pending request resolves.
type Accumulator struct {
	transcriber   stt.Transcriber
	onTranscript  TranscriptFunc
	targetSamples int
	maxSamples    int
	timeout       time.Duration
	metrics       *metrics.Metrics
	log           zerolog.Logger

	mu            sync.Mutex
	cond          *sync.Cond
	buf           []int16
	inFlight      bool
	gen           uint64
	supersededGen uint64
	closed        bool
}

// NewAccumulator creates a speech accumulator.
func NewAccumulator(cfg AccumulatorConfig) *Accumulator {
	if cfg.Target <= 0 {
		cfg.Target = time.Second
	}
	if cfg.MaxBuffer < cfg.Target {
		cfg.MaxBuffer = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	a := &Accumulator{
		transcriber:   cfg.Transcriber,
		onTranscript:  cfg.OnTranscript,
		targetSamples: int(cfg.Target.Seconds() * SampleRate),
		maxSamples:    int(cfg.MaxBuffer.Seconds() * SampleRate),
		timeout:       cfg.Timeout,
		metrics:       cfg.Metrics,
		log:           cfg.Log,
	}
	a.cond = sync.NewCond(&a.mu)
	return a
}

// Append adds a speech-bearing frame to the buffer and kicks off an
// asynchronous transcription once the target duration is reached.
// Never blocks on the transcription collaborator.
func (a *Accumulator) Append(frame []int16) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	a.buf = append(a.buf, frame...)
	if len(a.buf) > a.maxSamples {
		dropped := len(a.buf) - a.maxSamples
		a.buf = a.buf[dropped:]
		a.log.Warn().
			Dur("dropped", samplesDuration(dropped)).
			Msg("Speech buffer overflow, oldest audio dropped")
	}

	if len(a.buf) >= a.targetSamples && !a.inFlight {
		a.startFlushLocked()
	}
}

// Supersede marks any in-flight transcription as stale. Its result
// will be discarded instead of delivered. Used on barge-in: the caller
// has started a new utterance that replaces the pending one.
func (a *Accumulator) Supersede() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.supersededGen = a.gen
}

// BufferedDuration reports how much unflushed speech is buffered.
func (a *Accumulator) BufferedDuration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return samplesDuration(len(a.buf))
}

// FlushFinal transcribes whatever is buffered and closes the
// accumulator. It waits for a pending request to resolve first, so no
// non-empty buffer is silently dropped. An empty buffer is a no-op:
// no transcription request is issued.
func (a *Accumulator) FlushFinal(ctx context.Context) {
	a.mu.Lock()
	for a.inFlight {
		a.cond.Wait()
	}
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true

	if len(a.buf) == 0 {
		a.mu.Unlock()
		return
	}

	buf := a.buf
	a.buf = nil
	a.gen++
	gen := a.gen
	a.mu.Unlock()

	a.transcribe(ctx, buf, gen)
}

// startFlushLocked hands the current buffer to the transcriber in a
// new goroutine. Caller must hold a.mu.
func (a *Accumulator) startFlushLocked() {
	buf := a.buf
	a.buf = nil
	a.gen++
	gen := a.gen
	a.inFlight = true

	go func() {
		a.transcribe(context.Background(), buf, gen)

		a.mu.Lock()
		a.inFlight = false
		// Audio kept arriving while the request was pending.
		if !a.closed && len(a.buf) >= a.targetSamples {
			a.startFlushLocked()
		}
		a.cond.Broadcast()
		a.mu.Unlock()
	}()
}

func (a *Accumulator) transcribe(ctx context.Context, buf []int16, gen uint64) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	res, err := a.transcriber.Transcribe(ctx, buf)
	latency := time.Since(start)

	if a.metrics != nil {
		a.metrics.RecordTranscription(err, latency.Seconds())
	}

	if err != nil {
		lost := samplesDuration(len(buf))
		a.log.Error().
			Err(err).
			Dur("speechLost", lost).
			Msg("Transcription failed, buffered speech discarded")
		if a.metrics != nil {
			a.metrics.SpeechSecondsLost.Add(lost.Seconds())
		}
		return
	}

	a.mu.Lock()
	stale := gen <= a.supersededGen
	a.mu.Unlock()

	if stale {
		a.log.Info().
			Uint64("gen", gen).
			Str("text", res.Text).
			Msg("Transcription superseded by barge-in, discarded")
		if a.metrics != nil {
			a.metrics.TranscriptionsStale.Inc()
		}
		return
	}

	if res.Text == "" {
		return
	}
	if a.onTranscript != nil {
		a.onTranscript(res, gen)
	}
}

func samplesDuration(n int) time.Duration {
	return time.Duration(n) * time.Second / SampleRate
}
