package telephony

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"ai-voice-reception-service/internal/audio"
	"ai-voice-reception-service/internal/observability/metrics"
	"ai-voice-reception-service/internal/service/tts"
)

// Conn is the outbound half of the media stream connection. The
// websocket wrapper in the http layer implements it with a write lock.
type Conn interface {
	WriteJSON(v any) error
}

// PlayResult reports how one playback ended.
type PlayResult struct {
	Interrupted bool
	ChunksSent  int
}

// OutputController streams synthesized speech onto the connection in
// frame-sized chunks paced at real time. The chunk is the smallest
// uninterruptible unit: the interrupt flag is checked before every
// chunk, so a barge-in cuts playback after at most one extra frame.
type OutputController struct {
	conn         Conn
	synth        tts.Synthesizer
	interval     time.Duration
	synthTimeout time.Duration
	metrics      *metrics.Metrics
	log          zerolog.Logger

	marks atomic.Uint64
}

// OutputOption adjusts controller settings beyond the defaults.
type OutputOption func(*OutputController)

// WithSynthTimeout bounds how long a single synthesis request may take
// before the playback fails over to the session's safe reply.
func WithSynthTimeout(d time.Duration) OutputOption {
	return func(o *OutputController) {
		if d > 0 {
			o.synthTimeout = d
		}
	}
}

// NewOutputController creates a controller pacing chunks at the given
// interval (20ms for 160-byte frames at 8 kHz).
func NewOutputController(conn Conn, synth tts.Synthesizer, interval time.Duration, m *metrics.Metrics, log zerolog.Logger, opts ...OutputOption) *OutputController {
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	o := &OutputController{
		conn:         conn,
		synth:        synth,
		interval:     interval,
		synthTimeout: 10 * time.Second,
		metrics:      m,
		log:          log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Play synthesizes text and streams it as mu-law frames. It returns
// when the audio is fully sent, the interrupt flag is set, the context
// is cancelled, or a write fails. A completed playback sends a mark
// message; an interrupted one sends a clear message instead.
func (o *OutputController) Play(ctx context.Context, streamSid, text string, interrupt *atomic.Bool) (PlayResult, error) {
	start := time.Now()
	synthCtx, cancel := context.WithTimeout(ctx, o.synthTimeout)
	mulaw, err := o.synth.Synthesize(synthCtx, text)
	cancel()
	if o.metrics != nil {
		o.metrics.RecordSynthesis(err, time.Since(start).Seconds())
	}
	if err != nil {
		return PlayResult{}, fmt.Errorf("synthesize: %w", err)
	}
	if len(mulaw) == 0 {
		return PlayResult{}, nil
	}

	res, err := o.stream(ctx, streamSid, mulaw, interrupt)
	if o.metrics != nil {
		o.metrics.RecordPlayback(res.Interrupted, res.ChunksSent)
	}
	return res, err
}

func (o *OutputController) stream(ctx context.Context, streamSid string, mulaw []byte, interrupt *atomic.Bool) (PlayResult, error) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	var res PlayResult
	for off := 0; off < len(mulaw); off += audio.FrameBytes {
		if err := ctx.Err(); err != nil {
			res.Interrupted = true
			return res, err
		}
		if interrupt != nil && interrupt.Load() {
			res.Interrupted = true
			if err := o.conn.WriteJSON(ClearMessage(streamSid)); err != nil {
				return res, fmt.Errorf("write clear: %w", err)
			}
			return res, nil
		}

		end := off + audio.FrameBytes
		if end > len(mulaw) {
			end = len(mulaw)
		}
		if err := o.conn.WriteJSON(MediaMessage(streamSid, mulaw[off:end])); err != nil {
			return res, fmt.Errorf("write media: %w", err)
		}
		res.ChunksSent++

		select {
		case <-ticker.C:
		case <-ctx.Done():
			res.Interrupted = true
			return res, ctx.Err()
		}
	}

	name := fmt.Sprintf("playback-%d", o.marks.Add(1))
	if err := o.conn.WriteJSON(MarkMessage(streamSid, name)); err != nil {
		return res, fmt.Errorf("write mark: %w", err)
	}
	return res, nil
}
