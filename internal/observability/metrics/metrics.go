// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ai_voice_reception"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Call metrics
	CallsTotal   prometheus.Counter
	CallsActive  prometheus.Gauge
	CallDuration prometheus.Histogram

	// Inbound audio metrics
	AudioBytesReceived  prometheus.Counter
	AudioFramesReceived prometheus.Counter
	FramesDropped       *prometheus.CounterVec

	// Barge-in / playback metrics
	BargeIns           prometheus.Counter
	PlaybackChunksSent prometheus.Counter
	PlaybacksTotal     prometheus.Counter
	PlaybacksCut       prometheus.Counter

	// Transcription metrics
	UtterancesTotal       prometheus.Counter
	TranscriptionLatency  prometheus.Histogram
	TranscriptionFailures prometheus.Counter
	TranscriptionsStale   prometheus.Counter
	SpeechSecondsLost     prometheus.Counter

	// Triage metrics
	TriageByIntent *prometheus.CounterVec
	Escalations    *prometheus.CounterVec
	DTMFInputs     *prometheus.CounterVec

	// Collaborator metrics
	SynthesisLatency  prometheus.Histogram
	SynthesisFailures prometheus.Counter
	ReplyLatency      prometheus.Histogram
	ReplyFallbacks    prometheus.Counter

	// Event publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		CallsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Total number of call sessions accepted",
		}),
		CallsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "calls_active",
			Help:      "Number of currently active call sessions",
		}),
		CallDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "Duration of call sessions in seconds",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 900},
		}),

		AudioBytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_received_total",
			Help:      "Total inbound audio bytes received",
		}),
		AudioFramesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_frames_received_total",
			Help:      "Total inbound media frames received",
		}),
		FramesDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Total inbound frames dropped",
		}, []string{"reason"}),

		BargeIns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "barge_ins_total",
			Help:      "Total barge-in interruptions of outgoing speech",
		}),
		PlaybackChunksSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playback_chunks_sent_total",
			Help:      "Total outbound audio chunks sent",
		}),
		PlaybacksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playbacks_total",
			Help:      "Total reply playbacks started",
		}),
		PlaybacksCut: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playbacks_interrupted_total",
			Help:      "Total playbacks interrupted before completion",
		}),

		UtterancesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utterances_total",
			Help:      "Total caller utterances transcribed",
		}),
		TranscriptionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_latency_seconds",
			Help:      "Speech-to-text request latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5},
		}),
		TranscriptionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_failures_total",
			Help:      "Total speech-to-text failures",
		}),
		TranscriptionsStale: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_stale_total",
			Help:      "Total transcription results discarded as superseded",
		}),
		SpeechSecondsLost: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_seconds_lost_total",
			Help:      "Seconds of buffered speech discarded on transcription failure",
		}),

		TriageByIntent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triage_results_total",
			Help:      "Total triage classifications by intent",
		}, []string{"intent", "urgency"}),
		Escalations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_total",
			Help:      "Total escalations out of the conversational loop",
		}, []string{"reason"}),
		DTMFInputs: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dtmf_inputs_total",
			Help:      "Total DTMF digits received",
		}, []string{"digit"}),

		SynthesisLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "synthesis_latency_seconds",
			Help:      "Text-to-speech request latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		SynthesisFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_failures_total",
			Help:      "Total text-to-speech failures",
		}),
		ReplyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reply_latency_seconds",
			Help:      "Reply generation latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5},
		}),
		ReplyFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reply_fallbacks_total",
			Help:      "Total times the fixed safe reply was used",
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordCallStart records a new call session.
func (m *Metrics) RecordCallStart() {
	m.CallsTotal.Inc()
	m.CallsActive.Inc()
}

// RecordCallEnd records a call session ending.
func (m *Metrics) RecordCallEnd(durationSeconds float64) {
	m.CallsActive.Dec()
	m.CallDuration.Observe(durationSeconds)
}

// RecordAudioReceived records inbound audio bytes and frames.
func (m *Metrics) RecordAudioReceived(bytes int) {
	m.AudioBytesReceived.Add(float64(bytes))
	m.AudioFramesReceived.Inc()
}

// RecordFrameDropped records an inbound frame being dropped.
func (m *Metrics) RecordFrameDropped(reason string) {
	m.FramesDropped.WithLabelValues(reason).Inc()
}

// RecordBargeIn records a barge-in interruption.
func (m *Metrics) RecordBargeIn() {
	m.BargeIns.Inc()
}

// RecordPlayback records a playback outcome.
func (m *Metrics) RecordPlayback(interrupted bool, chunksSent int) {
	m.PlaybacksTotal.Inc()
	m.PlaybackChunksSent.Add(float64(chunksSent))
	if interrupted {
		m.PlaybacksCut.Inc()
	}
}

// RecordTranscription records a speech-to-text outcome.
func (m *Metrics) RecordTranscription(err error, latencySeconds float64) {
	m.TranscriptionLatency.Observe(latencySeconds)
	if err != nil {
		m.TranscriptionFailures.Inc()
		return
	}
	m.UtterancesTotal.Inc()
}

// RecordTriage records a triage classification.
func (m *Metrics) RecordTriage(intent, urgency string) {
	m.TriageByIntent.WithLabelValues(intent, urgency).Inc()
}

// RecordEscalation records an escalation by reason.
func (m *Metrics) RecordEscalation(reason string) {
	m.Escalations.WithLabelValues(reason).Inc()
}

// RecordDTMF records a touch-tone digit received.
func (m *Metrics) RecordDTMF(digit string) {
	m.DTMFInputs.WithLabelValues(digit).Inc()
}

// RecordSynthesis records a text-to-speech outcome.
func (m *Metrics) RecordSynthesis(err error, latencySeconds float64) {
	m.SynthesisLatency.Observe(latencySeconds)
	if err != nil {
		m.SynthesisFailures.Inc()
	}
}

// RecordReply records a reply-generation outcome.
func (m *Metrics) RecordReply(fallback bool, latencySeconds float64) {
	m.ReplyLatency.Observe(latencySeconds)
	if fallback {
		m.ReplyFallbacks.Inc()
	}
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
