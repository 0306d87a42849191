// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Principal   string
	HTTPPort    string
	MetricsPort string
}

// AudioConfig holds real-time audio pipeline settings.
type AudioConfig struct {
	// VADThreshold is the normalized RMS energy above which a frame is
	// treated as speech. Deliberately low: missing real speech is worse
	// than an unnecessary barge-in check.
	VADThreshold float64
	// MinVADWindow is how much audio must be buffered before the VAD runs.
	MinVADWindow time.Duration
	// AccumulateTarget is the buffered speech duration that triggers a
	// transcription hand-off.
	AccumulateTarget time.Duration
	// MaxBuffer caps buffered speech per session.
	MaxBuffer time.Duration
	// ChunkInterval is the outbound playback pacing per chunk.
	ChunkInterval time.Duration
}

// SessionConfig holds per-call lifecycle settings.
type SessionConfig struct {
	MaxCallDuration time.Duration
}

// STTConfig selects and tunes the transcription collaborator.
type STTConfig struct {
	Provider     string // mock, whisper, google
	LanguageCode string
	SampleRateHz int
	Timeout      time.Duration
}

// TTSConfig selects and tunes the synthesis collaborator.
type TTSConfig struct {
	Provider string // mock, openai
	Voice    string
	Timeout  time.Duration
}

// ReplyConfig tunes the reply-generation collaborator.
type ReplyConfig struct {
	Provider string // mock, openai
	Model    string
	Timeout  time.Duration
}

// ClinicConfig carries tenant context spoken into replies and directives.
type ClinicConfig struct {
	Name                   string
	TransferNumber         string
	EmergencyNumber        string
	PoisonControlNumber    string
	CallbackPromiseMinutes int
}

// KafkaConfig holds event publishing configuration.
type KafkaConfig struct {
	Enabled          bool
	Brokers          []string
	TopicTranscripts string
	TopicCalls       string
}

// ObservabilityConfig holds logging configuration.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json, console
}

// Config is the root configuration for the voice reception service.
type Config struct {
	Service       ServiceConfig
	Audio         AudioConfig
	Session       SessionConfig
	STT           STTConfig
	TTS           TTSConfig
	Reply         ReplyConfig
	Clinic        ClinicConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// Load reads configuration from the environment, falling back to defaults.
func Load() *Config {
	return &Config{
		Service: ServiceConfig{
			Principal:   envOrDefault("SERVICE_PRINCIPAL", "svc-voice-reception"),
			HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
		Audio: AudioConfig{
			VADThreshold:     envFloat("VAD_THRESHOLD", 0.02),
			MinVADWindow:     envDuration("VAD_MIN_WINDOW", 100*time.Millisecond),
			AccumulateTarget: envDuration("SPEECH_ACCUMULATE_TARGET", 1*time.Second),
			MaxBuffer:        envDuration("SPEECH_MAX_BUFFER", 30*time.Second),
			ChunkInterval:    envDuration("PLAYBACK_CHUNK_INTERVAL", 20*time.Millisecond),
		},
		Session: SessionConfig{
			MaxCallDuration: envDuration("MAX_CALL_DURATION", 10*time.Minute),
		},
		STT: STTConfig{
			Provider:     envOrDefault("STT_PROVIDER", "mock"),
			LanguageCode: envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			SampleRateHz: envInt("STT_SAMPLE_RATE_HZ", 8000),
			Timeout:      envDuration("STT_TIMEOUT", 5*time.Second),
		},
		TTS: TTSConfig{
			Provider: envOrDefault("TTS_PROVIDER", "mock"),
			Voice:    envOrDefault("TTS_VOICE", "alloy"),
			Timeout:  envDuration("TTS_TIMEOUT", 10*time.Second),
		},
		Reply: ReplyConfig{
			Provider: envOrDefault("REPLY_PROVIDER", "mock"),
			Model:    envOrDefault("REPLY_MODEL", "gpt-4o-mini"),
			Timeout:  envDuration("REPLY_TIMEOUT", 6*time.Second),
		},
		Clinic: ClinicConfig{
			Name:                   envOrDefault("CLINIC_NAME", "Veterinary Clinic"),
			TransferNumber:         envOrDefault("CLINIC_TRANSFER_NUMBER", "+1-800-838-8227"),
			EmergencyNumber:        envOrDefault("CLINIC_EMERGENCY_NUMBER", "+1-800-363-7443"),
			PoisonControlNumber:    envOrDefault("POISON_CONTROL_NUMBER", "(888) 426-4435"),
			CallbackPromiseMinutes: envInt("CALLBACK_PROMISE_MINUTES", 10),
		},
		Kafka: KafkaConfig{
			Enabled:          envBool("KAFKA_ENABLED", false),
			Brokers:          envList("KAFKA_BROKERS"),
			TopicTranscripts: envOrDefault("KAFKA_TOPIC_TRANSCRIPTS", "call.transcripts"),
			TopicCalls:       envOrDefault("KAFKA_TOPIC_CALLS", "call.outcomes"),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
