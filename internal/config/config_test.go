package config

import (
	"os"
	"testing"
	"time"
)

var configEnvVars = []string{
	"SERVICE_PRINCIPAL", "HTTP_PORT", "METRICS_PORT",
	"VAD_THRESHOLD", "VAD_MIN_WINDOW", "SPEECH_ACCUMULATE_TARGET",
	"SPEECH_MAX_BUFFER", "PLAYBACK_CHUNK_INTERVAL", "MAX_CALL_DURATION",
	"STT_PROVIDER", "STT_LANGUAGE_CODE", "STT_SAMPLE_RATE_HZ", "STT_TIMEOUT",
	"TTS_PROVIDER", "TTS_VOICE", "TTS_TIMEOUT",
	"REPLY_PROVIDER", "REPLY_MODEL", "REPLY_TIMEOUT",
	"CLINIC_NAME", "CALLBACK_PROMISE_MINUTES",
	"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_TRANSCRIPTS", "KAFKA_TOPIC_CALLS",
	"LOG_LEVEL", "LOG_FORMAT",
}

func clearConfigEnv() {
	for _, v := range configEnvVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv()

	cfg := Load()

	if cfg.Service.Principal != "svc-voice-reception" {
		t.Errorf("expected default principal 'svc-voice-reception', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default HTTP port '8080', got %s", cfg.Service.HTTPPort)
	}

	if cfg.Audio.VADThreshold != 0.02 {
		t.Errorf("expected default VAD threshold 0.02, got %v", cfg.Audio.VADThreshold)
	}
	if cfg.Audio.MinVADWindow != 100*time.Millisecond {
		t.Errorf("expected default VAD window 100ms, got %v", cfg.Audio.MinVADWindow)
	}
	if cfg.Audio.AccumulateTarget != 1*time.Second {
		t.Errorf("expected default accumulate target 1s, got %v", cfg.Audio.AccumulateTarget)
	}
	if cfg.Audio.ChunkInterval != 20*time.Millisecond {
		t.Errorf("expected default chunk interval 20ms, got %v", cfg.Audio.ChunkInterval)
	}

	if cfg.Session.MaxCallDuration != 10*time.Minute {
		t.Errorf("expected default max call duration 10m, got %v", cfg.Session.MaxCallDuration)
	}

	if cfg.STT.Provider != "mock" {
		t.Errorf("expected default STT provider 'mock', got %s", cfg.STT.Provider)
	}
	if cfg.STT.SampleRateHz != 8000 {
		t.Errorf("expected default sample rate 8000, got %d", cfg.STT.SampleRateHz)
	}

	if cfg.Clinic.CallbackPromiseMinutes != 10 {
		t.Errorf("expected default callback promise 10, got %d", cfg.Clinic.CallbackPromiseMinutes)
	}

	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Kafka.TopicTranscripts != "call.transcripts" {
		t.Errorf("expected default transcripts topic, got %s", cfg.Kafka.TopicTranscripts)
	}

	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearConfigEnv()

	os.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	os.Setenv("HTTP_PORT", "9999")
	os.Setenv("VAD_THRESHOLD", "0.1")
	os.Setenv("MAX_CALL_DURATION", "5m")
	os.Setenv("STT_PROVIDER", "google")
	os.Setenv("STT_TIMEOUT", "2s")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	defer clearConfigEnv()

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected principal 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected port '9999', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Audio.VADThreshold != 0.1 {
		t.Errorf("expected VAD threshold 0.1, got %v", cfg.Audio.VADThreshold)
	}
	if cfg.Session.MaxCallDuration != 5*time.Minute {
		t.Errorf("expected max call duration 5m, got %v", cfg.Session.MaxCallDuration)
	}
	if cfg.STT.Provider != "google" {
		t.Errorf("expected STT provider 'google', got %s", cfg.STT.Provider)
	}
	if cfg.STT.Timeout != 2*time.Second {
		t.Errorf("expected STT timeout 2s, got %v", cfg.STT.Timeout)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "broker-1:9092" || cfg.Kafka.Brokers[1] != "broker-2:9092" {
		t.Errorf("expected two trimmed brokers, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearConfigEnv()

	os.Setenv("VAD_THRESHOLD", "not-a-number")
	os.Setenv("MAX_CALL_DURATION", "soon")
	os.Setenv("KAFKA_ENABLED", "maybe")
	defer clearConfigEnv()

	cfg := Load()

	if cfg.Audio.VADThreshold != 0.02 {
		t.Errorf("expected fallback VAD threshold 0.02, got %v", cfg.Audio.VADThreshold)
	}
	if cfg.Session.MaxCallDuration != 10*time.Minute {
		t.Errorf("expected fallback max call duration 10m, got %v", cfg.Session.MaxCallDuration)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected fallback Kafka disabled")
	}
}
