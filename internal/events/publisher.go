// Package events provides event publishing for call lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"ai-voice-reception-service/internal/observability/metrics"
)

// Publisher publishes call events to separate Kafka topics: one for
// utterance transcripts, one for call outcomes (triage, escalation,
// lifecycle). Disabled mode logs events instead of writing.
type Publisher struct {
	writerTranscripts *kafka.Writer
	writerCalls       *kafka.Writer
	principal         string
	topicTranscripts  string
	topicCalls        string
	enabled           bool
	metrics           *metrics.Metrics
	log               zerolog.Logger
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers          []string
	TopicTranscripts string
	TopicCalls       string
	Principal        string
	Enabled          bool
}

// New creates a new Kafka event publisher.
func New(cfg *Config, m *metrics.Metrics, log zerolog.Logger) *Publisher {
	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		p := &Publisher{
			enabled: false,
			metrics: m,
			log:     log,
		}
		if cfg != nil {
			p.principal = cfg.Principal
			p.topicTranscripts = cfg.TopicTranscripts
			p.topicCalls = cfg.TopicCalls
		}
		return p
	}

	// Longer dial timeouts for DNS resolution in Kubernetes.
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerTranscripts := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicTranscripts,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerCalls := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicCalls,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicTranscripts", cfg.TopicTranscripts).
		Str("topicCalls", cfg.TopicCalls).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerTranscripts: writerTranscripts,
		writerCalls:       writerCalls,
		principal:         cfg.Principal,
		topicTranscripts:  cfg.TopicTranscripts,
		topicCalls:        cfg.TopicCalls,
		enabled:           true,
		metrics:           m,
		log:               log,
	}
}

// PublishTranscript publishes an utterance transcript event, keyed by callSid.
func (p *Publisher) PublishTranscript(ctx context.Context, callSid, eventType string, event any) error {
	return p.publish(ctx, p.writerTranscripts, p.topicTranscripts, eventType, callSid, event)
}

// PublishCall publishes a call outcome event, keyed by callSid.
func (p *Publisher) PublishCall(ctx context.Context, callSid, eventType string, event any) error {
	return p.publish(ctx, p.writerCalls, p.topicCalls, eventType, callSid, event)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	p.log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	if !p.enabled || writer == nil {
		if p.metrics != nil {
			p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		}
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		if p.metrics != nil {
			p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		}
		return err
	}

	if p.metrics != nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	}
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerTranscripts != nil {
		if e := p.writerTranscripts.Close(); e != nil {
			p.log.Error().Err(e).Msg("Error closing transcripts writer")
			err = e
		}
	}
	if p.writerCalls != nil {
		if e := p.writerCalls.Close(); e != nil {
			p.log.Error().Err(e).Msg("Error closing calls writer")
			err = e
		}
	}
	return err
}
