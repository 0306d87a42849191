package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-voice-reception-service/internal/app"
	"ai-voice-reception-service/internal/config"
	"ai-voice-reception-service/internal/conversation"
	"ai-voice-reception-service/internal/events"
	httpapi "ai-voice-reception-service/internal/http"
	"ai-voice-reception-service/internal/observability"
	"ai-voice-reception-service/internal/observability/metrics"
	"ai-voice-reception-service/internal/service/reply"
	replymock "ai-voice-reception-service/internal/service/reply/mock"
	replyopenai "ai-voice-reception-service/internal/service/reply/openai"
	"ai-voice-reception-service/internal/service/stt"
	sttgoogle "ai-voice-reception-service/internal/service/stt/google"
	sttmock "ai-voice-reception-service/internal/service/stt/mock"
	sttwhisper "ai-voice-reception-service/internal/service/stt/whisper"
	"ai-voice-reception-service/internal/service/tts"
	ttsmock "ai-voice-reception-service/internal/service/tts/mock"
	ttsopenai "ai-voice-reception-service/internal/service/tts/openai"
	"ai-voice-reception-service/internal/telephony"
	"ai-voice-reception-service/internal/triage"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)
	log := application.Logger

	m := metrics.New()

	publisher := events.New(&events.Config{
		Enabled:          cfg.Kafka.Enabled,
		Brokers:          cfg.Kafka.Brokers,
		TopicTranscripts: cfg.Kafka.TopicTranscripts,
		TopicCalls:       cfg.Kafka.TopicCalls,
		Principal:        cfg.Service.Principal,
	}, m, log)
	defer publisher.Close()

	transcriber := buildTranscriber(cfg, application)
	synthesizer := buildSynthesizer(cfg, application)
	generator := buildGenerator(cfg, application)
	triageEngine := triage.NewEngine()
	registry := telephony.NewRegistry()

	factory := func(conn telephony.Conn, callSid, from, clinicID string) *telephony.Session {
		sessionLog := application.SessionLogger(callSid, from, clinicID)
		convo := conversation.NewEngine(triageEngine, generator, cfg.Clinic, cfg.Reply.Timeout, sessionLog)
		out := telephony.NewOutputController(conn, synthesizer, cfg.Audio.ChunkInterval, m, sessionLog,
			telephony.WithSynthTimeout(cfg.TTS.Timeout))
		return telephony.NewSession(telephony.SessionConfig{
			CallSid:         callSid,
			From:            from,
			ClinicID:        clinicID,
			Clinic:          cfg.Clinic,
			Conn:            conn,
			Output:          out,
			Convo:           convo,
			Transcriber:     transcriber,
			Publisher:       publisher,
			Metrics:         m,
			Log:             sessionLog,
			Audio:           cfg.Audio,
			STTTimeout:      cfg.STT.Timeout,
			MaxCallDuration: cfg.Session.MaxCallDuration,
		})
	}

	obs := observability.NewServer(":"+cfg.Service.MetricsPort, log)
	obs.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.Service.HTTPPort,
		Handler: httpapi.NewRouter(application, registry, factory),
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("voice reception service listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http serve failed")
		}
	}()

	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("application start failed")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutting down")
	registry.CloseAll("shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := obs.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("observability shutdown failed")
	}
	application.Shutdown()
}

func buildTranscriber(cfg *config.Config, application *app.Application) stt.Transcriber {
	log := application.Logger
	switch cfg.STT.Provider {
	case "whisper":
		log.Info().Msg("using Whisper speech-to-text")
		return sttwhisper.New(os.Getenv("OPENAI_API_KEY"), cfg.STT.LanguageCode, cfg.STT.SampleRateHz)
	case "google":
		log.Info().Msg("using Google Cloud speech-to-text")
		a, err := sttgoogle.New(context.Background(), cfg.STT.LanguageCode, cfg.STT.SampleRateHz)
		if err != nil {
			log.Fatal().Err(err).Msg("google stt init failed")
		}
		return a
	default:
		log.Info().Msg("using mock speech-to-text")
		return sttmock.New()
	}
}

func buildSynthesizer(cfg *config.Config, application *app.Application) tts.Synthesizer {
	log := application.Logger
	switch cfg.TTS.Provider {
	case "openai":
		log.Info().Str("voice", cfg.TTS.Voice).Msg("using OpenAI text-to-speech")
		return ttsopenai.New(os.Getenv("OPENAI_API_KEY"), cfg.TTS.Voice)
	default:
		log.Info().Msg("using mock text-to-speech")
		return ttsmock.New()
	}
}

func buildGenerator(cfg *config.Config, application *app.Application) reply.Generator {
	log := application.Logger
	switch cfg.Reply.Provider {
	case "openai":
		log.Info().Str("model", cfg.Reply.Model).Msg("using OpenAI reply generation")
		return replyopenai.New(os.Getenv("OPENAI_API_KEY"), cfg.Reply.Model)
	default:
		log.Info().Msg("using mock reply generation")
		return replymock.New()
	}
}
