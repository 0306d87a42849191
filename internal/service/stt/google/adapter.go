// Package google provides a Google Cloud Speech-to-Text adapter.
package google

import (
	"context"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ai-voice-reception-service/internal/audio"
	"ai-voice-reception-service/internal/service/stt"
)

// Adapter implements stt.Transcriber using Google Cloud Speech-to-Text
// synchronous recognition.
type Adapter struct {
	client       *speech.Client
	languageCode string
	sampleRateHz int
}

// New creates a Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, languageCode string, sampleRateHz int) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{
		client:       c,
		languageCode: languageCode,
		sampleRateHz: sampleRateHz,
	}, nil
}

func (a *Adapter) Transcribe(ctx context.Context, pcm []int16) (stt.Result, error) {
	if len(pcm) == 0 {
		return stt.Result{}, nil
	}

	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(a.sampleRateHz),
			LanguageCode:    a.languageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: audio.PCMBytes(pcm),
			},
		},
	})
	if err != nil {
		return stt.Result{}, err
	}

	var best stt.Result
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		if best.Text == "" {
			best = stt.Result{Text: alt.Transcript, Confidence: float64(alt.Confidence)}
		} else {
			best.Text += " " + alt.Transcript
		}
	}
	return best, nil
}

// Close releases the underlying gRPC connection.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// Retryable reports whether a recognition error is transient. The
// transcript for that window is lost either way, but callers use this
// to decide whether the adapter itself is still healthy.
func Retryable(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return true
	default:
		return false
	}
}
