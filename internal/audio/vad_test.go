package audio

import (
	"math"
	"testing"
)

func sineFrame(amplitude float64, samples int) []int16 {
	frame := make([]int16, samples)
	for i := range frame {
		frame[i] = int16(amplitude * 32767.0 * math.Sin(2*math.Pi*440*float64(i)/SampleRate))
	}
	return frame
}

func TestDetector_SilenceIsNotSpeech(t *testing.T) {
	d := NewDetector(DefaultVADThreshold)

	if d.IsSpeech(make([]int16, 800)) {
		t.Error("all-zero frame should not be speech")
	}
	if d.IsSpeech(nil) {
		t.Error("empty frame should not be speech")
	}
}

func TestDetector_ToneIsSpeech(t *testing.T) {
	d := NewDetector(DefaultVADThreshold)

	if !d.IsSpeech(sineFrame(0.5, 800)) {
		t.Error("loud tone should be speech")
	}
	// Quiet but audible speech energy must still trip the detector;
	// missing real speech is the failure mode to minimize.
	if !d.IsSpeech(sineFrame(0.05, 800)) {
		t.Error("quiet tone should be speech at the default threshold")
	}
}

func TestDetector_LowLevelNoiseBelowThreshold(t *testing.T) {
	d := NewDetector(DefaultVADThreshold)

	noise := make([]int16, 800)
	for i := range noise {
		if i%2 == 0 {
			noise[i] = 3
		} else {
			noise[i] = -3
		}
	}
	if d.IsSpeech(noise) {
		t.Error("near-silent line noise should not be speech")
	}
}

func TestDetector_ThresholdTunable(t *testing.T) {
	strict := NewDetector(0.5)

	if strict.IsSpeech(sineFrame(0.05, 800)) {
		t.Error("quiet tone should be below a 0.5 threshold")
	}
	if !strict.IsSpeech(sineFrame(0.9, 800)) {
		t.Error("near-full-scale tone should exceed a 0.5 threshold")
	}
}

func TestNewDetector_DefaultsOnInvalidThreshold(t *testing.T) {
	d := NewDetector(0)
	if d.threshold != DefaultVADThreshold {
		t.Errorf("expected default threshold %v, got %v", DefaultVADThreshold, d.threshold)
	}
}
