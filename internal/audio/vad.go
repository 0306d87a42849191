package audio

import "math"

// DefaultVADThreshold is deliberately low. A false positive only costs
// an unnecessary barge-in check; a false negative means real caller
// speech is ignored.
const DefaultVADThreshold = 0.02

// Detector is a coarse energy-based voice activity detector. It is a
// pure function of one frame: no cross-call state, no allocation.
type Detector struct {
	threshold float64
}

// NewDetector creates a detector with the given normalized RMS energy
// threshold. Non-positive thresholds fall back to the default.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultVADThreshold
	}
	return &Detector{threshold: threshold}
}

// IsSpeech reports whether the frame carries speech energy.
func (d *Detector) IsSpeech(frame []int16) bool {
	if len(frame) == 0 {
		return false
	}
	var sum float64
	for _, s := range frame {
		f := float64(s)
		sum += f * f
	}
	rms := math.Sqrt(sum/float64(len(frame))) / 32768.0
	return rms > d.threshold
}
