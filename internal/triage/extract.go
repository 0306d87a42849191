package triage

import (
	"regexp"
	"strings"
)

// Fields holds free-form details pulled out of an utterance. They ride
// along on the utterance record for downstream consumers; nothing in
// the triage decision depends on them.
type Fields struct {
	Species      string   `json:"species,omitempty"`
	Symptoms     []string `json:"symptoms,omitempty"`
	PhoneNumbers []string `json:"phoneNumbers,omitempty"`
}

var phonePattern = regexp.MustCompile(`\+?\d[\d\-\s().]{6,}\d`)

// Extract scans an utterance for pet species, symptom keywords and
// phone numbers mentioned by the caller.
func Extract(text string) Fields {
	lower := strings.ToLower(text)
	f := Fields{
		Species:  firstMatch(lower, speciesKeywords),
		Symptoms: matchesOf(lower, healthKeywords),
	}
	for _, m := range phonePattern.FindAllString(text, -1) {
		f.PhoneNumbers = append(f.PhoneNumbers, strings.TrimSpace(m))
	}
	return f
}
