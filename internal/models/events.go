// Package models defines the data structures for call events.
package models

// CallStarted is emitted when a media stream session is accepted.
type CallStarted struct {
	EventType string `json:"eventType"`
	CallSID   string `json:"callSid"`
	From      string `json:"from"`
	ClinicID  string `json:"clinicId"`
	Timestamp int64  `json:"timestamp"`
}

// UtteranceTranscribed is emitted for each transcribed caller utterance.
type UtteranceTranscribed struct {
	EventType   string  `json:"eventType"`
	CallSID     string  `json:"callSid"`
	ClinicID    string  `json:"clinicId"`
	UtteranceID string  `json:"utteranceId"`
	Text        string  `json:"text"`
	Confidence  float64 `json:"confidence"`
	Source      string  `json:"source"` // speech or dtmf
	Timestamp   int64   `json:"timestamp"`
}

// TriageDecided is emitted once classification of an utterance completes.
type TriageDecided struct {
	EventType   string  `json:"eventType"`
	CallSID     string  `json:"callSid"`
	ClinicID    string  `json:"clinicId"`
	UtteranceID string  `json:"utteranceId"`
	Intent      string  `json:"intent"`
	Urgency     string  `json:"urgency"`
	Confidence  float64 `json:"confidence"`
	Escalate    bool    `json:"escalate"`
	Directive   string  `json:"directive"`
	Timestamp   int64   `json:"timestamp"`
}

// CallEscalated is emitted when a call is forced out of the
// conversational loop toward human or emergency handoff. Downstream
// consumers own the actual callback/transfer delivery.
type CallEscalated struct {
	EventType      string `json:"eventType"`
	CallSID        string `json:"callSid"`
	From           string `json:"from"`
	ClinicID       string `json:"clinicId"`
	Reason         string `json:"reason"`
	TransferNumber string `json:"transferNumber,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

// CallEnded is emitted when a session is torn down.
type CallEnded struct {
	EventType  string `json:"eventType"`
	CallSID    string `json:"callSid"`
	ClinicID   string `json:"clinicId"`
	Reason     string `json:"reason"`
	DurationMs int64  `json:"durationMs"`
	Utterances int    `json:"utterances"`
	Escalated  bool   `json:"escalated"`
	Timestamp  int64  `json:"timestamp"`
}
