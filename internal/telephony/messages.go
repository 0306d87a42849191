package telephony

import "encoding/base64"

// Provider media stream events.
const (
	EventConnected = "connected"
	EventStart     = "start"
	EventMedia     = "media"
	EventDTMF      = "dtmf"
	EventStop      = "stop"
	EventMark      = "mark"
	EventClear     = "clear"
)

// Envelope is the JSON frame exchanged on the media stream websocket.
// One envelope per message; the event field selects which payload is
// present.
type Envelope struct {
	Event     string        `json:"event"`
	StreamSid string        `json:"streamSid,omitempty"`
	Start     *StartPayload `json:"start,omitempty"`
	Media     *MediaPayload `json:"media,omitempty"`
	DTMF      *DTMFPayload  `json:"dtmf,omitempty"`
	Mark      *MarkPayload  `json:"mark,omitempty"`
}

// StartPayload binds the stream to a call.
type StartPayload struct {
	StreamSid        string            `json:"streamSid"`
	CallSid          string            `json:"callSid"`
	CustomParameters map[string]string `json:"customParameters,omitempty"`
}

// MediaPayload carries one base64 mu-law frame.
type MediaPayload struct {
	Payload   string `json:"payload"`
	Timestamp string `json:"timestamp,omitempty"`
	Track     string `json:"track,omitempty"`
}

// DTMFPayload carries one touch-tone digit.
type DTMFPayload struct {
	Digit string `json:"digit"`
}

// MarkPayload names a playback completion marker.
type MarkPayload struct {
	Name string `json:"name"`
}

// MediaMessage builds an outbound audio frame.
func MediaMessage(streamSid string, mulaw []byte) Envelope {
	return Envelope{
		Event:     EventMedia,
		StreamSid: streamSid,
		Media: &MediaPayload{
			Payload: base64.StdEncoding.EncodeToString(mulaw),
		},
	}
}

// MarkMessage builds a playback completion marker.
func MarkMessage(streamSid, name string) Envelope {
	return Envelope{
		Event:     EventMark,
		StreamSid: streamSid,
		Mark:      &MarkPayload{Name: name},
	}
}

// ClearMessage tells the provider to discard any buffered outbound
// audio. Sent on barge-in so the caller stops hearing the old reply
// immediately.
func ClearMessage(streamSid string) Envelope {
	return Envelope{
		Event:     EventClear,
		StreamSid: streamSid,
	}
}

// DecodeMediaPayload returns the raw mu-law bytes of an inbound frame.
func DecodeMediaPayload(p *MediaPayload) ([]byte, error) {
	if p == nil || p.Payload == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(p.Payload)
}
