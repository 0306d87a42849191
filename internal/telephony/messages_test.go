package telephony

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestEnvelopeMediaRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x7F, 0xFF}
	env := MediaMessage("MZ1", raw)

	b, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Envelope
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Event != EventMedia || decoded.StreamSid != "MZ1" {
		t.Errorf("unexpected envelope %+v", decoded)
	}
	got, err := DecodeMediaPayload(decoded.Media)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(raw) {
		t.Errorf("payload round trip mismatch: %v", got)
	}
}

func TestParseInboundStart(t *testing.T) {
	msg := `{"event":"start","streamSid":"MZ9","start":{"streamSid":"MZ9","callSid":"CA1","customParameters":{"from":"+15550100"}}}`

	var env Envelope
	if err := json.Unmarshal([]byte(msg), &env); err != nil {
		t.Fatal(err)
	}
	if env.Event != EventStart {
		t.Errorf("event %q", env.Event)
	}
	if env.Start == nil || env.Start.CallSid != "CA1" {
		t.Errorf("start payload %+v", env.Start)
	}
	if env.Start.CustomParameters["from"] != "+15550100" {
		t.Error("custom parameters lost")
	}
}

func TestParseInboundDTMF(t *testing.T) {
	var env Envelope
	if err := json.Unmarshal([]byte(`{"event":"dtmf","dtmf":{"digit":"2"}}`), &env); err != nil {
		t.Fatal(err)
	}
	if env.DTMF == nil || env.DTMF.Digit != "2" {
		t.Errorf("dtmf payload %+v", env.DTMF)
	}
}

func TestDecodeMediaPayload(t *testing.T) {
	if b, err := DecodeMediaPayload(nil); err != nil || b != nil {
		t.Error("nil payload must decode to nothing")
	}
	if _, err := DecodeMediaPayload(&MediaPayload{Payload: "!!!"}); err == nil {
		t.Error("expected error for invalid base64")
	}
	b, err := DecodeMediaPayload(&MediaPayload{Payload: base64.StdEncoding.EncodeToString([]byte{1, 2})})
	if err != nil || len(b) != 2 {
		t.Errorf("decode failed: %v %v", b, err)
	}
}

func TestClearAndMarkMessages(t *testing.T) {
	c := ClearMessage("MZ1")
	if c.Event != EventClear || c.StreamSid != "MZ1" {
		t.Errorf("clear message %+v", c)
	}
	m := MarkMessage("MZ1", "playback-1")
	if m.Event != EventMark || m.Mark == nil || m.Mark.Name != "playback-1" {
		t.Errorf("mark message %+v", m)
	}
}
