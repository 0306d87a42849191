// Manual test client: streams a WAV file as a phone call against the
// media stream endpoint and prints what the service speaks back.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"ai-voice-reception-service/internal/audio"
	"ai-voice-reception-service/internal/telephony"
)

// WAV header is 44 bytes for standard PCM files
const wavHeaderSize = 44

// 160 mu-law bytes per frame = 20ms of call audio at 8kHz
const frameIntervalMs = 20

func main() {
	audioFile := flag.String("audio", "testdata/sample-8khz.wav", "Path to WAV file (8kHz 16-bit mono)")
	serverURL := flag.String("server", "ws://localhost:8080/v1/media-stream", "Media stream websocket URL")
	callSid := flag.String("call", "test-call-"+time.Now().Format("150405"), "Call SID")
	from := flag.String("from", "+15550100", "Caller number")
	dtmf := flag.String("dtmf", "", "Optional DTMF digit to send after the audio")
	flag.Parse()

	pcm := readWAV(*audioFile)
	mulaw := audio.EncodeMuLaw(pcm)

	url := fmt.Sprintf("%s?callSid=%s&from=%s", *serverURL, *callSid, *from)
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer ws.Close()
	log.Printf("Connected to %s", url)

	// Print everything the service sends back.
	go func() {
		for {
			var env telephony.Envelope
			if err := ws.ReadJSON(&env); err != nil {
				return
			}
			switch env.Event {
			case telephony.EventMedia:
				raw, _ := telephony.DecodeMediaPayload(env.Media)
				log.Printf("<- media %d bytes", len(raw))
			case telephony.EventMark:
				log.Printf("<- mark %s", env.Mark.Name)
			case telephony.EventClear:
				log.Printf("<- clear (barge-in)")
			default:
				log.Printf("<- %s", env.Event)
			}
		}
	}()

	send := func(env telephony.Envelope) {
		if err := ws.WriteJSON(env); err != nil {
			log.Fatalf("write failed: %v", err)
		}
	}

	streamSid := "MZ" + *callSid
	send(telephony.Envelope{Event: telephony.EventConnected})
	send(telephony.Envelope{
		Event: telephony.EventStart,
		Start: &telephony.StartPayload{StreamSid: streamSid, CallSid: *callSid},
	})

	log.Printf("Streaming %d bytes of mu-law audio", len(mulaw))
	ticker := time.NewTicker(frameIntervalMs * time.Millisecond)
	defer ticker.Stop()
	for off := 0; off < len(mulaw); off += audio.FrameBytes {
		end := off + audio.FrameBytes
		if end > len(mulaw) {
			end = len(mulaw)
		}
		m := telephony.MediaMessage(streamSid, mulaw[off:end])
		m.StreamSid = "" // inbound media carries no streamSid
		send(m)
		<-ticker.C
	}

	if *dtmf != "" {
		log.Printf("Sending DTMF %q", *dtmf)
		send(telephony.Envelope{Event: telephony.EventDTMF, DTMF: &telephony.DTMFPayload{Digit: *dtmf}})
	}

	// Leave time for the reply to play back.
	time.Sleep(5 * time.Second)
	send(telephony.Envelope{Event: telephony.EventStop})
	time.Sleep(500 * time.Millisecond)
	log.Println("Done")
}

func readWAV(path string) []int16 {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open audio file: %v", err)
	}
	defer f.Close()

	header := make([]byte, wavHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		log.Fatalf("Failed to read WAV header: %v", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		log.Fatal("Not a valid WAV file")
	}

	audioFormat := binary.LittleEndian.Uint16(header[20:22])
	sampleRate := binary.LittleEndian.Uint32(header[24:28])
	bitsPerSample := binary.LittleEndian.Uint16(header[34:36])
	if audioFormat != 1 || bitsPerSample != 16 {
		log.Fatal("Only 16-bit PCM WAV supported")
	}
	if sampleRate != audio.SampleRate {
		log.Printf("Warning: Sample rate is %d Hz, expected %d Hz", sampleRate, audio.SampleRate)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		log.Fatalf("Failed to read audio data: %v", err)
	}
	pcm := make([]int16, len(data)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return pcm
}
