package http

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ai-voice-reception-service/internal/app"
	"ai-voice-reception-service/internal/telephony"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Media stream connections come from the telephony provider, not
	// browsers; caller signature verification is an upstream gate.
	CheckOrigin: func(*http.Request) bool { return true },
}

// safeConn serializes writes to the websocket. The playback goroutine
// and the session both write; gorilla allows one concurrent writer.
type safeConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *safeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

// newMediaStreamHandler upgrades the connection and pumps inbound
// envelopes into a call session until the peer disconnects.
func newMediaStreamHandler(application *app.Application, registry *telephony.Registry, newSession SessionFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callSid := r.URL.Query().Get("callSid")
		if callSid == "" {
			callSid = uuid.NewString()
		}
		from := r.URL.Query().Get("from")
		clinicID := r.URL.Query().Get("clinicId")

		log := application.SessionLogger(callSid, from, clinicID)

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("websocket upgrade failed")
			return
		}

		conn := &safeConn{ws: ws}
		session := newSession(conn, callSid, from, clinicID)
		if prev := registry.Add(session); prev != nil {
			log.Warn().Msg("replacing existing session for call")
			prev.Teardown("replaced")
		}

		defer func() {
			registry.Remove(callSid)
			session.Wait()
			_ = ws.Close()
		}()

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Msg("media stream read failed")
					session.Teardown("connection_error")
				} else {
					session.Teardown("disconnected")
				}
				return
			}

			var env telephony.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				log.Debug().Err(err).Msg("malformed stream message dropped")
				continue
			}
			session.HandleMessage(&env)

			if env.Event == telephony.EventStop {
				return
			}
		}
	}
}
