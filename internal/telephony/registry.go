package telephony

import "sync"

// Registry tracks the active sessions by call SID. Safe for
// concurrent use from the connection handlers and the introspection
// endpoint.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add registers a session. A second session for the same call SID
// replaces the first; the returned session is the replaced one, nil
// otherwise.
func (r *Registry) Add(s *Session) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.sessions[s.callSid]
	r.sessions[s.callSid] = s
	return prev
}

// Remove drops a session by call SID.
func (r *Registry) Remove(callSid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, callSid)
}

// Get returns the session for a call SID, if any.
func (r *Registry) Get(callSid string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[callSid]
	return s, ok
}

// Len reports the number of active sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot returns point-in-time info for every active session.
func (r *Registry) Snapshot() []Info {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	infos := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Snapshot())
	}
	return infos
}

// CloseAll tears down every active session. Used on shutdown.
func (r *Registry) CloseAll(reason string) {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Teardown(reason)
	}
}
