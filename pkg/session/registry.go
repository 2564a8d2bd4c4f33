package session

import "sync"

// Registry owns every guild session. Sessions are created lazily on the
// first relevant event and live for the process lifetime; guild counts
// are small enough that nothing is ever reclaimed.
type Registry struct {
	mu                  sync.RWMutex
	sessions            map[string]*Session
	defaultPlayOnFreeze bool
}

// NewRegistry creates an empty registry. New sessions inherit the given
// play-on-freeze default.
func NewRegistry(defaultPlayOnFreeze bool) *Registry {
	return &Registry{
		sessions:            make(map[string]*Session),
		defaultPlayOnFreeze: defaultPlayOnFreeze,
	}
}

// GetOrCreate returns the session for a guild, creating it on first use.
func (r *Registry) GetOrCreate(guildID string) *Session {
	r.mu.RLock()
	s, ok := r.sessions[guildID]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[guildID]; ok {
		return s
	}
	s = newSession(guildID, r.defaultPlayOnFreeze)
	r.sessions[guildID] = s
	return s
}

// Get returns the session for a guild, or nil when none exists yet.
func (r *Registry) Get(guildID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[guildID]
}

// All returns a snapshot of every known session.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	return all
}
