package runtime

import (
	"dm-chat/contract"
	"dm-chat/domain"
	"sync"
)

// Registry maps each user to the sinks of its open connections.
type Registry struct {
	mu       sync.RWMutex
	Sessions map[domain.UserID]map[string]contract.EventSink // user -> sink id -> sink
}

func NewRegistry() *Registry {
	return &Registry{Sessions: make(map[domain.UserID]map[string]contract.EventSink)}
}

// GetSinksForUsers resolves the recipients of an event into their live connections.
// Users without a connection are skipped.
func (r *Registry) GetSinksForUsers(userIDs ...domain.UserID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sinks []contract.EventSink
	seen := make(map[domain.UserID]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		for _, sink := range r.Sessions[userID] {
			sinks = append(sinks, sink)
		}
	}
	return sinks
}

func (r *Registry) Subscribe(userID domain.UserID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Sessions[userID]; !ok {
		r.Sessions[userID] = make(map[string]contract.EventSink)
	}
	r.Sessions[userID][sink.ID()] = sink
}

// Unsubscribe removes one connection. Users left without connections are dropped
// so the map does not grow with every user ever connected.
func (r *Registry) Unsubscribe(userID domain.UserID, sinkID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sinks, ok := r.Sessions[userID]; ok {
		delete(sinks, sinkID)
		if len(sinks) == 0 {
			delete(r.Sessions, userID)
		}
	}
}

// Count is the number of open connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, sinks := range r.Sessions {
		count += len(sinks)
	}
	return count
}
