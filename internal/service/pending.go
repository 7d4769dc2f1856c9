package service

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pendingSessions remembers which plan day a live guided session came from,
// keyed by user. In-memory only, like the sessions themselves.
type pendingSessions struct {
	mu sync.Mutex
	m  map[primitive.ObjectID]pendingEntry
}

type pendingEntry struct {
	planID primitive.ObjectID
	dayID  string
}

func newPendingSessions() pendingSessions {
	return pendingSessions{m: make(map[primitive.ObjectID]pendingEntry)}
}

func (p *pendingSessions) set(userID, planID primitive.ObjectID, dayID string) {
	p.mu.Lock()
	p.m[userID] = pendingEntry{planID: planID, dayID: dayID}
	p.mu.Unlock()
}

func (p *pendingSessions) clear(userID primitive.ObjectID) {
	p.mu.Lock()
	delete(p.m, userID)
	p.mu.Unlock()
}

func (p *pendingSessions) take(userID primitive.ObjectID) (primitive.ObjectID, string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.m[userID]
	if ok {
		delete(p.m, userID)
	}
	return entry.planID, entry.dayID, ok
}
