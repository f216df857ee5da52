// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/drawguess/logger"
	"github.com/wfunc/drawguess/session"
)

// Broadcaster delivers events to connected sessions.
type Broadcaster interface {
	SendTo(connID string, event string, payload any) error
	BroadcastToRoom(roomID string, event string, payload any) error
	BroadcastToAll(event string, payload any) error
}

// SessionBroadcaster resolves connection ids through the session manager.
type SessionBroadcaster struct {
	sessionManager *session.Manager
}

func NewSessionBroadcaster(sessionManager *session.Manager) *SessionBroadcaster {
	return &SessionBroadcaster{
		sessionManager: sessionManager,
	}
}

// SendTo queues one event for one connection. Unknown ids yield
// session.ErrSessionNotFound.
func (b *SessionBroadcaster) SendTo(connID string, event string, payload any) error {
	s, exists := b.sessionManager.Get(connID)
	if !exists {
		return session.ErrSessionNotFound
	}
	return s.Send(event, payload)
}

// BroadcastToRoom sends to every session attached to roomID. Slow or dead
// peers are skipped.
func (b *SessionBroadcaster) BroadcastToRoom(roomID string, event string, payload any) error {
	for _, s := range b.sessionManager.InRoom(roomID) {
		if err := s.Send(event, payload); err != nil {
			logger.Log.Debugf("broadcast %s to %s failed: %v", event, s.ID, err)
		}
	}
	return nil
}

func (b *SessionBroadcaster) BroadcastToAll(event string, payload any) error {
	for _, s := range b.sessionManager.All() {
		if err := s.Send(event, payload); err != nil {
			logger.Log.Debugf("broadcast %s to %s failed: %v", event, s.ID, err)
		}
	}
	return nil
}
