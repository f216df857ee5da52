package room

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wfunc/drawguess/logger"
	"github.com/wfunc/drawguess/network"
	"github.com/wfunc/drawguess/state"
)

// Chat routes a message through the guess evaluator. A correct guess is
// scored and never echoed; anything else is sanitized and broadcast.
func (r *Room) Chat(connID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	p := r.player(connID)
	if p == nil {
		return ErrNotInRoom
	}

	drawing := r.phase() == state.Drawing
	if drawing && !p.IsDrawer && !p.HasGuessed && IsCorrectGuess(message, r.secretWord) {
		r.creditGuess(p)
		return nil
	}

	if strings.TrimSpace(message) == "" {
		return nil
	}
	msg := network.ChatMessage{Username: p.Name, Message: Sanitize(message, r.settings.MaxMessageLength)}

	// Players who know the word may not spell it out for the others.
	if drawing && (p.IsDrawer || p.HasGuessed) && containsWord(message, r.secretWord) {
		r.broadcastWhere(network.EventChatMessage, msg, func(q *Player) bool {
			return q.IsDrawer || q.HasGuessed
		})
		return nil
	}

	r.broadcast(network.EventChatMessage, msg)
	return nil
}

func (r *Room) creditGuess(p *Player) {
	p.HasGuessed = true
	p.Score += r.settings.GuessPoints
	if d := r.drawer(); d != nil {
		d.Score += r.settings.DrawerPoints
	}
	logger.Log.Infof("Room %s: %s guessed the word", r.ID, p.Name)

	r.systemMessage(fmt.Sprintf("%s guessed the word!", p.Name))
	r.broadcastState()
	r.observer.CorrectGuess(r.ID)

	if r.allGuessed() {
		r.endRound(ReasonAllGuessed)
	}
}

// Draw relays an opaque stroke to every other member. While a turn is in
// progress only the drawer's strokes are relayed.
func (r *Room) Draw(connID string, stroke json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	p := r.player(connID)
	if p == nil {
		return ErrNotInRoom
	}
	if r.phase().InRound() && !p.IsDrawer {
		return ErrNotDrawer
	}
	r.broadcastWhere(network.EventDraw, stroke, func(q *Player) bool {
		return q.ConnID != connID
	})
	return nil
}
