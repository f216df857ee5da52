// room/room.go
package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/wfunc/drawguess/logger"
	"github.com/wfunc/drawguess/network"
	"github.com/wfunc/drawguess/state"
)

// EndReason says why a round ended.
type EndReason string

const (
	ReasonTimeUp     EndReason = "time_up"
	ReasonAllGuessed EndReason = "all_guessed"
	ReasonDrawerLeft EndReason = "drawer_left"
)

// Standing is one line of a final scoreboard.
type Standing struct {
	Name  string
	Score int
}

// Result is reported to the Observer when a game ends.
type Result struct {
	RoomID    string
	Rounds    int
	Standings []Standing
	StartedAt time.Time
	EndedAt   time.Time
}

// Summary is the diagnostic view used by the room listing.
type Summary struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
	State   string `json:"state"`
}

// Room is one game session. Every exported method takes the room lock, so
// all mutations of a room are serialized; timer callbacks take the same lock
// and re-check that they are still current before acting.
type Room struct {
	ID string

	settings    Settings
	broadcaster Broadcaster
	words       WordSource
	observer    Observer

	mu           sync.Mutex
	machine      *state.BaseStateMachine
	players      []*Player
	currentRound int
	rot          rotation
	secretWord   string
	options      []string
	remaining    int
	timer        roundTimer
	closed       bool
	startedAt    time.Time
}

// NewRoom creates a room in LOBBY with an empty roster.
func NewRoom(id string, settings Settings, deps Deps) *Room {
	observer := deps.Observer
	if observer == nil {
		observer = NopObserver{}
	}
	r := &Room{
		ID:          id,
		settings:    settings,
		broadcaster: deps.Broadcaster,
		words:       deps.Words,
		observer:    observer,
		machine:     state.NewGameMachine(),
		timer:       roundTimer{sched: deps.Scheduler},
	}
	r.machine.OnExit(state.Drawing, r.timer.cancel)
	r.machine.OnExit(state.WordSelect, r.timer.cancel)
	r.machine.OnEnter(state.GameOver, r.reportResult)
	return r
}

// Join appends a player to the end of the roster, so late joiners draw
// after everyone already present.
func (r *Room) Join(connID, requestedName string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Player{}, ErrRoomClosed
	}
	if r.indexOf(connID) >= 0 {
		return Player{}, ErrAlreadyJoined
	}
	if len(r.players) >= r.settings.MaxPlayers {
		return Player{}, ErrRoomFull
	}

	names := make([]string, len(r.players))
	for i, p := range r.players {
		names[i] = p.Name
	}
	p := &Player{
		ConnID: connID,
		Name:   ResolveName(names, requestedName, connID, r.settings.MaxNameLength),
	}
	r.players = append(r.players, p)
	logger.Log.Infof("Player %s (%s) joined room %s (%d/%d)", p.Name, connID, r.ID, len(r.players), r.settings.MaxPlayers)

	r.sendTo(connID, network.EventRoomJoined, network.RoomJoined{RoomID: r.ID, Username: p.Name})
	r.systemMessage(fmt.Sprintf("%s joined.", p.Name))
	r.broadcastState()
	return *p, nil
}

// Leave removes a player and returns how many remain. A drawer leaving
// mid-turn ends the round (DRAWING) or skips the turn (WORD_SELECT).
func (r *Room) Leave(connID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrRoomClosed
	}
	idx := r.indexOf(connID)
	if idx < 0 {
		return len(r.players), ErrNotInRoom
	}

	p := r.players[idx]
	phase := r.phase()
	current := idx == r.rot.index && (phase.InRound() || phase == state.RoundEnd)
	r.players = append(r.players[:idx], r.players[idx+1:]...)
	r.rot.remove(idx, len(r.players), current)
	logger.Log.Infof("Player %s (%s) left room %s", p.Name, connID, r.ID)

	if len(r.players) == 0 {
		return 0, nil
	}

	r.systemMessage(fmt.Sprintf("%s left.", p.Name))
	r.broadcastState()

	switch {
	case phase == state.Drawing && p.IsDrawer:
		r.systemMessage(fmt.Sprintf("Drawer %s disconnected! Ending round.", p.Name))
		r.endRound(ReasonDrawerLeft)
	case phase == state.Drawing && r.allGuessed():
		r.endRound(ReasonAllGuessed)
	case phase == state.WordSelect && p.IsDrawer:
		r.systemMessage(fmt.Sprintf("Drawer %s left before choosing. Skipping turn.", p.Name))
		r.nextTurn()
	}
	return len(r.players), nil
}

// Snapshot returns the public state.
func (r *Room) Snapshot() network.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Summary returns the listing view.
func (r *Room) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{ID: r.ID, Players: len(r.players), State: string(r.phase())}
}

// Phase returns the current phase.
func (r *Room) Phase() state.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase()
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Player returns a copy of the player on connID.
func (r *Room) Player(connID string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx := r.indexOf(connID); idx >= 0 {
		return *r.players[idx], true
	}
	return Player{}, false
}

// Close cancels any pending timer. Later calls on the room fail with
// ErrRoomClosed and late timer callbacks do nothing.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.timer.cancel()
}

func (r *Room) phase() state.Phase {
	return r.machine.GetCurrentState()
}

func (r *Room) indexOf(connID string) int {
	for i, p := range r.players {
		if p.ConnID == connID {
			return i
		}
	}
	return -1
}

func (r *Room) player(connID string) *Player {
	if idx := r.indexOf(connID); idx >= 0 {
		return r.players[idx]
	}
	return nil
}

func (r *Room) drawer() *Player {
	for _, p := range r.players {
		if p.IsDrawer {
			return p
		}
	}
	return nil
}

func (r *Room) snapshot() network.GameState {
	players := make([]network.PlayerState, len(r.players))
	for i, p := range r.players {
		players[i] = p.public()
	}
	return network.GameState{
		RoomID:       r.ID,
		State:        string(r.phase()),
		CurrentRound: r.currentRound,
		MaxRounds:    r.settings.MaxRounds,
		Players:      players,
	}
}

// --- fan-out ---

func (r *Room) sendTo(connID, event string, payload any) {
	if err := r.broadcaster.SendTo(connID, event, payload); err != nil {
		logger.Log.Debugf("Room %s: send %s to %s failed: %v", r.ID, event, connID, err)
	}
}

// Broadcast sends an event to every player in the room.
func (r *Room) Broadcast(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcast(event, payload)
}

func (r *Room) broadcast(event string, payload any) {
	r.broadcastWhere(event, payload, func(*Player) bool { return true })
}

func (r *Room) broadcastWhere(event string, payload any, include func(*Player) bool) {
	for _, p := range r.players {
		if include(p) {
			r.sendTo(p.ConnID, event, payload)
		}
	}
}

func (r *Room) systemMessage(msg string) {
	r.broadcast(network.EventSystemMessage, msg)
}

func (r *Room) broadcastState() {
	r.broadcast(network.EventGameState, r.snapshot())
}
