package room

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wfunc/drawguess/logger"
	"github.com/wfunc/drawguess/network"
	"github.com/wfunc/drawguess/state"
)

// StartGame moves a LOBBY room into its first round. Any member may start.
func (r *Room) StartGame(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if r.player(connID) == nil {
		return ErrNotInRoom
	}
	if err := r.machine.ChangeState(state.RoundStart); err != nil {
		return err
	}

	r.currentRound = 1
	r.rot.reset()
	r.startedAt = time.Now()
	logger.Log.Infof("Room %s: game started with %d players", r.ID, len(r.players))
	r.setupRound()
	return nil
}

// SelectWord sets the secret word from one of the offered options.
func (r *Room) SelectWord(connID, word string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if r.phase() != state.WordSelect {
		return ErrInvalidTransition
	}
	p := r.player(connID)
	if p == nil {
		return ErrNotInRoom
	}
	if !p.IsDrawer {
		return ErrNotDrawer
	}
	for _, option := range r.options {
		if strings.EqualFold(strings.TrimSpace(word), option) {
			r.secretWord = option
			r.startDrawing()
			return nil
		}
	}
	return ErrInvalidWord
}

// setupRound picks the drawer at the rotation index and either offers a
// word choice or assigns a word and starts drawing.
func (r *Room) setupRound() {
	for _, p := range r.players {
		p.IsDrawer = false
		p.HasGuessed = false
	}
	r.secretWord = ""
	r.options = nil

	drawer := r.players[r.rot.index]
	drawer.IsDrawer = true

	if !r.settings.WordChoice {
		r.secretWord = r.words.Pick()
		r.systemMessage(fmt.Sprintf("Round %d started. Drawer: %s", r.currentRound, drawer.Name))
		r.startDrawing()
		return
	}

	if err := r.machine.ChangeState(state.WordSelect); err != nil {
		logger.Log.Errorf("Room %s: cannot enter %s from %s: %v", r.ID, state.WordSelect, r.phase(), err)
		return
	}
	r.options = r.words.SampleDistinct(r.settings.ChoiceCount)
	r.systemMessage(fmt.Sprintf("Round %d started. Drawer: %s is choosing a word...", r.currentRound, drawer.Name))
	r.broadcastState()
	r.sendTo(drawer.ConnID, network.EventWordSelectOptions, r.options)

	if r.settings.WordChoiceTimeout > 0 {
		r.timer.schedule(r.settings.WordChoiceTimeout, 0, func(gen uint64) {
			r.fire(gen, state.WordSelect, r.chooseForDrawer)
		})
	}
}

func (r *Room) chooseForDrawer() {
	if len(r.options) == 0 {
		r.options = []string{r.words.Pick()}
	}
	r.secretWord = r.options[0]
	if d := r.drawer(); d != nil {
		r.systemMessage(fmt.Sprintf("%s took too long. A word was picked automatically.", d.Name))
	}
	r.startDrawing()
}

func (r *Room) startDrawing() {
	if err := r.machine.ChangeState(state.Drawing); err != nil {
		logger.Log.Errorf("Room %s: cannot enter %s from %s: %v", r.ID, state.Drawing, r.phase(), err)
		return
	}
	logger.Log.Infof("Room %s: round %d drawing started", r.ID, r.currentRound)

	r.systemMessage("Drawer has chosen a word! Guess the shape!")
	r.broadcastState()
	if d := r.drawer(); d != nil {
		r.sendTo(d.ConnID, network.EventSecretWord, r.secretWord)
	}

	r.remaining = r.settings.roundSeconds()
	r.timer.schedule(time.Second, time.Second, func(gen uint64) {
		r.fire(gen, state.Drawing, r.tick)
	})
}

func (r *Room) tick() {
	r.remaining--
	r.broadcast(network.EventTimerUpdate, r.remaining)
	if r.remaining <= 0 {
		r.endRound(ReasonTimeUp)
	}
}

// fire runs fn for a timer callback if the room is open, the callback is
// still the current one, and the room is still in the expected phase.
func (r *Room) fire(gen uint64, expected state.Phase, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || !r.timer.live(gen) || r.phase() != expected || len(r.players) == 0 {
		return
	}
	fn()
}

// endRound cancels the countdown, reveals the word and schedules the next turn.
func (r *Room) endRound(reason EndReason) {
	if err := r.machine.ChangeState(state.RoundEnd); err != nil {
		return
	}
	for _, p := range r.players {
		p.IsDrawer = false
	}
	logger.Log.Infof("Room %s: round %d ended (%s), word was %q", r.ID, r.currentRound, reason, r.secretWord)

	r.systemMessage(fmt.Sprintf("Round over! Word: %s", r.secretWord))
	r.broadcast(network.EventRoundEnd, network.RoundEnd{Word: r.secretWord})
	r.broadcastState()
	r.observer.RoundEnded(r.ID, reason)

	r.timer.schedule(r.settings.RoundEndDelay, 0, func(gen uint64) {
		r.fire(gen, state.RoundEnd, r.nextTurn)
	})
}

// nextTurn rotates the drawer and either starts the next round or ends the game.
func (r *Room) nextTurn() {
	if r.rot.advance(len(r.players)) {
		r.currentRound++
	}
	if r.currentRound > r.settings.MaxRounds {
		r.finish()
		return
	}
	r.setupRound()
}

func (r *Room) finish() {
	for _, p := range r.players {
		p.IsDrawer = false
	}
	r.secretWord = ""
	r.options = nil
	if err := r.machine.ChangeState(state.GameOver); err != nil {
		logger.Log.Errorf("Room %s: cannot enter %s from %s: %v", r.ID, state.GameOver, r.phase(), err)
		return
	}
	r.systemMessage("Game Over!")
	r.broadcastState()
}

func (r *Room) reportResult() {
	standings := make([]Standing, len(r.players))
	for i, p := range r.players {
		standings[i] = Standing{Name: p.Name, Score: p.Score}
	}
	sort.SliceStable(standings, func(i, j int) bool { return standings[i].Score > standings[j].Score })

	logger.Log.Infof("Room %s: game over after %d rounds", r.ID, r.settings.MaxRounds)
	r.observer.GameOver(Result{
		RoomID:    r.ID,
		Rounds:    r.settings.MaxRounds,
		Standings: standings,
		StartedAt: r.startedAt,
		EndedAt:   time.Now(),
	})
}

func (r *Room) allGuessed() bool {
	for _, p := range r.players {
		if !p.IsDrawer && !p.HasGuessed {
			return false
		}
	}
	return true
}
