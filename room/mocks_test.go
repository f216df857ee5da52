package room

import (
	"sync"
	"time"

	"github.com/wfunc/drawguess/network"
)

type sentEvent struct {
	ConnID  string
	Event   string
	Payload any
}

// recordingBroadcaster captures every SendTo call.
type recordingBroadcaster struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (b *recordingBroadcaster) SendTo(connID, event string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, sentEvent{ConnID: connID, Event: event, Payload: payload})
	return nil
}

func (b *recordingBroadcaster) events(connID, event string) []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []any
	for _, s := range b.sent {
		if s.ConnID == connID && s.Event == event {
			out = append(out, s.Payload)
		}
	}
	return out
}

func (b *recordingBroadcaster) last(connID, event string) any {
	ev := b.events(connID, event)
	if len(ev) == 0 {
		return nil
	}
	return ev[len(ev)-1]
}

func (b *recordingBroadcaster) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = nil
}

type fakeTask struct {
	delay    time.Duration
	interval time.Duration
	callback func()
}

// manualScheduler never fires on its own; tests fire tasks explicitly.
type manualScheduler struct {
	mu      sync.Mutex
	nextID  int64
	tasks   map[int64]*fakeTask
	removed map[int64]bool
	// stale holds callbacks of removed tasks so tests can simulate a
	// callback that was dispatched just before cancellation.
	stale map[int64]func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{
		tasks:   make(map[int64]*fakeTask),
		removed: make(map[int64]bool),
		stale:   make(map[int64]func()),
	}
}

func (s *manualScheduler) AddTimer(delay, interval time.Duration, callback func()) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.tasks[s.nextID] = &fakeTask{delay: delay, interval: interval, callback: callback}
	return s.nextID
}

func (s *manualScheduler) RemoveTimer(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task, ok := s.tasks[id]; ok {
		s.stale[id] = task.callback
		delete(s.tasks, id)
	}
	s.removed[id] = true
}

func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// latest returns the most recently added pending task.
func (s *manualScheduler) latest() (int64, *fakeTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var id int64
	for k := range s.tasks {
		if k > id {
			id = k
		}
	}
	return id, s.tasks[id]
}

// fire runs the latest task once. One-shot tasks are dropped first.
func (s *manualScheduler) fire() bool {
	id, task := s.latest()
	if task == nil {
		return false
	}
	if task.interval == 0 {
		s.mu.Lock()
		delete(s.tasks, id)
		s.mu.Unlock()
	}
	task.callback()
	return true
}

func (s *manualScheduler) fireStale(id int64) {
	s.mu.Lock()
	cb := s.stale[id]
	s.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// fixedWords always offers the same words in order.
type fixedWords struct {
	words []string
}

func (w fixedWords) Pick() string { return w.words[0] }

func (w fixedWords) SampleDistinct(n int) []string {
	if n > len(w.words) {
		n = len(w.words)
	}
	return append([]string(nil), w.words[:n]...)
}

type countingObserver struct {
	NopObserver
	mu      sync.Mutex
	created []string
	closed  []string
	rounds  []EndReason
	guesses int
	results []Result
}

func (o *countingObserver) RoomCreated(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created = append(o.created, id)
}

func (o *countingObserver) RoomClosed(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = append(o.closed, id)
}

func (o *countingObserver) RoundEnded(_ string, reason EndReason) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rounds = append(o.rounds, reason)
}

func (o *countingObserver) CorrectGuess(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.guesses++
}

func (o *countingObserver) GameOver(result Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, result)
}

type harness struct {
	room     *Room
	bc       *recordingBroadcaster
	sched    *manualScheduler
	observer *countingObserver
}

func newHarness(settings Settings) *harness {
	h := &harness{
		bc:       &recordingBroadcaster{},
		sched:    newManualScheduler(),
		observer: &countingObserver{},
	}
	h.room = NewRoom("ABCD", settings, h.deps())
	return h
}

func (h *harness) deps() Deps {
	return Deps{
		Broadcaster: h.bc,
		Scheduler:   h.sched,
		Words:       fixedWords{words: []string{"Circle", "Star", "Heart"}},
		Observer:    h.observer,
	}
}

// autoSettings assigns the word automatically.
func autoSettings() Settings {
	s := DefaultSettings()
	s.WordChoice = false
	return s
}

func (h *harness) state() network.GameState {
	return h.room.Snapshot()
}

func (h *harness) playerByName(name string) network.PlayerState {
	for _, p := range h.state().Players {
		if p.Username == name {
			return p
		}
	}
	return network.PlayerState{}
}
