package room

import "time"

// Broadcaster delivers one event to one connection.
// This is defined here to break the import cycle between room and broadcast.
type Broadcaster interface {
	SendTo(connID string, event string, payload any) error
}

// Scheduler runs callbacks later. timer.TimerManager satisfies it.
type Scheduler interface {
	AddTimer(delay time.Duration, interval time.Duration, callback func()) int64
	RemoveTimer(timerID int64)
}

// WordSource supplies secret words. words.Bank satisfies it.
type WordSource interface {
	Pick() string
	SampleDistinct(n int) []string
}

// Observer is notified of room lifecycle events. Calls are made while the
// room is locked, so implementations must return quickly and must not call
// back into the room.
type Observer interface {
	RoomCreated(roomID string)
	RoomClosed(roomID string)
	RoundEnded(roomID string, reason EndReason)
	CorrectGuess(roomID string)
	GameOver(result Result)
}

// NopObserver ignores every notification. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) RoomCreated(string)           {}
func (NopObserver) RoomClosed(string)            {}
func (NopObserver) RoundEnded(string, EndReason) {}
func (NopObserver) CorrectGuess(string)          {}
func (NopObserver) GameOver(Result)              {}

// Observers fans notifications out in order.
type Observers []Observer

func (o Observers) RoomCreated(id string) {
	for _, obs := range o {
		obs.RoomCreated(id)
	}
}

func (o Observers) RoomClosed(id string) {
	for _, obs := range o {
		obs.RoomClosed(id)
	}
}

func (o Observers) RoundEnded(id string, reason EndReason) {
	for _, obs := range o {
		obs.RoundEnded(id, reason)
	}
}

func (o Observers) CorrectGuess(id string) {
	for _, obs := range o {
		obs.CorrectGuess(id)
	}
}

func (o Observers) GameOver(result Result) {
	for _, obs := range o {
		obs.GameOver(result)
	}
}

// Deps are the collaborators shared by every room.
type Deps struct {
	Broadcaster Broadcaster
	Scheduler   Scheduler
	Words       WordSource
	Observer    Observer
}
