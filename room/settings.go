package room

import "time"

// Settings are fixed for the lifetime of a room.
type Settings struct {
	MaxPlayers        int
	MaxRounds         int
	RoundTime         time.Duration
	RoundEndDelay     time.Duration
	WordChoice        bool // offer ChoiceCount words to the drawer instead of assigning one
	ChoiceCount       int
	WordChoiceTimeout time.Duration // zero waits forever
	MaxMessageLength  int
	MaxNameLength     int
	GuessPoints       int
	DrawerPoints      int
}

func DefaultSettings() Settings {
	return Settings{
		MaxPlayers:        5,
		MaxRounds:         3,
		RoundTime:         60 * time.Second,
		RoundEndDelay:     5 * time.Second,
		WordChoice:        true,
		ChoiceCount:       3,
		WordChoiceTimeout: 15 * time.Second,
		MaxMessageLength:  200,
		MaxNameLength:     32,
		GuessPoints:       10,
		DrawerPoints:      5,
	}
}

// roundSeconds is the countdown start in whole seconds.
func (s Settings) roundSeconds() int {
	secs := int(s.RoundTime / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
