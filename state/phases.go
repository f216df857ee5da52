package state

// Phase is a room's position in the game lifecycle.
type Phase string

const (
	Lobby      Phase = "LOBBY"
	RoundStart Phase = "ROUND_START"
	WordSelect Phase = "WORD_SELECT"
	Drawing    Phase = "DRAWING"
	RoundEnd   Phase = "ROUND_END"
	GameOver   Phase = "GAME_OVER"
)

// InRound reports whether a drawer is active in phase.
func (p Phase) InRound() bool {
	return p == WordSelect || p == Drawing
}

// NewGameMachine returns a machine in Lobby with the game's transition table.
//
//	LOBBY -> ROUND_START -> WORD_SELECT | DRAWING
//	WORD_SELECT -> DRAWING | WORD_SELECT (turn skipped) | GAME_OVER
//	DRAWING -> ROUND_END
//	ROUND_END -> WORD_SELECT | DRAWING | GAME_OVER
//
// GAME_OVER is terminal.
func NewGameMachine() *BaseStateMachine {
	sm := NewBaseStateMachine(Lobby)
	table := map[Phase][]Phase{
		Lobby:      {RoundStart},
		RoundStart: {WordSelect, Drawing},
		WordSelect: {Drawing, WordSelect, GameOver},
		Drawing:    {RoundEnd},
		RoundEnd:   {WordSelect, Drawing, GameOver},
	}
	for from, targets := range table {
		for _, to := range targets {
			_ = sm.AddTransition(from, to, nil)
		}
	}
	return sm
}
