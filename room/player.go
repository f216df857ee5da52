package room

import (
	"fmt"
	"strings"

	"github.com/wfunc/drawguess/network"
)

// Player is owned by its Room and only mutated under the room lock.
type Player struct {
	ConnID     string
	Name       string
	Score      int
	IsDrawer   bool
	HasGuessed bool
}

func (p *Player) public() network.PlayerState {
	return network.PlayerState{
		Username:   p.Name,
		Score:      p.Score,
		IsDrawer:   p.IsDrawer,
		HasGuessed: p.HasGuessed,
	}
}

// ResolveName returns a display name not present in existing. An empty
// request becomes "Player <first 4 chars of connID>"; collisions get " (n)"
// appended with the smallest free n.
func ResolveName(existing []string, requested, connID string, maxLen int) string {
	base := Sanitize(strings.TrimSpace(requested), maxLen)
	if base == "" {
		short := connID
		if len(short) > 4 {
			short = short[:4]
		}
		base = "Player " + short
	}

	taken := make(map[string]bool, len(existing))
	for _, name := range existing {
		taken[name] = true
	}
	name := base
	for n := 1; taken[name]; n++ {
		name = fmt.Sprintf("%s (%d)", base, n)
	}
	return name
}
