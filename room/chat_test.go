package room

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/drawguess/network"
)

func TestChat_SanitizesAndTruncates(t *testing.T) {
	h := newHarness(DefaultSettings())
	join(t, h, "c1", "Alice")
	join(t, h, "c2", "Bob")

	require.NoError(t, h.room.Chat("c1", "<b>hi</b>"))
	assert.Equal(t, network.ChatMessage{Username: "Alice", Message: "&lt;b&gt;hi&lt;/b&gt;"}, h.bc.last("c2", network.EventChatMessage))
	assert.Equal(t, network.ChatMessage{Username: "Alice", Message: "&lt;b&gt;hi&lt;/b&gt;"}, h.bc.last("c1", network.EventChatMessage))

	require.NoError(t, h.room.Chat("c1", strings.Repeat("a", 250)))
	msg := h.bc.last("c2", network.EventChatMessage).(network.ChatMessage)
	assert.Len(t, msg.Message, 200)
}

func TestChat_IgnoresBlank(t *testing.T) {
	h := newHarness(DefaultSettings())
	join(t, h, "c1", "Alice")

	require.NoError(t, h.room.Chat("c1", "   "))
	assert.Empty(t, h.bc.events("c1", network.EventChatMessage))
}

func TestChat_NotInRoom(t *testing.T) {
	h := newHarness(DefaultSettings())
	assert.ErrorIs(t, h.room.Chat("ghost", "hi"), ErrNotInRoom)
}

func TestChat_WordLeakStaysWithThoseWhoKnow(t *testing.T) {
	h := newHarness(autoSettings())
	join(t, h, "c1", "Alice")
	join(t, h, "c2", "Bob")
	join(t, h, "c3", "Carol")
	require.NoError(t, h.room.StartGame("c1"))

	require.NoError(t, h.room.Chat("c1", "it's a CIRCLE"))
	assert.NotNil(t, h.bc.last("c1", network.EventChatMessage))
	assert.Empty(t, h.bc.events("c2", network.EventChatMessage))
	assert.Empty(t, h.bc.events("c3", network.EventChatMessage))

	require.NoError(t, h.room.Chat("c2", "circle"))
	require.NoError(t, h.room.Chat("c2", "circle lol"))
	assert.Equal(t, network.ChatMessage{Username: "Bob", Message: "circle lol"}, h.bc.last("c1", network.EventChatMessage))
	assert.Equal(t, network.ChatMessage{Username: "Bob", Message: "circle lol"}, h.bc.last("c2", network.EventChatMessage))
	assert.Empty(t, h.bc.events("c3", network.EventChatMessage))

	require.NoError(t, h.room.Chat("c3", "square?"))
	assert.Equal(t, network.ChatMessage{Username: "Carol", Message: "square?"}, h.bc.last("c1", network.EventChatMessage))
	assert.Len(t, h.bc.events("c3", network.EventChatMessage), 1)

	require.NoError(t, h.room.Chat("c1", "nice try"))
	assert.Equal(t, network.ChatMessage{Username: "Alice", Message: "nice try"}, h.bc.last("c3", network.EventChatMessage))
}

func TestChat_GuessOutsideDrawingIsPlainChat(t *testing.T) {
	h := newHarness(DefaultSettings())
	join(t, h, "c1", "Alice")
	join(t, h, "c2", "Bob")
	require.NoError(t, h.room.StartGame("c1"))

	// WORD_SELECT: no secret yet, so nothing can be a correct guess.
	require.NoError(t, h.room.Chat("c2", "Circle"))
	assert.Equal(t, 0, h.playerByName("Bob").Score)
	assert.Equal(t, network.ChatMessage{Username: "Bob", Message: "Circle"}, h.bc.last("c1", network.EventChatMessage))
}

func TestDraw_RelaysToOthers(t *testing.T) {
	h := newHarness(autoSettings())
	join(t, h, "c1", "Alice")
	join(t, h, "c2", "Bob")
	join(t, h, "c3", "Carol")
	stroke := json.RawMessage(`{"x":1,"y":2,"color":"#000"}`)

	require.NoError(t, h.room.Draw("c2", stroke))
	assert.Equal(t, stroke, h.bc.last("c1", network.EventDraw))
	assert.Equal(t, stroke, h.bc.last("c3", network.EventDraw))
	assert.Empty(t, h.bc.events("c2", network.EventDraw))
}

func TestDraw_OnlyDrawerDuringRound(t *testing.T) {
	h := newHarness(autoSettings())
	join(t, h, "c1", "Alice")
	join(t, h, "c2", "Bob")
	require.NoError(t, h.room.StartGame("c1"))
	stroke := json.RawMessage(`{"x":3}`)

	assert.ErrorIs(t, h.room.Draw("c2", stroke), ErrNotDrawer)
	assert.Empty(t, h.bc.events("c1", network.EventDraw))

	require.NoError(t, h.room.Draw("c1", stroke))
	assert.Equal(t, stroke, h.bc.last("c2", network.EventDraw))
	assert.ErrorIs(t, h.room.Draw("ghost", stroke), ErrNotInRoom)
}
