package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/drawguess/network"
)

// send wraps payload in an envelope and writes it.
func send(c *websocket.Conn, event string, payload any) error {
	frame, err := network.Encode(event, payload)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, frame)
}

// show prints an inbound envelope in a readable form.
func show(env *network.Envelope) {
	switch env.Event {
	case network.EventChatMessage:
		var msg network.ChatMessage
		if json.Unmarshal(env.Data, &msg) == nil {
			log.Printf("%s: %s", msg.Username, msg.Message)
			return
		}
	case network.EventSystemMessage, network.EventSecretWord, network.EventError:
		var text string
		if json.Unmarshal(env.Data, &text) == nil {
			log.Printf("[%s] %s", env.Event, text)
			return
		}
	case network.EventTimerUpdate:
		// Too chatty; only show the last ten seconds.
		var remaining int
		if json.Unmarshal(env.Data, &remaining) == nil && remaining > 10 {
			return
		}
	case network.EventDraw:
		return
	}
	log.Printf("<- %s %s", env.Event, string(env.Data))
}

// command turns one stdin line into an outbound event.
func command(line, roomID string) (string, any, bool) {
	switch {
	case line == "":
		return "", nil, false
	case line == "/start":
		return network.EventStartGame, network.RoomRequest{RoomID: roomID}, true
	case line == "/leave":
		return network.EventLeaveRoom, network.RoomRequest{RoomID: roomID}, true
	case strings.HasPrefix(line, "/pick "):
		word := strings.TrimSpace(strings.TrimPrefix(line, "/pick "))
		return network.EventWordSelected, network.WordSelectedRequest{RoomID: roomID, Word: word}, true
	default:
		return network.EventChatMessage, network.ChatRequest{RoomID: roomID, Message: line}, true
	}
}

func main() {
	addr := flag.String("addr", "localhost:3000", "server address")
	name := flag.String("name", "", "display name")
	roomID := flag.String("room", "", "room id (empty creates a new room)")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})
	joined := make(chan string, 1)

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			env, err := network.Decode(message)
			if err != nil {
				log.Printf("Bad frame: %v", err)
				continue
			}
			if env.Event == network.EventRoomJoined {
				var rj network.RoomJoined
				if json.Unmarshal(env.Data, &rj) == nil {
					log.Printf("Joined room %s as %s", rj.RoomID, rj.Username)
					select {
					case joined <- rj.RoomID:
					default:
					}
				}
				continue
			}
			show(env)
		}
	}()

	if *roomID == "" {
		err = send(c, network.EventCreateRoom, network.CreateRoomRequest{Username: *name})
	} else {
		err = send(c, network.EventJoinRoom, network.JoinRoomRequest{Username: *name, RoomID: *roomID})
	}
	if err != nil {
		log.Println("Write error:", err)
		return
	}

	var current string
	select {
	case current = <-joined:
	case <-done:
		return
	case <-time.After(5 * time.Second):
		log.Println("No reply from server.")
		return
	}
	log.Println("Type to chat. Commands: /start, /pick <word>, /leave")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
		close(lines)
	}()

	// Write loop
	for {
		select {
		case <-done:
			return
		case id := <-joined:
			current = id
		case line, ok := <-lines:
			if !ok {
				return
			}
			event, payload, ok := command(line, current)
			if !ok {
				continue
			}
			if err := send(c, event, payload); err != nil {
				log.Println("Write error:", err)
				return
			}
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		}
	}
}
