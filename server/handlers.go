package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wfunc/drawguess/logger"
	"github.com/wfunc/drawguess/network"
	"github.com/wfunc/drawguess/room"
	"github.com/wfunc/drawguess/services"
	"github.com/wfunc/drawguess/session"
)

// dispatch routes one inbound event and reports whether the event was known.
func (s *GameServer) dispatch(sess *session.Session, env *network.Envelope) bool {
	var err error
	switch env.Event {
	case network.EventJoinRoom:
		err = s.handleJoinRoom(sess, env)
	case network.EventCreateRoom:
		err = s.handleCreateRoom(sess, env)
	case network.EventLeaveRoom:
		s.leaveRoom(sess)
	case network.EventStartGame:
		err = s.handleStartGame(sess, env)
	case network.EventWordSelected:
		err = s.handleWordSelected(sess, env)
	case network.EventDraw:
		err = s.handleDraw(sess, env)
	case network.EventChatMessage:
		err = s.handleChat(sess, env)
	default:
		logger.Log.Debugf("Session %s: unknown event %q", sess.GetID(), env.Event)
		return false
	}
	if err != nil {
		s.reportError(sess, env.Event, err)
	}
	return true
}

// reportError tells the client about rejected joins. Everything else is a
// late or duplicate command and is dropped.
func (s *GameServer) reportError(sess *session.Session, event string, err error) {
	if errors.Is(err, room.ErrRoomFull) {
		logger.Log.Infof("Session %s: join rejected, room is full", sess.GetID())
		_ = sess.Send(network.EventError, "Room is full")
		return
	}
	logger.Log.Debugf("Session %s: %s ignored: %v", sess.GetID(), event, err)
}

func (s *GameServer) handleJoinRoom(sess *session.Session, env *network.Envelope) error {
	var req network.JoinRoomRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	roomID := network.NormalizeRoomID(req.RoomID)
	if sess.RoomID() == roomID {
		return room.ErrAlreadyJoined
	}

	// A full target is rejected before the current seat is given up.
	r, p, err := s.roomManager.Move(sess.RoomID(), roomID, sess.GetID(), req.Username)
	if err != nil {
		if !errors.Is(err, room.ErrRoomFull) {
			sess.SetRoomID("")
		}
		return err
	}
	sess.SetRoomID(r.ID)
	logger.Log.Infof("Session %s joined room %s as %s", sess.GetID(), r.ID, p.Name)
	return nil
}

func (s *GameServer) handleCreateRoom(sess *session.Session, env *network.Envelope) error {
	var req network.CreateRoomRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	s.leaveRoom(sess)

	r, p, err := s.roomManager.Create(sess.GetID(), req.Username)
	if err != nil {
		return err
	}
	sess.SetRoomID(r.ID)
	logger.Log.Infof("Session %s created room %s as %s", sess.GetID(), r.ID, p.Name)
	return nil
}

func (s *GameServer) handleStartGame(sess *session.Session, env *network.Envelope) error {
	var req network.RoomRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}
	return r.StartGame(sess.GetID())
}

func (s *GameServer) handleWordSelected(sess *session.Session, env *network.Envelope) error {
	var req network.WordSelectedRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}
	return r.SelectWord(sess.GetID(), req.Word)
}

func (s *GameServer) handleDraw(sess *session.Session, env *network.Envelope) error {
	var req network.Stroke
	if err := env.Bind(&req); err != nil {
		return err
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}
	return r.Draw(sess.GetID(), env.Data)
}

func (s *GameServer) handleChat(sess *session.Session, env *network.Envelope) error {
	var req network.ChatRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}
	return r.Chat(sess.GetID(), req.Message)
}

// roomFor resolves the room a command addresses. A command naming a room the
// session is not in is rejected; an empty id means the session's room.
func (s *GameServer) roomFor(sess *session.Session, requested string) (*room.Room, error) {
	current := sess.RoomID()
	if current == "" {
		return nil, room.ErrNotInRoom
	}
	if requested = strings.TrimSpace(requested); requested != "" && requested != current {
		return nil, room.ErrNotInRoom
	}
	r, ok := s.roomManager.GetRoom(current)
	if !ok {
		return nil, room.ErrUnknownRoom
	}
	return r, nil
}

func (s *GameServer) leaveRoom(sess *session.Session) {
	roomID := sess.RoomID()
	if roomID == "" {
		return
	}
	sess.SetRoomID("")
	if err := s.roomManager.Leave(roomID, sess.GetID()); err != nil {
		logger.Log.Debugf("Session %s: leave %s: %v", sess.GetID(), roomID, err)
	}
}

// --- HTTP ---

func (s *GameServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"rooms":    s.roomManager.Count(),
		"sessions": s.sessionManager.Count(),
		"uptime":   s.monitor.Uptime().Round(time.Second).String(),
	})
}

func (s *GameServer) handleListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, s.roomManager.List())
}

func (s *GameServer) handleRecentGames(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	games, err := s.results.RecentGames(c.Request.Context(), limit)
	switch {
	case errors.Is(err, services.ErrArchiveDisabled):
		c.JSON(http.StatusNotFound, gin.H{"error": "game archive disabled"})
		return
	case err != nil:
		logger.Log.Errorf("recent games: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load games"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}
