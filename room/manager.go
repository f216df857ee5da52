package room

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wfunc/drawguess/logger"
)

// Manager is the room registry. Joins and empty-room removal both run under
// the manager lock, so a join can never land in a room that is being torn
// down. Lock order is always manager, then room.
type Manager struct {
	rooms    map[string]*Room
	mutex    sync.RWMutex
	settings Settings
	deps     Deps
}

func NewRoomManager(settings Settings, deps Deps) *Manager {
	if deps.Observer == nil {
		deps.Observer = NopObserver{}
	}
	return &Manager{
		rooms:    make(map[string]*Room),
		settings: settings,
		deps:     deps,
	}
}

// GetOrCreateRoom returns the room with id, creating it in LOBBY if needed.
func (m *Manager) GetOrCreateRoom(id string) *Room {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.getOrCreateLocked(id)
}

func (m *Manager) getOrCreateLocked(id string) *Room {
	if room, exists := m.rooms[id]; exists {
		return room
	}
	room := NewRoom(id, m.settings, m.deps)
	m.rooms[id] = room
	logger.Log.Infof("Room %s created", id)
	m.deps.Observer.RoomCreated(id)
	return room
}

func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	return room, exists
}

// Join adds connID to the room with id, creating the room on first join.
func (m *Manager) Join(id, connID, name string) (*Room, Player, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.joinLocked(id, connID, name)
}

func (m *Manager) joinLocked(id, connID, name string) (*Room, Player, error) {
	room := m.getOrCreateLocked(id)
	p, err := room.Join(connID, name)
	if err != nil {
		m.removeIfEmptyLocked(id)
		return nil, Player{}, err
	}
	return room, p, nil
}

// Move joins connID to the room with toID and releases its seat in fromID.
// A full target returns ErrRoomFull before anything else changes; any other
// error means the seat in fromID is already gone.
func (m *Manager) Move(fromID, toID, connID, name string) (*Room, Player, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if target, exists := m.rooms[toID]; exists && target.PlayerCount() >= m.settings.MaxPlayers {
		return nil, Player{}, ErrRoomFull
	}
	if fromID != "" {
		if err := m.leaveLocked(fromID, connID); err != nil {
			logger.Log.Debugf("Move %s: leave %s: %v", connID, fromID, err)
		}
	}
	return m.joinLocked(toID, connID, name)
}

// Create allocates a fresh room id and joins connID to it.
func (m *Manager) Create(connID, name string) (*Room, Player, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.joinLocked(m.newIDLocked(), connID, name)
}

func (m *Manager) newIDLocked() string {
	for {
		id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
		if _, taken := m.rooms[id]; !taken {
			return id
		}
	}
}

// Leave removes connID from the room and deletes the room if it emptied.
// Both steps run under the manager lock, so no join can slip in between.
func (m *Manager) Leave(id, connID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.leaveLocked(id, connID)
}

func (m *Manager) leaveLocked(id, connID string) error {
	room, ok := m.rooms[id]
	if !ok {
		return ErrUnknownRoom
	}
	if _, err := room.Leave(connID); err != nil {
		return err
	}
	m.removeIfEmptyLocked(id)
	return nil
}

// RemoveRoomIfEmpty closes and deletes the room if nobody is in it. It is
// idempotent and reports whether a room was removed.
func (m *Manager) RemoveRoomIfEmpty(id string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.removeIfEmptyLocked(id)
}

func (m *Manager) removeIfEmptyLocked(id string) bool {
	room, exists := m.rooms[id]
	if !exists || room.PlayerCount() > 0 {
		return false
	}
	room.Close()
	delete(m.rooms, id)
	logger.Log.Infof("Room %s is empty. Cleaning up.", id)
	m.deps.Observer.RoomClosed(id)
	return true
}

// List returns a summary of every live room ordered by id.
func (m *Manager) List() []Summary {
	m.mutex.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	m.mutex.RUnlock()

	summaries := make([]Summary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, room.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// CloseAll closes every room and empties the registry.
func (m *Manager) CloseAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for id, room := range m.rooms {
		room.Close()
		delete(m.rooms, id)
		m.deps.Observer.RoomClosed(id)
	}
}
