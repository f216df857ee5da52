package session

import (
	"net"
	"sync"
	"testing"

	"github.com/wfunc/drawguess/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	mu     sync.Mutex
	events []string
	closed bool
}

func (m *MockConnection) Send(event string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return network.ErrConnectionClosed
	}
	m.events = append(m.events, event)
	return nil
}

func (m *MockConnection) ReadEnvelope() (*network.Envelope, error) { return nil, nil }
func (m *MockConnection) RemoteAddr() net.Addr                     { return &net.TCPAddr{} }

func (m *MockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	// Test Add
	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_InRoom(t *testing.T) {
	manager := NewManager()

	sess1 := NewSession("session1", &MockConnection{})
	sess1.SetRoomID("ABCD")
	sess2 := NewSession("session2", &MockConnection{})
	sess2.SetRoomID("WXYZ")
	sess3 := NewSession("session3", &MockConnection{})
	sess3.SetRoomID("ABCD")

	manager.Add(sess1)
	manager.Add(sess2)
	manager.Add(sess3)

	if got := len(manager.InRoom("ABCD")); got != 2 {
		t.Errorf("Expected 2 sessions in ABCD, got %d", got)
	}
	if got := len(manager.InRoom("WXYZ")); got != 1 {
		t.Errorf("Expected 1 session in WXYZ, got %d", got)
	}
	if got := len(manager.InRoom("NONE")); got != 0 {
		t.Errorf("Expected 0 sessions in NONE, got %d", got)
	}
}

func TestSession_RoomID(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})
	if sess.RoomID() != "" {
		t.Fatalf("Expected a new session to have no room, got %q", sess.RoomID())
	}

	sess.SetRoomID("ABCD")
	if sess.RoomID() != "ABCD" {
		t.Errorf("Expected room ABCD, got %q", sess.RoomID())
	}
}

func TestSession_Touch(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})
	before := sess.LastActive()
	sess.Touch()
	if sess.LastActive().Before(before) {
		t.Error("Touch should not move LastActive backwards")
	}
}

func TestManager_CloseAll(t *testing.T) {
	manager := NewManager()
	conn := &MockConnection{}
	manager.Add(NewSession("s1", conn))

	manager.CloseAll()
	if err := conn.Send(network.EventGameState, nil); err != network.ErrConnectionClosed {
		t.Errorf("Expected closed connection, got %v", err)
	}
}
