package signer

import (
	"errors"
	"sync"
)

// Sentinel errors shared by every gateway implementation.
var (
	// ErrSignerRefused means the user declined or the signer was busy.
	// Terminal for the payment attempt; never retried automatically.
	ErrSignerRefused     = errors.New("signer refused to sign")
	ErrNotConnected      = errors.New("signer session not connected")
	ErrConnectInProgress = errors.New("signer connect already in progress")
)

// State is the lifecycle of a signer session.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Session is an explicit signer-connection value owned by the caller and
// passed by reference into gateway calls. Holding the connection state
// here, rather than in package globals, keeps concurrent connect attempts
// race-free.
type Session struct {
	mu      sync.Mutex
	state   State
	address string
}

func NewSession() *Session {
	return &Session{state: StateDisconnected}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Address returns the connected signing address, or "" when disconnected.
func (s *Session) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

// beginConnect moves Disconnected -> Connecting. A session already
// connecting rejects the second attempt instead of racing it.
func (s *Session) beginConnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateConnecting:
		return ErrConnectInProgress
	case StateConnected:
		return nil
	}
	s.state = StateConnecting
	return nil
}

func (s *Session) completeConnect(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateConnected
	s.address = address
}

func (s *Session) failConnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDisconnected
	s.address = ""
}

// Disconnect returns the session to its initial state.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDisconnected
	s.address = ""
}
