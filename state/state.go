// state/state.go
package state

import (
	"errors"
	"sync"
)

// StateMachine drives a room through its phases.
type StateMachine interface {
	ChangeState(to Phase) error
	GetCurrentState() Phase
	AddTransition(from, to Phase, condition func() bool) error
}

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// BaseStateMachine only permits transitions that were registered with
// AddTransition. Enter and exit hooks run after the internal lock is
// released, so a hook may itself call ChangeState.
type BaseStateMachine struct {
	currentState Phase
	transitions  map[Phase]map[Phase]func() bool // from -> to -> condition
	onEnter      map[Phase][]func()
	onExit       map[Phase][]func()
	mutex        sync.RWMutex
}

func NewBaseStateMachine(initial Phase) *BaseStateMachine {
	return &BaseStateMachine{
		currentState: initial,
		transitions:  make(map[Phase]map[Phase]func() bool),
		onEnter:      make(map[Phase][]func()),
		onExit:       make(map[Phase][]func()),
	}
}

func (sm *BaseStateMachine) ChangeState(to Phase) error {
	sm.mutex.Lock()
	from := sm.currentState
	conditions, exists := sm.transitions[from]
	if !exists {
		sm.mutex.Unlock()
		return ErrTransitionNotAllowed
	}
	condition, exists := conditions[to]
	if !exists || (condition != nil && !condition()) {
		sm.mutex.Unlock()
		return ErrTransitionNotAllowed
	}
	sm.currentState = to
	exit := append([]func(){}, sm.onExit[from]...)
	enter := append([]func(){}, sm.onEnter[to]...)
	sm.mutex.Unlock()

	for _, fn := range exit {
		fn()
	}
	for _, fn := range enter {
		fn()
	}
	return nil
}

func (sm *BaseStateMachine) GetCurrentState() Phase {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.currentState
}

// Can reports whether ChangeState(to) would currently succeed.
func (sm *BaseStateMachine) Can(to Phase) bool {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	condition, exists := sm.transitions[sm.currentState][to]
	return exists && (condition == nil || condition())
}

func (sm *BaseStateMachine) AddTransition(from, to Phase, condition func() bool) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if _, exists := sm.transitions[from]; !exists {
		sm.transitions[from] = make(map[Phase]func() bool)
	}
	sm.transitions[from][to] = condition
	return nil
}

// OnEnter registers fn to run every time the machine enters phase.
func (sm *BaseStateMachine) OnEnter(phase Phase, fn func()) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	sm.onEnter[phase] = append(sm.onEnter[phase], fn)
}

// OnExit registers fn to run every time the machine leaves phase.
func (sm *BaseStateMachine) OnExit(phase Phase, fn func()) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	sm.onExit[phase] = append(sm.onExit[phase], fn)
}
