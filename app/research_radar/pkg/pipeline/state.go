package pipeline

import (
	"errors"
	"fmt"
)

// State 流水线状态，只允许线性前进
type State int

const (
	Idle State = iota
	Searching
	Analyzing
	Reporting
	Saving
	Done
	Failed
)

var stateNames = [...]string{
	Idle:      "idle",
	Searching: "searching",
	Analyzing: "analyzing",
	Reporting: "reporting",
	Saving:    "saving",
	Done:      "done",
	Failed:    "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal Done 与 Failed 为终态
func (s State) Terminal() bool { return s == Done || s == Failed }

// ErrIllegalTransition 非线性的状态迁移
var ErrIllegalTransition = errors.New("illegal state transition")

var successor = map[State]State{
	Idle:      Searching,
	Searching: Analyzing,
	Analyzing: Reporting,
	Reporting: Saving,
	Saving:    Done,
}

// Tracker 记录一次运行的状态迁移
type Tracker struct {
	current State
	history []State
	// OnTransition 每次迁移成功后回调
	OnTransition func(from, to State)
}

// NewTracker 从 Idle 开始
func NewTracker() *Tracker {
	return &Tracker{current: Idle, history: []State{Idle}}
}

// State 当前状态
func (t *Tracker) State() State { return t.current }

// History 按顺序返回经历过的状态
func (t *Tracker) History() []State {
	out := make([]State, len(t.history))
	copy(out, t.history)
	return out
}

// Advance 前进到 to，to 必须是当前状态的唯一后继
func (t *Tracker) Advance(to State) error {
	next, ok := successor[t.current]
	if !ok || next != to {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, t.current, to)
	}
	t.move(to)
	return nil
}

// Fail 任意非终态都可以进入 Failed
func (t *Tracker) Fail() error {
	if t.current.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, t.current, Failed)
	}
	t.move(Failed)
	return nil
}

func (t *Tracker) move(to State) {
	from := t.current
	t.current = to
	t.history = append(t.history, to)
	if t.OnTransition != nil {
		t.OnTransition(from, to)
	}
}
