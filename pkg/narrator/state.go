package narrator

import (
	"time"
)

type State string

const (
	StateIdle      State = "idle"
	StateSpeaking  State = "speaking"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
	StateStopped   State = "stopped"
	StateErrored   State = "errored"
)

// Active reports whether an utterance owns the speech device.
func (s State) Active() bool {
	return s == StateSpeaking || s == StatePaused
}

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateStopped || s == StateErrored
}

var transitions = map[State][]State{
	StateIdle:      {StateSpeaking},
	StateSpeaking:  {StatePaused, StateCompleted, StateStopped, StateErrored},
	StatePaused:    {StateSpeaking, StateStopped, StateErrored, StateCompleted},
	StateCompleted: {StateSpeaking},
	StateStopped:   {StateSpeaking},
	StateErrored:   {StateSpeaking},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}

	return false
}

type Event struct {
	Utterance uint64 `json:"utterance"`

	State    State `json:"state"`
	Previous State `json:"previous"`

	Muted bool  `json:"muted,omitempty"`
	Err   error `json:"-"`

	Time time.Time `json:"time"`
}
