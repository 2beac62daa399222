package domain

import "fmt"

type JobState string

const (
	StateNotStarted       JobState = "NOT_STARTED"
	StateDirectoryReady   JobState = "DIRECTORY_READY"
	StateSlidesRendered   JobState = "SLIDES_RENDERED"
	StateAudioSynthesized JobState = "AUDIO_SYNTHESIZED"
	StateClipsBuilt       JobState = "CLIPS_BUILT"
	StateConcatenated     JobState = "CONCATENATED"
	StateDone             JobState = "DONE"
	StateFailed           JobState = "FAILED"
)

var jobTransitions = map[JobState][]JobState{
	StateNotStarted:       {StateDirectoryReady, StateFailed},
	StateDirectoryReady:   {StateSlidesRendered, StateDone, StateFailed},
	StateSlidesRendered:   {StateAudioSynthesized, StateFailed},
	StateAudioSynthesized: {StateClipsBuilt, StateFailed},
	StateClipsBuilt:       {StateConcatenated, StateFailed},
	StateConcatenated:     {StateDone, StateFailed},
}

func (s JobState) CanTransitionTo(next JobState) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s JobState) Terminal() bool {
	return s == StateDone || s == StateFailed
}

type JobStateMachine struct {
	state   JobState
	history []JobState
}

func NewJobStateMachine() *JobStateMachine {
	return &JobStateMachine{
		state:   StateNotStarted,
		history: []JobState{StateNotStarted},
	}
}

func (m *JobStateMachine) State() JobState {
	return m.state
}

func (m *JobStateMachine) History() []JobState {
	out := make([]JobState, len(m.history))
	copy(out, m.history)
	return out
}

func (m *JobStateMachine) Advance(next JobState) error {
	if !m.state.CanTransitionTo(next) {
		return Wrap(KindInternal, "state machine", "advance", fmt.Sprintf("illegal transition %s -> %s", m.state, next), nil)
	}
	m.state = next
	m.history = append(m.history, next)
	return nil
}
