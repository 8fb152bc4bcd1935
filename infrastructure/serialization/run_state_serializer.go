package serialization

import (
	"encoding/json"
	"fmt"

	"spprovision/domain/runs"
)

// RunStateSerializer handles JSON serialization/deserialization of run state.
type RunStateSerializer struct{}

// NewRunStateSerializer creates a new run state serializer.
func NewRunStateSerializer() *RunStateSerializer {
	return &RunStateSerializer{}
}

// SerializeState converts RunState to JSON string.
func (s *RunStateSerializer) SerializeState(state runs.RunState) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run state: %w", err)
	}
	return string(data), nil
}

// DeserializeState converts JSON string to RunState.
func (s *RunStateSerializer) DeserializeState(jsonStr string) (runs.RunState, error) {
	if jsonStr == "" {
		return runs.RunState{
			Phase:    "unknown",
			Timeline: []runs.PhaseInfo{},
			Messages: []string{},
		}, nil
	}

	var state runs.RunState
	if err := json.Unmarshal([]byte(jsonStr), &state); err != nil {
		return runs.RunState{}, fmt.Errorf("failed to unmarshal run state: %w", err)
	}
	if state.Timeline == nil {
		state.Timeline = []runs.PhaseInfo{}
	}
	return state, nil
}
