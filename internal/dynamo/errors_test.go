package dynamo

import (
	"errors"
	"testing"
)

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 150, Wrapped: ErrEngineFailure}
	expected := "step 150: dynamo: engine failure"
	if err.Error() != expected {
		t.Errorf("SimulationError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrEngineFailure) {
		t.Error("SimulationError does not unwrap to its cause")
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{Idle, "idle"},
		{Running, "running"},
		{Finished, "finished"},
		{Failed, "failed"},
		{Phase(9), "phase(9)"},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(tt.phase), got, tt.want)
		}
	}
}
