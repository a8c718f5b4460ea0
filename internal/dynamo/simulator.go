package dynamo

import (
	"context"
	"fmt"
)

// Phase is the lifecycle position of a Simulator.
type Phase int

const (
	Idle Phase = iota
	Running
	Finished
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type attachment struct {
	obs      Observer
	interval int
	initial  bool
}

type Simulator struct {
	stepper   Stepper
	observers []attachment
	phase     Phase
}

func New(stepper Stepper) *Simulator {
	return &Simulator{
		stepper:   stepper,
		observers: make([]attachment, 0),
		phase:     Idle,
	}
}

// Attach schedules obs at every step boundary n with n%interval == 0.
func (s *Simulator) Attach(obs Observer, interval int) error {
	return s.attach(obs, interval, false)
}

// AttachInitial is Attach plus one call before the first step. The pre-run
// call replaces the n == 0 call, which would observe the same state.
func (s *Simulator) AttachInitial(obs Observer, interval int) error {
	return s.attach(obs, interval, true)
}

func (s *Simulator) attach(obs Observer, interval int, initial bool) error {
	if s.phase != Idle {
		return fmt.Errorf("%w: cannot attach to a %s simulator", ErrInvalidState, s.phase)
	}
	if obs == nil {
		return fmt.Errorf("%w: nil observer", ErrParameterBounds)
	}
	if interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %d", ErrParameterBounds, interval)
	}
	s.observers = append(s.observers, attachment{obs: obs, interval: interval, initial: initial})
	return nil
}

func (s *Simulator) Phase() Phase { return s.phase }

// Run advances the stepper by steps integration steps. Any observer or step
// error aborts the run and leaves the simulator Failed.
func (s *Simulator) Run(ctx context.Context, steps int) (*Result, error) {
	if s.phase != Idle {
		return nil, fmt.Errorf("%w: simulator already %s", ErrInvalidState, s.phase)
	}
	if steps < 0 {
		return nil, fmt.Errorf("%w: steps must be non-negative, got %d", ErrParameterBounds, steps)
	}

	s.phase = Running
	result := &Result{Metrics: make(map[string]float64)}
	sys := s.stepper.System()

	for _, a := range s.observers {
		if !a.initial {
			continue
		}
		if err := a.obs.Observe(sys, 0); err != nil {
			return result, s.fail(0, err)
		}
		result.Observations++
	}

	for n := 0; n < steps; n++ {
		select {
		case <-ctx.Done():
			return result, s.fail(n, fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err()))
		default:
		}

		for _, a := range s.observers {
			if n%a.interval != 0 || (a.initial && n == 0) {
				continue
			}
			if err := a.obs.Observe(sys, n); err != nil {
				return result, s.fail(n, err)
			}
			result.Observations++
		}

		if err := s.stepper.Step(); err != nil {
			return result, s.fail(n, err)
		}
		result.StepsTaken++
	}

	s.phase = Finished

	for _, a := range s.observers {
		if m, ok := a.obs.(Metric); ok {
			result.Metrics[m.Name()] = m.Value()
		}
	}

	return result, nil
}

func (s *Simulator) fail(step int, err error) error {
	s.phase = Failed
	return &SimulationError{Step: step, Wrapped: err}
}
