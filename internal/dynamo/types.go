package dynamo

// ParticleSystem is the read-only view of a simulated system. The engine
// owns and mutates it between steps; observers only read it.
type ParticleSystem interface {
	Len() int
	PotentialEnergy() (float64, error)
	KineticEnergy() float64
}

// Stepper advances a particle system by one integration step.
type Stepper interface {
	System() ParticleSystem
	Step() error
}

// Observer is called at scheduled step boundaries with the current system.
type Observer interface {
	Observe(sys ParticleSystem, step int) error
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(sys ParticleSystem, step int) error

func (f ObserverFunc) Observe(sys ParticleSystem, step int) error {
	return f(sys, step)
}

// Metric is an observer that summarises a run into a single value.
// Attached observers implementing Metric are collected into Result.Metrics.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

type Result struct {
	StepsTaken   int
	Observations int
	Metrics      map[string]float64
}
