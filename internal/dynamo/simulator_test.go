package dynamo_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mdsim/internal/dynamo"
)

type countingSystem struct {
	steps int
}

func (c *countingSystem) Len() int                          { return 1 }
func (c *countingSystem) PotentialEnergy() (float64, error) { return 0, nil }
func (c *countingSystem) KineticEnergy() float64            { return float64(c.steps) }

type countingStepper struct {
	sys    *countingSystem
	failAt int
}

func (c *countingStepper) System() dynamo.ParticleSystem { return c.sys }

func (c *countingStepper) Step() error {
	if c.failAt > 0 && c.sys.steps == c.failAt {
		return dynamo.ErrEngineFailure
	}
	c.sys.steps++
	return nil
}

type recorder struct {
	steps  []int
	engine []int
}

func (r *recorder) Observe(sys dynamo.ParticleSystem, step int) error {
	r.steps = append(r.steps, step)
	r.engine = append(r.engine, int(sys.KineticEnergy()))
	return nil
}

type sumMetric struct{ sum float64 }

func (m *sumMetric) Observe(sys dynamo.ParticleSystem, step int) error {
	m.sum += sys.KineticEnergy()
	return nil
}
func (m *sumMetric) Name() string   { return "sum" }
func (m *sumMetric) Value() float64 { return m.sum }
func (m *sumMetric) Reset()         { m.sum = 0 }

var _ = Describe("Simulator", func() {
	var (
		stepper  *countingStepper
		sim      *dynamo.Simulator
		snapshot *recorder
		printer  *recorder
	)

	BeforeEach(func() {
		stepper = &countingStepper{sys: &countingSystem{}}
		sim = dynamo.New(stepper)
		snapshot = &recorder{}
		printer = &recorder{}
	})

	Context("with a snapshot every 10 steps and a print every 100 steps", func() {
		BeforeEach(func() {
			Expect(sim.Attach(snapshot, 10)).To(Succeed())
			Expect(sim.AttachInitial(printer, 100)).To(Succeed())
		})

		It("fires snapshots at steps 0 and 10 and prints once over 20 steps", func() {
			result, err := sim.Run(context.Background(), 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(20))
			Expect(snapshot.steps).To(Equal([]int{0, 10}))
			Expect(printer.steps).To(Equal([]int{0}))
			Expect(result.Observations).To(Equal(3))
		})

		It("prints at every interval after the initial report", func() {
			_, err := sim.Run(context.Background(), 250)
			Expect(err).NotTo(HaveOccurred())
			Expect(printer.steps).To(Equal([]int{0, 100, 200}))
			Expect(snapshot.steps).To(HaveLen(25))
		})

		It("observes the state before the integrator advances", func() {
			_, err := sim.Run(context.Background(), 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.engine).To(Equal([]int{0, 10}))
		})

		It("still reports the initial state for a zero-step run", func() {
			_, err := sim.Run(context.Background(), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(printer.steps).To(Equal([]int{0}))
			Expect(snapshot.steps).To(BeEmpty())
			Expect(sim.Phase()).To(Equal(dynamo.Finished))
		})
	})

	It("moves from idle through running to finished", func() {
		Expect(sim.Phase()).To(Equal(dynamo.Idle))
		var seen dynamo.Phase
		Expect(sim.Attach(dynamo.ObserverFunc(func(dynamo.ParticleSystem, int) error {
			seen = sim.Phase()
			return nil
		}), 1)).To(Succeed())

		_, err := sim.Run(context.Background(), 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal(dynamo.Running))
		Expect(sim.Phase()).To(Equal(dynamo.Finished))
	})

	It("refuses to run twice", func() {
		_, err := sim.Run(context.Background(), 1)
		Expect(err).NotTo(HaveOccurred())

		_, err = sim.Run(context.Background(), 1)
		Expect(err).To(MatchError(dynamo.ErrInvalidState))
		Expect(sim.Attach(snapshot, 1)).To(MatchError(dynamo.ErrInvalidState))
	})

	It("rejects non-positive intervals", func() {
		Expect(sim.Attach(snapshot, 0)).To(MatchError(dynamo.ErrParameterBounds))
		Expect(sim.AttachInitial(printer, -5)).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("aborts the run when an observer fails", func() {
		boom := errors.New("disk full")
		Expect(sim.Attach(dynamo.ObserverFunc(func(_ dynamo.ParticleSystem, step int) error {
			if step == 4 {
				return boom
			}
			return nil
		}), 2)).To(Succeed())

		result, err := sim.Run(context.Background(), 10)
		Expect(err).To(MatchError(boom))

		var simErr *dynamo.SimulationError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(simErr.Step).To(Equal(4))
		Expect(result.StepsTaken).To(Equal(4))
		Expect(sim.Phase()).To(Equal(dynamo.Failed))
	})

	It("aborts the run when the engine fails", func() {
		stepper.failAt = 3
		result, err := sim.Run(context.Background(), 10)
		Expect(err).To(MatchError(dynamo.ErrEngineFailure))
		Expect(result.StepsTaken).To(Equal(3))
	})

	It("stops between steps when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		Expect(sim.Attach(dynamo.ObserverFunc(func(_ dynamo.ParticleSystem, step int) error {
			if step == 5 {
				cancel()
			}
			return nil
		}), 1)).To(Succeed())

		result, err := sim.Run(ctx, 100)
		Expect(err).To(MatchError(dynamo.ErrContextCanceled))
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(result.StepsTaken).To(Equal(6))
	})

	It("collects attached metrics into the result", func() {
		m := &sumMetric{}
		Expect(sim.Attach(m, 5)).To(Succeed())

		result, err := sim.Run(context.Background(), 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics).To(HaveKeyWithValue("sum", 5.0))
	})
})
