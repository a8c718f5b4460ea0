package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mdsim/internal/dynamo"
)

type Record struct {
	Step int
	Sample
}

// EnergyDrift records a Sample at every observation and tracks how far the
// total energy per atom wanders from its first value. Its Value is the
// largest absolute deviation in eV/atom.
type EnergyDrift struct {
	name     string
	records  []Record
	maxDrift float64
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(sys dynamo.ParticleSystem, step int) error {
	s, err := Compute(sys)
	if err != nil {
		return err
	}
	e.records = append(e.records, Record{Step: step, Sample: s})
	e.maxDrift = math.Max(e.maxDrift, math.Abs(s.TotalPerAtom-e.records[0].TotalPerAtom))
	return nil
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.records = nil
	e.maxDrift = 0
}

// Records returns the observed series in step order.
func (e *EnergyDrift) Records() []Record { return e.records }

type DriftSummary struct {
	Samples      int     `json:"samples"`
	InitialTotal float64 `json:"initial_total"`
	FinalTotal   float64 `json:"final_total"`
	MaxDrift     float64 `json:"max_drift"`
	MeanTotal    float64 `json:"mean_total"`
	StdDevTotal  float64 `json:"stddev_total"`
	MeanTemp     float64 `json:"mean_temperature"`
}

func (e *EnergyDrift) Summary() DriftSummary {
	n := len(e.records)
	if n == 0 {
		return DriftSummary{}
	}

	totals := make([]float64, n)
	temps := make([]float64, n)
	for i, r := range e.records {
		totals[i] = r.TotalPerAtom
		temps[i] = r.Temperature
	}

	sum := DriftSummary{
		Samples:      n,
		InitialTotal: totals[0],
		FinalTotal:   totals[n-1],
		MaxDrift:     e.maxDrift,
		MeanTotal:    stat.Mean(totals, nil),
		MeanTemp:     stat.Mean(temps, nil),
	}
	if n > 1 {
		sum.StdDevTotal = stat.StdDev(totals, nil)
	}
	return sum
}
