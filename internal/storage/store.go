// Package storage archives finished runs on disk, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	energiesFile = "energies.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrIO, err)
	}
	return nil
}

type RunMetadata struct {
	ID          string               `json:"id"`
	Timestamp   time.Time            `json:"timestamp"`
	Element     string               `json:"element"`
	Potential   string               `json:"potential"`
	Atoms       int                  `json:"atoms"`
	Steps       int                  `json:"steps"`
	TimestepFs  float64              `json:"timestep_fs"`
	Temperature float64              `json:"temperature"`
	Seed        int64                `json:"seed"`
	Backend     string               `json:"backend"`
	Trajectory  string               `json:"trajectory,omitempty"`
	Frames      int                  `json:"frames"`
	Elapsed     float64              `json:"elapsed_seconds"`
	Metrics     map[string]float64   `json:"metrics"`
	Drift       metrics.DriftSummary `json:"drift"`
}

// Save writes the metadata and the sampled energy series and returns the
// new run ID.
func (s *Store) Save(cfg *config.Config, natoms int, res *experiment.Result) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %w", dynamo.ErrIO, err)
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		Element:     cfg.Element,
		Potential:   cfg.Potential,
		Atoms:       natoms,
		TimestepFs:  cfg.TimestepFs,
		Temperature: cfg.Temperature,
		Seed:        cfg.Seed,
		Backend:     res.Backend,
		Trajectory:  cfg.Trajectory,
		Frames:      res.Frames,
		Elapsed:     res.Duration.Seconds(),
		Drift:       res.Summary,
	}
	if res.Result != nil {
		meta.Steps = res.StepsTaken
		meta.Metrics = res.Metrics
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeEnergies(filepath.Join(runDir, energiesFile), res.Records); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrIO, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrIO, err)
	}
	return nil
}

func writeEnergies(path string, records []metrics.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrIO, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"step", "epot", "ekin", "temperature", "etot"})
	for _, r := range records {
		w.Write([]string{
			strconv.Itoa(r.Step),
			strconv.FormatFloat(r.PotentialPerAtom, 'g', -1, 64),
			strconv.FormatFloat(r.KineticPerAtom, 'g', -1, 64),
			strconv.FormatFloat(r.Temperature, 'g', -1, 64),
			strconv.FormatFloat(r.TotalPerAtom, 'g', -1, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrIO, err)
	}
	return nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, fmt.Errorf("%w: %w", dynamo.ErrIO, err)
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrIO, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: run %s: %w", dynamo.ErrIO, runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadEnergies(runID string) ([]metrics.Record, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, energiesFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrIO, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: run %s: %w", dynamo.ErrIO, runID, err)
	}
	if len(rows) < 2 {
		return []metrics.Record{}, nil
	}

	records := make([]metrics.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		var r metrics.Record
		var vals [4]float64
		step, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: run %s row %d: %w", dynamo.ErrIO, runID, i+1, err)
		}
		for k := range vals {
			vals[k], err = strconv.ParseFloat(row[k+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: run %s row %d: %w", dynamo.ErrIO, runID, i+1, err)
			}
		}
		r.Step = step
		r.PotentialPerAtom, r.KineticPerAtom, r.Temperature, r.TotalPerAtom = vals[0], vals[1], vals[2], vals[3]
		records = append(records, r)
	}
	return records, nil
}
