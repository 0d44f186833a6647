package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	systemFile   = "system.json"
	energyFile   = "energy.csv"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	System         string             `json:"system"`
	Preset         string             `json:"preset,omitempty"`
	Model          string             `json:"model"`
	Integrator     string             `json:"integrator"`
	Timestamp      time.Time          `json:"timestamp"`
	Seed           int64              `json:"seed"`
	Dt             float64            `json:"dt"`
	Steps          int                `json:"steps"`
	TimeScale      float64            `json:"time_scale"`
	G              float64            `json:"gravitational_constant"`
	Bodies         int                `json:"bodies"`
	SimulationTime float64            `json:"simulation_time"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Save writes metadata, the final system state and the energy samples of a
// run and returns its ID. A zero Timestamp is set to now; the ID is derived
// from the system name and timestamp.
func (s *Store) Save(meta RunMetadata, sys *celestial.System, samples []metrics.Sample) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.System = sys.Name
	meta.Bodies = sys.Len()
	meta.SimulationTime = sys.Time
	meta.ID = fmt.Sprintf("%s_%d", slug(sys.Name), meta.Timestamp.UnixNano())

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := celestial.SaveFile(filepath.Join(runDir, systemFile), sys); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, energyFile), samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, samples []metrics.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"tick", "time", "energy", "angular_momentum"}); err != nil {
		return err
	}
	for _, sm := range samples {
		row := []string{
			strconv.FormatInt(sm.Tick, 10),
			strconv.FormatFloat(sm.Time, 'g', -1, 64),
			strconv.FormatFloat(sm.Energy, 'g', -1, 64),
			strconv.FormatFloat(sm.AngularMomentum, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, notFound(runID, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSystem(runID string) (*celestial.System, error) {
	sys, err := celestial.LoadFile(filepath.Join(s.baseDir, runID, systemFile))
	if errors.Is(err, celestial.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return sys, err
}

// LoadSamples reads the energy series of a run. Rows that fail to parse are
// skipped.
func (s *Store) LoadSamples(runID string) ([]metrics.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, energyFile))
	if err != nil {
		return nil, notFound(runID, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.Sample{}, nil
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 4 {
			continue
		}
		tick, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			continue
		}
		vals := make([]float64, 3)
		ok := true
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		samples = append(samples, metrics.Sample{
			Tick:            tick,
			Time:            vals[0],
			Energy:          vals[1],
			AngularMomentum: vals[2],
		})
	}
	return samples, nil
}

func notFound(runID string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return err
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "run"
	}
	return out
}
