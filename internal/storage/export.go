package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/metrics"
)

// ExportData is a self-contained JSON document describing one run.
type ExportData struct {
	Model      string              `json:"model"`
	Integrator string              `json:"integrator"`
	Dt         float64             `json:"dt"`
	Steps      int                 `json:"steps"`
	Samples    []metrics.Sample    `json:"samples"`
	Metrics    map[string]float64  `json:"metrics"`
	System     celestial.SystemDoc `json:"system"`
}

func NewExport(meta RunMetadata, sys *celestial.System, samples []metrics.Sample) ExportData {
	return ExportData{
		Model:      meta.Model,
		Integrator: meta.Integrator,
		Dt:         meta.Dt,
		Steps:      meta.Steps,
		Samples:    samples,
		Metrics:    meta.Metrics,
		System:     celestial.ToDoc(sys),
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes data to path, or to stdout when path is "-".
func ExportJSON(path string, data ExportData) error {
	if path == "-" {
		return WriteJSON(os.Stdout, data)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}
