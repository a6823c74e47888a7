package export

import (
	"encoding/json"
	"os"

	"github.com/dirksavage88/camzoom/internal/metrics"
	"github.com/dirksavage88/camzoom/internal/storage"
)

// ExportData is the flat JSON shape for a saved run: the metadata echo
// plus parallel trajectory columns.
type ExportData struct {
	RunID         string             `json:"run_id"`
	Model         string             `json:"model"`
	Sensor        string             `json:"sensor"`
	Dt            float64            `json:"dt"`
	Duration      float64            `json:"duration"`
	MaxZoom       float64            `json:"max_zoom"`
	SlewRate      string             `json:"slew_rate"`
	ReferenceHfov float64            `json:"reference_hfov"`
	Steps         int                `json:"steps"`
	Times         []float64          `json:"times"`
	Hfov          []float64          `json:"hfov"`
	FocalLength   []float64          `json:"focal_length"`
	GoalHfov      []float64          `json:"goal_hfov"`
	Zoom          []float64          `json:"zoom"`
	Metrics       map[string]float64 `json:"metrics"`
}

func buildExport(meta storage.RunMetadata, samples []metrics.Sample) ExportData {
	data := ExportData{
		RunID:         meta.ID,
		Model:         meta.Model,
		Sensor:        meta.Sensor,
		Dt:            meta.Dt,
		Duration:      meta.Duration,
		MaxZoom:       meta.MaxZoom,
		SlewRate:      meta.SlewRate,
		ReferenceHfov: meta.ReferenceHfov,
		Steps:         len(samples),
		Times:         make([]float64, len(samples)),
		Hfov:          make([]float64, len(samples)),
		FocalLength:   make([]float64, len(samples)),
		GoalHfov:      make([]float64, len(samples)),
		Zoom:          make([]float64, len(samples)),
		Metrics:       meta.Metrics,
	}
	for i, smp := range samples {
		data.Times[i] = smp.T
		data.Hfov[i] = smp.Hfov
		data.FocalLength[i] = smp.FocalLength
		data.GoalHfov[i] = smp.GoalHfov
		data.Zoom[i] = smp.Zoom
	}
	return data
}

// ExportJSON writes a saved run as one indented JSON document.
func ExportJSON(path string, meta storage.RunMetadata, samples []metrics.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(meta, samples))
}

// ExportJSONStdout prints the run to standard output instead.
func ExportJSONStdout(meta storage.RunMetadata, samples []metrics.Sample) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(meta, samples))
}
