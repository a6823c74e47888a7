package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dirksavage88/camzoom/internal/config"
	"github.com/dirksavage88/camzoom/internal/metrics"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one recorded run. SlewRate is kept as a string
// because the rate may be +Inf, which JSON numbers cannot carry.
type RunMetadata struct {
	ID            string             `json:"id"`
	Model         string             `json:"model"`
	Sensor        string             `json:"sensor"`
	Timestamp     time.Time          `json:"timestamp"`
	Dt            float64            `json:"dt"`
	Duration      float64            `json:"duration"`
	MaxZoom       float64            `json:"max_zoom"`
	SlewRate      string             `json:"slew_rate"`
	ReferenceHfov float64            `json:"reference_hfov"`
	Metrics       map[string]float64 `json:"metrics"`
}

// ParsedSlewRate converts the stored rate back to a float64.
func (m *RunMetadata) ParsedSlewRate() (float64, error) {
	return strconv.ParseFloat(m.SlewRate, 64)
}

func (s *Store) Save(cfg *config.Config, samples []metrics.Sample, values map[string]float64) (string, error) {
	// Nanoseconds keep IDs unique when a batch saves several runs in
	// the same second.
	runID := fmt.Sprintf("%s_%d", cfg.Camera.Model, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Model:         cfg.Camera.Model,
		Sensor:        cfg.Camera.Sensor,
		Timestamp:     time.Now(),
		Dt:            cfg.Run.Dt,
		Duration:      cfg.Run.Duration,
		MaxZoom:       cfg.Zoom.MaxZoom,
		SlewRate:      strconv.FormatFloat(cfg.Zoom.SlewRate, 'g', -1, 64),
		ReferenceHfov: cfg.ReferenceHfov(),
		Metrics:       values,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time", "hfov", "focal_length", "goal_hfov", "zoom", "changed"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, smp := range samples {
		changed := "0"
		if smp.Changed {
			changed = "1"
		}
		row := []string{
			strconv.FormatFloat(smp.T, 'f', 6, 64),
			strconv.FormatFloat(smp.Hfov, 'f', 9, 64),
			strconv.FormatFloat(smp.FocalLength, 'f', 9, 64),
			strconv.FormatFloat(smp.GoalHfov, 'f', 9, 64),
			strconv.FormatFloat(smp.Zoom, 'f', 6, 64),
			changed,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]metrics.Sample, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
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
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 6 {
			continue
		}

		vals := make([]float64, 5)
		ok := true
		for j := 0; j < 5; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		samples = append(samples, metrics.Sample{
			T:           vals[0],
			Hfov:        vals[1],
			FocalLength: vals[2],
			GoalHfov:    vals[3],
			Zoom:        vals[4],
			Changed:     record[5] == "1",
		})
	}

	return samples, nil
}
