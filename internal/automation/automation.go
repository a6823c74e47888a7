package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dirksavage88/camzoom/internal/config"
	"github.com/dirksavage88/camzoom/internal/scenario"
	"github.com/dirksavage88/camzoom/internal/storage"
)

// Batch is a scripted sequence of zoom runs loaded from YAML.
type Batch struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []BatchStep `yaml:"steps"`
}

// BatchStep runs one scenario, named either by preset or by a config
// file path. Save persists the run into the store.
type BatchStep struct {
	Preset string `yaml:"preset"`
	Config string `yaml:"config"`
	Save   bool   `yaml:"save"`
}

// BatchResult is one step's outcome.
type BatchResult struct {
	Step   int
	Source string
	RunID  string
	Values map[string]float64
	Err    error
}

// LoadBatch reads a batch definition from a YAML file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("automation: parse batch: %w", err)
	}
	if len(b.Steps) == 0 {
		return nil, fmt.Errorf("automation: batch %q has no steps", b.Name)
	}
	return &b, nil
}

// RunBatch executes each step in order. A failing step is reported in
// its result and does not stop the batch; cancellation does.
func RunBatch(ctx context.Context, batch *Batch, store *storage.Store) []BatchResult {
	results := make([]BatchResult, 0, len(batch.Steps))
	for i, step := range batch.Steps {
		res := BatchResult{Step: i, Source: stepSource(step)}
		cfg, err := stepConfig(step)
		if err == nil {
			res.RunID, res.Values, err = runStep(ctx, cfg, step.Save, store)
		}
		res.Err = err
		results = append(results, res)
		if ctx.Err() != nil {
			break
		}
	}
	return results
}

func stepSource(step BatchStep) string {
	if step.Preset != "" {
		return step.Preset
	}
	return step.Config
}

func stepConfig(step BatchStep) (*config.Config, error) {
	switch {
	case step.Preset != "" && step.Config != "":
		return nil, fmt.Errorf("automation: step names both a preset and a config")
	case step.Preset != "":
		cfg := config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("automation: unknown preset %q", step.Preset)
		}
		return cfg, nil
	case step.Config != "":
		return config.Load(step.Config)
	default:
		return nil, fmt.Errorf("automation: step has neither a preset nor a config")
	}
}

func runStep(ctx context.Context, cfg *config.Config, save bool, store *storage.Store) (string, map[string]float64, error) {
	scn, err := scenario.New(cfg)
	if err != nil {
		return "", nil, err
	}
	result, err := scn.Run(ctx)
	if err != nil {
		return "", nil, err
	}
	if !save || store == nil {
		return "", result.Values, nil
	}
	id, err := store.Save(cfg, result.Samples, result.Values)
	if err != nil {
		return "", result.Values, err
	}
	return id, result.Values, nil
}
