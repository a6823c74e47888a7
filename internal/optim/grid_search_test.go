package optim

import (
	"context"
	"testing"

	"github.com/dirksavage88/camzoom/internal/config"
)

func slewConfig(params map[string]float64) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Zoom.SlewRate = params["slew_rate"]
	cfg.Run = config.RunConfig{Dt: 0.02, Duration: 20.0}
	cfg.Commands = []config.CommandConfig{{At: 0.5, Zoom: 5.0}}
	return cfg, nil
}

func TestGridSearchPicksSettlingRate(t *testing.T) {
	g := NewGridSearch([]string{"slew_rate"}, [][]float64{{0.1, 5.0}})

	// The 0.1 rad/s run cannot settle inside 20 seconds and reports a
	// negative settling time, so only the fast rate qualifies.
	params, val, err := g.Search(context.Background(), slewConfig, "settling_time")
	if err != nil {
		t.Fatal(err)
	}
	if params["slew_rate"] != 5.0 {
		t.Errorf("expected the fast rate to win, got %v", params)
	}
	if val <= 0.5 || val > 20.0 {
		t.Errorf("expected a settling time after the command, got %v", val)
	}
}

func TestGridSearchPrefersSmallerValue(t *testing.T) {
	g := NewGridSearch([]string{"slew_rate"}, [][]float64{{2.0, 8.0}})

	params, _, err := g.Search(context.Background(), slewConfig, "slew_peak")
	if err != nil {
		t.Fatal(err)
	}
	if params["slew_rate"] != 2.0 {
		t.Errorf("expected the gentler rate to have the lower peak, got %v", params)
	}
}

func TestGridSearchAllCandidatesInvalid(t *testing.T) {
	g := NewGridSearch([]string{"slew_rate"}, [][]float64{{0.001}})

	// Far too slow to settle; the only candidate is skipped.
	if _, _, err := g.Search(context.Background(), slewConfig, "settling_time"); err == nil {
		t.Error("expected an error when nothing qualifies")
	}
}

func TestGridSearchBadBuilder(t *testing.T) {
	g := NewGridSearch([]string{"max_zoom"}, [][]float64{{0.5}})
	build := func(params map[string]float64) (*config.Config, error) {
		cfg := config.DefaultConfig()
		cfg.Zoom.MaxZoom = params["max_zoom"]
		return cfg, nil
	}
	if _, _, err := g.Search(context.Background(), build, "final_error"); err == nil {
		t.Error("expected an error when every config is rejected")
	}
}
