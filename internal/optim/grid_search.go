package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/dirksavage88/camzoom/internal/config"
	"github.com/dirksavage88/camzoom/internal/scenario"
)

// GridSearch exhaustively evaluates combinations of named parameter
// values, one scenario run per combination.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search returns the parameter assignment minimizing the named metric,
// with the metric's value. buildConfig turns an assignment into a
// runnable config. Combinations whose metric is negative or not finite
// are skipped; the stock metrics report "never" as a negative value.
func (g *GridSearch) Search(
	ctx context.Context,
	buildConfig func(params map[string]float64) (*config.Config, error),
	metricName string,
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), buildConfig, metricName, &best, &bestParams)

	if bestParams == nil {
		return nil, 0, fmt.Errorf("optim: no candidate produced metric %q", metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildConfig func(map[string]float64) (*config.Config, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(g.paramNames) {
		cfg, err := buildConfig(current)
		if err != nil {
			return
		}
		scn, err := scenario.New(cfg)
		if err != nil {
			return
		}
		result, err := scn.Run(ctx)
		if err != nil {
			return
		}

		val, ok := result.Values[metricName]
		if !ok || val < 0 || math.IsInf(val, 0) || math.IsNaN(val) {
			return
		}
		if val < *best {
			*best = val
			params := make(map[string]float64, len(current))
			for k, v := range current {
				params[k] = v
			}
			*bestParams = params
		}
		return
	}

	for _, v := range g.ranges[depth] {
		current[g.paramNames[depth]] = v
		g.searchRecursive(ctx, depth+1, current, buildConfig, metricName, best, bestParams)
	}
	delete(current, g.paramNames[depth])
}
