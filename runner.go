package sop

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
)

// Dataset is one loaded item table, keyed by a weather-condition name.
type Dataset struct {
	Name  string
	Items []Item
}

// ExpandConfiguration builds the per-configuration copies of marines and
// items for a squad of the given size on a mission of the given duration.
// Requirements, availability and the per-marine limit scale linearly with
// the duration, as do the marine capacities.
func ExpandConfiguration(ds Dataset, squad, duration int, params Parameters) (*Configuration, error) {
	if squad < 1 {
		return nil, fmt.Errorf("dataset %s: squad size must be >= 1, got %d", ds.Name, squad)
	}
	if duration < 1 {
		return nil, fmt.Errorf("dataset %s: mission duration must be > 0, got %d", ds.Name, duration)
	}

	cfg := &Configuration{Dataset: ds.Name, Squad: squad, Duration: duration}

	for k := 0; k < squad; k++ {
		cfg.Marines = append(cfg.Marines, Marine{
			ID:        k + 1,
			WeightCap: params.WeightCap * float64(duration),
			VolumeCap: params.VolumeCap * float64(duration),
		})
	}

	cfg.Items = make([]Item, len(ds.Items))
	copy(cfg.Items, ds.Items)
	for i := range cfg.Items {
		cfg.Items[i].MinRequired *= duration
		cfg.Items[i].Available *= duration
		cfg.Items[i].MaxPerMarine *= duration
	}
	return cfg, nil
}

// EnumerateConfigurations produces the full cross-product of datasets, squad
// sizes and durations, in exactly that order. The order is load-bearing:
// result files and the console summary follow it regardless of which worker
// finishes first.
func EnumerateConfigurations(datasets []Dataset, squads, durations []int, params Parameters) ([]*Configuration, error) {
	var configs []*Configuration
	for _, ds := range datasets {
		for _, k := range squads {
			for _, d := range durations {
				cfg, err := ExpandConfiguration(ds, k, d, params)
				if err != nil {
					return nil, err
				}
				configs = append(configs, cfg)
			}
		}
	}
	return configs, nil
}

type RunnerOptions struct {
	Workers   int
	TimeLimit time.Duration
}

// RunConfigurations solves every configuration on a bounded worker pool and
// returns one Result per configuration, in enumeration order. A single
// configuration failing, timing out or being infeasible never aborts the
// others; only the shared Parameters being invalid is fatal.
func RunConfigurations(configs []*Configuration, params Parameters, solver Solver, opts RunnerOptions) ([]Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(configs))
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, cfg := range configs {
		i, cfg := i, cfg
		g.Go(func() error {
			results[i] = runOne(cfg, params, solver, opts.TimeLimit)
			return nil
		})
	}
	_ = g.Wait() // workers report through their Result, never through errors
	return results, nil
}

func runOne(cfg *Configuration, params Parameters, solver Solver, timeLimit time.Duration) Result {
	res := Result{Config: *cfg}

	prob, err := BuildProblem(cfg, params)
	if err != nil {
		Log(1, "Rejecting configuration %s_k%d_d%d: %s", cfg.Dataset, cfg.Squad, cfg.Duration, err.Error())
		res.Solution = Solution{Status: StatusSolverError, Reason: err.Error()}
		return res
	}

	sol, err := solveWithRetry(solver, prob, timeLimit)
	if err != nil {
		Log(1, "Solver failed for %s: %s", prob.Name, err.Error())
		res.Solution = Solution{Status: StatusSolverError, Reason: err.Error()}
		return res
	}
	res.Solution = sol

	if !sol.Scorable() {
		Log(2, "Configuration %s finished unscored with status %s (%s)", prob.Name, sol.Status, sol.Reason)
		return res
	}

	res.Score, res.ItemShortfalls, res.MarineShortfalls = EvaluateScore(cfg, sol)
	res.Scored = true
	Log(2, "Configuration %s: status %s, objective %.2f, self-sufficiency %.3f", prob.Name, sol.Status, sol.Objective, res.Score)
	return res
}

// solveWithRetry runs the solve, retrying once with backoff when the backend
// reports a transient failure. Timeouts are not errors and are never retried;
// the time limit itself is the bounded-wait mechanism.
func solveWithRetry(solver Solver, prob *Problem, timeLimit time.Duration) (Solution, error) {
	var sol Solution
	op := func() error {
		s, err := solver.Solve(prob, timeLimit)
		if err != nil {
			var te *TransientError
			if errors.As(err, &te) {
				Log(2, "Transient solver error for %s, will retry: %s", prob.Name, err.Error())
				return err
			}
			return backoff.Permanent(err)
		}
		sol = s
		return nil
	}
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1)
	if err := backoff.Retry(op, b); err != nil {
		return Solution{}, err
	}
	return sol, nil
}
