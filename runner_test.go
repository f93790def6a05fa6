package sop

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSolver struct {
	mu    sync.Mutex
	calls int
	fn    func(prob *Problem, timeLimit time.Duration) (Solution, error)
}

func (s *stubSolver) Solve(prob *Problem, timeLimit time.Duration) (Solution, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.fn(prob, timeLimit)
}

func (s *stubSolver) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testDataset(name string) Dataset {
	return Dataset{Name: name, Items: []Item{rationItem()}}
}

func TestExpandConfigurationScaling(t *testing.T) {
	params := testParams()
	cfg, err := ExpandConfiguration(testDataset("hot"), 4, 3, params)
	require.NoError(t, err)

	require.Len(t, cfg.Marines, 4)
	assert.Equal(t, 1, cfg.Marines[0].ID)
	assert.Equal(t, 4, cfg.Marines[3].ID)
	assert.Equal(t, 30.0, cfg.Marines[0].WeightCap)
	assert.Equal(t, 30.0, cfg.Marines[0].VolumeCap)

	require.Len(t, cfg.Items, 1)
	assert.Equal(t, 3, cfg.Items[0].MinRequired)
	assert.Equal(t, 15, cfg.Items[0].Available)
	assert.Equal(t, 15, cfg.Items[0].MaxPerMarine)
}

func TestExpandConfigurationOwnsItsCopies(t *testing.T) {
	ds := testDataset("hot")
	first, err := ExpandConfiguration(ds, 2, 2, testParams())
	require.NoError(t, err)
	second, err := ExpandConfiguration(ds, 2, 4, testParams())
	require.NoError(t, err)

	first.Items[0].Available = 999
	assert.Equal(t, 5, ds.Items[0].Available)
	assert.Equal(t, 20, second.Items[0].Available)
}

func TestExpandConfigurationRejectsInvalidInput(t *testing.T) {
	_, err := ExpandConfiguration(testDataset("hot"), 0, 2, testParams())
	require.Error(t, err)
	_, err = ExpandConfiguration(testDataset("hot"), 2, 0, testParams())
	require.Error(t, err)
}

func TestEnumerateConfigurationsOrder(t *testing.T) {
	datasets := []Dataset{testDataset("hot"), testDataset("cold")}
	configs, err := EnumerateConfigurations(datasets, []int{4, 8}, []int{2, 3}, testParams())
	require.NoError(t, err)
	require.Len(t, configs, 8)

	expected := []struct {
		dataset  string
		squad    int
		duration int
	}{
		{"hot", 4, 2}, {"hot", 4, 3}, {"hot", 8, 2}, {"hot", 8, 3},
		{"cold", 4, 2}, {"cold", 4, 3}, {"cold", 8, 2}, {"cold", 8, 3},
	}
	for i, e := range expected {
		assert.Equal(t, e.dataset, configs[i].Dataset)
		assert.Equal(t, e.squad, configs[i].Squad)
		assert.Equal(t, e.duration, configs[i].Duration)
	}
}

func TestRunConfigurationsKeepsEnumerationOrder(t *testing.T) {
	var configs []*Configuration
	for _, squad := range []int{1, 2, 3, 4} {
		cfg, err := ExpandConfiguration(testDataset("hot"), squad, 1, testParams())
		require.NoError(t, err)
		configs = append(configs, cfg)
	}

	// earlier configurations take longer, so completion order is reversed
	solver := &stubSolver{fn: func(prob *Problem, _ time.Duration) (Solution, error) {
		time.Sleep(time.Duration(5-prob.Squad) * 20 * time.Millisecond)
		return Solution{Status: StatusOptimal, HasAssignment: true}, nil
	}}

	results, err := RunConfigurations(configs, testParams(), solver, RunnerOptions{Workers: 4})
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, cfg := range configs {
		assert.Equal(t, cfg.Squad, results[i].Config.Squad)
	}
}

func TestRunConfigurationsContainsFailures(t *testing.T) {
	var configs []*Configuration
	for _, name := range []string{"broken", "empty", "fine"} {
		cfg, err := ExpandConfiguration(testDataset(name), 1, 1, testParams())
		require.NoError(t, err)
		configs = append(configs, cfg)
	}
	configs[1].Items = nil // rejected before the model build

	solver := &stubSolver{fn: func(prob *Problem, _ time.Duration) (Solution, error) {
		if prob.Name == "sop_broken_k1_d1" {
			return Solution{Status: StatusInfeasible, Reason: "proven infeasible"}, nil
		}
		return Solution{Status: StatusOptimal, HasAssignment: true, Assignment: Assignment{{1}}}, nil
	}}

	results, err := RunConfigurations(configs, testParams(), solver, RunnerOptions{Workers: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, StatusInfeasible, results[0].Solution.Status)
	assert.False(t, results[0].Scored)

	assert.Equal(t, StatusSolverError, results[1].Solution.Status)
	assert.Contains(t, results[1].Solution.Reason, "no items")

	assert.Equal(t, StatusOptimal, results[2].Solution.Status)
	assert.True(t, results[2].Scored)
	assert.Equal(t, 1.0, results[2].Score)

	// the invalid configuration never reached the solver
	assert.Equal(t, 2, solver.callCount())
}

func TestRunConfigurationsTimedOutWithoutSolutionIsUnscored(t *testing.T) {
	cfg, err := ExpandConfiguration(testDataset("hot"), 1, 1, testParams())
	require.NoError(t, err)

	solver := &stubSolver{fn: func(_ *Problem, _ time.Duration) (Solution, error) {
		return Solution{Status: StatusTimedOut, HasAssignment: false, Reason: "time limit reached without a feasible solution"}, nil
	}}

	results, err := RunConfigurations([]*Configuration{cfg}, testParams(), solver, RunnerOptions{})
	require.NoError(t, err)
	assert.False(t, results[0].Scored)
	assert.Equal(t, StatusTimedOut, results[0].Solution.Status)
}

func TestRunConfigurationsRetriesTransientOnce(t *testing.T) {
	cfg, err := ExpandConfiguration(testDataset("hot"), 1, 1, testParams())
	require.NoError(t, err)

	solver := &stubSolver{}
	solver.fn = func(_ *Problem, _ time.Duration) (Solution, error) {
		if solver.callCount() == 1 {
			return Solution{}, &TransientError{Err: errors.New("license server unreachable")}
		}
		return Solution{Status: StatusOptimal, HasAssignment: true, Assignment: Assignment{{1}}}, nil
	}

	results, err := RunConfigurations([]*Configuration{cfg}, testParams(), solver, RunnerOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, solver.callCount())
	assert.Equal(t, StatusOptimal, results[0].Solution.Status)
	assert.True(t, results[0].Scored)
}

func TestRunConfigurationsDoesNotRetryPermanentErrors(t *testing.T) {
	cfg, err := ExpandConfiguration(testDataset("hot"), 1, 1, testParams())
	require.NoError(t, err)

	solver := &stubSolver{fn: func(_ *Problem, _ time.Duration) (Solution, error) {
		return Solution{}, errors.New("model rejected")
	}}

	results, err := RunConfigurations([]*Configuration{cfg}, testParams(), solver, RunnerOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, solver.callCount())
	assert.Equal(t, StatusSolverError, results[0].Solution.Status)
}

func TestRunConfigurationsGivesUpAfterOneRetry(t *testing.T) {
	cfg, err := ExpandConfiguration(testDataset("hot"), 1, 1, testParams())
	require.NoError(t, err)

	solver := &stubSolver{fn: func(_ *Problem, _ time.Duration) (Solution, error) {
		return Solution{}, &TransientError{Err: errors.New("still unreachable")}
	}}

	results, err := RunConfigurations([]*Configuration{cfg}, testParams(), solver, RunnerOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, solver.callCount())
	assert.Equal(t, StatusSolverError, results[0].Solution.Status)
}

func TestRunConfigurationsRejectsBrokenParameters(t *testing.T) {
	params := testParams()
	params.WeightCap = 0
	solver := &stubSolver{fn: func(_ *Problem, _ time.Duration) (Solution, error) {
		return Solution{}, nil
	}}
	_, err := RunConfigurations(nil, params, solver, RunnerOptions{})
	require.Error(t, err)
}
