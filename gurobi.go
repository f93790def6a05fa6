package sop

import (
	"fmt"
	"time"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"
)

// GurobiSolver solves Problems through the gorobi bindings. Every Solve call
// creates its own environment, so a single GurobiSolver can be shared by
// concurrent workers.
type GurobiSolver struct {
	LogFile string
}

func NewGurobiSolver() *GurobiSolver {
	return &GurobiSolver{LogFile: "sop-gurobi.log"}
}

func (g *GurobiSolver) Solve(prob *Problem, timeLimit time.Duration) (Solution, error) {
	if prob.Infeasible {
		// Proven during the build, no solver call needed.
		return Solution{Status: StatusInfeasible, Reason: prob.InfeasibleReason}, nil
	}

	startTime := time.Now()

	env, err := gurobi.LoadEnv(g.LogFile)
	if err != nil {
		return Solution{}, &TransientError{Err: fmt.Errorf("loading gurobi environment: %w", err)}
	}
	defer env.Free()
	env.SetIntParam("LogToConsole", int32(0))

	varCount := len(prob.Vars)
	objFun := make([]float64, varCount)
	lb := make([]float64, varCount)
	ub := make([]float64, varCount)
	varType := make([]int8, varCount)
	varNames := make([]string, varCount)
	for i, v := range prob.Vars {
		objFun[i] = v.Obj
		lb[i] = v.LB
		ub[i] = v.UB
		if v.Type == IntegerVar {
			varType[i] = gurobi.INTEGER
		} else {
			varType[i] = gurobi.CONTINUOUS
		}
		varNames[i] = v.Name
	}

	model, err := env.NewModel(prob.Name, int32(varCount), objFun, lb, ub, varType, varNames)
	if err != nil {
		return Solution{}, err
	}
	defer model.Free()

	if prob.Maximize {
		err = model.SetIntAttr(gurobi.INT_ATTR_MODELSENSE, gurobi.MAXIMIZE)
	} else {
		err = model.SetIntAttr(gurobi.INT_ATTR_MODELSENSE, gurobi.MINIMIZE)
	}
	if err != nil {
		return Solution{}, err
	}

	for _, c := range prob.Constrs {
		err = model.AddConstr(c.Ind, c.Val, gurobiSense(c.Sense), c.RHS, c.Name)
		if err != nil {
			return Solution{}, fmt.Errorf("adding constraint %s: %w", c.Name, err)
		}
	}

	// Single thread and a fixed seed keep the branch-and-bound path, and with
	// it the tie-break between equal-objective assignments, reproducible.
	if err = model.SetIntParam(gurobi.INT_PAR_THREADS, 1); err != nil {
		return Solution{}, err
	}
	if err = model.SetIntParam("Seed", 0); err != nil {
		return Solution{}, err
	}
	if timeLimit > 0 {
		if err = model.SetDblParam("TimeLimit", timeLimit.Seconds()); err != nil {
			return Solution{}, err
		}
	}

	err = model.Optimize()
	if err != nil {
		return Solution{}, err
	}

	optimstatus, err := model.GetIntAttr(gurobi.INT_ATTR_STATUS)
	if err != nil {
		return Solution{}, err
	}

	sol := Solution{Time: time.Since(startTime).String()}
	switch optimstatus {
	case gurobi.OPTIMAL:
		sol.Status = StatusOptimal
	case gurobi.TIME_LIMIT:
		sol.Status = StatusTimedOut
	case gurobi.INFEASIBLE, gurobi.INF_OR_UNBD:
		sol.Status = StatusInfeasible
		sol.Reason = "model proven infeasible"
		return sol, nil
	default:
		sol.Status = StatusSolverError
		sol.Reason = fmt.Sprintf("optimization stopped with status %d", optimstatus)
		return sol, nil
	}

	solcount, err := model.GetIntAttr(gurobi.INT_ATTR_SOLCOUNT)
	if err != nil {
		return Solution{}, err
	}
	if solcount == 0 {
		// Timed out before any incumbent was found. Not proven infeasible,
		// but there is nothing to score either.
		sol.Reason = "time limit reached without a feasible solution"
		return sol, nil
	}

	objval, err := model.GetDblAttr(gurobi.DBL_ATTR_OBJVAL)
	if err != nil {
		return Solution{}, err
	}
	sol.Objective = objval

	bound, err := model.GetDblAttr(gurobi.DBL_ATTR_OBJBOUND)
	if err != nil {
		return Solution{}, err
	}
	sol.Bound = bound

	solA, err := model.GetDblAttrArray(gurobi.DBL_ATTR_X, 0, int32(varCount))
	if err != nil {
		return Solution{}, err
	}
	sol.Assignment = prob.ExtractAssignment(solA)
	sol.HasAssignment = true
	return sol, nil
}

func gurobiSense(s Sense) int8 {
	switch s {
	case GreaterEqual:
		return gurobi.GREATER_EQUAL
	case Equal:
		return gurobi.EQUAL
	default:
		return gurobi.LESS_EQUAL
	}
}
