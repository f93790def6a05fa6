package sop

import "fmt"

// BuildProblem translates a Configuration and the shared Parameters into a
// multiple-knapsack MILP. Marines are independent knapsacks competing for the
// shared item pool, with requirement constraints on required items.
func BuildProblem(cfg *Configuration, params Parameters) (*Problem, error) {
	if len(cfg.Marines) == 0 {
		return nil, fmt.Errorf("configuration %s_k%d_d%d has no marines", cfg.Dataset, cfg.Squad, cfg.Duration)
	}
	if len(cfg.Items) == 0 {
		return nil, fmt.Errorf("configuration %s_k%d_d%d has no items", cfg.Dataset, cfg.Squad, cfg.Duration)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	K := len(cfg.Marines)
	prob := &Problem{
		Name:      fmt.Sprintf("sop_%s_k%d_d%d", cfg.Dataset, K, cfg.Duration),
		Maximize:  true,
		Squad:     K,
		ItemCount: len(cfg.Items),
	}

	// Items with no available quantity get no variables at all. A required
	// item that is unavailable, or whose minimum demand exceeds what is
	// available or carriable, makes the whole configuration infeasible; the
	// check here is cheap and spares the solver call.
	for i, it := range cfg.Items {
		if it.Required {
			demand := it.MinRequired
			if !it.Shareable {
				demand = it.MinRequired * K
			}
			if demand > it.Available {
				prob.Infeasible = true
				prob.InfeasibleReason = fmt.Sprintf("required item %s: demand %d exceeds available %d", it.ID, demand, it.Available)
			}
			if !it.Shareable && it.MinRequired > it.MaxPerMarine {
				prob.Infeasible = true
				prob.InfeasibleReason = fmt.Sprintf("required item %s: minimum %d exceeds per-marine limit %d", it.ID, it.MinRequired, it.MaxPerMarine)
			}
		}
		if it.Available == 0 {
			continue
		}
		prob.KeptItems = append(prob.KeptItems, i)
	}
	if len(prob.KeptItems) == 0 {
		return nil, fmt.Errorf("configuration %s_k%d_d%d has no available items", cfg.Dataset, K, cfg.Duration)
	}

	/* Add variables X_i_k - assigned quantity of item i for marine k */
	for _, i := range prob.KeptItems {
		it := cfg.Items[i]
		coef := params.W * it.Value
		if params.UtilityMode == UtilityQty {
			coef *= params.Q
		}
		for k := 0; k < K; k++ {
			prob.Vars = append(prob.Vars, Variable{
				Name: fmt.Sprintf("X_%d_%d", i, k),
				Obj:  coef,
				LB:   0,
				UB:   float64(it.MaxPerMarine),
				Type: IntegerVar,
			})
		}
	}
	prob.SlackStart = len(prob.Vars)

	/* Add overload slacks OW_k and OV_k. With hard capacities they are fixed
	   to zero and the penalty terms stay defensive; in soft-capacity mode the
	   slack absorbs the overload and is priced at beta resp. gamma. */
	slackUB := 0.0
	if params.SoftCapacity {
		slackUB = Infinity
	}
	for k := 0; k < K; k++ {
		prob.Vars = append(prob.Vars, Variable{
			Name: fmt.Sprintf("OW_%d", k),
			Obj:  -params.Beta,
			LB:   0,
			UB:   slackUB,
			Type: ContinuousVar,
		})
	}
	for k := 0; k < K; k++ {
		prob.Vars = append(prob.Vars, Variable{
			Name: fmt.Sprintf("OV_%d", k),
			Obj:  -params.Gamma,
			LB:   0,
			UB:   slackUB,
			Type: ContinuousVar,
		})
	}

	/* Per-marine weight and volume capacity constraints */
	for k, m := range cfg.Marines {
		var (
			wInd, vInd []int32
			wVal, vVal []float64
		)
		for a, i := range prob.KeptItems {
			it := cfg.Items[i]
			wInd = append(wInd, int32(prob.XIndex(a, k)))
			wVal = append(wVal, it.Weight)
			vInd = append(vInd, int32(prob.XIndex(a, k)))
			vVal = append(vVal, it.Volume)
		}
		wInd = append(wInd, int32(prob.WeightSlackIndex(k)))
		wVal = append(wVal, -1.0)
		vInd = append(vInd, int32(prob.VolumeSlackIndex(k)))
		vVal = append(vVal, -1.0)
		prob.Constrs = append(prob.Constrs, Constraint{
			Name: fmt.Sprintf("weight_%d", k), Ind: wInd, Val: wVal, Sense: LessEqual, RHS: m.WeightCap,
		})
		prob.Constrs = append(prob.Constrs, Constraint{
			Name: fmt.Sprintf("volume_%d", k), Ind: vInd, Val: vVal, Sense: LessEqual, RHS: m.VolumeCap,
		})
	}

	/* Item availability: the squad competes for a shared, finite pool */
	for a, i := range prob.KeptItems {
		it := cfg.Items[i]
		var (
			ind []int32
			val []float64
		)
		for k := 0; k < K; k++ {
			ind = append(ind, int32(prob.XIndex(a, k)))
			val = append(val, 1.0)
		}
		prob.Constrs = append(prob.Constrs, Constraint{
			Name: fmt.Sprintf("avail_%d", i), Ind: ind, Val: val, Sense: LessEqual, RHS: float64(it.Available),
		})

		if !it.Required || it.MinRequired == 0 {
			continue
		}
		if it.Shareable {
			// One pool covers the whole squad: the requirement is squad-level.
			prob.Constrs = append(prob.Constrs, Constraint{
				Name: fmt.Sprintf("req_share_%d", i), Ind: ind, Val: val, Sense: GreaterEqual, RHS: float64(it.MinRequired),
			})
		} else {
			// Every marine must carry the minimum individually.
			for k := 0; k < K; k++ {
				prob.Constrs = append(prob.Constrs, Constraint{
					Name:  fmt.Sprintf("req_%d_%d", i, k),
					Ind:   []int32{int32(prob.XIndex(a, k))},
					Val:   []float64{1.0},
					Sense: GreaterEqual,
					RHS:   float64(it.MinRequired),
				})
			}
		}
	}

	return prob, nil
}
