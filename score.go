package sop

// NonTransferableWeight is the fixed multiplier applied to shortfalls of
// non-transferable required items when aggregating the self-sufficiency
// score. A squad cannot redistribute such a deficit mid-mission, so it
// weighs twice as heavily as a transferable one.
const NonTransferableWeight = 2.0

// EvaluateScore computes the self-sufficiency score of a scorable solution:
// the weighted fraction of required-item demand the assignment satisfies,
// in [0,1], together with the per-item and per-marine shortfall breakdown.
// Demand for a non-shareable required item is its minimum per marine times
// the squad size; shareability relaxes that to a single squad-level minimum.
func EvaluateScore(cfg *Configuration, sol Solution) (float64, []ItemShortfall, []MarineShortfall) {
	K := len(cfg.Marines)
	var (
		weightedDemand    float64
		weightedSatisfied float64
		items             []ItemShortfall
		marines           []MarineShortfall
	)

	for i, it := range cfg.Items {
		if !it.Required || it.MinRequired == 0 {
			continue
		}
		var demand, satisfied int
		if it.Shareable {
			demand = it.MinRequired
			total := 0
			for k := 0; k < K; k++ {
				total += sol.Assignment.Qty(i, k)
			}
			satisfied = min(total, demand)
		} else {
			demand = it.MinRequired * K
			for k := 0; k < K; k++ {
				got := min(sol.Assignment.Qty(i, k), it.MinRequired)
				satisfied += got
				if got < it.MinRequired {
					marines = append(marines, MarineShortfall{
						Marine:    cfg.Marines[k].ID,
						Item:      it.ID,
						Shortfall: it.MinRequired - got,
					})
				}
			}
		}

		w := 1.0
		if !it.Transferable {
			w = NonTransferableWeight
		}
		weightedDemand += w * float64(demand)
		weightedSatisfied += w * float64(satisfied)

		if satisfied < demand {
			items = append(items, ItemShortfall{
				Item:         it.ID,
				Demand:       demand,
				Satisfied:    satisfied,
				Shortfall:    demand - satisfied,
				Transferable: it.Transferable,
			})
		}
	}

	if weightedDemand == 0 {
		// No required items means nothing can be short.
		return 1.0, nil, nil
	}
	return weightedSatisfied / weightedDemand, items, marines
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
