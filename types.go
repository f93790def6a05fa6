package sop

import "fmt"

// Solver status values. TIME_LIMIT solutions carry the best feasible
// assignment found so far, if there is one.
const (
	StatusOptimal     = "OPTIMAL"
	StatusTimedOut    = "TIME_LIMIT"
	StatusInfeasible  = "INFEASIBLE"
	StatusSolverError = "SOLVER_ERROR"
)

// Utility modes for the objective function.
const (
	UtilityFlat = "FLAT"
	UtilityQty  = "QTY"
)

type Item struct {
	ID           string  `json:"id" csv:"item"`
	Category     string  `json:"category" csv:"category"`
	Value        float64 `json:"value" csv:"value"`
	Weight       float64 `json:"weight" csv:"weight"`
	Volume       float64 `json:"volume" csv:"volume"`
	Available    int     `json:"available" csv:"available"`
	Shareable    bool    `json:"shareable" csv:"shareable"`
	Transferable bool    `json:"transferable" csv:"transferable"`
	Required     bool    `json:"required" csv:"required"`
	MinRequired  int     `json:"min_required" csv:"min_required"`
	MaxPerMarine int     `json:"max_per_marine" csv:"max_per_marine"`
}

func (it Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("item without an id")
	}
	if it.Weight < 0 || it.Volume < 0 || it.Value < 0 {
		return fmt.Errorf("item %s: weight, volume and value must be >= 0", it.ID)
	}
	if it.Available < 0 {
		return fmt.Errorf("item %s: available quantity must be >= 0", it.ID)
	}
	if it.MaxPerMarine < 1 {
		return fmt.Errorf("item %s: max quantity per marine must be >= 1", it.ID)
	}
	if it.MinRequired < 0 {
		return fmt.Errorf("item %s: minimum required quantity must be >= 0", it.ID)
	}
	if it.Required && !it.Shareable && it.MinRequired < 1 {
		return fmt.Errorf("item %s: required non-shareable items need a minimum required quantity >= 1", it.ID)
	}
	return nil
}

type Marine struct {
	ID        int     `json:"id"`
	WeightCap float64 `json:"weight_cap"`
	VolumeCap float64 `json:"volume_cap"`
}

// Parameters are loaded once and shared read-only across all configurations.
// W and Q weigh the utility term, Beta and Gamma price capacity overloads.
// The base capacities are per marine per mission day.
type Parameters struct {
	W            float64 `json:"w"`
	Q            float64 `json:"q"`
	Beta         float64 `json:"beta"`
	Gamma        float64 `json:"gamma"`
	WeightCap    float64 `json:"weight_cap"`
	VolumeCap    float64 `json:"volume_cap"`
	UtilityMode  string  `json:"utility_mode"`
	SoftCapacity bool    `json:"soft_capacity"`
}

func (p Parameters) Validate() error {
	if p.W < 0 || p.Q < 0 || p.Beta < 0 || p.Gamma < 0 {
		return fmt.Errorf("parameters w, q, beta and gamma must be >= 0")
	}
	if p.WeightCap <= 0 || p.VolumeCap <= 0 {
		return fmt.Errorf("marine capacities must be > 0")
	}
	if p.UtilityMode != UtilityFlat && p.UtilityMode != UtilityQty {
		return fmt.Errorf("unsupported utility mode: %s", p.UtilityMode)
	}
	return nil
}

// Configuration is one evaluated scenario: dataset x squad size x mission
// duration. It owns its own Marine and Item copies, duration-scaled.
type Configuration struct {
	Dataset  string   `json:"dataset"`
	Squad    int      `json:"squad"`
	Duration int      `json:"duration"`
	Marines  []Marine `json:"marines"`
	Items    []Item   `json:"items"`
}

// Assignment holds the assigned quantity per (item, marine) pair, indexed
// [item][marine] in configuration order.
type Assignment [][]int

func (a Assignment) Qty(item, marine int) int {
	if item < 0 || item >= len(a) || marine < 0 || marine >= len(a[item]) {
		return 0
	}
	return a[item][marine]
}

type Solution struct {
	Status        string     `json:"status"`
	Objective     float64    `json:"objective"`
	Bound         float64    `json:"bound"`
	Assignment    Assignment `json:"assignment,omitempty"`
	HasAssignment bool       `json:"has_assignment"`
	Reason        string     `json:"reason,omitempty"`
	Time          string     `json:"time"`
}

// Scorable reports whether a best-effort score can be computed from this
// solution. A timed-out solve without any feasible incumbent is not scorable,
// which keeps it distinguishable from a proven infeasibility.
func (s Solution) Scorable() bool {
	if s.Status != StatusOptimal && s.Status != StatusTimedOut {
		return false
	}
	return s.HasAssignment
}

type ItemShortfall struct {
	Item         string `json:"item"`
	Demand       int    `json:"demand"`
	Satisfied    int    `json:"satisfied"`
	Shortfall    int    `json:"shortfall"`
	Transferable bool   `json:"transferable"`
}

type MarineShortfall struct {
	Marine    int    `json:"marine"`
	Item      string `json:"item"`
	Shortfall int    `json:"shortfall"`
}

type Result struct {
	Config   Configuration `json:"config"`
	Solution Solution      `json:"solution"`

	Scored           bool              `json:"scored"`
	Score            float64           `json:"score"`
	ItemShortfalls   []ItemShortfall   `json:"item_shortfalls,omitempty"`
	MarineShortfalls []MarineShortfall `json:"marine_shortfalls,omitempty"`

	System  SysInfo `json:"system"`
	Comment string  `json:"comment,omitempty"`
}

// SysInfo saves the basic system information
type SysInfo struct {
	Platform string
	CPU      string
	RAM      string
}
