package sop

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"regexp"
)

// WriteResult writes a Result as indented JSON, collapsing the assignment
// matrix onto single lines to keep the files readable.
func WriteResult(path string, res *Result) error {
	jsonRes, err := json.MarshalIndent(res, "", "\t")
	if err != nil {
		return err
	}
	jsonRes = []byte(SanitizeJsonArrayLineBreaks(string(jsonRes)))
	return ioutil.WriteFile(path, jsonRes, 0644)
}

func ReadResult(path string) (*Result, error) {
	resStr, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var res Result
	if err := json.Unmarshal(resStr, &res); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &res, nil
}

// CheckSolutionValidity re-verifies an assignment against the capacity,
// availability and requirement constraints of its configuration. The solver
// already guarantees these, so a failure here points at a bug.
func CheckSolutionValidity(cfg *Configuration, assignment Assignment) (bool, string) {
	K := len(cfg.Marines)
	for k, m := range cfg.Marines {
		var loadWeight, loadVolume float64
		for i, it := range cfg.Items {
			qty := assignment.Qty(i, k)
			if qty < 0 {
				return false, fmt.Sprintf("Item %s has negative quantity %d for marine %d!", it.ID, qty, m.ID)
			}
			loadWeight += it.Weight * float64(qty)
			loadVolume += it.Volume * float64(qty)
		}
		if loadWeight > m.WeightCap {
			return false, fmt.Sprintf("Marine %d carries weight %.2f but capacity is only %.2f!", m.ID, loadWeight, m.WeightCap)
		}
		if loadVolume > m.VolumeCap {
			return false, fmt.Sprintf("Marine %d carries volume %.2f but capacity is only %.2f!", m.ID, loadVolume, m.VolumeCap)
		}
	}
	for i, it := range cfg.Items {
		total := 0
		for k := 0; k < K; k++ {
			total += assignment.Qty(i, k)
		}
		if total > it.Available {
			return false, fmt.Sprintf("Item %s is assigned %d times but only %d are available!", it.ID, total, it.Available)
		}
		for k := 0; k < K; k++ {
			if qty := assignment.Qty(i, k); qty > it.MaxPerMarine {
				return false, fmt.Sprintf("Item %s is assigned %d times to marine %d, limit is %d!", it.ID, qty, cfg.Marines[k].ID, it.MaxPerMarine)
			}
		}
	}
	return true, ""
}

func SanitizeJsonArrayLineBreaks(json string) string {
	res := fmt.Sprintf("%s", json)
	var numbers = regexp.MustCompile(`\s*([0-9]+),\s+([0-9]+)(,)?`)
	var brackets = regexp.MustCompile(`\[(([0-9]+,)+[0-9]+)\s+\](,?)(\s+)`)
	for numbers.MatchString(res) {
		res = numbers.ReplaceAllString(res, "$1,$2$3")
	}
	for brackets.MatchString(res) {
		res = brackets.ReplaceAllString(res, "[$1]$3$4")
	}
	return res
}
