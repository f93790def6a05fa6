package sop

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// LoadItems reads one item dataset CSV and validates every row against the
// model invariants, so the optimization core never sees an invalid Item.
func LoadItems(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()

	var items []Item
	if err := gocsv.UnmarshalFile(f, &items); err != nil {
		return Dataset{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	seen := make(map[string]bool)
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return Dataset{}, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		if seen[it.ID] {
			return Dataset{}, fmt.Errorf("%s row %d: duplicate item id %s", path, i+1, it.ID)
		}
		seen[it.ID] = true
	}
	if len(items) == 0 {
		return Dataset{}, fmt.Errorf("%s: dataset contains no items", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Dataset{Name: name, Items: items}, nil
}

type paramRow struct {
	Parameter string `csv:"Parameter"`
	Value     string `csv:"Value"`
}

// LoadParameters reads the key-value parameter CSV. The numeric fields and
// the marine capacities are mandatory; the mode flags default to flat utility
// with hard capacities. A broken parameter file is fatal for the whole run,
// since Parameters are shared by every configuration.
func LoadParameters(path string) (Parameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return Parameters{}, err
	}
	defer f.Close()

	var rows []paramRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return Parameters{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	params := Parameters{UtilityMode: UtilityFlat}
	required := map[string]bool{"w": false, "q": false, "beta": false, "gamma": false, "weight_cap": false, "volume_cap": false}
	for _, row := range rows {
		key := strings.ToLower(strings.TrimSpace(row.Parameter))
		switch key {
		case "w", "q", "beta", "gamma", "weight_cap", "volume_cap":
			val, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64)
			if err != nil {
				return Parameters{}, fmt.Errorf("%s: parameter %s: %w", path, key, err)
			}
			switch key {
			case "w":
				params.W = val
			case "q":
				params.Q = val
			case "beta":
				params.Beta = val
			case "gamma":
				params.Gamma = val
			case "weight_cap":
				params.WeightCap = val
			case "volume_cap":
				params.VolumeCap = val
			}
			required[key] = true
		case "utility_mode":
			params.UtilityMode = strings.ToUpper(strings.TrimSpace(row.Value))
		case "soft_capacity":
			val, err := strconv.ParseBool(strings.TrimSpace(row.Value))
			if err != nil {
				return Parameters{}, fmt.Errorf("%s: parameter soft_capacity: %w", path, err)
			}
			params.SoftCapacity = val
		default:
			Log(3, "Ignoring unknown parameter %s in %s", row.Parameter, path)
		}
	}
	for key, found := range required {
		if !found {
			return Parameters{}, fmt.Errorf("%s: missing required parameter %s", path, key)
		}
	}
	if err := params.Validate(); err != nil {
		return Parameters{}, fmt.Errorf("%s: %w", path, err)
	}
	return params, nil
}
