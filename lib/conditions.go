package lib

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

/*
	LoadOperatingConditions reads a yaml file mapping component reference
	to measured-quantity values:

		Q1:
		  Vds: 8.5
		  Id: 0.4

	An empty path yields an empty map. Values that do not read as numbers
	are skipped.
*/
func LoadOperatingConditions(path string) (map[string]map[string]float64, error) {
	conditions := map[string]map[string]float64{}
	if path == "" {
		return conditions, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := map[string]map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse operating conditions: %v", err)
	}

	for ref, values := range raw {
		set := map[string]float64{}
		for key, value := range values {
			number, ok := toFloat(value)
			if !ok {
				continue
			}
			set[key] = number
		}

		conditions[ref] = set
	}

	return conditions, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		return number, true
	}

	return 0, false
}
