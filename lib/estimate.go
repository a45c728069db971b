package lib

import "strings"

/*
	Conservative default limits per device class, used when no datasheet
	is available. Keyed by reference-designator prefix.
*/
var estimatedLimits = map[string]map[string]float64{
	/*
		transistors: small-signal defaults covering both FET and BJT keys
	*/
	"Q": {
		"Vds_max": 30,
		"Vce_max": 30,
		"Id_max":  1,
		"Ic_max":  1,
		"Pd_max":  1,
		"Vbe_max": 6,
		"Ib_max":  0.1,
	},
	"M": {
		"Vds_max": 30,
		"Id_max":  1,
		"Pd_max":  1,
	},
	"D": {
		"Vr_max": 50,
		"If_max": 1,
		"Pd_max": 0.5,
	},
}

/*
	EstimateSOA produces fallback limits for a component from its
	reference designator. Returns nil when the device class has no
	defaults; passives are not limited here.
*/
func EstimateSOA(ref string) *SOALimits {
	prefix := refPrefix(ref)

	defaults, ok := estimatedLimits[prefix]
	if !ok {
		return nil
	}

	limits := NewSOALimits(SourceEstimated)
	for param, value := range defaults {
		limits.Values[param] = value
	}

	return limits
}

/*
	refPrefix returns the leading letters of a reference designator:
	"Q12" -> "Q", "U3A" -> "U".
*/
func refPrefix(ref string) string {
	ref = strings.TrimSpace(ref)
	for i, r := range ref {
		if r >= '0' && r <= '9' {
			return strings.ToUpper(ref[:i])
		}
	}

	return strings.ToUpper(ref)
}
