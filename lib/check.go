package lib

import "fmt"

type Verdict int

const (
	VerdictOK Verdict = iota
	VerdictWarning
	VerdictViolation
	VerdictInfo
)

func (v Verdict) String() string {
	switch v {
	case VerdictOK:
		return "OK"
	case VerdictWarning:
		return "WARNING"
	case VerdictViolation:
		return "VIOLATION"
	}

	return "INFO"
}

/*
	One evaluated (measured, limit) pair. The Verdict is the value to
	branch on; String is presentation only.
*/
type ComplianceResult struct {
	Parameter string
	Measured  float64
	Limit     float64
	Unit      string
	Ratio     float64
	Verdict   Verdict
	Note      string
}

func (r *ComplianceResult) String() string {
	switch r.Verdict {
	case VerdictViolation:
		return fmt.Sprintf("[FAIL] %s=%g%s > %g%s (limit exceeded)",
			r.Parameter, r.Measured, r.Unit, r.Limit, r.Unit)
	case VerdictWarning:
		return fmt.Sprintf("[WARN] %s=%g%s close to limit %g%s (safety margin)",
			r.Parameter, r.Measured, r.Unit, r.Limit, r.Unit)
	case VerdictOK:
		return fmt.Sprintf("[OK] %s=%g%s OK (limit %g%s)",
			r.Parameter, r.Measured, r.Unit, r.Limit, r.Unit)
	}

	return "[INFO] " + r.Note
}

/*
	Measured-key, limit-key and unit for each checked parameter, in
	evaluation order.
*/
var soaChecks = []struct {
	Param string
	Limit string
	Unit  string
}{
	{"Vds", "Vds_max", "V"},
	{"Id", "Id_max", "A"},
	{"Pd", "Pd_max", "W"},
	{"Vr", "Vr_max", "V"},
	{"If", "If_max", "A"},
	{"Vce", "Vce_max", "V"},
	{"Ic", "Ic_max", "A"},
	{"Vbe", "Vbe_max", "V"},
	{"Ib", "Ib_max", "A"},
}

const DefaultSafetyMargin = 0.8

type SOAChecker struct {
	SafetyMargin float64
}

func NewSOAChecker(margin float64) *SOAChecker {
	if margin <= 0 {
		margin = DefaultSafetyMargin
	}

	return &SOAChecker{SafetyMargin: margin}
}

/*
	Check operating conditions against SOA limits. A pair is evaluated
	only when both the measured value and the limit are present. With no
	limits or no conditions at all, a single informational result is
	returned so callers can tell "no data" from "fully compliant".
*/
func (c *SOAChecker) Check(limits *SOALimits, conditions map[string]float64) []*ComplianceResult {
	if limits.Empty() || len(conditions) == 0 {
		return []*ComplianceResult{{
			Verdict: VerdictInfo,
			Note:    "no SOA data or operating conditions available",
		}}
	}

	results := []*ComplianceResult{}
	for _, check := range soaChecks {
		measured, haveMeasured := conditions[check.Param]
		limit, haveLimit := limits.Values[check.Limit]
		if !haveMeasured || !haveLimit {
			continue
		}

		result := &ComplianceResult{
			Parameter: check.Param,
			Measured:  measured,
			Limit:     limit,
			Unit:      check.Unit,
		}
		if limit != 0 {
			result.Ratio = measured / limit
		}

		switch {
		case measured > limit:
			result.Verdict = VerdictViolation
		case measured > c.SafetyMargin*limit:
			result.Verdict = VerdictWarning
		default:
			result.Verdict = VerdictOK
		}

		results = append(results, result)
	}

	return results
}
