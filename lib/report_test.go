package lib

import (
	"strings"
	"testing"
)

func violationAnalysis() *Analysis {
	bom := []*BOMComponent{
		{Ref: "Q1", Value: "2N7002", MPN: "2N7002LT1G"},
		{Ref: "R1", Value: "10k"},
	}
	conditions := map[string]map[string]float64{
		"Q1": {"Vds": 40, "Id": 0.5},
	}

	return AnalyzeBOM("testproj", bom, nil, conditions, nil)
}

func TestMakeReport(t *testing.T) {
	report := MakeReport(violationAnalysis())

	wanted := []string{
		"# Analysis Report - testproj",
		"## Summary",
		"- **Components:** 2",
		"- **Violations:** 1",
		"## Circuit Overview",
		"- **Q**: 1 (transistor)",
		"- **R**: 1 (resistor)",
		"## SOA per component",
		"### Q1 - 2N7002LT1G",
		"- **Limits:** 7 values (estimated)",
		"[FAIL] Vds=40V > 30V (limit exceeded)",
		"### R1 - ",
		"- **SOA:** not extracted (no datasheet or parsing failed)",
		"## Recommendations",
		"- Resolve 1 SOA violations before fabrication",
		"- Add decoupling capacitors near ICs",
	}
	for _, want := range wanted {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}

	if strings.Contains(report, "## Bode Simulation") {
		t.Error("report has a bode section without bode data")
	}
}

func TestMakeReportBodeSection(t *testing.T) {
	analysis := violationAnalysis()
	points := crossoverSeries()
	analysis.Bode = &BodeResult{
		Available: true,
		Note:      "bode calculated on ratio V(out)/V(in)",
		Points:    points,
		Stability: AnalyzeStability(points),
	}

	report := MakeReport(analysis)
	wanted := []string{
		"## Bode Simulation (summary)",
		"- **Note:** bode calculated on ratio V(out)/V(in)",
		"- **Crossover:** 55.00 Hz",
		"- **Phase margin:** 290.0 deg",
		"- **Bandwidth:** 2.80 Hz",
		"- **Grade:** Excellent",
		"- **Examples (f, gain dB, phase deg):**",
		"  - 1.00 Hz, 20.00 dB, -10.0 deg",
	}
	for _, want := range wanted {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestMakeReportBodeUnavailable(t *testing.T) {
	analysis := violationAnalysis()
	analysis.Bode = &BodeResult{Available: false, Note: "simulation failed: empty circuit"}

	report := MakeReport(analysis)
	if !strings.Contains(report, "- **Note:** simulation failed: empty circuit") {
		t.Error("report missing the failure note")
	}
	if strings.Contains(report, "- **Crossover:**") {
		t.Error("unavailable bode must not render stability lines")
	}
}

func TestMakeReportSamplesAtMostTen(t *testing.T) {
	points := []BodePoint{}
	for i := 0; i < 25; i++ {
		points = append(points, BodePoint{Freq: float64(i + 1), GainDB: -1, PhaseDeg: -1})
	}

	analysis := AnalyzeBOM("empty", nil, nil, nil, nil)
	analysis.Bode = &BodeResult{Available: true, Note: "n", Points: points}

	report := MakeReport(analysis)
	if got := strings.Count(report, "\n  - "); got != 10 {
		t.Errorf("got %d example rows, want 10", got)
	}
}

func TestMakeReportNoOverlap(t *testing.T) {
	bom := []*BOMComponent{{Ref: "Q1", Value: "2N7002"}}
	conditions := map[string]map[string]float64{
		"Q1": {"Vgs": 3},
	}

	report := MakeReport(AnalyzeBOM("noverlap", bom, nil, conditions, nil))
	if !strings.Contains(report, "- **SOA check:** no overlapping operating conditions") {
		t.Error("report missing the no-overlap fallback")
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatHz(nil); got != "not found" {
		t.Errorf("formatHz(nil) = %q", got)
	}
	if got := formatDeg(nil); got != "not found" {
		t.Errorf("formatDeg(nil) = %q", got)
	}

	v := 55.0
	if got := formatHz(&v); got != "55.00 Hz" {
		t.Errorf("formatHz = %q", got)
	}
	if got := formatDeg(&v); got != "55.0 deg" {
		t.Errorf("formatDeg = %q", got)
	}
}
