package lib

import (
	"fmt"
	"sort"
	"strings"
)

var componentClasses = map[string]string{
	"R":  "resistor",
	"C":  "capacitor",
	"L":  "inductor",
	"D":  "diode",
	"Q":  "transistor",
	"U":  "integrated circuit",
	"J":  "connector",
	"Y":  "crystal",
	"F":  "fuse",
	"SW": "switch",
	"T":  "transformer",
}

/*
	MakeReport renders an analysis run as a markdown document.
*/
func MakeReport(a *Analysis) string {
	out := []string{fmt.Sprintf("# Analysis Report - %s", a.Project), ""}

	out = append(out, "## Summary")
	out = append(out, fmt.Sprintf("- **Components:** %d", len(a.Components)))
	out = append(out, fmt.Sprintf("- **Nets:** %d", a.NetCount))
	out = append(out, fmt.Sprintf("- **Violations:** %d", len(a.Violations())))
	out = append(out, fmt.Sprintf("- **Warnings:** %d", len(a.Warnings())))
	out = append(out, "")

	groups := a.Groups()
	if len(groups) > 0 {
		out = append(out, "## Circuit Overview")
		for _, prefix := range sortedPrefixes(groups) {
			class := componentClasses[prefix]
			if class == "" {
				class = "component"
			}
			out = append(out, fmt.Sprintf("- **%s**: %d (%s)", prefix, len(groups[prefix]), class))
		}
		out = append(out, "")
	}

	if a.Bode != nil {
		out = append(out, bodeSection(a.Bode)...)
	}

	out = append(out, "## SOA per component")
	for _, ca := range a.Components {
		out = append(out, componentSection(ca)...)
	}

	out = append(out, recommendationSection(a)...)

	return strings.Join(out, "\n")
}

func bodeSection(bode *BodeResult) []string {
	out := []string{"## Bode Simulation (summary)"}
	out = append(out, fmt.Sprintf("- **Note:** %s", bode.Note))
	if !bode.Available {
		return append(out, "")
	}

	if s := bode.Stability; s != nil {
		out = append(out, fmt.Sprintf("- **Crossover:** %s", formatHz(s.CrossoverFreq)))
		out = append(out, fmt.Sprintf("- **Phase margin:** %s", formatDeg(s.PhaseMargin)))
		out = append(out, fmt.Sprintf("- **Bandwidth:** %s", formatHz(s.Bandwidth)))
		out = append(out, fmt.Sprintf("- **Grade:** %s", s.Grade))
	}

	if len(bode.Points) > 0 {
		out = append(out, "- **Examples (f, gain dB, phase deg):**")
		sample := bode.Points
		if len(sample) > 10 {
			sample = sample[:10]
		}
		for _, p := range sample {
			out = append(out, fmt.Sprintf("  - %.2f Hz, %.2f dB, %.1f deg", p.Freq, p.GainDB, p.PhaseDeg))
		}
	}

	return append(out, "")
}

func componentSection(ca *ComponentAnalysis) []string {
	comp := ca.Component
	out := []string{fmt.Sprintf("### %s - %s", comp.Ref, comp.MPN)}

	if comp.Value != "" {
		out = append(out, fmt.Sprintf("- **Value:** %s", comp.Value))
	}
	if comp.Datasheet != "" {
		out = append(out, fmt.Sprintf("- **Datasheet:** %s", comp.Datasheet))
	}
	if ca.NetCount > 0 {
		out = append(out, fmt.Sprintf("- **Nets:** %d", ca.NetCount))
	}

	if ca.Limits.Empty() {
		out = append(out, "- **SOA:** not extracted (no datasheet or parsing failed)")
	} else {
		out = append(out, fmt.Sprintf("- **Limits:** %d values (%s)", len(ca.Limits.Values), ca.Limits.Source))
	}

	for _, advisory := range ca.Advisories {
		out = append(out, fmt.Sprintf("- **Advisory:** %s", advisory))
	}

	if len(ca.Results) > 0 {
		out = append(out, "- **SOA check:**")
		for _, result := range ca.Results {
			out = append(out, fmt.Sprintf("  - %s", result))
		}
	} else if !ca.Limits.Empty() {
		out = append(out, "- **SOA check:** no overlapping operating conditions")
	}

	return append(out, "")
}

func recommendationSection(a *Analysis) []string {
	out := []string{"## Recommendations"}

	if violations := a.Violations(); len(violations) > 0 {
		out = append(out, fmt.Sprintf("- Resolve %d SOA violations before fabrication", len(violations)))
	}

	return append(out, generalRecommendations(a)...)
}

func formatHz(v *float64) string {
	if v == nil {
		return "not found"
	}
	return fmt.Sprintf("%.2f Hz", *v)
}

func formatDeg(v *float64) string {
	if v == nil {
		return "not found"
	}
	return fmt.Sprintf("%.1f deg", *v)
}

func sortedPrefixes(groups map[string][]*ComponentAnalysis) []string {
	prefixes := make([]string, 0, len(groups))
	for prefix := range groups {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	return prefixes
}
