package lib

import (
	"fmt"
	"strings"
)

/*
	Respond answers a free-form question about an analysis run. Routing
	is keyword based; anything unrecognized gets the run digest.
*/
func Respond(prompt string, analysis *Analysis) string {
	if analysis == nil {
		return "No analysis loaded. Run analyze first."
	}

	lower := strings.ToLower(prompt)

	switch {
	case strings.Contains(lower, "power"):
		return powerSection(analysis)
	case strings.Contains(lower, "soa"), strings.Contains(lower, "safety"):
		return soaSection(analysis)
	case strings.Contains(lower, "improve"), strings.Contains(lower, "optimize"):
		return improvementSection(analysis)
	case strings.Contains(lower, "explain"):
		return explainSection(analysis)
	case strings.Contains(lower, "stability"), strings.Contains(lower, "bode"):
		return stabilitySection(analysis)
	}

	return fmt.Sprintf("I understand you're asking about: %q. Based on the circuit analysis: %s.",
		prompt, digest(analysis))
}

func powerSection(a *Analysis) string {
	entries := []string{}
	for _, ca := range a.Components {
		if !strings.ContainsAny(ca.Component.Ref, "UQD") {
			continue
		}
		entries = append(entries, fmt.Sprintf("- **%s**: %s (%s)",
			ca.Component.Ref, ca.Component.Value, ca.Component.MPN))
	}

	out := []string{
		"## Power Supply Analysis",
		"",
		fmt.Sprintf("Found %d power-related components:", len(entries)),
		"",
	}
	out = append(out, entries...)

	return strings.Join(out, "\n")
}

func soaSection(a *Analysis) string {
	violations := a.Violations()
	warnings := a.Warnings()

	out := []string{"## SOA Safety Analysis", ""}
	for _, f := range violations {
		out = append(out, fmt.Sprintf("- **%s**: %s", f.Ref, f.Result))
	}
	for _, f := range warnings {
		out = append(out, fmt.Sprintf("- **%s**: %s", f.Ref, f.Result))
	}

	if len(violations) == 0 && len(warnings) == 0 {
		out = append(out, "All components are within safe operating limits.")
	} else {
		out = append(out, "", fmt.Sprintf("**Summary**: %d violations, %d warnings",
			len(violations), len(warnings)))
	}

	return strings.Join(out, "\n")
}

func improvementSection(a *Analysis) string {
	out := []string{"## Design Improvement Suggestions", ""}
	out = append(out, generalRecommendations(a)...)

	return strings.Join(out, "\n")
}

/*
	generalRecommendations is shared between the report and the chat
	improvement answer.
*/
func generalRecommendations(a *Analysis) []string {
	out := []string{}

	if len(a.Components) > 50 {
		out = append(out, "- The design carries many components, consider splitting it into modules")
	}
	if missing := a.MissingMPN(); len(missing) > 0 {
		out = append(out, fmt.Sprintf("- %d components lack manufacturer part numbers", len(missing)))
	}

	return append(out,
		"- Add decoupling capacitors near ICs",
		"- Ensure proper ground return paths",
		"- Consider EMI/EMC requirements",
		"- Add test points for debugging",
	)
}

func explainSection(a *Analysis) string {
	groups := a.Groups()
	resistors := len(groups["R"])
	capacitors := len(groups["C"])
	ics := len(groups["U"])

	out := []string{
		"## Circuit Explanation",
		"",
		"**Component breakdown**:",
		fmt.Sprintf("- Resistors: %d (likely for biasing and current limiting)", resistors),
		fmt.Sprintf("- Capacitors: %d (likely for filtering and decoupling)", capacitors),
		fmt.Sprintf("- ICs: %d (main functional blocks)", ics),
		"",
		"**Likely functions**:",
	}

	if ics > 0 {
		out = append(out, "- Integrated circuits suggest digital or analog processing")
	}
	if capacitors > 3 {
		out = append(out, "- Multiple capacitors suggest power supply filtering")
	}
	if resistors > 5 {
		out = append(out, "- Many resistors suggest analog signal conditioning")
	}

	return strings.Join(out, "\n")
}

func stabilitySection(a *Analysis) string {
	if a.Bode == nil {
		return "No bode data in this run. Analyze with a spice netlist first."
	}

	out := []string{"## Stability Analysis", ""}
	out = append(out, fmt.Sprintf("- **Note:** %s", a.Bode.Note))
	if s := a.Bode.Stability; s != nil {
		out = append(out, fmt.Sprintf("- **Crossover:** %s", formatHz(s.CrossoverFreq)))
		out = append(out, fmt.Sprintf("- **Phase margin:** %s", formatDeg(s.PhaseMargin)))
		out = append(out, fmt.Sprintf("- **Grade:** %s", s.Grade))

		if s.Stable {
			out = append(out, "", "The loop looks stable.")
		} else {
			out = append(out, "", "The loop may be unstable, review the compensation network.")
		}
	}

	return strings.Join(out, "\n")
}

func digest(a *Analysis) string {
	return fmt.Sprintf("%d components, %d nets, %d violations, %d warnings",
		len(a.Components), a.NetCount, len(a.Violations()), len(a.Warnings()))
}
