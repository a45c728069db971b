package lib

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

/*
	SOA (safe operating area) extraction from datasheet page text.
*/

const (
	SourceExtracted = "extracted"
	SourceEstimated = "estimated"
)

/*
	A single labelled extraction rule for one electrical limit.
*/
type SOAPattern struct {
	Name        string
	Expr        *regexp.Regexp
	Unit        string
	Description string
}

/*
	Extract the first captured numeric group from text. A match whose
	captured group does not parse as a float counts as no match.
*/
func (p *SOAPattern) Extract(text string) (float64, bool) {
	match := p.Expr.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

var SOAPatterns = []*SOAPattern{
	{
		Name:        "Vds_max",
		Expr:        regexp.MustCompile(`(?im)(?:Vds|Drain[-\s]?Source\s*Voltage)[^\n]*?(\d+\.?\d*)\s*V`),
		Unit:        "V",
		Description: "Maximum drain-source voltage",
	},
	{
		Name:        "Id_max",
		Expr:        regexp.MustCompile(`(?im)(?:Id|Drain\s*Current)[^\n]*?(\d+\.?\d*)\s*A`),
		Unit:        "A",
		Description: "Maximum drain current",
	},
	{
		Name:        "Pd_max",
		Expr:        regexp.MustCompile(`(?im)(?:P[dD]|Power\s*Dissipation)[^\n]*?(\d+\.?\d*)\s*W`),
		Unit:        "W",
		Description: "Maximum power dissipation",
	},
	{
		Name:        "Vr_max",
		Expr:        regexp.MustCompile(`(?im)(?:Vr|Reverse\s*Voltage)[^\n]*?(\d+\.?\d*)\s*V`),
		Unit:        "V",
		Description: "Maximum reverse voltage",
	},
	{
		Name:        "If_max",
		Expr:        regexp.MustCompile(`(?im)(?:If|Forward\s*Current)[^\n]*?(\d+\.?\d*)\s*A`),
		Unit:        "A",
		Description: "Maximum forward current",
	},
	{
		Name:        "Vce_max",
		Expr:        regexp.MustCompile(`(?im)(?:Vce|Collector[-\s]?Emitter\s*Voltage)[^\n]*?(\d+\.?\d*)\s*V`),
		Unit:        "V",
		Description: "Maximum collector-emitter voltage",
	},
	{
		Name:        "Ic_max",
		Expr:        regexp.MustCompile(`(?im)(?:Ic|Collector\s*Current)[^\n]*?(\d+\.?\d*)\s*A`),
		Unit:        "A",
		Description: "Maximum collector current",
	},
	{
		Name:        "Vbe_max",
		Expr:        regexp.MustCompile(`(?im)(?:Vbe|Base[-\s]?Emitter\s*Voltage)[^\n]*?(\d+\.?\d*)\s*V`),
		Unit:        "V",
		Description: "Maximum base-emitter voltage",
	},
	{
		Name:        "Ib_max",
		Expr:        regexp.MustCompile(`(?im)(?:Ib|Base\s*Current)[^\n]*?(\d+\.?\d*)\s*A`),
		Unit:        "A",
		Description: "Maximum base current",
	},
}

/*
	Section headings that mark a page as worth scanning first.
*/
var soaKeywords = []string{
	"Absolute Maximum Ratings",
	"Safe Operating Area",
	"Maximum Ratings",
	"Electrical Characteristics",
	"Limiting Values",
	"Absolute Maximum",
	"Maximum Operating",
	"Peak Ratings",
}

/*
	The limit set produced for one component: parameter name to value,
	tagged with how it was obtained.
*/
type SOALimits struct {
	Values map[string]float64
	Source string
}

func NewSOALimits(source string) *SOALimits {
	return &SOALimits{
		Values: make(map[string]float64),
		Source: source,
	}
}

func (l *SOALimits) Empty() bool {
	return l == nil || len(l.Values) == 0
}

type SOAExtractor struct {
	patterns []*SOAPattern
}

/*
	Create an extractor with the canonical pattern set, plus any
	project-specific extra patterns.
*/
func NewSOAExtractor(extra ...*SOAPattern) *SOAExtractor {
	patterns := make([]*SOAPattern, 0, len(SOAPatterns)+len(extra))
	patterns = append(patterns, SOAPatterns...)
	patterns = append(patterns, extra...)

	return &SOAExtractor{patterns: patterns}
}

/*
	Extract SOA limits from ordered page texts. Pages containing a section
	keyword are scanned first, in their original order, then the rest.
	The first match for a parameter wins; a later match never overwrites
	an earlier one.
*/
func (e *SOAExtractor) Extract(pages []string) *SOALimits {
	prioritized := []string{}
	other := []string{}

	for _, text := range pages {
		if text == "" {
			continue
		}

		if containsSOAKeyword(text) {
			prioritized = append(prioritized, text)
		} else {
			other = append(other, text)
		}
	}

	return e.extractFromTexts(append(prioritized, other...))
}

/*
	Extract SOA limits from a single block of text.
*/
func (e *SOAExtractor) ExtractText(text string) *SOALimits {
	return e.extractFromTexts([]string{text})
}

func (e *SOAExtractor) extractFromTexts(texts []string) *SOALimits {
	limits := NewSOALimits(SourceExtracted)

	for _, text := range texts {
		for _, pattern := range e.patterns {
			if _, ok := limits.Values[pattern.Name]; ok {
				continue
			}

			if value, ok := pattern.Extract(text); ok {
				limits.Values[pattern.Name] = value
			}
		}

		/*
			enough parameters for any one device class
		*/
		if len(limits.Values) >= 5 {
			break
		}
	}

	return limits
}

func containsSOAKeyword(text string) bool {
	for _, keyword := range soaKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}

	return false
}

var (
	soaVoltageParams = []string{"Vds_max", "Vr_max", "Vce_max", "Vbe_max"}
	soaCurrentParams = []string{"Id_max", "If_max", "Ic_max", "Ib_max"}
)

/*
	ValidateSOA flags physically implausible limit values. The values are
	kept; the warnings are advisory only.
*/
func ValidateSOA(limits *SOALimits) []string {
	if limits.Empty() {
		return nil
	}

	warnings := []string{}

	for _, param := range soaVoltageParams {
		value, ok := limits.Values[param]
		if !ok {
			continue
		}

		if value < 0 {
			warnings = append(warnings, fmt.Sprintf("negative voltage for %s: %gV", param, value))
		} else if value > 1000 {
			warnings = append(warnings, fmt.Sprintf("very high voltage for %s: %gV", param, value))
		}
	}

	for _, param := range soaCurrentParams {
		value, ok := limits.Values[param]
		if !ok {
			continue
		}

		if value < 0 {
			warnings = append(warnings, fmt.Sprintf("negative current for %s: %gA", param, value))
		} else if value > 100 {
			warnings = append(warnings, fmt.Sprintf("very high current for %s: %gA", param, value))
		}
	}

	if value, ok := limits.Values["Pd_max"]; ok {
		if value < 0 {
			warnings = append(warnings, fmt.Sprintf("negative power for Pd_max: %gW", value))
		} else if value > 1000 {
			warnings = append(warnings, fmt.Sprintf("very high power for Pd_max: %gW", value))
		}
	}

	return warnings
}
