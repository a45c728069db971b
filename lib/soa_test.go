package lib

import (
	"regexp"
	"strings"
	"testing"
)

func TestPatternExtraction(t *testing.T) {
	tests := []struct {
		name  string
		param string
		text  string
		want  float64
	}{
		{"drain source long form", "Vds_max", "Drain-Source Voltage 60 V", 60},
		{"vds short form", "Vds_max", "VDS 30V", 30},
		{"vds lowercase", "Vds_max", "vds 30V", 30},
		{"drain current", "Id_max", "Id 5 A", 5},
		{"drain current long form", "Id_max", "Drain Current 0.115 A", 0.115},
		{"power dissipation", "Pd_max", "PD 1.5W", 1.5},
		{"power long form", "Pd_max", "Power Dissipation 0.35 W", 0.35},
		{"reverse voltage", "Vr_max", "Reverse Voltage 100 V", 100},
		{"forward current", "If_max", "If 2A", 2},
		{"collector emitter", "Vce_max", "Collector-Emitter Voltage 40V", 40},
		{"collector current", "Ic_max", "Collector Current 1.5A", 1.5},
		{"base emitter", "Vbe_max", "Vbe 6V", 6},
		{"base current", "Ib_max", "Base Current 0.2 A", 0.2},
		{"value in a table row", "Vds_max", "Vds | Drain-Source Voltage | 60 V", 60},
	}

	extractor := NewSOAExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limits := extractor.ExtractText(tt.text)
			got, ok := limits.Values[tt.param]
			if !ok {
				t.Fatalf("expected %s extracted from %q, got nothing", tt.param, tt.text)
			}
			if got != tt.want {
				t.Errorf("%s = %g, want %g", tt.param, got, tt.want)
			}
		})
	}
}

func TestPatternNoMatch(t *testing.T) {
	extractor := NewSOAExtractor()

	tests := []string{
		"Vds to be determined V",
		"no electrical ratings on this page",
		"",
	}
	for _, text := range tests {
		if limits := extractor.ExtractText(text); !limits.Empty() {
			t.Errorf("expected no limits from %q, got %v", text, limits.Values)
		}
	}
}

func TestFirstMatchWins(t *testing.T) {
	extractor := NewSOAExtractor()

	limits := extractor.ExtractText("Vds 60V and elsewhere Vds 100V")
	if got := limits.Values["Vds_max"]; got != 60 {
		t.Errorf("Vds_max = %g, want first match 60", got)
	}

	limits = extractor.Extract([]string{"Vds 60V", "Vds 100V"})
	if got := limits.Values["Vds_max"]; got != 60 {
		t.Errorf("Vds_max across pages = %g, want 60", got)
	}
}

func TestExtractStopsWhenSaturated(t *testing.T) {
	pages := []string{
		"Vds 60V\nId 5A\nPd 1.5W\nVr 100V\nIf 2A",
		"Vce 40V\nIc 1A\nVbe 6V\nIb 0.1A",
	}

	limits := NewSOAExtractor().Extract(pages)
	if len(limits.Values) != 5 {
		t.Fatalf("got %d values, want 5: %v", len(limits.Values), limits.Values)
	}

	for _, param := range []string{"Vds_max", "Id_max", "Pd_max", "Vr_max", "If_max"} {
		if _, ok := limits.Values[param]; !ok {
			t.Errorf("missing %s from first page", param)
		}
	}
	if _, ok := limits.Values["Vce_max"]; ok {
		t.Error("second page was scanned after the first page saturated the set")
	}
}

func TestKeywordPrioritization(t *testing.T) {
	plain := "Vds 30V"
	ratings := "Absolute Maximum Ratings\nVds 60V"

	limits := NewSOAExtractor().Extract([]string{plain, ratings})
	if got := limits.Values["Vds_max"]; got != 60 {
		t.Errorf("Vds_max = %g, want 60 from the ratings page", got)
	}

	/*
		section headings are matched case sensitively
	*/
	lower := "absolute maximum ratings\nVds 60V"
	limits = NewSOAExtractor().Extract([]string{plain, lower})
	if got := limits.Values["Vds_max"]; got != 30 {
		t.Errorf("Vds_max = %g, want 30 in page order", got)
	}
}

func TestExtractSkipsEmptyPages(t *testing.T) {
	limits := NewSOAExtractor().Extract([]string{"", "", "Vds 60V"})
	if got := limits.Values["Vds_max"]; got != 60 {
		t.Errorf("Vds_max = %g, want 60", got)
	}
	if limits.Source != SourceExtracted {
		t.Errorf("Source = %q, want %q", limits.Source, SourceExtracted)
	}
}

func TestExtraPatterns(t *testing.T) {
	storage := &SOAPattern{
		Name: "Tstg_max",
		Expr: regexp.MustCompile(`(?im)Storage\s*Temperature[^\n]*?(\d+\.?\d*)\s*C`),
		Unit: "C",
	}

	limits := NewSOAExtractor(storage).ExtractText("Storage Temperature 150 C")
	if got := limits.Values["Tstg_max"]; got != 150 {
		t.Errorf("Tstg_max = %g, want 150", got)
	}
}

func TestLimitsEmpty(t *testing.T) {
	var limits *SOALimits
	if !limits.Empty() {
		t.Error("nil limits should be empty")
	}
	if !NewSOALimits(SourceExtracted).Empty() {
		t.Error("fresh limits should be empty")
	}

	limits = NewSOALimits(SourceExtracted)
	limits.Values["Vds_max"] = 60
	if limits.Empty() {
		t.Error("populated limits should not be empty")
	}
}

func TestValidateSOA(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]float64
		want   []string
	}{
		{
			name:   "plausible set",
			values: map[string]float64{"Vds_max": 60, "Id_max": 5, "Pd_max": 1.5},
			want:   nil,
		},
		{
			name:   "negative voltage",
			values: map[string]float64{"Vds_max": -5},
			want:   []string{"negative voltage for Vds_max: -5V"},
		},
		{
			name:   "very high voltage",
			values: map[string]float64{"Vce_max": 1200},
			want:   []string{"very high voltage for Vce_max: 1200V"},
		},
		{
			name:   "very high current",
			values: map[string]float64{"Id_max": 150},
			want:   []string{"very high current for Id_max: 150A"},
		},
		{
			name:   "negative power",
			values: map[string]float64{"Pd_max": -1},
			want:   []string{"negative power for Pd_max: -1W"},
		},
		{
			name:   "voltage reported before current",
			values: map[string]float64{"Id_max": -2, "Vds_max": -5},
			want: []string{
				"negative voltage for Vds_max: -5V",
				"negative current for Id_max: -2A",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limits := NewSOALimits(SourceExtracted)
			for param, value := range tt.values {
				limits.Values[param] = value
			}

			got := ValidateSOA(limits)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d warnings %v, want %d", len(got), got, len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("warning %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}

	if warnings := ValidateSOA(nil); warnings != nil {
		t.Errorf("nil limits: got %v, want nil", warnings)
	}
}

func TestPatternsDoNotMatchAcrossLines(t *testing.T) {
	limits := NewSOAExtractor().ExtractText("Vds rating\n60 V elsewhere")
	if _, ok := limits.Values["Vds_max"]; ok {
		t.Error("pattern matched across a line break")
	}
}

func TestCanonicalPatternOrder(t *testing.T) {
	want := []string{
		"Vds_max", "Id_max", "Pd_max", "Vr_max", "If_max",
		"Vce_max", "Ic_max", "Vbe_max", "Ib_max",
	}
	if len(SOAPatterns) != len(want) {
		t.Fatalf("got %d patterns, want %d", len(SOAPatterns), len(want))
	}
	for i, pattern := range SOAPatterns {
		if pattern.Name != want[i] {
			t.Errorf("pattern %d = %s, want %s", i, pattern.Name, want[i])
		}
		if pattern.Unit == "" {
			t.Errorf("pattern %s has no unit", pattern.Name)
		}
	}
}

func TestExtractRealisticPage(t *testing.T) {
	page := strings.Join([]string{
		"2N7002 N-Channel Enhancement Mode Field Effect Transistor",
		"Absolute Maximum Ratings TA = 25 C unless otherwise noted",
		"Vds Drain-Source Voltage 60 V",
		"Id Drain Current - Continuous 0.115 A",
		"Pd Power Dissipation 0.35 W",
	}, "\n")

	limits := NewSOAExtractor().Extract([]string{page})
	if got := limits.Values["Vds_max"]; got != 60 {
		t.Errorf("Vds_max = %g, want 60", got)
	}
	if got := limits.Values["Id_max"]; got != 0.115 {
		t.Errorf("Id_max = %g, want 0.115", got)
	}
	if got := limits.Values["Pd_max"]; got != 0.35 {
		t.Errorf("Pd_max = %g, want 0.35", got)
	}
}
