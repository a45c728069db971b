package lib

import "testing"

func TestEstimateSOA(t *testing.T) {
	q := EstimateSOA("Q1")
	if q.Empty() {
		t.Fatal("expected estimates for a transistor")
	}
	if q.Source != SourceEstimated {
		t.Errorf("source = %q, want %q", q.Source, SourceEstimated)
	}
	if len(q.Values) != 7 {
		t.Errorf("got %d transistor defaults, want 7", len(q.Values))
	}
	if q.Values["Vds_max"] != 30 {
		t.Errorf("Vds_max = %g, want 30", q.Values["Vds_max"])
	}
	if q.Values["Vbe_max"] != 6 {
		t.Errorf("Vbe_max = %g, want 6", q.Values["Vbe_max"])
	}
	if q.Values["Ib_max"] != 0.1 {
		t.Errorf("Ib_max = %g, want 0.1", q.Values["Ib_max"])
	}

	m := EstimateSOA("M3")
	if len(m.Values) != 3 || m.Values["Vds_max"] != 30 {
		t.Errorf("mosfet defaults = %v", m.Values)
	}

	d := EstimateSOA("D2")
	if d.Values["Vr_max"] != 50 || d.Values["If_max"] != 1 || d.Values["Pd_max"] != 0.5 {
		t.Errorf("diode defaults = %v", d.Values)
	}
}

func TestEstimateSOAUnknownClass(t *testing.T) {
	for _, ref := range []string{"R1", "C5", "U2", "X9", ""} {
		if limits := EstimateSOA(ref); limits != nil {
			t.Errorf("EstimateSOA(%q) = %v, want nil", ref, limits.Values)
		}
	}
}

func TestEstimatesArePlausible(t *testing.T) {
	for _, ref := range []string{"Q1", "M1", "D1"} {
		if warnings := ValidateSOA(EstimateSOA(ref)); len(warnings) > 0 {
			t.Errorf("defaults for %s flagged: %v", ref, warnings)
		}
	}
}

func TestRefPrefix(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"Q12", "Q"},
		{"U3A", "U"},
		{"sw1", "SW"},
		{"R", "R"},
		{" D1 ", "D"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := refPrefix(tt.ref); got != tt.want {
			t.Errorf("refPrefix(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}
