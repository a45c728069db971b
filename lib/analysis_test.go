package lib

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iyotee/Elektros/spice"
)

func TestAnalyzeBOMWithEstimates(t *testing.T) {
	bom := []*BOMComponent{
		{Ref: "Q1", Value: "2N7002", Qty: 1},
		{Ref: "R1", Value: "10k", Qty: 1},
	}
	conditions := map[string]map[string]float64{
		"Q1": {"Vds": 40, "Id": 0.5},
	}

	analysis := AnalyzeBOM("smps", bom, nil, conditions, nil)
	if analysis.Project != "smps" {
		t.Errorf("project = %q", analysis.Project)
	}
	if analysis.ID == "" {
		t.Error("analysis has no id")
	}
	if len(analysis.Components) != 2 {
		t.Fatalf("got %d components, want 2", len(analysis.Components))
	}

	q1 := analysis.Components[0]
	if q1.Limits.Empty() || q1.Limits.Source != SourceEstimated {
		t.Fatalf("Q1 limits = %+v, want estimates", q1.Limits)
	}
	if len(q1.Results) != 2 {
		t.Fatalf("Q1 has %d results, want 2", len(q1.Results))
	}
	if q1.Results[0].Parameter != "Vds" || q1.Results[0].Verdict != VerdictViolation {
		t.Errorf("Q1 Vds result = %+v", q1.Results[0])
	}
	if q1.Results[1].Parameter != "Id" || q1.Results[1].Verdict != VerdictOK {
		t.Errorf("Q1 Id result = %+v", q1.Results[1])
	}

	/*
		passives have no estimates and no conditions here
	*/
	r1 := analysis.Components[1]
	if !r1.Limits.Empty() {
		t.Errorf("R1 limits = %+v, want none", r1.Limits)
	}
	if len(r1.Results) != 1 || r1.Results[0].Verdict != VerdictInfo {
		t.Errorf("R1 results = %+v", r1.Results)
	}

	violations := analysis.Violations()
	if len(violations) != 1 || violations[0].Ref != "Q1" {
		t.Errorf("violations = %+v", violations)
	}
	if len(analysis.Warnings()) != 0 {
		t.Errorf("warnings = %+v", analysis.Warnings())
	}

	missing := analysis.MissingMPN()
	if len(missing) != 2 {
		t.Errorf("missing mpn = %v", missing)
	}
}

func TestAnalyzeBOMKeepsOrder(t *testing.T) {
	bom := []*BOMComponent{}
	for i := 1; i <= 24; i++ {
		bom = append(bom, &BOMComponent{Ref: fmt.Sprintf("R%d", i), Value: "1k"})
	}

	analysis := AnalyzeBOM("order", bom, nil, nil, &AnalysisOptions{Workers: 7})
	for i, ca := range analysis.Components {
		if want := fmt.Sprintf("R%d", i+1); ca.Component.Ref != want {
			t.Fatalf("component %d = %s, want %s", i, ca.Component.Ref, want)
		}
	}
}

func TestAnalyzeBOMNetCounts(t *testing.T) {
	netlist, err := ReadNetlist(writeTemp(t, "netlist.xml", kicadNetlist))
	if err != nil {
		t.Fatalf("ReadNetlist failed: %v", err)
	}

	bom := []*BOMComponent{
		{Ref: "R1", Value: "10k"},
		{Ref: "C1", Value: "100n"},
	}

	analysis := AnalyzeBOM("nets", bom, netlist, nil, nil)
	if analysis.NetCount != 2 {
		t.Errorf("NetCount = %d, want 2", analysis.NetCount)
	}
	if analysis.Components[0].NetCount != 1 {
		t.Errorf("R1 nets = %d, want 1", analysis.Components[0].NetCount)
	}
	if analysis.Components[1].NetCount != 2 {
		t.Errorf("C1 nets = %d, want 2", analysis.Components[1].NetCount)
	}
}

func TestAnalyzeBOMExtractsFromDatasheet(t *testing.T) {
	dir := t.TempDir()
	sheet := "Absolute Maximum Ratings\nVds 60V\nId 0.115A"
	if err := os.WriteFile(filepath.Join(dir, "2n7002.txt"), []byte(sheet), 0777); err != nil {
		t.Fatal(err)
	}

	bom := []*BOMComponent{
		{Ref: "Q1", MPN: "2N7002LT1G", Datasheet: "2n7002.txt"},
	}
	conditions := map[string]map[string]float64{
		"Q1": {"Vds": 59},
	}

	analysis := AnalyzeBOM("ds", bom, nil, conditions, &AnalysisOptions{DatasheetDir: dir})
	q1 := analysis.Components[0]
	if q1.Limits.Source != SourceExtracted {
		t.Fatalf("limits = %+v, want extracted", q1.Limits)
	}
	if q1.Limits.Values["Vds_max"] != 60 {
		t.Errorf("Vds_max = %g, want 60", q1.Limits.Values["Vds_max"])
	}

	/*
		59V against a 60V limit is inside the 80% margin band
	*/
	if len(q1.Results) != 1 || q1.Results[0].Verdict != VerdictWarning {
		t.Errorf("results = %+v", q1.Results)
	}
}

func TestAnalyzeBOMResolvesThroughLibrary(t *testing.T) {
	library := testLibrary(t)
	if err := library.Import(testCatalog(t)); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if err := library.Associate("2N7002", "2N7002LT1G"); err != nil {
		t.Fatalf("Associate failed: %v", err)
	}

	limits := NewSOALimits(SourceExtracted)
	limits.Values["Vds_max"] = 60
	if err := library.CacheSOA("2N7002LT1G", limits); err != nil {
		t.Fatalf("CacheSOA failed: %v", err)
	}

	bom := []*BOMComponent{{Ref: "Q1", Value: "2N7002"}}
	conditions := map[string]map[string]float64{"Q1": {"Vds": 40}}

	analysis := AnalyzeBOM("lib", bom, nil, conditions, &AnalysisOptions{Library: library})
	q1 := analysis.Components[0]

	if q1.Component.MPN != "2N7002LT1G" {
		t.Errorf("mpn = %q, want resolved from association", q1.Component.MPN)
	}
	if q1.Component.Datasheet != "2n7002.pdf" {
		t.Errorf("datasheet = %q, want filled from the catalog", q1.Component.Datasheet)
	}
	if q1.Limits.Source != SourceExtracted || q1.Limits.Values["Vds_max"] != 60 {
		t.Errorf("limits = %+v, want the cached set", q1.Limits)
	}
	if len(q1.Results) != 1 || q1.Results[0].Verdict != VerdictOK {
		t.Errorf("results = %+v", q1.Results)
	}
}

func TestAnalysisGroups(t *testing.T) {
	bom := []*BOMComponent{
		{Ref: "Q1"}, {Ref: "Q2"}, {Ref: "R1"}, {Ref: "SW1"},
	}

	groups := AnalyzeBOM("groups", bom, nil, nil, nil).Groups()
	if len(groups["Q"]) != 2 || len(groups["R"]) != 1 || len(groups["SW"]) != 1 {
		t.Errorf("groups = %v", groups)
	}
}

func TestAnalysisSaveLoad(t *testing.T) {
	workspace := t.TempDir()

	bom := []*BOMComponent{{Ref: "Q1", Value: "2N7002"}}
	conditions := map[string]map[string]float64{"Q1": {"Vds": 40}}

	first := AnalyzeBOM("first", bom, nil, conditions, nil)
	if err := first.Save(workspace); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := AnalyzeBOM("second", bom, nil, nil, nil)
	if err := second.Save(workspace); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadAnalysis(workspace, first.ID)
	if err != nil {
		t.Fatalf("LoadAnalysis failed: %v", err)
	}
	if loaded.Project != "first" || loaded.ID != first.ID {
		t.Errorf("loaded = %s %s", loaded.ID, loaded.Project)
	}
	if len(loaded.Components) != 1 {
		t.Fatalf("got %d components", len(loaded.Components))
	}
	if len(loaded.Violations()) != 1 {
		t.Errorf("violations = %+v", loaded.Violations())
	}
	if loaded.Components[0].Limits.Source != SourceEstimated {
		t.Errorf("limits = %+v", loaded.Components[0].Limits)
	}

	/*
		push the first run into the past so the pick is deterministic
	*/
	old := time.Now().Add(-time.Hour)
	os.Chtimes(filepath.Join(workspace, "analyses", first.ID+".bin"), old, old)

	latest, err := LatestAnalysis(workspace)
	if err != nil {
		t.Fatalf("LatestAnalysis failed: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("latest = %s, want %s", latest.ID, second.ID)
	}
}

func TestLatestAnalysisEmpty(t *testing.T) {
	workspace := t.TempDir()
	os.MkdirAll(filepath.Join(workspace, "analyses"), 0777)

	_, err := LatestAnalysis(workspace)
	if err == nil || !strings.Contains(err.Error(), "no analyses found") {
		t.Errorf("err = %v", err)
	}
}

const rcNetlist = `rc lowpass
V1 in 0 AC 1
R1 in out 1k
C1 out 0 1u
.ac lin 1 159.15494309189535 159.15494309189535
.end
`

func TestRunBode(t *testing.T) {
	result, err := RunBode(writeTemp(t, "rc.cir", rcNetlist), "", "")
	if err != nil {
		t.Fatalf("RunBode failed: %v", err)
	}

	if !result.Available {
		t.Fatalf("not available: %s", result.Note)
	}
	if result.Note != "bode calculated on ratio V(out)/V(in)" {
		t.Errorf("note = %q", result.Note)
	}
	if len(result.Points) != 1 {
		t.Fatalf("got %d points, want 1", len(result.Points))
	}

	/*
		at f = 1/(2*pi*RC) the response is -3 dB at -45 degrees
	*/
	point := result.Points[0]
	floatNear(t, "gain", point.GainDB, -3.0103, 1e-3)
	floatNear(t, "phase", point.PhaseDeg, -45, 1e-6)

	if result.Stability == nil {
		t.Fatal("no stability report")
	}
	if result.Stability.Grade != "Unknown" {
		t.Errorf("grade = %q, want Unknown for a single point", result.Stability.Grade)
	}
}

func TestBodeFromCircuitMissingNodes(t *testing.T) {
	ckt, err := spice.Parse("t\nV1 a 0 AC 1\nR1 a b 1k\nR2 b 0 1k\n.ac lin 1 100 100\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	result, err := BodeFromCircuit(ckt, "", "")
	if err != nil {
		t.Fatalf("BodeFromCircuit failed: %v", err)
	}
	if !result.Available {
		t.Error("missing nodes should still report availability")
	}
	if !strings.Contains(result.Note, "not found in the netlist") {
		t.Errorf("note = %q", result.Note)
	}
	if len(result.Points) != 0 {
		t.Errorf("got %d points, want 0", len(result.Points))
	}
}

func TestBodeFromCircuitSimulationFailure(t *testing.T) {
	ckt, err := spice.Parse("t\nV1 in 0 AC 1\nR1 in out 1k\nC1 out 0 1u\n.ac dec 10 0 100\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	result, err := BodeFromCircuit(ckt, "in", "out")
	if err != nil {
		t.Fatalf("BodeFromCircuit failed: %v", err)
	}
	if result.Available {
		t.Error("a failed sweep must not be available")
	}
	if !strings.Contains(result.Note, "simulation failed") {
		t.Errorf("note = %q", result.Note)
	}
}

func TestBodeFromCircuitZeroInput(t *testing.T) {
	ckt, err := spice.Parse("t\nV1 x 0 AC 1\nR1 x out 1k\nC1 out 0 1u\nR2 in 0 1k\n.ac lin 1 100 100\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	result, err := BodeFromCircuit(ckt, "in", "out")
	if err != nil {
		t.Fatalf("BodeFromCircuit failed: %v", err)
	}
	if len(result.Points) != 1 {
		t.Fatalf("got %d points, want 1", len(result.Points))
	}
	if !math.IsNaN(result.Points[0].GainDB) {
		t.Errorf("gain = %g, want NaN for a grounded input node", result.Points[0].GainDB)
	}
}

func TestBodeFromCircuitDefaultSweep(t *testing.T) {
	ckt, err := spice.Parse("t\nV1 in 0 AC 1\nR1 in out 1k\nC1 out 0 1u\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	result, err := BodeFromCircuit(ckt, "", "")
	if err != nil {
		t.Fatalf("BodeFromCircuit failed: %v", err)
	}
	if len(result.Points) != 301 {
		t.Errorf("got %d points, want the default 301", len(result.Points))
	}
	if result.Points[0].Freq != 1 {
		t.Errorf("first frequency = %g, want 1", result.Points[0].Freq)
	}
	floatNear(t, "last frequency", result.Points[300].Freq, 1e6, 1)
}
