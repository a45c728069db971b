package lib

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iyotee/Elektros/spice"
)

/*
	Per-component outcome of an analysis run.
*/
type ComponentAnalysis struct {
	Component  *BOMComponent
	Limits     *SOALimits
	Advisories []string
	Results    []*ComplianceResult
	NetCount   int
}

/*
	Analysis is one complete run over a BOM, persisted in the workspace
	so later commands can pick it up again.
*/
type Analysis struct {
	ID         string
	Project    string
	Created    time.Time
	Components []*ComponentAnalysis
	NetCount   int
	Bode       *BodeResult
}

type AnalysisOptions struct {
	SafetyMargin  float64
	DatasheetDir  string
	Workers       int
	Library       *Library
	ExtraPatterns []*SOAPattern
}

/*
	AnalyzeBOM checks every BOM component against its operating
	conditions. Limits come from the library cache, then the component
	datasheet, then prefix estimates. Components are processed by a
	small worker pool; results keep BOM order.
*/
func AnalyzeBOM(project string, bom []*BOMComponent, netlist *Netlist, conditions map[string]map[string]float64, opts *AnalysisOptions) *Analysis {
	if opts == nil {
		opts = &AnalysisOptions{}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(bom) && len(bom) > 0 {
		workers = len(bom)
	}

	extractor := NewSOAExtractor(opts.ExtraPatterns...)
	checker := NewSOAChecker(opts.SafetyMargin)

	components := make([]*ComponentAnalysis, len(bom))

	jobs := make(chan int)
	wg := sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				components[i] = analyzeComponent(
					bom[i], conditions[bom[i].Ref], extractor, checker, opts)
			}
		}()
	}
	for i := range bom {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	analysis := &Analysis{
		ID:         uuid.New().String(),
		Project:    project,
		Created:    time.Now(),
		Components: components,
	}

	if netlist != nil {
		analysis.NetCount = len(netlist.Nets)
		for _, ca := range analysis.Components {
			ca.NetCount = netlist.NetCount(ca.Component.Ref)
		}
	}

	return analysis
}

func analyzeComponent(comp *BOMComponent, conditions map[string]float64, extractor *SOAExtractor, checker *SOAChecker, opts *AnalysisOptions) *ComponentAnalysis {
	ca := &ComponentAnalysis{Component: comp}

	if comp.MPN == "" && opts.Library != nil {
		if part := opts.Library.Resolve(comp.Value); part != nil {
			comp.MPN = part.MPN
			if comp.Datasheet == "" {
				comp.Datasheet = part.Datasheet
			}
		}
	}

	var limits *SOALimits
	if opts.Library != nil {
		limits = opts.Library.CachedSOA(comp.MPN)
	}

	if limits.Empty() {
		if path := FindDatasheet(comp.Datasheet, opts.DatasheetDir); path != "" {
			if pages, err := ReadDatasheetPages(path); err == nil {
				extracted := extractor.Extract(pages)
				if !extracted.Empty() {
					limits = extracted
					if opts.Library != nil {
						opts.Library.CacheSOA(comp.MPN, limits)
					}
				}
			}
		}
	}

	if limits.Empty() {
		limits = EstimateSOA(comp.Ref)
	}

	ca.Limits = limits
	ca.Advisories = ValidateSOA(limits)
	ca.Results = checker.Check(limits, conditions)

	return ca
}

/*
	A Finding ties a compliance result back to its component reference.
*/
type Finding struct {
	Ref    string
	Result *ComplianceResult
}

func (a *Analysis) Violations() []Finding {
	return a.findings(VerdictViolation)
}

func (a *Analysis) Warnings() []Finding {
	return a.findings(VerdictWarning)
}

func (a *Analysis) findings(verdict Verdict) []Finding {
	found := []Finding{}
	for _, ca := range a.Components {
		for _, result := range ca.Results {
			if result.Verdict == verdict {
				found = append(found, Finding{Ref: ca.Component.Ref, Result: result})
			}
		}
	}

	return found
}

/*
	Groups buckets the analyzed components by reference prefix.
*/
func (a *Analysis) Groups() map[string][]*ComponentAnalysis {
	groups := map[string][]*ComponentAnalysis{}
	for _, ca := range a.Components {
		prefix := refPrefix(ca.Component.Ref)
		groups[prefix] = append(groups[prefix], ca)
	}

	return groups
}

/*
	MissingMPN lists the references that carry no part number.
*/
func (a *Analysis) MissingMPN() []string {
	refs := []string{}
	for _, ca := range a.Components {
		if ca.Component.MPN == "" {
			refs = append(refs, ca.Component.Ref)
		}
	}

	return refs
}

func (a *Analysis) Save(workspace string) error {
	dir := filepath.Join(workspace, "analyses")
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}

	data, err := Marshal(a)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, a.ID+".bin"), data, 0777)
}

func LoadAnalysis(workspace, id string) (*Analysis, error) {
	data, err := os.ReadFile(filepath.Join(workspace, "analyses", id+".bin"))
	if err != nil {
		return nil, err
	}

	analysis := Analysis{}
	if err := Unmarshal(data, &analysis); err != nil {
		return nil, err
	}

	return &analysis, nil
}

/*
	LatestAnalysis loads the most recently written run.
*/
func LatestAnalysis(workspace string) (*Analysis, error) {
	dir := filepath.Join(workspace, "analyses")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	latest := ""
	var mtime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".bin") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if latest == "" || info.ModTime().After(mtime) {
			latest = entry.Name()
			mtime = info.ModTime()
		}
	}

	if latest == "" {
		return nil, fmt.Errorf("no analyses found in %s", dir)
	}

	return LoadAnalysis(workspace, strings.TrimSuffix(latest, ".bin"))
}

/*
	BodeResult wraps a frequency response sweep with the stability
	report derived from it.
*/
type BodeResult struct {
	Available bool
	Note      string
	Points    []BodePoint
	Stability *StabilityReport
}

/*
	RunBode sweeps the netlist at path and derives the response between
	two named nodes. Empty node names default to "in" and "out".
*/
func RunBode(path, inNode, outNode string) (*BodeResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ckt, err := spice.Parse(string(data))
	if err != nil {
		return nil, err
	}

	return BodeFromCircuit(ckt, inNode, outNode)
}

func BodeFromCircuit(ckt *spice.Circuit, inNode, outNode string) (*BodeResult, error) {
	if inNode == "" {
		inNode = "in"
	}
	if outNode == "" {
		outNode = "out"
	}

	if ckt.Sweep == nil {
		/*
			50 points per decade from 1Hz to 1MHz
		*/
		ckt.Sweep = &spice.Sweep{Variation: "DEC", Points: 301, FStart: 1, FStop: 1e6}
	}

	if !ckt.HasNode(inNode) || !ckt.HasNode(outNode) {
		return &BodeResult{
			Available: true,
			Note:      fmt.Sprintf("nodes %q or %q not found in the netlist", inNode, outNode),
			Points:    []BodePoint{},
		}, nil
	}

	solved, err := ckt.Run()
	if err != nil {
		return &BodeResult{Note: fmt.Sprintf("simulation failed: %v", err)}, nil
	}

	points := make([]BodePoint, 0, len(solved))
	for _, p := range solved {
		point := BodePoint{Freq: p.Freq, GainDB: math.NaN(), PhaseDeg: math.NaN()}

		vout, okOut := p.Voltage(outNode)
		vin, okIn := p.Voltage(inNode)
		if okOut && okIn && vin != 0 {
			h := vout / vin
			point.GainDB = GainDB(h)
			point.PhaseDeg = PhaseDeg(h)
		}

		points = append(points, point)
	}

	return &BodeResult{
		Available: true,
		Note:      fmt.Sprintf("bode calculated on ratio V(%s)/V(%s)", outNode, inNode),
		Points:    points,
		Stability: AnalyzeStability(points),
	}, nil
}
