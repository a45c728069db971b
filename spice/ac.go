package spice

import (
	"fmt"
	"math"
	"strings"
)

/*
	One AC solution point: complex node voltages by name at a single
	frequency. Nodes is nil when the solver failed at that frequency.
*/
type Point struct {
	Freq  float64
	Nodes map[string]complex128
}

func (p *Point) Voltage(node string) (complex128, bool) {
	if p.Nodes == nil {
		return 0, false
	}

	v, ok := p.Nodes[strings.ToLower(node)]
	return v, ok
}

func isGround(name string) bool {
	return name == "0" || name == "gnd"
}

func (c *Circuit) HasNode(name string) bool {
	name = strings.ToLower(name)
	if isGround(name) {
		return true
	}

	for _, elem := range c.Elements {
		for _, n := range elem.Nodes {
			if n == name {
				return true
			}
		}
	}

	return false
}

/*
	assignNodes numbers the circuit nodes 1..n in order of first
	appearance, with voltage source branch equations after them.
*/
func (c *Circuit) assignNodes() (map[string]int, map[string]int) {
	nodeMap := map[string]int{}
	for _, elem := range c.Elements {
		for _, name := range elem.Nodes {
			if isGround(name) {
				continue
			}
			if _, exists := nodeMap[name]; !exists {
				nodeMap[name] = len(nodeMap) + 1
			}
		}
	}

	branchMap := map[string]int{}
	branch := len(nodeMap) + 1
	for _, elem := range c.Elements {
		if elem.Type == "V" {
			branchMap[elem.Name] = branch
			branch++
		}
	}

	return nodeMap, branchMap
}

func nodeIndex(nodeMap map[string]int, name string) int {
	if isGround(name) {
		return 0
	}

	return nodeMap[name]
}

/*
	stamp adds one element's contribution to the system at omega.
*/
func (e *Element) stamp(m *Matrix, nodeMap, branchMap map[string]int, omega float64) error {
	n1 := nodeIndex(nodeMap, e.Nodes[0])
	n2 := nodeIndex(nodeMap, e.Nodes[1])

	switch e.Type {
	case "R":
		if e.Value == 0 {
			return fmt.Errorf("%s: zero resistance", e.Name)
		}
		stampAdmittance(m, n1, n2, 1.0/e.Value, 0)

	case "C":
		stampAdmittance(m, n1, n2, 0, omega*e.Value)

	case "L":
		if e.Value == 0 || omega == 0 {
			return fmt.Errorf("%s: inductor shorts at dc", e.Name)
		}
		/*
			admittance 1/(jwL) = -j/(wL)
		*/
		stampAdmittance(m, n1, n2, 0, -1.0/(omega*e.Value))

	case "V":
		bIdx := branchMap[e.Name]
		if n1 != 0 {
			m.AddComplexElement(bIdx, n1, 1.0, 0.0)
			m.AddComplexElement(n1, bIdx, 1.0, 0.0)
		}
		if n2 != 0 {
			m.AddComplexElement(bIdx, n2, -1.0, 0.0)
			m.AddComplexElement(n2, bIdx, -1.0, 0.0)
		}

		phaseRad := e.Phase * math.Pi / 180.0
		m.AddComplexRHS(bIdx, e.Value*math.Cos(phaseRad), e.Value*math.Sin(phaseRad))

	default:
		return fmt.Errorf("unsupported element type: %s", e.Name)
	}

	return nil
}

func stampAdmittance(m *Matrix, n1, n2 int, g, b float64) {
	if n1 != 0 {
		m.AddComplexElement(n1, n1, g, b)
	}
	if n2 != 0 {
		m.AddComplexElement(n2, n2, g, b)
	}
	if n1 != 0 && n2 != 0 {
		m.AddComplexElement(n1, n2, -g, -b)
		m.AddComplexElement(n2, n1, -g, -b)
	}
}

/*
	Frequencies expands the sweep into its frequency points.
*/
func (s *Sweep) Frequencies() []float64 {
	if s.Points < 2 {
		return []float64{s.FStart}
	}

	freqs := make([]float64, s.Points)
	switch s.Variation {
	case "DEC":
		logStart := math.Log10(s.FStart)
		logStop := math.Log10(s.FStop)
		step := (logStop - logStart) / float64(s.Points-1)
		for i := range freqs {
			freqs[i] = math.Pow(10, logStart+float64(i)*step)
		}

	case "OCT":
		logStart := math.Log2(s.FStart)
		logStop := math.Log2(s.FStop)
		step := (logStop - logStart) / float64(s.Points-1)
		for i := range freqs {
			freqs[i] = math.Pow(2, logStart+float64(i)*step)
		}

	default:
		step := (s.FStop - s.FStart) / float64(s.Points-1)
		for i := range freqs {
			freqs[i] = s.FStart + float64(i)*step
		}
	}

	return freqs
}

/*
	Run solves the circuit at every sweep frequency. Points where the
	solve failed are returned with nil node voltages so the caller can
	mark them instead of aborting the sweep.
*/
func (c *Circuit) Run() ([]*Point, error) {
	sweep := c.Sweep
	if sweep == nil {
		return nil, fmt.Errorf("no .ac card in netlist")
	}
	if sweep.Variation != "LIN" && (sweep.FStart <= 0 || sweep.FStop <= 0) {
		return nil, fmt.Errorf("log sweep requires positive frequencies")
	}
	if len(c.Elements) == 0 {
		return nil, fmt.Errorf("empty circuit")
	}

	nodeMap, branchMap := c.assignNodes()
	size := len(nodeMap) + len(branchMap)
	if size == 0 {
		return nil, fmt.Errorf("circuit has no ungrounded nodes")
	}

	m, err := NewMatrix(size)
	if err != nil {
		return nil, err
	}
	defer m.Destroy()

	freqs := sweep.Frequencies()
	points := make([]*Point, 0, len(freqs))
	for _, freq := range freqs {
		omega := 2 * math.Pi * freq

		m.Clear()
		for i := range c.Elements {
			if err := c.Elements[i].stamp(m, nodeMap, branchMap, omega); err != nil {
				return nil, fmt.Errorf("stamping error at f=%g: %v", freq, err)
			}
		}

		point := &Point{Freq: freq}
		if err := m.Solve(); err == nil {
			point.Nodes = make(map[string]complex128, len(nodeMap))
			for name, idx := range nodeMap {
				point.Nodes[name] = m.ComplexSolution(idx)
			}
		}

		points = append(points, point)
	}

	return points, nil
}
