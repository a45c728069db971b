package spice

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

/*
	A parsed circuit element. For voltage sources Value holds the AC
	magnitude and Phase the AC phase in degrees.
*/
type Element struct {
	Type  string
	Name  string
	Nodes []string
	Value float64
	Phase float64
}

/*
	An AC sweep: DEC, OCT or LIN spacing with Points total points
	between FStart and FStop.
*/
type Sweep struct {
	Variation string
	Points    int
	FStart    float64
	FStop     float64
}

type Circuit struct {
	Title    string
	Elements []Element
	Sweep    *Sweep
}

var unitMap = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"meg": 1e6,
	"Meg": 1e6,
	"MEG": 1e6,
	"K":   1e3,
	"k":   1e3,
	"M":   1e-3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
}

var valuePattern = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|Meg|MEG|[TGMKkmunpf])?s?$`)

/*
	ParseValue parses a number with a spice unit suffix. 1k -> 1000.
*/
func ParseValue(val string) (float64, error) {
	matches := valuePattern.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	if matches[2] != "" {
		if multiplier, ok := unitMap[matches[2]]; ok {
			num *= multiplier
		}
	}

	return num, nil
}

/*
	Parse reads a spice netlist. The first line is the title. Comment
	lines start with "*", continuation lines with "+". Elements are
	limited to R, C, L and V; the only analysis card understood is .ac.
*/
func Parse(input string) (*Circuit, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	ckt := &Circuit{}

	if scanner.Scan() {
		ckt.Title = strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "*"))
	}

	var current string
	flush := func() error {
		if current == "" {
			return nil
		}

		err := ckt.parseLine(current)
		current = ""
		return err
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "*") {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}

		if strings.HasPrefix(line, "+") {
			current += " " + strings.TrimSpace(line[1:])
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		current = line
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return ckt, nil
}

func (c *Circuit) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	if strings.HasPrefix(fields[0], ".") {
		return c.parseCard(fields)
	}

	elem, err := parseElement(fields)
	if err != nil {
		return err
	}

	c.Elements = append(c.Elements, *elem)
	return nil
}

func (c *Circuit) parseCard(fields []string) error {
	switch strings.ToLower(fields[0]) {
	case ".ac":
		if len(fields) < 5 {
			return fmt.Errorf("insufficient .ac parameters, need sweep type, points, fstart and fstop")
		}

		sweep := &Sweep{Variation: strings.ToUpper(fields[1])}
		if sweep.Variation != "DEC" && sweep.Variation != "OCT" && sweep.Variation != "LIN" {
			return fmt.Errorf("invalid sweep type: %s", fields[1])
		}

		var err error
		sweep.Points, err = strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("invalid points number: %v", err)
		}
		sweep.FStart, err = ParseValue(fields[3])
		if err != nil {
			return fmt.Errorf("invalid fstart: %v", err)
		}
		sweep.FStop, err = ParseValue(fields[4])
		if err != nil {
			return fmt.Errorf("invalid fstop: %v", err)
		}

		c.Sweep = sweep

	case ".end", ".ends":

	default:
		/*
			exported netlists carry cards (.save, .probe, .options)
			that do not affect a small-signal sweep
		*/
	}

	return nil
}

func parseElement(fields []string) (*Element, error) {
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid element format: %s", strings.Join(fields, " "))
	}

	elem := &Element{
		Name:  fields[0],
		Type:  strings.ToUpper(fields[0][:1]),
		Nodes: []string{strings.ToLower(fields[1]), strings.ToLower(fields[2])},
	}

	switch elem.Type {
	case "R", "C", "L":
		value, err := ParseValue(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%s: %v", elem.Name, err)
		}
		elem.Value = value

	case "V":
		if err := parseSource(elem, fields[3:]); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported element type: %s", elem.Name)
	}

	return elem, nil
}

/*
	parseSource accepts "DC 5", "AC 1", "AC 1 45" and combinations of
	them. Only the AC magnitude and phase matter for a small-signal
	sweep; a source without an AC specification contributes nothing.
*/
func parseSource(elem *Element, fields []string) error {
	for i := 0; i < len(fields); i++ {
		switch strings.ToUpper(fields[i]) {
		case "AC":
			if i+1 >= len(fields) {
				return fmt.Errorf("%s: missing AC magnitude", elem.Name)
			}

			mag, err := ParseValue(fields[i+1])
			if err != nil {
				return fmt.Errorf("%s: invalid AC magnitude: %v", elem.Name, err)
			}
			elem.Value = mag
			i++

			if i+1 < len(fields) {
				if phase, err := ParseValue(fields[i+1]); err == nil {
					elem.Phase = phase
					i++
				}
			}

		case "DC":
			i++

		default:
		}
	}

	return nil
}
