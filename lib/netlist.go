package lib

import (
	"encoding/xml"
	"os"
)

/*
	KiCad xml netlist export: components and connectivity.
*/

type Netlist struct {
	XMLName    *xml.Name       `xml:"export"`
	Components []*NetComponent `xml:"components>comp"`
	Nets       []*Net          `xml:"nets>net"`
}

type NetComponent struct {
	Ref       string `xml:"ref,attr"`
	Value     string `xml:"value"`
	Footprint string `xml:"footprint"`
}

type Net struct {
	Code  string     `xml:"code,attr"`
	Name  string     `xml:"name,attr"`
	Nodes []*NetNode `xml:"node"`
}

type NetNode struct {
	Ref string `xml:"ref,attr"`
	Pin string `xml:"pin,attr"`
}

/*
	ReadNetlist reads a KiCad xml netlist.
*/
func ReadNetlist(src string) (*Netlist, error) {
	fp, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	netlist := Netlist{}
	dec := xml.NewDecoder(fp)
	if err := dec.Decode(&netlist); err != nil {
		return nil, err
	}

	return &netlist, nil
}

/*
	NetCount returns how many nets a reference participates in.
*/
func (n *Netlist) NetCount(ref string) int {
	count := 0
	for _, net := range n.Nets {
		for _, node := range net.Nodes {
			if node.Ref == ref {
				count++
				break
			}
		}
	}

	return count
}
