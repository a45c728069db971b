package lib

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

/*
	One bill-of-materials line.
*/
type BOMComponent struct {
	Ref       string
	Value     string
	MPN       string
	Qty       int
	Datasheet string
	Model     string
}

/*
	Recognized column headings, lower-cased, mapped to canonical names.
*/
var bomColumns = map[string]string{
	"ref":             "ref",
	"reference":       "ref",
	"designator":      "ref",
	"value":           "value",
	"comment":         "value",
	"mpn":             "mpn",
	"part":            "mpn",
	"part number":     "mpn",
	"qty":             "qty",
	"quantity":        "qty",
	"datasheet":       "datasheet",
	"model":           "model",
	"spice_model_url": "model",
}

/*
	ReadBOM reads a bill of materials in csv, xml or xlsx format,
	dispatching on the file extension.
*/
func ReadBOM(src string) ([]*BOMComponent, error) {
	switch strings.ToLower(filepath.Ext(src)) {
	case ".csv":
		return readBOMCSV(src)
	case ".xml":
		return readBOMXML(src)
	case ".xlsx":
		return readBOMXLSX(src)
	}

	return nil, fmt.Errorf("unsupported BOM format: %s", src)
}

func readBOMCSV(src string) ([]*BOMComponent, error) {
	fp, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	reader := csv.NewReader(fp)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read BOM header: %v", err)
	}
	columns := normalizeColumns(header)

	components := []*BOMComponent{}
	for {
		line, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		component := componentFromRow(line, columns)
		if component.Ref == "" {
			continue
		}

		components = append(components, component)
	}

	return components, nil
}

/*
	A BOM row in xml form. Fields may appear as attributes or as child
	elements; child elements win.
*/
type xmlBOMRow struct {
	RefAttr       string `xml:"ref,attr"`
	ValueAttr     string `xml:"value,attr"`
	MPNAttr       string `xml:"mpn,attr"`
	QtyAttr       string `xml:"qty,attr"`
	DatasheetAttr string `xml:"datasheet,attr"`
	ModelAttr     string `xml:"spice_model_url,attr"`
	Ref           string `xml:"ref"`
	Value         string `xml:"value"`
	MPN           string `xml:"mpn"`
	Qty           string `xml:"qty"`
	Datasheet     string `xml:"datasheet"`
	Model         string `xml:"spice_model_url"`
}

func (r *xmlBOMRow) component() *BOMComponent {
	pick := func(attr, element string) string {
		if element != "" {
			return strings.TrimSpace(element)
		}
		return strings.TrimSpace(attr)
	}

	qty := 1
	if q, err := strconv.Atoi(pick(r.QtyAttr, r.Qty)); err == nil && q > 0 {
		qty = q
	}

	return &BOMComponent{
		Ref:       pick(r.RefAttr, r.Ref),
		Value:     pick(r.ValueAttr, r.Value),
		MPN:       pick(r.MPNAttr, r.MPN),
		Qty:       qty,
		Datasheet: pick(r.DatasheetAttr, r.Datasheet),
		Model:     pick(r.ModelAttr, r.Model),
	}
}

/*
	readBOMXML accepts rows named row, item or component at any depth.
*/
func readBOMXML(src string) ([]*BOMComponent, error) {
	fp, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	components := []*BOMComponent{}
	dec := xml.NewDecoder(fp)
	for {
		token, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "row", "item", "component":
			row := xmlBOMRow{}
			if err := dec.DecodeElement(&row, &start); err != nil {
				continue
			}

			component := row.component()
			if component.Ref == "" {
				continue
			}

			components = append(components, component)
		}
	}

	return components, nil
}

func readBOMXLSX(src string) ([]*BOMComponent, error) {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in workbook: %s", src)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, err
	}

	var columns map[string]int
	components := []*BOMComponent{}
	for rows.Next() {
		row, err := rows.Columns()
		if err != nil {
			continue
		}

		if columns == nil {
			columns = normalizeColumns(row)
			continue
		}

		component := componentFromRow(row, columns)
		if component.Ref == "" {
			continue
		}

		components = append(components, component)
	}

	return components, rows.Close()
}

func normalizeColumns(header []string) map[string]int {
	columns := map[string]int{}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		canonical, ok := bomColumns[name]
		if !ok {
			continue
		}

		if _, seen := columns[canonical]; !seen {
			columns[canonical] = i
		}
	}

	return columns
}

func componentFromRow(row []string, columns map[string]int) *BOMComponent {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	qty := 1
	if q, err := strconv.Atoi(field("qty")); err == nil && q > 0 {
		qty = q
	}

	return &BOMComponent{
		Ref:       field("ref"),
		Value:     field("value"),
		MPN:       field("mpn"),
		Qty:       qty,
		Datasheet: field("datasheet"),
		Model:     field("model"),
	}
}

/*
	WriteBOM writes components back out as csv, one line per component.
*/
func WriteBOM(dst string, components []*BOMComponent) error {
	fp, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer fp.Close()

	writer := csv.NewWriter(fp)
	writer.Write([]string{"Ref", "Value", "MPN", "Qty", "Datasheet", "Model"})
	for _, component := range components {
		writer.Write([]string{
			component.Ref,
			component.Value,
			component.MPN,
			strconv.Itoa(component.Qty),
			component.Datasheet,
			component.Model,
		})
	}

	writer.Flush()
	return writer.Error()
}
