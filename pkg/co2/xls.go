package co2

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	xlsx "github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/anrid/xls"
)

// SheetName is the worksheet written by ExportXLSX.
const SheetName = "CO2"

// SheetHeader is the first row of an exported sheet. Prefecture rows
// leave city_id empty; city rows follow their prefecture.
var SheetHeader = []string{"prefecture_id", "city_id", "name", "reduction", "target", "status", "population"}

// ExportXLSX writes the dataset as a single-sheet workbook.
func ExportXLSX(ds *Dataset, w io.Writer) error {
	wb := xlsx.NewFile()
	wb.SetSheetName("Sheet1", SheetName)

	row := 1
	writeRow := func(values ...interface{}) error {
		for col, v := range values {
			cell, err := xlsx.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := wb.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		row++
		return nil
	}

	header := make([]interface{}, len(SheetHeader))
	for i, h := range SheetHeader {
		header[i] = h
	}
	if err := writeRow(header...); err != nil {
		return err
	}

	for _, id := range ds.PrefectureIDs() {
		p := ds.Prefectures[id]
		if err := writeRow(id, "", p.Name, p.Reduction, p.Target, string(p.Status), p.Population); err != nil {
			return err
		}
		for _, cityID := range p.CityIDs() {
			c := p.Cities[cityID]
			if err := writeRow(id, cityID, c.Name, c.Reduction, c.Target, string(c.Status), c.Population); err != nil {
				return err
			}
		}
	}

	if err := wb.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ImportXLSX reads a workbook in the ExportXLSX layout.
func ImportXLSX(r io.Reader) (*Dataset, error) {
	b := newSheetBuilder()
	if err := extractRowsFromXLSX(r, b.add); err != nil {
		return nil, err
	}
	return b.finish()
}

// ImportXLS reads a legacy Excel 97 workbook in the ExportXLSX layout.
func ImportXLS(r io.ReadSeeker) (*Dataset, error) {
	b := newSheetBuilder()
	if err := extractRowsFromXLS(r, b.add); err != nil {
		return nil, err
	}
	return b.finish()
}

func extractRowsFromXLS(r io.ReadSeeker, handler func(row []string) error) error {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return fmt.Errorf("read xls: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return fmt.Errorf("read xls: no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		var cols []string
		for j := 0; j <= row.LastCol(); j++ {
			cols = append(cols, row.Col(j))
		}
		if err := handler(cols); err != nil {
			return err
		}
	}
	return nil
}

func extractRowsFromXLSX(r io.Reader, handler func(row []string) error) error {
	wb, err := xlsx.OpenReader(r)
	if err != nil {
		return fmt.Errorf("read xlsx: %w", err)
	}

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("read xlsx: no sheets")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("read xlsx sheet %q: %w", sheets[0], err)
	}

	for _, row := range rows {
		if err := handler(row); err != nil {
			return err
		}
	}
	return nil
}

// sheetBuilder assembles a dataset from rows in sheet order.
type sheetBuilder struct {
	ds     *Dataset
	line   int
	header bool
	// cities seen before their prefecture row
	pending map[string]map[string]Region
}

func newSheetBuilder() *sheetBuilder {
	return &sheetBuilder{
		ds:      NewDataset(),
		pending: make(map[string]map[string]Region),
	}
}

func (b *sheetBuilder) add(row []string) error {
	b.line++

	mustTrim := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.Trim(row[i], " \n\t\r")
	}

	if !b.header {
		if mustTrim(0) != SheetHeader[0] {
			return fmt.Errorf("line %d: expected header starting with %q", b.line, SheetHeader[0])
		}
		b.header = true
		return nil
	}

	prefID, cityID := mustTrim(0), mustTrim(1)
	if prefID == "" && cityID == "" {
		return nil
	}

	reduction, err := parseFloat(mustTrim(3))
	if err != nil {
		return fmt.Errorf("line %d: reduction: %w", b.line, err)
	}
	target, err := parseFloat(mustTrim(4))
	if err != nil {
		return fmt.Errorf("line %d: target: %w", b.line, err)
	}
	population, err := parseInt(mustTrim(6))
	if err != nil {
		return fmt.Errorf("line %d: population: %w", b.line, err)
	}

	r := Region{
		Name:       mustTrim(2),
		Reduction:  reduction,
		Target:     target,
		Status:     Status(mustTrim(5)),
		Population: population,
	}

	if cityID == "" {
		if _, dup := b.ds.Prefecture(prefID); dup {
			return fmt.Errorf("%w: line %d: duplicate prefecture %q", ErrInvalidDataset, b.line, prefID)
		}
		r.ID = prefID
		p := &Prefecture{Region: r, Cities: b.pending[prefID]}
		delete(b.pending, prefID)
		if p.Cities == nil {
			p.Cities = make(map[string]Region)
		}
		b.ds.Add(p)
		return nil
	}

	r.ID = cityID
	if p, ok := b.ds.Prefecture(prefID); ok {
		if _, dup := p.Cities[cityID]; dup {
			return fmt.Errorf("%w: line %d: duplicate city %q", ErrInvalidDataset, b.line, prefID+"/"+cityID)
		}
		p.Cities[cityID] = r
		return nil
	}
	if _, dup := b.pending[prefID][cityID]; dup {
		return fmt.Errorf("%w: line %d: duplicate city %q", ErrInvalidDataset, b.line, prefID+"/"+cityID)
	}
	if b.pending[prefID] == nil {
		b.pending[prefID] = make(map[string]Region)
	}
	b.pending[prefID][cityID] = r
	return nil
}

func (b *sheetBuilder) finish() (*Dataset, error) {
	if !b.header {
		return nil, fmt.Errorf("%w: empty sheet", ErrInvalidDataset)
	}
	if len(b.pending) > 0 {
		orphans := make([]string, 0, len(b.pending))
		for prefID := range b.pending {
			orphans = append(orphans, prefID)
		}
		sort.Strings(orphans)
		return nil, fmt.Errorf("%w: cities listed for unknown prefecture %q", ErrInvalidDataset, orphans[0])
	}
	if err := b.ds.Validate(); err != nil {
		return nil, err
	}
	return b.ds, nil
}

func parseFloat(v string) (float64, error) {
	if v == "" || v == "-" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

func parseInt(v string) (int64, error) {
	if v == "" || v == "-" {
		return 0, nil
	}
	v = strings.ReplaceAll(v, ",", "")
	n, err := strconv.ParseInt(v, 10, 64)
	if err == nil {
		return n, nil
	}
	// Spreadsheets may hand integers back in float notation.
	f, ferr := strconv.ParseFloat(v, 64)
	if ferr != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a whole number", v)
	}
	return int64(f), nil
}

// importSpreadsheet picks the spreadsheet reader by file extension.
func importSpreadsheet(name string, data []byte) (*Dataset, error) {
	if strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		return ImportXLSX(bytes.NewReader(data))
	}
	return ImportXLS(bytes.NewReader(data))
}
