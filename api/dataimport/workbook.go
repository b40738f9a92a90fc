package dataimport

import (
	"bytes"
	"fmt"
	"strings"

	"AqsatiSaaS/internal/config"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ReadWorkbook parses an uploaded spreadsheet and returns its sheet names
// plus a bounded preview (first rows only) per sheet. Read-only; never
// touches the store.
func ReadWorkbook(fileBytes []byte) (*WorkbookSummary, error) {
	sheets, err := parseAllSheets(fileBytes)
	if err != nil {
		return nil, err
	}
	summary := &WorkbookSummary{
		SheetNames: make([]string, 0, len(sheets)),
		Preview:    make(map[string][]map[string]string, len(sheets)),
	}
	for _, s := range sheets {
		summary.SheetNames = append(summary.SheetNames, s.name)
		rows := s.rows
		if len(rows) > config.PreviewRowCount {
			rows = rows[:config.PreviewRowCount]
		}
		summary.Preview[s.name] = rows
	}
	return summary, nil
}

// ReadSheetFull re-parses one sheet without truncation. Import runs call this
// rather than reusing the preview, since the preview is capped.
func ReadSheetFull(fileBytes []byte, sheetName string) ([]map[string]string, error) {
	sheets, err := parseAllSheets(fileBytes)
	if err != nil {
		return nil, err
	}
	for _, s := range sheets {
		if s.name == sheetName {
			return s.rows, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
}

type parsedSheet struct {
	name string
	rows []map[string]string
}

// parseAllSheets tries the xlsx container first, then legacy xls. Cells come
// back as formatted strings, blank cells as "", fully blank rows dropped.
func parseAllSheets(fileBytes []byte) ([]parsedSheet, error) {
	if sheets, err := parseXLSX(fileBytes); err == nil {
		return sheets, nil
	}
	sheets, err := parseLegacyXLS(fileBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: not a recognized spreadsheet container", ErrParse)
	}
	return sheets, nil
}

func parseXLSX(fileBytes []byte) ([]parsedSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := make([]parsedSheet, 0, f.SheetCount)
	for _, name := range f.GetSheetList() {
		raw, err := f.GetRows(name)
		if err != nil {
			return nil, err
		}
		out = append(out, parsedSheet{name: name, rows: rowObjects(raw)})
	}
	return out, nil
}

func parseLegacyXLS(fileBytes []byte) ([]parsedSheet, error) {
	wb, err := xls.OpenReader(bytes.NewReader(fileBytes), "utf-8")
	if err != nil {
		return nil, err
	}
	out := make([]parsedSheet, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		raw := make([][]string, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				raw = append(raw, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol()+1)
			for c := 0; c <= row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			raw = append(raw, cells)
		}
		out = append(out, parsedSheet{name: sheet.Name, rows: rowObjects(raw)})
	}
	return out, nil
}

// rowObjects converts the raw cell grid into header-keyed row objects.
// The first non-blank row is the header; short rows are padded with "".
func rowObjects(raw [][]string) []map[string]string {
	var header []string
	rows := make([]map[string]string, 0, len(raw))
	for _, cells := range raw {
		if allEmptyRow(cells) {
			continue
		}
		if header == nil {
			header = make([]string, len(cells))
			for i, h := range cells {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		obj := make(map[string]string, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			val := ""
			if i < len(cells) {
				val = strings.TrimSpace(cells[i])
			}
			obj[h] = val
		}
		rows = append(rows, obj)
	}
	return rows
}

func allEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
